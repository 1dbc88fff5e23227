package cache

import (
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// compilePattern '*'만 와일드카드로 취급하는 glob 매처를 만듭니다.
// 나머지 메타 문자는 모두 이스케이프되어 문자 그대로 비교됩니다.
func compilePattern(pattern string) (glob.Glob, error) {
	// glob은 룬 단위로 비교하므로 UTF-8이 아닌 패턴은 바이트 단위로 비교합니다.
	if !utf8.ValidString(pattern) {
		return bytePattern(strings.Split(pattern, "*")), nil
	}

	quoted := glob.QuoteMeta(pattern)
	return glob.Compile(strings.ReplaceAll(quoted, `\*`, "*"))
}

// bytePattern '*'로 나뉜 리터럴 조각들. 키 전체가 일치해야 합니다.
type bytePattern []string

func (p bytePattern) Match(key string) bool {
	if len(p) == 1 {
		return key == p[0]
	}

	first, last := p[0], p[len(p)-1]
	if len(key) < len(first)+len(last) || !strings.HasPrefix(key, first) || !strings.HasSuffix(key, last) {
		return false
	}

	rest := key[len(first) : len(key)-len(last)]
	for _, part := range p[1 : len(p)-1] {
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	return true
}
