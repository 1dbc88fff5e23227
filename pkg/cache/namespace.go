package cache

import (
	"fmt"
	"strings"
	"time"
)

// Namespace 키 접두사와 값 타입을 고정한 캐시 뷰입니다.
// 같은 키에는 항상 같은 타입의 값만 저장해야 하며, 다른 타입이 저장되어 있으면 없는 것으로 처리합니다.
type Namespace[V any] struct {
	store  Store
	prefix string
}

// NewNamespace 새로운 네임스페이스를 생성합니다.
func NewNamespace[V any](store Store, prefix string) *Namespace[V] {
	return &Namespace[V]{store: store, prefix: prefix}
}

// Name 네임스페이스 접두사를 반환합니다.
func (n *Namespace[V]) Name() string {
	return n.prefix
}

// Key 접두사와 구성 요소를 ':'로 이어 캐시 키를 만듭니다.
func (n *Namespace[V]) Key(parts ...any) string {
	var b strings.Builder
	b.WriteString(n.prefix)
	for _, p := range parts {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// Pattern 네임스페이스 전체에 일치하는 삭제 패턴을 반환합니다.
func (n *Namespace[V]) Pattern() string {
	return n.prefix + ":*"
}

// Get 캐시된 값을 조회합니다.
func (n *Namespace[V]) Get(key string) (V, bool) {
	v, _, ok := n.Lookup(key)
	return v, ok
}

// Lookup 캐시된 값과 만료 시각을 조회합니다.
func (n *Namespace[V]) Lookup(key string) (V, time.Time, bool) {
	var zero V

	e, ok := n.store.Lookup(key)
	if !ok {
		return zero, time.Time{}, false
	}

	v, ok := e.Value.(V)
	if !ok {
		return zero, time.Time{}, false
	}
	return v, e.ExpireAt, true
}

// Put 값을 ttl 동안 저장합니다.
func (n *Namespace[V]) Put(key string, value V, ttl time.Duration) {
	n.store.Put(key, value, ttl)
}

// PutUntil 값을 기존 만료 시각 그대로 다시 저장합니다.
func (n *Namespace[V]) PutUntil(key string, value V, expireAt time.Time) {
	n.store.PutUntil(key, value, expireAt)
}

// Evict 키를 삭제합니다.
func (n *Namespace[V]) Evict(key string) {
	n.store.Evict(key)
}

// EvictAll 네임스페이스에 속한 모든 키를 삭제합니다.
func (n *Namespace[V]) EvictAll() int {
	return n.store.EvictByPattern(n.Pattern())
}
