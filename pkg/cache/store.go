// Package cache는 단일 프로세스용 인메모리 TTL 캐시와 read-through 헬퍼를 제공합니다.
//
// 캐시는 휘발성이며 best-effort 입니다. 엔트리 개수 제한(LRU 등)은 없고
// 만료된 엔트리는 조회 시점(lazy)과 주기적인 sweep 양쪽에서 제거됩니다.
package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// 기본 설정값
const (
	DefaultTTL           = 300 * time.Second
	DefaultSweepInterval = 300 * time.Second
)

// Store 캐시 저장소 인터페이스
type Store interface {
	// Put 값을 ttl 동안 저장합니다. ttl이 0 이하이면 기본 TTL을 사용합니다.
	Put(key string, value any, ttl time.Duration)
	// PutUntil 값을 지정한 절대 만료 시각까지 저장합니다.
	PutUntil(key string, value any, expireAt time.Time)
	// Get 살아있는 값을 반환합니다. 만료된 엔트리는 이 호출에서 제거됩니다.
	Get(key string) (any, bool)
	// Lookup Get과 같지만 엔트리(만료 시각 포함)를 반환합니다.
	Lookup(key string) (Entry, bool)
	// Exists 값 노출 없이 살아있는 엔트리 존재 여부를 반환합니다.
	Exists(key string) bool
	// Evict 키를 삭제합니다. 없는 키는 무시합니다.
	Evict(key string)
	// EvictAll 모든 엔트리를 삭제하고 삭제된 개수를 반환합니다.
	EvictAll() int
	// EvictByPattern '*' 와일드카드 패턴에 전체 일치하는 키를 삭제합니다.
	EvictByPattern(pattern string) int
	// Stats 현재 시점의 엔트리 통계를 반환합니다. 부수 효과가 없습니다.
	Stats() Stats
}

// Entry 캐시 엔트리. 저장소가 소유하며 제자리에서 수정되지 않습니다.
type Entry struct {
	Value    any
	ExpireAt time.Time
}

func (e Entry) liveAt(now time.Time) bool {
	return now.Before(e.ExpireAt)
}

// Stats 캐시 통계 정보
type Stats struct {
	TotalEntries   int `json:"totalEntries"`
	ValidEntries   int `json:"validEntries"`
	ExpiredEntries int `json:"expiredEntries"`
}

// Config 캐시 저장소 설정
type Config struct {
	// DefaultTTL Put에 ttl이 지정되지 않았을 때 사용할 TTL
	DefaultTTL time.Duration
	// SweepInterval 만료 엔트리 정리 주기. 0 이하이면 백그라운드 정리를 하지 않습니다.
	SweepInterval time.Duration
}

// Option MemoryStore 생성 옵션
type Option func(*MemoryStore)

// WithLogger 로거를 설정합니다.
func WithLogger(logger *zap.Logger) Option {
	return func(s *MemoryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock 현재 시각 함수를 교체합니다. 주로 테스트에서 사용합니다.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// MemoryStore map 기반 TTL 캐시 저장소입니다.
// 모든 연산은 하나의 RWMutex로 동기화되며 여러 고루틴에서 동시에 사용할 수 있습니다.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry

	defaultTTL    time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 캐시 저장소를 생성하고, 설정된 경우 백그라운드 sweep을 시작합니다.
// 사용이 끝나면 Close를 호출해야 합니다.
func NewMemoryStore(cfg Config, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries:       make(map[string]Entry),
		defaultTTL:    cfg.DefaultTTL,
		sweepInterval: cfg.SweepInterval,
		now:           time.Now,
		logger:        zap.NewNop(),
	}
	if s.defaultTTL <= 0 {
		s.defaultTTL = DefaultTTL
	}

	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if s.sweepInterval > 0 {
		s.wg.Add(1)
		go s.sweepLoop(ctx)
	}

	return s
}

// Close 백그라운드 sweep을 중지합니다. 여러 번 호출해도 안전합니다.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
	return nil
}

// Put 캐시에 데이터를 저장합니다.
func (s *MemoryStore) Put(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	s.PutUntil(key, value, s.now().Add(ttl))
	s.logger.Debug("Cache put", zap.String("key", key), zap.Duration("ttl", ttl))
}

// PutUntil 기존 엔트리를 통째로 교체합니다.
func (s *MemoryStore) PutUntil(key string, value any, expireAt time.Time) {
	s.mu.Lock()
	s.entries[key] = Entry{Value: value, ExpireAt: expireAt}
	s.mu.Unlock()
}

// Get 캐시에서 데이터를 조회합니다.
func (s *MemoryStore) Get(key string) (any, bool) {
	e, ok := s.Lookup(key)
	if !ok {
		return nil, false
	}
	return e.Value, true
}

// Lookup 캐시 엔트리를 조회합니다. 만료된 엔트리를 발견하면 삭제하고 없는 것으로 처리합니다.
func (s *MemoryStore) Lookup(key string) (Entry, bool) {
	now := s.now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return Entry{}, false
	}

	if !e.liveAt(now) {
		s.removeIfExpired(key, now)
		s.logger.Debug("Cache expired", zap.String("key", key))
		return Entry{}, false
	}

	s.logger.Debug("Cache hit", zap.String("key", key))
	return e, true
}

// Exists 캐시에 데이터가 존재하는지 확인합니다.
func (s *MemoryStore) Exists(key string) bool {
	now := s.now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	if !e.liveAt(now) {
		s.removeIfExpired(key, now)
		return false
	}
	return true
}

// Evict 캐시 데이터를 삭제합니다.
func (s *MemoryStore) Evict(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	s.logger.Debug("Cache evict", zap.String("key", key))
}

// EvictAll 모든 캐시 데이터를 삭제합니다.
func (s *MemoryStore) EvictAll() int {
	s.mu.Lock()
	count := len(s.entries)
	s.entries = make(map[string]Entry)
	s.mu.Unlock()

	s.logger.Debug("Cache evict all", zap.Int("count", count))
	return count
}

// EvictByPattern 패턴에 일치하는 키를 가진 캐시를 삭제합니다.
// 잘못된 패턴은 아무 것도 삭제하지 않습니다.
func (s *MemoryStore) EvictByPattern(pattern string) int {
	matcher, err := compilePattern(pattern)
	if err != nil {
		s.logger.Warn("Invalid cache key pattern",
			zap.String("pattern", pattern),
			zap.Error(err),
		)
		return 0
	}

	removed := 0
	for _, key := range s.keys() {
		if !matcher.Match(key) {
			continue
		}
		if s.remove(key) {
			removed++
		}
	}

	s.logger.Debug("Cache evict by pattern",
		zap.String("pattern", pattern),
		zap.Int("count", removed),
	)
	return removed
}

// Stats 캐시 통계 정보를 조회합니다.
func (s *MemoryStore) Stats() Stats {
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{TotalEntries: len(s.entries)}
	for _, e := range s.entries {
		if !e.liveAt(now) {
			stats.ExpiredEntries++
		}
	}
	stats.ValidEntries = stats.TotalEntries - stats.ExpiredEntries
	return stats
}

// Sweep 만료된 캐시 데이터를 정리하고 삭제된 개수를 반환합니다.
// 만료 키 목록을 먼저 모은 뒤 키 단위로 삭제하므로 전체 스캔 동안 쓰기 잠금을 잡지 않습니다.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.RLock()
	expired := make([]string, 0)
	for key, e := range s.entries {
		if !e.liveAt(now) {
			expired = append(expired, key)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, key := range expired {
		if s.removeIfExpired(key, now) {
			removed++
		}
	}

	if removed > 0 {
		s.logger.Debug("Cache cleanup", zap.Int("removed", removed))
	}
	return removed
}

func (s *MemoryStore) keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

func (s *MemoryStore) remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

// removeIfExpired 잠금을 다시 잡은 뒤 만료 여부를 재확인합니다.
// 그 사이 새로 Put된 엔트리는 지우지 않습니다.
func (s *MemoryStore) removeIfExpired(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.liveAt(now) {
		return false
	}
	delete(s.entries, key)
	return true
}
