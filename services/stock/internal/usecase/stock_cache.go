package usecase

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/grayson061030/stockapi/pkg/cache"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/constants"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/interfaces"
)

// EvictionRecorder 캐시 삭제 건수를 수집합니다.
type EvictionRecorder interface {
	Evicted(reason string, n int)
}

type nopEvictionRecorder struct{}

func (nopEvictionRecorder) Evicted(string, int) {}

// CacheOptions 주식 캐시 설정
type CacheOptions struct {
	ListTTL   time.Duration
	DetailTTL time.Duration
	Coalesce  bool
	Recorder  cache.Recorder
	Evictions EvictionRecorder
}

// ListCacheKey 태그별 목록 캐시 키
func ListCacheKey(tag model.TagType, page, size int) string {
	return fmt.Sprintf("%s:%s:%d:%d", constants.ListCachePrefix, tag, page, size)
}

// DetailCacheKey 주식 상세 캐시 키
func DetailCacheKey(ticker string) string {
	return constants.DetailCachePrefix + ":" + ticker
}

// StockCache 목록/상세 read-through 캐시와 무효화를 묶은 캐시 유스케이스 구현체
type StockCache struct {
	logger    *zap.Logger
	store     cache.Store
	lists     *cache.ReadThrough[entity.StockPage]
	details   *cache.ReadThrough[entity.StockDetail]
	evictions EvictionRecorder
}

// NewStockCache 공유 저장소 위에 주식 캐시를 생성합니다.
func NewStockCache(logger *zap.Logger, store cache.Store, opts CacheOptions) *StockCache {
	if opts.ListTTL <= 0 {
		opts.ListTTL = constants.ListCacheTTL
	}
	if opts.DetailTTL <= 0 {
		opts.DetailTTL = constants.DetailCacheTTL
	}
	if opts.Evictions == nil {
		opts.Evictions = nopEvictionRecorder{}
	}

	rtOpts := []cache.ReadThroughOption{
		cache.WithCoalescing(opts.Coalesce),
		cache.WithRecorder(opts.Recorder),
	}

	return &StockCache{
		logger:    logger,
		store:     store,
		lists:     cache.NewReadThrough(cache.NewNamespace[entity.StockPage](store, constants.ListCachePrefix), opts.ListTTL, rtOpts...),
		details:   cache.NewReadThrough(cache.NewNamespace[entity.StockDetail](store, constants.DetailCachePrefix), opts.DetailTTL, rtOpts...),
		evictions: opts.Evictions,
	}
}

var _ interfaces.CacheUseCase = (*StockCache)(nil)

// Stats 저장소 통계를 반환합니다.
func (c *StockCache) Stats() cache.Stats {
	return c.store.Stats()
}

// EvictAll 모든 캐시 엔트리를 삭제합니다.
func (c *StockCache) EvictAll() int {
	n := c.store.EvictAll()
	c.evictions.Evicted(constants.EvictReasonAll, n)
	c.logger.Info("All stock caches invalidated", zap.Int("removed", n))
	return n
}

// EvictByPattern '*' 와일드카드 패턴에 일치하는 엔트리를 삭제합니다.
func (c *StockCache) EvictByPattern(pattern string) int {
	n := c.store.EvictByPattern(pattern)
	c.evictions.Evicted(constants.EvictReasonPattern, n)
	c.logger.Info("Stock caches evicted by pattern", zap.String("pattern", pattern), zap.Int("removed", n))
	return n
}

// EvictTicker 종목의 상세 캐시와 모든 목록 페이지를 삭제합니다.
func (c *StockCache) EvictTicker(ticker string) int {
	n := 0
	key := DetailCacheKey(ticker)
	if c.store.Exists(key) {
		c.store.Evict(key)
		n++
	}
	n += c.lists.Namespace().EvictAll()

	c.evictions.Evicted(constants.EvictReasonTicker, n)
	c.logger.Info("Stock caches evicted for ticker", zap.String("ticker", ticker), zap.Int("removed", n))
	return n
}
