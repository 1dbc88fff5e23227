package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/grayson061030/stockapi/pkg/cache"
	"github.com/grayson061030/stockapi/pkg/messaging"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/repository"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase"
)

type mockStockRepository struct {
	mock.Mock
}

func (m *mockStockRepository) FindByTicker(ctx context.Context, ticker string) (*model.Stock, error) {
	args := m.Called(ctx, ticker)
	s, _ := args.Get(0).(*model.Stock)
	return s, args.Error(1)
}

func (m *mockStockRepository) FindAll(ctx context.Context) ([]*model.Stock, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]*model.Stock)
	return s, args.Error(1)
}

func (m *mockStockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStockRepository) IncrementViewCount(ctx context.Context, ticker string) (int64, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStockRepository) Create(ctx context.Context, stock *model.Stock) error {
	return m.Called(ctx, stock).Error(0)
}

func (m *mockStockRepository) ApplyUpdates(ctx context.Context, updates []repository.StockUpdate) error {
	return m.Called(ctx, updates).Error(0)
}

type mockQueryRepository struct {
	mock.Mock
}

func (m *mockQueryRepository) find(method string, ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	args := m.MethodCalled(method, ctx, page)
	s, _ := args.Get(0).([]*model.Stock)
	return s, args.Get(1).(int64), args.Error(2)
}

func (m *mockQueryRepository) FindPopular(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	return m.find("FindPopular", ctx, page)
}

func (m *mockQueryRepository) FindRising(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	return m.find("FindRising", ctx, page)
}

func (m *mockQueryRepository) FindFalling(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	return m.find("FindFalling", ctx, page)
}

func (m *mockQueryRepository) FindHighVolume(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	return m.find("FindHighVolume", ctx, page)
}

type mockTagRepository struct {
	mock.Mock
}

func (m *mockTagRepository) FindAll(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]model.Tag)
	return t, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, event messaging.Event) error {
	return m.Called(ctx, channel, event).Error(0)
}

type recordedEviction struct {
	reason string
	n      int
}

type evictionLog struct {
	mu      sync.Mutex
	entries []recordedEviction
}

func (l *evictionLog) Evicted(reason string, n int) {
	l.mu.Lock()
	l.entries = append(l.entries, recordedEviction{reason, n})
	l.mu.Unlock()
}

// fixedRandom 항상 같은 값을 돌려주는 난수 생성기
type fixedRandom struct{}

func (fixedRandom) RateInRange(minRate, _ int) float64 { return float64(minRate) }
func (fixedRandom) PriceChangeRate() float64           { return 1 }
func (fixedRandom) Volume(base int64) int64            { return base + 1 }
func (fixedRandom) ViewCountIncrease() int64           { return 10 }
func (fixedRandom) OrderVolume() int64                 { return 50000 }
func (fixedRandom) TurnoverRate() float64              { return 2.5 }
func (fixedRandom) InitialPrice() float64              { return 10000 }
func (fixedRandom) InitialVolume() int64               { return 1000 }
func (fixedRandom) InitialViewCount() int64            { return 5 }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	clock   *testClock
	store   *cache.MemoryStore
	cache   *usecase.StockCache
	evicted *evictionLog
	stocks  *mockStockRepository
	queries *mockQueryRepository
	tags    *mockTagRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	store := cache.NewMemoryStore(cache.Config{}, cache.WithClock(clock.Now))
	t.Cleanup(func() { _ = store.Close() })

	evicted := &evictionLog{}
	return &fixture{
		clock:   clock,
		store:   store,
		cache:   usecase.NewStockCache(zap.NewNop(), store, usecase.CacheOptions{Coalesce: true, Evictions: evicted}),
		evicted: evicted,
		stocks:  &mockStockRepository{},
		queries: &mockQueryRepository{},
		tags:    &mockTagRepository{},
	}
}

func (f *fixture) stockUseCase() *usecase.StockUseCase {
	return usecase.NewStockUseCase(zap.NewNop(), f.stocks, f.queries, f.tags, f.cache).(*usecase.StockUseCase)
}

func newStock(id int64, ticker string, price, previous float64, volume, views int64) *model.Stock {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	return &model.Stock{
		ID:     id,
		Ticker: ticker,
		Name:   "종목 " + ticker,
		Prices: []model.StockPrice{
			{
				ID:            id*10 + 1,
				StockID:       id,
				Price:         decimal.NewFromFloat(previous),
				PreviousPrice: decimal.NewFromFloat(previous),
				PriceDate:     datatypes.Date(day.AddDate(0, 0, -1)),
				Volume:        volume,
			},
			{
				ID:            id*10 + 2,
				StockID:       id,
				Price:         decimal.NewFromFloat(price),
				PreviousPrice: decimal.NewFromFloat(previous),
				PriceDate:     datatypes.Date(day),
				Volume:        volume,
			},
		},
		Statistics: &model.StockStatistics{
			StockID:         id,
			ViewCount:       views,
			BuyOrderVolume:  20000,
			SellOrderVolume: 15000,
			TurnoverRate:    decimal.NewFromFloat(1.5),
		},
	}
}
