package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	pkgerrors "github.com/grayson061030/stockapi/pkg/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/adapter/repository"
	"github.com/grayson061030/stockapi/services/stock/internal/config"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	domainrepo "github.com/grayson061030/stockapi/services/stock/internal/domain/repository"
	"github.com/grayson061030/stockapi/services/stock/internal/infrastructure/database"
)

var today = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	log := zap.NewNop()
	db, err := database.NewConnection(&config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		Path:     fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		LogLevel: "silent",
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db, log) })

	require.NoError(t, database.Migrate(db, log))
	return db
}

func newStock(ticker string, previous, price float64, volume, views int64) *model.Stock {
	return &model.Stock{
		Ticker: ticker,
		Name:   "종목 " + ticker,
		Prices: []model.StockPrice{
			{
				Price:         decimal.NewFromFloat(previous),
				PreviousPrice: decimal.NewFromFloat(previous),
				PriceDate:     datatypes.Date(today.AddDate(0, 0, -1)),
				Volume:        volume / 2,
			},
			{
				Price:         decimal.NewFromFloat(price),
				PreviousPrice: decimal.NewFromFloat(previous),
				PriceDate:     datatypes.Date(today),
				Volume:        volume,
			},
		},
		Statistics: &model.StockStatistics{
			ViewCount:       views,
			BuyOrderVolume:  20000,
			SellOrderVolume: 10000,
			TurnoverRate:    decimal.NewFromFloat(1.25),
		},
	}
}

// seedMarket A +10%, B +5%, C -10%, D -5%
func seedMarket(t *testing.T, repo domainrepo.StockRepository) {
	t.Helper()
	ctx := context.Background()
	for _, s := range []*model.Stock{
		newStock("A", 100, 110, 500, 10),
		newStock("B", 100, 105, 900, 30),
		newStock("C", 100, 90, 100, 20),
		newStock("D", 200, 190, 300, 5),
	} {
		require.NoError(t, repo.Create(ctx, s))
	}
}

func tickers(stocks []*model.Stock) []string {
	out := make([]string, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, s.Ticker)
	}
	return out
}

func TestStockRepository_FindByTicker(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewStockRepository(newTestDB(t), zap.NewNop())
	seedMarket(t, repo)

	t.Run("loads associations", func(t *testing.T) {
		s, err := repo.FindByTicker(ctx, "A")
		require.NoError(t, err)

		assert.Len(t, s.Prices, 2)
		require.NotNil(t, s.Statistics)
		assert.Equal(t, int64(10), s.Statistics.ViewCount)

		latest := s.LatestPrice()
		require.NotNil(t, latest)
		assert.True(t, decimal.NewFromInt(110).Equal(latest.Price), latest.Price.String())
	})

	t.Run("unknown ticker", func(t *testing.T) {
		_, err := repo.FindByTicker(ctx, "ZZZ")
		assert.True(t, pkgerrors.Is(err, domainerrors.ErrStockNotFound))
	})

	t.Run("count and find all", func(t *testing.T) {
		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D"}, tickers(all))
	})
}

func TestStockRepository_IncrementViewCount(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewStockRepository(newTestDB(t), zap.NewNop())
	seedMarket(t, repo)

	t.Run("returns the new value", func(t *testing.T) {
		v, err := repo.IncrementViewCount(ctx, "B")
		require.NoError(t, err)
		assert.Equal(t, int64(31), v)

		v, err = repo.IncrementViewCount(ctx, "B")
		require.NoError(t, err)
		assert.Equal(t, int64(32), v)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.IncrementViewCount(ctx, "C")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		s, err := repo.FindByTicker(ctx, "C")
		require.NoError(t, err)
		assert.Equal(t, int64(40), s.Statistics.ViewCount)
	})

	t.Run("unknown ticker", func(t *testing.T) {
		_, err := repo.IncrementViewCount(ctx, "ZZZ")
		assert.True(t, pkgerrors.Is(err, domainerrors.ErrStockNotFound))
	})

	t.Run("stock without statistics reports zero", func(t *testing.T) {
		bare := newStock("E", 100, 101, 50, 0)
		bare.Statistics = nil
		require.NoError(t, repo.Create(ctx, bare))

		v, err := repo.IncrementViewCount(ctx, "E")
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)

		s, err := repo.FindByTicker(ctx, "E")
		require.NoError(t, err)
		assert.Nil(t, s.Statistics)
	})
}

func TestStockRepository_ApplyUpdates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewStockRepository(newTestDB(t), zap.NewNop())
	seedMarket(t, repo)

	a, err := repo.FindByTicker(ctx, "A")
	require.NoError(t, err)

	stats := *a.Statistics
	stats.ViewCount = 999
	err = repo.ApplyUpdates(ctx, []domainrepo.StockUpdate{{
		StockID: a.ID,
		NewPrice: &model.StockPrice{
			Price:         decimal.NewFromInt(121),
			PreviousPrice: decimal.NewFromInt(110),
			PriceDate:     datatypes.Date(today),
			Volume:        700,
		},
		Statistics: &stats,
	}})
	require.NoError(t, err)

	a, err = repo.FindByTicker(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, a.Prices, 3)
	assert.True(t, decimal.NewFromInt(121).Equal(a.LatestPrice().Price), "same-day price inserted later wins")
	assert.Equal(t, int64(999), a.Statistics.ViewCount)

	assert.NoError(t, repo.ApplyUpdates(ctx, nil))
}

func TestStockQueryRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedMarket(t, repository.NewStockRepository(db, zap.NewNop()))
	queries := repository.NewStockQueryRepository(db)
	firstPage := entity.PageRequest{Page: 0, Size: 10}

	t.Run("popular", func(t *testing.T) {
		stocks, total, err := queries.FindPopular(ctx, firstPage)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []string{"B", "C", "A", "D"}, tickers(stocks))
	})

	t.Run("popular second page", func(t *testing.T) {
		stocks, total, err := queries.FindPopular(ctx, entity.PageRequest{Page: 1, Size: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []string{"D"}, tickers(stocks))
	})

	t.Run("rising", func(t *testing.T) {
		stocks, total, err := queries.FindRising(ctx, firstPage)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []string{"A", "B"}, tickers(stocks))
	})

	t.Run("falling", func(t *testing.T) {
		stocks, total, err := queries.FindFalling(ctx, firstPage)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []string{"C", "D"}, tickers(stocks))
	})

	t.Run("volume", func(t *testing.T) {
		stocks, total, err := queries.FindHighVolume(ctx, firstPage)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []string{"B", "A", "D", "C"}, tickers(stocks))
	})

	t.Run("page past the end", func(t *testing.T) {
		stocks, total, err := queries.FindRising(ctx, entity.PageRequest{Page: 5, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Empty(t, stocks)
	})
}

func TestTagRepository_FindAll(t *testing.T) {
	tags, err := repository.NewTagRepository(newTestDB(t)).FindAll(context.Background())
	require.NoError(t, err)

	names := make([]model.TagType, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, model.TagTypes, names)
}
