package repository

import (
	"context"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
)

// StockRepository is the source of truth for stocks.
type StockRepository interface {
	// FindByTicker loads a stock with its prices and statistics.
	// Returns errors.ErrStockNotFound when the ticker does not exist.
	FindByTicker(ctx context.Context, ticker string) (*model.Stock, error)

	// FindAll loads every stock with prices and statistics.
	FindAll(ctx context.Context) ([]*model.Stock, error)

	// Count returns the number of stocks.
	Count(ctx context.Context) (int64, error)

	// IncrementViewCount atomically increments the view counter and returns the new value.
	// A stock without a statistics row reports 0 and is left unchanged.
	IncrementViewCount(ctx context.Context, ticker string) (int64, error)

	// Create inserts a stock together with its prices and statistics.
	Create(ctx context.Context, stock *model.Stock) error

	// ApplyUpdates persists a batch of simulated changes in one transaction.
	ApplyUpdates(ctx context.Context, updates []StockUpdate) error
}

// StockUpdate is a set of changes to apply to one stock.
type StockUpdate struct {
	StockID int64
	// NewPrice is appended to the price history when set.
	NewPrice *model.StockPrice
	// Statistics replaces the stored counters when set.
	Statistics *model.StockStatistics
}

// StockQueryRepository runs the ranking queries behind tag lists.
type StockQueryRepository interface {
	FindPopular(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error)
	FindRising(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error)
	FindFalling(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error)
	FindHighVolume(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error)
}

// TagRepository reads tag metadata.
type TagRepository interface {
	FindAll(ctx context.Context) ([]model.Tag, error)
}
