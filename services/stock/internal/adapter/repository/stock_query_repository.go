package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/repository"
)

// latestPriceJoin joins each stock with its most recent price row only.
const latestPriceJoin = `JOIN stock_prices sp ON sp.stock_id = s.id AND sp.id = (
	SELECT p2.id FROM stock_prices p2
	WHERE p2.stock_id = s.id
	ORDER BY p2.price_date DESC, p2.id DESC
	LIMIT 1
)`

type stockQueryRepository struct {
	db *gorm.DB
}

// NewStockQueryRepository creates the ranking query repository.
func NewStockQueryRepository(db *gorm.DB) repository.StockQueryRepository {
	return &stockQueryRepository{db: db}
}

// FindPopular orders stocks by view count.
func (r *stockQueryRepository) FindPopular(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	return r.rank(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN stock_statistics st ON st.stock_id = s.id")
	}, "st.view_count DESC, s.id ASC")
}

// FindRising returns stocks whose latest price rose, largest rate first.
func (r *stockQueryRepository) FindRising(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	return r.rank(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Joins(latestPriceJoin).
			Where("sp.price > sp.previous_price AND sp.previous_price > 0")
	}, "(sp.price - sp.previous_price) * 1.0 / sp.previous_price DESC, s.id ASC")
}

// FindFalling returns stocks whose latest price fell, largest drop first.
func (r *stockQueryRepository) FindFalling(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	return r.rank(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Joins(latestPriceJoin).
			Where("sp.price < sp.previous_price AND sp.previous_price > 0")
	}, "(sp.previous_price - sp.price) * 1.0 / sp.previous_price DESC, s.id ASC")
}

// FindHighVolume orders stocks by the volume of their latest price.
func (r *stockQueryRepository) FindHighVolume(ctx context.Context, page entity.PageRequest) ([]*model.Stock, int64, error) {
	return r.rank(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Joins(latestPriceJoin)
	}, "sp.volume DESC, s.id ASC")
}

// rank counts the filtered stocks, selects one page of ids in ranking order,
// then loads those stocks with their associations keeping that order.
func (r *stockQueryRepository) rank(ctx context.Context, page entity.PageRequest, scope func(*gorm.DB) *gorm.DB, order string) ([]*model.Stock, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Table("stocks AS s").Scopes(scope)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, domainerrors.DataAccess(err)
	}
	if total == 0 {
		return []*model.Stock{}, 0, nil
	}

	var ids []int64
	err := base().
		Order(order).
		Offset(page.Offset()).
		Limit(page.Size).
		Pluck("s.id", &ids).Error
	if err != nil {
		return nil, 0, domainerrors.DataAccess(err)
	}
	if len(ids) == 0 {
		return []*model.Stock{}, total, nil
	}

	var loaded []*model.Stock
	err = r.db.WithContext(ctx).
		Preload("Prices").
		Preload("Statistics").
		Where("id IN ?", ids).
		Find(&loaded).Error
	if err != nil {
		return nil, 0, domainerrors.DataAccess(err)
	}

	byID := make(map[int64]*model.Stock, len(loaded))
	for _, s := range loaded {
		byID[s.ID] = s
	}

	stocks := make([]*model.Stock, 0, len(ids))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			stocks = append(stocks, s)
		}
	}
	return stocks, total, nil
}
