package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgerrors "github.com/grayson061030/stockapi/pkg/errors"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/repository"
)

type stockRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStockRepository creates a GORM backed stock repository.
func NewStockRepository(db *gorm.DB, logger *zap.Logger) repository.StockRepository {
	return &stockRepository{db: db, logger: logger}
}

func (r *stockRepository) FindByTicker(ctx context.Context, ticker string) (*model.Stock, error) {
	var stock model.Stock
	err := r.db.WithContext(ctx).
		Preload("Prices").
		Preload("Statistics").
		Where("ticker = ?", ticker).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrStockNotFound.WithMessage("ID가 %s 주식을 찾을 수 없습니다", ticker)
		}
		return nil, domainerrors.DataAccess(err)
	}
	return &stock, nil
}

func (r *stockRepository) FindAll(ctx context.Context) ([]*model.Stock, error) {
	var stocks []*model.Stock
	err := r.db.WithContext(ctx).
		Preload("Prices").
		Preload("Statistics").
		Order("id").
		Find(&stocks).Error
	if err != nil {
		return nil, domainerrors.DataAccess(err)
	}
	return stocks, nil
}

func (r *stockRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Stock{}).Count(&count).Error; err != nil {
		return 0, domainerrors.DataAccess(err)
	}
	return count, nil
}

// IncrementViewCount increments the counter with a single UPDATE so concurrent readers never lose an increment.
func (r *stockRepository) IncrementViewCount(ctx context.Context, ticker string) (int64, error) {
	var viewCount int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stock model.Stock
		if err := tx.Select("id").Where("ticker = ?", ticker).Take(&stock).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrStockNotFound.WithMessage("ID가 %s 주식을 찾을 수 없습니다", ticker)
			}
			return err
		}

		res := tx.Model(&model.StockStatistics{}).
			Where("stock_id = ?", stock.ID).
			Updates(map[string]any{
				"view_count": gorm.Expr("view_count + ?", 1),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 통계 행이 없으면 조회수는 0으로 취급합니다
			viewCount = 0
			return nil
		}

		return tx.Model(&model.StockStatistics{}).
			Select("view_count").
			Where("stock_id = ?", stock.ID).
			Scan(&viewCount).Error
	})
	if err != nil {
		var appErr *pkgerrors.AppError
		if errors.As(err, &appErr) {
			return 0, err
		}
		return 0, domainerrors.DataAccess(err)
	}

	return viewCount, nil
}

func (r *stockRepository) Create(ctx context.Context, stock *model.Stock) error {
	if err := r.db.WithContext(ctx).Create(stock).Error; err != nil {
		return domainerrors.DataAccess(err)
	}
	return nil
}

func (r *stockRepository) ApplyUpdates(ctx context.Context, updates []repository.StockUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			if u.NewPrice != nil {
				u.NewPrice.StockID = u.StockID
				if err := tx.Create(u.NewPrice).Error; err != nil {
					return err
				}
			}

			if s := u.Statistics; s != nil {
				err := tx.Model(&model.StockStatistics{}).
					Where("stock_id = ?", u.StockID).
					Updates(map[string]any{
						"view_count":        s.ViewCount,
						"buy_order_volume":  s.BuyOrderVolume,
						"sell_order_volume": s.SellOrderVolume,
						"turnover_rate":     s.TurnoverRate,
						"updated_at":        now,
					}).Error
				if err != nil {
					return err
				}
			}

			if err := tx.Model(&model.Stock{}).Where("id = ?", u.StockID).Update("updated_at", now).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domainerrors.DataAccess(err)
	}

	r.logger.Debug("Stock updates applied", zap.Int("count", len(updates)))
	return nil
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a GORM backed tag repository.
func NewTagRepository(db *gorm.DB) repository.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindAll(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, domainerrors.DataAccess(err)
	}
	return tags, nil
}
