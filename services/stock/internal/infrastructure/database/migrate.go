package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
)

var defaultTags = []model.Tag{
	{Name: model.TagPopular, Description: "조회수가 많은 인기 종목"},
	{Name: model.TagRising, Description: "가격 상승률이 높은 종목"},
	{Name: model.TagFalling, Description: "가격 하락률이 높은 종목"},
	{Name: model.TagVolume, Description: "거래량이 많은 종목"},
}

// Migrate runs database migrations and inserts the reference tags.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Stock{},
		&model.StockPrice{},
		&model.StockStatistics{},
		&model.Tag{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	tags := make([]model.Tag, len(defaultTags))
	copy(tags, defaultTags)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error; err != nil {
		logger.Error("Failed to insert tags", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
