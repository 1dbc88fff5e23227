package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/repository"
)

// SeedSource 샘플 데이터 생성에 쓰이는 난수 생성기
type SeedSource interface {
	RandomSource
	InitialPrice() float64
	InitialVolume() int64
	InitialViewCount() int64
}

var sampleStocks = []struct {
	ticker string
	name   string
}{
	{"005930", "삼성전자"},
	{"000660", "SK하이닉스"},
	{"035420", "NAVER"},
	{"035720", "카카오"},
	{"005380", "현대차"},
	{"000270", "기아"},
	{"051910", "LG화학"},
	{"006400", "삼성SDI"},
	{"068270", "셀트리온"},
	{"207940", "삼성바이오로직스"},
}

// SeedUseCase 빈 데이터베이스에 샘플 종목을 채웁니다.
type SeedUseCase struct {
	logger          *zap.Logger
	stockRepository repository.StockRepository
	random          SeedSource
	now             func() time.Time
}

// NewSeedUseCase 새 시드 유스케이스 생성
func NewSeedUseCase(logger *zap.Logger, stockRepo repository.StockRepository, random SeedSource) *SeedUseCase {
	return &SeedUseCase{
		logger:          logger,
		stockRepository: stockRepo,
		random:          random,
		now:             time.Now,
	}
}

// Seed 주식 테이블이 비어 있을 때만 stockCount개 종목과 historyDays일치 가격 이력을 추가합니다.
// 추가한 종목 수를 반환합니다.
func (uc *SeedUseCase) Seed(ctx context.Context, stockCount, historyDays int) (int, error) {
	existing, err := uc.stockRepository.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		uc.logger.Info("Seed skipped, stocks already exist", zap.Int64("count", existing))
		return 0, nil
	}
	if historyDays < 1 {
		historyDays = 1
	}

	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := 0; i < stockCount; i++ {
		ticker, name := sampleIdentity(i)
		stock := &model.Stock{
			Ticker:     ticker,
			Name:       name,
			Prices:     uc.priceHistory(today, historyDays),
			Statistics: uc.statistics(),
		}
		if err := uc.stockRepository.Create(ctx, stock); err != nil {
			return i, err
		}
	}

	uc.logger.Info("Sample stocks seeded", zap.Int("stocks", stockCount), zap.Int("history_days", historyDays))
	return stockCount, nil
}

func (uc *SeedUseCase) priceHistory(today time.Time, days int) []model.StockPrice {
	prices := make([]model.StockPrice, 0, days)
	prev := decimal.NewFromFloat(uc.random.InitialPrice()).Round(0)
	volume := uc.random.InitialVolume()

	for d := days - 1; d >= 0; d-- {
		factor := decimal.NewFromFloat(1 + uc.random.PriceChangeRate()/100)
		price := prev.Mul(factor).Round(4)
		volume = uc.random.Volume(volume)

		prices = append(prices, model.StockPrice{
			Price:         price,
			PreviousPrice: prev,
			PriceDate:     datatypes.Date(today.AddDate(0, 0, -d)),
			Volume:        volume,
		})
		prev = price
	}
	return prices
}

func (uc *SeedUseCase) statistics() *model.StockStatistics {
	return &model.StockStatistics{
		ViewCount:       uc.random.InitialViewCount(),
		BuyOrderVolume:  uc.random.OrderVolume(),
		SellOrderVolume: uc.random.OrderVolume(),
		TurnoverRate:    decimal.NewFromFloat(uc.random.TurnoverRate()).Round(4),
	}
}

func sampleIdentity(i int) (string, string) {
	if i < len(sampleStocks) {
		return sampleStocks[i].ticker, sampleStocks[i].name
	}
	return fmt.Sprintf("A%05d", i+1), fmt.Sprintf("샘플종목 %d", i+1)
}
