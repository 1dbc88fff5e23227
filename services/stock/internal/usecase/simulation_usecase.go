package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/grayson061030/stockapi/pkg/messaging"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/repository"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/constants"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/dto"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/interfaces"
)

// RandomSource 시뮬레이션에 쓰이는 난수 생성기
type RandomSource interface {
	RateInRange(minRate, maxRate int) float64
	PriceChangeRate() float64
	Volume(base int64) int64
	ViewCountIncrease() int64
	OrderVolume() int64
	TurnoverRate() float64
}

// SimulationConfig 시뮬레이션 설정
type SimulationConfig struct {
	// EventChannel 변경 이벤트를 발행할 채널
	EventChannel string
	// InstanceID 이벤트에 실어 보내는 발행 인스턴스 ID
	InstanceID string
	// Now 가격 일자 계산에 쓰는 시계, nil이면 time.Now
	Now func() time.Time
}

// SimulationUseCase 테스트용 데이터 변동 유스케이스 구현체
type SimulationUseCase struct {
	logger          *zap.Logger
	config          SimulationConfig
	stockRepository repository.StockRepository
	random          RandomSource
	cache           interfaces.CacheUseCase
	publisher       messaging.Publisher
}

// NewSimulationUseCase 새 시뮬레이션 유스케이스 생성
func NewSimulationUseCase(
	logger *zap.Logger,
	config SimulationConfig,
	stockRepo repository.StockRepository,
	random RandomSource,
	cacheUseCase interfaces.CacheUseCase,
	publisher messaging.Publisher,
) interfaces.SimulationUseCase {
	if config.Now == nil {
		config.Now = time.Now
	}
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}

	return &SimulationUseCase{
		logger:          logger,
		config:          config,
		stockRepository: stockRepo,
		random:          random,
		cache:           cacheUseCase,
		publisher:       publisher,
	}
}

// UpdateRandomStockData 모든 주식의 가격, 거래량, 통계를 랜덤하게 변경합니다.
func (uc *SimulationUseCase) UpdateRandomStockData(ctx context.Context) (int, error) {
	stocks, err := uc.stockRepository.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	today := uc.today()
	updates := make([]repository.StockUpdate, 0, len(stocks))
	for _, stock := range stocks {
		latest := stock.LatestPrice()
		if latest == nil || stock.Statistics == nil {
			return 0, domainerrors.ErrInternal.WithMessage("주식 가격 또는 통계 정보가 없습니다: %s", stock.Name)
		}

		stats := *stock.Statistics
		stats.ViewCount += uc.random.ViewCountIncrease()
		stats.BuyOrderVolume = uc.random.OrderVolume()
		stats.SellOrderVolume = uc.random.OrderVolume()
		stats.TurnoverRate = decimal.NewFromFloat(uc.random.TurnoverRate()).Round(4)

		updates = append(updates, repository.StockUpdate{
			StockID:    stock.ID,
			NewPrice:   nextPrice(latest, uc.random.PriceChangeRate(), uc.random.Volume(latest.Volume), today),
			Statistics: &stats,
		})
	}

	if err := uc.stockRepository.ApplyUpdates(ctx, updates); err != nil {
		return 0, err
	}

	removed := uc.cache.EvictAll()
	uc.logger.Info("Random stock data updated",
		zap.Int("updated", len(updates)),
		zap.Int("cache_removed", removed),
	)

	uc.publish(ctx, map[string]any{"updatedCount": len(updates)})
	return len(updates), nil
}

// UpdateStocksByTag 태그 기준으로 고른 종목을 [MinRate, MaxRate] 범위에서 변경합니다.
func (uc *SimulationUseCase) UpdateStocksByTag(ctx context.Context, req dto.SimulationRequest) (dto.SimulationResult, error) {
	if !req.TagType.Supported() {
		return dto.SimulationResult{}, domainerrors.ErrInvalidTag.WithMessage("지원하지 않는 태그입니다: %s", req.TagType)
	}
	if req.MaxRate < req.MinRate {
		return dto.SimulationResult{}, domainerrors.ErrInvalidRequest.WithMessage("최대 변동률은 최소 변동률보다 크거나 같아야 합니다")
	}

	stocks, err := uc.stockRepository.FindAll(ctx)
	if err != nil {
		return dto.SimulationResult{}, err
	}

	targets := selectStocks(stocks, req.TagType, req.Count)
	uc.logger.Info("Tag simulation started", zap.Stringer("tag", req.TagType), zap.Int("count", len(targets)))

	today := uc.today()
	updates := make([]repository.StockUpdate, 0, len(targets))
	tickers := make([]string, 0, len(targets))
	for _, stock := range targets {
		update, err := uc.tagUpdate(stock, req, today)
		if err != nil {
			return dto.SimulationResult{}, err
		}
		updates = append(updates, update)
		tickers = append(tickers, stock.Ticker)
	}

	if err := uc.stockRepository.ApplyUpdates(ctx, updates); err != nil {
		return dto.SimulationResult{}, err
	}

	removed := uc.cache.EvictAll()
	uc.logger.Info("Tag simulation finished",
		zap.Stringer("tag", req.TagType),
		zap.Int("updated", len(updates)),
		zap.Int("cache_removed", removed),
	)

	uc.publish(ctx, map[string]any{
		"tag":          req.TagType.String(),
		"updatedCount": len(updates),
		"tickers":      tickers,
	})

	return dto.SimulationResult{
		Tag:          req.TagType,
		UpdatedCount: len(updates),
		Tickers:      tickers,
		MinRate:      req.MinRate,
		MaxRate:      req.MaxRate,
	}, nil
}

func (uc *SimulationUseCase) tagUpdate(stock *model.Stock, req dto.SimulationRequest, today time.Time) (repository.StockUpdate, error) {
	update := repository.StockUpdate{StockID: stock.ID}
	rate := uc.random.RateInRange(req.MinRate, req.MaxRate)

	if req.TagType == model.TagPopular {
		if stock.Statistics == nil {
			return update, domainerrors.ErrInternal.WithMessage("주식 통계 정보가 없습니다: %s", stock.Name)
		}
		stats := *stock.Statistics
		stats.ViewCount += int64(float64(stats.ViewCount) * rate / 100)
		update.Statistics = &stats
		return update, nil
	}

	latest := stock.LatestPrice()
	if latest == nil {
		return update, domainerrors.ErrInternal.WithMessage("주식 가격 정보가 없습니다: %s", stock.Name)
	}

	switch req.TagType {
	case model.TagRising:
		update.NewPrice = nextPrice(latest, rate, uc.random.Volume(latest.Volume), today)
	case model.TagFalling:
		update.NewPrice = nextPrice(latest, -rate, uc.random.Volume(latest.Volume), today)
	case model.TagVolume:
		volume := int64(float64(latest.Volume) * (1 + rate/100))
		update.NewPrice = nextPrice(latest, uc.random.PriceChangeRate(), volume, today)
	}
	return update, nil
}

func (uc *SimulationUseCase) today() time.Time {
	now := uc.config.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// publish 발행 실패는 변경 결과에 영향을 주지 않습니다.
func (uc *SimulationUseCase) publish(ctx context.Context, data map[string]any) {
	if uc.config.EventChannel == "" {
		return
	}
	data[constants.EventFieldInstance] = uc.config.InstanceID
	event := messaging.NewEvent(constants.EventStockDataUpdated, data)
	if err := uc.publisher.Publish(ctx, uc.config.EventChannel, event); err != nil {
		uc.logger.Warn("Failed to publish stock update event",
			zap.String("channel", uc.config.EventChannel),
			zap.Error(err),
		)
	}
}

// nextPrice latest 대비 ratePercent 만큼 변동한 새 가격을 만듭니다.
func nextPrice(latest *model.StockPrice, ratePercent float64, volume int64, day time.Time) *model.StockPrice {
	factor := decimal.NewFromFloat(1 + ratePercent/100)
	return &model.StockPrice{
		StockID:       latest.StockID,
		Price:         latest.Price.Mul(factor).Round(4),
		PreviousPrice: latest.Price,
		PriceDate:     datatypes.Date(day),
		Volume:        volume,
	}
}

// selectStocks 태그 기준으로 정렬/필터링한 뒤 최대 count개를 고릅니다.
func selectStocks(stocks []*model.Stock, tag model.TagType, count int) []*model.Stock {
	selected := make([]*model.Stock, 0, len(stocks))

	switch tag {
	case model.TagPopular:
		selected = append(selected, stocks...)
		sort.SliceStable(selected, func(i, j int) bool {
			return viewCountOf(selected[i]) > viewCountOf(selected[j])
		})
	case model.TagRising, model.TagFalling:
		for _, s := range stocks {
			latest := s.LatestPrice()
			if latest == nil {
				continue
			}
			cmp := latest.Price.Cmp(latest.PreviousPrice)
			if (tag == model.TagRising && cmp > 0) || (tag == model.TagFalling && cmp < 0) {
				selected = append(selected, s)
			}
		}
	case model.TagVolume:
		selected = append(selected, stocks...)
		sort.SliceStable(selected, func(i, j int) bool {
			return latestVolumeOf(selected[i]) > latestVolumeOf(selected[j])
		})
	}

	if count < 0 {
		count = 0
	}
	if count < len(selected) {
		selected = selected[:count]
	}
	return selected
}

func viewCountOf(s *model.Stock) int64 {
	if s.Statistics == nil {
		return 0
	}
	return s.Statistics.ViewCount
}

func latestVolumeOf(s *model.Stock) int64 {
	if p := s.LatestPrice(); p != nil {
		return p.Volume
	}
	return 0
}
