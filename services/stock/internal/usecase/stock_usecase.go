package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/repository"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/interfaces"
)

// StockUseCase 주식 조회 유스케이스 구현체
type StockUseCase struct {
	logger          *zap.Logger
	stockRepository repository.StockRepository
	queryRepository repository.StockQueryRepository
	tagRepository   repository.TagRepository
	cache           *StockCache
}

// NewStockUseCase 새 주식 조회 유스케이스 생성
func NewStockUseCase(
	logger *zap.Logger,
	stockRepo repository.StockRepository,
	queryRepo repository.StockQueryRepository,
	tagRepo repository.TagRepository,
	stockCache *StockCache,
) interfaces.StockUseCase {
	return &StockUseCase{
		logger:          logger,
		stockRepository: stockRepo,
		queryRepository: queryRepo,
		tagRepository:   tagRepo,
		cache:           stockCache,
	}
}

// GetStocksByTag 태그별 주식 목록을 조회합니다.
func (uc *StockUseCase) GetStocksByTag(ctx context.Context, tag model.TagType, page entity.PageRequest) (entity.StockPage, error) {
	if !tag.Supported() {
		return entity.StockPage{}, domainerrors.ErrInvalidTag.WithMessage("지원하지 않는 태그입니다: %s", tag)
	}
	if page.Page < 0 || page.Size < 1 || page.Size > entity.MaxPageSize {
		return entity.StockPage{}, domainerrors.ErrInvalidRequest.WithMessage("잘못된 페이지 요청입니다: page=%d, size=%d", page.Page, page.Size)
	}

	key := ListCacheKey(tag, page.Page, page.Size)
	return uc.cache.lists.Get(ctx, key, func(ctx context.Context) (entity.StockPage, error) {
		uc.logger.Debug("Cache miss for tag list", zap.String("key", key))
		return uc.loadStockPage(ctx, tag, page)
	})
}

func (uc *StockUseCase) loadStockPage(ctx context.Context, tag model.TagType, page entity.PageRequest) (entity.StockPage, error) {
	var (
		stocks []*model.Stock
		total  int64
		err    error
	)

	switch tag {
	case model.TagPopular:
		stocks, total, err = uc.queryRepository.FindPopular(ctx, page)
	case model.TagRising:
		stocks, total, err = uc.queryRepository.FindRising(ctx, page)
	case model.TagFalling:
		stocks, total, err = uc.queryRepository.FindFalling(ctx, page)
	case model.TagVolume:
		stocks, total, err = uc.queryRepository.FindHighVolume(ctx, page)
	default:
		return entity.StockPage{}, domainerrors.ErrInvalidTag.WithMessage("지원하지 않는 태그입니다: %s", tag)
	}
	if err != nil {
		return entity.StockPage{}, err
	}

	summaries := make([]entity.StockSummary, 0, len(stocks))
	for _, s := range stocks {
		summary, ok := entity.NewStockSummary(s)
		if !ok {
			uc.logger.Warn("Stock without price skipped", zap.String("ticker", s.Ticker))
			continue
		}
		summaries = append(summaries, summary)
	}

	return entity.StockPage{
		List:       entity.StockList{Stocks: summaries, Tag: tag},
		Pagination: entity.NewPagination(page, total),
	}, nil
}

// GetStockDetail 조회수를 증가시키고 주식 상세 정보를 반환합니다.
// 조회수는 캐시 적중 여부와 상관없이 항상 증가하며, 적중 시 캐시된 스냅샷의 조회수만 갱신합니다.
func (uc *StockUseCase) GetStockDetail(ctx context.Context, ticker string) (entity.StockDetail, error) {
	viewCount, err := uc.stockRepository.IncrementViewCount(ctx, ticker)
	if err != nil {
		return entity.StockDetail{}, err
	}

	key := DetailCacheKey(ticker)
	res, err := uc.cache.details.Fetch(ctx, key, func(ctx context.Context) (entity.StockDetail, error) {
		uc.logger.Debug("Cache miss for stock detail", zap.String("key", key))
		return uc.loadStockDetail(ctx, ticker)
	})
	if err != nil {
		return entity.StockDetail{}, err
	}

	detail := res.Value
	// 동시 조회로 더 큰 값이 이미 반영되어 있으면 되돌리지 않습니다.
	if viewCount <= detail.Stock.ViewCount {
		return detail, nil
	}

	detail = detail.WithViewCount(viewCount)
	if res.Hit {
		uc.logger.Debug("Cache hit for stock detail", zap.String("key", key), zap.Int64("view_count", viewCount))
		uc.cache.details.Namespace().PutUntil(key, detail, res.ExpireAt)
	}
	return detail, nil
}

func (uc *StockUseCase) loadStockDetail(ctx context.Context, ticker string) (entity.StockDetail, error) {
	stock, err := uc.stockRepository.FindByTicker(ctx, ticker)
	if err != nil {
		return entity.StockDetail{}, err
	}

	summary, ok := entity.NewStockSummary(stock)
	if !ok {
		return entity.StockDetail{}, domainerrors.ErrResourceNotFound.WithMessage("주식 가격 정보가 없습니다: %s", ticker)
	}

	return entity.StockDetail{
		Stock:        summary,
		PriceHistory: entity.NewPriceHistory(stock),
	}, nil
}

// ListTags 조회 가능한 태그 목록을 반환합니다.
func (uc *StockUseCase) ListTags(ctx context.Context) ([]model.Tag, error) {
	return uc.tagRepository.FindAll(ctx)
}

// InvalidateCache 주식 데이터가 변경되면 관련 캐시를 모두 삭제합니다.
func (uc *StockUseCase) InvalidateCache() int {
	return uc.cache.EvictAll()
}
