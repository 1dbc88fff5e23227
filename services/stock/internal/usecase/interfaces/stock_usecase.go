package interfaces

import (
	"context"

	"github.com/grayson061030/stockapi/pkg/cache"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/dto"
)

// StockUseCase 주식 조회 유스케이스 인터페이스
type StockUseCase interface {
	// GetStocksByTag 태그별 주식 목록을 조회합니다 (캐시 60초)
	GetStocksByTag(ctx context.Context, tag model.TagType, page entity.PageRequest) (entity.StockPage, error)

	// GetStockDetail 조회수를 증가시키고 주식 상세 정보를 반환합니다 (캐시 30초)
	GetStockDetail(ctx context.Context, ticker string) (entity.StockDetail, error)

	// ListTags 조회 가능한 태그 목록을 반환합니다
	ListTags(ctx context.Context) ([]model.Tag, error)

	// InvalidateCache 주식 관련 캐시를 모두 삭제합니다
	InvalidateCache() int
}

// CacheUseCase 캐시 관리 유스케이스 인터페이스
type CacheUseCase interface {
	Stats() cache.Stats
	EvictAll() int
	EvictByPattern(pattern string) int
	EvictTicker(ticker string) int
}

// SimulationUseCase 테스트용 데이터 변동 유스케이스 인터페이스
type SimulationUseCase interface {
	// UpdateRandomStockData 모든 주식 데이터를 랜덤하게 변경하고 변경된 종목 수를 반환합니다
	UpdateRandomStockData(ctx context.Context) (int, error)

	// UpdateStocksByTag 태그 기준으로 고른 종목을 지정한 범위에서 변경합니다
	UpdateStocksByTag(ctx context.Context, req dto.SimulationRequest) (dto.SimulationResult, error)
}
