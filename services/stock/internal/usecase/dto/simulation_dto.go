package dto

import "github.com/grayson061030/stockapi/services/stock/internal/domain/model"

// SimulationRequest 태그별 데이터 변동 요청
type SimulationRequest struct {
	TagType model.TagType `json:"tagType" validate:"required"`
	Count   int           `json:"count" validate:"min=1,max=50"`
	MinRate int           `json:"minRate" validate:"min=1,max=100"`
	MaxRate int           `json:"maxRate" validate:"min=1,max=100,gtefield=MinRate"`
}

// DefaultSimulationRequest 쿼리 파라미터가 없을 때 사용하는 기본값
func DefaultSimulationRequest(tag model.TagType) SimulationRequest {
	return SimulationRequest{TagType: tag, Count: 10, MinRate: 5, MaxRate: 20}
}

// SimulationResult 태그별 변동 결과
type SimulationResult struct {
	Tag          model.TagType `json:"tag"`
	UpdatedCount int           `json:"updatedCount"`
	Tickers      []string      `json:"tickers"`
	MinRate      int           `json:"minRate"`
	MaxRate      int           `json:"maxRate"`
}
