package http

import (
	"fmt"

	"github.com/labstack/echo/v4"

	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/dto"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/interfaces"
)

// SimulationQuery 데이터 변동 요청 파라미터
type SimulationQuery struct {
	TagType string `query:"tagType"`
	Count   int    `query:"count" validate:"min=1,max=50"`
	MinRate int    `query:"minRate" validate:"min=1,max=100"`
	MaxRate int    `query:"maxRate" validate:"min=1,max=100,gtefield=MinRate"`
}

// SimulationHandler 테스트용 데이터 변동 HTTP 핸들러
type SimulationHandler struct {
	simulationUseCase interfaces.SimulationUseCase
}

// NewSimulationHandler 새로운 SimulationHandler 인스턴스를 생성합니다
func NewSimulationHandler(simulationUseCase interfaces.SimulationUseCase) *SimulationHandler {
	return &SimulationHandler{simulationUseCase: simulationUseCase}
}

// RegisterRoutes Echo 라우터에 핸들러 경로를 등록합니다
func (h *SimulationHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/test/update-data", h.UpdateData)
}

// UpdateData tagType이 없으면 모든 종목을, 있으면 해당 태그 기준으로 고른 종목을 변경합니다
// @Summary 테스트 데이터 변동
// @Tags test
// @Produce json
// @Param tagType query string false "POPULAR, RISING, FALLING, VOLUME"
// @Param count query int false "변경할 종목 수 (1~50)" default(10)
// @Param minRate query int false "최소 변동률 (%)" default(5)
// @Param maxRate query int false "최대 변동률 (%)" default(20)
// @Router /api/v1/test/update-data [post]
func (h *SimulationHandler) UpdateData(c echo.Context) error {
	defaults := dto.DefaultSimulationRequest("")
	q := SimulationQuery{Count: defaults.Count, MinRate: defaults.MinRate, MaxRate: defaults.MaxRate}
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if q.TagType == "" {
		updated, err := h.simulationUseCase.UpdateRandomStockData(ctx)
		if err != nil {
			return err
		}
		return respond(c, map[string]any{
			"updatedCount": updated,
			"message":      fmt.Sprintf("총 %d개 주식 데이터가 랜덤하게 업데이트되었습니다.", updated),
		})
	}

	tag, err := model.ParseTagType(q.TagType)
	if err != nil {
		return domainerrors.ErrInvalidRequest.WithMessage("tagType: 잘못된 태그 값입니다: %s", q.TagType)
	}

	res, err := h.simulationUseCase.UpdateStocksByTag(ctx, dto.SimulationRequest{
		TagType: tag,
		Count:   q.Count,
		MinRate: q.MinRate,
		MaxRate: q.MaxRate,
	})
	if err != nil {
		return err
	}

	return respond(c, map[string]any{
		"tag":          res.Tag,
		"updatedCount": res.UpdatedCount,
		"tickers":      res.Tickers,
		"minRate":      res.MinRate,
		"maxRate":      res.MaxRate,
		"message": fmt.Sprintf("%s 태그에 대해 %d개 주식 데이터가 변동률 %d%%~%d%% 범위에서 업데이트되었습니다.",
			res.Tag, res.UpdatedCount, res.MinRate, res.MaxRate),
	})
}
