package http

import (
	"github.com/labstack/echo/v4"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/interfaces"
)

// StockSearchRequest 태그별 목록 조회 파라미터
type StockSearchRequest struct {
	Tag  string `query:"tag"`
	Page int    `query:"page" json:"page" validate:"min=0"`
	Size int    `query:"size" json:"size" validate:"min=1,max=100"`
}

// StockHandler 주식 조회 HTTP 핸들러
type StockHandler struct {
	stockUseCase interfaces.StockUseCase
}

// NewStockHandler 새로운 StockHandler 인스턴스를 생성합니다
func NewStockHandler(stockUseCase interfaces.StockUseCase) *StockHandler {
	return &StockHandler{stockUseCase: stockUseCase}
}

// RegisterRoutes Echo 라우터에 핸들러 경로를 등록합니다
func (h *StockHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/stocks", h.GetStocksByTag)
	g.GET("/stocks/:ticker", h.GetStockDetail)
	g.GET("/tags", h.ListTags)
}

// GetStocksByTag 태그별 주식 목록을 반환합니다
// @Summary 태그별 주식 목록 조회
// @Tags stocks
// @Produce json
// @Param tag query string false "POPULAR, RISING, FALLING, VOLUME" default(POPULAR)
// @Param page query int false "페이지 번호 (0부터)" default(0)
// @Param size query int false "페이지 크기 (1~100)" default(10)
// @Router /api/v1/stocks [get]
func (h *StockHandler) GetStocksByTag(c echo.Context) error {
	req := StockSearchRequest{
		Tag:  string(model.TagPopular),
		Page: entity.DefaultPage,
		Size: entity.DefaultPageSize,
	}
	if err := bindQuery(c, &req); err != nil {
		return err
	}

	tag, err := model.ParseTagType(req.Tag)
	if err != nil {
		return domainerrors.ErrInvalidRequest.WithMessage("tag: 잘못된 태그 값입니다: %s", req.Tag)
	}

	result, err := h.stockUseCase.GetStocksByTag(c.Request().Context(), tag, entity.PageRequest{Page: req.Page, Size: req.Size})
	if err != nil {
		return err
	}

	return respondPage(c, result.List, result.Pagination)
}

// GetStockDetail 주식 상세 정보와 가격 이력을 반환합니다
// @Summary 주식 상세 조회
// @Tags stocks
// @Produce json
// @Param ticker path string true "종목 코드"
// @Router /api/v1/stocks/{ticker} [get]
func (h *StockHandler) GetStockDetail(c echo.Context) error {
	ticker := c.Param("ticker")
	if ticker == "" {
		return domainerrors.ErrInvalidRequest.WithMessage("종목 코드가 필요합니다")
	}

	detail, err := h.stockUseCase.GetStockDetail(c.Request().Context(), ticker)
	if err != nil {
		return err
	}

	return respond(c, detail)
}

// ListTags 조회 가능한 태그 목록을 반환합니다
func (h *StockHandler) ListTags(c echo.Context) error {
	tags, err := h.stockUseCase.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, tags)
}
