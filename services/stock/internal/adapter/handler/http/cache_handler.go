package http

import (
	"github.com/labstack/echo/v4"

	"github.com/grayson061030/stockapi/services/stock/internal/usecase/interfaces"
)

// CacheHandler 캐시 관리 HTTP 핸들러
type CacheHandler struct {
	cacheUseCase interfaces.CacheUseCase
}

// NewCacheHandler 새로운 CacheHandler 인스턴스를 생성합니다
func NewCacheHandler(cacheUseCase interfaces.CacheUseCase) *CacheHandler {
	return &CacheHandler{cacheUseCase: cacheUseCase}
}

// RegisterRoutes Echo 라우터에 핸들러 경로를 등록합니다
func (h *CacheHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/cache")
	g.GET("/stats", h.Stats)
	g.DELETE("", h.Evict)
	g.DELETE("/stocks/:ticker", h.EvictTicker)
}

// Stats 전체/유효/만료 엔트리 수를 반환합니다
func (h *CacheHandler) Stats(c echo.Context) error {
	return respond(c, h.cacheUseCase.Stats())
}

// Evict pattern이 없으면 전체를, 있으면 '*' 패턴에 일치하는 키를 삭제합니다
func (h *CacheHandler) Evict(c echo.Context) error {
	pattern := c.QueryParam("pattern")
	if pattern == "" {
		return respond(c, map[string]any{"removed": h.cacheUseCase.EvictAll()})
	}

	return respond(c, map[string]any{
		"pattern": pattern,
		"removed": h.cacheUseCase.EvictByPattern(pattern),
	})
}

// EvictTicker 종목 상세 캐시와 목록 캐시를 삭제합니다
func (h *CacheHandler) EvictTicker(c echo.Context) error {
	ticker := c.Param("ticker")
	return respond(c, map[string]any{
		"ticker":  ticker,
		"removed": h.cacheUseCase.EvictTicker(ticker),
	})
}
