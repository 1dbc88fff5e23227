package http_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grayson061030/stockapi/pkg/cache"
	"github.com/grayson061030/stockapi/pkg/logger"
	handler "github.com/grayson061030/stockapi/services/stock/internal/adapter/handler/http"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
	"github.com/grayson061030/stockapi/services/stock/internal/usecase/dto"
)

type mockStockUseCase struct {
	mock.Mock
}

func (m *mockStockUseCase) GetStocksByTag(ctx context.Context, tag model.TagType, page entity.PageRequest) (entity.StockPage, error) {
	args := m.Called(ctx, tag, page)
	return args.Get(0).(entity.StockPage), args.Error(1)
}

func (m *mockStockUseCase) GetStockDetail(ctx context.Context, ticker string) (entity.StockDetail, error) {
	args := m.Called(ctx, ticker)
	return args.Get(0).(entity.StockDetail), args.Error(1)
}

func (m *mockStockUseCase) ListTags(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]model.Tag)
	return tags, args.Error(1)
}

func (m *mockStockUseCase) InvalidateCache() int {
	return m.Called().Int(0)
}

type mockCacheUseCase struct {
	mock.Mock
}

func (m *mockCacheUseCase) Stats() cache.Stats {
	return m.Called().Get(0).(cache.Stats)
}

func (m *mockCacheUseCase) EvictAll() int {
	return m.Called().Int(0)
}

func (m *mockCacheUseCase) EvictByPattern(pattern string) int {
	return m.Called(pattern).Int(0)
}

func (m *mockCacheUseCase) EvictTicker(ticker string) int {
	return m.Called(ticker).Int(0)
}

type mockSimulationUseCase struct {
	mock.Mock
}

func (m *mockSimulationUseCase) UpdateRandomStockData(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockSimulationUseCase) UpdateStocksByTag(ctx context.Context, req dto.SimulationRequest) (dto.SimulationResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(dto.SimulationResult), args.Error(1)
}

type envelope struct {
	Success    bool               `json:"success"`
	Data       json.RawMessage    `json:"data"`
	Pagination *entity.Pagination `json:"pagination"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	echo       *echo.Echo
	stocks     *mockStockUseCase
	caches     *mockCacheUseCase
	simulation *mockSimulationUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	e := echo.New()
	logger.WithEchoLogger(e, zap.NewNop(), logger.ErrorHandlerConfig{
		InternalCode:    domainerrors.CodeInternal,
		InternalMessage: "서버 내부 오류가 발생했습니다.",
	})

	s := &testServer{
		echo:       e,
		stocks:     &mockStockUseCase{},
		caches:     &mockCacheUseCase{},
		simulation: &mockSimulationUseCase{},
	}
	handler.NewStockHandler(s.stocks).RegisterRoutes(e)
	handler.NewCacheHandler(s.caches).RegisterRoutes(e)
	handler.NewSimulationHandler(s.simulation).RegisterRoutes(e)
	return s
}

func (s *testServer) do(t *testing.T, method, target string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func TestStockHandler_GetStocksByTag(t *testing.T) {
	t.Run("defaults to popular first page", func(t *testing.T) {
		s := newTestServer(t)
		page := entity.StockPage{
			List:       entity.StockList{Stocks: []entity.StockSummary{{Ticker: "005930", ViewCount: 7}}, Tag: model.TagPopular},
			Pagination: entity.NewPagination(entity.PageRequest{Page: 0, Size: 10}, 1),
		}
		s.stocks.On("GetStocksByTag", mock.Anything, model.TagPopular, entity.PageRequest{Page: 0, Size: 10}).Return(page, nil)

		status, body := s.do(t, nethttp.MethodGet, "/api/v1/stocks")

		assert.Equal(t, nethttp.StatusOK, status)
		assert.True(t, body.Success)
		require.NotNil(t, body.Pagination)
		assert.Equal(t, int64(1), body.Pagination.TotalElements)

		var list entity.StockList
		require.NoError(t, json.Unmarshal(body.Data, &list))
		assert.Equal(t, model.TagPopular, list.Tag)
		assert.Equal(t, "005930", list.Stocks[0].Ticker)
	})

	t.Run("tag is case insensitive", func(t *testing.T) {
		s := newTestServer(t)
		s.stocks.On("GetStocksByTag", mock.Anything, model.TagRising, entity.PageRequest{Page: 2, Size: 5}).
			Return(entity.StockPage{List: entity.StockList{Tag: model.TagRising}}, nil)

		status, _ := s.do(t, nethttp.MethodGet, "/api/v1/stocks?tag=rising&page=2&size=5")

		assert.Equal(t, nethttp.StatusOK, status)
		s.stocks.AssertExpectations(t)
	})

	t.Run("invalid parameters", func(t *testing.T) {
		s := newTestServer(t)

		for _, target := range []string{
			"/api/v1/stocks?size=0",
			"/api/v1/stocks?size=101",
			"/api/v1/stocks?page=-1",
			"/api/v1/stocks?page=abc",
			"/api/v1/stocks?tag=NOPE",
		} {
			status, body := s.do(t, nethttp.MethodGet, target)
			assert.Equal(t, nethttp.StatusBadRequest, status, target)
			require.NotNil(t, body.Error, target)
			assert.Equal(t, "E400", body.Error.Code, target)
		}
		s.stocks.AssertNotCalled(t, "GetStocksByTag", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown tag maps to E401", func(t *testing.T) {
		s := newTestServer(t)
		s.stocks.On("GetStocksByTag", mock.Anything, model.TagUnknown, mock.Anything).
			Return(entity.StockPage{}, domainerrors.ErrInvalidTag.WithMessage("지원하지 않는 태그입니다: UNKNOWN"))

		status, body := s.do(t, nethttp.MethodGet, "/api/v1/stocks?tag=UNKNOWN")

		assert.Equal(t, nethttp.StatusBadRequest, status)
		assert.False(t, body.Success)
		assert.Equal(t, "E401", body.Error.Code)
	})
}

func TestStockHandler_GetStockDetail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s := newTestServer(t)
		detail := entity.StockDetail{
			Stock:        entity.StockSummary{Ticker: "005930", ViewCount: 101},
			PriceHistory: []entity.PriceHistory{{Date: "2024-03-04", Price: 71000}},
		}
		s.stocks.On("GetStockDetail", mock.Anything, "005930").Return(detail, nil)

		status, body := s.do(t, nethttp.MethodGet, "/api/v1/stocks/005930")

		assert.Equal(t, nethttp.StatusOK, status)
		assert.Nil(t, body.Pagination)
		var got entity.StockDetail
		require.NoError(t, json.Unmarshal(body.Data, &got))
		assert.Equal(t, detail, got)
	})

	t.Run("not found", func(t *testing.T) {
		s := newTestServer(t)
		s.stocks.On("GetStockDetail", mock.Anything, "NOPE").
			Return(entity.StockDetail{}, domainerrors.ErrStockNotFound.WithMessage("ID가 NOPE 주식을 찾을 수 없습니다"))

		status, body := s.do(t, nethttp.MethodGet, "/api/v1/stocks/NOPE")

		assert.Equal(t, nethttp.StatusNotFound, status)
		assert.Equal(t, "E404", body.Error.Code)
		assert.Equal(t, "ID가 NOPE 주식을 찾을 수 없습니다", body.Error.Message)
	})

	t.Run("storage failure hides details", func(t *testing.T) {
		s := newTestServer(t)
		s.stocks.On("GetStockDetail", mock.Anything, "005930").
			Return(entity.StockDetail{}, assert.AnError)

		status, body := s.do(t, nethttp.MethodGet, "/api/v1/stocks/005930")

		assert.Equal(t, nethttp.StatusInternalServerError, status)
		assert.Equal(t, "E500", body.Error.Code)
		assert.NotContains(t, body.Error.Message, assert.AnError.Error())
	})
}

func TestCacheHandler(t *testing.T) {
	t.Run("stats", func(t *testing.T) {
		s := newTestServer(t)
		s.caches.On("Stats").Return(cache.Stats{TotalEntries: 3, ValidEntries: 2, ExpiredEntries: 1})

		status, body := s.do(t, nethttp.MethodGet, "/api/v1/cache/stats")

		assert.Equal(t, nethttp.StatusOK, status)
		assert.JSONEq(t, `{"totalEntries":3,"validEntries":2,"expiredEntries":1}`, string(body.Data))
	})

	t.Run("evict all without pattern", func(t *testing.T) {
		s := newTestServer(t)
		s.caches.On("EvictAll").Return(4).Once()

		status, body := s.do(t, nethttp.MethodDelete, "/api/v1/cache")

		assert.Equal(t, nethttp.StatusOK, status)
		assert.JSONEq(t, `{"removed":4}`, string(body.Data))
		s.caches.AssertNotCalled(t, "EvictByPattern", mock.Anything)
	})

	t.Run("evict by pattern", func(t *testing.T) {
		s := newTestServer(t)
		s.caches.On("EvictByPattern", "stock:list:*").Return(2).Once()

		status, body := s.do(t, nethttp.MethodDelete, "/api/v1/cache?pattern=stock:list:*")

		assert.Equal(t, nethttp.StatusOK, status)
		assert.JSONEq(t, `{"pattern":"stock:list:*","removed":2}`, string(body.Data))
	})

	t.Run("evict ticker", func(t *testing.T) {
		s := newTestServer(t)
		s.caches.On("EvictTicker", "005930").Return(3).Once()

		status, _ := s.do(t, nethttp.MethodDelete, "/api/v1/cache/stocks/005930")

		assert.Equal(t, nethttp.StatusOK, status)
		s.caches.AssertExpectations(t)
	})
}

func TestSimulationHandler_UpdateData(t *testing.T) {
	t.Run("all stocks without tag", func(t *testing.T) {
		s := newTestServer(t)
		s.simulation.On("UpdateRandomStockData", mock.Anything).Return(50, nil)

		status, body := s.do(t, nethttp.MethodPost, "/api/v1/test/update-data")

		assert.Equal(t, nethttp.StatusOK, status)
		var data map[string]any
		require.NoError(t, json.Unmarshal(body.Data, &data))
		assert.Equal(t, float64(50), data["updatedCount"])
	})

	t.Run("tag with defaults", func(t *testing.T) {
		s := newTestServer(t)
		want := dto.SimulationRequest{TagType: model.TagRising, Count: 10, MinRate: 5, MaxRate: 20}
		s.simulation.On("UpdateStocksByTag", mock.Anything, want).
			Return(dto.SimulationResult{Tag: model.TagRising, UpdatedCount: 2, Tickers: []string{"A", "B"}, MinRate: 5, MaxRate: 20}, nil)

		status, body := s.do(t, nethttp.MethodPost, "/api/v1/test/update-data?tagType=RISING")

		assert.Equal(t, nethttp.StatusOK, status)
		var data map[string]any
		require.NoError(t, json.Unmarshal(body.Data, &data))
		assert.Equal(t, "RISING", data["tag"])
		assert.Equal(t, float64(2), data["updatedCount"])
	})

	t.Run("max rate below min rate", func(t *testing.T) {
		s := newTestServer(t)

		status, body := s.do(t, nethttp.MethodPost, "/api/v1/test/update-data?tagType=RISING&minRate=30&maxRate=10")

		assert.Equal(t, nethttp.StatusBadRequest, status)
		assert.Equal(t, "E400", body.Error.Code)
		assert.Contains(t, body.Error.Message, "maxRate")
	})

	t.Run("count out of range", func(t *testing.T) {
		s := newTestServer(t)

		status, _ := s.do(t, nethttp.MethodPost, "/api/v1/test/update-data?tagType=VOLUME&count=51")

		assert.Equal(t, nethttp.StatusBadRequest, status)
		s.simulation.AssertNotCalled(t, "UpdateStocksByTag", mock.Anything, mock.Anything)
	})
}
