package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/grayson061030/stockapi/pkg/logger"
)

// Server HTTP 서버 구조체입니다.
type Server struct {
	echo        *echo.Echo
	logger      *zap.Logger
	addr        string
	registry    *prometheus.Registry
	errorConfig logger.ErrorHandlerConfig
}

// ServerOption Server 생성을 위한 옵션 함수 타입입니다.
type ServerOption func(*Server)

// WithAddr 서버 주소(host:port)를 설정하는 옵션입니다.
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger 로거를 설정하는 옵션입니다.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry HTTP 메트릭을 등록하고 /metrics로 노출할 레지스트리를 설정하는 옵션입니다.
func WithRegistry(registry *prometheus.Registry) ServerOption {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithErrorConfig 분류되지 않은 에러의 응답 코드와 메시지를 설정하는 옵션입니다.
func WithErrorConfig(cfg logger.ErrorHandlerConfig) ServerOption {
	return func(s *Server) {
		s.errorConfig = cfg
	}
}

// NewServer HTTP 서버를 생성합니다.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		echo:   echo.New(),
		logger: zap.NewNop(),
		addr:   ":8080",
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true

	logger.WithEchoLogger(e, s.logger, s.errorConfig)

	// 미들웨어 설정
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logger.NewEchoRequestLogger(s.logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "stock_http",
		Registerer: s.registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.registry,
	}))

	return s
}

// RegisterRoutes 핸들러를 등록하는 함수를 받아 실행합니다.
func (s *Server) RegisterRoutes(registerFunc func(e *echo.Echo)) {
	registerFunc(s.echo)
}

// Start 서버를 시작합니다. 정상 종료 시 http.ErrServerClosed를 반환합니다.
func (s *Server) Start() error {
	s.logger.Info("HTTP 서버 시작", zap.String("addr", s.addr))
	return s.echo.Start(s.addr)
}

// Shutdown 서버를 안전하게 종료합니다.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP 서버 종료 중...")
	return s.echo.Shutdown(ctx)
}

// GetEcho 내부 Echo 인스턴스를 반환합니다.
func (s *Server) GetEcho() *echo.Echo {
	return s.echo
}
