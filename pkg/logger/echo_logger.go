package logger

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grayson061030/stockapi/pkg/errors"
)

// NewEchoRequestLogger는 Echo 서버를 위한 Request Logger를 생성합니다.
// 상태 코드에 따라 Info(2xx/3xx), Warn(4xx), Error(5xx) 레벨로 기록합니다.
func NewEchoRequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		// 헬스체크와 메트릭 수집 요청은 기록하지 않습니다
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || p == "/metrics"
		},
		HandleError: true,

		LogLatency:      true,
		LogRemoteIP:     true,
		LogMethod:       true,
		LogURI:          true,
		LogRoutePath:    true,
		LogRequestID:    true,
		LogUserAgent:    true,
		LogStatus:       true,
		LogError:        true,
		LogResponseSize: true,
		LogQueryParams:  []string{"tag", "page", "size", "tagType", "count", "pattern"},

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.remote_ip", v.RemoteIP),
				zap.String("request.method", v.Method),
				zap.String("request.uri", v.URI),
				zap.String("request.route", v.RoutePath),
				zap.String("request.user_agent", v.UserAgent),
				zap.String("request.request_id", v.RequestID),
				zap.Int("response.status", v.Status),
				zap.Duration("response.latency", v.Latency),
				zap.Int64("response.size", v.ResponseSize),
			}
			if len(v.QueryParams) > 0 {
				fields = append(fields, zap.Any("request.query_params", v.QueryParams))
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}

			switch {
			case v.Status >= http.StatusInternalServerError:
				logger.Error("Server error", fields...)
			case v.Status >= http.StatusBadRequest:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
			return nil
		},
	})
}

// ErrorHandlerConfig는 분류되지 않은 에러에 사용할 응답 코드와 메시지입니다.
type ErrorHandlerConfig struct {
	InternalCode    string
	InternalMessage string
}

// WithEchoLogger는 Echo의 Logger와 에러 핸들러를 zap 기반으로 교체합니다.
// 에러 응답 본문은 {"success":false,"error":{"code":...,"message":...}} 형식입니다.
func WithEchoLogger(e *echo.Echo, logger *zap.Logger, cfg ErrorHandlerConfig) {
	e.Logger = NewEchoZapLogger(logger)

	if cfg.InternalCode == "" {
		cfg.InternalCode = errors.ErrInternal
	}
	if cfg.InternalMessage == "" {
		cfg.InternalMessage = http.StatusText(http.StatusInternalServerError)
	}

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// RequestLogger(HandleError)가 먼저 처리한 에러는 다시 기록하지 않습니다
		if c.Response().Committed {
			return
		}

		status, body := errors.ToErrorResponse(err, cfg.InternalCode, cfg.InternalMessage)

		errors.LogError(logger, err, "HTTP error",
			zap.Int("status", status),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("ip", c.RealIP()),
		)

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("Failed to send error response", zap.Error(err))
		}
	}
}

// EchoZapLogger는 echo.Logger 인터페이스를 구현한 zap 로거 래퍼입니다.
// 출력 대상, 헤더, 프리픽스 설정은 zap 설정을 따르므로 무시됩니다.
type EchoZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// NewEchoZapLogger는 새로운 EchoZapLogger를 생성합니다.
func NewEchoZapLogger(logger *zap.Logger) *EchoZapLogger {
	named := logger.Named("echo")
	return &EchoZapLogger{logger: named, sugar: named.Sugar()}
}

func (l *EchoZapLogger) Output() io.Writer      { return &zapWriter{logger: l.logger} }
func (l *EchoZapLogger) SetOutput(io.Writer)    {}
func (l *EchoZapLogger) SetHeader(string)       {}
func (l *EchoZapLogger) Prefix() string         { return "" }
func (l *EchoZapLogger) SetPrefix(string)       {}
func (l *EchoZapLogger) SetLevel(log.Lvl)       {}
func (l *EchoZapLogger) Print(i ...interface{}) { l.sugar.Info(i...) }

// Level은 zap 코어에 활성화된 최소 레벨을 echo 레벨로 반환합니다.
func (l *EchoZapLogger) Level() log.Lvl {
	core := l.logger.Core()
	switch {
	case core.Enabled(zapcore.DebugLevel):
		return log.DEBUG
	case core.Enabled(zapcore.InfoLevel):
		return log.INFO
	case core.Enabled(zapcore.WarnLevel):
		return log.WARN
	case core.Enabled(zapcore.ErrorLevel):
		return log.ERROR
	default:
		return log.OFF
	}
}

func (l *EchoZapLogger) Printf(format string, i ...interface{}) { l.sugar.Infof(format, i...) }
func (l *EchoZapLogger) Printj(j log.JSON)                      { l.logger.Info("echo", zap.Any("json", j)) }
func (l *EchoZapLogger) Debug(i ...interface{})                 { l.sugar.Debug(i...) }
func (l *EchoZapLogger) Debugf(format string, i ...interface{}) { l.sugar.Debugf(format, i...) }
func (l *EchoZapLogger) Debugj(j log.JSON)                      { l.logger.Debug("echo", zap.Any("json", j)) }
func (l *EchoZapLogger) Info(i ...interface{})                  { l.sugar.Info(i...) }
func (l *EchoZapLogger) Infof(format string, i ...interface{})  { l.sugar.Infof(format, i...) }
func (l *EchoZapLogger) Infoj(j log.JSON)                       { l.logger.Info("echo", zap.Any("json", j)) }
func (l *EchoZapLogger) Warn(i ...interface{})                  { l.sugar.Warn(i...) }
func (l *EchoZapLogger) Warnf(format string, i ...interface{})  { l.sugar.Warnf(format, i...) }
func (l *EchoZapLogger) Warnj(j log.JSON)                       { l.logger.Warn("echo", zap.Any("json", j)) }
func (l *EchoZapLogger) Error(i ...interface{})                 { l.sugar.Error(i...) }
func (l *EchoZapLogger) Errorf(format string, i ...interface{}) { l.sugar.Errorf(format, i...) }
func (l *EchoZapLogger) Errorj(j log.JSON)                      { l.logger.Error("echo", zap.Any("json", j)) }
func (l *EchoZapLogger) Fatal(i ...interface{})                 { l.sugar.Fatal(i...) }
func (l *EchoZapLogger) Fatalf(format string, i ...interface{}) { l.sugar.Fatalf(format, i...) }
func (l *EchoZapLogger) Fatalj(j log.JSON)                      { l.logger.Fatal("echo", zap.Any("json", j)) }
func (l *EchoZapLogger) Panic(i ...interface{})                 { l.sugar.Panic(i...) }
func (l *EchoZapLogger) Panicf(format string, i ...interface{}) { l.sugar.Panicf(format, i...) }
func (l *EchoZapLogger) Panicj(j log.JSON)                      { l.logger.Panic("echo", zap.Any("json", j)) }

type zapWriter struct {
	logger *zap.Logger
}

func (w *zapWriter) Write(p []byte) (int, error) {
	w.logger.Info(string(p))
	return len(p), nil
}
