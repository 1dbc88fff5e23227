package logger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/grayson061030/stockapi/pkg/errors"
	"github.com/grayson061030/stockapi/pkg/logger"
)

func TestWithEchoLogger_ErrorEnvelope(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := echo.New()
	logger.WithEchoLogger(e, zap.New(core), logger.ErrorHandlerConfig{
		InternalCode:    "E500",
		InternalMessage: "Internal server error",
	})
	e.Use(logger.NewEchoRequestLogger(zap.New(core)))

	notFound := errors.Define(errors.ErrNotFound, "E404", "Stock not found")
	e.GET("/missing", func(c echo.Context) error { return notFound })
	e.GET("/broken", func(c echo.Context) error { return assert.AnError })

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"app error", "/missing", http.StatusNotFound, "E404"},
		{"plain error", "/broken", http.StatusInternalServerError, "E500"},
		{"unknown route", "/nope", http.StatusNotFound, errors.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body errors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}

	assert.NotZero(t, logs.FilterMessage("HTTP error").Len())
}
