package logger_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/grayson061030/stockapi/pkg/logger"
)

func TestNewZapLogger(t *testing.T) {
	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := logger.NewZapLogger(logger.Config{Level: "debug", Format: "console", Output: "file", FilePath: path})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("default level is info", func(t *testing.T) {
		l, err := logger.NewZapLogger(logger.Config{})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := logger.NewZapLogger(logger.Config{Level: "loud"})
		assert.Error(t, err)
	})
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("record not found can be ignored", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := logger.NewGormLogger(zap.New(core), gormlogger.Warn, 0, true)

		gl.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
		assert.Equal(t, 0, logs.Len())

		gl.Trace(ctx, time.Now(), sql, errors.New("syntax error"))
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "GORM query error", logs.All()[0].Message)
	})

	t.Run("slow query", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := logger.NewGormLogger(zap.New(core), gormlogger.Warn, time.Millisecond, true)

		gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	})

	t.Run("silent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := logger.NewGormLogger(zap.New(core), gormlogger.Warn, 0, false).LogMode(gormlogger.Silent)

		gl.Trace(ctx, time.Now(), sql, errors.New("boom"))
		assert.Equal(t, 0, logs.Len())
	})
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, logger.ParseGormLevel("info"))
	assert.Equal(t, gormlogger.Silent, logger.ParseGormLevel("silent"))
	assert.Equal(t, gormlogger.Warn, logger.ParseGormLevel(""))
}
