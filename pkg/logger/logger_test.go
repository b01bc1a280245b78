package logger

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
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		log, err := New(Config{})
		require.NoError(t, err)
		assert.NotNil(t, log)
	})

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("bad file path", func(t *testing.T) {
		_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestRequestIDContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithRequestID(context.Background(), zap.New(core), "req-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))

	FromContext(ctx).Info("hello")
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-1", recorded.All()[0].ContextMap()["request_id"])
}

func TestSQLLogger_LogMode(t *testing.T) {
	sl := NewSQLLogger(zap.NewNop(), SQLConfig{Level: "info"})

	other, ok := sl.LogMode(gormlogger.Warn).(*SQLLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, sl.level)
	assert.Equal(t, gormlogger.Warn, other.level)
}

func TestSQLLogger_Trace(t *testing.T) {
	fc := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("failure", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		sl := NewSQLLogger(zap.New(core), SQLConfig{Level: "error"})
		sl.Trace(context.Background(), time.Now(), fc, errors.New("boom"))

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, "statement failed", entry.Message)
		assert.Equal(t, "SELECT 1", entry.ContextMap()["statement"])
	})

	t.Run("missing row is not a failure", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		sl := NewSQLLogger(zap.New(core), SQLConfig{Level: "warn"})
		sl.Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("slow statement carries context fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		sl := NewSQLLogger(zap.New(core), SQLConfig{
			SlowThreshold: time.Millisecond,
			Fields: func(context.Context) []zap.Field {
				return []zap.Field{zap.Uint("actor_id", 7)}
			},
		})
		ctx := WithRequestID(context.Background(), zap.NewNop(), "req-9")
		sl.Trace(ctx, time.Now().Add(-time.Second), fc, nil)

		require.Equal(t, 1, recorded.Len())
		entry := recorded.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, "req-9", entry.ContextMap()["request_id"])
		assert.Equal(t, uint64(7), entry.ContextMap()["actor_id"])
	})

	t.Run("fast statement below info", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		sl := NewSQLLogger(zap.New(core), SQLConfig{Level: "warn", SlowThreshold: time.Hour})
		sl.Trace(context.Background(), time.Now(), fc, nil)

		assert.Equal(t, 0, recorded.Len())
	})

	t.Run("silent", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		sl := NewSQLLogger(zap.New(core), SQLConfig{Level: "silent"})
		sl.Trace(context.Background(), time.Now(), fc, errors.New("boom"))

		assert.Equal(t, 0, recorded.Len())
	})
}

func TestSQLLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, SQLLevel("silent"))
	assert.Equal(t, gormlogger.Error, SQLLevel("error"))
	assert.Equal(t, gormlogger.Info, SQLLevel("debug"))
	assert.Equal(t, gormlogger.Warn, SQLLevel(""))
}
