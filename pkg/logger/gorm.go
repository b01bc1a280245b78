package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// SQLConfig configures the zap-backed GORM logger.
type SQLConfig struct {
	// Level is one of silent, error, warn, info or debug. Empty means warn.
	Level string
	// SlowThreshold marks statements for a warning; zero disables it.
	SlowThreshold time.Duration
	// Fields adds per-statement fields taken from the query context.
	Fields func(ctx context.Context) []zap.Field
}

// SQLLogger writes GORM statements through zap. Failed and slow statements
// carry the request id and any configured context fields.
type SQLLogger struct {
	log   *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
	extra func(ctx context.Context) []zap.Field
}

func NewSQLLogger(log *zap.Logger, cfg SQLConfig) *SQLLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &SQLLogger{
		log:   log.Named("sql"),
		level: SQLLevel(cfg.Level),
		slow:  cfg.SlowThreshold,
		extra: cfg.Fields,
	}
}

// SQLLevel maps a config level onto GORM's; debug and info both log every statement.
func SQLLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}

func (l *SQLLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *SQLLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, gormlogger.Info, msg, args)
}

func (l *SQLLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, gormlogger.Warn, msg, args)
}

func (l *SQLLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, gormlogger.Error, msg, args)
}

func (l *SQLLogger) message(ctx context.Context, level gormlogger.LogLevel, msg string, args []any) {
	if l.level < level {
		return
	}
	s := l.log.With(l.contextFields(ctx)...).Sugar()
	switch level {
	case gormlogger.Error:
		s.Errorf(msg, args...)
	case gormlogger.Warn:
		s.Warnf(msg, args...)
	default:
		s.Infof(msg, args...)
	}
}

// Trace reports one executed statement. Missing rows are an expected lookup
// outcome in the catalog services, so they are never logged as failures.
func (l *SQLLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	elapsed := time.Since(begin)
	slow := l.slow > 0 && elapsed > l.slow

	var level gormlogger.LogLevel
	switch {
	case failed:
		level = gormlogger.Error
	case slow:
		level = gormlogger.Warn
	default:
		level = gormlogger.Info
	}
	if l.level < level {
		return
	}

	stmt, rows := fc()
	fields := append(l.contextFields(ctx),
		zap.String("statement", stmt),
		zap.Int64("rows", rows),
		zap.Duration("took", elapsed),
	)
	switch level {
	case gormlogger.Error:
		l.log.Error("statement failed", append(fields, zap.Error(err))...)
	case gormlogger.Warn:
		l.log.Warn("slow statement", append(fields, zap.Duration("threshold", l.slow))...)
	default:
		l.log.Debug("statement", fields...)
	}
}

func (l *SQLLogger) contextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if l.extra != nil && ctx != nil {
		fields = append(fields, l.extra(ctx)...)
	}
	return fields
}
