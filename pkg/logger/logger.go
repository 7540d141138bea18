package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/emagraphy/backend/pkg/httpcontext"
)

// New builds the application logger. An unparseable level falls back to info
// and any encoding other than "console" produces JSON.
func New(level, encoding string) (*zap.Logger, error) {
	parsed := zapcore.InfoLevel
	if err := parsed.Set(level); err != nil {
		parsed = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		newEncoder(encoding),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		parsed,
	)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

func newEncoder(encoding string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder

	if encoding == "console" {
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

// For returns base enriched with the request-scoped fields the httpcontext
// adapter attached: the request id and, for guarded requests, the caller.
func For(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}

	fields := make([]zap.Field, 0, 2)
	if id := httpcontext.RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if caller := httpcontext.Caller(ctx); caller != "" {
		fields = append(fields, zap.String("caller", caller))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
