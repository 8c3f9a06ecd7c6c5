package diagnostics

import (
	"context"

	"github.com/goliatone/go-interceptor/interceptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTracer logs trace events. Installs are logged at debug level, call
// events at info.
type ZapTracer struct {
	logger *zap.Logger
}

// NewZapTracer creates a tracer writing to logger. A nil logger is replaced
// by zap.NewNop.
func NewZapTracer(logger *zap.Logger) *ZapTracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTracer{logger: logger.Named("interceptor")}
}

func (t *ZapTracer) Trace(_ context.Context, event interceptor.Event) {
	level := zapcore.InfoLevel
	if event.Kind == interceptor.EventWrapperInstalled {
		level = zapcore.DebugLevel
	}

	ce := t.logger.Check(level, string(event.Kind))
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.String("member", event.Member),
		zap.String("wrapper", event.Wrapper),
		zap.String("wrapper_id", event.WrapperID),
	}
	if event.Key != "" {
		fields = append(fields, zap.String("key", event.Key))
	}
	ce.Write(fields...)
}
