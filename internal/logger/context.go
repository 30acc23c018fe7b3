package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// ContextWithLogger stores a logger in the context.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext extracts the request logger, or a no-op logger outside a request.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// With returns a context whose logger carries fields in addition to the current ones.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With(fields...))
}

// Field names shared by every package, so one view or stage can be followed across log lines.
const (
	keyView  = "view"
	keyStage = "stage"
	keyOp    = "op"
)

// ViewID tags a log line with a view session id.
func ViewID(id string) zap.Field { return zap.String(keyView, id) }

// Stage tags a log line with an upstream or pipeline stage.
func Stage(name string) zap.Field { return zap.String(keyStage, name) }

// Op tags a log line with the view operation being applied.
func Op(name string) zap.Field { return zap.String(keyOp, name) }
