package namedstmt

import (
	"context"
	"log/slog"
)

// Logger is satisfied by [slog.Logger].
type Logger interface {
	LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr)
}

// logError writes the diagnostic of err to l before it is returned.
func logError(ctx context.Context, l Logger, msg string, err *BindError, attrs ...slog.Attr) error {
	logAttrs := make([]slog.Attr, 0, len(attrs)+2)
	logAttrs = append(logAttrs, slog.String("error", err.Error()))
	if len(err.Names) > 0 {
		logAttrs = append(logAttrs, slog.Any("names", err.Names))
	}
	logAttrs = append(logAttrs, attrs...)

	l.LogAttrs(ctx, slog.LevelError, msg, logAttrs...)

	return err
}
