package observability

import (
	"context"
	"log/slog"
)

// Audit records a user-visible action (login, logout, payment recorded) in the
// structured log.
func Audit(ctx context.Context, event string, attrs ...any) {
	base := []any{"event", event}
	base = append(base, attrs...)
	slog.InfoContext(ctx, "audit", base...)
}
