package interfaces

import "context"

// Notifier is a best-effort alert sink. Failures must never block trading.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
