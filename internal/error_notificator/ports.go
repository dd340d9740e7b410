package error_notificator

import "context"

type Notificator interface {
	// Notify reports a failure that happened while serving a session.
	Notify(ctx context.Context, sessionID string, err error, details string) error
}
