package error_notificator

import (
	"context"

	"go.uber.org/zap"
)

// LogInfra writes failures to the structured log.
type LogInfra struct {
	logger *zap.Logger
}

func NewLogInfra(logger *zap.Logger) *LogInfra {
	return &LogInfra{logger: logger}
}

func (i *LogInfra) Notify(_ context.Context, sessionID string, err error, details string) error {
	i.logger.Error("pipeline failure",
		zap.String("session", sessionID),
		zap.String("details", details),
		zap.Error(err),
	)
	return nil
}
