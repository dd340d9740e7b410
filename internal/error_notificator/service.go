package error_notificator

import (
	"context"
	"errors"
)

// Service fans a report out to every configured infra.
type Service struct {
	infras []Notificator
}

func NewService(infras ...Notificator) *Service {
	return &Service{infras: infras}
}

func (s *Service) Notify(ctx context.Context, sessionID string, err error, details string) error {
	var errs []error
	for _, infra := range s.infras {
		if nErr := infra.Notify(ctx, sessionID, err, details); nErr != nil {
			errs = append(errs, nErr)
		}
	}
	return errors.Join(errs...)
}
