// Package webhooks settles gateway charge notifications. A webhook is a
// second delivery channel for the same fact the verify endpoints observe, so
// handling one is just an idempotent materialization of its reference.
package webhooks

import (
	"context"
	"errors"

	"github.com/adaezeobi/wasoko-backend/internal/payments"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
)

type materializer interface {
	Materialize(ctx context.Context, reference string) (*payments.MaterializeResult, error)
}

type Service struct {
	payments materializer
	logger   *logger.Logger
}

func NewService(payments materializer, logg *logger.Logger) (*Service, error) {
	if payments == nil {
		return nil, errors.New("payments service is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{payments: payments, logger: logg}, nil
}

// HandleChargeSuccess settles the order behind a successful charge event.
// Deliveries racing the buyer's verify call are expected; an order that
// already exists is a no-op, not an error.
func (s *Service) HandleChargeSuccess(ctx context.Context, reference string) error {
	if reference == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "charge reference is required")
	}

	ctx = s.logger.WithReference(ctx, reference)
	result, err := s.payments.Materialize(ctx, reference)
	if err != nil {
		return err
	}
	if result.AlreadyExisted {
		s.logger.Info(ctx, "webhook charge already settled")
		return nil
	}
	s.logger.Info(s.logger.WithOrderID(ctx, result.Order.ID.String()), "order settled from webhook")
	return nil
}
