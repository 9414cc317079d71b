package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/internal/fees"
	"github.com/adaezeobi/wasoko-backend/pkg/db"
	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/metrics"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

const payoutOrderConstraint = "idx_payouts_order_id"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    Repository
	payouts PayoutCreator
	tx      txRunner
	calc    *fees.Calculator
	logger  *logger.Logger
	metrics *metrics.PaymentMetrics
}

// NewService wires the delivery confirmation flow. metrics may be nil.
func NewService(repo Repository, payouts PayoutCreator, tx txRunner, calc *fees.Calculator, logg *logger.Logger, m *metrics.PaymentMetrics) (Service, error) {
	if repo == nil {
		return nil, errors.New("orders repository is required")
	}
	if payouts == nil {
		return nil, errors.New("payout creator is required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if calc == nil {
		return nil, errors.New("fee calculator is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{repo: repo, payouts: payouts, tx: tx, calc: calc, logger: logg, metrics: m}, nil
}

// ConfirmDelivery moves a confirmed order to delivered and releases exactly
// one pending payout sized from the order's stored amount. The status guard
// doubles as the idempotency gate: a second confirmation sees delivered and
// fails with a state conflict instead of minting another payout.
func (s *service) ConfirmDelivery(ctx context.Context, input ConfirmDeliveryInput) (*ConfirmDeliveryResult, error) {
	ctx = s.logger.WithOrderID(ctx, input.OrderID.String())

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.BuyerID != input.ConfirmedBy {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the buyer can confirm delivery")
	}
	if order.Status != enums.OrderStatusConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting delivery confirmation").
			WithDetails(map[string]any{"status": order.Status})
	}

	// The payout is sized from what the buyer actually paid, never from
	// anything the client sends.
	breakdown := s.calc.Breakdown(order.TotalAmount, order.Currency.String())

	now := time.Now().UTC()
	payout := &models.Payout{
		ID:               uuid.New(),
		SellerID:         order.SellerID,
		OrderID:          order.ID,
		Amount:           breakdown.SellerPayout,
		CommissionAmount: breakdown.CommissionAmount,
		Currency:         order.Currency,
		Status:           enums.PayoutStatusPending,
		RequestedAt:      now,
	}

	updates := map[string]any{
		"status":       enums.OrderStatusDelivered,
		"delivered_at": now,
	}
	if input.TrackingNumber != nil {
		updates["tracking_number"] = *input.TrackingNumber
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateOrder(ctx, order.ID, updates); err != nil {
			return err
		}
		return s.payouts.CreatePayout(ctx, tx, payout)
	})
	if err != nil {
		if db.IsUniqueViolation(err, payoutOrderConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery already confirmed for this order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm delivery")
	}

	s.metrics.IncPayoutTransition(enums.PayoutStatusPending.String())
	s.logger.Info(ctx, "delivery confirmed, payout released")

	return &ConfirmDeliveryResult{
		OrderID:      order.ID,
		Status:       enums.OrderStatusDelivered,
		PayoutID:     payout.ID,
		SellerPayout: breakdown.SellerPayout,
		Currency:     order.Currency,
	}, nil
}

// GetOrder returns one order if the actor is a participant or an admin.
func (s *service) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !isAdmin && order.BuyerID != actorID && order.SellerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this order")
	}
	return order, nil
}

func (s *service) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListByBuyer(ctx, buyerID, params)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return list, nil
}

func (s *service) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	list, err := s.repo.ListBySeller(ctx, sellerID, params)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller orders")
	}
	return list, nil
}
