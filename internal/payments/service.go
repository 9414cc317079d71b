package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/internal/fees"
	"github.com/adaezeobi/wasoko-backend/internal/gateways"
	"github.com/adaezeobi/wasoko-backend/pkg/config"
	"github.com/adaezeobi/wasoko-backend/pkg/db"
	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/metrics"
	"github.com/adaezeobi/wasoko-backend/pkg/money"
)

const (
	orderReferenceConstraint = "idx_orders_payment_reference"

	// verifyLockTTL bounds how long one in-flight verification can hold the
	// reference lock before a retry may proceed.
	verifyLockTTL = 30 * time.Second
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      Repository
	verifier  Verifier
	inventory Inventory
	users     UserDirectory
	tx        txRunner
	locks     VerifyLocker
	calc      *fees.Calculator
	cfg       config.MarketplaceConfig
	logger    *logger.Logger
	metrics   *metrics.PaymentMetrics
}

// NewService wires the checkout and materialization flows. locks and m may be
// nil; the storage-layer uniqueness constraint carries correctness without
// them.
func NewService(
	repo Repository,
	verifier Verifier,
	inventory Inventory,
	users UserDirectory,
	tx txRunner,
	locks VerifyLocker,
	calc *fees.Calculator,
	cfg config.MarketplaceConfig,
	logg *logger.Logger,
	m *metrics.PaymentMetrics,
) (Service, error) {
	if repo == nil {
		return nil, errors.New("payments repository is required")
	}
	if verifier == nil {
		return nil, errors.New("gateway verifier is required")
	}
	if inventory == nil {
		return nil, errors.New("inventory is required")
	}
	if users == nil {
		return nil, errors.New("user directory is required")
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

	return &service{
		repo:      repo,
		verifier:  verifier,
		inventory: inventory,
		users:     users,
		tx:        tx,
		locks:     locks,
		calc:      calc,
		cfg:       cfg,
		logger:    logg,
		metrics:   m,
	}, nil
}

// InitializeCheckout prices one product at its stored unit price and opens a
// hosted checkout session with the currency's gateway. Everything the later
// materialization needs rides along as charge metadata.
func (s *service) InitializeCheckout(ctx context.Context, input CheckoutInput) (*CheckoutSession, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.inventory.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	if product.StockQuantity < input.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")
	}
	if product.SellerID == input.BuyerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot buy your own product")
	}

	buyer, err := s.users.FindByID(ctx, input.BuyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "buyer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer")
	}

	total := money.Round2(product.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))))
	breakdown := s.calc.Breakdown(total, product.Currency.String())

	session, err := s.verifier.InitializeCharge(ctx, gateways.InitializeRequest{
		Amount:      total,
		Currency:    product.Currency,
		Email:       buyer.Email,
		CallbackURL: s.cfg.PaymentCallbackURL,
		Metadata: gateway.ChargeMetadata{
			BuyerID:         buyer.ID.String(),
			SellerID:        product.SellerID.String(),
			ProductID:       product.ID.String(),
			Quantity:        input.Quantity,
			UnitPriceMinor:  money.ToMinor(product.UnitPrice),
			ShippingAddress: input.ShippingAddress,
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(s.logger.WithReference(ctx, session.Reference), "checkout session opened")

	return &CheckoutSession{
		Reference:        session.Reference,
		AuthorizationURL: session.AuthorizationURL,
		TotalAmount:      total,
		Currency:         product.Currency,
		Gateway:          breakdown.Gateway,
	}, nil
}

// Materialize turns one verified gateway charge into a durable order,
// exactly once per payment reference.
//
// The existence check runs before any write so replays and webhook/redirect
// races short-circuit cheaply; the unique constraint on payment_reference is
// the arbiter when two materializations slip past the check concurrently.
// Order insert, transaction insert, and stock decrement commit or fail as a
// single unit.
func (s *service) Materialize(ctx context.Context, reference string) (*MaterializeResult, error) {
	ctx = s.logger.WithReference(ctx, reference)

	if existing, err := s.findExisting(ctx, reference); err != nil {
		return nil, err
	} else if existing != nil {
		return &MaterializeResult{Order: existing, AlreadyExisted: true}, nil
	}

	if s.locks != nil {
		acquired, err := s.locks.AcquireVerifyLock(ctx, reference, verifyLockTTL)
		if err != nil {
			s.logger.Warn(ctx, "verify lock unavailable, relying on unique constraint")
		} else if acquired {
			defer func() { _ = s.locks.ReleaseVerifyLock(context.WithoutCancel(ctx), reference) }()
		} else {
			// Another materialization is in flight. Re-check before doing our
			// own gateway round trip; the constraint still decides the race.
			if existing, err := s.findExisting(ctx, reference); err != nil {
				return nil, err
			} else if existing != nil {
				return &MaterializeResult{Order: existing, AlreadyExisted: true}, nil
			}
		}
	}

	verification, err := s.verifier.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !verification.Success {
		return nil, pkgerrors.New(pkgerrors.CodePaymentNotConfirmed, "payment was not confirmed by the gateway").
			WithDetails(map[string]any{"gateway_status": verification.RawStatus})
	}

	order, err := s.buildOrder(verification)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		created, err := txRepo.CreateOrder(ctx, order)
		if err != nil {
			return err
		}

		txn := &models.PaymentTransaction{
			OrderID:              created.ID,
			TransactionReference: verification.Reference,
			Amount:               verification.Amount,
			Currency:             verification.Currency,
			Gateway:              verification.Gateway,
			Status:               enums.TransactionStatusSuccess,
			GatewayResponse:      verification.Raw,
			VerifiedAt:           time.Now().UTC(),
		}
		if _, err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return err
		}

		if order.ProductID != nil {
			if err := s.inventory.DecrementStockFloor(ctx, tx, *order.ProductID, order.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err, orderReferenceConstraint) {
			existing, findErr := s.findExisting(ctx, reference)
			if findErr == nil && existing != nil {
				return &MaterializeResult{Order: existing, AlreadyExisted: true}, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "materialize order")
	}

	s.metrics.IncOrderMaterialized()
	s.logger.Info(s.logger.WithOrderID(ctx, order.ID.String()), "order materialized")

	return &MaterializeResult{Order: order}, nil
}

func (s *service) findExisting(ctx context.Context, reference string) (*models.Order, error) {
	order, err := s.repo.FindOrderByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up order by reference")
	}
	return order, nil
}

// buildOrder maps the gateway's echoed metadata into an order row. The
// metadata was attached at charge initialization, so gaps here mean the
// gateway mangled the payload rather than a bad client request.
func (s *service) buildOrder(v *gateways.Verification) (*models.Order, error) {
	buyerID, err := uuid.Parse(v.Metadata.BuyerID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "charge metadata is missing the buyer")
	}
	sellerID, err := uuid.Parse(v.Metadata.SellerID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "charge metadata is missing the seller")
	}
	if v.Metadata.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "charge metadata is missing the quantity")
	}

	var productID *uuid.UUID
	if v.Metadata.ProductID != "" {
		parsed, err := uuid.Parse(v.Metadata.ProductID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidResponse, "charge metadata has an invalid product id")
		}
		productID = &parsed
	}

	unitPrice := money.FromMinor(v.Metadata.UnitPriceMinor)
	if !unitPrice.IsPositive() {
		qty := decimal.NewFromInt(int64(v.Metadata.Quantity))
		unitPrice = money.Round2(v.Amount.Div(qty))
	}

	paidAt := v.PaidAt
	if paidAt == nil {
		now := time.Now().UTC()
		paidAt = &now
	}

	return &models.Order{
		ID:               uuid.New(),
		BuyerID:          buyerID,
		SellerID:         sellerID,
		ProductID:        productID,
		Quantity:         v.Metadata.Quantity,
		UnitPrice:        unitPrice,
		TotalAmount:      v.Amount,
		Currency:         v.Currency,
		PaymentReference: v.Reference,
		PaymentGateway:   v.Gateway,
		PaymentStatus:    enums.PaymentStatusCompleted,
		Status:           enums.OrderStatusConfirmed,
		ShippingAddress:  v.Metadata.ShippingAddress,
		PaidAt:           paidAt,
	}, nil
}
