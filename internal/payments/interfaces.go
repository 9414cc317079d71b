package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/internal/gateways"
	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
)

// Repository defines persistence operations for orders and their paired
// payment transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateTransaction(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error)
}

// Verifier is the slice of the gateway layer materialization consumes.
type Verifier interface {
	InitializeCharge(ctx context.Context, req gateways.InitializeRequest) (*gateway.ChargeSession, error)
	Verify(ctx context.Context, reference string) (*gateways.Verification, error)
}

// Inventory decrements stock inside the materialization transaction.
type Inventory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DecrementStockFloor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// UserDirectory resolves buyer identities to contact emails for checkout.
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// VerifyLocker bounds concurrent verification of one reference. It is an
// optimization over the storage-layer uniqueness guarantee, never a
// substitute for it.
type VerifyLocker interface {
	AcquireVerifyLock(ctx context.Context, reference string, ttl time.Duration) (bool, error)
	ReleaseVerifyLock(ctx context.Context, reference string) error
}

// Service defines the checkout and settlement operations.
type Service interface {
	InitializeCheckout(ctx context.Context, input CheckoutInput) (*CheckoutSession, error)
	Materialize(ctx context.Context, reference string) (*MaterializeResult, error)
}
