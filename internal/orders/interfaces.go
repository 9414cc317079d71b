package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

// Repository defines persistence operations on the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error)
}

// PayoutCreator inserts the settlement record inside the delivery
// confirmation transaction. Implemented by the payouts repository.
type PayoutCreator interface {
	CreatePayout(ctx context.Context, tx *gorm.DB, payout *models.Payout) error
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	ConfirmDelivery(ctx context.Context, input ConfirmDeliveryInput) (*ConfirmDeliveryResult, error)
	GetOrder(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool) (*models.Order, error)
	ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*OrderList, error)
	ListSellerOrders(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*OrderList, error)
}
