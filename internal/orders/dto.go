package orders

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
)

// ConfirmDeliveryInput is the buyer's acknowledgement of physical receipt.
type ConfirmDeliveryInput struct {
	OrderID        uuid.UUID
	ConfirmedBy    uuid.UUID
	TrackingNumber *string
}

// ConfirmDeliveryResult reports the transition and the payout it released.
type ConfirmDeliveryResult struct {
	OrderID      uuid.UUID
	Status       enums.OrderStatus
	PayoutID     uuid.UUID
	SellerPayout decimal.Decimal
	Currency     enums.Currency
}

// OrderList is one cursor page of orders.
type OrderList struct {
	Items      []models.Order
	NextCursor string
	HasMore    bool
}
