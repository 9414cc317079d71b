package payments

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

// CheckoutInput starts a hosted checkout for one product.
type CheckoutInput struct {
	BuyerID         uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	ShippingAddress *types.Address
}

// CheckoutSession is returned to the client so it can redirect the buyer to
// the gateway's hosted payment page.
type CheckoutSession struct {
	Reference        string
	AuthorizationURL string
	TotalAmount      decimal.Decimal
	Currency         enums.Currency
	Gateway          enums.Gateway
}

// MaterializeResult reports the order a verified reference settled into.
// AlreadyExisted marks the idempotent path: the reference had been
// materialized before and no new writes happened.
type MaterializeResult struct {
	Order          *models.Order
	AlreadyExisted bool
}
