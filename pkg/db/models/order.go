package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

// Order is the durable record produced from one verified gateway charge.
// PaymentReference is the gateway-assigned idempotency key: exactly one order
// may exist per reference, enforced by a unique constraint.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID          uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null"`
	SellerID         uuid.UUID           `gorm:"column:seller_id;type:uuid;not null"`
	ProductID        *uuid.UUID          `gorm:"column:product_id;type:uuid"`
	Quantity         int                 `gorm:"column:quantity;not null"`
	UnitPrice        decimal.Decimal     `gorm:"column:unit_price;type:numeric(14,2);not null"`
	TotalAmount      decimal.Decimal     `gorm:"column:total_amount;type:numeric(14,2);not null"`
	Currency         enums.Currency      `gorm:"column:currency;type:text;not null"`
	PaymentReference string              `gorm:"column:payment_reference;not null;uniqueIndex:idx_orders_payment_reference"`
	PaymentGateway   enums.Gateway       `gorm:"column:payment_gateway;type:text;not null"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	ShippingAddress  *types.Address      `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	TrackingNumber   *string             `gorm:"column:tracking_number"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	DeliveredAt      *time.Time          `gorm:"column:delivered_at"`
	Transaction      *PaymentTransaction `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payout           *Payout             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
