package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/pkg/enums"
)

// Payout is the seller settlement for one delivered order. At most one payout
// exists per order, enforced by a unique constraint on order_id.
type Payout struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID         uuid.UUID          `gorm:"column:seller_id;type:uuid;not null"`
	OrderID          uuid.UUID          `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_payouts_order_id"`
	Amount           decimal.Decimal    `gorm:"column:amount;type:numeric(14,2);not null"`
	CommissionAmount decimal.Decimal    `gorm:"column:commission_amount;type:numeric(14,2);not null"`
	Currency         enums.Currency     `gorm:"column:currency;type:text;not null"`
	PayoutMethod     string             `gorm:"column:payout_method;not null;default:'bank_transfer'"`
	PayoutReference  *string            `gorm:"column:payout_reference"`
	Status           enums.PayoutStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Notes            *string            `gorm:"column:notes"`
	RequestedAt      time.Time          `gorm:"column:requested_at;not null"`
	ProcessedAt      *time.Time         `gorm:"column:processed_at"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
