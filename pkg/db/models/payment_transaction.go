package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

// PaymentTransaction is the append-only audit record paired one-to-one with
// an order. It is created atomically alongside the order and never mutated.
type PaymentTransaction struct {
	ID                   uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID              uuid.UUID               `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_payment_transactions_order_id"`
	TransactionReference string                  `gorm:"column:transaction_reference;not null"`
	Amount               decimal.Decimal         `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency             enums.Currency          `gorm:"column:currency;type:text;not null"`
	Gateway              enums.Gateway           `gorm:"column:gateway;type:text;not null"`
	Status               enums.TransactionStatus `gorm:"column:status;type:text;not null"`
	GatewayResponse      types.JSONMap           `gorm:"column:gateway_response;type:jsonb;serializer:json"`
	VerifiedAt           time.Time               `gorm:"column:verified_at;not null"`
	CreatedAt            time.Time               `gorm:"column:created_at;autoCreateTime"`
}
