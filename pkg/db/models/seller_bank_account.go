package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adaezeobi/wasoko-backend/pkg/enums"
)

// SellerBankAccount stores the resolved settlement destination for a seller,
// plus the transfer recipient code issued by the gateway.
type SellerBankAccount struct {
	ID            uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID      uuid.UUID     `gorm:"column:seller_id;type:uuid;not null;uniqueIndex:idx_seller_bank_accounts_seller_id"`
	BankCode      string        `gorm:"column:bank_code;not null"`
	BankName      string        `gorm:"column:bank_name;not null"`
	AccountNumber string        `gorm:"column:account_number;not null"`
	AccountName   string        `gorm:"column:account_name;not null"`
	Gateway       enums.Gateway `gorm:"column:gateway;type:text;not null"`
	RecipientCode *string       `gorm:"column:recipient_code"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
