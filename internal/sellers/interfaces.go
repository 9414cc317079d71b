package sellers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
)

// Repository defines persistence operations on seller bank accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankAccount, error)
	Upsert(ctx context.Context, account *models.SellerBankAccount) (*models.SellerBankAccount, error)
}

// GatewayDirectory is the slice of the gateway layer onboarding consumes.
type GatewayDirectory interface {
	ListBanks(ctx context.Context, country string) []gateway.Bank
	ResolveAccount(ctx context.Context, currency enums.Currency, accountNumber, bankCode string) *gateway.ResolvedAccount
	CreateTransferRecipient(ctx context.Context, req gateway.RecipientRequest) (*gateway.Recipient, error)
}

// Service manages seller payout destinations.
type Service interface {
	RegisterBankAccount(ctx context.Context, input RegisterBankAccountInput) (*models.SellerBankAccount, error)
	GetBankAccount(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankAccount, error)
	ListBanks(ctx context.Context, country string) []gateway.Bank
	ResolveAccount(ctx context.Context, currency enums.Currency, accountNumber, bankCode string) *gateway.ResolvedAccount
}
