package payouts

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

// Repository defines persistence operations on the payouts table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePayout(ctx context.Context, tx *gorm.DB, payout *models.Payout) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payout, error)
	// TransitionStatus applies updates only when the payout is currently in
	// one of the allowed states, reporting whether a row changed. The
	// condition and the write are a single statement, so two racing
	// operators cannot both win.
	TransitionStatus(ctx context.Context, id uuid.UUID, allowedFrom []enums.PayoutStatus, updates map[string]any) (bool, error)
	ListPending(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) (*PayoutList, error)
	SummarizeRevenue(ctx context.Context) (*RevenueSummary, error)
}

// Transferer issues the actual fund movement through the currency's gateway.
type Transferer interface {
	InitiateTransfer(ctx context.Context, amount decimal.Decimal, currency enums.Currency, recipientCode, reference, reason string) (*gateway.Transfer, error)
}

// BankAccounts resolves a seller's registered payout destination.
type BankAccounts interface {
	FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankAccount, error)
}

// Service drives the payout lifecycle: pending, approved, processing,
// completed, with failed and cancelled reachable from any non-terminal state.
type Service interface {
	Approve(ctx context.Context, payoutID uuid.UUID) (*models.Payout, error)
	Process(ctx context.Context, input ProcessInput) (*models.Payout, error)
	Cancel(ctx context.Context, payoutID uuid.UUID, notes *string) (*models.Payout, error)
	MarkFailed(ctx context.Context, payoutID uuid.UUID, notes *string) (*models.Payout, error)
	ListPending(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) (*PayoutList, error)
	SummarizeRevenue(ctx context.Context) (*RevenueSummary, error)
}
