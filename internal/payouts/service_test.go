package payouts

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

type stubPayoutsRepo struct {
	payout      *models.Payout
	transitions []map[string]any
	denyUpdate  bool
}

func (s *stubPayoutsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPayoutsRepo) CreatePayout(ctx context.Context, tx *gorm.DB, payout *models.Payout) error {
	return nil
}

func (s *stubPayoutsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	if s.payout == nil || s.payout.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.payout, nil
}

func (s *stubPayoutsRepo) TransitionStatus(ctx context.Context, id uuid.UUID, allowedFrom []enums.PayoutStatus, updates map[string]any) (bool, error) {
	if s.denyUpdate {
		return false, nil
	}
	s.transitions = append(s.transitions, updates)
	if status, ok := updates["status"].(enums.PayoutStatus); ok {
		s.payout.Status = status
	}
	if ref, ok := updates["payout_reference"].(string); ok {
		s.payout.PayoutReference = &ref
	}
	return true, nil
}

func (s *stubPayoutsRepo) ListPending(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) (*PayoutList, error) {
	return &PayoutList{}, nil
}

func (s *stubPayoutsRepo) SummarizeRevenue(ctx context.Context) (*RevenueSummary, error) {
	return &RevenueSummary{}, nil
}

type stubTransferer struct {
	calls    int
	transfer *gateway.Transfer
	err      error
}

func (s *stubTransferer) InitiateTransfer(ctx context.Context, amount decimal.Decimal, currency enums.Currency, recipientCode, reference, reason string) (*gateway.Transfer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.transfer != nil {
		return s.transfer, nil
	}
	return &gateway.Transfer{Reference: reference, Status: "success"}, nil
}

type stubBankAccounts struct {
	account *models.SellerBankAccount
}

func (s *stubBankAccounts) FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankAccount, error) {
	if s.account == nil || s.account.SellerID != sellerID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.account, nil
}

func pendingPayout() *models.Payout {
	return &models.Payout{
		ID:               uuid.New(),
		SellerID:         uuid.New(),
		OrderID:          uuid.New(),
		Amount:           decimal.RequireFromString("9262.50"),
		CommissionAmount: decimal.RequireFromString("487.50"),
		Currency:         enums.CurrencyNGN,
		Status:           enums.PayoutStatusPending,
	}
}

func newTestService(t *testing.T, repo *stubPayoutsRepo, transfer Transferer, banks BankAccounts) Service {
	t.Helper()
	svc, err := NewService(repo, transfer, banks, logger.New(logger.Options{Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestApproveMovesPendingToApproved(t *testing.T) {
	payout := pendingPayout()
	repo := &stubPayoutsRepo{payout: payout}
	svc := newTestService(t, repo, nil, nil)

	updated, err := svc.Approve(context.Background(), payout.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if updated.Status != enums.PayoutStatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
}

func TestProcessCompletesApprovedPayout(t *testing.T) {
	payout := pendingPayout()
	payout.Status = enums.PayoutStatusApproved
	repo := &stubPayoutsRepo{payout: payout}
	svc := newTestService(t, repo, nil, nil)

	notes := "wire sent by finance"
	updated, err := svc.Process(context.Background(), ProcessInput{
		PayoutID:        payout.ID,
		PayoutReference: "TRF_99871",
		Notes:           &notes,
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if updated.Status != enums.PayoutStatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}
	if updated.PayoutReference == nil || *updated.PayoutReference != "TRF_99871" {
		t.Fatalf("transfer reference not stored: %v", updated.PayoutReference)
	}
	if len(repo.transitions) != 1 {
		t.Fatalf("expected one transition, got %d", len(repo.transitions))
	}
	if _, ok := repo.transitions[0]["processed_at"]; !ok {
		t.Fatal("processed_at not stamped")
	}
}

func TestProcessCompletedPayoutFailsWithAlreadyProcessed(t *testing.T) {
	payout := pendingPayout()
	payout.Status = enums.PayoutStatusCompleted
	repo := &stubPayoutsRepo{payout: payout}
	svc := newTestService(t, repo, nil, nil)

	_, err := svc.Process(context.Background(), ProcessInput{
		PayoutID:        payout.ID,
		PayoutReference: "TRF_2",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeAlreadyProcessed {
		t.Fatalf("expected already processed, got %v", err)
	}
	if len(repo.transitions) != 0 {
		t.Fatal("completed payout must not be re-stamped")
	}
}

func TestProcessPendingPayoutRequiresApproval(t *testing.T) {
	payout := pendingPayout()
	repo := &stubPayoutsRepo{payout: payout}
	svc := newTestService(t, repo, nil, nil)

	_, err := svc.Process(context.Background(), ProcessInput{
		PayoutID:        payout.ID,
		PayoutReference: "TRF_3",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestProcessWithInitiateIssuesGatewayTransfer(t *testing.T) {
	payout := pendingPayout()
	payout.Status = enums.PayoutStatusApproved
	recipient := "RCP_771"
	banks := &stubBankAccounts{account: &models.SellerBankAccount{
		SellerID:      payout.SellerID,
		RecipientCode: &recipient,
	}}
	transfer := &stubTransferer{transfer: &gateway.Transfer{Reference: "TRF_GATEWAY_1", Status: "success"}}
	repo := &stubPayoutsRepo{payout: payout}
	svc := newTestService(t, repo, transfer, banks)

	updated, err := svc.Process(context.Background(), ProcessInput{PayoutID: payout.ID, Initiate: true})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if transfer.calls != 1 {
		t.Fatalf("expected one gateway transfer, got %d", transfer.calls)
	}
	if updated.PayoutReference == nil || *updated.PayoutReference != "TRF_GATEWAY_1" {
		t.Fatalf("gateway reference not stored: %v", updated.PayoutReference)
	}
}

func TestProcessWithInitiateRequiresBankAccount(t *testing.T) {
	payout := pendingPayout()
	payout.Status = enums.PayoutStatusApproved
	repo := &stubPayoutsRepo{payout: payout}
	svc := newTestService(t, repo, &stubTransferer{}, &stubBankAccounts{})

	_, err := svc.Process(context.Background(), ProcessInput{PayoutID: payout.ID, Initiate: true})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCancelFromTerminalStateFails(t *testing.T) {
	payout := pendingPayout()
	payout.Status = enums.PayoutStatusCompleted
	svc := newTestService(t, &stubPayoutsRepo{payout: payout}, nil, nil)

	_, err := svc.Cancel(context.Background(), payout.ID, nil)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeAlreadyProcessed {
		t.Fatalf("expected already processed, got %v", err)
	}
}

func TestTransitionLostRaceSurfacesConflict(t *testing.T) {
	payout := pendingPayout()
	repo := &stubPayoutsRepo{payout: payout, denyUpdate: true}
	svc := newTestService(t, repo, nil, nil)

	_, err := svc.Approve(context.Background(), payout.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after lost race, got %v", err)
	}
}
