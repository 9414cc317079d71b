package payouts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/metrics"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

const transferReferencePrefix = "wsk-po-"

type service struct {
	repo     Repository
	transfer Transferer
	banks    BankAccounts
	logger   *logger.Logger
	metrics  *metrics.PaymentMetrics
}

// NewService wires the payout lifecycle. transfer and banks are only needed
// for gateway-initiated processing; metrics may be nil.
func NewService(repo Repository, transfer Transferer, banks BankAccounts, logg *logger.Logger, m *metrics.PaymentMetrics) (Service, error) {
	if repo == nil {
		return nil, errors.New("payouts repository is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{repo: repo, transfer: transfer, banks: banks, logger: logg, metrics: m}, nil
}

func (s *service) Approve(ctx context.Context, payoutID uuid.UUID) (*models.Payout, error) {
	return s.transition(ctx, payoutID,
		[]enums.PayoutStatus{enums.PayoutStatusPending},
		map[string]any{"status": enums.PayoutStatusApproved},
		enums.PayoutStatusApproved,
	)
}

// Process completes a payout from approved or processing. The completed
// state is terminal: re-processing fails rather than silently re-stamping
// the transfer reference.
func (s *service) Process(ctx context.Context, input ProcessInput) (*models.Payout, error) {
	payout, err := s.load(ctx, input.PayoutID)
	if err != nil {
		return nil, err
	}

	switch payout.Status {
	case enums.PayoutStatusApproved, enums.PayoutStatusProcessing:
	case enums.PayoutStatusCompleted:
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyProcessed, "payout has already been processed")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payout cannot be processed from its current state").
			WithDetails(map[string]any{"status": payout.Status})
	}

	reference := strings.TrimSpace(input.PayoutReference)
	if input.Initiate {
		reference, err = s.initiateTransfer(ctx, payout)
		if err != nil {
			return nil, err
		}
	}
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payout reference is required")
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":           enums.PayoutStatusCompleted,
		"payout_reference": reference,
		"processed_at":     now,
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	return s.apply(ctx, payout.ID,
		[]enums.PayoutStatus{enums.PayoutStatusApproved, enums.PayoutStatusProcessing},
		updates, enums.PayoutStatusCompleted)
}

func (s *service) Cancel(ctx context.Context, payoutID uuid.UUID, notes *string) (*models.Payout, error) {
	updates := map[string]any{"status": enums.PayoutStatusCancelled}
	if notes != nil {
		updates["notes"] = *notes
	}
	return s.transition(ctx, payoutID, nonTerminalStatuses(), updates, enums.PayoutStatusCancelled)
}

func (s *service) MarkFailed(ctx context.Context, payoutID uuid.UUID, notes *string) (*models.Payout, error) {
	updates := map[string]any{"status": enums.PayoutStatusFailed}
	if notes != nil {
		updates["notes"] = *notes
	}
	return s.transition(ctx, payoutID, nonTerminalStatuses(), updates, enums.PayoutStatusFailed)
}

func (s *service) ListPending(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) (*PayoutList, error) {
	list, err := s.repo.ListPending(ctx, sellerID, params)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending payouts")
	}
	return list, nil
}

func (s *service) SummarizeRevenue(ctx context.Context) (*RevenueSummary, error) {
	summary, err := s.repo.SummarizeRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarize revenue")
	}
	return summary, nil
}

func (s *service) initiateTransfer(ctx context.Context, payout *models.Payout) (string, error) {
	if s.transfer == nil || s.banks == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "gateway transfers are not configured")
	}

	account, err := s.banks.FindBySellerID(ctx, payout.SellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeStateConflict, "seller has no registered bank account")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load seller bank account")
	}
	if account.RecipientCode == nil || *account.RecipientCode == "" {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "seller bank account has no transfer recipient")
	}

	transfer, err := s.transfer.InitiateTransfer(ctx, payout.Amount, payout.Currency,
		*account.RecipientCode, transferReferencePrefix+payout.ID.String(), "order settlement")
	if err != nil {
		return "", err
	}
	return transfer.Reference, nil
}

// transition loads for a precise error, then applies the conditional update.
func (s *service) transition(ctx context.Context, payoutID uuid.UUID, allowedFrom []enums.PayoutStatus, updates map[string]any, to enums.PayoutStatus) (*models.Payout, error) {
	payout, err := s.load(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if !statusIn(payout.Status, allowedFrom) {
		if payout.Status == enums.PayoutStatusCompleted {
			return nil, pkgerrors.New(pkgerrors.CodeAlreadyProcessed, "payout has already been processed")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payout cannot transition from its current state").
			WithDetails(map[string]any{"status": payout.Status, "requested": to})
	}
	return s.apply(ctx, payoutID, allowedFrom, updates, to)
}

func (s *service) apply(ctx context.Context, payoutID uuid.UUID, allowedFrom []enums.PayoutStatus, updates map[string]any, to enums.PayoutStatus) (*models.Payout, error) {
	updated, err := s.repo.TransitionStatus(ctx, payoutID, allowedFrom, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payout status")
	}
	if !updated {
		// Lost a race: someone else moved the payout first.
		current, err := s.load(ctx, payoutID)
		if err != nil {
			return nil, err
		}
		if current.Status == enums.PayoutStatusCompleted {
			return nil, pkgerrors.New(pkgerrors.CodeAlreadyProcessed, "payout has already been processed")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payout changed state concurrently").
			WithDetails(map[string]any{"status": current.Status})
	}

	s.metrics.IncPayoutTransition(to.String())
	s.logger.Info(s.logger.WithField(ctx, "payout_id", payoutID.String()), "payout "+to.String())

	return s.load(ctx, payoutID)
}

func (s *service) load(ctx context.Context, payoutID uuid.UUID) (*models.Payout, error) {
	payout, err := s.repo.FindByID(ctx, payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payout not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payout")
	}
	return payout, nil
}

func nonTerminalStatuses() []enums.PayoutStatus {
	return []enums.PayoutStatus{
		enums.PayoutStatusPending,
		enums.PayoutStatusApproved,
		enums.PayoutStatusProcessing,
	}
}

func statusIn(status enums.PayoutStatus, set []enums.PayoutStatus) bool {
	for _, candidate := range set {
		if candidate == status {
			return true
		}
	}
	return false
}
