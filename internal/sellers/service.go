package sellers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/internal/fees"
	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
)

type service struct {
	repo     Repository
	gateways GatewayDirectory
	logger   *logger.Logger
}

// NewService wires seller payout onboarding.
func NewService(repo Repository, gateways GatewayDirectory, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("sellers repository is required")
	}
	if gateways == nil {
		return nil, errors.New("gateway directory is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{repo: repo, gateways: gateways, logger: logg}, nil
}

// RegisterBankAccount resolves and registers a seller's settlement account.
// Resolution is advisory: when the processor can confirm the holder name it
// wins over the submitted one, but an unavailable directory does not block
// onboarding. Recipient registration is not advisory, a seller without a
// recipient code cannot be paid out through the gateway.
func (s *service) RegisterBankAccount(ctx context.Context, input RegisterBankAccountInput) (*models.SellerBankAccount, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, err
	}

	currency := enums.NormalizeCurrency(input.Currency)
	accountName := input.AccountName

	if resolved := s.gateways.ResolveAccount(ctx, currency, input.AccountNumber, input.BankCode); resolved != nil {
		if resolved.AccountName != "" && !strings.EqualFold(resolved.AccountName, accountName) {
			s.logger.Info(ctx, "using processor-resolved account name")
			accountName = resolved.AccountName
		}
	}

	recipient, err := s.gateways.CreateTransferRecipient(ctx, gateway.RecipientRequest{
		Name:          accountName,
		AccountNumber: input.AccountNumber,
		BankCode:      input.BankCode,
		Currency:      currency,
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register transfer recipient")
	}

	account := &models.SellerBankAccount{
		SellerID:      input.SellerID,
		BankCode:      input.BankCode,
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		AccountName:   accountName,
		Gateway:       fees.GatewayFor(currency.String()),
		RecipientCode: &recipient.Code,
	}

	saved, err := s.repo.Upsert(ctx, account)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save bank account")
	}

	s.logger.Info(s.logger.WithUserID(ctx, saved.SellerID.String()), "seller bank account registered")
	return saved, nil
}

func (s *service) GetBankAccount(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankAccount, error) {
	account, err := s.repo.FindBySellerID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no bank account registered for seller")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bank account")
	}
	return account, nil
}

func (s *service) ListBanks(ctx context.Context, country string) []gateway.Bank {
	return s.gateways.ListBanks(ctx, country)
}

func (s *service) ResolveAccount(ctx context.Context, currency enums.Currency, accountNumber, bankCode string) *gateway.ResolvedAccount {
	return s.gateways.ResolveAccount(ctx, currency, accountNumber, bankCode)
}

func validateRegisterInput(input *RegisterBankAccountInput) error {
	input.BankCode = strings.TrimSpace(input.BankCode)
	input.BankName = strings.TrimSpace(input.BankName)
	input.AccountNumber = strings.TrimSpace(input.AccountNumber)
	input.AccountName = strings.TrimSpace(input.AccountName)
	input.Currency = strings.TrimSpace(input.Currency)

	if input.SellerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "seller id is required")
	}
	if input.BankCode == "" || input.AccountNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "bank code and account number are required")
	}
	if input.AccountName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "account name is required")
	}
	if input.Currency == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
	}
	return nil
}
