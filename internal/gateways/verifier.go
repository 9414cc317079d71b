package gateways

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/metrics"
	"github.com/adaezeobi/wasoko-backend/pkg/money"
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

var (
	errLoggerRequired   = errors.New("gateway verifier logger is required")
	errRegistryRequired = errors.New("gateway registry is required")
)

// Verification is a processor-agnostic charge lookup result with the amount
// already converted to major units.
type Verification struct {
	Gateway       enums.Gateway
	Reference     string
	Success       bool
	RawStatus     string
	Amount        decimal.Decimal
	Currency      enums.Currency
	CustomerEmail string
	Metadata      gateway.ChargeMetadata
	PaidAt        *time.Time
	Raw           types.JSONMap
}

// InitializeRequest starts a checkout for an order quote. Amount is in major
// units; the minor-unit conversion happens once, here.
type InitializeRequest struct {
	Amount      decimal.Decimal
	Currency    enums.Currency
	Email       string
	CallbackURL string
	Metadata    gateway.ChargeMetadata
}

// Verifier fronts both processor adapters behind one contract: charge
// initialization and verification surface typed failures, while the
// seller-onboarding lookups (banks, account resolution) are best-effort and
// degrade to empty results.
type Verifier struct {
	registry *Registry
	logger   *logger.Logger
	metrics  *metrics.PaymentMetrics
}

// NewVerifier wires the verifier. Metrics may be nil in tests.
func NewVerifier(registry *Registry, logg *logger.Logger, m *metrics.PaymentMetrics) (*Verifier, error) {
	if registry == nil {
		return nil, errRegistryRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	return &Verifier{registry: registry, logger: logg, metrics: m}, nil
}

func (v *Verifier) observe(g enums.Gateway, operation string, started time.Time, err error) {
	v.metrics.ObserveGateway(g.String(), operation, time.Since(started), err)
}

// InitializeCharge mints a prefixed reference, routes the charge by currency,
// and returns the processor's hosted checkout session.
func (v *Verifier) InitializeCharge(ctx context.Context, req InitializeRequest) (*gateway.ChargeSession, error) {
	client := v.registry.ClientForCurrency(req.Currency.String())

	wireReq := gateway.ChargeRequest{
		Reference:   NewReference(client.Gateway()),
		AmountMinor: money.ToMinor(req.Amount),
		Currency:    req.Currency,
		Email:       req.Email,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	started := time.Now()
	session, err := client.InitializeCharge(ctx, wireReq)
	v.observe(client.Gateway(), "initialize", started, err)
	if err != nil {
		return nil, err
	}

	v.logger.Info(v.logger.WithGateway(v.logger.WithReference(ctx, session.Reference), client.Gateway().String()),
		"charge initialized")
	return session, nil
}

// Verify looks up a charge by reference. Prefixed references go straight to
// their issuing processor; anything else is asked of each processor in turn
// and the combined failure is surfaced only if neither recognizes it.
func (v *Verifier) Verify(ctx context.Context, reference string) (*Verification, error) {
	if g, ok := GatewayFromReference(reference); ok {
		client, err := v.registry.ClientFor(g)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve gateway client")
		}
		return v.verifyWith(ctx, client, reference)
	}

	var combined error
	for _, g := range []enums.Gateway{enums.GatewayPaystack, enums.GatewayFlutterwave} {
		client, err := v.registry.ClientFor(g)
		if err != nil {
			combined = multierr.Append(combined, err)
			continue
		}
		result, err := v.verifyWith(ctx, client, reference)
		if err == nil {
			return result, nil
		}
		combined = multierr.Append(combined, err)
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodePaymentNotConfirmed, combined, "no gateway recognizes reference")
}

func (v *Verifier) verifyWith(ctx context.Context, client gateway.Client, reference string) (*Verification, error) {
	started := time.Now()
	result, err := client.VerifyCharge(ctx, reference)
	v.observe(client.Gateway(), "verify", started, err)
	if err != nil {
		return nil, err
	}

	return &Verification{
		Gateway:       client.Gateway(),
		Reference:     result.Reference,
		Success:       result.Success,
		RawStatus:     result.RawStatus,
		Amount:        money.FromMinor(result.AmountMinor),
		Currency:      result.Currency,
		CustomerEmail: result.CustomerEmail,
		Metadata:      result.Metadata,
		PaidAt:        result.PaidAt,
		Raw:           result.Raw,
	}, nil
}

// ListBanks aggregates the bank directories of both processors for a
// country. Lookups are best-effort: a processor failure is logged and its
// directory omitted rather than failing the whole listing.
func (v *Verifier) ListBanks(ctx context.Context, country string) []gateway.Bank {
	var banks []gateway.Bank
	var combined error

	for _, g := range []enums.Gateway{enums.GatewayPaystack, enums.GatewayFlutterwave} {
		client, err := v.registry.ClientFor(g)
		if err != nil {
			combined = multierr.Append(combined, err)
			continue
		}

		started := time.Now()
		result, err := client.ListBanks(ctx, country)
		v.observe(g, "list_banks", started, err)
		if err != nil {
			combined = multierr.Append(combined, err)
			continue
		}
		banks = append(banks, result...)
	}

	if combined != nil {
		v.logger.Warn(v.logger.WithField(ctx, "error", combined.Error()), "partial bank directory")
	}
	return banks
}

// ResolveAccount asks the currency's processor for the account holder name.
// Best-effort: failures return nil rather than an error.
func (v *Verifier) ResolveAccount(ctx context.Context, currency enums.Currency, accountNumber, bankCode string) *gateway.ResolvedAccount {
	client := v.registry.ClientForCurrency(currency.String())

	started := time.Now()
	resolved, err := client.ResolveAccount(ctx, accountNumber, bankCode)
	v.observe(client.Gateway(), "resolve_account", started, err)
	if err != nil {
		v.logger.Warn(v.logger.WithGateway(ctx, client.Gateway().String()), "account resolution failed")
		return nil
	}
	return resolved
}

// CreateTransferRecipient registers a payout target with the currency's
// processor. Unlike the lookups above this surfaces typed failures, since
// onboarding must not silently half-complete.
func (v *Verifier) CreateTransferRecipient(ctx context.Context, req gateway.RecipientRequest) (*gateway.Recipient, error) {
	client := v.registry.ClientForCurrency(req.Currency.String())

	started := time.Now()
	recipient, err := client.CreateTransferRecipient(ctx, req)
	v.observe(client.Gateway(), "create_recipient", started, err)
	return recipient, err
}

// InitiateTransfer moves funds to a registered recipient through the
// currency's processor. Amount is in major units.
func (v *Verifier) InitiateTransfer(ctx context.Context, amount decimal.Decimal, currency enums.Currency, recipientCode, reference, reason string) (*gateway.Transfer, error) {
	client := v.registry.ClientForCurrency(currency.String())

	wireReq := gateway.TransferRequest{
		Reference:     reference,
		AmountMinor:   money.ToMinor(amount),
		Currency:      currency,
		RecipientCode: recipientCode,
		Reason:        reason,
	}

	started := time.Now()
	transfer, err := client.InitiateTransfer(ctx, wireReq)
	v.observe(client.Gateway(), "initiate_transfer", started, err)
	if err != nil {
		return nil, err
	}

	v.logger.Info(v.logger.WithGateway(v.logger.WithReference(ctx, transfer.Reference), client.Gateway().String()),
		"transfer initiated")
	return transfer, nil
}
