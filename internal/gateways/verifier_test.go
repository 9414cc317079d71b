package gateways

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
)

type stubClient struct {
	gatewayName enums.Gateway

	initializeFn func(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeSession, error)
	verifyFn     func(ctx context.Context, reference string) (*gateway.VerificationResult, error)
	listBanksFn  func(ctx context.Context, country string) ([]gateway.Bank, error)
	resolveFn    func(ctx context.Context, accountNumber, bankCode string) (*gateway.ResolvedAccount, error)
	recipientFn  func(ctx context.Context, req gateway.RecipientRequest) (*gateway.Recipient, error)
	transferFn   func(ctx context.Context, req gateway.TransferRequest) (*gateway.Transfer, error)
}

func (s *stubClient) Gateway() enums.Gateway { return s.gatewayName }

func (s *stubClient) Capabilities() gateway.Capabilities {
	return gateway.Capabilities{VerifyMethod: http.MethodGet}
}

func (s *stubClient) InitializeCharge(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeSession, error) {
	if s.initializeFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected InitializeCharge call")
	}
	return s.initializeFn(ctx, req)
}

func (s *stubClient) VerifyCharge(ctx context.Context, reference string) (*gateway.VerificationResult, error) {
	if s.verifyFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected VerifyCharge call")
	}
	return s.verifyFn(ctx, reference)
}

func (s *stubClient) ListBanks(ctx context.Context, country string) ([]gateway.Bank, error) {
	if s.listBanksFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected ListBanks call")
	}
	return s.listBanksFn(ctx, country)
}

func (s *stubClient) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*gateway.ResolvedAccount, error) {
	if s.resolveFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected ResolveAccount call")
	}
	return s.resolveFn(ctx, accountNumber, bankCode)
}

func (s *stubClient) CreateTransferRecipient(ctx context.Context, req gateway.RecipientRequest) (*gateway.Recipient, error) {
	if s.recipientFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected CreateTransferRecipient call")
	}
	return s.recipientFn(ctx, req)
}

func (s *stubClient) InitiateTransfer(ctx context.Context, req gateway.TransferRequest) (*gateway.Transfer, error) {
	if s.transferFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "unexpected InitiateTransfer call")
	}
	return s.transferFn(ctx, req)
}

func testVerifier(t *testing.T, paystackStub, flutterwaveStub *stubClient) *Verifier {
	t.Helper()
	paystackStub.gatewayName = enums.GatewayPaystack
	flutterwaveStub.gatewayName = enums.GatewayFlutterwave

	registry, err := NewRegistry(paystackStub, flutterwaveStub)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	verifier, err := NewVerifier(registry, logger.New(logger.Options{Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return verifier
}

func TestVerifyRoutesByReferencePrefix(t *testing.T) {
	reference := NewReference(enums.GatewayFlutterwave)

	flutterwaveStub := &stubClient{
		verifyFn: func(ctx context.Context, ref string) (*gateway.VerificationResult, error) {
			if ref != reference {
				t.Fatalf("wrong reference forwarded: %q", ref)
			}
			return &gateway.VerificationResult{
				Reference:   ref,
				Success:     true,
				RawStatus:   "successful",
				AmountMinor: 1000000,
				Currency:    enums.CurrencyUSD,
			}, nil
		},
	}
	// Paystack must never be consulted for a flutterwave-prefixed reference.
	verifier := testVerifier(t, &stubClient{}, flutterwaveStub)

	result, err := verifier.Verify(context.Background(), reference)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Gateway != enums.GatewayFlutterwave {
		t.Fatalf("expected flutterwave, got %s", result.Gateway)
	}
	if !result.Amount.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("minor units not converted: %s", result.Amount)
	}
}

func TestVerifyForeignReferenceFallsBackAcrossGateways(t *testing.T) {
	paystackStub := &stubClient{
		verifyFn: func(ctx context.Context, ref string) (*gateway.VerificationResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown reference")
		},
	}
	flutterwaveStub := &stubClient{
		verifyFn: func(ctx context.Context, ref string) (*gateway.VerificationResult, error) {
			return &gateway.VerificationResult{
				Reference:   ref,
				Success:     true,
				RawStatus:   "successful",
				AmountMinor: 5000,
				Currency:    enums.CurrencyUSD,
			}, nil
		},
	}
	verifier := testVerifier(t, paystackStub, flutterwaveStub)

	result, err := verifier.Verify(context.Background(), "legacy-ref-77")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Gateway != enums.GatewayFlutterwave {
		t.Fatalf("fallback did not reach flutterwave: %s", result.Gateway)
	}
}

func TestVerifyForeignReferenceUnknownEverywhere(t *testing.T) {
	notFound := func(ctx context.Context, ref string) (*gateway.VerificationResult, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "unknown reference")
	}
	verifier := testVerifier(t, &stubClient{verifyFn: notFound}, &stubClient{verifyFn: notFound})

	_, err := verifier.Verify(context.Background(), "legacy-ref-78")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodePaymentNotConfirmed {
		t.Fatalf("expected payment not confirmed, got %v", err)
	}
}

func TestInitializeChargeRoutesByCurrencyAndConvertsOnce(t *testing.T) {
	var captured gateway.ChargeRequest

	paystackStub := &stubClient{
		initializeFn: func(ctx context.Context, req gateway.ChargeRequest) (*gateway.ChargeSession, error) {
			captured = req
			return &gateway.ChargeSession{Reference: req.Reference, AuthorizationURL: "https://checkout.test/x"}, nil
		},
	}
	verifier := testVerifier(t, paystackStub, &stubClient{})

	session, err := verifier.InitializeCharge(context.Background(), InitializeRequest{
		Amount:   decimal.RequireFromString("10000.50"),
		Currency: enums.CurrencyNGN,
		Email:    "buyer@example.com",
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if captured.AmountMinor != 1000050 {
		t.Fatalf("expected 1000050 kobo, got %d", captured.AmountMinor)
	}
	if !strings.HasPrefix(session.Reference, "wsk-ps-") {
		t.Fatalf("reference missing paystack prefix: %q", session.Reference)
	}
}

func TestListBanksDegradesToPartialDirectory(t *testing.T) {
	paystackStub := &stubClient{
		listBanksFn: func(ctx context.Context, country string) ([]gateway.Bank, error) {
			return []gateway.Bank{{ID: 1, Name: "First Bank", Code: "011"}}, nil
		},
	}
	flutterwaveStub := &stubClient{
		listBanksFn: func(ctx context.Context, country string) ([]gateway.Bank, error) {
			return nil, pkgerrors.New(pkgerrors.CodeGatewayUnavailable, "down")
		},
	}
	verifier := testVerifier(t, paystackStub, flutterwaveStub)

	banks := verifier.ListBanks(context.Background(), "nigeria")
	if len(banks) != 1 || banks[0].Code != "011" {
		t.Fatalf("expected partial directory, got %+v", banks)
	}
}

func TestResolveAccountSwallowsFailures(t *testing.T) {
	paystackStub := &stubClient{
		resolveFn: func(ctx context.Context, accountNumber, bankCode string) (*gateway.ResolvedAccount, error) {
			return nil, pkgerrors.New(pkgerrors.CodeGatewayUnavailable, "down")
		},
	}
	verifier := testVerifier(t, paystackStub, &stubClient{})

	if resolved := verifier.ResolveAccount(context.Background(), enums.CurrencyNGN, "0123456789", "058"); resolved != nil {
		t.Fatalf("expected nil on failure, got %+v", resolved)
	}
}

func TestGatewayFromReference(t *testing.T) {
	if g, ok := GatewayFromReference(NewReference(enums.GatewayPaystack)); !ok || g != enums.GatewayPaystack {
		t.Fatalf("paystack prefix not recognized")
	}
	if g, ok := GatewayFromReference(NewReference(enums.GatewayFlutterwave)); !ok || g != enums.GatewayFlutterwave {
		t.Fatalf("flutterwave prefix not recognized")
	}
	if _, ok := GatewayFromReference("ref-from-elsewhere"); ok {
		t.Fatal("foreign reference should not resolve")
	}
}
