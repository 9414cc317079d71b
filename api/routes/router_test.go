package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/internal/orders"
	"github.com/adaezeobi/wasoko-backend/internal/payments"
	"github.com/adaezeobi/wasoko-backend/internal/payouts"
	"github.com/adaezeobi/wasoko-backend/internal/sellers"
	"github.com/adaezeobi/wasoko-backend/internal/webhooks"
	pkgAuth "github.com/adaezeobi/wasoko-backend/pkg/auth"
	"github.com/adaezeobi/wasoko-backend/pkg/config"
	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/gateway"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

type stubPayments struct{}

func (s *stubPayments) InitializeCheckout(ctx context.Context, input payments.CheckoutInput) (*payments.CheckoutSession, error) {
	return &payments.CheckoutSession{Reference: "wsk-ps-abc"}, nil
}

func (s *stubPayments) Materialize(ctx context.Context, reference string) (*payments.MaterializeResult, error) {
	return &payments.MaterializeResult{Order: &models.Order{ID: uuid.New(), Currency: enums.CurrencyNGN}}, nil
}

type stubOrders struct {
	confirmed *orders.ConfirmDeliveryInput
}

func (s *stubOrders) ConfirmDelivery(ctx context.Context, input orders.ConfirmDeliveryInput) (*orders.ConfirmDeliveryResult, error) {
	s.confirmed = &input
	return &orders.ConfirmDeliveryResult{
		OrderID:      input.OrderID,
		Status:       enums.OrderStatusDelivered,
		PayoutID:     uuid.New(),
		SellerPayout: decimal.RequireFromString("9262.50"),
		Currency:     enums.CurrencyNGN,
	}, nil
}

func (s *stubOrders) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool) (*models.Order, error) {
	return &models.Order{ID: orderID, Currency: enums.CurrencyNGN}, nil
}

func (s *stubOrders) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrders) ListSellerOrders(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

type stubPayouts struct{}

func (s *stubPayouts) Approve(ctx context.Context, payoutID uuid.UUID) (*models.Payout, error) {
	return &models.Payout{ID: payoutID, Status: enums.PayoutStatusApproved, Currency: enums.CurrencyNGN}, nil
}

func (s *stubPayouts) Process(ctx context.Context, input payouts.ProcessInput) (*models.Payout, error) {
	return &models.Payout{ID: input.PayoutID, Status: enums.PayoutStatusCompleted, Currency: enums.CurrencyNGN}, nil
}

func (s *stubPayouts) Cancel(ctx context.Context, payoutID uuid.UUID, notes *string) (*models.Payout, error) {
	return &models.Payout{ID: payoutID, Status: enums.PayoutStatusCancelled, Currency: enums.CurrencyNGN}, nil
}

func (s *stubPayouts) MarkFailed(ctx context.Context, payoutID uuid.UUID, notes *string) (*models.Payout, error) {
	return &models.Payout{ID: payoutID, Status: enums.PayoutStatusFailed, Currency: enums.CurrencyNGN}, nil
}

func (s *stubPayouts) ListPending(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) (*payouts.PayoutList, error) {
	return &payouts.PayoutList{}, nil
}

func (s *stubPayouts) SummarizeRevenue(ctx context.Context) (*payouts.RevenueSummary, error) {
	return &payouts.RevenueSummary{TotalOrders: 2}, nil
}

type stubSellers struct{}

func (s *stubSellers) RegisterBankAccount(ctx context.Context, input sellers.RegisterBankAccountInput) (*models.SellerBankAccount, error) {
	return &models.SellerBankAccount{SellerID: input.SellerID, Gateway: enums.GatewayPaystack}, nil
}

func (s *stubSellers) GetBankAccount(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankAccount, error) {
	return &models.SellerBankAccount{SellerID: sellerID, Gateway: enums.GatewayPaystack}, nil
}

func (s *stubSellers) ResolveAccount(ctx context.Context, currency enums.Currency, accountNumber, bankCode string) *gateway.ResolvedAccount {
	return nil
}

func (s *stubSellers) ListBanks(ctx context.Context, country string) []gateway.Bank {
	return []gateway.Bank{{ID: 1, Name: "Guaranty Trust Bank", Code: "058"}}
}

type stubWebhookStore struct{}

func (s *stubWebhookStore) IdempotencyKey(scope, id string) string { return scope + ":" + id }

func (s *stubWebhookStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (s *stubWebhookStore) Del(ctx context.Context, key string) error { return nil }

func testRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "test-secret", Issuer: "wasoko", ExpirationMinutes: 60},
		Marketplace: config.MarketplaceConfig{
			SuccessRedirectURL: "https://wasoko.app/payment/success",
			ErrorRedirectURL:   "https://wasoko.app/payment/error",
		},
	}
	logg := logger.New(logger.Options{Output: io.Discard})

	webhooksService, err := webhooks.NewService(&stubPayments{}, logg)
	if err != nil {
		t.Fatalf("webhooks service: %v", err)
	}
	guard, err := webhooks.NewIdempotencyGuard(&stubWebhookStore{}, time.Hour, "test")
	if err != nil {
		t.Fatalf("webhook guard: %v", err)
	}

	handler := NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		Payments: &stubPayments{},
		Orders:   &stubOrders{},
		Payouts:  &stubPayouts{},
		Sellers:  &stubSellers{},

		Webhooks:         webhooksService,
		PaystackGuard:    guard,
		FlutterwaveGuard: guard,
	})
	return handler, cfg.JWT
}

func bearerToken(t *testing.T, cfg config.JWTConfig, role string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), uuid.New(), role)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthLiveIsPublic(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminRoutesRejectMembers(t *testing.T) {
	handler, jwtCfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/revenue", nil)
	req.Header.Set("Authorization", bearerToken(t, jwtCfg, pkgAuth.RoleMember))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminRevenueWithAdminToken(t *testing.T) {
	handler, jwtCfg := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/revenue", nil)
	req.Header.Set("Authorization", bearerToken(t, jwtCfg, pkgAuth.RoleAdmin))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "total_orders") {
		t.Fatalf("unexpected revenue payload: %s", rec.Body.String())
	}
}

func TestConfirmDeliveryRoute(t *testing.T) {
	handler, jwtCfg := testRouter(t)
	orderID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/confirm-delivery",
		strings.NewReader(`{"tracking_number":"TRK-99"}`))
	req.Header.Set("Authorization", bearerToken(t, jwtCfg, pkgAuth.RoleMember))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "delivered") {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestPaymentCallbackIsPublic(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify?reference=wsk-ps-abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 redirect, got %d", rec.Code)
	}
}

func TestWebhookRoutesRequireSignature(t *testing.T) {
	handler, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack",
		strings.NewReader(`{"event":"charge.success","data":{"reference":"wsk-ps-abc"}}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}
