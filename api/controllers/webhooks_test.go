package controllers

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adaezeobi/wasoko-backend/pkg/config"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
)

type stubChargeWebhookService struct {
	err     error
	lastRef string
	calls   int
}

func (s *stubChargeWebhookService) HandleChargeSuccess(ctx context.Context, reference string) error {
	s.calls++
	s.lastRef = reference
	return s.err
}

type stubWebhookGuard struct {
	seen    bool
	marked  []string
	deleted []string
}

func (g *stubWebhookGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	g.marked = append(g.marked, eventID)
	return g.seen, nil
}

func (g *stubWebhookGuard) Delete(ctx context.Context, eventID string) error {
	g.deleted = append(g.deleted, eventID)
	return nil
}

func paystackSign(secret, payload string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackWebhook(t *testing.T) {
	cfg := config.PaystackConfig{SecretKey: "sk_test_abc"}
	payload := `{"event":"charge.success","data":{"reference":"wsk-ps-abc"}}`

	t.Run("settles signed charge", func(t *testing.T) {
		svc := &stubChargeWebhookService{}
		guard := &stubWebhookGuard{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", strings.NewReader(payload))
		req.Header.Set("x-paystack-signature", paystackSign(cfg.SecretKey, payload))
		rec := httptest.NewRecorder()
		PaystackWebhook(svc, cfg, guard, nil)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.lastRef != "wsk-ps-abc" {
			t.Fatalf("unexpected reference %q", svc.lastRef)
		}
	})

	t.Run("rejects bad signature", func(t *testing.T) {
		svc := &stubChargeWebhookService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", strings.NewReader(payload))
		req.Header.Set("x-paystack-signature", "deadbeef")
		rec := httptest.NewRecorder()
		PaystackWebhook(svc, cfg, &stubWebhookGuard{}, nil)(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if svc.calls != 0 {
			t.Fatal("unsigned delivery reached the service")
		}
	})

	t.Run("ignores other events", func(t *testing.T) {
		svc := &stubChargeWebhookService{}
		body := `{"event":"transfer.success","data":{"reference":"wsk-po-1"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", strings.NewReader(body))
		req.Header.Set("x-paystack-signature", paystackSign(cfg.SecretKey, body))
		rec := httptest.NewRecorder()
		PaystackWebhook(svc, cfg, &stubWebhookGuard{}, nil)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.calls != 0 {
			t.Fatal("non-charge event reached the service")
		}
	})

	t.Run("suppresses replay", func(t *testing.T) {
		svc := &stubChargeWebhookService{}
		guard := &stubWebhookGuard{seen: true}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", strings.NewReader(payload))
		req.Header.Set("x-paystack-signature", paystackSign(cfg.SecretKey, payload))
		rec := httptest.NewRecorder()
		PaystackWebhook(svc, cfg, guard, nil)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.calls != 0 {
			t.Fatal("replayed delivery reached the service")
		}
	})

	t.Run("releases guard on failure", func(t *testing.T) {
		svc := &stubChargeWebhookService{err: pkgerrors.New(pkgerrors.CodeGatewayUnavailable, "verify timed out")}
		guard := &stubWebhookGuard{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/paystack", strings.NewReader(payload))
		req.Header.Set("x-paystack-signature", paystackSign(cfg.SecretKey, payload))
		rec := httptest.NewRecorder()
		PaystackWebhook(svc, cfg, guard, nil)(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		if len(guard.deleted) != 1 || guard.deleted[0] != "wsk-ps-abc" {
			t.Fatalf("guard claim was not released: %v", guard.deleted)
		}
	})
}

func TestFlutterwaveWebhook(t *testing.T) {
	cfg := config.FlutterwaveConfig{WebhookHash: "hash-123"}

	t.Run("settles completed charge", func(t *testing.T) {
		svc := &stubChargeWebhookService{}
		body := `{"event":"charge.completed","data":{"tx_ref":"wsk-fw-abc","status":"successful"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/flutterwave", strings.NewReader(body))
		req.Header.Set("verif-hash", "hash-123")
		rec := httptest.NewRecorder()
		FlutterwaveWebhook(svc, cfg, &stubWebhookGuard{}, nil)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.lastRef != "wsk-fw-abc" {
			t.Fatalf("unexpected reference %q", svc.lastRef)
		}
	})

	t.Run("rejects bad hash", func(t *testing.T) {
		svc := &stubChargeWebhookService{}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/flutterwave", strings.NewReader(`{}`))
		req.Header.Set("verif-hash", "hash-456")
		rec := httptest.NewRecorder()
		FlutterwaveWebhook(svc, cfg, &stubWebhookGuard{}, nil)(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if svc.calls != 0 {
			t.Fatal("unsigned delivery reached the service")
		}
	})

	t.Run("ignores failed charge", func(t *testing.T) {
		svc := &stubChargeWebhookService{}
		body := `{"event":"charge.completed","data":{"tx_ref":"wsk-fw-abc","status":"failed"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/flutterwave", strings.NewReader(body))
		req.Header.Set("verif-hash", "hash-123")
		rec := httptest.NewRecorder()
		FlutterwaveWebhook(svc, cfg, &stubWebhookGuard{}, nil)(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if svc.calls != 0 {
			t.Fatal("failed charge reached the service")
		}
	})
}
