package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/adaezeobi/wasoko-backend/api/responses"
	"github.com/adaezeobi/wasoko-backend/internal/webhooks"
	"github.com/adaezeobi/wasoko-backend/pkg/config"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
)

type chargeWebhookService interface {
	HandleChargeSuccess(ctx context.Context, reference string) error
}

type webhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// PaystackWebhook settles charge.success notifications from Paystack.
func PaystackWebhook(svc chargeWebhookService, cfg config.PaystackConfig, guard webhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook handling unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get("x-paystack-signature")
		if !webhooks.VerifyPaystackSignature(cfg.SecretKey, payload, signature) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		var event paystackEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload"))
			return
		}
		if event.Event != "charge.success" {
			responses.WriteSuccess(w, nil)
			return
		}
		reference := strings.TrimSpace(event.Data.Reference)
		if reference == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "charge reference missing"))
			return
		}

		handleChargeDelivery(ctx, svc, guard, logg, w, reference)
	}
}

type flutterwaveEvent struct {
	Event string `json:"event"`
	Data  struct {
		TxRef  string `json:"tx_ref"`
		Status string `json:"status"`
	} `json:"data"`
}

// FlutterwaveWebhook settles charge.completed notifications from Flutterwave.
func FlutterwaveWebhook(svc chargeWebhookService, cfg config.FlutterwaveConfig, guard webhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || guard == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook handling unavailable"))
			return
		}

		if !webhooks.VerifyFlutterwaveHash(cfg.WebhookHash, r.Header.Get("verif-hash")) {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
			return
		}

		var event flutterwaveEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload"))
			return
		}
		if event.Event != "charge.completed" || !strings.EqualFold(event.Data.Status, "successful") {
			responses.WriteSuccess(w, nil)
			return
		}
		reference := strings.TrimSpace(event.Data.TxRef)
		if reference == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "charge reference missing"))
			return
		}

		handleChargeDelivery(ctx, svc, guard, logg, w, reference)
	}
}

// handleChargeDelivery runs the shared replay-guarded settlement. The guard
// claim is released on failure so the gateway's retry can get through.
func handleChargeDelivery(ctx context.Context, svc chargeWebhookService, guard webhookGuard, logg *logger.Logger, w http.ResponseWriter, reference string) {
	seen, err := guard.CheckAndMark(ctx, reference)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check webhook replay"))
		return
	}
	if seen {
		responses.WriteSuccess(w, nil)
		return
	}

	if err := svc.HandleChargeSuccess(ctx, reference); err != nil {
		_ = guard.Delete(ctx, reference)
		responses.WriteError(ctx, logg, w, err)
		return
	}
	responses.WriteSuccess(w, nil)
}
