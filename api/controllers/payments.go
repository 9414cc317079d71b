package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/adaezeobi/wasoko-backend/api/responses"
	"github.com/adaezeobi/wasoko-backend/api/validators"
	"github.com/adaezeobi/wasoko-backend/internal/payments"
	"github.com/adaezeobi/wasoko-backend/pkg/config"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

type checkoutRequest struct {
	ProductID       string         `json:"product_id" validate:"required,uuid"`
	Quantity        int            `json:"quantity" validate:"required,min=1"`
	ShippingAddress *types.Address `json:"shipping_address,omitempty"`
}

type checkoutResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	TotalAmount      string `json:"total_amount"`
	Currency         string `json:"currency"`
	Gateway          string `json:"gateway"`
}

// Checkout starts a hosted payment session for one product.
func Checkout(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		buyerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(req.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.InitializeCheckout(r.Context(), payments.CheckoutInput{
			BuyerID:         buyerID,
			ProductID:       productID,
			Quantity:        req.Quantity,
			ShippingAddress: req.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			Reference:        session.Reference,
			AuthorizationURL: session.AuthorizationURL,
			TotalAmount:      session.TotalAmount.StringFixed(2),
			Currency:         session.Currency.String(),
			Gateway:          session.Gateway.String(),
		})
	}
}

type verifyRequest struct {
	Reference string `json:"reference" validate:"required"`
}

type verifyResponse struct {
	Success bool          `json:"success"`
	Data    orderResponse `json:"data"`
}

// VerifyPayment confirms a charge with its gateway and settles it into an
// order. Safe to call repeatedly for the same reference.
func VerifyPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Materialize(r.Context(), strings.TrimSpace(req.Reference))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, verifyResponse{
			Success: true,
			Data:    toOrderResponse(result.Order),
		})
	}
}

// PaymentCallback is the browser return leg of a hosted checkout. The buyer
// lands here after the gateway page, so the outcome is a redirect to the
// storefront rather than a JSON payload.
func PaymentCallback(svc payments.Service, cfg config.MarketplaceConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reference := strings.TrimSpace(r.URL.Query().Get("reference"))
		if reference == "" {
			// Flutterwave's return leg names the parameter tx_ref.
			reference = strings.TrimSpace(r.URL.Query().Get("tx_ref"))
		}
		if reference == "" {
			http.Redirect(w, r, cfg.ErrorRedirectURL, http.StatusFound)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithReference(ctx, reference)
		}

		result, err := svc.Materialize(ctx, reference)
		if err != nil {
			if logg != nil {
				logg.Error(ctx, "callback materialization failed", err)
			}
			http.Redirect(w, r, redirectWithReason(redirectWithReference(cfg.ErrorRedirectURL, reference), err), http.StatusFound)
			return
		}

		if logg != nil && !result.AlreadyExisted {
			logg.Info(logg.WithOrderID(ctx, result.Order.ID.String()), "order settled from callback")
		}
		http.Redirect(w, r, redirectWithReference(cfg.SuccessRedirectURL, reference), http.StatusFound)
	}
}

func redirectWithReference(base, reference string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("reference", reference)
	u.RawQuery = q.Encode()
	return u.String()
}

// redirectWithReason carries a human-readable failure reason to the
// storefront. Raw gateway payloads never reach the buyer.
func redirectWithReason(base string, cause error) string {
	reason := "payment verification failed"
	if appErr := pkgerrors.As(cause); appErr != nil {
		reason = pkgerrors.MetadataFor(appErr.Code()).PublicMessage
	}

	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("reason", reason)
	u.RawQuery = q.Encode()
	return u.String()
}
