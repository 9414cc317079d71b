package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adaezeobi/wasoko-backend/api/responses"
	"github.com/adaezeobi/wasoko-backend/api/validators"
	"github.com/adaezeobi/wasoko-backend/internal/payouts"
	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
)

// AdminListPendingPayouts pages through payouts awaiting settlement,
// optionally filtered to one seller.
func AdminListPendingPayouts(svc payouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellerID, err := validators.ParseQueryUUID(r, "seller_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListPending(r.Context(), sellerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toPayoutListResponse(list))
	}
}

// AdminApprovePayout moves a pending payout to approved.
func AdminApprovePayout(svc payouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payoutID, err := payoutIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payout, err := svc.Approve(r.Context(), payoutID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toPayoutResponse(payout))
	}
}

type processPayoutRequest struct {
	PayoutReference string  `json:"payout_reference,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Initiate        bool    `json:"initiate,omitempty"`
}

// AdminProcessPayout completes a payout. With initiate set the transfer is
// issued through the seller's gateway recipient; otherwise the caller
// supplies the reference of a transfer made out of band.
func AdminProcessPayout(svc payouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payoutID, err := payoutIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req processPayoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payout, err := svc.Process(r.Context(), payouts.ProcessInput{
			PayoutID:        payoutID,
			PayoutReference: strings.TrimSpace(req.PayoutReference),
			Notes:           req.Notes,
			Initiate:        req.Initiate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toPayoutResponse(payout))
	}
}

type payoutNotesRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// AdminCancelPayout cancels a payout that has not completed.
func AdminCancelPayout(svc payouts.Service, logg *logger.Logger) http.HandlerFunc {
	return payoutNotesAction(svc.Cancel, logg)
}

// AdminFailPayout marks a payout failed, typically after a rejected
// transfer.
func AdminFailPayout(svc payouts.Service, logg *logger.Logger) http.HandlerFunc {
	return payoutNotesAction(svc.MarkFailed, logg)
}

// AdminRevenueSummary reports platform earnings across completed orders and
// the payout ledger.
func AdminRevenueSummary(svc payouts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.SummarizeRevenue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func payoutNotesAction(action func(ctx context.Context, payoutID uuid.UUID, notes *string) (*models.Payout, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payoutID, err := payoutIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req payoutNotesRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		payout, err := action(r.Context(), payoutID, req.Notes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toPayoutResponse(payout))
	}
}

func payoutIDParam(r *http.Request) (uuid.UUID, error) {
	return validators.ParsePathUUID(chi.URLParam(r, "payoutId"), "payoutId")
}
