package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/adaezeobi/wasoko-backend/api/responses"
	"github.com/adaezeobi/wasoko-backend/api/validators"
	"github.com/adaezeobi/wasoko-backend/internal/orders"
	"github.com/adaezeobi/wasoko-backend/pkg/logger"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

type confirmDeliveryRequest struct {
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

type confirmDeliveryResponse struct {
	OrderID      string `json:"order_id"`
	Status       string `json:"status"`
	PayoutID     string `json:"payout_id"`
	SellerPayout string `json:"seller_payout"`
	Currency     string `json:"currency"`
}

// ConfirmDelivery marks an order delivered and releases the seller payout.
// Only the buyer may confirm.
func ConfirmDelivery(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		buyerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req confirmDeliveryRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if req.TrackingNumber != nil {
			trimmed := strings.TrimSpace(*req.TrackingNumber)
			if trimmed == "" {
				req.TrackingNumber = nil
			} else {
				req.TrackingNumber = &trimmed
			}
		}

		result, err := svc.ConfirmDelivery(r.Context(), orders.ConfirmDeliveryInput{
			OrderID:        orderID,
			ConfirmedBy:    buyerID,
			TrackingNumber: req.TrackingNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, confirmDeliveryResponse{
			OrderID:      result.OrderID.String(),
			Status:       result.Status.String(),
			PayoutID:     result.PayoutID.String(),
			SellerPayout: result.SellerPayout.StringFixed(2),
			Currency:     result.Currency.String(),
		})
	}
}

// OrderDetail returns one order. Buyers and sellers see their own orders,
// admins see everything.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID, actor, actorIsAdmin(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}

// ListPurchases pages through the caller's orders as buyer.
func ListPurchases(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListBuyerOrders(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderListResponse(list))
	}
}

// ListSales pages through the caller's orders as seller.
func ListSales(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListSellerOrders(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderListResponse(list))
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
