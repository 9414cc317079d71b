package controllers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/internal/orders"
	"github.com/adaezeobi/wasoko-backend/internal/payouts"
	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

type orderResponse struct {
	ID               string          `json:"id"`
	BuyerID          string          `json:"buyer_id"`
	SellerID         string          `json:"seller_id"`
	ProductID        *string         `json:"product_id,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Currency         string          `json:"currency"`
	PaymentReference string          `json:"payment_reference"`
	PaymentGateway   string          `json:"payment_gateway"`
	PaymentStatus    string          `json:"payment_status"`
	Status           string          `json:"status"`
	ShippingAddress  *types.Address  `json:"shipping_address,omitempty"`
	TrackingNumber   *string         `json:"tracking_number,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	DeliveredAt      *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toOrderResponse(order *models.Order) orderResponse {
	resp := orderResponse{
		ID:               order.ID.String(),
		BuyerID:          order.BuyerID.String(),
		SellerID:         order.SellerID.String(),
		Quantity:         order.Quantity,
		UnitPrice:        order.UnitPrice,
		TotalAmount:      order.TotalAmount,
		Currency:         order.Currency.String(),
		PaymentReference: order.PaymentReference,
		PaymentGateway:   order.PaymentGateway.String(),
		PaymentStatus:    order.PaymentStatus.String(),
		Status:           order.Status.String(),
		ShippingAddress:  order.ShippingAddress,
		TrackingNumber:   order.TrackingNumber,
		PaidAt:           order.PaidAt,
		DeliveredAt:      order.DeliveredAt,
		CreatedAt:        order.CreatedAt,
	}
	if order.ProductID != nil {
		id := order.ProductID.String()
		resp.ProductID = &id
	}
	return resp
}

type orderListResponse struct {
	Items      []orderResponse `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

func toOrderListResponse(list *orders.OrderList) orderListResponse {
	items := make([]orderResponse, 0, len(list.Items))
	for i := range list.Items {
		items = append(items, toOrderResponse(&list.Items[i]))
	}
	return orderListResponse{Items: items, NextCursor: list.NextCursor, HasMore: list.HasMore}
}

type payoutResponse struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	SellerID         string          `json:"seller_id"`
	Amount           decimal.Decimal `json:"amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	PayoutReference  *string         `json:"payout_reference,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	ProcessedAt      *time.Time      `json:"processed_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toPayoutResponse(payout *models.Payout) payoutResponse {
	return payoutResponse{
		ID:               payout.ID.String(),
		OrderID:          payout.OrderID.String(),
		SellerID:         payout.SellerID.String(),
		Amount:           payout.Amount,
		CommissionAmount: payout.CommissionAmount,
		Currency:         payout.Currency.String(),
		Status:           payout.Status.String(),
		PayoutReference:  payout.PayoutReference,
		Notes:            payout.Notes,
		ProcessedAt:      payout.ProcessedAt,
		CreatedAt:        payout.CreatedAt,
	}
}

type payoutListResponse struct {
	Items      []payoutResponse `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}

func toPayoutListResponse(list *payouts.PayoutList) payoutListResponse {
	items := make([]payoutResponse, 0, len(list.Items))
	for i := range list.Items {
		items = append(items, toPayoutResponse(&list.Items[i]))
	}
	return payoutListResponse{Items: items, NextCursor: list.NextCursor, HasMore: list.HasMore}
}

type bankAccountResponse struct {
	SellerID      string `json:"seller_id"`
	BankCode      string `json:"bank_code"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	Gateway       string `json:"gateway"`
	Registered    bool   `json:"registered"`
}

func toBankAccountResponse(account *models.SellerBankAccount) bankAccountResponse {
	return bankAccountResponse{
		SellerID:      account.SellerID.String(),
		BankCode:      account.BankCode,
		BankName:      account.BankName,
		AccountNumber: account.AccountNumber,
		AccountName:   account.AccountName,
		Gateway:       account.Gateway.String(),
		Registered:    account.RecipientCode != nil,
	}
}
