package payouts

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
)

// ProcessInput completes a payout. When Initiate is set the transfer is
// issued through the gateway and its reference recorded; otherwise the
// operator supplies the reference of a transfer made out of band.
type ProcessInput struct {
	PayoutID        uuid.UUID
	PayoutReference string
	Notes           *string
	Initiate        bool
}

// PayoutList is one cursor page of payouts.
type PayoutList struct {
	Items      []models.Payout
	NextCursor string
	HasMore    bool
}

// RevenueSummary aggregates platform earnings across completed orders and
// their payouts. Realized revenue counts only commission whose payout has
// completed; pending revenue is commission still travelling the lifecycle.
type RevenueSummary struct {
	TotalOrders            int64           `json:"total_orders"`
	TotalGMV               decimal.Decimal `json:"total_gmv"`
	TotalCommissionRevenue decimal.Decimal `json:"total_commission_revenue"`
	RealizedRevenue        decimal.Decimal `json:"realized_revenue"`
	PendingRevenue         decimal.Decimal `json:"pending_revenue"`
	ActiveSellers          int64           `json:"active_sellers"`
	ActiveBuyers           int64           `json:"active_buyers"`
}
