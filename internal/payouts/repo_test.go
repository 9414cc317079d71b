package payouts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/pkg/db"
	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

func setupPayoutsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  product_id TEXT,
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  total_amount TEXT NOT NULL,
  currency TEXT NOT NULL,
  payment_reference TEXT NOT NULL,
  payment_gateway TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  status TEXT NOT NULL DEFAULT 'pending',
  shipping_address TEXT,
  tracking_number TEXT,
  paid_at DATETIME,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS payouts (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  order_id TEXT NOT NULL,
  amount TEXT NOT NULL,
  commission_amount TEXT NOT NULL,
  currency TEXT NOT NULL,
  payout_method TEXT NOT NULL DEFAULT 'bank_transfer',
  payout_reference TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  notes TEXT,
  requested_at DATETIME NOT NULL,
  processed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_payouts_order_id ON payouts(order_id);
`).Error)

	return conn
}

func seedPayout(t *testing.T, conn *gorm.DB, status enums.PayoutStatus, commission string) *models.Payout {
	t.Helper()
	payout := &models.Payout{
		ID:               uuid.New(),
		SellerID:         uuid.New(),
		OrderID:          uuid.New(),
		Amount:           decimal.RequireFromString("9262.50"),
		CommissionAmount: decimal.RequireFromString(commission),
		Currency:         enums.CurrencyNGN,
		Status:           status,
		RequestedAt:      time.Now().UTC(),
	}
	require.NoError(t, conn.Create(payout).Error)
	return payout
}

func seedCompletedOrder(t *testing.T, conn *gorm.DB, amount string) {
	t.Helper()
	order := &models.Order{
		ID:               uuid.New(),
		BuyerID:          uuid.New(),
		SellerID:         uuid.New(),
		Quantity:         1,
		UnitPrice:        decimal.RequireFromString(amount),
		TotalAmount:      decimal.RequireFromString(amount),
		Currency:         enums.CurrencyNGN,
		PaymentReference: "wsk-ps-" + uuid.NewString(),
		PaymentGateway:   enums.GatewayPaystack,
		PaymentStatus:    enums.PaymentStatusCompleted,
		Status:           enums.OrderStatusConfirmed,
	}
	require.NoError(t, conn.Create(order).Error)
}

func TestCreatePayoutEnforcesOneLifecyclePerOrder(t *testing.T) {
	conn := setupPayoutsTestDB(t)
	repo := NewRepository(conn)

	payout := seedPayout(t, conn, enums.PayoutStatusPending, "487.50")

	duplicate := &models.Payout{
		ID:               uuid.New(),
		SellerID:         payout.SellerID,
		OrderID:          payout.OrderID,
		Amount:           payout.Amount,
		CommissionAmount: payout.CommissionAmount,
		Currency:         payout.Currency,
		Status:           enums.PayoutStatusPending,
		RequestedAt:      time.Now().UTC(),
	}
	err := repo.CreatePayout(context.Background(), nil, duplicate)
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err, ""))
}

func TestTransitionStatusIsConditional(t *testing.T) {
	conn := setupPayoutsTestDB(t)
	repo := NewRepository(conn)
	payout := seedPayout(t, conn, enums.PayoutStatusPending, "487.50")

	updated, err := repo.TransitionStatus(context.Background(), payout.ID,
		[]enums.PayoutStatus{enums.PayoutStatusPending},
		map[string]any{"status": enums.PayoutStatusApproved})
	require.NoError(t, err)
	require.True(t, updated)

	// Same precondition again: the row is no longer pending.
	updated, err = repo.TransitionStatus(context.Background(), payout.ID,
		[]enums.PayoutStatus{enums.PayoutStatusPending},
		map[string]any{"status": enums.PayoutStatusApproved})
	require.NoError(t, err)
	require.False(t, updated)
}

func TestListPendingFiltersAndPaginates(t *testing.T) {
	conn := setupPayoutsTestDB(t)
	repo := NewRepository(conn)

	sellerID := uuid.New()
	for i := 0; i < 3; i++ {
		payout := seedPayout(t, conn, enums.PayoutStatusPending, "10.00")
		require.NoError(t, conn.Model(payout).Update("seller_id", sellerID).Error)
	}
	seedPayout(t, conn, enums.PayoutStatusPending, "10.00")
	seedPayout(t, conn, enums.PayoutStatusCompleted, "10.00")

	all, err := repo.ListPending(context.Background(), nil, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all.Items, 4)

	mine, err := repo.ListPending(context.Background(), &sellerID, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, mine.Items, 3)
	for _, item := range mine.Items {
		require.Equal(t, sellerID, item.SellerID)
		require.Equal(t, enums.PayoutStatusPending, item.Status)
	}
}

func TestSummarizeRevenue(t *testing.T) {
	conn := setupPayoutsTestDB(t)
	repo := NewRepository(conn)

	seedCompletedOrder(t, conn, "10000")
	seedCompletedOrder(t, conn, "5000")
	seedPayout(t, conn, enums.PayoutStatusCompleted, "487.50")
	seedPayout(t, conn, enums.PayoutStatusPending, "243.75")
	seedPayout(t, conn, enums.PayoutStatusCancelled, "100.00")

	summary, err := repo.SummarizeRevenue(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(2), summary.TotalOrders)
	require.True(t, summary.TotalGMV.Equal(decimal.NewFromInt(15000)), "gmv %s", summary.TotalGMV)
	require.True(t, summary.TotalCommissionRevenue.Equal(decimal.RequireFromString("831.25")),
		"total commission %s", summary.TotalCommissionRevenue)
	require.True(t, summary.RealizedRevenue.Equal(decimal.RequireFromString("487.50")),
		"realized %s", summary.RealizedRevenue)
	require.True(t, summary.PendingRevenue.Equal(decimal.RequireFromString("243.75")),
		"pending %s", summary.PendingRevenue)
	require.Equal(t, int64(2), summary.ActiveSellers)
	require.Equal(t, int64(2), summary.ActiveBuyers)
}
