package payments

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
	"github.com/adaezeobi/wasoko-backend/pkg/types"
)

func setupPaymentsTestDB(t *testing.T) *gorm.DB {
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
CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_payment_reference ON orders(payment_reference);
CREATE TABLE IF NOT EXISTS payment_transactions (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  transaction_reference TEXT NOT NULL,
  amount TEXT NOT NULL,
  currency TEXT NOT NULL,
  gateway TEXT NOT NULL,
  status TEXT NOT NULL,
  gateway_response TEXT,
  verified_at DATETIME NOT NULL,
  created_at DATETIME
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_transactions_order_id ON payment_transactions(order_id);
`).Error)

	return conn
}

func buildOrderRow(reference string) *models.Order {
	return &models.Order{
		ID:               uuid.New(),
		BuyerID:          uuid.New(),
		SellerID:         uuid.New(),
		Quantity:         1,
		UnitPrice:        decimal.NewFromInt(5000),
		TotalAmount:      decimal.NewFromInt(5000),
		Currency:         enums.CurrencyNGN,
		PaymentReference: reference,
		PaymentGateway:   enums.GatewayPaystack,
		PaymentStatus:    enums.PaymentStatusCompleted,
		Status:           enums.OrderStatusConfirmed,
	}
}

func TestCreateOrderEnforcesUniqueReference(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	repo := NewRepository(conn)
	reference := "wsk-ps-" + uuid.NewString()

	_, err := repo.CreateOrder(context.Background(), buildOrderRow(reference))
	require.NoError(t, err)

	_, err = repo.CreateOrder(context.Background(), buildOrderRow(reference))
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err, ""), "expected unique violation, got %v", err)
}

func TestFindOrderByReferencePreloadsTransaction(t *testing.T) {
	conn := setupPaymentsTestDB(t)
	repo := NewRepository(conn)
	reference := "wsk-ps-" + uuid.NewString()

	order, err := repo.CreateOrder(context.Background(), buildOrderRow(reference))
	require.NoError(t, err)

	_, err = repo.CreateTransaction(context.Background(), &models.PaymentTransaction{
		ID:                   uuid.New(),
		OrderID:              order.ID,
		TransactionReference: reference,
		Amount:               decimal.NewFromInt(5000),
		Currency:             enums.CurrencyNGN,
		Gateway:              enums.GatewayPaystack,
		Status:               enums.TransactionStatusSuccess,
		GatewayResponse:      types.JSONMap{"status": "success"},
		VerifiedAt:           time.Now().UTC(),
	})
	require.NoError(t, err)

	found, err := repo.FindOrderByReference(context.Background(), reference)
	require.NoError(t, err)
	require.Equal(t, order.ID, found.ID)
	require.NotNil(t, found.Transaction)
	require.Equal(t, reference, found.Transaction.TransactionReference)

	_, err = repo.FindOrderByReference(context.Background(), "wsk-ps-missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
