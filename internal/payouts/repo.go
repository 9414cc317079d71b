package payouts

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	"github.com/adaezeobi/wasoko-backend/pkg/enums"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
	"github.com/adaezeobi/wasoko-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payouts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreatePayout inserts inside the caller's transaction when one is given, so
// delivery confirmation and payout creation commit together.
func (r *repository) CreatePayout(ctx context.Context, tx *gorm.DB, payout *models.Payout) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Create(payout).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payout).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, allowedFrom []enums.PayoutStatus, updates map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Payout{}).
		Where("id = ? AND status IN ?", id, allowedFrom).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) ListPending(ctx context.Context, sellerID *uuid.UUID, params pagination.Params) (*PayoutList, error) {
	query := r.db.WithContext(ctx).Where("status = ?", enums.PayoutStatusPending)
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}

	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		if cursor != nil {
			query = query.Where(
				"(created_at < ? OR (created_at = ? AND id < ?))",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
			)
		}
	}

	var rows []models.Payout
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	trimmed, hasMore := pagination.Trim(rows, params.Limit)
	list := &PayoutList{Items: trimmed, HasMore: hasMore}
	if hasMore && len(trimmed) > 0 {
		last := trimmed[len(trimmed)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return list, nil
}

func (r *repository) SummarizeRevenue(ctx context.Context) (*RevenueSummary, error) {
	summary := &RevenueSummary{}

	var orderAgg struct {
		TotalOrders   int64
		TotalGMV      decimal.NullDecimal
		ActiveSellers int64
		ActiveBuyers  int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS total_orders,
			SUM(total_amount) AS total_gmv,
			COUNT(DISTINCT seller_id) AS active_sellers,
			COUNT(DISTINCT buyer_id) AS active_buyers
		FROM orders
		WHERE payment_status = ?
	`, enums.PaymentStatusCompleted).Scan(&orderAgg).Error
	if err != nil {
		return nil, err
	}
	summary.TotalOrders = orderAgg.TotalOrders
	summary.TotalGMV = orderAgg.TotalGMV.Decimal
	summary.ActiveSellers = orderAgg.ActiveSellers
	summary.ActiveBuyers = orderAgg.ActiveBuyers

	var payoutAgg struct {
		TotalCommission    decimal.NullDecimal
		RealizedCommission decimal.NullDecimal
		PendingCommission  decimal.NullDecimal
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT SUM(commission_amount) AS total_commission,
			SUM(CASE WHEN status = ? THEN commission_amount END) AS realized_commission,
			SUM(CASE WHEN status IN ? THEN commission_amount END) AS pending_commission
		FROM payouts
	`, enums.PayoutStatusCompleted, []enums.PayoutStatus{
		enums.PayoutStatusPending,
		enums.PayoutStatusApproved,
		enums.PayoutStatusProcessing,
	}).Scan(&payoutAgg).Error
	if err != nil {
		return nil, err
	}
	summary.TotalCommissionRevenue = payoutAgg.TotalCommission.Decimal
	summary.RealizedRevenue = payoutAgg.RealizedCommission.Decimal
	summary.PendingRevenue = payoutAgg.PendingCommission.Decimal

	return summary, nil
}
