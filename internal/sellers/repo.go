package sellers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a seller bank account repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*models.SellerBankAccount, error) {
	var account models.SellerBankAccount
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Upsert replaces a seller's settlement destination in place. A seller has at
// most one registered account, keyed by the seller_id unique index.
func (r *repository) Upsert(ctx context.Context, account *models.SellerBankAccount) (*models.SellerBankAccount, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "seller_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bank_code", "bank_name", "account_number", "account_name",
				"gateway", "recipient_code", "updated_at",
			}),
		}).
		Create(account).Error
	if err != nil {
		return nil, err
	}
	return account, nil
}
