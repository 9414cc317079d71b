// Package products exposes the slice of the catalog the settlement engine
// needs: price lookups at checkout and atomic stock decrements when an order
// materializes. Catalog management lives in the wider platform.
package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adaezeobi/wasoko-backend/pkg/db/models"
	pkgerrors "github.com/adaezeobi/wasoko-backend/pkg/errors"
)

// Repository defines persistence operations on the products table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DecrementStockFloor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStockFloor subtracts qty from stock in a single conditional
// update, clamping at zero. A read-then-write pair here would lose updates
// under concurrent orders for the same product.
func (r *repository) DecrementStockFloor(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_quantity = CASE WHEN stock_quantity > ? THEN stock_quantity - ? ELSE 0 END,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "decrement product stock")
	}
	return nil
}
