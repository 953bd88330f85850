package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockLedger is the only writer of products.stock after creation.
type StockLedger interface {
	DecrementIfSufficient(ctx context.Context, productID uuid.UUID, qty int, updatedBy string) (bool, error)
	Increment(ctx context.Context, productID uuid.UUID, qty int, updatedBy string) error
	HasSufficient(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
}

type stockLedger struct {
	db *gorm.DB
}

// NewStockLedger binds the ledger to db, which is a transaction handle when
// built by a unit of work.
func NewStockLedger(db *gorm.DB) StockLedger {
	return &stockLedger{db}
}

// DecrementIfSufficient subtracts qty in one conditional statement. The guard
// and the write are the same UPDATE, so two buyers can never both pass the
// check for the last unit.
func (l *stockLedger) DecrementIfSufficient(ctx context.Context, productID uuid.UUID, qty int, updatedBy string) (bool, error) {
	res := l.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND active = ? AND stock >= ?", productID, true, qty).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (l *stockLedger) Increment(ctx context.Context, productID uuid.UUID, qty int, updatedBy string) error {
	res := l.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", qty),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasSufficient is advisory only; a missing product reports false.
func (l *stockLedger) HasSufficient(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	var row struct{ Stock int }
	res := l.db.WithContext(ctx).Model(&model.Product{}).
		Select("stock").
		Where("id = ?", productID).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return row.Stock >= qty, nil
}
