package repository

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	CreateHeader(ctx context.Context, sale *model.Sale) error
	CreateLine(ctx context.Context, line *model.SaleLineItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindAll(ctx context.Context, from, to *time.Time) ([]model.Sale, error)
	Delete(ctx context.Context, sale *model.Sale) error
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// CreateHeader inserts the sale row only. Lines are written one by one so the
// coordinator can interleave them with stock decrements.
func (r *saleRepo) CreateHeader(ctx context.Context, sale *model.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error
}

func (r *saleRepo) CreateLine(ctx context.Context, line *model.SaleLineItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Items.Product").
		Preload("Seller").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindAll returns sales newest first, optionally bounded by sold_at.
func (r *saleRepo) FindAll(ctx context.Context, from, to *time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.WithContext(ctx).Preload("Items").Preload("Items.Product").Preload("Seller")
	if from != nil {
		q = q.Where("sold_at >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("sold_at <= ?", to.UTC())
	}
	err := q.Order("sold_at DESC").Find(&sales).Error
	return sales, err
}

// Delete removes the lines explicitly before the header so the result does
// not depend on the driver honouring ON DELETE CASCADE.
func (r *saleRepo) Delete(ctx context.Context, sale *model.Sale) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("sale_id = ?", sale.ID).Delete(&model.SaleLineItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&model.Sale{}, "id = ?", sale.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
