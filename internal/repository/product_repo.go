package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	FindByBrand(ctx context.Context, brandID uuid.UUID) ([]model.Product, error)
	Search(ctx context.Context, term string) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	SetActive(ctx context.Context, id uuid.UUID, active bool, updatedBy string) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountSaleLines(ctx context.Context, id uuid.UUID) (int64, error)
	SKUTaken(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)
	ClearBrand(ctx context.Context, brandID uuid.UUID, updatedBy string) (int64, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Brand").Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Brand").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Brand").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Brand").First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBrand(ctx context.Context, brandID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Order("name ASC").Find(&products).Error
	return products, err
}

// Search matches the term anywhere in the name or SKU.
func (r *productRepo) Search(ctx context.Context, term string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Brand").
		Scopes(containsFold(term, "name", "sku")).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// Update writes the catalog fields. Stock is owned by the ledger and is never
// overwritten here.
func (r *productRepo) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Model(product).
		Select("name", "description", "sku", "net_cost", "sale_price", "unit", "unit_quantity",
			"packaging", "expires_on", "active", "brand_id", "updated_by", "updated_at").
		Updates(product).Error
}

func (r *productRepo) SetActive(ctx context.Context, id uuid.UUID, active bool, updatedBy string) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     active,
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

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) CountSaleLines(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SaleLineItem{}).Where("product_id = ?", id).Count(&n).Error
	return n, err
}

// SKUTaken reports whether another product already holds the exact code.
func (r *productRepo) SKUTaken(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("sku = ?", sku)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *productRepo) ClearBrand(ctx context.Context, brandID uuid.UUID, updatedBy string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("brand_id = ?", brandID).
		Updates(map[string]interface{}{
			"brand_id":   nil,
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}
