package repository

import (
	"context"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	FindAll(ctx context.Context) ([]model.Brand, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	FindByName(ctx context.Context, name string) (*model.Brand, error)
	Search(ctx context.Context, term string) ([]model.Brand, error)
	Update(ctx context.Context, brand *model.Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type brandRepo struct {
	db *gorm.DB
}

func NewBrandRepo(db *gorm.DB) BrandRepository {
	return &brandRepo{db}
}

func (r *brandRepo) Create(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *brandRepo) FindAll(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *brandRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) FindByName(ctx context.Context, name string) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.WithContext(ctx).First(&brand, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) Search(ctx context.Context, term string) ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.WithContext(ctx).
		Scopes(containsFold(term, "name")).
		Order("name ASC").
		Find(&brands).Error
	return brands, err
}

func (r *brandRepo) Update(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Model(brand).
		Select("name", "description", "logo", "tax_id", "updated_by", "updated_at").
		Updates(brand).Error
}

func (r *brandRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Brand{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
