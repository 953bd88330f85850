package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-inventory-pos/internal/cache"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BrandInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description"`
	Logo        string  `json:"logo" validate:"max=255"`
	TaxID       *string `json:"tax_id" validate:"omitempty,max=50"`
}

type BrandService interface {
	CreateBrand(ctx context.Context, req *BrandInput, actor Actor) (*model.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, req *BrandInput, actor Actor) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID, actor Actor) (int64, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	SearchBrands(ctx context.Context, term string) ([]model.Brand, error)
	EnsureDefaultBrand(ctx context.Context) (*model.Brand, error)
}

type brandService struct {
	brandRepo repository.BrandRepository
	uow       repository.UnitOfWork
	committer
}

func NewBrandService(bRepo repository.BrandRepository, uow repository.UnitOfWork, notifier Notifier, reports cache.ReportCache) BrandService {
	return &brandService{
		brandRepo: bRepo,
		uow:       uow,
		committer: newCommitter(notifier, reports),
	}
}

func applyBrand(b *model.Brand, req *BrandInput) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return invalid(nil, "%s", validator.FirstError(errs))
	}
	b.Name = strings.TrimSpace(req.Name)
	if b.Name == "" {
		return invalid(nil, "name must not be blank")
	}
	b.Description = req.Description
	b.Logo = req.Logo
	b.TaxID = nil
	if req.TaxID != nil {
		if tax := strings.TrimSpace(*req.TaxID); tax != "" {
			b.TaxID = &tax
		}
	}
	return nil
}

func brandEvent(action string, b *model.Brand, actor Actor) ws.Event {
	return ws.Event{
		Type:    "catalog_update",
		Action:  action,
		Data:    b,
		User:    actor.name(),
		Message: fmt.Sprintf("%s saved brand '%s'", actor.name(), b.Name),
	}
}

func translateBrandWrite(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateBrand
	}
	return storageErr(op, err)
}

func (s *brandService) CreateBrand(ctx context.Context, req *BrandInput, actor Actor) (*model.Brand, error) {
	b := &model.Brand{}
	if err := applyBrand(b, req); err != nil {
		return nil, err
	}
	b.CreatedBy = actor.audit()
	b.UpdatedBy = actor.audit()
	if err := s.brandRepo.Create(ctx, b); err != nil {
		return nil, translateBrandWrite("create brand", err)
	}

	s.afterCommit(ctx, brandEvent("brand_created", b, actor))
	return b, nil
}

func (s *brandService) UpdateBrand(ctx context.Context, id uuid.UUID, req *BrandInput, actor Actor) (*model.Brand, error) {
	b, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBrandNotFound, "find brand")
	}
	if err := applyBrand(b, req); err != nil {
		return nil, err
	}
	b.UpdatedBy = actor.audit()
	if err := s.brandRepo.Update(ctx, b); err != nil {
		return nil, translateBrandWrite("update brand", err)
	}

	s.afterCommit(ctx, brandEvent("brand_updated", b, actor))
	return b, nil
}

// DeleteBrand detaches the brand's products and removes it in one unit. It
// returns how many products lost their brand.
func (s *brandService) DeleteBrand(ctx context.Context, id uuid.UUID, actor Actor) (int64, error) {
	var detached int64
	var name string
	uctx := context.WithoutCancel(ctx)
	err := s.uow.Do(uctx, func(repos repository.TxRepos) error {
		b, err := repos.Brands.FindByID(uctx, id)
		if err != nil {
			return err
		}
		name = b.Name
		n, err := repos.Products.ClearBrand(uctx, id, actor.audit())
		if err != nil {
			return err
		}
		detached = n
		return repos.Brands.Delete(uctx, id)
	})
	if err != nil {
		return 0, notFound(err, ErrBrandNotFound, "delete brand")
	}

	s.afterCommit(ctx, ws.Event{
		Type:    "catalog_update",
		Action:  "brand_deleted",
		Data:    map[string]interface{}{"id": id, "detached_products": detached},
		User:    actor.name(),
		Message: fmt.Sprintf("%s deleted brand '%s' (%d products detached)", actor.name(), name, detached),
	})
	return detached, nil
}

func (s *brandService) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	b, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrBrandNotFound, "get brand")
	}
	return b, nil
}

func (s *brandService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	brands, err := s.brandRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr("list brands", err)
	}
	return brands, nil
}

func (s *brandService) SearchBrands(ctx context.Context, term string) ([]model.Brand, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListBrands(ctx)
	}
	brands, err := s.brandRepo.Search(ctx, term)
	if err != nil {
		return nil, storageErr("search brands", err)
	}
	return brands, nil
}

// EnsureDefaultBrand creates the catch-all brand on first start.
func (s *brandService) EnsureDefaultBrand(ctx context.Context) (*model.Brand, error) {
	b, err := s.brandRepo.FindByName(ctx, model.DefaultBrandName)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageErr("find default brand", err)
	}
	b = &model.Brand{
		Name:        model.DefaultBrandName,
		Description: "Products without a specific brand",
	}
	b.CreatedBy = SystemActor.audit()
	b.UpdatedBy = SystemActor.audit()
	if err := s.brandRepo.Create(ctx, b); err != nil {
		return nil, translateBrandWrite("create default brand", err)
	}
	return b, nil
}
