package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-inventory-pos/internal/cache"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/ws"
	"go-inventory-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ProductInput is the writable shape of a product. Stock is only taken on
// create; afterwards it changes through sales, reversals and restocks.
type ProductInput struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Description  string          `json:"description"`
	SKU          *string         `json:"sku" validate:"omitempty,sku"`
	NetCost      decimal.Decimal `json:"net_cost"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	Stock        int             `json:"stock" validate:"gte=0"`
	Unit         string          `json:"unit"`
	UnitQuantity decimal.Decimal `json:"unit_quantity"`
	Packaging    string          `json:"packaging"`
	ExpiresOn    *string         `json:"expires_on" validate:"omitempty,datetime=2006-01-02"`
	Active       *bool           `json:"active"`
	BrandID      *uuid.UUID      `json:"brand_id"`
}

// ProductListing is a request-scoped snapshot that maps a display row back to
// the product id it shows.
type ProductListing struct {
	Products []model.Product `json:"products"`
}

func (l *ProductListing) Len() int { return len(l.Products) }

// IDAt returns the id behind the given zero-based row.
func (l *ProductListing) IDAt(row int) (uuid.UUID, error) {
	if row < 0 || row >= len(l.Products) {
		return uuid.Nil, fmt.Errorf("%w: %d of %d", ErrInvalidRowIndex, row, len(l.Products))
	}
	return l.Products[row].ID, nil
}

type ProductService interface {
	CreateProduct(ctx context.Context, req *ProductInput, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductInput, actor Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error
	SetActive(ctx context.Context, id uuid.UUID, active bool, actor Actor) (*model.Product, error)
	Restock(ctx context.Context, id uuid.UUID, qty int, actor Actor) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	ListProducts(ctx context.Context) (*ProductListing, error)
	SearchProducts(ctx context.Context, term string) (*ProductListing, error)
	ProductsByBrand(ctx context.Context, brandID uuid.UUID) ([]model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	brandRepo   repository.BrandRepository
	uow         repository.UnitOfWork
	sku         SKUService
	committer
}

func NewProductService(pRepo repository.ProductRepository, bRepo repository.BrandRepository, uow repository.UnitOfWork, sku SKUService, notifier Notifier, reports cache.ReportCache) ProductService {
	return &productService{
		productRepo: pRepo,
		brandRepo:   bRepo,
		uow:         uow,
		sku:         sku,
		committer:   newCommitter(notifier, reports),
	}
}

// apply copies the input onto p after checking everything the struct tags
// cannot express.
func (s *productService) apply(ctx context.Context, p *model.Product, req *ProductInput, excludeID uuid.UUID) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return invalid(nil, "%s", validator.FirstError(errs))
	}
	if req.NetCost.IsNegative() || req.SalePrice.IsNegative() {
		return invalid(nil, "prices must not be negative")
	}
	if req.UnitQuantity.IsNegative() {
		return invalid(nil, "unit_quantity must not be negative")
	}

	unit := model.UnitEach
	if req.Unit != "" {
		u, err := model.ParseUnit(req.Unit)
		if err != nil {
			return invalid(nil, "%v", err)
		}
		unit = u
	}
	packaging := model.PackIndividual
	if req.Packaging != "" {
		pk, err := model.ParsePackaging(req.Packaging)
		if err != nil {
			return invalid(nil, "%v", err)
		}
		packaging = pk
	}

	var expires *time.Time
	if req.ExpiresOn != nil && *req.ExpiresOn != "" {
		t, err := time.Parse(dateLayout, *req.ExpiresOn)
		if err != nil {
			return invalid(nil, "expires_on must be YYYY-MM-DD")
		}
		expires = &t
	}

	var sku *string
	if req.SKU != nil {
		if code := strings.TrimSpace(*req.SKU); code != "" {
			sku = &code
		}
	}
	if sku != nil {
		unique, err := s.sku.IsUnique(ctx, *sku, excludeID)
		if err != nil {
			return err
		}
		if !unique {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, *sku)
		}
	}

	if req.BrandID != nil && *req.BrandID != uuid.Nil {
		if _, err := s.brandRepo.FindByID(ctx, *req.BrandID); err != nil {
			return notFound(err, ErrBrandNotFound, "find brand")
		}
		id := *req.BrandID
		p.BrandID = &id
	} else {
		p.BrandID = nil
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.SKU = sku
	p.NetCost = req.NetCost
	p.SalePrice = req.SalePrice
	p.Unit = unit
	p.UnitQuantity = req.UnitQuantity
	p.Packaging = packaging
	p.ExpiresOn = expires
	if req.Active != nil {
		p.Active = *req.Active
	}
	return nil
}

// translateWrite maps constraint violations from a racing writer onto the
// same errors the pre-checks return.
func translateWrite(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateSKU
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrBrandNotFound
	}
	return storageErr(op, err)
}

func (s *productService) CreateProduct(ctx context.Context, req *ProductInput, actor Actor) (*model.Product, error) {
	p := &model.Product{Active: true, Stock: req.Stock}
	if err := s.apply(ctx, p, req, uuid.Nil); err != nil {
		return nil, err
	}
	p.CreatedBy = actor.audit()
	p.UpdatedBy = actor.audit()

	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, translateWrite("create product", err)
	}

	s.afterCommit(ctx, ws.Event{
		Type:    "stock_update",
		Action:  "product_created",
		Data:    productPayload(p),
		User:    actor.name(),
		Message: fmt.Sprintf("%s created product '%s'", actor.name(), p.Name),
	})
	return p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductInput, actor Actor) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound, "find product")
	}
	if err := s.apply(ctx, existing, req, existing.ID); err != nil {
		return nil, err
	}
	existing.UpdatedBy = actor.audit()
	existing.Brand = nil

	if err := s.productRepo.Update(ctx, existing); err != nil {
		return nil, translateWrite("update product", err)
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound, "reload product")
	}
	s.afterCommit(ctx, ws.Event{
		Type:    "stock_update",
		Action:  "product_updated",
		Data:    productPayload(updated),
		User:    actor.name(),
		Message: fmt.Sprintf("%s updated product '%s'", actor.name(), updated.Name),
	})
	return updated, nil
}

// DeleteProduct refuses products that appear in any sale; deactivate those
// instead.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrProductNotFound, "find product")
	}
	lines, err := s.productRepo.CountSaleLines(ctx, id)
	if err != nil {
		return storageErr("count sale lines", err)
	}
	if lines > 0 {
		return &ReferentialIntegrityError{
			Entity: "product",
			ID:     id,
			Reason: fmt.Sprintf("referenced by %d sale line(s); deactivate it instead", lines),
		}
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return &ReferentialIntegrityError{Entity: "product", ID: id, Reason: "referenced by sale history"}
		}
		return notFound(err, ErrProductNotFound, "delete product")
	}

	s.afterCommit(ctx, ws.Event{
		Type:    "stock_update",
		Action:  "product_deleted",
		Data:    map[string]interface{}{"id": id},
		User:    actor.name(),
		Message: fmt.Sprintf("%s deleted product '%s'", actor.name(), p.Name),
	})
	return nil
}

func (s *productService) SetActive(ctx context.Context, id uuid.UUID, active bool, actor Actor) (*model.Product, error) {
	if err := s.productRepo.SetActive(ctx, id, active, actor.audit()); err != nil {
		return nil, notFound(err, ErrProductNotFound, "set active")
	}
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound, "reload product")
	}

	action := "product_deactivated"
	if active {
		action = "product_activated"
	}
	s.afterCommit(ctx, ws.Event{
		Type:    "stock_update",
		Action:  action,
		Data:    productPayload(p),
		User:    actor.name(),
		Message: fmt.Sprintf("%s set '%s' active=%t", actor.name(), p.Name, active),
	})
	return p, nil
}

// Restock adds received units through the ledger.
func (s *productService) Restock(ctx context.Context, id uuid.UUID, qty int, actor Actor) (*model.Product, error) {
	if qty <= 0 {
		return nil, invalid(nil, "quantity must be greater than zero (got %d)", qty)
	}

	var restocked *model.Product
	uctx := context.WithoutCancel(ctx)
	err := s.uow.Do(uctx, func(repos repository.TxRepos) error {
		if err := repos.Stock.Increment(uctx, id, qty, actor.audit()); err != nil {
			return err
		}
		p, err := repos.Products.FindByID(uctx, id)
		if err != nil {
			return err
		}
		restocked = p
		return nil
	})
	if err != nil {
		return nil, notFound(err, ErrProductNotFound, "restock")
	}

	s.afterCommit(ctx, ws.Event{
		Type:    "stock_update",
		Action:  "product_restocked",
		Data:    productPayload(restocked),
		User:    actor.name(),
		Message: fmt.Sprintf("%s added %d units of '%s'", actor.name(), qty, restocked.Name),
	})
	return restocked, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound, "get product")
	}
	return p, nil
}

func (s *productService) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	p, err := s.productRepo.FindBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, notFound(err, ErrProductNotFound, "get product by sku")
	}
	return p, nil
}

func (s *productService) ListProducts(ctx context.Context) (*ProductListing, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr("list products", err)
	}
	return &ProductListing{Products: products}, nil
}

func (s *productService) SearchProducts(ctx context.Context, term string) (*ProductListing, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListProducts(ctx)
	}
	products, err := s.productRepo.Search(ctx, term)
	if err != nil {
		return nil, storageErr("search products", err)
	}
	return &ProductListing{Products: products}, nil
}

func (s *productService) ProductsByBrand(ctx context.Context, brandID uuid.UUID) ([]model.Product, error) {
	if _, err := s.brandRepo.FindByID(ctx, brandID); err != nil {
		return nil, notFound(err, ErrBrandNotFound, "find brand")
	}
	products, err := s.productRepo.FindByBrand(ctx, brandID)
	if err != nil {
		return nil, storageErr("products by brand", err)
	}
	return products, nil
}

func productPayload(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"id":         p.ID,
		"sku":        p.SKU,
		"name":       p.Name,
		"stock":      p.Stock,
		"sale_price": p.SalePrice,
		"active":     p.Active,
	}
}
