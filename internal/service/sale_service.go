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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SaleRequest struct {
	Items        []SaleItem `json:"items"`
	CustomerName string     `json:"customer_name"`
}

// SaleOutcome is delivered once on the channel returned by Submit.
type SaleOutcome struct {
	SaleID uuid.UUID
	Err    error
}

type SaleService interface {
	RecordSale(ctx context.Context, req SaleRequest, actor Actor) (uuid.UUID, error)
	Submit(ctx context.Context, req SaleRequest, actor Actor) <-chan SaleOutcome
	ReverseSale(ctx context.Context, saleID uuid.UUID, actor Actor) (bool, error)
	HasSufficientStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListSales(ctx context.Context, from, to *time.Time) ([]model.Sale, error)
}

type saleService struct {
	uow      repository.UnitOfWork
	saleRepo repository.SaleRepository
	ledger   repository.StockLedger
	committer
}

func NewSaleService(uow repository.UnitOfWork, sRepo repository.SaleRepository, ledger repository.StockLedger, notifier Notifier, reports cache.ReportCache) SaleService {
	return &saleService{
		uow:       uow,
		saleRepo:  sRepo,
		ledger:    ledger,
		committer: newCommitter(notifier, reports),
	}
}

// stockChange records the post-commit stock of one product for notifications.
type stockChange struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Stock     int       `json:"stock"`
}

func validateSaleRequest(req SaleRequest) error {
	if len(req.Items) == 0 {
		return invalid(ErrEmptySale, "items is empty")
	}
	for i, it := range req.Items {
		if it.ProductID == uuid.Nil {
			return invalid(ErrInvalidLineItem, "item %d: product_id is required", i)
		}
		if it.Quantity <= 0 {
			return invalid(ErrInvalidLineItem, "item %d: quantity must be greater than zero (got %d)", i, it.Quantity)
		}
		if it.UnitPrice.IsNegative() {
			return invalid(ErrInvalidLineItem, "item %d: unit_price must not be negative (got %s)", i, it.UnitPrice)
		}
	}
	if len(req.CustomerName) > 255 {
		return invalid(nil, "customer_name must be at most 255 characters")
	}
	return nil
}

// RecordSale persists the sale, its lines and every stock decrement as one
// unit. Any failure leaves the store exactly as it was. Once the unit has
// started, cancelling ctx no longer aborts it.
func (s *saleService) RecordSale(ctx context.Context, req SaleRequest, actor Actor) (uuid.UUID, error) {
	if err := validateSaleRequest(req); err != nil {
		return uuid.Nil, err
	}

	total := decimal.Zero
	for _, it := range req.Items {
		total = total.Add(model.LineSubtotal(it.Quantity, it.UnitPrice))
	}

	sale := &model.Sale{
		SoldAt:       time.Now().UTC(),
		Total:        total,
		SellerID:     actor.userID(),
		CustomerName: strings.TrimSpace(req.CustomerName),
	}
	sale.CreatedBy = actor.audit()
	sale.UpdatedBy = actor.audit()

	var changes []stockChange
	uctx := context.WithoutCancel(ctx)
	err := s.uow.Do(uctx, func(repos repository.TxRepos) error {
		changes = changes[:0]
		if err := repos.Sales.CreateHeader(uctx, sale); err != nil {
			return err
		}

		sum := decimal.Zero
		for _, it := range req.Items {
			ok, err := repos.Stock.DecrementIfSufficient(uctx, it.ProductID, it.Quantity, actor.audit())
			if err != nil {
				return err
			}
			if !ok {
				return diagnoseDecrement(uctx, repos, it)
			}

			line := &model.SaleLineItem{
				SaleID:    sale.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Subtotal:  model.LineSubtotal(it.Quantity, it.UnitPrice),
			}
			line.CreatedBy = actor.audit()
			line.UpdatedBy = actor.audit()
			if err := repos.Sales.CreateLine(uctx, line); err != nil {
				return err
			}
			sum = sum.Add(line.Subtotal)

			p, err := repos.Products.FindByID(uctx, it.ProductID)
			if err != nil {
				return err
			}
			changes = append(changes, stockChange{ProductID: p.ID, Name: p.Name, Quantity: it.Quantity, Stock: p.Stock})
		}

		if !sum.Equal(sale.Total) {
			return ErrTotalMismatch
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, storageErr("record sale", err)
	}

	s.afterCommit(ctx, ws.Event{
		Type:   "stock_update",
		Action: "sale_recorded",
		Data: map[string]interface{}{
			"sale_id":  sale.ID,
			"total":    sale.Total,
			"products": changes,
		},
		User:    actor.name(),
		Message: fmt.Sprintf("%s recorded a sale of %s (%d lines)", actor.name(), sale.Total.StringFixed(2), len(req.Items)),
	})
	return sale.ID, nil
}

// diagnoseDecrement explains a refused decrement from inside the same unit,
// so the reason reflects the state the ledger saw.
func diagnoseDecrement(ctx context.Context, repos repository.TxRepos, it SaleItem) error {
	p, err := repos.Products.FindByID(ctx, it.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
	}
	if err != nil {
		return err
	}
	if !p.Active {
		return fmt.Errorf("%w: %s", ErrProductInactive, p.Name)
	}
	return &InsufficientStockError{
		ProductID:   p.ID,
		ProductName: p.Name,
		Requested:   it.Quantity,
		Available:   p.Stock,
	}
}

func (s *saleService) Submit(ctx context.Context, req SaleRequest, actor Actor) <-chan SaleOutcome {
	out := make(chan SaleOutcome, 1)
	go func() {
		defer close(out)
		id, err := s.RecordSale(ctx, req, actor)
		out <- SaleOutcome{SaleID: id, Err: err}
	}()
	return out
}

// ReverseSale returns every line's quantity to stock and deletes the sale,
// all in one unit.
func (s *saleService) ReverseSale(ctx context.Context, saleID uuid.UUID, actor Actor) (bool, error) {
	var changes []stockChange
	uctx := context.WithoutCancel(ctx)
	err := s.uow.Do(uctx, func(repos repository.TxRepos) error {
		changes = changes[:0]
		sale, err := repos.Sales.FindByID(uctx, saleID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaleNotFound
		}
		if err != nil {
			return err
		}

		for _, it := range sale.Items {
			if err := repos.Stock.Increment(uctx, it.ProductID, it.Quantity, actor.audit()); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, it.ProductID)
				}
				return err
			}
			p, err := repos.Products.FindByID(uctx, it.ProductID)
			if err != nil {
				return err
			}
			changes = append(changes, stockChange{ProductID: p.ID, Name: p.Name, Quantity: it.Quantity, Stock: p.Stock})
		}

		return repos.Sales.Delete(uctx, sale)
	})
	if err != nil {
		return false, storageErr("reverse sale", err)
	}

	s.afterCommit(ctx, ws.Event{
		Type:   "stock_update",
		Action: "sale_reversed",
		Data: map[string]interface{}{
			"sale_id":  saleID,
			"products": changes,
		},
		User:    actor.name(),
		Message: fmt.Sprintf("%s reversed sale %s", actor.name(), saleID),
	})
	return true, nil
}

func (s *saleService) HasSufficientStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	if qty <= 0 {
		return false, invalid(nil, "quantity must be greater than zero (got %d)", qty)
	}
	ok, err := s.ledger.HasSufficient(ctx, productID, qty)
	if err != nil {
		return false, storageErr("stock check", err)
	}
	return ok, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSaleNotFound, "get sale")
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, from, to *time.Time) ([]model.Sale, error) {
	sales, err := s.saleRepo.FindAll(ctx, from, to)
	if err != nil {
		return nil, storageErr("list sales", err)
	}
	return sales, nil
}
