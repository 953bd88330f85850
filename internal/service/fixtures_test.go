package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"go-inventory-pos/internal/cache"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
	"go-inventory-pos/internal/testutil"
	"go-inventory-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.Event
}

func (n *recordingNotifier) Publish(event ws.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) actions() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Action
	}
	return out
}

type countingCache struct {
	cache.NoopReportCache
	invalidations int32
}

func (c *countingCache) Invalidate(context.Context) error {
	atomic.AddInt32(&c.invalidations, 1)
	return nil
}

type fixture struct {
	db       *gorm.DB
	notifier *recordingNotifier
	cache    *countingCache
	products ProductService
	brands   BrandService
	sales    SaleService
	sku      SKUService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	notifier := &recordingNotifier{}
	reports := &countingCache{}

	pRepo := repository.NewProductRepo(db)
	uow := repository.NewUnitOfWork(db)
	sku := NewSKUService(pRepo)
	return &fixture{
		db:       db,
		notifier: notifier,
		cache:    reports,
		products: NewProductService(pRepo, repository.NewBrandRepo(db), uow, sku, notifier, reports),
		brands:   NewBrandService(repository.NewBrandRepo(db), uow, notifier, reports),
		sales:    NewSaleService(uow, repository.NewSaleRepo(db), repository.NewStockLedger(db), notifier, reports),
		sku:      sku,
	}
}

var tester = Actor{Username: "tester", Role: model.RoleAdministrator}

func (f *fixture) product(t *testing.T, name string, stock int, price string) *model.Product {
	t.Helper()
	p, err := f.products.CreateProduct(context.Background(), &ProductInput{
		Name:      name,
		NetCost:   decimal.RequireFromString("0.50"),
		SalePrice: decimal.RequireFromString(price),
		Stock:     stock,
	}, tester)
	if err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func (f *fixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	p, err := f.products.GetProduct(context.Background(), id)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	return p.Stock
}

func (f *fixture) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func item(p *model.Product, qty int) SaleItem {
	return SaleItem{ProductID: p.ID, Quantity: qty, UnitPrice: p.SalePrice}
}
