package repository

import (
	"context"
	"testing"
	"time"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func recordSale(t *testing.T, db *gorm.DB, soldAt time.Time, lines map[*model.Product]int) *model.Sale {
	t.Helper()
	ctx := context.Background()
	sale := &model.Sale{SoldAt: soldAt.UTC()}
	for p, qty := range lines {
		sale.Total = sale.Total.Add(model.LineSubtotal(qty, p.SalePrice))
	}
	err := NewUnitOfWork(db).Do(ctx, func(repos TxRepos) error {
		if err := repos.Sales.CreateHeader(ctx, sale); err != nil {
			return err
		}
		for p, qty := range lines {
			line := &model.SaleLineItem{
				SaleID:    sale.ID,
				ProductID: p.ID,
				Quantity:  qty,
				UnitPrice: p.SalePrice,
				Subtotal:  model.LineSubtotal(qty, p.SalePrice),
			}
			if err := repos.Sales.CreateLine(ctx, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	return sale
}

func TestReportBestSellers(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a := seedProduct(t, db, "Coffee", 50, true)
	b := seedProduct(t, db, "Tea", 50, true)

	now := time.Now()
	recordSale(t, db, now, map[*model.Product]int{a: 2, b: 5})
	recordSale(t, db, now, map[*model.Product]int{a: 1})

	best, err := NewReportRepo(db).BestSellers(ctx, 10)
	if err != nil {
		t.Fatalf("best sellers: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(best))
	}
	if best[0].ProductID != b.ID || best[0].QuantitySold != 5 {
		t.Fatalf("unexpected top seller: %+v", best[0])
	}
	if best[1].QuantitySold != 3 || !best[1].Revenue.Equal(decimal.RequireFromString("7.5")) {
		t.Fatalf("unexpected runner-up: %+v", best[1])
	}

	top, err := NewReportRepo(db).BestSellers(ctx, 1)
	if err != nil || len(top) != 1 {
		t.Fatalf("limit not applied: %d err=%v", len(top), err)
	}
}

func TestReportLowStockAndExpiring(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewProductRepo(db)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	soon := today.AddDate(0, 0, 3)
	later := today.AddDate(0, 0, 60)

	for _, p := range []*model.Product{
		{Name: "Yogurt", Stock: 2, Active: true, ExpiresOn: &soon},
		{Name: "Cheese", Stock: 4, Active: true, ExpiresOn: &later},
		{Name: "Old Stock", Stock: 0, Active: false, ExpiresOn: &soon},
		{Name: "Plenty", Stock: 40, Active: true},
	} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create %s: %v", p.Name, err)
		}
	}

	reports := NewReportRepo(db)
	low, err := reports.LowStock(ctx, 5)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if got := names(low); len(got) != 2 || got[0] != "Yogurt" || got[1] != "Cheese" {
		t.Fatalf("unexpected low stock rows: %v", got)
	}

	expiring, err := reports.ExpiringBefore(ctx, today.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("expiring: %v", err)
	}
	if got := names(expiring); len(got) != 1 || got[0] != "Yogurt" {
		t.Fatalf("unexpected expiring rows: %v", got)
	}
}

func TestReportSalesSummary(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Bread", 100, true)

	now := time.Now().UTC()
	recordSale(t, db, now.Add(-48*time.Hour), map[*model.Product]int{p: 1})
	recordSale(t, db, now.Add(-time.Hour), map[*model.Product]int{p: 2})
	recordSale(t, db, now.Add(-30*time.Minute), map[*model.Product]int{p: 4})

	summary, err := NewReportRepo(db).SalesSummary(ctx, now.Add(-24*time.Hour), now)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 2 || !summary.Total.Equal(decimal.RequireFromString("15")) {
		t.Fatalf("unexpected summary: count=%d total=%s", summary.Count, summary.Total)
	}

	empty, err := NewReportRepo(db).SalesSummary(ctx, now.Add(time.Hour), now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("empty summary: %v", err)
	}
	if empty.Count != 0 || !empty.Total.IsZero() {
		t.Fatalf("expected empty summary, got %+v", empty)
	}
}
