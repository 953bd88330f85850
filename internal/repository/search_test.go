package repository

import (
	"context"
	"strings"
	"testing"

	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/testutil"

	"gorm.io/gorm"
)

func TestSearchIgnoresCase(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	products := NewProductRepo(db)
	brands := NewBrandRepo(db)

	if err := products.Create(ctx, &model.Product{Name: "Whole Milk", SKU: strPtr("MLK-001"), Active: true}); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if err := brands.Create(ctx, &model.Brand{Name: "Dairy Farms"}); err != nil {
		t.Fatalf("create brand: %v", err)
	}

	for _, term := range []string{"milk", "MILK", "mlk-0"} {
		found, err := products.Search(ctx, term)
		if err != nil {
			t.Fatalf("search %q: %v", term, err)
		}
		if len(found) != 1 {
			t.Fatalf("search %q: expected 1 match, got %v", term, names(found))
		}
	}

	for _, term := range []string{"dairy", "FARMS"} {
		found, err := brands.Search(ctx, term)
		if err != nil {
			t.Fatalf("search brand %q: %v", term, err)
		}
		if len(found) != 1 {
			t.Fatalf("search brand %q: expected 1 match, got %d", term, len(found))
		}
	}
}

func TestContainsFoldLowersBothSides(t *testing.T) {
	db := testutil.NewDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []model.Product
		return tx.Model(&model.Product{}).Scopes(containsFold("MiLk", "name", "sku")).Find(&out)
	})

	for _, want := range []string{"LOWER(name) LIKE", "LOWER(sku) LIKE", "%milk%"} {
		if !strings.Contains(sql, want) {
			t.Fatalf("expected %q in %s", want, sql)
		}
	}
	if strings.Contains(sql, "MiLk") {
		t.Fatalf("term was not lowered: %s", sql)
	}
}
