package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func sku(s string) *string { return &s }

func TestCreateProductDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.products.CreateProduct(ctx, &ProductInput{
		Name:      "  Rice 1kg ",
		SKU:       sku(" RIC-001 "),
		SalePrice: decimal.RequireFromString("2.00"),
		Stock:     12,
		ExpiresOn: sku("2030-01-31"),
	}, tester)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Rice 1kg" || p.SKUCode() != "RIC-001" || !p.Active || p.Stock != 12 {
		t.Fatalf("unexpected product %+v", p)
	}
	if p.Unit != "unit" || p.Packaging != "individual" {
		t.Fatalf("expected default unit and packaging, got %s/%s", p.Unit, p.Packaging)
	}
	if p.ExpiresOn == nil || p.ExpiresOn.Format(dateLayout) != "2030-01-31" {
		t.Fatalf("unexpected expiry %v", p.ExpiresOn)
	}

	cases := []struct {
		name string
		in   ProductInput
	}{
		{"missing name", ProductInput{}},
		{"bad sku", ProductInput{Name: "X", SKU: sku("AB-12")}},
		{"negative stock", ProductInput{Name: "X", Stock: -1}},
		{"negative price", ProductInput{Name: "X", SalePrice: decimal.NewFromInt(-1)}},
		{"unknown unit", ProductInput{Name: "X", Unit: "furlong"}},
		{"unknown packaging", ProductInput{Name: "X", Packaging: "crate"}},
		{"bad expiry", ProductInput{Name: "X", ExpiresOn: sku("31/01/2030")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			_, err := f.products.CreateProduct(ctx, &in, tester)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.products.CreateProduct(ctx, &ProductInput{Name: "A", SKU: sku("ABC-123")}, tester)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := f.products.CreateProduct(ctx, &ProductInput{Name: "B", SKU: sku("ABC-123")}, tester); !errors.Is(err, ErrDuplicateSKU) {
		t.Fatalf("expected ErrDuplicateSKU, got %v", err)
	}

	// Keeping its own SKU on update is not a conflict.
	if _, err := f.products.UpdateProduct(ctx, first.ID, &ProductInput{Name: "A2", SKU: sku("ABC-123")}, tester); err != nil {
		t.Fatalf("update keeping sku: %v", err)
	}
}

func TestUpdateProductDoesNotTouchStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Coffee", 9, "4.00")

	updated, err := f.products.UpdateProduct(ctx, p.ID, &ProductInput{
		Name:      "Coffee Beans",
		SalePrice: decimal.RequireFromString("4.50"),
		Stock:     1000,
	}, tester)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Coffee Beans" || updated.Stock != 9 {
		t.Fatalf("unexpected update result: name=%s stock=%d", updated.Name, updated.Stock)
	}

	if _, err := f.products.UpdateProduct(ctx, uuid.New(), &ProductInput{Name: "X"}, tester); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDeleteProductWithHistoryIsRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sold := f.product(t, "Sold", 5, "1.00")
	unsold := f.product(t, "Unsold", 5, "1.00")

	if _, err := f.sales.RecordSale(ctx, SaleRequest{Items: []SaleItem{item(sold, 1)}}, tester); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	var refErr *ReferentialIntegrityError
	if err := f.products.DeleteProduct(ctx, sold.ID, tester); !errors.As(err, &refErr) {
		t.Fatalf("expected ReferentialIntegrityError, got %v", err)
	}
	if _, err := f.products.GetProduct(ctx, sold.ID); err != nil {
		t.Fatalf("refused delete removed product: %v", err)
	}

	if err := f.products.DeleteProduct(ctx, unsold.ID, tester); err != nil {
		t.Fatalf("delete unsold: %v", err)
	}
	if _, err := f.products.GetProduct(ctx, unsold.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestRestock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Oats", 2, "3.00")

	got, err := f.products.Restock(ctx, p.ID, 10, tester)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if got.Stock != 12 {
		t.Fatalf("expected stock 12, got %d", got.Stock)
	}
	if _, err := f.products.Restock(ctx, uuid.New(), 1, tester); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	var ve *ValidationError
	if _, err := f.products.Restock(ctx, p.ID, 0, tester); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestProductListingRowLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.product(t, "Banana", 1, "0.30")
	a := f.product(t, "Apple", 1, "0.40")

	listing, err := f.products.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if listing.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", listing.Len())
	}
	if id, err := listing.IDAt(0); err != nil || id != a.ID {
		t.Fatalf("row 0: id=%s err=%v", id, err)
	}
	if id, err := listing.IDAt(1); err != nil || id != b.ID {
		t.Fatalf("row 1: id=%s err=%v", id, err)
	}
	if _, err := listing.IDAt(2); !errors.Is(err, ErrInvalidRowIndex) {
		t.Fatalf("expected ErrInvalidRowIndex, got %v", err)
	}
	if _, err := listing.IDAt(-1); !errors.Is(err, ErrInvalidRowIndex) {
		t.Fatalf("expected ErrInvalidRowIndex, got %v", err)
	}

	found, err := f.products.SearchProducts(ctx, "nan")
	if err != nil || found.Len() != 1 {
		t.Fatalf("search: %d rows err=%v", found.Len(), err)
	}
}

func TestGetProductBySKU(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.products.CreateProduct(ctx, &ProductInput{Name: "Tuna", SKU: sku("TUN-100")}, tester)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := f.products.GetProductBySKU(ctx, "TUN-100")
	if err != nil || got.ID != p.ID {
		t.Fatalf("by sku: %v err=%v", got, err)
	}
	if _, err := f.products.GetProductBySKU(ctx, "tun-100"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected case-sensitive miss, got %v", err)
	}
}
