package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
)

func TestDeleteBrandDetachesProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	brand, err := f.brands.CreateBrand(ctx, &BrandInput{Name: "Acme", TaxID: sku("J-12345678")}, tester)
	if err != nil {
		t.Fatalf("create brand: %v", err)
	}
	for _, name := range []string{"Anvil", "Rocket"} {
		if _, err := f.products.CreateProduct(ctx, &ProductInput{Name: name, BrandID: &brand.ID}, tester); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	byBrand, err := f.products.ProductsByBrand(ctx, brand.ID)
	if err != nil || len(byBrand) != 2 {
		t.Fatalf("products by brand: %d err=%v", len(byBrand), err)
	}

	detached, err := f.brands.DeleteBrand(ctx, brand.ID, tester)
	if err != nil {
		t.Fatalf("delete brand: %v", err)
	}
	if detached != 2 {
		t.Fatalf("expected 2 detached products, got %d", detached)
	}

	listing, err := f.products.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, p := range listing.Products {
		if p.BrandID != nil {
			t.Fatalf("product %s still references deleted brand", p.Name)
		}
	}
	if _, err := f.brands.GetBrand(ctx, brand.ID); !errors.Is(err, ErrBrandNotFound) {
		t.Fatalf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestDeleteBrandNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.brands.DeleteBrand(context.Background(), uuid.New(), tester); !errors.Is(err, ErrBrandNotFound) {
		t.Fatalf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestBrandUniqueness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.brands.CreateBrand(ctx, &BrandInput{Name: "Nova"}, tester); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.brands.CreateBrand(ctx, &BrandInput{Name: "Nova"}, tester); !errors.Is(err, ErrDuplicateBrand) {
		t.Fatalf("expected ErrDuplicateBrand, got %v", err)
	}
	var ve *ValidationError
	if _, err := f.brands.CreateBrand(ctx, &BrandInput{Name: "   "}, tester); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEnsureDefaultBrandIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.brands.EnsureDefaultBrand(ctx)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	second, err := f.brands.EnsureDefaultBrand(ctx)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if first.ID != second.ID || first.Name != model.DefaultBrandName {
		t.Fatalf("expected the same default brand, got %v and %v", first.ID, second.ID)
	}
}

func TestCreateProductUnknownBrand(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()
	_, err := f.products.CreateProduct(context.Background(), &ProductInput{Name: "Orphan", BrandID: &missing}, tester)
	if !errors.Is(err, ErrBrandNotFound) {
		t.Fatalf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestBrandWritesInvalidateReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := atomic.LoadInt32(&f.cache.invalidations)
	brand, err := f.brands.CreateBrand(ctx, &BrandInput{Name: "Zenith"}, tester)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.brands.UpdateBrand(ctx, brand.ID, &BrandInput{Name: "Zenith Foods"}, tester); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := f.brands.DeleteBrand(ctx, brand.ID, tester); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := atomic.LoadInt32(&f.cache.invalidations) - before; got != 3 {
		t.Fatalf("expected 3 invalidations, got %d", got)
	}
	want := []string{"brand_created", "brand_updated", "brand_deleted"}
	actions := f.notifier.actions()
	if len(actions) < len(want) {
		t.Fatalf("expected brand events, got %v", actions)
	}
	for i, a := range actions[len(actions)-len(want):] {
		if a != want[i] {
			t.Fatalf("expected events %v, got %v", want, actions)
		}
	}

	if _, err := f.brands.CreateBrand(ctx, &BrandInput{Name: "   "}, tester); err == nil {
		t.Fatal("expected blank name to be rejected")
	}
	if got := atomic.LoadInt32(&f.cache.invalidations) - before; got != 3 {
		t.Fatalf("rejected write must not invalidate, got %d", got)
	}
}
