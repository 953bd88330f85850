package repository

import (
	"context"
	"time"

	"go-inventory-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository interface {
	BestSellers(ctx context.Context, limit int) ([]BestSeller, error)
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.Product, error)
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error)
	SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error)
	DashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error)
}

// BestSeller aggregates every line item ever sold for one product.
type BestSeller struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	SKU          *string         `json:"sku,omitempty"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type SalesSummary struct {
	From  time.Time       `json:"from"`
	To    time.Time       `json:"to"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DailySales is one point of the sales chart.
type DailySales struct {
	Date  string          `json:"date"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	ActiveProducts int64           `json:"active_products"`
	TotalBrands    int64           `json:"total_brands"`
	LowStockCount  int64           `json:"low_stock_count"`
	StockValuation decimal.Decimal `json:"stock_valuation"`
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) BestSellers(ctx context.Context, limit int) ([]BestSeller, error) {
	var results []BestSeller
	err := r.db.WithContext(ctx).
		Table("sale_line_items AS li").
		Select(`
			p.id AS product_id,
			p.name AS name,
			p.sku AS sku,
			SUM(li.quantity) AS quantity_sold,
			SUM(li.subtotal) AS revenue
		`).
		Joins("JOIN products p ON p.id = li.product_id").
		Group("p.id, p.name, p.sku").
		Order("quantity_sold DESC, p.name ASC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

// LowStock lists active products at or below the threshold, scarcest first.
func (r *reportRepo) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Brand").
		Where("stock <= ? AND active = ?", threshold, true).
		Order("stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *reportRepo) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Brand").
		Where("expires_on IS NOT NULL AND expires_on <= ? AND active = ?", cutoff.UTC(), true).
		Order("expires_on ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *reportRepo) SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	var row struct {
		Count int64
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("sold_at >= ? AND sold_at <= ?", from.UTC(), to.UTC()).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &SalesSummary{From: from, To: to, Count: row.Count, Total: row.Total}, nil
}

func (r *reportRepo) SalesByDay(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	day := "DATE(sold_at)"
	if r.db.Dialector.Name() == "postgres" {
		day = "TO_CHAR(sold_at, 'YYYY-MM-DD')"
	}

	var results []DailySales
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(day+" AS date, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("sold_at >= ? AND sold_at <= ?", from.UTC(), to.UTC()).
		Group(day).
		Order("date ASC").
		Scan(&results).Error
	return results, err
}

func (r *reportRepo) DashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("active = ?", true).Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Brand{}).Count(&stats.TotalBrands).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).
		Where("stock <= ? AND active = ?", lowStockThreshold, true).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// Valuation at cost
	var valuation struct{ Total decimal.Decimal }
	if err := db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock * net_cost), 0) AS total").
		Scan(&valuation).Error; err != nil {
		return nil, err
	}
	stats.StockValuation = valuation.Total

	return &stats, nil
}
