package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-inventory-pos/internal/cache"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/repository"
)

const (
	defaultBestSellerLimit = 10
	maxBestSellerLimit     = 100
)

type ReportService interface {
	BestSellers(ctx context.Context, limit int) ([]repository.BestSeller, error)
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)
	ExpiringWithin(ctx context.Context, days int) ([]model.Product, error)
	SalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummary, error)
	SalesByDay(ctx context.Context, days int) ([]repository.DailySales, error)
	DashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

type reportService struct {
	reportRepo        repository.ReportRepository
	cache             cache.ReportCache
	ttl               time.Duration
	lowStockThreshold int
	now               func() time.Time
}

func NewReportService(rRepo repository.ReportRepository, reports cache.ReportCache, ttl time.Duration, lowStockThreshold int) ReportService {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	return &reportService{
		reportRepo:        rRepo,
		cache:             reports,
		ttl:               ttl,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// cached serves key from the report cache, falling back to load. The
// generation is read before load runs so a result computed before an
// invalidation is stored under the old generation. Cache failures are logged
// and never fail the report.
func cached[T any](ctx context.Context, s *reportService, key string, load func() (T, error)) (T, error) {
	var out T
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		log.Printf("report cache generation %s: %v", key, genErr)
	} else if hit, err := s.cache.Get(ctx, gen, key, &out); err != nil {
		log.Printf("report cache get %s: %v", key, err)
	} else if hit {
		return out, nil
	}

	out, err := load()
	if err != nil {
		return out, storageErr("report "+key, err)
	}
	if genErr != nil {
		return out, nil
	}
	if err := s.cache.Set(ctx, gen, key, out, s.ttl); err != nil {
		log.Printf("report cache set %s: %v", key, err)
	}
	return out, nil
}

func (s *reportService) BestSellers(ctx context.Context, limit int) ([]repository.BestSeller, error) {
	if limit <= 0 {
		limit = defaultBestSellerLimit
	}
	if limit > maxBestSellerLimit {
		limit = maxBestSellerLimit
	}
	return cached(ctx, s, fmt.Sprintf("best-sellers:%d", limit), func() ([]repository.BestSeller, error) {
		return s.reportRepo.BestSellers(ctx, limit)
	})
}

func (s *reportService) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	if threshold < 0 {
		threshold = s.lowStockThreshold
	}
	return cached(ctx, s, fmt.Sprintf("low-stock:%d", threshold), func() ([]model.Product, error) {
		return s.reportRepo.LowStock(ctx, threshold)
	})
}

// ExpiringWithin lists active products whose expiry date falls within the
// next days days, including already expired ones.
func (s *reportService) ExpiringWithin(ctx context.Context, days int) ([]model.Product, error) {
	if days < 0 {
		return nil, invalid(nil, "days must not be negative (got %d)", days)
	}
	cutoff := s.now().UTC().AddDate(0, 0, days)
	return cached(ctx, s, fmt.Sprintf("expiring:%s", cutoff.Format(dateLayout)), func() ([]model.Product, error) {
		return s.reportRepo.ExpiringBefore(ctx, cutoff)
	})
}

func (s *reportService) SalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummary, error) {
	if to.Before(from) {
		return nil, invalid(nil, "to must not be before from")
	}
	summary, err := s.reportRepo.SalesSummary(ctx, from, to)
	if err != nil {
		return nil, storageErr("sales summary", err)
	}
	return summary, nil
}

func (s *reportService) SalesByDay(ctx context.Context, days int) ([]repository.DailySales, error) {
	if days <= 0 {
		days = 7
	}
	to := s.now().UTC()
	from := to.AddDate(0, 0, -days)
	daily, err := s.reportRepo.SalesByDay(ctx, from, to)
	if err != nil {
		return nil, storageErr("sales by day", err)
	}
	return daily, nil
}

func (s *reportService) DashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return cached(ctx, s, "dashboard", func() (*repository.DashboardStats, error) {
		return s.reportRepo.DashboardStats(ctx, s.lowStockThreshold)
	})
}
