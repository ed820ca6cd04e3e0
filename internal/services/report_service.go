package services

import (
	"context"
	"fmt"
	"time"

	"rms/internal/domain"
	"rms/internal/repos"
	"rms/internal/validate"
)

type ReportService struct {
	Reports *repos.ReportRepo
	Prods   *repos.ProductRepo
	Now     func() time.Time
}

func NewReportService(reports *repos.ReportRepo, prods *repos.ProductRepo) *ReportService {
	return &ReportService{Reports: reports, Prods: prods, Now: time.Now}
}

// dayBounds turns calendar days into inclusive stored-format bounds.
func dayBounds(from, to time.Time) (string, string) {
	return from.Format(validate.DateLayout) + " 00:00:00", to.Format(validate.DateLayout) + " 23:59:59"
}

// SalesSummary aggregates sales whose timestamp falls on or between the two
// days. An empty range yields zero count and zero average.
func (s *ReportService) SalesSummary(ctx context.Context, from, to time.Time) (domain.SalesSummary, error) {
	if from.After(to) {
		return domain.SalesSummary{}, invalid("from_date", "must not be after to_date")
	}
	lo, hi := dayBounds(from, to)
	revenue, count, err := s.Reports.SalesBetween(ctx, lo, hi)
	if err != nil {
		return domain.SalesSummary{}, fmt.Errorf("sales summary: %w", err)
	}

	var avg int64
	if count > 0 {
		avg = revenue / count
	}
	return domain.SalesSummary{
		FromDate:               from.Format(validate.DateLayout),
		ToDate:                 to.Format(validate.DateLayout),
		TotalRevenueCents:      revenue,
		TransactionCount:       count,
		AverageOrderValueCents: avg,
	}, nil
}

// LowStock lists products with stock <= reorder level, or <= threshold when
// the caller overrides it.
func (s *ReportService) LowStock(ctx context.Context, threshold *int) ([]domain.Product, error) {
	if threshold != nil && *threshold < 0 {
		return nil, invalid("threshold", "must not be negative")
	}
	out, err := s.Prods.LowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return out, nil
}

func (s *ReportService) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	today := s.Now().UTC()
	lo, hi := dayBounds(today, today)
	d, err := s.Reports.Dashboard(ctx, lo, hi)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	return d, nil
}
