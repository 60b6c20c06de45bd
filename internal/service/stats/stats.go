// internal/service/stats/stats.go
package stats

import (
	"context"
	"fmt"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/domain/sale"
	"dealerdesk-service/internal/domain/stats"
	"dealerdesk-service/internal/events"

	"go.uber.org/zap"
)

const recentSalesLimit = 5

type StatsService struct {
	carRepo  car.Repository
	saleRepo sale.Repository
	bus      *events.Bus
	logger   *zap.Logger
}

func NewStatsService(carRepo car.Repository, saleRepo sale.Repository, bus *events.Bus, logger *zap.Logger) *StatsService {
	return &StatsService{
		carRepo:  carRepo,
		saleRepo: saleRepo,
		bus:      bus,
		logger:   logger,
	}
}

// Aggregate computes the vendor dashboard from scratch. It reads current
// state only, so running it again after any event yields the same result
// for the same data.
func (s *StatsService) Aggregate(ctx context.Context, vendorID int64) (*stats.VendorStats, error) {
	total, available, sold, err := s.carRepo.CountByStatus(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to count inventory: %w", err)
	}

	revenue, err := s.saleRepo.SumRevenueByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	recent, err := s.saleRepo.RecentByVendor(ctx, vendorID, recentSalesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent sales: %w", err)
	}

	customers, err := s.saleRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	return &stats.VendorStats{
		TotalCars:     total,
		AvailableCars: available,
		SoldCars:      sold,
		TotalRevenue:  revenue,
		RecentSales:   recent,
		Customers:     customers,
	}, nil
}

// Watch re-aggregates on every change event for the vendor and hands the
// fresh snapshot to onChange. It returns when ctx is cancelled or the
// subscription closes.
func (s *StatsService) Watch(ctx context.Context, vendorID int64, onChange func(*stats.VendorStats)) error {
	sub := s.bus.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C:
			if !ok {
				return nil
			}
			if ev.VendorID != vendorID {
				continue
			}
			snapshot, err := s.Aggregate(ctx, vendorID)
			if err != nil {
				s.logger.Error("failed to re-aggregate stats",
					zap.Int64("vendor_id", vendorID),
					zap.Error(err),
				)
				continue
			}
			onChange(snapshot)
		}
	}
}
