// internal/domain/sale/repository.go
package sale

import "context"

type Repository interface {
	Create(ctx context.Context, s *Sale) error
	FindByID(ctx context.Context, id int64) (*Sale, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]SaleWithCar, error)
	RecentByVendor(ctx context.Context, vendorID int64, limit int) ([]SaleWithCar, error)
	SumRevenueByVendor(ctx context.Context, vendorID int64) (float64, error)
	DeleteByCar(ctx context.Context, carID int64) error
}
