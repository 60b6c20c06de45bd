// internal/domain/stats/dto.go
package stats

import "dealerdesk-service/internal/domain/sale"

// VendorStats is the aggregated dashboard view for one vendor
type VendorStats struct {
	TotalCars     int64              `json:"total_cars"`
	AvailableCars int64              `json:"available_cars"`
	SoldCars      int64              `json:"sold_cars"`
	TotalRevenue  float64            `json:"total_revenue"`
	RecentSales   []sale.SaleWithCar `json:"recent_sales"`
	Customers     []sale.SaleWithCar `json:"customers"`
}
