// internal/domain/sale/dto.go
package sale

import (
	"time"

	"dealerdesk-service/internal/domain/car"
)

// RecordSaleRequest captures the buyer record for a sold car
type RecordSaleRequest struct {
	ClientName    string            `json:"client_name" binding:"required"`
	ClientEmail   string            `json:"client_email"`
	ClientPhone   string            `json:"client_phone"`
	ClientAddress string            `json:"client_address"`
	SaleDate      time.Time         `json:"sale_date"`
	PaymentMethod PaymentMethod     `json:"payment_method" binding:"required"`
	SalePrice     *float64          `json:"sale_price"`
	Documents     []car.FileUpload  `json:"-"`
}

// SaleWithCar is a sale joined with the car it closed
type SaleWithCar struct {
	Sale     Sale   `json:"sale"`
	CarBrand string `json:"car_brand"`
	CarModel string `json:"car_model"`
	CarYear  int    `json:"car_year"`
}
