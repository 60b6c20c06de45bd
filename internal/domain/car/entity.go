// internal/domain/car/entity.go
package car

import (
	"database/sql"
	"time"
)

type CarStatus string
type FuelType string
type TransmissionType string

const (
	StatusAvailable CarStatus = "available"
	StatusSold      CarStatus = "sold"

	FuelTypePetrol   FuelType = "petrol"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeElectric FuelType = "electric"
	FuelTypeHybrid   FuelType = "hybrid"

	TransmissionManual    TransmissionType = "manual"
	TransmissionAutomatic TransmissionType = "automatic"
)

// Car represents a listed car in a vendor's inventory
type Car struct {
	ID                 int64            `json:"id" db:"id"`
	VendorID           int64            `json:"vendor_id" db:"vendor_id"`
	Brand              string           `json:"brand" db:"brand"`
	Model              string           `json:"model" db:"model"`
	Year               int              `json:"year" db:"year"`
	Color              sql.NullString   `json:"color" db:"color"`
	FuelType           FuelType         `json:"fuel_type" db:"fuel_type"`
	Transmission       TransmissionType `json:"transmission" db:"transmission"`
	Mileage            int64            `json:"mileage" db:"mileage"`
	Price              float64          `json:"price" db:"price"`
	Description        sql.NullString   `json:"description" db:"description"`
	EngineCapacity     sql.NullString   `json:"engine_capacity" db:"engine_capacity"`
	BodyType           sql.NullString   `json:"body_type" db:"body_type"`
	Condition          sql.NullString   `json:"condition" db:"condition"`
	RegistrationNumber sql.NullString   `json:"registration_number" db:"registration_number"`
	ChassisNumber      sql.NullString   `json:"chassis_number" db:"chassis_number"`
	EngineNumber       sql.NullString   `json:"engine_number" db:"engine_number"`
	Status             CarStatus        `json:"status" db:"status"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// CarImage represents a stored car image
type CarImage struct {
	ID        int64     `json:"id" db:"id"`
	CarID     int64     `json:"car_id" db:"car_id"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	IsPrimary bool      `json:"is_primary" db:"is_primary"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CarDocument represents a stored car document (logbook, import papers, etc.)
type CarDocument struct {
	ID           int64     `json:"id" db:"id"`
	CarID        int64     `json:"car_id" db:"car_id"`
	DocumentName string    `json:"document_name" db:"document_name"`
	DocumentURL  string    `json:"document_url" db:"document_url"`
	DocumentType string    `json:"document_type" db:"document_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
