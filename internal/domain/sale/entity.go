// internal/domain/sale/entity.go
package sale

import (
	"database/sql"
	"time"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCheck        PaymentMethod = "check"
	PaymentFinancing    PaymentMethod = "financing"
	PaymentTradeIn      PaymentMethod = "trade_in"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCheck, PaymentFinancing, PaymentTradeIn:
		return true
	}
	return false
}

// Sale represents a completed car sale with its buyer record
type Sale struct {
	ID            int64          `json:"id" db:"id"`
	CarID         int64          `json:"car_id" db:"car_id"`
	VendorID      int64          `json:"vendor_id" db:"vendor_id"`
	ClientName    string         `json:"client_name" db:"client_name"`
	ClientEmail   sql.NullString `json:"client_email" db:"client_email"`
	ClientPhone   sql.NullString `json:"client_phone" db:"client_phone"`
	ClientAddress sql.NullString `json:"client_address" db:"client_address"`
	SaleDate      time.Time      `json:"sale_date" db:"sale_date"`
	PaymentMethod PaymentMethod  `json:"payment_method" db:"payment_method"`
	SalePrice     float64        `json:"sale_price" db:"sale_price"`
	// ClientDocuments is a JSON array of document URLs, "[]" when empty.
	ClientDocuments string    `json:"client_documents" db:"client_documents"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
