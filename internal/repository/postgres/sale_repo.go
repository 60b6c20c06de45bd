// internal/repository/postgres/sale_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"dealerdesk-service/internal/domain/sale"
	xerrors "dealerdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SaleRepository struct {
	db *pgxpool.Pool
}

func NewSaleRepository(db *pgxpool.Pool) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create inserts a sale record
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	query := `
		INSERT INTO sales (
			car_id, vendor_id, client_name, client_email, client_phone,
			client_address, sale_date, payment_method, sale_price, client_documents
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.CarID, s.VendorID, s.ClientName, s.ClientEmail, s.ClientPhone,
		s.ClientAddress, s.SaleDate, s.PaymentMethod, s.SalePrice, s.ClientDocuments,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	return nil
}

// FindByID retrieves a sale by ID
func (r *SaleRepository) FindByID(ctx context.Context, id int64) (*sale.Sale, error) {
	query := `
		SELECT id, car_id, vendor_id, client_name, client_email, client_phone,
		       client_address, sale_date, payment_method, sale_price,
		       client_documents, created_at
		FROM sales
		WHERE id = $1
	`

	var s sale.Sale
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CarID, &s.VendorID, &s.ClientName, &s.ClientEmail, &s.ClientPhone,
		&s.ClientAddress, &s.SaleDate, &s.PaymentMethod, &s.SalePrice,
		&s.ClientDocuments, &s.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sale: %w", err)
	}

	return &s, nil
}

const saleWithCarQuery = `
	SELECT s.id, s.car_id, s.vendor_id, s.client_name, s.client_email, s.client_phone,
	       s.client_address, s.sale_date, s.payment_method, s.sale_price,
	       s.client_documents, s.created_at,
	       c.brand, c.model, c.year
	FROM sales s
	JOIN cars c ON c.id = s.car_id
	WHERE s.vendor_id = $1
	ORDER BY s.sale_date DESC
`

func (r *SaleRepository) querySalesWithCar(ctx context.Context, query string, args ...interface{}) ([]sale.SaleWithCar, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var results []sale.SaleWithCar
	for rows.Next() {
		var sw sale.SaleWithCar
		err := rows.Scan(
			&sw.Sale.ID, &sw.Sale.CarID, &sw.Sale.VendorID, &sw.Sale.ClientName,
			&sw.Sale.ClientEmail, &sw.Sale.ClientPhone, &sw.Sale.ClientAddress,
			&sw.Sale.SaleDate, &sw.Sale.PaymentMethod, &sw.Sale.SalePrice,
			&sw.Sale.ClientDocuments, &sw.Sale.CreatedAt,
			&sw.CarBrand, &sw.CarModel, &sw.CarYear,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		results = append(results, sw)
	}

	return results, rows.Err()
}

// ListByVendor returns every sale for a vendor joined with its car, newest first
func (r *SaleRepository) ListByVendor(ctx context.Context, vendorID int64) ([]sale.SaleWithCar, error) {
	return r.querySalesWithCar(ctx, saleWithCarQuery, vendorID)
}

// RecentByVendor returns the most recent sales for a vendor
func (r *SaleRepository) RecentByVendor(ctx context.Context, vendorID int64, limit int) ([]sale.SaleWithCar, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.querySalesWithCar(ctx, saleWithCarQuery+` LIMIT $2`, vendorID, limit)
}

// SumRevenueByVendor totals sale prices for a vendor
func (r *SaleRepository) SumRevenueByVendor(ctx context.Context, vendorID int64) (float64, error) {
	query := `SELECT COALESCE(SUM(sale_price), 0) FROM sales WHERE vendor_id = $1`

	var revenue float64
	if err := r.db.QueryRow(ctx, query, vendorID).Scan(&revenue); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return revenue, nil
}

// DeleteByCar removes sale rows for a car (used by cascade delete)
func (r *SaleRepository) DeleteByCar(ctx context.Context, carID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sales WHERE car_id = $1`, carID); err != nil {
		return fmt.Errorf("failed to delete sales for car: %w", err)
	}
	return nil
}
