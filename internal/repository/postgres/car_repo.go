// internal/repository/postgres/car_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dealerdesk-service/internal/domain/car"
	xerrors "dealerdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type CarRepository struct {
	db *pgxpool.Pool
}

func NewCarRepository(db *pgxpool.Pool) *CarRepository {
	return &CarRepository{db: db}
}

const carColumns = `id, vendor_id, brand, model, year, color, fuel_type, transmission,
	       mileage, price, description, engine_capacity, body_type, condition,
	       registration_number, chassis_number, engine_number, status,
	       created_at, updated_at`

func scanCar(row pgx.Row) (*car.Car, error) {
	var c car.Car
	err := row.Scan(
		&c.ID, &c.VendorID, &c.Brand, &c.Model, &c.Year, &c.Color, &c.FuelType, &c.Transmission,
		&c.Mileage, &c.Price, &c.Description, &c.EngineCapacity, &c.BodyType, &c.Condition,
		&c.RegistrationNumber, &c.ChassisNumber, &c.EngineNumber, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new car listing
func (r *CarRepository) Create(ctx context.Context, c *car.Car) error {
	query := `
		INSERT INTO cars (
			vendor_id, brand, model, year, color, fuel_type, transmission,
			mileage, price, description, engine_capacity, body_type, condition,
			registration_number, chassis_number, engine_number, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		c.VendorID, c.Brand, c.Model, c.Year, c.Color, c.FuelType, c.Transmission,
		c.Mileage, c.Price, c.Description, c.EngineCapacity, c.BodyType, c.Condition,
		c.RegistrationNumber, c.ChassisNumber, c.EngineNumber, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	return nil
}

// FindByID retrieves a car by ID
func (r *CarRepository) FindByID(ctx context.Context, id int64) (*car.Car, error) {
	query := fmt.Sprintf(`SELECT %s FROM cars WHERE id = $1`, carColumns)

	c, err := scanCar(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find car: %w", err)
	}

	return c, nil
}

// Update applies a partial update to a car
func (r *CarRepository) Update(ctx context.Context, id int64, req *car.UpdateCarRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if req.Brand != nil {
		add("brand", *req.Brand)
	}
	if req.Model != nil {
		add("model", *req.Model)
	}
	if req.Year != nil {
		add("year", *req.Year)
	}
	if req.Color != nil {
		add("color", *req.Color)
	}
	if req.FuelType != nil {
		add("fuel_type", *req.FuelType)
	}
	if req.Transmission != nil {
		add("transmission", *req.Transmission)
	}
	if req.Mileage != nil {
		add("mileage", *req.Mileage)
	}
	if req.Price != nil {
		add("price", *req.Price)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.EngineCapacity != nil {
		add("engine_capacity", *req.EngineCapacity)
	}
	if req.BodyType != nil {
		add("body_type", *req.BodyType)
	}
	if req.Condition != nil {
		add("condition", *req.Condition)
	}
	if req.RegistrationNumber != nil {
		add("registration_number", *req.RegistrationNumber)
	}
	if req.ChassisNumber != nil {
		add("chassis_number", *req.ChassisNumber)
	}
	if req.EngineNumber != nil {
		add("engine_number", *req.EngineNumber)
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	query := fmt.Sprintf("UPDATE cars SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)
	args = append(args, id)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update car: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStatus changes the availability status of a car
func (r *CarRepository) UpdateStatus(ctx context.Context, id int64, status car.CarStatus) error {
	query := `UPDATE cars SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update car status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a car row
func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// List returns a vendor's cars with their images, newest first
func (r *CarRepository) List(ctx context.Context, vendorID int64, filters *car.ListFilters) ([]car.CarDetail, int64, error) {
	whereClauses := []string{"vendor_id = $1"}
	args := []interface{}{vendorID}
	argPos := 2

	if filters.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filters.Status)
		argPos++
	}
	if filters.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(brand ILIKE $%d OR model ILIKE $%d OR color ILIKE $%d OR year::text LIKE $%d)",
			argPos, argPos, argPos, argPos,
		))
		args = append(args, "%"+strings.TrimSpace(filters.Search)+"%")
		argPos++
	}

	where := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM cars WHERE %s", where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM cars
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, carColumns, where, argPos, argPos+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	var details []car.CarDetail
	var carIDs []int64
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan car: %w", err)
		}
		details = append(details, car.CarDetail{Car: c})
		carIDs = append(carIDs, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read cars: %w", err)
	}

	if len(carIDs) > 0 {
		images, err := r.imagesForCars(ctx, carIDs)
		if err != nil {
			return nil, 0, err
		}
		for i := range details {
			details[i].Images = images[details[i].Car.ID]
		}
	}

	return details, total, nil
}

func (r *CarRepository) imagesForCars(ctx context.Context, carIDs []int64) (map[int64][]car.CarImage, error) {
	query := `
		SELECT id, car_id, image_url, is_primary, created_at
		FROM car_images
		WHERE car_id = ANY($1::bigint[])
		ORDER BY is_primary DESC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, pq.Array(carIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load car images: %w", err)
	}
	defer rows.Close()

	images := make(map[int64][]car.CarImage)
	for rows.Next() {
		var img car.CarImage
		if err := rows.Scan(&img.ID, &img.CarID, &img.ImageURL, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan car image: %w", err)
		}
		images[img.CarID] = append(images[img.CarID], img)
	}

	return images, rows.Err()
}

// CountByStatus returns inventory counts for a vendor
func (r *CarRepository) CountByStatus(ctx context.Context, vendorID int64) (total, available, sold int64, err error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(CASE WHEN status = 'available' THEN 1 END) AS available,
			COUNT(CASE WHEN status = 'sold' THEN 1 END) AS sold
		FROM cars
		WHERE vendor_id = $1
	`

	if err = r.db.QueryRow(ctx, query, vendorID).Scan(&total, &available, &sold); err != nil {
		err = fmt.Errorf("failed to count cars: %w", err)
	}
	return
}

// FindFirstByRegistration returns the vendor's first car with this registration number
func (r *CarRepository) FindFirstByRegistration(ctx context.Context, vendorID int64, registration string) (*car.Car, error) {
	return r.findFirstBy(ctx, vendorID, "registration_number", registration)
}

// FindFirstByChassis returns the vendor's first car with this chassis number
func (r *CarRepository) FindFirstByChassis(ctx context.Context, vendorID int64, chassis string) (*car.Car, error) {
	return r.findFirstBy(ctx, vendorID, "chassis_number", chassis)
}

// FindFirstByEngine returns the vendor's first car with this engine number
func (r *CarRepository) FindFirstByEngine(ctx context.Context, vendorID int64, engine string) (*car.Car, error) {
	return r.findFirstBy(ctx, vendorID, "engine_number", engine)
}

func (r *CarRepository) findFirstBy(ctx context.Context, vendorID int64, column, value string) (*car.Car, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cars
		WHERE vendor_id = $1 AND %s = $2
		LIMIT 1
	`, carColumns, column)

	c, err := scanCar(r.db.QueryRow(ctx, query, vendorID, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up car by %s: %w", column, err)
	}

	return c, nil
}

// FindFirstByTuple returns the vendor's first car matching the fallback tuple
func (r *CarRepository) FindFirstByTuple(ctx context.Context, vendorID int64, t *car.DuplicateTuple) (*car.Car, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM cars
		WHERE vendor_id = $1 AND brand = $2 AND model = $3 AND year = $4
		  AND color = $5 AND mileage = $6 AND price = $7
		LIMIT 1
	`, carColumns)

	c, err := scanCar(r.db.QueryRow(ctx, query, vendorID, t.Brand, t.Model, t.Year, t.Color, t.Mileage, t.Price))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up similar car: %w", err)
	}

	return c, nil
}

// AddImage stores a car image record
func (r *CarRepository) AddImage(ctx context.Context, image *car.CarImage) error {
	query := `
		INSERT INTO car_images (car_id, image_url, is_primary)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, image.CarID, image.ImageURL, image.IsPrimary).
		Scan(&image.ID, &image.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add car image: %w", err)
	}

	return nil
}

// GetImages returns a car's images, primary first
func (r *CarRepository) GetImages(ctx context.Context, carID int64) ([]car.CarImage, error) {
	images, err := r.imagesForCars(ctx, []int64{carID})
	if err != nil {
		return nil, err
	}
	return images[carID], nil
}

// DeleteImagesByCar removes all image rows for a car
func (r *CarRepository) DeleteImagesByCar(ctx context.Context, carID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM car_images WHERE car_id = $1`, carID); err != nil {
		return fmt.Errorf("failed to delete car images: %w", err)
	}
	return nil
}

// AddDocument stores a car document record
func (r *CarRepository) AddDocument(ctx context.Context, doc *car.CarDocument) error {
	query := `
		INSERT INTO car_documents (car_id, document_name, document_url, document_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, doc.CarID, doc.DocumentName, doc.DocumentURL, doc.DocumentType).
		Scan(&doc.ID, &doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add car document: %w", err)
	}

	return nil
}

// GetDocuments returns a car's documents
func (r *CarRepository) GetDocuments(ctx context.Context, carID int64) ([]car.CarDocument, error) {
	query := `
		SELECT id, car_id, document_name, document_url, document_type, created_at
		FROM car_documents
		WHERE car_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to load car documents: %w", err)
	}
	defer rows.Close()

	var docs []car.CarDocument
	for rows.Next() {
		var d car.CarDocument
		if err := rows.Scan(&d.ID, &d.CarID, &d.DocumentName, &d.DocumentURL, &d.DocumentType, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan car document: %w", err)
		}
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

// DeleteDocumentsByCar removes all document rows for a car
func (r *CarRepository) DeleteDocumentsByCar(ctx context.Context, carID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM car_documents WHERE car_id = $1`, carID); err != nil {
		return fmt.Errorf("failed to delete car documents: %w", err)
	}
	return nil
}
