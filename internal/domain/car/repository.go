// internal/domain/car/repository.go
package car

import "context"

type Repository interface {
	// Car CRUD
	Create(ctx context.Context, c *Car) error
	FindByID(ctx context.Context, id int64) (*Car, error)
	Update(ctx context.Context, id int64, req *UpdateCarRequest) error
	UpdateStatus(ctx context.Context, id int64, status CarStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, vendorID int64, filters *ListFilters) ([]CarDetail, int64, error)
	CountByStatus(ctx context.Context, vendorID int64) (total, available, sold int64, err error)

	// Duplicate lookups, vendor scoped. Absent match returns ErrNotFound.
	FindFirstByRegistration(ctx context.Context, vendorID int64, registration string) (*Car, error)
	FindFirstByChassis(ctx context.Context, vendorID int64, chassis string) (*Car, error)
	FindFirstByEngine(ctx context.Context, vendorID int64, engine string) (*Car, error)
	FindFirstByTuple(ctx context.Context, vendorID int64, t *DuplicateTuple) (*Car, error)

	// Images
	AddImage(ctx context.Context, image *CarImage) error
	GetImages(ctx context.Context, carID int64) ([]CarImage, error)
	DeleteImagesByCar(ctx context.Context, carID int64) error

	// Documents
	AddDocument(ctx context.Context, doc *CarDocument) error
	GetDocuments(ctx context.Context, carID int64) ([]CarDocument, error)
	DeleteDocumentsByCar(ctx context.Context, carID int64) error
}
