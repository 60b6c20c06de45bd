package car

import (
	"context"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/domain/sale"
	xerrors "dealerdesk-service/internal/pkg/errors"
)

// fakeCarRepo is an in-memory car.Repository for service tests.
type fakeCarRepo struct {
	cars   map[int64]*car.Car
	nextID int64

	images    map[int64][]car.CarImage
	documents map[int64][]car.CarDocument

	lookupErr   error
	addImageErr error
	addDocErr   error

	deletedCars []int64
}

func newFakeCarRepo() *fakeCarRepo {
	return &fakeCarRepo{
		cars:      map[int64]*car.Car{},
		images:    map[int64][]car.CarImage{},
		documents: map[int64][]car.CarDocument{},
	}
}

func (f *fakeCarRepo) seed(c *car.Car) *car.Car {
	f.nextID++
	c.ID = f.nextID
	if c.Status == "" {
		c.Status = car.StatusAvailable
	}
	f.cars[c.ID] = c
	return c
}

func (f *fakeCarRepo) Create(ctx context.Context, c *car.Car) error {
	f.nextID++
	c.ID = f.nextID
	f.cars[c.ID] = c
	return nil
}

func (f *fakeCarRepo) FindByID(ctx context.Context, id int64) (*car.Car, error) {
	c, ok := f.cars[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return c, nil
}

func (f *fakeCarRepo) Update(ctx context.Context, id int64, req *car.UpdateCarRequest) error {
	if _, ok := f.cars[id]; !ok {
		return xerrors.ErrNotFound
	}
	return nil
}

func (f *fakeCarRepo) UpdateStatus(ctx context.Context, id int64, status car.CarStatus) error {
	c, ok := f.cars[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	c.Status = status
	return nil
}

func (f *fakeCarRepo) Delete(ctx context.Context, id int64) error {
	delete(f.cars, id)
	f.deletedCars = append(f.deletedCars, id)
	return nil
}

func (f *fakeCarRepo) List(ctx context.Context, vendorID int64, filters *car.ListFilters) ([]car.CarDetail, int64, error) {
	var details []car.CarDetail
	for _, c := range f.cars {
		if c.VendorID == vendorID {
			details = append(details, car.CarDetail{Car: c, Images: f.images[c.ID]})
		}
	}
	return details, int64(len(details)), nil
}

func (f *fakeCarRepo) CountByStatus(ctx context.Context, vendorID int64) (total, available, sold int64, err error) {
	for _, c := range f.cars {
		if c.VendorID != vendorID {
			continue
		}
		total++
		if c.Status == car.StatusSold {
			sold++
		} else {
			available++
		}
	}
	return total, available, sold, nil
}

func (f *fakeCarRepo) findFirst(vendorID int64, match func(*car.Car) bool) (*car.Car, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for id := int64(1); id <= f.nextID; id++ {
		c, ok := f.cars[id]
		if ok && c.VendorID == vendorID && match(c) {
			return c, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeCarRepo) FindFirstByRegistration(ctx context.Context, vendorID int64, registration string) (*car.Car, error) {
	return f.findFirst(vendorID, func(c *car.Car) bool {
		return c.RegistrationNumber.Valid && c.RegistrationNumber.String == registration
	})
}

func (f *fakeCarRepo) FindFirstByChassis(ctx context.Context, vendorID int64, chassis string) (*car.Car, error) {
	return f.findFirst(vendorID, func(c *car.Car) bool {
		return c.ChassisNumber.Valid && c.ChassisNumber.String == chassis
	})
}

func (f *fakeCarRepo) FindFirstByEngine(ctx context.Context, vendorID int64, engine string) (*car.Car, error) {
	return f.findFirst(vendorID, func(c *car.Car) bool {
		return c.EngineNumber.Valid && c.EngineNumber.String == engine
	})
}

func (f *fakeCarRepo) FindFirstByTuple(ctx context.Context, vendorID int64, t *car.DuplicateTuple) (*car.Car, error) {
	return f.findFirst(vendorID, func(c *car.Car) bool {
		return c.Brand == t.Brand &&
			c.Model == t.Model &&
			c.Year == t.Year &&
			c.Color.String == t.Color &&
			c.Mileage == t.Mileage &&
			c.Price == t.Price
	})
}

func (f *fakeCarRepo) AddImage(ctx context.Context, image *car.CarImage) error {
	if f.addImageErr != nil {
		return f.addImageErr
	}
	image.ID = int64(len(f.images[image.CarID]) + 1)
	f.images[image.CarID] = append(f.images[image.CarID], *image)
	return nil
}

func (f *fakeCarRepo) GetImages(ctx context.Context, carID int64) ([]car.CarImage, error) {
	return f.images[carID], nil
}

func (f *fakeCarRepo) DeleteImagesByCar(ctx context.Context, carID int64) error {
	delete(f.images, carID)
	return nil
}

func (f *fakeCarRepo) AddDocument(ctx context.Context, doc *car.CarDocument) error {
	if f.addDocErr != nil {
		return f.addDocErr
	}
	doc.ID = int64(len(f.documents[doc.CarID]) + 1)
	f.documents[doc.CarID] = append(f.documents[doc.CarID], *doc)
	return nil
}

func (f *fakeCarRepo) GetDocuments(ctx context.Context, carID int64) ([]car.CarDocument, error) {
	return f.documents[carID], nil
}

func (f *fakeCarRepo) DeleteDocumentsByCar(ctx context.Context, carID int64) error {
	delete(f.documents, carID)
	return nil
}

// fakeSaleRepo records cascade deletions for DeleteCar tests.
type fakeSaleRepo struct {
	sales       map[int64]*sale.Sale
	deletedCars []int64
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: map[int64]*sale.Sale{}}
}

func (f *fakeSaleRepo) Create(ctx context.Context, s *sale.Sale) error {
	s.ID = int64(len(f.sales) + 1)
	f.sales[s.ID] = s
	return nil
}

func (f *fakeSaleRepo) FindByID(ctx context.Context, id int64) (*sale.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return s, nil
}

func (f *fakeSaleRepo) ListByVendor(ctx context.Context, vendorID int64) ([]sale.SaleWithCar, error) {
	return nil, nil
}

func (f *fakeSaleRepo) RecentByVendor(ctx context.Context, vendorID int64, limit int) ([]sale.SaleWithCar, error) {
	return nil, nil
}

func (f *fakeSaleRepo) SumRevenueByVendor(ctx context.Context, vendorID int64) (float64, error) {
	return 0, nil
}

func (f *fakeSaleRepo) DeleteByCar(ctx context.Context, carID int64) error {
	f.deletedCars = append(f.deletedCars, carID)
	for id, s := range f.sales {
		if s.CarID == carID {
			delete(f.sales, id)
		}
	}
	return nil
}
