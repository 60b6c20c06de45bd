package stats

import (
	"context"
	"testing"
	"time"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/domain/sale"
	"dealerdesk-service/internal/domain/stats"
	"dealerdesk-service/internal/events"
	xerrors "dealerdesk-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCarRepo struct {
	total, available, sold int64
}

func (f *fakeCarRepo) CountByStatus(ctx context.Context, vendorID int64) (int64, int64, int64, error) {
	return f.total, f.available, f.sold, nil
}

func (f *fakeCarRepo) Create(ctx context.Context, c *car.Car) error { return nil }
func (f *fakeCarRepo) FindByID(ctx context.Context, id int64) (*car.Car, error) {
	return nil, xerrors.ErrNotFound
}
func (f *fakeCarRepo) Update(ctx context.Context, id int64, req *car.UpdateCarRequest) error {
	return nil
}
func (f *fakeCarRepo) UpdateStatus(ctx context.Context, id int64, status car.CarStatus) error {
	return nil
}
func (f *fakeCarRepo) Delete(ctx context.Context, id int64) error { return nil }
func (f *fakeCarRepo) List(ctx context.Context, vendorID int64, filters *car.ListFilters) ([]car.CarDetail, int64, error) {
	return nil, 0, nil
}
func (f *fakeCarRepo) FindFirstByRegistration(ctx context.Context, vendorID int64, registration string) (*car.Car, error) {
	return nil, xerrors.ErrNotFound
}
func (f *fakeCarRepo) FindFirstByChassis(ctx context.Context, vendorID int64, chassis string) (*car.Car, error) {
	return nil, xerrors.ErrNotFound
}
func (f *fakeCarRepo) FindFirstByEngine(ctx context.Context, vendorID int64, engine string) (*car.Car, error) {
	return nil, xerrors.ErrNotFound
}
func (f *fakeCarRepo) FindFirstByTuple(ctx context.Context, vendorID int64, t *car.DuplicateTuple) (*car.Car, error) {
	return nil, xerrors.ErrNotFound
}
func (f *fakeCarRepo) AddImage(ctx context.Context, image *car.CarImage) error { return nil }
func (f *fakeCarRepo) GetImages(ctx context.Context, carID int64) ([]car.CarImage, error) {
	return nil, nil
}
func (f *fakeCarRepo) DeleteImagesByCar(ctx context.Context, carID int64) error { return nil }
func (f *fakeCarRepo) AddDocument(ctx context.Context, doc *car.CarDocument) error { return nil }
func (f *fakeCarRepo) GetDocuments(ctx context.Context, carID int64) ([]car.CarDocument, error) {
	return nil, nil
}
func (f *fakeCarRepo) DeleteDocumentsByCar(ctx context.Context, carID int64) error { return nil }

type fakeSaleRepo struct {
	revenue float64
	recent  []sale.SaleWithCar
	all     []sale.SaleWithCar

	recentLimits []int
}

func (f *fakeSaleRepo) Create(ctx context.Context, s *sale.Sale) error { return nil }
func (f *fakeSaleRepo) FindByID(ctx context.Context, id int64) (*sale.Sale, error) {
	return nil, xerrors.ErrNotFound
}
func (f *fakeSaleRepo) ListByVendor(ctx context.Context, vendorID int64) ([]sale.SaleWithCar, error) {
	return f.all, nil
}
func (f *fakeSaleRepo) RecentByVendor(ctx context.Context, vendorID int64, limit int) ([]sale.SaleWithCar, error) {
	f.recentLimits = append(f.recentLimits, limit)
	return f.recent, nil
}
func (f *fakeSaleRepo) SumRevenueByVendor(ctx context.Context, vendorID int64) (float64, error) {
	return f.revenue, nil
}
func (f *fakeSaleRepo) DeleteByCar(ctx context.Context, carID int64) error { return nil }

func saleFor(brand string, price float64) sale.SaleWithCar {
	return sale.SaleWithCar{
		Sale:     sale.Sale{SalePrice: price, ClientName: "Jane Buyer"},
		CarBrand: brand,
	}
}

func TestAggregate(t *testing.T) {
	carRepo := &fakeCarRepo{total: 10, available: 7, sold: 3}
	saleRepo := &fakeSaleRepo{
		revenue: 1650000,
		recent:  []sale.SaleWithCar{saleFor("Toyota", 550000)},
		all: []sale.SaleWithCar{
			saleFor("Toyota", 550000),
			saleFor("Honda", 600000),
			saleFor("Mazda", 500000),
		},
	}
	svc := NewStatsService(carRepo, saleRepo, events.NewBus(), zap.NewNop())

	got, err := svc.Aggregate(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, &stats.VendorStats{
		TotalCars:     10,
		AvailableCars: 7,
		SoldCars:      3,
		TotalRevenue:  1650000,
		RecentSales:   saleRepo.recent,
		Customers:     saleRepo.all,
	}, got)

	require.Len(t, saleRepo.recentLimits, 1)
	assert.Equal(t, 5, saleRepo.recentLimits[0])
}

func TestWatchReaggregatesOnVendorEvents(t *testing.T) {
	carRepo := &fakeCarRepo{total: 1, available: 1}
	saleRepo := &fakeSaleRepo{}
	bus := events.NewBus()
	svc := NewStatsService(carRepo, saleRepo, bus, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan *stats.VendorStats, 8)
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, 1, func(s *stats.VendorStats) { snapshots <- s })
	}()

	// Give the watcher a moment to subscribe.
	time.Sleep(50 * time.Millisecond)

	// An event for another vendor is ignored.
	bus.Publish(events.Event{Table: events.TableCars, Action: events.ActionInsert, VendorID: 2, EntityID: 1})
	// An event for the watched vendor produces a snapshot.
	carRepo.total, carRepo.sold = 2, 1
	bus.Publish(events.Event{Table: events.TableSales, Action: events.ActionInsert, VendorID: 1, EntityID: 1})

	select {
	case got := <-snapshots:
		assert.Equal(t, int64(2), got.TotalCars)
		assert.Equal(t, int64(1), got.SoldCars)
	case <-time.After(time.Second):
		t.Fatal("no snapshot produced")
	}

	select {
	case got := <-snapshots:
		t.Fatalf("snapshot produced for another vendor's event: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}
