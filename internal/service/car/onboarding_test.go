package car

import (
	"context"
	"errors"
	"testing"
	"time"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/events"
	xerrors "dealerdesk-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onboardRequest() *car.OnboardCarRequest {
	return &car.OnboardCarRequest{
		Details: car.CarDetails{
			Brand:        "Honda",
			Model:        "Civic",
			Year:         2021,
			Color:        "Blue",
			FuelType:     "hybrid",
			Transmission: "automatic",
			Mileage:      12000,
			Price:        900000,
		},
		Images: []car.FileUpload{
			{Name: "front.jpg", ContentType: "image/jpeg", Data: []byte("front")},
			{Name: "rear.jpg", ContentType: "image/jpeg", Data: []byte("rear")},
		},
		PrimaryIndex: 1,
		Documents: []car.DocumentUpload{
			{
				File: car.FileUpload{Name: "logbook.pdf", ContentType: "application/pdf", Data: []byte("pdf")},
				Name: "Logbook",
				Type: "logbook",
			},
		},
	}
}

func TestOnboardCarSuccess(t *testing.T) {
	repo := newFakeCarRepo()
	svc := newTestService(t, repo, newFakeSaleRepo())

	sub := svc.bus.Subscribe()
	defer sub.Close()

	detail, err := svc.OnboardCar(context.Background(), 1, onboardRequest())
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, "Honda", detail.Car.Brand)
	assert.Equal(t, car.StatusAvailable, detail.Car.Status)
	assert.Equal(t, car.FuelTypeHybrid, detail.Car.FuelType)
	assert.Equal(t, car.TransmissionAutomatic, detail.Car.Transmission)

	require.Len(t, detail.Images, 2)
	assert.False(t, detail.Images[0].IsPrimary)
	assert.True(t, detail.Images[1].IsPrimary)

	require.Len(t, detail.Documents, 1)
	assert.Equal(t, "Logbook", detail.Documents[0].DocumentName)
	assert.Equal(t, "logbook", detail.Documents[0].DocumentType)
	assert.Contains(t, detail.Documents[0].DocumentURL, "/files/car-documents/")

	select {
	case ev := <-sub.C:
		assert.Equal(t, events.TableCars, ev.Table)
		assert.Equal(t, events.ActionInsert, ev.Action)
		assert.Equal(t, int64(1), ev.VendorID)
		assert.Equal(t, detail.Car.ID, ev.EntityID)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestOnboardCarExactlyOnePrimary(t *testing.T) {
	repo := newFakeCarRepo()
	svc := newTestService(t, repo, newFakeSaleRepo())

	req := onboardRequest()
	req.PrimaryIndex = 7 // out of range, falls back to the first image

	detail, err := svc.OnboardCar(context.Background(), 1, req)
	require.NoError(t, err)

	primaries := 0
	for _, img := range detail.Images {
		if img.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
	assert.True(t, detail.Images[0].IsPrimary)
}

func TestOnboardCarRejectsInvalidDetails(t *testing.T) {
	repo := newFakeCarRepo()
	svc := newTestService(t, repo, newFakeSaleRepo())

	req := onboardRequest()
	req.Details.Brand = ""

	_, err := svc.OnboardCar(context.Background(), 1, req)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "Brand is required")
	assert.Empty(t, repo.cars)
}

func TestOnboardCarRejectsMissingMandatoryDetails(t *testing.T) {
	repo := newFakeCarRepo()
	svc := newTestService(t, repo, newFakeSaleRepo())

	cases := []struct {
		name   string
		mutate func(*car.CarDetails)
		want   string
	}{
		{"color", func(d *car.CarDetails) { d.Color = "" }, "Color is required"},
		{"fuel type", func(d *car.CarDetails) { d.FuelType = "" }, "Fuel type is required"},
		{"transmission", func(d *car.CarDetails) { d.Transmission = "" }, "Transmission is required"},
		{"mileage", func(d *car.CarDetails) { d.Mileage = 0 }, "Mileage is required"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := onboardRequest()
			c.mutate(&req.Details)

			_, err := svc.OnboardCar(context.Background(), 1, req)
			require.Error(t, err)
			assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
			assert.Contains(t, err.Error(), c.want)
		})
	}
	assert.Empty(t, repo.cars)
}

func TestOnboardCarRejectsMissingImages(t *testing.T) {
	repo := newFakeCarRepo()
	svc := newTestService(t, repo, newFakeSaleRepo())

	req := onboardRequest()
	req.Images = nil

	_, err := svc.OnboardCar(context.Background(), 1, req)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "At least one car image is required")
}

func TestOnboardCarRejectsDuplicate(t *testing.T) {
	repo := newFakeCarRepo()
	seedCorolla(repo, 1)
	svc := newTestService(t, repo, newFakeSaleRepo())

	req := onboardRequest()
	req.Details.RegistrationNumber = "KA-01-AB-1234"

	_, err := svc.OnboardCar(context.Background(), 1, req)
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrDuplicateEntry))
	assert.Contains(t, err.Error(), `A car with registration number "KA-01-AB-1234" already exists`)
	assert.Len(t, repo.cars, 1) // only the seeded car
}

func TestOnboardCarFailsWhenDuplicateCheckFails(t *testing.T) {
	repo := newFakeCarRepo()
	repo.lookupErr = errors.New("connection refused")
	svc := newTestService(t, repo, newFakeSaleRepo())

	req := onboardRequest()
	req.Details.RegistrationNumber = "REG-9"

	_, err := svc.OnboardCar(context.Background(), 1, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), DuplicateCheckFailedMessage)
	assert.Empty(t, repo.cars)
}

func TestOnboardCarRollsBackOnAttachFailure(t *testing.T) {
	repo := newFakeCarRepo()
	repo.addDocErr = errors.New("insert failed")
	svc := newTestService(t, repo, newFakeSaleRepo())

	sub := svc.bus.Subscribe()
	defer sub.Close()

	_, err := svc.OnboardCar(context.Background(), 1, onboardRequest())
	require.Error(t, err)

	assert.Empty(t, repo.cars, "car row should be rolled back")
	assert.Len(t, repo.deletedCars, 1)
	assert.Empty(t, repo.images[repo.deletedCars[0]])
	assert.Empty(t, repo.documents[repo.deletedCars[0]])

	select {
	case ev := <-sub.C:
		t.Fatalf("event published for rolled back car: %+v", ev)
	default:
	}
}

func TestOnboardCarTrimsIdentifiers(t *testing.T) {
	repo := newFakeCarRepo()
	svc := newTestService(t, repo, newFakeSaleRepo())

	req := onboardRequest()
	req.Details.RegistrationNumber = "  REG-7  "

	detail, err := svc.OnboardCar(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, "REG-7", detail.Car.RegistrationNumber.String)
}
