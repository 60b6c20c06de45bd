package car

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/events"
	"dealerdesk-service/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, carRepo *fakeCarRepo, saleRepo *fakeSaleRepo) *CarService {
	t.Helper()
	store, err := storage.NewStore(t.TempDir(), "http://localhost:8080", []byte("test-secret"), time.Hour, zap.NewNop())
	require.NoError(t, err)
	return NewCarService(carRepo, saleRepo, store, events.NewBus(), zap.NewNop())
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func seedCorolla(repo *fakeCarRepo, vendorID int64) *car.Car {
	return repo.seed(&car.Car{
		VendorID:           vendorID,
		Brand:              "Toyota",
		Model:              "Corolla",
		Year:               2020,
		Color:              nullStr("White"),
		Mileage:            45000,
		Price:              550000,
		RegistrationNumber: nullStr("KA-01-AB-1234"),
		ChassisNumber:      nullStr("CH123"),
		EngineNumber:       nullStr("EN456"),
	})
}

func TestCheckDuplicateByRegistration(t *testing.T) {
	repo := newFakeCarRepo()
	seedCorolla(repo, 1)
	svc := newTestService(t, repo, newFakeSaleRepo())

	result, err := svc.CheckDuplicate(context.Background(), 1, &car.CarDetails{
		Brand:              "Honda",
		Model:              "Civic",
		Year:               2021,
		RegistrationNumber: "KA-01-AB-1234",
	})
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, `A car with registration number "KA-01-AB-1234" already exists (Toyota Corolla 2020)`, result.Message)
}

func TestCheckDuplicateTrimsIdentifiers(t *testing.T) {
	repo := newFakeCarRepo()
	seedCorolla(repo, 1)
	svc := newTestService(t, repo, newFakeSaleRepo())

	result, err := svc.CheckDuplicate(context.Background(), 1, &car.CarDetails{
		Brand:         "Honda",
		Model:         "Civic",
		Year:          2021,
		ChassisNumber: "  CH123  ",
	})
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, `A car with chassis number "CH123" already exists (Toyota Corolla 2020)`, result.Message)
}

func TestCheckDuplicateOrderRegistrationFirst(t *testing.T) {
	repo := newFakeCarRepo()
	repo.seed(&car.Car{
		VendorID: 1, Brand: "Nissan", Model: "Note", Year: 2018,
		RegistrationNumber: nullStr("REG-1"),
	})
	repo.seed(&car.Car{
		VendorID: 1, Brand: "Mazda", Model: "Demio", Year: 2019,
		ChassisNumber: nullStr("CHA-2"),
	})
	svc := newTestService(t, repo, newFakeSaleRepo())

	// Both identifiers clash with different cars; registration wins.
	result, err := svc.CheckDuplicate(context.Background(), 1, &car.CarDetails{
		Brand: "Honda", Model: "Civic", Year: 2021,
		RegistrationNumber: "REG-1",
		ChassisNumber:      "CHA-2",
	})
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Contains(t, result.Message, "registration number")
	assert.Contains(t, result.Message, "Nissan Note 2018")
}

func TestCheckDuplicateScopedToVendor(t *testing.T) {
	repo := newFakeCarRepo()
	seedCorolla(repo, 2)
	svc := newTestService(t, repo, newFakeSaleRepo())

	result, err := svc.CheckDuplicate(context.Background(), 1, &car.CarDetails{
		Brand: "Honda", Model: "Civic", Year: 2021,
		RegistrationNumber: "KA-01-AB-1234",
	})
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
}

func TestCheckDuplicateTupleOnlyWithoutIdentifiers(t *testing.T) {
	repo := newFakeCarRepo()
	seedCorolla(repo, 1)
	svc := newTestService(t, repo, newFakeSaleRepo())

	details := &car.CarDetails{
		Brand:   "Toyota",
		Model:   "Corolla",
		Year:    2020,
		Color:   "White",
		Mileage: 45000,
		Price:   550000,
	}

	// No identifiers at all: full-detail match fires.
	result, err := svc.CheckDuplicate(context.Background(), 1, details)
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Equal(t, "A car with identical details (Toyota Corolla 2020, White, 45000km, ₹550000) already exists", result.Message)

	// A non-matching identifier suppresses the tuple check entirely.
	withReg := *details
	withReg.RegistrationNumber = "SOMETHING-ELSE"
	result, err = svc.CheckDuplicate(context.Background(), 1, &withReg)
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
}

func TestCheckDuplicateCleanDetails(t *testing.T) {
	repo := newFakeCarRepo()
	seedCorolla(repo, 1)
	svc := newTestService(t, repo, newFakeSaleRepo())

	result, err := svc.CheckDuplicate(context.Background(), 1, &car.CarDetails{
		Brand: "Honda", Model: "Civic", Year: 2021, Price: 800000,
	})
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
	assert.Empty(t, result.Message)
}

func TestCheckDuplicateLookupFailure(t *testing.T) {
	repo := newFakeCarRepo()
	repo.lookupErr = errors.New("connection refused")
	svc := newTestService(t, repo, newFakeSaleRepo())

	_, err := svc.CheckDuplicate(context.Background(), 1, &car.CarDetails{
		Brand: "Honda", Model: "Civic", Year: 2021,
		RegistrationNumber: "REG-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), DuplicateCheckFailedMessage)
}
