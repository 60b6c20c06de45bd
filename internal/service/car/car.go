// internal/service/car/car.go
package car

import (
	"context"
	"fmt"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/domain/sale"
	"dealerdesk-service/internal/events"
	xerrors "dealerdesk-service/internal/pkg/errors"
	"dealerdesk-service/internal/storage"

	"go.uber.org/zap"
)

type CarService struct {
	carRepo  car.Repository
	saleRepo sale.Repository
	store    *storage.Store
	bus      *events.Bus
	logger   *zap.Logger
}

func NewCarService(carRepo car.Repository, saleRepo sale.Repository, store *storage.Store, bus *events.Bus, logger *zap.Logger) *CarService {
	return &CarService{
		carRepo:  carRepo,
		saleRepo: saleRepo,
		store:    store,
		bus:      bus,
		logger:   logger,
	}
}

// GetCar returns a vendor's car with its images and documents
func (s *CarService) GetCar(ctx context.Context, vendorID, carID int64) (*car.CarDetail, error) {
	c, err := s.ownedCar(ctx, vendorID, carID)
	if err != nil {
		return nil, err
	}

	images, err := s.carRepo.GetImages(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	docs, err := s.carRepo.GetDocuments(ctx, carID)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}

	// Documents are served through signed URLs only.
	for i := range docs {
		if key, ok := s.store.KeyFromURL(storage.BucketCarDocuments, docs[i].DocumentURL); ok {
			docs[i].DocumentURL = s.store.SignedURL(storage.BucketCarDocuments, key)
		}
	}

	return &car.CarDetail{Car: c, Images: images, Documents: docs}, nil
}

// ListCars returns a paginated page of the vendor's inventory
func (s *CarService) ListCars(ctx context.Context, vendorID int64, filters *car.ListFilters) (*car.ListResponse, error) {
	details, total, err := s.carRepo.List(ctx, vendorID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return &car.ListResponse{
		Cars:     details,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateCar applies a partial update to a vendor's car
func (s *CarService) UpdateCar(ctx context.Context, vendorID, carID int64, req *car.UpdateCarRequest) (*car.Car, error) {
	if _, err := s.ownedCar(ctx, vendorID, carID); err != nil {
		return nil, err
	}

	if err := s.carRepo.Update(ctx, carID, req); err != nil {
		return nil, err
	}

	updated, err := s.carRepo.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Table:    events.TableCars,
		Action:   events.ActionUpdate,
		VendorID: vendorID,
		EntityID: carID,
	})

	s.logger.Info("car updated", zap.Int64("car_id", carID), zap.Int64("vendor_id", vendorID))
	return updated, nil
}

// MarkAvailable reverts a sold car back to available. Marking a car sold
// goes through the sale service so a buyer record always exists.
func (s *CarService) MarkAvailable(ctx context.Context, vendorID, carID int64) (*car.Car, error) {
	c, err := s.ownedCar(ctx, vendorID, carID)
	if err != nil {
		return nil, err
	}

	if c.Status == car.StatusAvailable {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "car is already available")
	}

	if err := s.carRepo.UpdateStatus(ctx, carID, car.StatusAvailable); err != nil {
		return nil, err
	}
	c.Status = car.StatusAvailable

	s.bus.Publish(events.Event{
		Table:    events.TableCars,
		Action:   events.ActionUpdate,
		VendorID: vendorID,
		EntityID: carID,
	})

	s.logger.Info("car marked available", zap.Int64("car_id", carID), zap.Int64("vendor_id", vendorID))
	return c, nil
}

// DeleteCar removes a car and everything attached to it. Stored files go
// first, best effort; then image rows, document rows, sale rows, and the
// car row itself.
func (s *CarService) DeleteCar(ctx context.Context, vendorID, carID int64) error {
	if _, err := s.ownedCar(ctx, vendorID, carID); err != nil {
		return err
	}

	s.store.RemovePrefix(storage.BucketCarImages, fmt.Sprintf("%d/%d", vendorID, carID))
	s.store.RemovePrefix(storage.BucketCarDocuments, fmt.Sprintf("%d/%d", vendorID, carID))

	if err := s.carRepo.DeleteImagesByCar(ctx, carID); err != nil {
		return err
	}
	if err := s.carRepo.DeleteDocumentsByCar(ctx, carID); err != nil {
		return err
	}
	if err := s.saleRepo.DeleteByCar(ctx, carID); err != nil {
		return err
	}
	if err := s.carRepo.Delete(ctx, carID); err != nil {
		return err
	}

	s.bus.Publish(events.Event{
		Table:    events.TableCars,
		Action:   events.ActionDelete,
		VendorID: vendorID,
		EntityID: carID,
	})

	s.logger.Info("car deleted", zap.Int64("car_id", carID), zap.Int64("vendor_id", vendorID))
	return nil
}

func (s *CarService) ownedCar(ctx context.Context, vendorID, carID int64) (*car.Car, error) {
	c, err := s.carRepo.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if c.VendorID != vendorID {
		return nil, xerrors.ErrUnauthorized
	}
	return c, nil
}
