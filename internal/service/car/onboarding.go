// internal/service/car/onboarding.go
package car

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/events"
	xerrors "dealerdesk-service/internal/pkg/errors"
	"dealerdesk-service/internal/storage"

	"go.uber.org/zap"
)

// OnboardCar lists a new car from the assembled wizard output. The whole
// operation is all-or-nothing: if anything fails after the car row is
// created, stored objects and rows are removed again.
func (s *CarService) OnboardCar(ctx context.Context, vendorID int64, req *car.OnboardCarRequest) (*car.CarDetail, error) {
	if err := car.ValidateDetails(&req.Details); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, err.Error())
	}
	if err := car.ValidateImages(req.Images); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, err.Error())
	}

	dup, err := s.CheckDuplicate(ctx, vendorID, &req.Details)
	if err != nil {
		return nil, err
	}
	if dup.IsDuplicate {
		return nil, xerrors.Wrap(xerrors.ErrDuplicateEntry, dup.Message)
	}

	c := newCarFromDetails(vendorID, &req.Details)
	if err := s.carRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	detail, err := s.attachAssets(ctx, vendorID, c, req)
	if err != nil {
		s.rollbackOnboarding(ctx, vendorID, c.ID)
		return nil, err
	}

	s.bus.Publish(events.Event{
		Table:    events.TableCars,
		Action:   events.ActionInsert,
		VendorID: vendorID,
		EntityID: c.ID,
	})

	s.logger.Info("car listed",
		zap.Int64("car_id", c.ID),
		zap.Int64("vendor_id", vendorID),
		zap.String("brand", c.Brand),
		zap.String("model", c.Model),
		zap.Int("images", len(detail.Images)),
		zap.Int("documents", len(detail.Documents)),
	)

	return detail, nil
}

func (s *CarService) attachAssets(ctx context.Context, vendorID int64, c *car.Car, req *car.OnboardCarRequest) (*car.CarDetail, error) {
	primary := req.PrimaryIndex
	if primary < 0 || primary >= len(req.Images) {
		primary = 0
	}

	detail := &car.CarDetail{Car: c}

	for i, file := range req.Images {
		key := storage.ObjectKey(vendorID, c.ID, file.Name)
		if err := s.store.Upload(storage.BucketCarImages, key, file.Data); err != nil {
			return nil, err
		}
		img := &car.CarImage{
			CarID:     c.ID,
			ImageURL:  s.store.PublicURL(storage.BucketCarImages, key),
			IsPrimary: i == primary,
		}
		if err := s.carRepo.AddImage(ctx, img); err != nil {
			return nil, err
		}
		detail.Images = append(detail.Images, *img)
	}

	for _, doc := range req.Documents {
		key := storage.ObjectKey(vendorID, c.ID, doc.File.Name)
		if err := s.store.Upload(storage.BucketCarDocuments, key, doc.File.Data); err != nil {
			return nil, err
		}
		name := doc.Name
		if name == "" {
			name = doc.File.Name
		}
		d := &car.CarDocument{
			CarID:        c.ID,
			DocumentName: name,
			DocumentURL:  s.store.PublicURL(storage.BucketCarDocuments, key),
			DocumentType: doc.Type,
		}
		if err := s.carRepo.AddDocument(ctx, d); err != nil {
			return nil, err
		}
		detail.Documents = append(detail.Documents, *d)
	}

	return detail, nil
}

func (s *CarService) rollbackOnboarding(ctx context.Context, vendorID, carID int64) {
	s.store.RemovePrefix(storage.BucketCarImages, keyPrefix(vendorID, carID))
	s.store.RemovePrefix(storage.BucketCarDocuments, keyPrefix(vendorID, carID))

	if err := s.carRepo.DeleteImagesByCar(ctx, carID); err != nil {
		s.logger.Error("rollback: failed to delete image rows", zap.Int64("car_id", carID), zap.Error(err))
	}
	if err := s.carRepo.DeleteDocumentsByCar(ctx, carID); err != nil {
		s.logger.Error("rollback: failed to delete document rows", zap.Int64("car_id", carID), zap.Error(err))
	}
	if err := s.carRepo.Delete(ctx, carID); err != nil {
		s.logger.Error("rollback: failed to delete car row", zap.Int64("car_id", carID), zap.Error(err))
	}
}

func newCarFromDetails(vendorID int64, d *car.CarDetails) *car.Car {
	// Color, fuel type, and transmission are mandatory details-step
	// fields; ValidateDetails has already rejected empty values here.
	return &car.Car{
		VendorID:           vendorID,
		Brand:              strings.TrimSpace(d.Brand),
		Model:              strings.TrimSpace(d.Model),
		Year:               d.Year,
		Color:              toNullString(d.Color),
		FuelType:           car.FuelType(d.FuelType),
		Transmission:       car.TransmissionType(d.Transmission),
		Mileage:            d.Mileage,
		Price:              d.Price,
		Description:        toNullString(d.Description),
		EngineCapacity:     toNullString(d.EngineCapacity),
		BodyType:           toNullString(d.BodyType),
		Condition:          toNullString(d.Condition),
		RegistrationNumber: toNullString(strings.TrimSpace(d.RegistrationNumber)),
		ChassisNumber:      toNullString(strings.TrimSpace(d.ChassisNumber)),
		EngineNumber:       toNullString(strings.TrimSpace(d.EngineNumber)),
		Status:             car.StatusAvailable,
	}
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func keyPrefix(vendorID, carID int64) string {
	return fmt.Sprintf("%d/%d", vendorID, carID)
}
