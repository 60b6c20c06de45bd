// internal/service/car/duplicate.go
package car

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dealerdesk-service/internal/domain/car"
	xerrors "dealerdesk-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// DuplicateCheckFailedMessage is surfaced when a duplicate lookup itself
// fails; the car must not be created in that case.
const DuplicateCheckFailedMessage = "Error checking for duplicate cars. Please try again."

// CheckDuplicate looks for an existing listing that clashes with the given
// details. Identifier checks run in a fixed order: registration number,
// chassis number, engine number. The full-detail tuple check only runs when
// all three identifier fields are empty.
func (s *CarService) CheckDuplicate(ctx context.Context, vendorID int64, d *car.CarDetails) (car.DuplicateResult, error) {
	registration := strings.TrimSpace(d.RegistrationNumber)
	chassis := strings.TrimSpace(d.ChassisNumber)
	engine := strings.TrimSpace(d.EngineNumber)

	type lookup struct {
		value string
		label string
		find  func(context.Context, int64, string) (*car.Car, error)
	}

	lookups := []lookup{
		{registration, "registration number", s.carRepo.FindFirstByRegistration},
		{chassis, "chassis number", s.carRepo.FindFirstByChassis},
		{engine, "engine number", s.carRepo.FindFirstByEngine},
	}

	for _, l := range lookups {
		if l.value == "" {
			continue
		}
		match, err := l.find(ctx, vendorID, l.value)
		if err != nil {
			if errors.Is(err, xerrors.ErrNotFound) {
				continue
			}
			s.logger.Error("duplicate lookup failed",
				zap.String("field", l.label),
				zap.Int64("vendor_id", vendorID),
				zap.Error(err),
			)
			return car.DuplicateResult{}, fmt.Errorf("%s: %w", DuplicateCheckFailedMessage, err)
		}
		return car.DuplicateResult{
			IsDuplicate: true,
			Message: fmt.Sprintf("A car with %s %q already exists (%s %s %d)",
				l.label, l.value, match.Brand, match.Model, match.Year),
		}, nil
	}

	// Without any identifying numbers, fall back to a full-detail match.
	if registration == "" && chassis == "" && engine == "" {
		tuple := &car.DuplicateTuple{
			Brand:   d.Brand,
			Model:   d.Model,
			Year:    d.Year,
			Color:   d.Color,
			Mileage: d.Mileage,
			Price:   d.Price,
		}
		match, err := s.carRepo.FindFirstByTuple(ctx, vendorID, tuple)
		if err != nil {
			if errors.Is(err, xerrors.ErrNotFound) {
				return car.DuplicateResult{}, nil
			}
			s.logger.Error("duplicate tuple lookup failed",
				zap.Int64("vendor_id", vendorID),
				zap.Error(err),
			)
			return car.DuplicateResult{}, fmt.Errorf("%s: %w", DuplicateCheckFailedMessage, err)
		}
		return car.DuplicateResult{
			IsDuplicate: true,
			Message: fmt.Sprintf("A car with identical details (%s %s %d, %s, %dkm, ₹%.0f) already exists",
				match.Brand, match.Model, match.Year, d.Color, d.Mileage, d.Price),
		}, nil
	}

	return car.DuplicateResult{}, nil
}
