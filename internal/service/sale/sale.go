// internal/service/sale/sale.go
package sale

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/domain/sale"
	"dealerdesk-service/internal/events"
	xerrors "dealerdesk-service/internal/pkg/errors"
	"dealerdesk-service/internal/storage"

	"go.uber.org/zap"
)

type SaleService struct {
	carRepo  car.Repository
	saleRepo sale.Repository
	store    *storage.Store
	bus      *events.Bus
	logger   *zap.Logger
}

func NewSaleService(carRepo car.Repository, saleRepo sale.Repository, store *storage.Store, bus *events.Bus, logger *zap.Logger) *SaleService {
	return &SaleService{
		carRepo:  carRepo,
		saleRepo: saleRepo,
		store:    store,
		bus:      bus,
		logger:   logger,
	}
}

// RecordSale marks a car sold with its buyer record. Client documents are
// stored first, then the sale row is inserted, then the car status flips
// to sold. A car that is already sold is rejected.
func (s *SaleService) RecordSale(ctx context.Context, vendorID, carID int64, req *sale.RecordSaleRequest) (*sale.Sale, error) {
	c, err := s.carRepo.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if c.VendorID != vendorID {
		return nil, xerrors.ErrUnauthorized
	}
	if c.Status != car.StatusAvailable {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "car is already sold")
	}
	if !sale.ValidPaymentMethod(req.PaymentMethod) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "invalid payment method")
	}

	documentURLs := make([]string, 0, len(req.Documents))
	for _, file := range req.Documents {
		key := storage.ClientDocumentKey(file.Name)
		if err := s.store.Upload(storage.BucketClientDocuments, key, file.Data); err != nil {
			return nil, fmt.Errorf("failed to store client document: %w", err)
		}
		documentURLs = append(documentURLs, s.store.SignedURL(storage.BucketClientDocuments, key))
	}

	// Always a valid JSON array, "[]" when no documents were attached.
	docsJSON, err := json.Marshal(documentURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document list: %w", err)
	}

	salePrice := c.Price
	if req.SalePrice != nil && *req.SalePrice > 0 {
		salePrice = *req.SalePrice
	}

	saleDate := req.SaleDate
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	record := &sale.Sale{
		CarID:           carID,
		VendorID:        vendorID,
		ClientName:      req.ClientName,
		ClientEmail:     toNullString(req.ClientEmail),
		ClientPhone:     toNullString(req.ClientPhone),
		ClientAddress:   toNullString(req.ClientAddress),
		SaleDate:        saleDate,
		PaymentMethod:   req.PaymentMethod,
		SalePrice:       salePrice,
		ClientDocuments: string(docsJSON),
	}

	if err := s.saleRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.carRepo.UpdateStatus(ctx, carID, car.StatusSold); err != nil {
		// The sale row is kept; the caller sees the failure and can retry
		// the status change.
		s.logger.Error("sale recorded but status update failed",
			zap.Int64("car_id", carID),
			zap.Int64("sale_id", record.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("sale recorded but failed to mark car sold: %w", err)
	}

	s.bus.Publish(events.Event{
		Table:    events.TableSales,
		Action:   events.ActionInsert,
		VendorID: vendorID,
		EntityID: record.ID,
	})
	s.bus.Publish(events.Event{
		Table:    events.TableCars,
		Action:   events.ActionUpdate,
		VendorID: vendorID,
		EntityID: carID,
	})

	s.logger.Info("sale recorded",
		zap.Int64("sale_id", record.ID),
		zap.Int64("car_id", carID),
		zap.Int64("vendor_id", vendorID),
		zap.Float64("sale_price", salePrice),
	)

	return record, nil
}

// ListSales returns the vendor's sales joined with their cars
func (s *SaleService) ListSales(ctx context.Context, vendorID int64) ([]sale.SaleWithCar, error) {
	return s.saleRepo.ListByVendor(ctx, vendorID)
}

func toNullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
