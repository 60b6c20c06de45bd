// internal/handlers/sale/sale_handler.go
package sale

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/domain/sale"
	"dealerdesk-service/internal/middleware"
	xerrors "dealerdesk-service/internal/pkg/errors"
	"dealerdesk-service/internal/pkg/response"
	salesvc "dealerdesk-service/internal/service/sale"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SaleHandler struct {
	service *salesvc.SaleService
	logger  *zap.Logger
}

func NewSaleHandler(service *salesvc.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{service: service, logger: logger}
}

// RecordSale handles POST /cars/:id/sell: a multipart form with the buyer
// record and optional client document files.
func (h *SaleHandler) RecordSale(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid car id", err)
		return
	}

	req := &sale.RecordSaleRequest{
		ClientName:    c.PostForm("client_name"),
		ClientEmail:   c.PostForm("client_email"),
		ClientPhone:   c.PostForm("client_phone"),
		ClientAddress: c.PostForm("client_address"),
		PaymentMethod: sale.PaymentMethod(c.PostForm("payment_method")),
	}
	if req.ClientName == "" {
		response.ValidationError(c, "client name is required", nil)
		return
	}

	if v := c.PostForm("sale_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			response.ValidationError(c, "invalid sale price", err)
			return
		}
		req.SalePrice = &price
	}
	if v := c.PostForm("sale_date"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.ValidationError(c, "invalid sale date", err)
			return
		}
		req.SaleDate = date
	}

	form, err := c.MultipartForm()
	if err == nil {
		for _, header := range form.File["documents"] {
			f, err := header.Open()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "failed to read document", err)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				response.Error(c, http.StatusInternalServerError, "failed to read document", err)
				return
			}
			req.Documents = append(req.Documents, car.FileUpload{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	record, err := h.service.RecordSale(c.Request.Context(), vendorID, carID, req)
	if err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "car not found")
		case xerrors.Is(err, xerrors.ErrUnauthorized):
			response.Forbidden(c, "car belongs to another vendor")
		case xerrors.Is(err, xerrors.ErrConflict):
			response.Error(c, http.StatusConflict, "car is already sold", err)
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid sale request", err)
		default:
			h.logger.Error("sale recording failed",
				zap.Int64("vendor_id", vendorID),
				zap.Int64("car_id", carID),
				zap.Error(err),
			)
			response.Error(c, http.StatusInternalServerError, "failed to record sale", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "sale recorded", record)
}

// ListSales handles GET /sales
func (h *SaleHandler) ListSales(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	sales, err := h.service.ListSales(c.Request.Context(), vendorID)
	if err != nil {
		h.logger.Error("sales listing failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to list sales", err)
		return
	}

	response.Success(c, http.StatusOK, "sales", sales)
}
