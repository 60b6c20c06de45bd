// internal/handlers/car/car_handler.go
package car

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"dealerdesk-service/internal/domain/car"
	"dealerdesk-service/internal/middleware"
	xerrors "dealerdesk-service/internal/pkg/errors"
	"dealerdesk-service/internal/pkg/response"
	carsvc "dealerdesk-service/internal/service/car"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CarHandler struct {
	service *carsvc.CarService
	logger  *zap.Logger
}

func NewCarHandler(service *carsvc.CarService, logger *zap.Logger) *CarHandler {
	return &CarHandler{service: service, logger: logger}
}

// CreateCar handles POST /cars: a multipart form carrying the details
// fields, the image files, and optional document files. The listing
// wizard assembles and validates the steps before the service runs.
func (h *CarHandler) CreateCar(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	details, err := detailsFromForm(c)
	if err != nil {
		response.ValidationError(c, err.Error(), nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.ValidationError(c, "invalid multipart form", err)
		return
	}

	images, err := filesFromHeaders(form.File["images"])
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read images", err)
		return
	}

	primaryIndex, _ := strconv.Atoi(c.PostForm("primary_index"))

	docFiles, err := filesFromHeaders(form.File["documents"])
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read documents", err)
		return
	}
	docNames := form.Value["document_names"]
	docTypes := form.Value["document_types"]
	documents := make([]car.DocumentUpload, len(docFiles))
	for i, f := range docFiles {
		documents[i] = car.DocumentUpload{File: f}
		if i < len(docNames) {
			documents[i].Name = docNames[i]
		}
		if i < len(docTypes) {
			documents[i].Type = docTypes[i]
		}
	}

	wizard := car.NewWizard()
	wizard.SetDetails(*details)
	wizard.SetImages(images, primaryIndex)
	wizard.SetDocuments(documents)

	req, err := wizard.Finish()
	if err != nil {
		response.ValidationError(c, err.Error(), nil)
		return
	}

	detail, err := h.service.OnboardCar(c.Request.Context(), vendorID, req)
	if err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrDuplicateEntry):
			response.Error(c, http.StatusConflict, "duplicate car", err)
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid car details", err)
		default:
			h.logger.Error("car listing failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to list car", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "car listed", detail)
}

// CheckDuplicate handles POST /cars/check-duplicate
func (h *CarHandler) CheckDuplicate(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	var details car.CarDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		response.ValidationError(c, "invalid car details", err)
		return
	}

	result, err := h.service.CheckDuplicate(c.Request.Context(), vendorID, &details)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, carsvc.DuplicateCheckFailedMessage, err)
		return
	}

	response.Success(c, http.StatusOK, "duplicate check", result)
}

// GetCar handles GET /cars/:id
func (h *CarHandler) GetCar(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid car id", err)
		return
	}

	detail, err := h.service.GetCar(c.Request.Context(), vendorID, carID)
	if err != nil {
		h.respondError(c, err, "failed to load car")
		return
	}

	response.Success(c, http.StatusOK, "car", detail)
}

// ListCars handles GET /cars
func (h *CarHandler) ListCars(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	var filters car.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid list filters", err)
		return
	}

	result, err := h.service.ListCars(c.Request.Context(), vendorID, &filters)
	if err != nil {
		h.logger.Error("car listing query failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to list cars", err)
		return
	}

	response.Success(c, http.StatusOK, "cars", result)
}

// UpdateCar handles PATCH /cars/:id
func (h *CarHandler) UpdateCar(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid car id", err)
		return
	}

	var req car.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid update request", err)
		return
	}

	updated, err := h.service.UpdateCar(c.Request.Context(), vendorID, carID, &req)
	if err != nil {
		h.respondError(c, err, "failed to update car")
		return
	}

	response.Success(c, http.StatusOK, "car updated", updated)
}

// MarkAvailable handles POST /cars/:id/available
func (h *CarHandler) MarkAvailable(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid car id", err)
		return
	}

	updated, err := h.service.MarkAvailable(c.Request.Context(), vendorID, carID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrConflict) {
			response.Error(c, http.StatusConflict, "car is already available", err)
			return
		}
		h.respondError(c, err, "failed to update car status")
		return
	}

	response.Success(c, http.StatusOK, "car marked available", updated)
}

// DeleteCar handles DELETE /cars/:id
func (h *CarHandler) DeleteCar(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)
	carID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid car id", err)
		return
	}

	if err := h.service.DeleteCar(c.Request.Context(), vendorID, carID); err != nil {
		h.respondError(c, err, "failed to delete car")
		return
	}

	response.Success(c, http.StatusOK, "car deleted", nil)
}

func (h *CarHandler) respondError(c *gin.Context, err error, message string) {
	switch {
	case xerrors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, "car not found")
	case xerrors.Is(err, xerrors.ErrUnauthorized):
		response.Forbidden(c, "car belongs to another vendor")
	default:
		h.logger.Error(message, zap.Error(err))
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}

func detailsFromForm(c *gin.Context) (*car.CarDetails, error) {
	year, _ := strconv.Atoi(c.PostForm("year"))
	mileage, _ := strconv.ParseInt(c.PostForm("mileage"), 10, 64)
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)

	return &car.CarDetails{
		Brand:              c.PostForm("brand"),
		Model:              c.PostForm("model"),
		Year:               year,
		Color:              c.PostForm("color"),
		FuelType:           c.PostForm("fuel_type"),
		Transmission:       c.PostForm("transmission"),
		Mileage:            mileage,
		Price:              price,
		Description:        c.PostForm("description"),
		EngineCapacity:     c.PostForm("engine_capacity"),
		BodyType:           c.PostForm("body_type"),
		Condition:          c.PostForm("condition"),
		RegistrationNumber: c.PostForm("registration_number"),
		ChassisNumber:      c.PostForm("chassis_number"),
		EngineNumber:       c.PostForm("engine_number"),
	}, nil
}

func filesFromHeaders(headers []*multipart.FileHeader) ([]car.FileUpload, error) {
	var files []car.FileUpload
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, car.FileUpload{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
