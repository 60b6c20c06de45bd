// internal/domain/car/dto.go
package car

// FileUpload carries a file received from a multipart form
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// DocumentUpload carries a document file plus its metadata
type DocumentUpload struct {
	File FileUpload
	Name string
	Type string
}

// CarDetails holds the form fields from the details step
type CarDetails struct {
	Brand              string  `json:"brand"`
	Model              string  `json:"model"`
	Year               int     `json:"year"`
	Color              string  `json:"color"`
	FuelType           string  `json:"fuel_type"`
	Transmission       string  `json:"transmission"`
	Mileage            int64   `json:"mileage"`
	Price              float64 `json:"price"`
	Description        string  `json:"description"`
	EngineCapacity     string  `json:"engine_capacity"`
	BodyType           string  `json:"body_type"`
	Condition          string  `json:"condition"`
	RegistrationNumber string  `json:"registration_number"`
	ChassisNumber      string  `json:"chassis_number"`
	EngineNumber       string  `json:"engine_number"`
}

// OnboardCarRequest is the assembled input for listing a car
type OnboardCarRequest struct {
	Details      CarDetails
	Images       []FileUpload
	PrimaryIndex int
	Documents    []DocumentUpload
}

// UpdateCarRequest for partial car updates
type UpdateCarRequest struct {
	Brand              *string  `json:"brand"`
	Model              *string  `json:"model"`
	Year               *int     `json:"year"`
	Color              *string  `json:"color"`
	FuelType           *string  `json:"fuel_type"`
	Transmission       *string  `json:"transmission"`
	Mileage            *int64   `json:"mileage"`
	Price              *float64 `json:"price"`
	Description        *string  `json:"description"`
	EngineCapacity     *string  `json:"engine_capacity"`
	BodyType           *string  `json:"body_type"`
	Condition          *string  `json:"condition"`
	RegistrationNumber *string  `json:"registration_number"`
	ChassisNumber      *string  `json:"chassis_number"`
	EngineNumber       *string  `json:"engine_number"`
}

// ListFilters for vendor inventory listing
type ListFilters struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// CarDetail is a car with its images and documents
type CarDetail struct {
	Car       *Car          `json:"car"`
	Images    []CarImage    `json:"images"`
	Documents []CarDocument `json:"documents,omitempty"`
}

// ListResponse is a paginated inventory page
type ListResponse struct {
	Cars     []CarDetail `json:"cars"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// DuplicateTuple is the fallback match key when no identifying numbers exist
type DuplicateTuple struct {
	Brand   string
	Model   string
	Year    int
	Color   string
	Mileage int64
	Price   float64
}

// DuplicateResult is the outcome of a duplicate check
type DuplicateResult struct {
	IsDuplicate bool   `json:"is_duplicate"`
	Message     string `json:"message,omitempty"`
}
