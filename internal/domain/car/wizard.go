// internal/domain/car/wizard.go
package car

import (
	"errors"
	"strings"
	"time"
)

// Step is a stage of the car listing wizard
type Step string

const (
	StepDetails   Step = "details"
	StepImages    Step = "images"
	StepDocuments Step = "documents"
)

var stepOrder = []Step{StepDetails, StepImages, StepDocuments}

func stepIndex(s Step) int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether moving between two steps is allowed.
// Only adjacent steps are reachable, in either direction.
func CanTransition(from, to Step) bool {
	fi, ti := stepIndex(from), stepIndex(to)
	if fi < 0 || ti < 0 {
		return false
	}
	diff := ti - fi
	return diff == 1 || diff == -1
}

// ValidateDetails checks the details step fields. Every field except the
// identifying numbers and free-text extras is mandatory.
func ValidateDetails(d *CarDetails) error {
	if strings.TrimSpace(d.Brand) == "" {
		return errors.New("Brand is required")
	}
	if strings.TrimSpace(d.Model) == "" {
		return errors.New("Model is required")
	}
	if d.Year < 1900 || d.Year > time.Now().Year()+1 {
		return errors.New("Please enter a valid year")
	}
	if strings.TrimSpace(d.Color) == "" {
		return errors.New("Color is required")
	}
	if strings.TrimSpace(d.FuelType) == "" {
		return errors.New("Fuel type is required")
	}
	if strings.TrimSpace(d.Transmission) == "" {
		return errors.New("Transmission is required")
	}
	if d.Mileage <= 0 {
		return errors.New("Mileage is required")
	}
	if d.Price <= 0 {
		return errors.New("Please enter a valid price")
	}
	return nil
}

// ValidateImages checks the images step.
func ValidateImages(images []FileUpload) error {
	if len(images) == 0 {
		return errors.New("At least one car image is required")
	}
	return nil
}

// Wizard walks a vendor through listing a car: details, then images,
// then optional documents.
type Wizard struct {
	step    Step
	details CarDetails
	images  []FileUpload
	primary int
	docs    []DocumentUpload
}

func NewWizard() *Wizard {
	return &Wizard{step: StepDetails}
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) SetDetails(d CarDetails) {
	w.details = d
}

func (w *Wizard) SetImages(images []FileUpload, primaryIndex int) {
	w.images = images
	w.primary = primaryIndex
}

func (w *Wizard) SetDocuments(docs []DocumentUpload) {
	w.docs = docs
}

// Advance validates the current step and moves to the next one.
func (w *Wizard) Advance() error {
	if err := w.validateStep(w.step); err != nil {
		return err
	}
	next := stepIndex(w.step) + 1
	if next >= len(stepOrder) {
		return errors.New("already at the last step")
	}
	w.step = stepOrder[next]
	return nil
}

// Back moves to the previous step without validation.
func (w *Wizard) Back() error {
	prev := stepIndex(w.step) - 1
	if prev < 0 {
		return errors.New("already at the first step")
	}
	w.step = stepOrder[prev]
	return nil
}

// Finish validates every step and assembles the listing request.
func (w *Wizard) Finish() (*OnboardCarRequest, error) {
	for _, s := range stepOrder {
		if err := w.validateStep(s); err != nil {
			return nil, err
		}
	}
	primary := w.primary
	if primary < 0 || primary >= len(w.images) {
		primary = 0
	}
	return &OnboardCarRequest{
		Details:      w.details,
		Images:       w.images,
		PrimaryIndex: primary,
		Documents:    w.docs,
	}, nil
}

func (w *Wizard) validateStep(s Step) error {
	switch s {
	case StepDetails:
		return ValidateDetails(&w.details)
	case StepImages:
		return ValidateImages(w.images)
	case StepDocuments:
		// Documents are optional
		return nil
	}
	return errors.New("unknown step")
}
