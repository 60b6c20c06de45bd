package car

import (
	"strings"
	"testing"
	"time"
)

func validDetails() CarDetails {
	return CarDetails{
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2020,
		Color:        "White",
		FuelType:     "petrol",
		Transmission: "manual",
		Price:        550000,
		Mileage:      45000,
	}
}

func oneImage() []FileUpload {
	return []FileUpload{{Name: "front.jpg", ContentType: "image/jpeg", Data: []byte("jpg")}}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Step
		want     bool
	}{
		{StepDetails, StepImages, true},
		{StepImages, StepDetails, true},
		{StepImages, StepDocuments, true},
		{StepDocuments, StepImages, true},
		{StepDetails, StepDocuments, false},
		{StepDocuments, StepDetails, false},
		{StepDetails, StepDetails, false},
		{Step("bogus"), StepImages, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestValidateDetailsMessages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CarDetails)
		want   string
	}{
		{"missing brand", func(d *CarDetails) { d.Brand = "  " }, "Brand is required"},
		{"missing model", func(d *CarDetails) { d.Model = "" }, "Model is required"},
		{"year too old", func(d *CarDetails) { d.Year = 1899 }, "Please enter a valid year"},
		{"year in far future", func(d *CarDetails) { d.Year = time.Now().Year() + 2 }, "Please enter a valid year"},
		{"missing color", func(d *CarDetails) { d.Color = "" }, "Color is required"},
		{"missing fuel type", func(d *CarDetails) { d.FuelType = "  " }, "Fuel type is required"},
		{"missing transmission", func(d *CarDetails) { d.Transmission = "" }, "Transmission is required"},
		{"zero mileage", func(d *CarDetails) { d.Mileage = 0 }, "Mileage is required"},
		{"negative mileage", func(d *CarDetails) { d.Mileage = -1 }, "Mileage is required"},
		{"zero price", func(d *CarDetails) { d.Price = 0 }, "Please enter a valid price"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := validDetails()
			c.mutate(&d)
			err := ValidateDetails(&d)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if err.Error() != c.want {
				t.Errorf("got %q, want %q", err.Error(), c.want)
			}
		})
	}

	d := validDetails()
	if err := ValidateDetails(&d); err != nil {
		t.Errorf("valid details rejected: %v", err)
	}
	d.Year = time.Now().Year() + 1
	if err := ValidateDetails(&d); err != nil {
		t.Errorf("next model year rejected: %v", err)
	}
}

func TestValidateDetailsRequiresEveryField(t *testing.T) {
	d := CarDetails{Brand: "Toyota", Model: "Camry", Year: 2020, Mileage: 0, Price: 1500000}
	if err := ValidateDetails(&d); err == nil {
		t.Fatal("details with empty color, fuel type, and transmission accepted")
	}
}

func TestValidateImages(t *testing.T) {
	err := ValidateImages(nil)
	if err == nil || err.Error() != "At least one car image is required" {
		t.Errorf("got %v, want image requirement error", err)
	}
	if err := ValidateImages(oneImage()); err != nil {
		t.Errorf("one image rejected: %v", err)
	}
}

func TestWizardAdvanceAndBack(t *testing.T) {
	w := NewWizard()
	if w.Step() != StepDetails {
		t.Fatalf("new wizard starts at %s", w.Step())
	}

	// Cannot advance past invalid details.
	if err := w.Advance(); err == nil {
		t.Fatal("advanced with empty details")
	}

	w.SetDetails(validDetails())
	if err := w.Advance(); err != nil {
		t.Fatalf("advance from details: %v", err)
	}
	if w.Step() != StepImages {
		t.Fatalf("expected images step, got %s", w.Step())
	}

	if err := w.Advance(); err == nil {
		t.Fatal("advanced without images")
	}
	w.SetImages(oneImage(), 0)
	if err := w.Advance(); err != nil {
		t.Fatalf("advance from images: %v", err)
	}
	if w.Step() != StepDocuments {
		t.Fatalf("expected documents step, got %s", w.Step())
	}
	if err := w.Advance(); err == nil {
		t.Fatal("advanced past last step")
	}

	// Back never validates.
	if err := w.Back(); err != nil {
		t.Fatalf("back from documents: %v", err)
	}
	w.SetImages(nil, 0)
	if err := w.Back(); err != nil {
		t.Fatalf("back from images: %v", err)
	}
	if err := w.Back(); err == nil {
		t.Fatal("went back past first step")
	}
}

func TestWizardFinish(t *testing.T) {
	w := NewWizard()
	w.SetDetails(validDetails())
	w.SetImages(oneImage(), 0)

	req, err := w.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if req.Details.Brand != "Toyota" || len(req.Images) != 1 {
		t.Errorf("unexpected request: %+v", req)
	}
	if len(req.Documents) != 0 {
		t.Errorf("documents should be optional, got %d", len(req.Documents))
	}
}

func TestWizardFinishClampsPrimaryIndex(t *testing.T) {
	images := []FileUpload{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	}

	w := NewWizard()
	w.SetDetails(validDetails())
	w.SetImages(images, 5)
	req, err := w.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if req.PrimaryIndex != 0 {
		t.Errorf("out of range primary index not clamped, got %d", req.PrimaryIndex)
	}

	w.SetImages(images, 1)
	req, err = w.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if req.PrimaryIndex != 1 {
		t.Errorf("valid primary index changed, got %d", req.PrimaryIndex)
	}
}

func TestWizardFinishValidatesEveryStep(t *testing.T) {
	w := NewWizard()
	w.SetImages(oneImage(), 0)
	_, err := w.Finish()
	if err == nil || !strings.Contains(err.Error(), "Brand") {
		t.Errorf("finish skipped details validation: %v", err)
	}

	w = NewWizard()
	w.SetDetails(validDetails())
	_, err = w.Finish()
	if err == nil || err.Error() != "At least one car image is required" {
		t.Errorf("finish skipped images validation: %v", err)
	}
}
