package trip

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Form is the raw, unvalidated input for a trip as submitted by a client.
type Form struct {
	Nights            int    `json:"nights" validate:"min=1,max=365"`
	Weather           string `json:"weather" validate:"oneof=warm medium cold"`
	Accommodation     string `json:"accommodation" validate:"oneof=hotel hostel mountain_cabin holiday_home"`
	Beach             bool   `json:"beach"`
	Sauna             bool   `json:"sauna"`
	Hiking            bool   `json:"hiking"`
	Climbing          bool   `json:"climbing"`
	Abroad            bool   `json:"abroad"`
	Flight            bool   `json:"flight"`
	HasCamera         bool   `json:"has_camera"`
	HasWashingMachine bool   `json:"has_washing_machine"`
}

// FormFromParameters converts parameters back into their form representation.
func FormFromParameters(p Parameters) Form {
	return Form{
		Nights:            p.Nights,
		Weather:           string(p.Weather),
		Accommodation:     string(p.Accommodation),
		Beach:             p.Beach,
		Sauna:             p.Sauna,
		Hiking:            p.Hiking,
		Climbing:          p.Climbing,
		Abroad:            p.Abroad,
		Flight:            p.Flight,
		HasCamera:         p.HasCamera,
		HasWashingMachine: p.HasWashingMachine,
	}
}

// Parse validates a form and returns the trip parameters it describes.
// All problems are reported at once in a *ValidationError.
func Parse(f Form) (Parameters, error) {
	if err := Validate(f); err != nil {
		return Parameters{}, err
	}
	return Parameters{
		Nights:            f.Nights,
		Weather:           Weather(f.Weather),
		Accommodation:     Accommodation(f.Accommodation),
		Beach:             f.Beach,
		Sauna:             f.Sauna,
		Hiking:            f.Hiking,
		Climbing:          f.Climbing,
		Abroad:            f.Abroad,
		Flight:            f.Flight,
		HasCamera:         f.HasCamera,
		HasWashingMachine: f.HasWashingMachine,
	}, nil
}

// Validate checks the form against the supported ranges and enums.
func Validate(f Form) error {
	err := validatorInstance().Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Problems: []string{err.Error()}}
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, problemMessage(fe))
	}
	return &ValidationError{Problems: problems}
}

func problemMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Nights":
		if fe.Tag() == "max" {
			return "Nights cannot exceed 365"
		}
		return "Nights must be at least 1"
	case "Weather":
		return "Invalid weather selection"
	case "Accommodation":
		return "Invalid accommodation type"
	default:
		return fe.Error()
	}
}
