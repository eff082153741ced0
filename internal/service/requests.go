package service

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain/patient"
)

// Envelope holds the fields every calculation payload may carry next to
// the tool's own observations.
type Envelope struct {
	SessionID *uuid.UUID       `json:"session_id,omitempty"`
	Patient   *patient.Profile `json:"patient,omitempty"`
}

// Pointer fields tell "absent" apart from a zero observation.

type GlasgowRequest struct {
	Eyes   *int `json:"eyes" validate:"required"`
	Verbal *int `json:"verbal" validate:"required"`
	Motor  *int `json:"motor" validate:"required"`
}

type APGARRequest struct {
	HeartRate   *int `json:"heart_rate" validate:"required"`
	Respiration *int `json:"respiration" validate:"required"`
	MuscleTone  *int `json:"muscle_tone" validate:"required"`
	Reflex      *int `json:"reflex" validate:"required"`
	Color       *int `json:"color" validate:"required"`
}

// NIHSSRequest maps item names to cotations; "X" or "UN" marks an
// untestable item.
type NIHSSRequest struct {
	Items map[string]string `json:"items" validate:"required"`
}

type GlycemiaRequest struct {
	Value *float64 `json:"value" validate:"required"`
	Unit  string   `json:"unit" validate:"required"`
}

type FraminghamRequest struct {
	Age              *int   `json:"age" validate:"required"`
	Sex              string `json:"sex" validate:"required"`
	TotalCholesterol *int   `json:"total_cholesterol" validate:"required"`
	HDL              *int   `json:"hdl" validate:"required"`
	SystolicBP       *int   `json:"systolic_bp" validate:"required"`
	Smoker           bool   `json:"smoker"`
	Diabetic         bool   `json:"diabetic"`
}

type BMIRequest struct {
	WeightKg *float64 `json:"weight_kg" validate:"required"`
	HeightCm *float64 `json:"height_cm" validate:"required"`
}

type ClearanceRequest struct {
	Age           *float64 `json:"age" validate:"required"`
	WeightKg      *float64 `json:"weight_kg" validate:"required"`
	Sex           string   `json:"sex" validate:"required"`
	CreatinineMgL *float64 `json:"creatinine_mg_l" validate:"required"`
}

// RangeRequest lists a category, or classifies a measured value when
// parameter and value are both given.
type RangeRequest struct {
	Category  string   `json:"category"`
	Parameter string   `json:"parameter" validate:"required_with=Value"`
	Value     *float64 `json:"value" validate:"required_with=Parameter"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
