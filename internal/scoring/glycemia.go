package scoring

import (
	"math"
	"strings"
)

const (
	GlycemiaSevereHypo  = "Severe hypoglycemia"
	GlycemiaModHypo     = "Moderate hypoglycemia"
	GlycemiaNormal      = "Normal fasting"
	GlycemiaModHyper    = "Moderate hyperglycemia"
	GlycemiaSevereHyper = "Severe hyperglycemia"
)

type GlycemiaUnit string

const (
	UnitGramsPerLiter  GlycemiaUnit = "g/L"
	UnitMmolPerLiter   GlycemiaUnit = "mmol/L"
	UnitMgPerDeciliter GlycemiaUnit = "mg/dL"
)

const (
	mmolPerGram = 5.55
	mgdlPerGram = 100.0
	mgdlPerMmol = 18.01
)

func (u GlycemiaUnit) IsValid() bool {
	switch u {
	case UnitGramsPerLiter, UnitMmolPerLiter, UnitMgPerDeciliter:
		return true
	}
	return false
}

// ParseGlycemiaUnit accepts the canonical spellings case-insensitively.
func ParseGlycemiaUnit(s string) (GlycemiaUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g/l":
		return UnitGramsPerLiter, nil
	case "mmol/l":
		return UnitMmolPerLiter, nil
	case "mg/dl":
		return UnitMgPerDeciliter, nil
	}
	return "", ErrUnknownUnit
}

type GlycemiaInput struct {
	Value float64      `json:"value"`
	Unit  GlycemiaUnit `json:"unit"`
}

type ConversionResult struct {
	GramsPerLiter  float64 `json:"g_per_L"`
	MmolPerLiter   float64 `json:"mmol_per_L"`
	MgPerDeciliter float64 `json:"mg_per_dL"`
	Interpretation string  `json:"interpretation"`
}

// ConvertGlycemia expresses a capillary glycemia in all three units. The
// value given in its own unit is passed through unchanged.
func ConvertGlycemia(in GlycemiaInput) (ConversionResult, error) {
	if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) || in.Value < 0 {
		return ConversionResult{}, invalid("value", "must be a finite non-negative number")
	}

	var r ConversionResult
	switch in.Unit {
	case UnitGramsPerLiter:
		r.GramsPerLiter = in.Value
		r.MmolPerLiter = in.Value * mmolPerGram
		r.MgPerDeciliter = in.Value * mgdlPerGram
	case UnitMmolPerLiter:
		r.GramsPerLiter = in.Value / mmolPerGram
		r.MmolPerLiter = in.Value
		r.MgPerDeciliter = in.Value * mgdlPerMmol
	case UnitMgPerDeciliter:
		r.GramsPerLiter = in.Value / mgdlPerGram
		r.MmolPerLiter = in.Value / mgdlPerMmol
		r.MgPerDeciliter = in.Value
	default:
		return ConversionResult{}, ErrUnknownUnit
	}

	r.Interpretation = InterpretGlycemia(r.GramsPerLiter)
	return r, nil
}

// InterpretGlycemia classifies a value expressed in g/L.
func InterpretGlycemia(gPerL float64) string {
	switch {
	case gPerL < 0.7:
		return GlycemiaSevereHypo
	case gPerL < 1.0:
		return GlycemiaModHypo
	case gPerL <= 1.26:
		return GlycemiaNormal
	case gPerL <= 2.0:
		return GlycemiaModHyper
	default:
		return GlycemiaSevereHyper
	}
}
