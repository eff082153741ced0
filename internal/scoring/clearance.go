package scoring

import "math"

const (
	RenalNormal   = "Normal"
	RenalMild     = "Mild impairment"
	RenalModerate = "Moderate impairment"
	RenalSevere   = "Severe impairment"
	RenalEndStage = "End-stage"
)

const (
	cockcroftFemaleFactor = 0.85
	mdrdFemaleFactor      = 0.742
)

// ClearanceInput takes serum creatinine in mg/L, as reported by French
// laboratories.
type ClearanceInput struct {
	AgeYears      float64 `json:"age"`
	WeightKg      float64 `json:"weight_kg"`
	Sex           Sex     `json:"sex"`
	CreatinineMgL float64 `json:"creatinine_mg_l"`
}

// ClearanceResult values are in mL/min (Cockcroft-Gault) and
// mL/min/1.73m² (MDRD).
type ClearanceResult struct {
	CockcroftGault float64 `json:"cockcroft_gault"`
	MDRD           float64 `json:"mdrd"`
	Interpretation string  `json:"interpretation"`
}

func Clearance(in ClearanceInput) (ClearanceResult, error) {
	if !positive(in.AgeYears) || in.AgeYears >= 140 {
		return ClearanceResult{}, invalid("age", "must be greater than 0 and below 140")
	}
	if !positive(in.WeightKg) {
		return ClearanceResult{}, invalid("weight_kg", "must be a positive number")
	}
	if !positive(in.CreatinineMgL) {
		return ClearanceResult{}, invalid("creatinine_mg_l", "must be a positive number")
	}
	if !in.Sex.IsValid() {
		return ClearanceResult{}, invalid("sex", "must be male or female")
	}

	creatMgDl := in.CreatinineMgL / 10

	cg := ((140 - in.AgeYears) * in.WeightKg) / (72 * creatMgDl)
	mdrd := 186 * math.Pow(creatMgDl, -1.154) * math.Pow(in.AgeYears, -0.203)
	if in.Sex == SexFemale {
		cg *= cockcroftFemaleFactor
		mdrd *= mdrdFemaleFactor
	}

	return ClearanceResult{
		CockcroftGault: cg,
		MDRD:           mdrd,
		Interpretation: InterpretClearance(cg),
	}, nil
}

func InterpretClearance(mlPerMin float64) string {
	switch {
	case mlPerMin >= 90:
		return RenalNormal
	case mlPerMin >= 60:
		return RenalMild
	case mlPerMin >= 30:
		return RenalModerate
	case mlPerMin >= 15:
		return RenalSevere
	default:
		return RenalEndStage
	}
}
