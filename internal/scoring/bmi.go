package scoring

import "math"

const (
	BMISevereUnderweight = "Severe underweight"
	BMIUnderweight       = "Underweight"
	BMINormal            = "Normal"
	BMIOverweight        = "Overweight"
	BMIModerateObesity   = "Moderate obesity"
	BMISevereObesity     = "Severe obesity"
	BMIMorbidObesity     = "Morbid obesity"
)

type BMIInput struct {
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
}

type BMIResult struct {
	BMI            float64 `json:"bmi"`
	Interpretation string  `json:"interpretation"`
}

func BMI(in BMIInput) (BMIResult, error) {
	if !positive(in.WeightKg) {
		return BMIResult{}, invalid("weight_kg", "must be a positive number")
	}
	if !positive(in.HeightCm) {
		return BMIResult{}, invalid("height_cm", "must be a positive number")
	}

	m := in.HeightCm / 100
	bmi := in.WeightKg / (m * m)
	return BMIResult{BMI: bmi, Interpretation: InterpretBMI(bmi)}, nil
}

func InterpretBMI(bmi float64) string {
	switch {
	case bmi < 16.5:
		return BMISevereUnderweight
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	case bmi < 35:
		return BMIModerateObesity
	case bmi < 40:
		return BMISevereObesity
	default:
		return BMIMorbidObesity
	}
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
