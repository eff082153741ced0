package scoring

const (
	RiskLow      = "Low risk"
	RiskModerate = "Moderate risk"
	RiskHigh     = "High risk"
)

const maxRiskPercent = 40

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

func (s Sex) IsValid() bool {
	return s == SexMale || s == SexFemale
}

// FraminghamInput feeds a simplified point-based approximation of the
// Framingham model. Cholesterol values are in mg/dL, blood pressure in mmHg.
type FraminghamInput struct {
	AgeYears         int  `json:"age"`
	Sex              Sex  `json:"sex"`
	TotalCholesterol int  `json:"total_cholesterol"`
	HDL              int  `json:"hdl"`
	SystolicBP       int  `json:"systolic_bp"`
	Smoker           bool `json:"smoker"`
	Diabetic         bool `json:"diabetic"`
}

type FraminghamResult struct {
	Points         int    `json:"points"`
	RiskPercent    int    `json:"risk_percent"`
	Interpretation string `json:"interpretation"`
}

// band maps values at or above floor to points. Bands are listed in
// ascending order of floor.
type band struct {
	floor  int
	points int
}

var (
	maleAgeBands     = []band{{0, 0}, {40, 2}, {50, 4}, {60, 6}, {70, 8}}
	femaleAgeBands   = []band{{0, 0}, {40, 3}, {50, 5}, {60, 7}, {70, 9}}
	cholesterolBands = []band{{0, 0}, {160, 1}, {200, 2}, {240, 3}}
	hdlBands         = []band{{0, 2}, {40, 1}, {50, 0}, {60, -1}}
	systolicBands    = []band{{0, 0}, {120, 1}, {140, 2}}
)

const (
	smokerPoints   = 2
	diabeticPoints = 2
)

func bandPoints(bands []band, v int) int {
	pts := 0
	for _, b := range bands {
		if v >= b.floor {
			pts = b.points
		}
	}
	return pts
}

func Framingham(in FraminghamInput) (FraminghamResult, error) {
	if !in.Sex.IsValid() {
		return FraminghamResult{}, invalid("sex", "must be male or female")
	}
	if in.AgeYears <= 0 || in.AgeYears > 130 {
		return FraminghamResult{}, invalid("age", "must be between 1 and 130, got %d", in.AgeYears)
	}
	if in.TotalCholesterol <= 0 {
		return FraminghamResult{}, invalid("total_cholesterol", "must be positive")
	}
	if in.HDL <= 0 {
		return FraminghamResult{}, invalid("hdl", "must be positive")
	}
	if in.SystolicBP <= 0 {
		return FraminghamResult{}, invalid("systolic_bp", "must be positive")
	}

	points := 0
	if in.Sex == SexMale {
		points += bandPoints(maleAgeBands, in.AgeYears)
	} else {
		points += bandPoints(femaleAgeBands, in.AgeYears)
	}
	points += bandPoints(cholesterolBands, in.TotalCholesterol)
	points += bandPoints(hdlBands, in.HDL)
	points += bandPoints(systolicBands, in.SystolicBP)
	if in.Smoker {
		points += smokerPoints
	}
	if in.Diabetic {
		points += diabeticPoints
	}

	risk := min(max(points*2, 0), maxRiskPercent)
	return FraminghamResult{
		Points:         points,
		RiskPercent:    risk,
		Interpretation: InterpretCardiacRisk(risk),
	}, nil
}

func InterpretCardiacRisk(riskPercent int) string {
	switch {
	case riskPercent < 10:
		return RiskLow
	case riskPercent < 20:
		return RiskModerate
	default:
		return RiskHigh
	}
}
