package scoring

const (
	GlasgowNormal   = "Normal"
	GlasgowMild     = "Mild head trauma"
	GlasgowModerate = "Moderate head trauma"
	GlasgowSevere   = "Severe head trauma"
)

type GlasgowInput struct {
	Eyes   int `json:"eyes"`
	Verbal int `json:"verbal"`
	Motor  int `json:"motor"`
}

// ScoreResult is the outcome of a summed scale.
type ScoreResult struct {
	Total          int    `json:"total"`
	Interpretation string `json:"interpretation"`
}

// Glasgow sums the three responses of the Glasgow Coma Scale (3-15).
func Glasgow(in GlasgowInput) (ScoreResult, error) {
	if err := checkRange("eyes", in.Eyes, 1, 4); err != nil {
		return ScoreResult{}, err
	}
	if err := checkRange("verbal", in.Verbal, 1, 5); err != nil {
		return ScoreResult{}, err
	}
	if err := checkRange("motor", in.Motor, 1, 6); err != nil {
		return ScoreResult{}, err
	}

	total := in.Eyes + in.Verbal + in.Motor
	return ScoreResult{Total: total, Interpretation: InterpretGlasgow(total)}, nil
}

func InterpretGlasgow(total int) string {
	switch {
	case total >= 15:
		return GlasgowNormal
	case total >= 13:
		return GlasgowMild
	case total >= 9:
		return GlasgowModerate
	default:
		return GlasgowSevere
	}
}
