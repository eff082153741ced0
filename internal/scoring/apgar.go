package scoring

const (
	APGARExcellent = "Excellent"
	APGARModerate  = "Moderately depressed"
	APGARSevere    = "Severe distress"
)

// APGARInput holds the five neonatal components, each scored 0, 1 or 2.
type APGARInput struct {
	HeartRate   int `json:"heart_rate"`
	Respiration int `json:"respiration"`
	MuscleTone  int `json:"muscle_tone"`
	Reflex      int `json:"reflex"`
	Color       int `json:"color"`
}

func APGAR(in APGARInput) (ScoreResult, error) {
	components := []struct {
		field string
		value int
	}{
		{"heart_rate", in.HeartRate},
		{"respiration", in.Respiration},
		{"muscle_tone", in.MuscleTone},
		{"reflex", in.Reflex},
		{"color", in.Color},
	}

	total := 0
	for _, c := range components {
		if err := checkRange(c.field, c.value, 0, 2); err != nil {
			return ScoreResult{}, err
		}
		total += c.value
	}

	return ScoreResult{Total: total, Interpretation: InterpretAPGAR(total)}, nil
}

func InterpretAPGAR(total int) string {
	switch {
	case total >= 8:
		return APGARExcellent
	case total >= 4:
		return APGARModerate
	default:
		return APGARSevere
	}
}
