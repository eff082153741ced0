package patient

import "github.com/dmehra2102/prod-golang-projects/nexus/internal/scoring"

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// Sex maps the recorded gender to the sex used by the renal and cardiac
// formulas. Only male and female map.
func (g Gender) Sex() (scoring.Sex, bool) {
	switch g {
	case GenderMale:
		return scoring.SexMale, true
	case GenderFemale:
		return scoring.SexFemale, true
	}
	return "", false
}

// Profile carries what is already known about the patient. Calculations
// use it only to fill observations the caller left out; it is never
// shared between calls.
type Profile struct {
	AgeYears      *float64 `json:"age,omitempty"`
	Gender        Gender   `json:"gender,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	HeightCm      *float64 `json:"height_cm,omitempty"`
	CreatinineMgL *float64 `json:"creatinine_mg_l,omitempty"`
}

func (p *Profile) Validate() error {
	if p == nil {
		return nil
	}
	if p.Gender != "" && !p.Gender.IsValid() {
		return ErrInvalidGender
	}
	for _, v := range []*float64{p.AgeYears, p.WeightKg, p.HeightCm, p.CreatinineMgL} {
		if v != nil && *v <= 0 {
			return ErrInvalidMeasurement
		}
	}
	return nil
}

// Float returns v when set, otherwise the profile value picked by field.
func (p *Profile) Float(v *float64, field func(*Profile) *float64) *float64 {
	if v != nil || p == nil {
		return v
	}
	return field(p)
}

// SexOr returns s when set, otherwise the profile's gender mapped to a sex.
func (p *Profile) SexOr(s scoring.Sex) scoring.Sex {
	if s != "" || p == nil {
		return s
	}
	if sex, ok := p.Gender.Sex(); ok {
		return sex
	}
	return s
}

func Age(p *Profile) *float64        { return p.AgeYears }
func Weight(p *Profile) *float64     { return p.WeightKg }
func Height(p *Profile) *float64     { return p.HeightCm }
func Creatinine(p *Profile) *float64 { return p.CreatinineMgL }
