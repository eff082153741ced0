package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramingham_HighRiskMale(t *testing.T) {
	got, err := Framingham(FraminghamInput{
		AgeYears:         75,
		Sex:              SexMale,
		TotalCholesterol: 290,
		HDL:              30,
		SystolicBP:       165,
		Smoker:           true,
		Diabetic:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, 19, got.Points)
	assert.Equal(t, 38, got.RiskPercent)
	assert.Equal(t, RiskHigh, got.Interpretation)
}

func TestFramingham_NegativeHDLAdjustmentClampsAtZero(t *testing.T) {
	got, err := Framingham(FraminghamInput{
		AgeYears:         30,
		Sex:              SexFemale,
		TotalCholesterol: 150,
		HDL:              65,
		SystolicBP:       110,
	})
	require.NoError(t, err)
	assert.Equal(t, -1, got.Points)
	assert.Equal(t, 0, got.RiskPercent)
	assert.Equal(t, RiskLow, got.Interpretation)
}

func TestFramingham_RiskCappedAt40(t *testing.T) {
	got, err := Framingham(FraminghamInput{
		AgeYears:         80,
		Sex:              SexFemale,
		TotalCholesterol: 300,
		HDL:              20,
		SystolicBP:       190,
		Smoker:           true,
		Diabetic:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, got.Points)
	assert.Equal(t, 40, got.RiskPercent)
}

func TestFramingham_ModerateRisk(t *testing.T) {
	got, err := Framingham(FraminghamInput{
		AgeYears:         55,
		Sex:              SexMale,
		TotalCholesterol: 210,
		HDL:              45,
		SystolicBP:       130,
	})
	require.NoError(t, err)
	// 4 (age) + 2 (chol) + 1 (HDL) + 1 (BP)
	assert.Equal(t, 8, got.Points)
	assert.Equal(t, 16, got.RiskPercent)
	assert.Equal(t, RiskModerate, got.Interpretation)
}

func TestFramingham_SexSpecificAgeBands(t *testing.T) {
	base := FraminghamInput{AgeYears: 45, TotalCholesterol: 150, HDL: 55, SystolicBP: 110}

	base.Sex = SexMale
	male, err := Framingham(base)
	require.NoError(t, err)

	base.Sex = SexFemale
	female, err := Framingham(base)
	require.NoError(t, err)

	assert.Equal(t, 2, male.Points)
	assert.Equal(t, 3, female.Points)
}

func TestInterpretCardiacRisk(t *testing.T) {
	assert.Equal(t, RiskLow, InterpretCardiacRisk(9))
	assert.Equal(t, RiskModerate, InterpretCardiacRisk(10))
	assert.Equal(t, RiskModerate, InterpretCardiacRisk(19))
	assert.Equal(t, RiskHigh, InterpretCardiacRisk(20))
}

func TestFramingham_Invalid(t *testing.T) {
	valid := FraminghamInput{AgeYears: 50, Sex: SexMale, TotalCholesterol: 200, HDL: 50, SystolicBP: 120}

	cases := map[string]func(in *FraminghamInput){
		"sex":               func(in *FraminghamInput) { in.Sex = "other" },
		"age":               func(in *FraminghamInput) { in.AgeYears = 0 },
		"total_cholesterol": func(in *FraminghamInput) { in.TotalCholesterol = -1 },
		"hdl":               func(in *FraminghamInput) { in.HDL = 0 },
		"systolic_bp":       func(in *FraminghamInput) { in.SystolicBP = 0 },
	}
	for field, mutate := range cases {
		in := valid
		mutate(&in)
		_, err := Framingham(in)

		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr, field)
		assert.Equal(t, field, inputErr.Field)
	}
}
