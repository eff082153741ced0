package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maxNIHSSInput() NIHSSInput {
	return NIHSSInput{
		Consciousness: 3, Orientation: 2, Commands: 2, Gaze: 2,
		VisualField: 3, FacialPalsy: 3, UpperLimb: 4, LowerLimb: 4,
		Ataxia: 2, Sensory: 2, Language: 3, Dysarthria: 2, Extinction: 2,
	}
}

func TestNIHSS_AllZero(t *testing.T) {
	got, err := NIHSS(NIHSSInput{})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Total)
	assert.Equal(t, NIHSSNone, got.Interpretation)
	assert.Empty(t, got.Untestable)
}

func TestNIHSS_AllMaximumEqualsDeclaredMax(t *testing.T) {
	got, err := NIHSS(maxNIHSSInput())
	require.NoError(t, err)
	assert.Equal(t, NIHSSMax, got.Total)
	assert.Equal(t, NIHSSMax, got.Max)
	assert.Equal(t, NIHSSVerySevere, got.Interpretation)

	sum := 0
	for _, item := range NIHItems() {
		m, _, ok := ItemMax(item)
		require.True(t, ok)
		sum += m
	}
	assert.Equal(t, NIHSSMax, sum)
	assert.Len(t, NIHItems(), 13)
}

func TestInterpretNIHSS_Thresholds(t *testing.T) {
	cases := map[int]string{
		0:  NIHSSNone,
		1:  NIHSSMinor,
		4:  NIHSSMinor,
		5:  NIHSSModerate,
		15: NIHSSModerate,
		16: NIHSSSevere,
		20: NIHSSSevere,
		21: NIHSSVerySevere,
		34: NIHSSVerySevere,
	}
	for total, want := range cases {
		assert.Equal(t, want, InterpretNIHSS(total), "total=%d", total)
	}
}

func TestNIHSS_UntestableExcludedFromTotal(t *testing.T) {
	in := maxNIHSSInput()
	in.UpperLimb = Untestable
	in.Dysarthria = Untestable

	got, err := NIHSS(in)
	require.NoError(t, err)
	assert.Equal(t, NIHSSMax-4-2, got.Total)
	assert.Equal(t, []NIHItem{ItemUpperLimb, ItemDysarthria}, got.Untestable)
}

func TestNIHSS_UntestableOnlyWhereAllowed(t *testing.T) {
	in := NIHSSInput{Language: Untestable}
	_, err := NIHSS(in)
	require.Error(t, err)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, string(ItemLanguage), inputErr.Field)
}

func TestNIHSS_RejectsOutOfDomain(t *testing.T) {
	in := NIHSSInput{Consciousness: 4}
	_, err := NIHSS(in)
	assert.ErrorIs(t, err, ErrInvalidInput)

	in = NIHSSInput{LowerLimb: 5}
	_, err = NIHSS(in)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func fullItems() map[string]string {
	raw := make(map[string]string)
	for _, item := range NIHItems() {
		raw[string(item)] = "1"
	}
	return raw
}

func TestParseNIHSSItems(t *testing.T) {
	raw := fullItems()
	raw[string(ItemUpperLimb)] = "x"
	raw[string(ItemLowerLimb)] = " UN "

	in, err := ParseNIHSSItems(raw)
	require.NoError(t, err)
	assert.Equal(t, Untestable, in.UpperLimb)
	assert.Equal(t, Untestable, in.LowerLimb)
	assert.Equal(t, 1, in.Extinction)

	got, err := NIHSS(in)
	require.NoError(t, err)
	assert.Equal(t, 11, got.Total)
	assert.Equal(t, NIHSSModerate, got.Interpretation)
}

func TestParseNIHSSItems_MissingItem(t *testing.T) {
	raw := fullItems()
	delete(raw, string(ItemAtaxia))

	_, err := ParseNIHSSItems(raw)
	require.Error(t, err)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, string(ItemAtaxia), inputErr.Field)
	assert.Contains(t, inputErr.Reason, "missing")
}

func TestParseNIHSSItems_BadValues(t *testing.T) {
	raw := fullItems()
	raw[string(ItemGaze)] = "two"
	_, err := ParseNIHSSItems(raw)
	assert.ErrorIs(t, err, ErrInvalidInput)

	raw = fullItems()
	raw[string(ItemGaze)] = "-1"
	_, err = ParseNIHSSItems(raw)
	assert.ErrorIs(t, err, ErrInvalidInput)

	raw = fullItems()
	raw["pupils"] = "0"
	_, err = ParseNIHSSItems(raw)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
