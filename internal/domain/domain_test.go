package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTools_ReturnsCopy(t *testing.T) {
	first := Tools()
	require.Len(t, first, 10)
	assert.Equal(t, ToolGlycemia, first[0])

	first[0] = ToolBMI
	first = append(first[:1], first[2:]...)

	again := Tools()
	require.Len(t, again, 10)
	assert.Equal(t, ToolGlycemia, again[0])
	assert.Equal(t, ToolCervicalCollar, again[1])
}

func TestTool_IsValidAndStatus(t *testing.T) {
	for _, tool := range Tools() {
		assert.True(t, tool.IsValid(), tool)
	}
	assert.False(t, Tool("horoscope").IsValid())

	assert.Equal(t, ToolNotImplemented, ToolCervicalCollar.Status())
	assert.Equal(t, ToolNotImplemented, ToolInterventionSheet.Status())
	assert.Equal(t, ToolAvailable, ToolGlasgow.Status())
}
