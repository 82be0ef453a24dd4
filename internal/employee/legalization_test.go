// internal/employee/legalization_test.go
package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteFor(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   StatusColors
	}{
		{
			name:   "known status",
			status: "residence-card-pl",
			want:   StatusColors{LegalizationResidenceCardPL, "#4caf50", "#e8f5e9"},
		},
		{
			name:   "unknown status falls back",
			status: "green-card",
			want:   FallbackColors,
		},
		{
			name:   "empty status falls back",
			status: "",
			want:   FallbackColors,
		},
		{
			name:   "case sensitive",
			status: "VISA",
			want:   FallbackColors,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaletteFor(tt.status))
		})
	}
}

func TestKnownLegalizations(t *testing.T) {
	statuses := KnownLegalizations()
	require.Len(t, statuses, 9)

	// Stable UI order, starting from the default.
	assert.Equal(t, LegalizationNone, statuses[0].Status)
	assert.Equal(t, LegalizationDocsForwarded, statuses[len(statuses)-1].Status)

	for _, s := range statuses {
		assert.NotEmpty(t, s.Color)
		assert.NotEmpty(t, s.Highlight)
	}
}

func TestIsKnownLegalization(t *testing.T) {
	assert.True(t, IsKnownLegalization("visa"))
	assert.True(t, IsKnownLegalization("fingerprints-submitted"))
	assert.False(t, IsKnownLegalization("green-card"))
	assert.False(t, IsKnownLegalization(""))
}
