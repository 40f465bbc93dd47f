package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Channels(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RGB
	}{
		{"white", "#ffffff", RGB{1, 1, 1}},
		{"black", "#000000", RGB{0, 0, 0}},
		{"mixed", "#802040", RGB{float64(0x80) / 255, float64(0x20) / 255, float64(0x40) / 255}},
		{"uppercase", "#A0B0C0", RGB{float64(0xa0) / 255, float64(0xb0) / 255, float64(0xc0) / 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_MarkerIgnored(t *testing.T) {
	// The first character is skipped, not validated.
	a, err := Parse("#102030")
	require.NoError(t, err)
	b, err := Parse("x102030")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse_SingleTrailingCharTolerated(t *testing.T) {
	got, err := Parse("#ffffffx")
	assert.NoError(t, err)
	assert.Equal(t, RGB{1, 1, 1}, got)
}

func TestParse_TrailingGarbage(t *testing.T) {
	got, err := Parse("#ffffffxy")
	assert.ErrorIs(t, err, ErrInvalidColor)
	// Best-effort value is still the parsed prefix.
	assert.Equal(t, RGB{1, 1, 1}, got)
}

func TestParse_GreedyHexPrefix(t *testing.T) {
	// Eight hex digits all fold into the parsed value; channels come
	// from the low 24 bits. Legacy behavior, kept on purpose.
	got, err := Parse("#11223344")
	require.NoError(t, err)
	assert.Equal(t, FromHex(0x11223344), got)
	assert.Equal(t, float64(0x22)/255, got.R)
}

func TestParse_TooShort(t *testing.T) {
	for _, s := range []string{"", "#"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrInvalidColor, "input %q", s)
	}
}

func TestParse_NoHexDigits(t *testing.T) {
	// One unparsable character: strtol yields zero and the single
	// trailing byte is within tolerance.
	got, err := Parse("#q")
	assert.NoError(t, err)
	assert.Equal(t, RGB{0, 0, 0}, got)
}

func TestContrast_DarkensLight(t *testing.T) {
	fg := RGB{1, 1, 1}.Contrast()
	assert.InDelta(t, 0.9, fg.R, 1e-9)
	assert.InDelta(t, 0.9, fg.G, 1e-9)
	assert.InDelta(t, 0.9, fg.B, 1e-9)
}

func TestContrast_BrightensDark(t *testing.T) {
	fg := RGB{0, 0, 0}.Contrast()
	assert.InDelta(t, 0.1, fg.R, 1e-9)
	assert.InDelta(t, 0.1, fg.G, 1e-9)
	assert.InDelta(t, 0.1, fg.B, 1e-9)
}

func TestContrast_MeanBoundaryBrightens(t *testing.T) {
	// Mean exactly 0.5 counts as dark.
	fg := RGB{0.5, 0.5, 0.5}.Contrast()
	assert.InDelta(t, 0.6, fg.R, 1e-9)
}

func TestContrast_Clamps(t *testing.T) {
	// Dark mean but one channel near the ceiling: the shift up clamps.
	fg := RGB{0.95, 0.1, 0.1}.Contrast()
	assert.InDelta(t, 1.0, fg.R, 1e-9)
	assert.InDelta(t, 0.2, fg.G, 1e-9)

	fg = RGB{0.05, 0.9, 0.9}.Contrast()
	assert.InDelta(t, 0.0, fg.R, 1e-9)
	assert.InDelta(t, 0.8, fg.G, 1e-9)
}

func TestString_RoundTrip(t *testing.T) {
	c, err := Parse("#cc2040")
	require.NoError(t, err)
	assert.Equal(t, "#cc2040", c.String())
}
