package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeometry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Geometry
	}{
		{"empty", "", Geometry{}},
		{"fixed", "300x5", Geometry{Width: 300, Height: 5}},
		{"dynamic width", "0x5", Geometry{Height: 5, DynamicWidth: true}},
		{"full screen width", "x5", Geometry{Height: 5}},
		{"negative width", "-300x5", Geometry{Width: 300, Height: 5, NegativeWidth: true}},
		{"width only", "300", Geometry{Width: 300}},
		{"offsets only", "+10+20", Geometry{X: 10, Y: 20}},
		{"bottom right", "300x5-30-20", Geometry{Width: 300, Height: 5, X: 30, Y: 20, NegativeX: true, NegativeY: true}},
		{"classic", "300x5-30+20", Geometry{Width: 300, Height: 5, X: 30, Y: 20, NegativeX: true}},
		{"right edge zero offset", "300x5-0+20", Geometry{Width: 300, Height: 5, X: 0, Y: 20, NegativeX: true}},
		{"x offset without y", "30+20", Geometry{Width: 30, X: 20}},
		{"equals prefix", "=300x5", Geometry{Width: 300, Height: 5}},
		{"capital x", "300X5", Geometry{Width: 300, Height: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGeometry(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseGeometry_Errors(t *testing.T) {
	for _, s := range []string{"300x", "300x5+", "300x5-30+", "300x5*2", "wide", "300x5+10junk"} {
		_, err := ParseGeometry(s)
		assert.ErrorIs(t, err, ErrBadGeometry, "input %q", s)
	}
}
