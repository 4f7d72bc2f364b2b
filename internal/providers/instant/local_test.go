package instant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal() *Local {
	return &Local{now: func() time.Time { return time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC) }}
}

func TestLocal_TryAnswer(t *testing.T) {
	l := newTestLocal()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"date", "what is today's date?", "Today is Sunday, March 1, 2026."},
		{"time", "what time is it", "The current time is 02:05 PM."},
		{"year", "what year is it", "The current year is 2026."},
		{"square root", "square root of 144", "√144 = 12"},
		{"power", "2 to the power of 10", "2 ^ 10 = 1024"},
		{"percent", "what is 15% of 200", "15% of 200 = 30"},
		{"addition", "5 + 3", "5 + 3 = 8"},
		{"precedence", "what is 2 + 3 * 4?", "2 + 3 * 4 = 14"},
		{"caret is power", "2^3^2", "2**3**2 = 512"},
		{"true division", "7 / 2", "7 / 2 = 3.5"},
		{"modulo", "10 % 4", "10 % 4 = 2"},
		{"fahrenheit", "100 f to c", "100°F  =  37.777778°C"},
		{"negative celsius", "-40 c to f", "-40°C  =  -40°F"},
		{"kelvin", "0 c to kelvin", "0°C  =  273.15 K"},
		{"length", "10 km to miles", "10 km  =  6.21371 miles"},
		{"weight", "5 kg in lbs", "5 kg  =  11.0231 lbs"},
		{"speed", "60 mph to km/h", "60 mph  =  96.5604 km/h"},
		{"age of someone", "how old is someone born in 1990", "Someone born in 1990 is 36 years old in 2026."},
		{"own age", "I was born in 2000", "If you were born in 2000, you are 26 years old."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.TryAnswer(context.Background(), tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocal_NoAnswer(t *testing.T) {
	l := newTestLocal()

	for _, q := range []string{
		"tell me about go",
		"5 / 0",
		"1.2.3 + 4",
		"how do I bake bread",
	} {
		_, ok := l.TryAnswer(context.Background(), q)
		assert.False(t, ok, q)
	}
}

func TestLocal_Identity(t *testing.T) {
	l := NewLocal()
	assert.Equal(t, "local", l.Name())
	assert.EqualValues(t, "local", l.Source())
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr    string
		want    float64
		wantErr error
	}{
		{expr: "10 - 2 - 3", want: 5},
		{expr: "8 / 2 / 2", want: 2},
		{expr: "2 ** 3 ** 2", want: 512},
		{expr: "2 * 3 ** 2", want: 18},
		{expr: "0.5 + 0.25", want: 0.75},
		{expr: "5 % 0", wantErr: errDivideByZero},
		{expr: "5 / 0", wantErr: errDivideByZero},
		{expr: "5 +", wantErr: errSyntax},
		{expr: "5 5", wantErr: errSyntax},
		{expr: "2 ^ 3", wantErr: errSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := evaluate(tt.expr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFloorMod(t *testing.T) {
	assert.Equal(t, 2.0, floorMod(-1, 3))
	assert.Equal(t, -1.0, floorMod(2, -3))
	assert.Equal(t, 1.0, floorMod(7, 3))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "8", formatNumber(8))
	assert.Equal(t, "-3", formatNumber(-3))
	assert.Equal(t, "3.5", formatNumber(3.5))
	assert.Equal(t, "0.33333333", formatNumber(1.0/3))
	assert.Equal(t, "1e+15", formatNumber(1e15))
}
