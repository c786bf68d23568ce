package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"premierstats/internal"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  internal.Value
	}{
		{name: "empty", input: "", want: internal.Absent()},
		{name: "blank", input: "   ", want: internal.Absent()},
		{name: "int", input: "90", want: internal.IntValue(90)},
		{name: "thousands", input: "1,234", want: internal.IntValue(1234)},
		{name: "millions", input: "1,234,567", want: internal.IntValue(1234567)},
		{name: "float", input: "0.45", want: internal.FloatValue(0.45)},
		{name: "float with separator", input: "12,345.5", want: internal.FloatValue(12345.5)},
		{name: "negative", input: "-3", want: internal.IntValue(-3)},
		{name: "zero", input: "0", want: internal.IntValue(0)},
		{name: "padded", input: "  17 ", want: internal.IntValue(17)},
		{name: "text", input: " MF,FW ", want: internal.TextValue("MF,FW")},
		{name: "name", input: "Bukayo Saka", want: internal.TextValue("Bukayo Saka")},
		{name: "nan stays text", input: "NaN", want: internal.TextValue("NaN")},
		{name: "inf stays text", input: "Inf", want: internal.TextValue("Inf")},
		{name: "age stays text", input: "23-123", want: internal.TextValue("23-123")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalizeDistinguishesAbsentBlankAndZero(t *testing.T) {
	assert.True(t, Normalize("").IsAbsent())
	assert.False(t, Normalize("0").IsAbsent())
	assert.NotEqual(t, Normalize(""), internal.TextValue(""))
	assert.NotEqual(t, Normalize(""), internal.IntValue(0))
}

func TestNormalizeRoundTripsNumbers(t *testing.T) {
	values := []internal.Value{
		internal.IntValue(0),
		internal.IntValue(2817),
		internal.IntValue(-14),
		internal.FloatValue(12),
		internal.FloatValue(0.1),
		internal.FloatValue(23.337),
		internal.FloatValue(1e21),
		internal.FloatValue(-0.005),
	}
	for _, v := range values {
		t.Run(v.String(), func(t *testing.T) {
			assert.Equal(t, v, Normalize(v.String()))
		})
	}
}

func TestParseAge(t *testing.T) {
	got := ParseAge("23-123")
	n, ok := got.Number()
	require.True(t, ok)
	assert.Equal(t, 23.337, n)

	assert.Equal(t, internal.FloatValue(30), ParseAge("30-000"))
	assert.Equal(t, internal.IntValue(31), ParseAge("31"))
	assert.True(t, ParseAge("").IsAbsent())
	assert.Equal(t, internal.TextValue("x-y"), ParseAge("x-y"))
}

func TestParseAgeIsNotRoundTripping(t *testing.T) {
	age := ParseAge("23-123")
	assert.NotEqual(t, "23-123", age.String())
}

func TestNationality(t *testing.T) {
	assert.Equal(t, internal.TextValue("ENG"), Nationality("eng ENG"))
	assert.Equal(t, internal.TextValue("CIV"), Nationality("ci CIV"))
	assert.Equal(t, internal.TextValue("BRA"), Nationality("BRA"))
	assert.True(t, Nationality(" ").IsAbsent())
}

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		name  string
		input string
		scale Scale
		want  float64
		ok    bool
	}{
		{name: "millions", input: "€12.3M", scale: ScaleMillions, want: 12.3, ok: true},
		{name: "units", input: "€12.3M", scale: ScaleUnits, want: 12300000, ok: true},
		{name: "thousands suffix", input: "€850K", scale: ScaleMillions, want: 0.85, ok: true},
		{name: "billions", input: "€1.2bn", scale: ScaleMillions, want: 1200, ok: true},
		{name: "plain", input: "€500,000", scale: ScaleThousands, want: 500, ok: true},
		{name: "pounds", input: "£40m", scale: ScaleMillions, want: 40, ok: true},
		{name: "dash", input: "-", scale: ScaleMillions, ok: false},
		{name: "empty", input: "", scale: ScaleMillions, ok: false},
		{name: "text", input: "n/a", scale: ScaleMillions, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseCurrency(tc.input, tc.scale)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.want, got, 1e-9)
			}
		})
	}
}

func TestParseScale(t *testing.T) {
	s, ok := ParseScale(" Millions ")
	assert.True(t, ok)
	assert.Equal(t, ScaleMillions, s)
	_, ok = ParseScale("furlongs")
	assert.False(t, ok)
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "Manchester_City", SanitizeKey("Manchester City"))
	assert.Equal(t, "Nott_ham_Forest", SanitizeKey("Nott'ham Forest"))
	assert.Equal(t, "unit", SanitizeKey("  "))
	assert.Equal(t, "a b", CleanText("a  \n b "))
}
