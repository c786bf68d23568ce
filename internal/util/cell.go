package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"premierstats/internal"
)

var (
	numericPattern  = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
	currencyPattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))(bn|b|m|k)?$`)
)

// Normalize converts one scraped cell into a typed value. Grouping commas are
// dropped before numeric parsing; integers win over floats; anything else is
// returned as trimmed text.
func Normalize(text string) internal.Value {
	trimmed := CleanText(text)
	if trimmed == "" {
		return internal.Absent()
	}

	compact := strings.ReplaceAll(trimmed, ",", "")
	if i, err := strconv.ParseInt(compact, 10, 64); err == nil {
		return internal.IntValue(i)
	}
	if numericPattern.MatchString(compact) {
		if f, err := strconv.ParseFloat(compact, 64); err == nil && !math.IsInf(f, 0) {
			return internal.FloatValue(f)
		}
	}
	return internal.TextValue(trimmed)
}

// ParseAge converts a "years-days" age cell to fractional years rounded to
// three decimals: "23-123" -> 23.337. Cells without the separator go through
// Normalize; a malformed pair is kept as text.
func ParseAge(text string) internal.Value {
	trimmed := CleanText(text)
	if trimmed == "" {
		return internal.Absent()
	}
	yearsText, daysText, ok := strings.Cut(trimmed, "-")
	if !ok {
		return Normalize(trimmed)
	}
	years, err := strconv.Atoi(yearsText)
	if err != nil {
		return internal.TextValue(trimmed)
	}
	days, err := strconv.Atoi(daysText)
	if err != nil || days < 0 {
		return internal.TextValue(trimmed)
	}
	age := float64(years) + float64(days)/365
	return internal.FloatValue(math.Round(age*1000) / 1000)
}

// Nationality keeps the trailing country code of an "eng ENG" cell.
func Nationality(text string) internal.Value {
	trimmed := CleanText(text)
	if trimmed == "" {
		return internal.Absent()
	}
	r := []rune(trimmed)
	if len(r) <= 3 {
		return internal.TextValue(trimmed)
	}
	return internal.TextValue(string(r[len(r)-3:]))
}

type Scale string

const (
	ScaleUnits     Scale = "units"
	ScaleThousands Scale = "thousands"
	ScaleMillions  Scale = "millions"
)

func ParseScale(s string) (Scale, bool) {
	switch Scale(strings.ToLower(strings.TrimSpace(s))) {
	case ScaleUnits:
		return ScaleUnits, true
	case ScaleThousands:
		return ScaleThousands, true
	case ScaleMillions:
		return ScaleMillions, true
	default:
		return "", false
	}
}

func (s Scale) factor() float64 {
	switch s {
	case ScaleThousands:
		return 1e3
	case ScaleMillions:
		return 1e6
	default:
		return 1
	}
}

// ParseCurrency reads a money cell such as "€12.3M" and returns the amount in
// the given scale (12.3 for millions, 12300000 for units).
func ParseCurrency(text string, scale Scale) (float64, bool) {
	s := strings.ToLower(CleanText(text))
	s = strings.NewReplacer("€", "", "£", "", "$", "", " ", "", ",", "").Replace(s)
	m := currencyPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	var unit float64
	switch m[2] {
	case "bn", "b":
		unit = 1e9
	case "m":
		unit = 1e6
	case "k":
		unit = 1e3
	default:
		unit = 1
	}
	if unit == scale.factor() {
		return amount, true
	}
	return amount * unit / scale.factor(), true
}
