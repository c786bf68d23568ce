package internal

import (
	"math"
	"strconv"
)

type ValueKind uint8

const (
	KindAbsent ValueKind = iota
	KindInt
	KindFloat
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "absent"
	}
}

// Value is one normalized cell. The zero Value is Absent, which is distinct
// from Text("") and from Int(0).
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	s    string
}

func Absent() Value { return Value{} }
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }
func TextValue(v string) Value { return Value{kind: KindText, s: v} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Number returns the numeric value of an Int or Float cell.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

func (v Value) Text() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// String renders the canonical text form. Floats always carry a decimal point
// so that re-normalizing the output yields a Float again.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return strconv.FormatFloat(v.f, 'g', -1, 64)
		}
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		for i := 0; i < len(s); i++ {
			if s[i] == '.' {
				return s
			}
		}
		return s + ".0"
	case KindText:
		return v.s
	default:
		return ""
	}
}

// Unit is one scrapeable grouping: a team page or one page of a listing.
type Unit struct {
	Label string
	URL   string
}

// PlayerRecord is one unit-local or final player row. Values excludes the
// name and team fields and always has the schema's attribute width.
type PlayerRecord struct {
	Name   string
	Team   string
	Values []Value
}

type TransferValue struct {
	Name  string
	Value float64
}

// UnitFailure records why a unit contributed nothing to a run.
type UnitFailure struct {
	Unit   string
	Reason string
	Err    error
}
