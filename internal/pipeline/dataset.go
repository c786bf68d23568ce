package pipeline

import (
	"sort"

	"premierstats/internal"
	"premierstats/internal/schema"
	"premierstats/internal/util"
)

// Column is one typed dataset column. A numeric column holds only Int, Float
// and Absent values; a text column holds only Text and Absent values.
type Column struct {
	Key     string
	Numeric bool
	Values  []internal.Value
}

// Float returns row i of a numeric column.
func (c Column) Float(i int) (float64, bool) {
	if !c.Numeric || i < 0 || i >= len(c.Values) {
		return 0, false
	}
	return c.Values[i].Number()
}

// Dataset is the final player table: one row per identity, columns in
// schema order, rows sorted by name.
type Dataset struct {
	Version string
	columns []Column
	index   map[string]int
	rows    int
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return d.rows
}

func (d *Dataset) Columns() []Column {
	if d == nil {
		return nil
	}
	return d.columns
}

func (d *Dataset) Keys() []string {
	out := make([]string, 0, len(d.Columns()))
	for _, c := range d.Columns() {
		out = append(out, c.Key)
	}
	return out
}

func (d *Dataset) Column(key string) (Column, bool) {
	if d == nil {
		return Column{}, false
	}
	i, ok := d.index[key]
	if !ok {
		return Column{}, false
	}
	return d.columns[i], true
}

// Row returns the values of row i in column order.
func (d *Dataset) Row(i int) []internal.Value {
	if i < 0 || i >= d.Len() {
		return nil
	}
	out := make([]internal.Value, len(d.columns))
	for c := range d.columns {
		out[c] = d.columns[c].Values[i]
	}
	return out
}

// Names returns the identity column.
func (d *Dataset) Names() []string {
	col, ok := d.Column(schema.NameKey)
	if !ok {
		return nil
	}
	out := make([]string, len(col.Values))
	for i, v := range col.Values {
		out[i] = v.String()
	}
	return out
}

// SortAndDedup stable-sorts records by name and keeps the first record of
// every name. It returns the surviving records and how many were dropped.
func SortAndDedup(records []internal.PlayerRecord) ([]internal.PlayerRecord, int) {
	sorted := make([]internal.PlayerRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	out := make([]internal.PlayerRecord, 0, len(sorted))
	for _, r := range sorted {
		if len(out) > 0 && out[len(out)-1].Name == r.Name {
			continue
		}
		out = append(out, r)
	}
	return out, len(records) - len(out)
}

// Assemble lays out deduplicated records as columns, applies the age and
// nationality rules, and types every column as a whole.
func Assemble(s schema.Schema, records []internal.PlayerRecord) *Dataset {
	keys := s.Columns()
	cols := make([]Column, len(keys))
	index := make(map[string]int, len(keys))
	for i, k := range keys {
		cols[i] = Column{Key: k, Values: make([]internal.Value, len(records))}
		index[k] = i
	}

	width := s.AttributeWidth()
	for r, rec := range records {
		cols[0].Values[r] = internal.TextValue(rec.Name)
		cols[1].Values[r] = internal.TextValue(rec.Team)
		for i := 0; i < width; i++ {
			v := internal.Absent()
			if i < len(rec.Values) {
				v = rec.Values[i]
			}
			cols[i+2].Values[r] = v
		}
	}

	if i, ok := index[schema.AgeKey]; ok {
		remap(cols[i].Values, util.ParseAge)
	}
	if i, ok := index[schema.NationalityKey]; ok {
		remap(cols[i].Values, util.Nationality)
	}
	for i := range cols {
		coerce(&cols[i])
	}

	return &Dataset{Version: s.Version, columns: cols, index: index, rows: len(records)}
}

func remap(values []internal.Value, rule func(string) internal.Value) {
	for i, v := range values {
		if v.IsAbsent() {
			continue
		}
		values[i] = rule(v.String())
	}
}

// coerce makes a column numeric only if it has at least one value and every
// present value is a number. Otherwise every present value becomes text.
func coerce(c *Column) {
	present := 0
	numeric := true
	for _, v := range c.Values {
		if v.IsAbsent() {
			continue
		}
		present++
		if !v.IsNumeric() {
			numeric = false
			break
		}
	}
	if present > 0 && numeric {
		c.Numeric = true
		return
	}
	c.Numeric = false
	for i, v := range c.Values {
		if !v.IsAbsent() && v.Kind() != internal.KindText {
			c.Values[i] = internal.TextValue(v.String())
		}
	}
}
