package series

import "time"

// NormalizedSuffix is appended to a product column name to label its
// ratio-to-baseline companion column in reports.
const NormalizedSuffix = "（统一基准）"

// Normalize derives a ratio-to-baseline column for every non-reference
// product that has a non-zero value at the baseline date. Each derived
// column is inserted immediately after its source column and holds
// value ÷ value-at-baseline for every date the source has a value.
// Products with no value (or a zero value) at the baseline date get no
// derived column. Reference columns pass through unchanged.
func (t *Table) Normalize(marker string, baseline time.Time) *Table {
	out := NewTable()
	out.Dates = append([]time.Time(nil), t.Dates...)

	for _, name := range t.Columns {
		out.Columns = append(out.Columns, name)
		src := make(map[time.Time]float64)
		for _, d := range t.Dates {
			if v, ok := t.Value(name, d); ok {
				src[d] = v
			}
		}
		out.cells[name] = src

		if IsReference(name, marker) {
			continue
		}
		base, ok := t.Value(name, baseline)
		if !ok || base == 0 {
			continue
		}

		derived := name + NormalizedSuffix
		out.Columns = append(out.Columns, derived)
		col := make(map[time.Time]float64, len(src))
		for d, v := range src {
			col[d] = v / base
		}
		out.cells[derived] = col
	}

	return out
}
