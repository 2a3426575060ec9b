package series

import (
	"sort"
	"strings"
	"time"
)

// Table is a date-indexed wide table: one row per date, one column per
// product. Cell presence is explicit; a missing cell is absent, not zero.
type Table struct {
	Dates   []time.Time // sorted ascending, unique
	Columns []string

	cells map[string]map[time.Time]float64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{cells: make(map[string]map[time.Time]float64)}
}

// Merge outer-joins the given series into one table. The date index is the
// sorted union of all observation dates; columns are sorted by product name
// so output ordering is deterministic regardless of map iteration.
func Merge(byProduct map[string]*Series) *Table {
	t := NewTable()

	names := make([]string, 0, len(byProduct))
	for name := range byProduct {
		names = append(names, name)
	}
	sort.Strings(names)

	dateSet := make(map[time.Time]struct{})
	for _, name := range names {
		s := byProduct[name]
		if s == nil || s.Len() == 0 {
			continue
		}
		t.Columns = append(t.Columns, name)
		col := make(map[time.Time]float64, s.Len())
		for _, p := range s.Points() {
			col[p.Date] = p.Value
			dateSet[p.Date] = struct{}{}
		}
		t.cells[name] = col
	}

	t.Dates = make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		t.Dates = append(t.Dates, d)
	}
	sort.Slice(t.Dates, func(i, j int) bool { return t.Dates[i].Before(t.Dates[j]) })

	return t
}

// Value returns the cell for (column, date).
func (t *Table) Value(column string, date time.Time) (float64, bool) {
	col, ok := t.cells[column]
	if !ok {
		return 0, false
	}
	v, ok := col[date]
	return v, ok
}

// SetValue writes a cell. The date must already be part of the index when
// called on a built table; Merge and Resample maintain that themselves.
func (t *Table) SetValue(column string, date time.Time, value float64) {
	col, ok := t.cells[column]
	if !ok {
		col = make(map[time.Time]float64)
		t.cells[column] = col
	}
	col[date] = value
}

// IsEmpty reports whether the table has no columns or no rows.
func (t *Table) IsEmpty() bool {
	return len(t.Columns) == 0 || len(t.Dates) == 0
}

// Resample reindexes the table onto every calendar day between its minimum
// and maximum date. Interior gaps are filled per column by linear
// interpolation between the nearest known values on each side. Days before
// a column's first observation or after its last stay absent; resampling
// never extrapolates.
func (t *Table) Resample() *Table {
	out := NewTable()
	out.Columns = append([]string(nil), t.Columns...)
	if t.IsEmpty() {
		return out
	}

	first := t.Dates[0]
	last := t.Dates[len(t.Dates)-1]
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		out.Dates = append(out.Dates, d)
	}

	for _, name := range t.Columns {
		known := t.columnPoints(name)
		if len(known) == 0 {
			out.cells[name] = make(map[time.Time]float64)
			continue
		}
		col := make(map[time.Time]float64, len(out.Dates))
		next := 0
		for _, d := range out.Dates {
			for next < len(known) && known[next].Date.Before(d) {
				next++
			}
			switch {
			case next < len(known) && known[next].Date.Equal(d):
				col[d] = known[next].Value
			case next == 0 || next == len(known):
				// before first or after last observation
			default:
				lo, hi := known[next-1], known[next]
				span := hi.Date.Sub(lo.Date).Hours()
				frac := d.Sub(lo.Date).Hours() / span
				col[d] = lo.Value + (hi.Value-lo.Value)*frac
			}
		}
		out.cells[name] = col
	}

	return out
}

// columnPoints returns a column's known cells in date order.
func (t *Table) columnPoints(column string) []Point {
	col := t.cells[column]
	pts := make([]Point, 0, len(col))
	for _, d := range t.Dates {
		if v, ok := col[d]; ok {
			pts = append(pts, Point{Date: d, Value: v})
		}
	}
	return pts
}

// IsReference reports whether a column belongs to the reference product
// family identified by marker.
func IsReference(column, marker string) bool {
	return marker != "" && strings.Contains(column, marker)
}

// ReferenceColumns returns the table's reference-family columns in order.
func (t *Table) ReferenceColumns(marker string) []string {
	var cols []string
	for _, name := range t.Columns {
		if IsReference(name, marker) {
			cols = append(cols, name)
		}
	}
	return cols
}

// BaselineDate returns the earliest date at which any reference column has
// a value. ok is false when no reference column has data.
func (t *Table) BaselineDate(marker string) (time.Time, bool) {
	refs := t.ReferenceColumns(marker)
	if len(refs) == 0 {
		return time.Time{}, false
	}
	for _, d := range t.Dates {
		for _, name := range refs {
			if _, ok := t.Value(name, d); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// TrimBefore returns a copy of the table keeping only rows on or after the
// given date.
func (t *Table) TrimBefore(date time.Time) *Table {
	out := NewTable()
	out.Columns = append([]string(nil), t.Columns...)
	for _, d := range t.Dates {
		if d.Before(date) {
			continue
		}
		out.Dates = append(out.Dates, d)
	}
	for _, name := range t.Columns {
		col := make(map[time.Time]float64)
		for _, d := range out.Dates {
			if v, ok := t.Value(name, d); ok {
				col[d] = v
			}
		}
		out.cells[name] = col
	}
	return out
}
