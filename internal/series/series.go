package series

import (
	"sort"
	"time"
)

// Point is a single NAV observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Series holds the ordered NAV history of one product. Dates are unique;
// setting a value for an existing date overwrites it (last-wins).
type Series struct {
	Name string

	points []Point
	index  map[time.Time]int
	sorted bool
}

// NewSeries creates an empty series for the named product.
func NewSeries(name string) *Series {
	return &Series{
		Name:  name,
		index: make(map[time.Time]int),
	}
}

// Set records a value for the given date, replacing any earlier value
// seen for the same date.
func (s *Series) Set(date time.Time, value float64) {
	d := Day(date)
	if i, ok := s.index[d]; ok {
		s.points[i].Value = value
		return
	}
	s.index[d] = len(s.points)
	s.points = append(s.points, Point{Date: d, Value: value})
	s.sorted = false
}

// Value returns the value recorded for the given date.
func (s *Series) Value(date time.Time) (float64, bool) {
	i, ok := s.index[Day(date)]
	if !ok {
		return 0, false
	}
	return s.points[i].Value, true
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.points)
}

// Points returns the observations sorted by date ascending.
func (s *Series) Points() []Point {
	if !s.sorted {
		sort.Slice(s.points, func(i, j int) bool {
			return s.points[i].Date.Before(s.points[j].Date)
		})
		for i := range s.points {
			s.index[s.points[i].Date] = i
		}
		s.sorted = true
	}
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Day truncates a timestamp to its calendar day in UTC. All series and
// table dates are normalized through this so that workbook timestamps
// with a time-of-day component collapse onto one NAV date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
