// Package series implements the NAV comparison core: per-product date
// series, outer-join merging onto a shared date index, calendar-day
// resampling with linear interpolation, and ratio-to-baseline
// normalization against the reference product family.
package series
