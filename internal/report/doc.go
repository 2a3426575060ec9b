// Package report writes the per-batch comparison workbooks: data sheets,
// an optional product-info sheet, and embedded line charts with the
// reference product family in green shades and competitors on a fixed
// color cycle.
package report
