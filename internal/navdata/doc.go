// Package navdata extracts NAV histories and registration codes from
// product workbooks. Sheet and column locations are not fixed across
// issuers, so both are found by ordered substring patterns with an
// explicit not-found outcome rather than silent defaults.
package navdata
