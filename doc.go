// Package keyset implements cursor-based pagination over multi-column,
// mixed-direction orderings.
//
// Overview
//
// The last row of a page is encoded into an opaque, URL-safe token. A
// following request turns that token into a boundary filter selecting
// only rows strictly beyond the encoded position, which avoids the two
// classic weaknesses of OFFSET paging: drift under concurrent writes and
// linear cost for deep pages.
//
// Key concepts
//   - Pager: orchestrates one page request - decoding the token,
//     resolving the ordering, applying the boundary filter, overfetching
//     one row and deriving next/previous tokens.
//   - Orderings: multi-column ordering with explicit directions; a unique
//     key column is always appended so positions are unambiguous.
//   - Source: the ordered-scan capability required from a data source.
//     A GORM adapter ships with the package; Getters map model fields to
//     values for building position payloads.
//   - Expression: the boundary filter, rendered either as the per-field
//     disjunctive expansion or, for uniform orderings, as a single
//     row-value comparison "(f1, ..., fn) > (v1, ..., vn)".
//
// Consistency: boundary filters are evaluated against whatever snapshot
// the underlying query runs on. Rows inserted concurrently before the
// cursor position may or may not appear on later pages; this is inherent
// to keyset pagination, not a defect of the package.
//
// See README for examples and usage details.
package keyset
