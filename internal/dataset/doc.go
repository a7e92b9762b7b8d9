// Package dataset holds the uploaded sensor table and the operations the
// dashboard applies to it: loading, describing, cleaning and dtype coercion.
//
// A Dataset wraps a gota DataFrame together with the row labels of the
// original upload, so that dropping rows keeps the labels of the rows that
// survive. Every operation returns a new Dataset; the uploaded table is
// never modified, which lets each request re-derive its view from the raw
// upload and the controls the user selected.
//
// Missing cells are the empty string and the usual NA spellings (NA, NaN,
// N/A, null, None, ...). They are missing in every column type.
package dataset
