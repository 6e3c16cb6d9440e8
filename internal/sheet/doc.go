// Package sheet reads the store link spreadsheet that drives a batch run.
//
// The spreadsheet lists one listing URL per row together with the number
// of pages to walk. Both Excel workbooks (.xlsx) and plain CSV files are
// understood; the format is chosen by file extension. Header names are
// matched case-insensitively and a missing or unreadable page count falls
// back to a single page, so a hand-edited sheet with gaps still drives a
// sensible run.
package sheet
