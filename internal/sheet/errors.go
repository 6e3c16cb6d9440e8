package sheet

import "errors"

var (
	// ErrNoLinkColumn is returned when the header row has no recognizable
	// link column.
	ErrNoLinkColumn = errors.New("sheet: no link column found in header row")

	// ErrEmptySheet is returned when the spreadsheet has no rows at all.
	ErrEmptySheet = errors.New("sheet: spreadsheet is empty")

	// ErrUnsupportedFormat is returned for file extensions other than
	// .xlsx and .csv.
	ErrUnsupportedFormat = errors.New("sheet: unsupported spreadsheet format")
)
