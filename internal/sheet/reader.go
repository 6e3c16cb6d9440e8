package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reiviji/storescan/internal/config"
	"github.com/reiviji/storescan/internal/model"
	"github.com/xuri/excelize/v2"
)

// Header names accepted for each column, compared case-insensitively
// after trimming. Sheets produced by different hands name these columns
// differently, so a few aliases are tolerated.
var (
	linkHeaders = []string{"link", "store link", "url"}
	pageHeaders = []string{"pages", "page number", "page count"}
)

// ReadLinks loads store link records from the spreadsheet at path.
// The format is chosen by extension: .xlsx is read with excelize, .csv
// with the standard CSV reader. Rows with an empty link cell are skipped;
// a missing or non-numeric page count defaults to one page.
func ReadLinks(path string) ([]model.LinkRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readExcel(path)
	case ".csv":
		return readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func readExcel(path string) ([]model.LinkRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return parseRows(rows)
}

func readCSV(path string) ([]model.LinkRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	return parseRows(rows)
}

// parseRows turns raw spreadsheet rows into link records. The first row
// is the header; it locates the link and page columns.
func parseRows(rows [][]string) ([]model.LinkRecord, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	linkCol, pageCol := findColumns(rows[0])
	if linkCol < 0 {
		return nil, ErrNoLinkColumn
	}

	records := make([]model.LinkRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		link := cell(row, linkCol)
		if link == "" {
			continue
		}

		pages := config.DefaultPageCount
		if pageCol >= 0 {
			if n, err := strconv.Atoi(cell(row, pageCol)); err == nil && n > 0 {
				pages = n
			}
		}

		records = append(records, model.LinkRecord{
			SourceURL: link,
			PageCount: pages,
		})
	}
	return records, nil
}

func findColumns(header []string) (linkCol, pageCol int) {
	linkCol, pageCol = -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if linkCol < 0 && contains(linkHeaders, name) {
			linkCol = i
		}
		if pageCol < 0 && contains(pageHeaders, name) {
			pageCol = i
		}
	}
	return linkCol, pageCol
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
