// Package importer turns CSV and xlsx sheets into validated buildings and
// properties and hands them to the entity stores in one batch.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"building-registry/internal/parse"
	"building-registry/internal/sheet"
)

// ErrValidationFailed is matched by every *ValidationError.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError carries the row-level messages shown to the operator.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func invalid(msgs ...string) error {
	return &ValidationError{Errors: msgs}
}

// Row is one data row keyed by header name. Values are trimmed; a column
// missing from a short row reads as "".
type Row map[string]string

// Get returns the trimmed value of col.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Document is a parsed sheet: its header row and data rows.
type Document struct {
	Headers []string
	Rows    []Row
}

// Require fails when any of cols is missing from the header row.
func (d *Document) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !slices.Contains(d.Headers, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return invalid(fmt.Sprintf("필수 컬럼이 없습니다: %s (실제 컬럼: %s)",
		strings.Join(missing, ", "), strings.Join(d.Headers, ", ")))
}

// ReadCSV parses CSV text. Quoted fields may contain commas and doubled
// quotes; blank lines are skipped. At least one data row is required.
func ReadCSV(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, invalid("CSV 파싱 실패: " + err.Error())
	}
	return newDocument(records, "CSV 파일이 비어있습니다")
}

// ReadXLSX parses the first sheet of an xlsx workbook like ReadCSV.
func ReadXLSX(r io.Reader) (*Document, error) {
	records, err := sheet.ReadRows(r)
	if err != nil {
		return nil, invalid("엑셀 파싱 실패: " + err.Error())
	}
	return newDocument(records, "엑셀 파일이 비어있습니다")
}

// Read picks the parser from the file name extension; anything that is not
// .xlsx is read as CSV.
func Read(filename string, r io.Reader) (*Document, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return ReadXLSX(r)
	}
	return ReadCSV(r)
}

func newDocument(records [][]string, emptyMsg string) (*Document, error) {
	records = slices.DeleteFunc(records, blank)
	if len(records) < 2 {
		return nil, invalid(emptyMsg)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = parse.Header(h)
	}

	doc := &Document{Headers: headers, Rows: make([]Row, 0, len(records)-1)}
	for _, rec := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			} else {
				row[h] = ""
			}
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
