// Package ingest parses uploaded delimited files into a forward-only stream
// of raw rows. It validates structure (header present, at least two columns,
// a recognizable dealership schema) but leaves all value interpretation to
// the normalize package.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FormatError is a file-level parse failure. It is fatal for the whole
// upload, unlike per-field degradation which is absorbed downstream.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("format error: %s", e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Row is one parsed record: a mapping from normalized column name to the raw
// string value, pending normalization. Index is the zero-based data row
// position, preserving input order.
type Row struct {
	Index  int
	Fields map[string]string
}

// Rows is a finite, forward-only iterator over the data rows of an upload.
// It is not restartable once consumed.
type Rows struct {
	columns []string // normalized snake_case names
	header  []string // original header cells, for display
	read    func() ([]string, error)

	cur Row
	err error
	n   int
}

// Next advances to the next row. It returns false at the end of input or on
// a read error; check Err afterwards.
func (r *Rows) Next() bool {
	if r.err != nil {
		return false
	}
	for {
		record, err := r.read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			r.err = &FormatError{Reason: "malformed row", Err: err}
			return false
		}

		if isBlank(record) {
			continue
		}

		fields := make(map[string]string, len(r.columns))
		for i, col := range r.columns {
			if i < len(record) {
				fields[col] = record[i]
			} else {
				fields[col] = ""
			}
		}
		r.cur = Row{Index: r.n, Fields: fields}
		r.n++
		return true
	}
}

// Row returns the current row. Valid only after a true Next.
func (r *Rows) Row() Row {
	return r.cur
}

// Err returns the first error encountered while iterating
func (r *Rows) Err() error {
	return r.err
}

// Columns returns the normalized column names in input order
func (r *Rows) Columns() []string {
	return r.columns
}

// Header returns the original header cells in input order
func (r *Rows) Header() []string {
	return r.header
}

// Open parses raw upload bytes into a row stream. The declared filename
// selects the parser: .xlsx goes through excelize, everything else is
// treated as delimited text with a sniffed delimiter.
func Open(data []byte, filename string) (*Rows, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &FormatError{Reason: "file is empty"}
	}

	var rows *Rows
	var err error
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		rows, err = openXLSX(data)
	} else {
		rows, err = openCSV(data)
	}
	if err != nil {
		return nil, err
	}

	if len(rows.columns) < 2 {
		return nil, &FormatError{Reason: "file must have at least two columns"}
	}
	if DetectSchema(rows.columns) == SchemaUnknown {
		return nil, &FormatError{Reason: "no recognizable dealership sales columns found"}
	}

	return rows, nil
}

// openCSV builds a row stream backed by encoding/csv
func openCSV(data []byte) (*Rows, error) {
	delimiter := sniffDelimiter(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &FormatError{Reason: "failed to read header row", Err: err}
	}
	if isBlank(header) {
		return nil, &FormatError{Reason: "header row is empty"}
	}

	return &Rows{
		columns: normalizeColumns(header),
		header:  header,
		read:    reader.Read,
	}, nil
}

// openXLSX flattens the first populated sheet of a workbook into rows
func openXLSX(data []byte) (*Rows, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Reason: "failed to open workbook", Err: err}
	}
	defer f.Close()

	var cells [][]string
	for _, name := range f.GetSheetList() {
		sheetRows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if len(sheetRows) > 1 {
			cells = sheetRows
			break
		}
	}
	if len(cells) == 0 {
		return nil, &FormatError{Reason: "workbook has no populated sheet"}
	}

	header := cells[0]
	body := cells[1:]
	i := 0
	read := func() ([]string, error) {
		if i >= len(body) {
			return nil, io.EOF
		}
		record := body[i]
		i++
		return record, nil
	}

	return &Rows{
		columns: normalizeColumns(header),
		header:  header,
		read:    read,
	}, nil
}

// sniffDelimiter counts common delimiters in a 4KB sample and picks the most
// frequent one, defaulting to a comma.
func sniffDelimiter(data []byte) rune {
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}

	best := ','
	bestCount := 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if count := bytes.Count(sample, []byte(string(d))); count > bestCount {
			best = d
			bestCount = count
		}
	}
	return best
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeColumnName converts a header cell to snake_case for lookup.
// Display casing is kept separately in Header.
func NormalizeColumnName(name string) string {
	s := strings.TrimSpace(name)
	// Break camelCase boundaries before lowercasing
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(s[i-1])
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	s = strings.ToLower(b.String())
	s = nonAlnum.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

func normalizeColumns(header []string) []string {
	columns := make([]string, len(header))
	for i, cell := range header {
		columns[i] = NormalizeColumnName(cell)
	}
	return columns
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
