package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Frame is an in-memory table: a header row plus data rows. It is the
// interchange format between feed readers, the catalog loaders and the
// ingestion pipeline. Rows may be ragged; readers pad on access via Cell.
type Frame struct {
	Headers []string
	Rows    [][]string
}

// New builds a frame from a header row and data rows.
func New(headers []string, rows [][]string) *Frame {
	return &Frame{Headers: headers, Rows: rows}
}

// Empty reports whether the frame has no data rows.
func (f *Frame) Empty() bool {
	return f == nil || len(f.Rows) == 0
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Cell returns the trimmed value at (row, col), or "" when out of range.
func (f *Frame) Cell(row, col int) string {
	if f == nil || row < 0 || row >= len(f.Rows) || col < 0 {
		return ""
	}
	r := f.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// ReadCSV reads a CSV stream into a frame. The first record is the header.
func ReadCSV(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &Frame{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		rows = append(rows, record)
	}

	return &Frame{Headers: header, Rows: rows}, nil
}

// ReadXLSX reads the first sheet of an XLSX stream into a frame.
func ReadXLSX(r io.Reader) (*Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Frame{}, nil
	}

	return &Frame{Headers: rows[0], Rows: rows[1:]}, nil
}

// ReadFile reads a local CSV or XLSX file into a frame, dispatching on the
// file extension.
func ReadFile(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return Read(file, path)
}

// Read reads a CSV or XLSX stream, dispatching on the extension of name.
func Read(r io.Reader, name string) (*Frame, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ReadXLSX(r)
	case ".csv", "":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file extension for %s (csv and xlsx only)", name)
	}
}
