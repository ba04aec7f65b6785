// Package ingest turns uploaded files into rows for a cleaning session.
//
// CSV, TSV and XLSX are supported. The first non-empty row is the header;
// blank header cells become column_{n} and repeated names get a numeric
// suffix. Empty cells load as nil. With InferNumbers set, cells that look
// like plain numbers load as int64 or float64; everything else stays text.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for file extensions Parse does not handle.
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv, .tsv or .xlsx")

	// ErrEmptyFile is returned when the input has no header row.
	ErrEmptyFile = errors.New("file contains no data")

	// ErrTooManyRows is returned when the input exceeds Options.MaxRows.
	ErrTooManyRows = errors.New("file exceeds the maximum number of rows")
)

// Format names, also used as metric labels.
const (
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Options controls parsing.
type Options struct {
	// InferNumbers loads numeric-looking cells as int64 or float64.
	InferNumbers bool

	// MaxRows caps the number of data rows. Zero means no limit.
	MaxRows int

	// Sheet selects an XLSX worksheet by name. Empty means the first sheet.
	Sheet string

	// Comma overrides the CSV delimiter. Zero means ','.
	Comma rune
}

// Table is a parsed file.
type Table struct {
	Format  string
	Columns []string
	Rows    []map[string]any
}

// Parse picks a parser from the file extension.
func Parse(filename string, r io.Reader, opts Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r, opts)
	case ".tsv":
		opts.Comma = '\t'
		t, err := ParseCSV(r, opts)
		if t != nil {
			t.Format = FormatTSV
		}
		return t, err
	case ".xlsx":
		return ParseXLSX(r, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// ParseCSV reads delimited text.
func ParseCSV(r io.Reader, opts Options) (*Table, error) {
	cr := csv.NewReader(wrap(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	b := newBuilder(FormatCSV, opts)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if err := b.add(record); err != nil {
			return nil, err
		}
	}
	return b.table()
}

// ParseXLSX reads one worksheet of an Excel workbook.
func ParseXLSX(r io.Reader, opts Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyFile
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	b := newBuilder(FormatXLSX, opts)
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if err := b.add(cols); err != nil {
			return nil, err
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return b.table()
}

// builder accumulates rows once the header is known.
type builder struct {
	opts   Options
	format string
	header []string
	rows   []map[string]any
}

func newBuilder(format string, opts Options) *builder {
	return &builder{format: format, opts: opts}
}

func (b *builder) add(record []string) error {
	if isEmptyRow(record) {
		return nil
	}
	if b.header == nil {
		b.header = headerNames(record)
		return nil
	}
	if b.opts.MaxRows > 0 && len(b.rows) >= b.opts.MaxRows {
		return fmt.Errorf("%w (%d)", ErrTooManyRows, b.opts.MaxRows)
	}

	row := make(map[string]any, len(b.header))
	for i, name := range b.header {
		var cell string
		if i < len(record) {
			cell = record[i]
		}
		row[name] = b.value(cell)
	}
	b.rows = append(b.rows, row)
	return nil
}

func (b *builder) table() (*Table, error) {
	if b.header == nil {
		return nil, ErrEmptyFile
	}
	if b.rows == nil {
		b.rows = []map[string]any{}
	}
	return &Table{Format: b.format, Columns: b.header, Rows: b.rows}, nil
}

var plainNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func (b *builder) value(cell string) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	if !b.opts.InferNumbers || !plainNumber.MatchString(s) || hasLeadingZero(s) {
		return cell
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return cell
}

// hasLeadingZero reports identifiers such as zip codes ("02134") that
// would lose their zeros as numbers.
func hasLeadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

// headerNames cleans a header row into unique column names.
func headerNames(record []string) []string {
	names := make([]string, len(record))
	used := make(map[string]bool, len(record))
	for i, raw := range record {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		if used[name] {
			for n := 2; ; n++ {
				candidate := name + "_" + strconv.Itoa(n)
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
