package ingest

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV_Basic(t *testing.T) {
	in := "name,age,city\nAlice,30,NYC\nBob,,LA\n"

	tbl, err := ParseCSV(strings.NewReader(in), Options{})
	require.NoError(t, err)

	assert.Equal(t, FormatCSV, tbl.Format)
	assert.Equal(t, []string{"name", "age", "city"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, map[string]any{"name": "Alice", "age": "30", "city": "NYC"}, tbl.Rows[0])
	assert.Nil(t, tbl.Rows[1]["age"])
}

func TestParseCSV_InferNumbers(t *testing.T) {
	in := "a,b,c,d,e\n1,2.5,02134,1e3,abc\n-7,.5,0,NaN,$10\n"

	tbl, err := ParseCSV(strings.NewReader(in), Options{InferNumbers: true})
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	assert.Equal(t, int64(1), tbl.Rows[0]["a"])
	assert.Equal(t, 2.5, tbl.Rows[0]["b"])
	assert.Equal(t, "02134", tbl.Rows[0]["c"])
	assert.Equal(t, 1000.0, tbl.Rows[0]["d"])
	assert.Equal(t, "abc", tbl.Rows[0]["e"])

	assert.Equal(t, int64(-7), tbl.Rows[1]["a"])
	assert.Equal(t, 0.5, tbl.Rows[1]["b"])
	assert.Equal(t, int64(0), tbl.Rows[1]["c"])
	assert.Equal(t, "NaN", tbl.Rows[1]["d"])
	assert.Equal(t, "$10", tbl.Rows[1]["e"])
}

func TestParseCSV_HeaderCleanup(t *testing.T) {
	in := "\n,,\n id ,,id,id\n1,2,3,4\n"

	tbl, err := ParseCSV(strings.NewReader(in), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "column_2", "id_2", "id_3"}, tbl.Columns)
	assert.Equal(t, "4", tbl.Rows[0]["id_3"])
}

func TestParseCSV_RaggedRows(t *testing.T) {
	in := "a,b,c\n1\n1,2,3,4\n"

	tbl, err := ParseCSV(strings.NewReader(in), Options{})
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	assert.Equal(t, map[string]any{"a": "1", "b": nil, "c": nil}, tbl.Rows[0])
	assert.Len(t, tbl.Rows[1], 3)
}

func TestParseCSV_BOMAndInvalidUTF8(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name\ncaf\xff\nna\xc3\xafve\n")...)

	// One byte at a time splits every multi-byte sequence.
	tbl, err := ParseCSV(iotest.OneByteReader(bytes.NewReader(in)), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "caf?", tbl.Rows[0]["name"])
	assert.Equal(t, "naïve", tbl.Rows[1]["name"])
}

func TestParseCSV_LazyQuotes(t *testing.T) {
	in := "note\nsays \"hi\" there\n"

	tbl, err := ParseCSV(strings.NewReader(in), Options{})
	require.NoError(t, err)
	assert.Equal(t, `says "hi" there`, tbl.Rows[0]["note"])
}

func TestParseCSV_Limits(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseCSV(strings.NewReader("\n , \n"), Options{})
	assert.ErrorIs(t, err, ErrEmptyFile)

	tbl, err := ParseCSV(strings.NewReader("a,b\n"), Options{})
	require.NoError(t, err)
	assert.NotNil(t, tbl.Rows)
	assert.Empty(t, tbl.Rows)

	_, err = ParseCSV(strings.NewReader("a\n1\n2\n3\n"), Options{MaxRows: 2})
	assert.ErrorIs(t, err, ErrTooManyRows)
}

func TestParse_Dispatch(t *testing.T) {
	tbl, err := Parse("data.TSV", strings.NewReader("a\tb\n1\t2\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatTSV, tbl.Format)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns)

	_, err = Parse("data.json", strings.NewReader("{}"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func xlsxFixture(t *testing.T, sheet string, cells map[string]any) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, ref, v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX(t *testing.T) {
	r := xlsxFixture(t, "Sheet1", map[string]any{
		"A1": "product", "B1": "price",
		"A2": "Widget", "B2": 9.5, "C2": "x",
		"A3": "Gadget", "B3": 12,
	})

	tbl, err := ParseXLSX(r, Options{InferNumbers: true})
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, tbl.Format)
	assert.Equal(t, []string{"product", "price"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, 9.5, tbl.Rows[0]["price"])
	assert.Equal(t, int64(12), tbl.Rows[1]["price"])
}

func TestParseXLSX_NamedSheet(t *testing.T) {
	r := xlsxFixture(t, "Data", map[string]any{"A1": "v", "A2": "one"})

	tbl, err := Parse("book.xlsx", r, Options{Sheet: "Data"})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"v": "one"}}, tbl.Rows)
}

func TestParseXLSX_Invalid(t *testing.T) {
	_, err := ParseXLSX(strings.NewReader("not a workbook"), Options{})
	assert.Error(t, err)
}
