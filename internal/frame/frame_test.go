package frame

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	input := "codigo,quantidade,data\nPROD-A,10,2026-01-02\nPROD-B, 5 ,\n"

	f, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"codigo", "quantidade", "data"}, f.Headers)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "PROD-A", f.Cell(0, 0))
	assert.Equal(t, "5", f.Cell(1, 1))
}

func TestReadCSVRaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n1,2,3,4\n"

	f, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, f.Len())
	assert.Equal(t, "", f.Cell(0, 2))
	assert.Equal(t, "3", f.Cell(1, 2))
}

func TestReadCSVEmpty(t *testing.T) {
	f, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, f.Empty())
}

func TestCellOutOfRange(t *testing.T) {
	f := New([]string{"a"}, [][]string{{" x "}})

	assert.Equal(t, "x", f.Cell(0, 0))
	assert.Equal(t, "", f.Cell(0, 1))
	assert.Equal(t, "", f.Cell(1, 0))
	assert.Equal(t, "", f.Cell(-1, 0))
	assert.Equal(t, "", f.Cell(0, -1))

	var nilFrame *Frame
	assert.Equal(t, "", nilFrame.Cell(0, 0))
	assert.True(t, nilFrame.Empty())
	assert.Equal(t, 0, nilFrame.Len())
}

func TestReadXLSX(t *testing.T) {
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetCellValue(sheet, "A1", "codigo"))
	require.NoError(t, wb.SetCellValue(sheet, "B1", "quantidade"))
	require.NoError(t, wb.SetCellValue(sheet, "A2", "PROD-A"))
	require.NoError(t, wb.SetCellValue(sheet, "B2", 10))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	f, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"codigo", "quantidade"}, f.Headers)
	require.Equal(t, 1, f.Len())
	assert.Equal(t, "PROD-A", f.Cell(0, 0))
	assert.Equal(t, "10", f.Cell(0, 1))
}

func TestReadDispatch(t *testing.T) {
	f, err := Read(strings.NewReader("a,b\n1,2\n"), "feed.CSV")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Len())

	_, err = Read(strings.NewReader("whatever"), "feed.pdf")
	assert.Error(t, err)
}
