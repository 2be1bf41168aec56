package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/unicode/norm"
)

const regionsCSV = " 지역 ,2022 전체, 2022 65세 이상 \n서울,\"1,000\",120\n\n부산,500,80\n"

func TestReadTableTrimsHeaders(t *testing.T) {
	path := writeTemp(t, "regions.csv", []byte(regionsCSV))

	table, err := ReadTable(path, ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "utf-8", table.Encoding)
	assert.Equal(t, []string{"지역", "2022 전체", "2022 65세 이상"}, table.Frame.Names())
	assert.Equal(t, 2, table.Frame.Nrow())
	assert.Equal(t, []string{"서울", "부산"}, table.Frame.Col("지역").Records())
	assert.Equal(t, []string{"1,000", "500"}, table.Frame.Col("2022 전체").Records())
}

func TestReadTableStripsBOM(t *testing.T) {
	path := writeTemp(t, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, regionsCSV...))

	table, err := ReadTable(path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "지역", table.Frame.Names()[0])
}

func TestReadTableFallsBackToEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte(regionsCSV))
	require.NoError(t, err)
	path := writeTemp(t, "legacy.csv", encoded)

	table, err := ReadTable(path, ReadOptions{Encodings: []string{"utf-8", "euc-kr", "windows-949"}})
	require.NoError(t, err)

	assert.Equal(t, "euc-kr", table.Encoding)
	assert.Equal(t, []string{"서울", "부산"}, table.Frame.Col("지역").Records())
}

func TestReadTableUndecodable(t *testing.T) {
	path := writeTemp(t, "garbage.csv", []byte{0x80, 0x80, 0xff, '\n'})

	_, err := ReadTable(path, ReadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "nope.csv"), ReadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadTableEmpty(t *testing.T) {
	path := writeTemp(t, "empty.csv", []byte("\n\n"))

	_, err := ReadTable(path, ReadOptions{})
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestReadTableDelimiter(t *testing.T) {
	path := writeTemp(t, "regions.tsv", []byte("지역\t2022 전체\n서울\t10\n"))

	table, err := ReadTable(path, ReadOptions{Delimiter: '\t'})
	require.NoError(t, err)
	assert.Equal(t, []string{"10"}, table.Frame.Col("2022 전체").Records())
}

func TestReadTableXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{" 지역", "2023 전체 ", "2023 65세이상"},
		{"대구", 300, 45},
		{"인천", 200, 30},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "regions.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := ReadTable(path, ReadOptions{})
	require.NoError(t, err)

	assert.Empty(t, table.Encoding)
	assert.Equal(t, []string{"지역", "2023 전체", "2023 65세이상"}, table.Frame.Names())
	assert.Equal(t, []string{"300", "200"}, table.Frame.Col("2023 전체").Records())

	_, err = ReadTable(path, ReadOptions{Sheet: "없는시트"})
	assert.Error(t, err)
}

// testdata/regions.xls is a BIFF8 workbook with one sheet, 지역별: padded
// shared-string headers, numeric cells, an absent row 3 and a short 부산 row.
func TestReadTableXLS(t *testing.T) {
	path := filepath.Join("testdata", "regions.xls")

	table, err := ReadTable(path, ReadOptions{})
	require.NoError(t, err)

	assert.Empty(t, table.Encoding)
	assert.Equal(t, []string{"지역", "2023 전체", "2023 65세이상"}, table.Frame.Names())
	assert.Equal(t, 2, table.Frame.Nrow(), "the absent row is dropped")
	assert.Equal(t, []string{"서울", "부산"}, table.Frame.Col("지역").Records())
	assert.Equal(t, []string{"1100", "520"}, table.Frame.Col("2023 전체").Records())
	assert.Equal(t, []string{"150", ""}, table.Frame.Col("2023 65세이상").Records())

	named, err := ReadTable(path, ReadOptions{Sheet: "지역별"})
	require.NoError(t, err)
	assert.Equal(t, table.Frame.Records(), named.Frame.Records())

	_, err = ReadTable(path, ReadOptions{Sheet: "없는시트"})
	assert.ErrorContains(t, err, `xls sheet "없는시트" not found`)
}

func TestReadTableDuplicateHeaders(t *testing.T) {
	path := writeTemp(t, "dup.csv", []byte("지역, 지역 ,2023 전체,,\n서울,서울,10,,\n"))

	_, err := ReadTable(path, ReadOptions{})
	require.ErrorIs(t, err, ErrDuplicateColumn)
	assert.ErrorContains(t, err, `"지역"`)

	// Repeated blank headers from trailing delimiters are not duplicates.
	path = writeTemp(t, "trailing.csv", []byte("지역,2023 전체,,\n서울,10,,\n"))
	table, err := ReadTable(path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"10"}, table.Frame.Col("2023 전체").Records())
}

func TestNormalizeColumnName(t *testing.T) {
	decomposed := norm.NFD.String("2022 65세 이상")
	require.NotEqual(t, "2022 65세 이상", decomposed)

	assert.Equal(t, "2022 65세 이상", NormalizeColumnName("  "+decomposed+"\t"))
	assert.Equal(t, "지역", NormalizeColumnName("\ufeff지역"))
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
