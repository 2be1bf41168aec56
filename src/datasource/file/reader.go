// reader.go
package file

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anrid/xls"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyTable is returned for inputs without a header row.
var ErrEmptyTable = errors.New("table has no header row")

// ErrDuplicateColumn is returned when two header cells name the same column
// once trimmed and normalised.
var ErrDuplicateColumn = errors.New("duplicate column name")

// ReadOptions controls how a table file is read.
type ReadOptions struct {
	Encodings []string // fallback order for delimited text
	Delimiter rune     // ',' when zero
	Sheet     string   // workbook sheet; the first sheet when empty
}

// Table is a file loaded into a DataFrame. Every column is a string series
// and header names are already trimmed and NFC-normalised.
type Table struct {
	Path     string
	Encoding string // label that decoded the file, empty for workbooks
	Frame    dataframe.DataFrame
}

// ReadTable loads path by extension: .xlsx and .xls are read as workbooks,
// anything else as delimited text.
func ReadTable(path string, opts ReadOptions) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var (
		records  [][]string
		encoding string
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = xlsxRecords(data, opts.Sheet)
	case ".xls":
		records, err = xlsRecords(data, opts.Sheet)
	default:
		records, encoding, err = delimitedRecords(data, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	df, err := recordsToDataFrame(records)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &Table{Path: path, Encoding: encoding, Frame: df}, nil
}

func delimitedRecords(data []byte, opts ReadOptions) ([][]string, string, error) {
	decoded, encoding, err := Decode(data, opts.Encodings)
	if err != nil {
		return nil, "", err
	}

	r := csv.NewReader(bytes.NewReader(decoded))
	r.Comma = opts.Delimiter
	if r.Comma == 0 {
		r.Comma = ','
	}
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("parse delimited text: %w", err)
		}
		records = append(records, rec)
	}
	return records, encoding, nil
}

func xlsxRecords(data []byte, sheetName string) ([][]string, error) {
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}

	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return nil, fmt.Errorf("xlsx sheet %q not found", sheetName)
		}
		sheet = s
	}

	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			records = append(records, nil)
			continue
		}
		rec := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			rec[i] = cell.Value
		}
		records = append(records, rec)
	}
	return records, nil
}

func xlsRecords(data []byte, sheetName string) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	var sheet *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s == nil {
			continue
		}
		if sheetName == "" || s.Name == sheetName {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("xls sheet %q not found", sheetName)
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		var rec []string
		for j := 0; j <= row.LastCol(); j++ {
			rec = append(rec, row.Col(j))
		}
		records = append(records, rec)
	}
	return records, nil
}

// recordsToDataFrame builds string columns from records. The first non-empty
// row is the header; blank rows are skipped and short rows are padded.
func recordsToDataFrame(records [][]string) (dataframe.DataFrame, error) {
	records = dropBlankRows(records)
	if len(records) == 0 {
		return dataframe.DataFrame{}, ErrEmptyTable
	}

	headers := make([]string, len(records[0]))
	seen := make(map[string]int, len(headers))
	for i, name := range records[0] {
		headers[i] = NormalizeColumnName(name)
		if headers[i] == "" {
			continue
		}
		if j, ok := seen[headers[i]]; ok {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %q in columns %d and %d", ErrDuplicateColumn, headers[i], j+1, i+1)
		}
		seen[headers[i]] = i
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(records)-1)
	}
	for _, row := range records[1:] {
		for i := range headers {
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}

	df := dataframe.New(seriesList...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build dataframe: %w", df.Err)
	}
	return df, nil
}

func dropBlankRows(records [][]string) [][]string {
	out := records[:0:0]
	for _, rec := range records {
		blank := true
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}

// NormalizeColumnName trims surrounding whitespace (including a stray BOM)
// and composes Hangul to NFC, so "2022 65세 이상" typed on different systems
// compares equal.
func NormalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return norm.NFC.String(strings.TrimSpace(name))
}
