package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn reports whether df has a column called name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	return Contains(df.Names(), name)
}

// maxCount is the largest count a float64 cell holds exactly.
const maxCount = 1 << 53

// ParseCount reads a non-negative count as published in the statistics
// tables: thousands separators are allowed and "", "-" and "NaN" mean zero.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "-", "NaN":
		return 0, nil
	}

	clean := strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(clean)
	if err != nil {
		// Workbook cells holding whole numbers sometimes come back as "120.0".
		f, ferr := strconv.ParseFloat(clean, 64)
		switch {
		case ferr != nil && !errors.Is(ferr, strconv.ErrRange), f != math.Trunc(f):
			return 0, fmt.Errorf("invalid count %q", s)
		case f < 0:
			return 0, fmt.Errorf("negative count %q", s)
		case f > maxCount:
			return 0, fmt.Errorf("count out of range %q", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %q", s)
	}
	return n, nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent returns part/whole*100 rounded to two decimals, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(part / whole * 100)
}

// Sheet is one DataFrame written to its own worksheet.
type Sheet struct {
	Name  string
	Frame dataframe.DataFrame
}

// SaveToExcel writes each sheet in order into a new workbook at filePath.
func SaveToExcel(filePath string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to save")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}

		if err := writeFrame(f, sheet.Name, sheet.Frame); err != nil {
			return err
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("save workbook %s: %w", filePath, err)
	}
	return nil
}

func writeFrame(f *excelize.File, sheetName string, df dataframe.DataFrame) error {
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("write %s header: %w", sheetName, err)
		}
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			val := df.Col(colName).Val(rowIdx)
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("write %s!%s: %w", sheetName, cell, err)
			}
		}
	}
	return nil
}
