// Package workbook reads uploaded spreadsheets into grids and writes
// standardized output workbooks. It is the only package that knows about
// file formats; everything downstream sees a grid of untyped cells.
package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/bank-statement-standardizer/internal/domain/statement/grid"
)

// ErrUnsupportedFormat is returned for file extensions the loader cannot
// read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// excelExtensions are the workbook container formats excelize can open.
var excelExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// SupportedExtension reports whether the loader can read files with the
// given extension.
func SupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return excelExtensions[ext] || ext == ".csv"
}

// Load reads the file at path into a grid.
func Load(path string) (grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return LoadReader(f, filepath.Ext(path))
}

// LoadReader reads spreadsheet content with the given file extension into a
// grid. Cell types are preserved where the container carries them: numbers
// (including date serials) become numeric cells, everything else text, empty
// cells absent.
func LoadReader(r io.Reader, ext string) (grid.Grid, error) {
	ext = strings.ToLower(ext)
	switch {
	case excelExtensions[ext]:
		return loadExcel(r)
	case ext == ".csv":
		return loadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func loadExcel(r io.Reader) (grid.Grid, error) {
	// Raw cell values keep date cells as their underlying serial numbers,
	// which the cell classifier recognizes by its serial window.
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	return grid.FromStrings(rows), nil
}

func loadCSV(r io.Reader) (grid.Grid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return grid.FromStrings(records), nil
}
