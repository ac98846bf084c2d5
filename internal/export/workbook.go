package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]any
	// Footer is written after one blank row below Rows.
	Footer [][]any
}

// NewWorkbook builds one worksheet per spec, in order. Titles must already be
// valid and unique sheet names.
func NewWorkbook(sheets []SheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("new sheet %q: %w", name, err)
		}

		if err := f.SetSheetRow(name, "A1", &s.Header); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("header %q: %w", name, err)
		}
		r := 2
		for _, row := range s.Rows {
			row := row
			if err := f.SetSheetRow(name, fmt.Sprintf("A%d", r), &row); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("row %d of %q: %w", r, name, err)
			}
			r++
		}
		if len(s.Footer) > 0 {
			r++
			for _, row := range s.Footer {
				row := row
				if err := f.SetSheetRow(name, fmt.Sprintf("A%d", r), &row); err != nil {
					_ = f.Close()
					return nil, fmt.Errorf("footer %d of %q: %w", r, name, err)
				}
				r++
			}
		}
		if err := ApplyDefaultExcelFormatting(f, name, 1); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("format %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Bytes serialises the workbook and closes it.
func Bytes(f *excelize.File) ([]byte, error) {
	defer func() { _ = f.Close() }()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
