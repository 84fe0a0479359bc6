package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLength = 31

// WorkbookExporter renders sheets into a single .xlsx workbook.
type WorkbookExporter struct{}

// NewWorkbookExporter builds a workbook exporter.
func NewWorkbookExporter() *WorkbookExporter {
	return &WorkbookExporter{}
}

// Render writes one worksheet per sheet, in order, with a bold header row.
func (e *WorkbookExporter) Render(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook requires at least one sheet")
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	headerStyle, err := xl.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	used := map[string]bool{}
	for i, sheet := range sheets {
		name := uniqueSheetName(sheet.Name, used)
		if i == 0 {
			if err := xl.SetSheetName(xl.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else if _, err := xl.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}

		header := sheet.Headers
		if err := xl.SetSheetRow(name, "A1", &header); err != nil {
			return nil, fmt.Errorf("write %s header: %w", name, err)
		}
		if len(header) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(header), 1)
			_ = xl.SetCellStyle(name, "A1", last, headerStyle)
		}

		for ri, row := range sheet.Rows {
			record := row
			cell, err := excelize.CoordinatesToCellName(1, ri+2)
			if err != nil {
				return nil, fmt.Errorf("cell name: %w", err)
			}
			if err := xl.SetSheetRow(name, cell, &record); err != nil {
				return nil, fmt.Errorf("write %s row %d: %w", name, ri+1, err)
			}
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadFirstSheet returns every row of the first worksheet in the workbook.
func ReadFirstSheet(r io.Reader) ([][]string, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = xl.Close() }()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func uniqueSheetName(raw string, used map[string]bool) string {
	base := sanitizeSheetName(raw)
	name := base
	for idx := 2; used[name]; idx++ {
		name = truncateSheetName(fmt.Sprintf("%s_%d", base, idx))
	}
	used[name] = true
	return name
}

func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" {
		name = "Sheet"
	}
	return truncateSheetName(name)
}

func truncateSheetName(name string) string {
	runes := []rune(name)
	if len(runes) > maxSheetNameLength {
		return string(runes[:maxSheetNameLength])
	}
	return name
}
