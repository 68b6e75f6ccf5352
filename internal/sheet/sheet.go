// Package sheet reads and writes xlsx workbooks with the Korean column
// layout used by CSV import.
package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"building-registry/internal/lookup"
	"building-registry/internal/model"
)

const (
	BuildingSheet = "건물"
	PropertySheet = "매물"
)

// BuildingNamer resolves building links for the property export.
type BuildingNamer interface {
	BuildingByID(id string) (model.Building, bool)
}

// ReadRows returns every row of the first sheet of an xlsx workbook.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel file has no sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

// WriteBuildings writes buildings as a workbook whose header row matches the
// building import columns.
func WriteBuildings(w io.Writer, buildings []model.Building) error {
	rows := make([][]any, 0, len(buildings))
	for _, b := range buildings {
		rows = append(rows, []any{
			b.Name, b.Address, b.ApprovalDate, b.Floors, b.Parking, b.Households,
			b.DoorPassword, b.ManagementPhone, b.Location, b.Type, b.Memo,
		})
	}
	return write(w, BuildingSheet, lookup.BuildingColumns, rows,
		[]float64{20, 24, 14, 8, 10, 10, 14, 16, 10, 10, 30})
}

// WriteProperties writes properties as a workbook whose header row matches
// the property import columns. Links are written as the building name in
// the 건물 column; a link to a deleted building is left blank.
func WriteProperties(w io.Writer, properties []model.Property, buildings BuildingNamer) error {
	rows := make([][]any, 0, len(properties))
	for _, p := range properties {
		var linked string
		if id, ok := p.BuildingRef(); ok {
			if b, found := buildings.BuildingByID(id); found {
				linked = b.Name
			}
		}
		rows = append(rows, []any{
			p.PropertyName, "", "", linked, p.Category, p.ReceivedDate, p.Price,
			p.MoveInDate, p.Owner, p.OwnerPhone, p.Location, p.Type, p.Memo,
		})
	}
	return write(w, PropertySheet, lookup.PropertyColumns, rows,
		[]float64{24, 16, 10, 16, 8, 12, 14, 12, 12, 16, 10, 10, 30})
}

func write(w io.Writer, sheetName string, headers []string, rows [][]any, widths []float64) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		if col < len(widths) {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheetName, name, name, widths[col]); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
