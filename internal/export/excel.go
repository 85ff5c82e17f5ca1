package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Sheet names of the inventory workbook.
const (
	InventorySheet = "Inventory"
	RacksSheet     = "Racks"
)

var inventoryHeaders = []string{"Rack", "Units", "Name", "Size", "Type", "Shelf", "Slot", "Colour"}

// ExportInventory writes an xlsx workbook with one row per placed element
// and a per-rack capacity sheet.
func ExportInventory(path string, p *model.Project) error {
	if len(p.Racks) == 0 {
		return fmt.Errorf("no racks to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InventorySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rows := [][]any{}
	for _, e := range Entries(p) {
		kind := "device"
		if e.IsShelf {
			kind = string(e.ShelfType)
		}
		var slot any = ""
		if e.Slot >= 0 {
			slot = e.Slot + 1
		}
		rows = append(rows, []any{e.Rack, e.Units(), e.Name, e.Size, kind, e.Shelf, slot, e.Color})
	}
	if err := writeTable(f, InventorySheet, inventoryHeaders, rows, headerStyle); err != nil {
		return err
	}
	for col, width := range map[string]float64{"A": 18, "B": 12, "C": 30, "E": 14, "F": 24, "H": 10} {
		if err := f.SetColWidth(InventorySheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if _, err := f.NewSheet(RacksSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	var rackRows [][]any
	for _, r := range p.Racks {
		free := engine.FreeUnits(r)
		rackRows = append(rackRows, []any{r.Name, len(Devices(entriesOf(Entries(p), r.ID))), model.RackUnits - free, free})
	}
	if err := writeTable(f, RacksSheet, []string{"Rack", "Devices", "Used units", "Free units"}, rackRows, headerStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}
	return nil
}
