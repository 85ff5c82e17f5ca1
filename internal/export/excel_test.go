package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

func TestExportInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")

	if err := ExportInventory(path, buildTestProject(t)); err != nil {
		t.Fatalf("ExportInventory returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("cannot open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(InventorySheet)
	if err != nil {
		t.Fatalf("cannot read inventory: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(rows))
	}
	if rows[0][0] != "Rack" || rows[0][7] != "Colour" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[2][4] != "3u-4" {
		t.Errorf("expected shelf type in row 3, got %v", rows[2])
	}
	if rows[4][2] != "NAS" || rows[4][6] != "3" {
		t.Errorf("expected NAS in slot 3, got %v", rows[4])
	}

	racks, err := f.GetRows(RacksSheet)
	if err != nil {
		t.Fatalf("cannot read racks sheet: %v", err)
	}
	if len(racks) != 3 {
		t.Fatalf("expected header + 2 racks, got %d", len(racks))
	}
	// Switch 1U + shelf 3U + server 6U.
	if racks[1][0] != "Core" || racks[1][2] != "10" || racks[1][3] != "32" {
		t.Errorf("unexpected Core row: %v", racks[1])
	}
}

func TestExportInventory_NoRacks(t *testing.T) {
	if err := ExportInventory(filepath.Join(t.TempDir(), "x.xlsx"), model.NewProject()); err == nil {
		t.Fatal("expected error for a project without racks")
	}
}
