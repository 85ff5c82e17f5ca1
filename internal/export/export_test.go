package export

import (
	"os"
	"testing"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// buildTestProject creates two racks: "Core" with a switch, a 3U shelf
// holding two devices and a 4U server, and an empty "Edge" rack.
func buildTestProject(t *testing.T) *model.Project {
	t.Helper()
	p := model.NewProject()
	core := model.NewRack("Core", 20, 20)
	edge := model.NewRack("Edge", 360, 20)
	p.Racks = append(p.Racks, core, edge)

	engine.Place(model.NewDevice(1, "Switch", "#C86432", ""), core, 0)
	engine.Place(model.NewDevice(4, "Server", "", ""), core, 20)

	shelf, err := model.NewShelf(model.Shelf3U4Slot, "Minis")
	if err != nil {
		t.Fatal(err)
	}
	engine.Place(shelf, core, 2)
	if err := engine.PlaceInSlot(model.NewDevice(3, "NAS", "", ""), shelf, 2); err != nil {
		t.Fatal(err)
	}
	if err := engine.PlaceInSlot(model.NewDevice(3, "NUC", "", ""), shelf, 0); err != nil {
		t.Fatal(err)
	}
	return p
}

func assertFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestEntries(t *testing.T) {
	entries := Entries(buildTestProject(t))

	want := []struct {
		name  string
		units string
		loc   string
	}{
		{"Switch", "U42", ""},
		{"Minis", "U40-U38", ""},
		{"NUC", "U40-U38", "Minis / slot 1"},
		{"NAS", "U40-U38", "Minis / slot 3"},
		{"Server", "U22-U17", ""},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(entries), entries)
	}
	for i, w := range want {
		e := entries[i]
		if e.Name != w.name || e.Units() != w.units || e.Location() != w.loc {
			t.Errorf("entry %d: got %s %s %q, want %s %s %q", i, e.Name, e.Units(), e.Location(), w.name, w.units, w.loc)
		}
	}
	if !entries[1].IsShelf || entries[1].ShelfType != model.Shelf3U4Slot {
		t.Errorf("expected shelf entry, got %+v", entries[1])
	}
	if entries[0].Color != "#C86432" {
		t.Errorf("expected custom colour, got %s", entries[0].Color)
	}
	if got := len(Devices(entries)); got != 4 {
		t.Errorf("expected 4 devices, got %d", got)
	}
}

func TestEntries_BlinderHasNoSlot(t *testing.T) {
	p := model.NewProject()
	r := model.NewRack("R", 20, 20)
	p.Racks = append(p.Racks, r)
	shelf, _ := model.NewShelf(model.Shelf3UBlinder, "")
	engine.Place(shelf, r, 0)
	if err := engine.PlaceInBlinder(model.NewDevice(3, "A", "", ""), shelf); err != nil {
		t.Fatal(err)
	}

	devices := Devices(Entries(p))
	if len(devices) != 1 || devices[0].Slot != -1 || devices[0].Location() != "Blinder Shelf 3U" {
		t.Errorf("unexpected blinder entry: %+v", devices)
	}
}
