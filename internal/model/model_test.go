package model

import (
	"testing"
)

func TestReservedUnits(t *testing.T) {
	tests := []struct {
		display, want int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 6},
	}
	for _, tt := range tests {
		if got := ReservedUnits(tt.display); got != tt.want {
			t.Errorf("ReservedUnits(%d) = %d, want %d", tt.display, got, tt.want)
		}
	}
}

func TestDeviceWidth(t *testing.T) {
	if DeviceWidth(1) != RackInnerWidth || DeviceWidth(2) != RackInnerWidth {
		t.Error("1U and 2U devices should span the inner width")
	}
	if DeviceWidth(3) != RackInnerWidth/6 {
		t.Errorf("unexpected 3U width %f", DeviceWidth(3))
	}
	if DeviceWidth(4) != RackInnerWidth/4 {
		t.Errorf("unexpected 4U width %f", DeviceWidth(4))
	}
}

func TestCabinetDimensions(t *testing.T) {
	if CabinetWidth != 300 {
		t.Errorf("expected cabinet width 300, got %f", CabinetWidth)
	}
	if CabinetHeight != 985 {
		t.Errorf("expected cabinet height 985, got %f", CabinetHeight)
	}
	if UnitLabel(0) != 42 || UnitLabel(41) != 1 {
		t.Errorf("unit labels should run 42..1, got %d..%d", UnitLabel(0), UnitLabel(41))
	}
}

func TestNewDeviceDefaults(t *testing.T) {
	d := NewDevice(4, "", "", "")
	if d.ID == "" || len(d.ID) != 8 {
		t.Errorf("expected 8 character ID, got %q", d.ID)
	}
	if d.Name != "Device 4U" {
		t.Errorf("expected default name, got %s", d.Name)
	}
	if d.Units() != 6 {
		t.Errorf("expected 6 reserved units, got %d", d.Units())
	}
	if d.Height() != 6*UnitHeight {
		t.Errorf("unexpected height %f", d.Height())
	}
	if d.IsShelf() || d.InShelf() {
		t.Error("new device should be a free-standing device")
	}
}

func TestNewShelfFromCatalog(t *testing.T) {
	tests := []struct {
		typ      ShelfType
		display  int
		slots    int
		name     string
		wantType ShelfType
	}{
		{Shelf3U4Slot, 3, 4, "Shelf 3U (4 slots)", Shelf3U4Slot},
		{Shelf3U6Slot, 3, 6, "Shelf 3U (6 slots)", Shelf3U6Slot},
		{Shelf6U3Slot, 4, 3, "Shelf 6U (3 slots)", Shelf6U3Slot},
		{"6u-4slot", 4, 4, "Shelf 6U (4 slots)", Shelf6U4Slot},
		{Shelf3UBlinder, 3, 0, "Blinder Shelf 3U", Shelf3UBlinder},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			s, err := NewShelf(tt.typ, "")
			if err != nil {
				t.Fatalf("NewShelf failed: %v", err)
			}
			if s.DisplayUnits != tt.display {
				t.Errorf("expected display %d, got %d", tt.display, s.DisplayUnits)
			}
			if len(s.Shelf.Slots) != tt.slots {
				t.Errorf("expected %d slots, got %d", tt.slots, len(s.Shelf.Slots))
			}
			if s.Name != tt.name {
				t.Errorf("expected name %q, got %q", tt.name, s.Name)
			}
			if s.Shelf.Type != tt.wantType {
				t.Errorf("expected normalised type %s, got %s", tt.wantType, s.Shelf.Type)
			}
			if s.Width != RackInnerWidth {
				t.Errorf("shelf should span the inner width, got %f", s.Width)
			}
		})
	}
}

func TestNewShelfUnknownType(t *testing.T) {
	if _, err := NewShelf("9u-2", ""); err == nil {
		t.Error("expected error for unknown shelf type")
	}
}

func TestProjectDetachAndAbsolutePosition(t *testing.T) {
	p := NewProject()
	r := NewRack("Rack 1", 100, 50)
	p.Racks = append(p.Racks, r)

	shelf, _ := NewShelf(Shelf3U4Slot, "")
	shelf.Placement = RackPlacement(r.ID, 2)
	shelf.X, shelf.Y = CabinetPadding, CabinetPadding+2*UnitHeight
	r.Elements = append(r.Elements, shelf)

	dev := NewDevice(3, "NAS", "", "")
	dev.Placement = SlotPlacement(shelf.ID, 1)
	dev.X = RackInnerWidth / 4
	shelf.Shelf.Slots[1] = dev
	shelf.Shelf.Children = append(shelf.Shelf.Children, dev)

	pos := p.AbsolutePosition(dev)
	want := Point{X: 100 + CabinetPadding + RackInnerWidth/4, Y: 50 + CabinetPadding + 2*UnitHeight}
	if pos != want {
		t.Errorf("expected %v, got %v", want, pos)
	}
	if p.RackOf(dev) != r {
		t.Error("RackOf should resolve through the shelf")
	}
	if p.Element(dev.ID) != dev {
		t.Error("Element should find nested devices")
	}

	p.Detach(dev)
	if dev.InShelf() {
		t.Error("detached device should be unowned")
	}
	if shelf.Shelf.Slots[1] != nil || len(shelf.Shelf.Children) != 0 {
		t.Error("detach should clear the shelf slot and child list")
	}

	p.Float(dev, Point{X: 5, Y: 6})
	if len(p.Floating) != 1 || dev.X != 5 || dev.Y != 6 {
		t.Error("Float should put the device on the canvas")
	}
	if p.AbsolutePosition(dev) != (Point{X: 5, Y: 6}) {
		t.Error("floating elements use absolute coordinates")
	}
}

func TestProjectCloneIsDeep(t *testing.T) {
	p := NewProject()
	r := NewRack("Rack 1", 20, 20)
	p.Racks = append(p.Racks, r)
	shelf, _ := NewShelf(Shelf6U3Slot, "")
	shelf.Placement = RackPlacement(r.ID, 0)
	r.Elements = append(r.Elements, shelf)
	dev := NewDevice(4, "Switch", "#336699", "")
	dev.Placement = SlotPlacement(shelf.ID, 2)
	shelf.Shelf.Slots[2] = dev
	shelf.Shelf.Children = append(shelf.Shelf.Children, dev)

	cp := p.Clone()
	cpShelf := cp.Racks[0].Elements[0]
	if cpShelf == shelf {
		t.Fatal("clone should not share elements")
	}
	if cpShelf.Shelf.Slots[2] != cpShelf.Shelf.Children[0] {
		t.Error("cloned slot array should point at cloned children")
	}
	cpShelf.Shelf.Children[0].Name = "changed"
	if dev.Name != "Switch" {
		t.Error("modifying the clone changed the original")
	}
	if p.DeviceCount() != 1 || cp.DeviceCount() != 1 {
		t.Error("expected one device in both projects")
	}
}
