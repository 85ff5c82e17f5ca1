package engine

import (
	"strings"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// widthTolerance absorbs float error when packing blinder shelves, e.g.
// six devices of RackInnerWidth/6.
const widthTolerance = 0.001

// CompatibleType reports whether a device of the given display size fits a
// shelf type. 3U devices fit "3u" shelves and 4U devices fit "6u" shelves.
func CompatibleType(displayUnits int, t model.ShelfType) bool {
	switch displayUnits {
	case 3:
		return strings.HasPrefix(string(t), "3u")
	case 4:
		return strings.HasPrefix(string(t), "6u")
	default:
		return false
	}
}

// RequiresShelf reports whether a device of the given display size can only
// be placed inside a shelf.
func RequiresShelf(displayUnits int) bool {
	return displayUnits == 3 || displayUnits == 4
}

// CanNest checks that device may be placed into shelf.
func CanNest(device, shelf *model.Element) error {
	if !shelf.IsShelf() {
		return ErrNotShelf
	}
	if device.IsShelf() {
		return ErrShelfInShelf
	}
	if !CompatibleType(device.DisplayUnits, shelf.Shelf.Type) {
		return ErrIncompatible
	}
	return nil
}

// SlotWidth returns the pixel width of one slot of a fixed-slot shelf.
func SlotWidth(shelf *model.Element) float64 {
	n := len(shelf.Shelf.Slots)
	if n == 0 {
		return 0
	}
	return model.RackInnerWidth / float64(n)
}

// IsBlinder reports whether shelf packs devices by width.
func IsBlinder(shelf *model.Element) bool {
	return shelf.IsShelf() && len(shelf.Shelf.Slots) == 0
}

// NextFreeSlot returns the lowest empty slot of a fixed-slot shelf.
func NextFreeSlot(shelf *model.Element) (int, bool) {
	for i, occ := range shelf.Shelf.Slots {
		if occ == nil {
			return i, true
		}
	}
	return -1, false
}

// SlotFree reports whether index is a valid empty slot.
func SlotFree(shelf *model.Element, index int) bool {
	return index >= 0 && index < len(shelf.Shelf.Slots) && shelf.Shelf.Slots[index] == nil
}

// PlaceInSlot puts device into slot index of shelf. Nothing is modified
// unless every check passes.
func PlaceInSlot(device, shelf *model.Element, index int) error {
	if err := CanNest(device, shelf); err != nil {
		return err
	}
	if index < 0 || index >= len(shelf.Shelf.Slots) {
		return ErrSlotOutOfRange
	}
	if occ := shelf.Shelf.Slots[index]; occ != nil && occ != device {
		return ErrSlotOccupied
	}

	shelf.Shelf.Slots[index] = device
	addChild(shelf, device)
	device.Placement = model.SlotPlacement(shelf.ID, index)
	device.X = float64(index) * SlotWidth(shelf)
	device.Y = 0
	return nil
}

// BlinderEdge returns the rightmost occupied x of a blinder shelf, ignoring
// the given element.
func BlinderEdge(shelf *model.Element, ignore *model.Element) float64 {
	edge := 0.0
	for _, c := range shelf.Shelf.Children {
		if c == ignore {
			continue
		}
		if right := c.X + c.Width; right > edge {
			edge = right
		}
	}
	return edge
}

// PlaceInBlinder appends device at the right edge of a blinder shelf.
// Gaps left by removed devices are not reused.
func PlaceInBlinder(device, shelf *model.Element) error {
	if err := CanNest(device, shelf); err != nil {
		return err
	}
	if !IsBlinder(shelf) {
		return ErrNotShelf
	}
	edge := BlinderEdge(shelf, device)
	if edge+device.Width > model.RackInnerWidth+widthTolerance {
		return ErrNoShelfSlot
	}

	addChild(shelf, device)
	device.Placement = model.PackedPlacement(shelf.ID, edge)
	device.X = edge
	device.Y = (shelf.Height() - device.Height()) / 2
	return nil
}

// PlaceInShelf places device into the next free slot of a fixed-slot shelf
// or at the packing edge of a blinder shelf.
func PlaceInShelf(device, shelf *model.Element) error {
	if err := CanNest(device, shelf); err != nil {
		return err
	}
	if IsBlinder(shelf) {
		return PlaceInBlinder(device, shelf)
	}
	idx, ok := NextFreeSlot(shelf)
	if !ok {
		return ErrNoShelfSlot
	}
	return PlaceInSlot(device, shelf, idx)
}

// Release removes device from shelf and leaves it unowned. Its coordinates
// are kept.
func Release(shelf, device *model.Element) {
	if !shelf.IsShelf() {
		return
	}
	shelf.Shelf.Remove(device)
	device.Placement = model.Placement{}
}

// ValidateShelf checks that every slot entry points back at a child holding
// that slot index and that packed children do not overlap.
func ValidateShelf(shelf *model.Element) bool {
	for i, occ := range shelf.Shelf.Slots {
		if occ == nil {
			continue
		}
		idx, ok := occ.SlotIndex()
		if !ok || idx != i || occ.Placement.ShelfID != shelf.ID {
			return false
		}
	}
	if IsBlinder(shelf) {
		for i, a := range shelf.Shelf.Children {
			for _, b := range shelf.Shelf.Children[i+1:] {
				if a.X < b.X+b.Width-widthTolerance && a.X+a.Width > b.X+widthTolerance {
					return false
				}
			}
		}
	}
	return true
}

func addChild(shelf, device *model.Element) {
	for _, c := range shelf.Shelf.Children {
		if c == device {
			return
		}
	}
	shelf.Shelf.Children = append(shelf.Shelf.Children, device)
}
