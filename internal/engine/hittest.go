package engine

import (
	"math"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// RackAt returns the first rack whose cabinet contains pt. Edges count as
// inside.
func RackAt(p *model.Project, pt model.Point) *model.Rack {
	for _, r := range p.Racks {
		if pt.X >= r.X && pt.X <= r.X+model.CabinetWidth &&
			pt.Y >= r.Y && pt.Y <= r.Y+model.CabinetHeight {
			return r
		}
	}
	return nil
}

// ShelfAt returns the first rack-mounted shelf whose body contains pt.
func ShelfAt(p *model.Project, pt model.Point) *model.Element {
	for _, sh := range p.Shelves() {
		pos := p.AbsolutePosition(sh)
		if pt.X >= pos.X && pt.X <= pos.X+model.RackInnerWidth &&
			pt.Y >= pos.Y && pt.Y <= pos.Y+sh.Height() {
			return sh
		}
	}
	return nil
}

// SlotAt returns the slot of shelf under canvas x, or false for blinder
// shelves and points outside the shelf.
func SlotAt(p *model.Project, shelf *model.Element, x float64) (int, bool) {
	w := SlotWidth(shelf)
	if w == 0 {
		return -1, false
	}
	local := x - p.AbsolutePosition(shelf).X
	idx := int(math.Floor(local / w))
	if idx < 0 || idx >= len(shelf.Shelf.Slots) {
		return -1, false
	}
	return idx, true
}

// UnitAt returns the rack unit under canvas y, or false outside the unit grid.
func UnitAt(rack *model.Rack, y float64) (int, bool) {
	local := y - rack.Y - model.CabinetPadding
	if local < 0 {
		return -1, false
	}
	u := int(math.Floor(local / model.UnitHeight))
	if u >= model.RackUnits {
		return -1, false
	}
	return u, true
}

// Centre returns the canvas centre of an element whose top-left is at pos.
func Centre(el *model.Element, pos model.Point) model.Point {
	return model.Point{X: pos.X + el.Width/2, Y: pos.Y + el.Height()/2}
}

// ElementAt returns the topmost element under pt: unowned elements first,
// then shelf children, then rack-mounted elements.
func ElementAt(p *model.Project, pt model.Point) *model.Element {
	inside := func(el *model.Element) bool {
		pos := p.AbsolutePosition(el)
		return pt.X >= pos.X && pt.X <= pos.X+el.Width &&
			pt.Y >= pos.Y && pt.Y <= pos.Y+el.Height()
	}
	for i := len(p.Floating) - 1; i >= 0; i-- {
		if inside(p.Floating[i]) {
			return p.Floating[i]
		}
	}
	for _, sh := range p.Shelves() {
		for _, c := range sh.Shelf.Children {
			if inside(c) {
				return c
			}
		}
	}
	for _, r := range p.Racks {
		for _, e := range r.Elements {
			if inside(e) {
				return e
			}
		}
	}
	return nil
}
