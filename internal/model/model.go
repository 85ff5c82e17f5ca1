package model

import (
	"fmt"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.New().String()[:8]
}

// PlacementKind discriminates who owns an element.
type PlacementKind int

const (
	Unowned PlacementKind = iota
	InRack
	InShelfSlot
	InShelfPacked
)

func (k PlacementKind) String() string {
	switch k {
	case InRack:
		return "rack"
	case InShelfSlot:
		return "shelf-slot"
	case InShelfPacked:
		return "shelf-packed"
	default:
		return "unowned"
	}
}

// Placement records the owner of an element and its location inside it.
// Only the fields belonging to Kind are meaningful.
type Placement struct {
	Kind      PlacementKind
	RackID    string
	StartUnit int
	ShelfID   string
	SlotIndex int
	Offset    float64
}

// RackPlacement places an element at startUnit of the given rack.
func RackPlacement(rackID string, startUnit int) Placement {
	return Placement{Kind: InRack, RackID: rackID, StartUnit: startUnit}
}

// SlotPlacement places a device into a fixed shelf slot.
func SlotPlacement(shelfID string, slot int) Placement {
	return Placement{Kind: InShelfSlot, ShelfID: shelfID, SlotIndex: slot}
}

// PackedPlacement places a device into a blinder shelf at a horizontal offset.
func PackedPlacement(shelfID string, offset float64) Placement {
	return Placement{Kind: InShelfPacked, ShelfID: shelfID, Offset: offset}
}

// Element is either a device or a shelf. Shelf is non-nil for shelves.
type Element struct {
	ID           string
	Name         string
	DisplayUnits int
	Color        string // custom fill, empty for the size class default
	FontColor    string // custom text colour, empty to derive from the fill
	Width        float64

	// X and Y are relative to the owning rack or shelf, or absolute on the
	// canvas while the element is unowned.
	X, Y float64

	Placement Placement
	Shelf     *Shelf
}

// Shelf holds the nested devices of a shelf element.
type Shelf struct {
	Type ShelfType

	// Slots has one entry per fixed slot. It is nil for blinder shelves.
	Slots []*Element

	// Children lists nested devices in insertion order.
	Children []*Element
}

// NewDevice creates an unowned device of the given display size.
func NewDevice(displayUnits int, name, color, fontColor string) *Element {
	if name == "" {
		name = fmt.Sprintf("Device %dU", displayUnits)
	}
	return &Element{
		ID:           newID(),
		Name:         name,
		DisplayUnits: displayUnits,
		Color:        color,
		FontColor:    fontColor,
		Width:        DeviceWidth(displayUnits),
	}
}

// NewShelf creates an unowned shelf from the catalog. An empty name uses the
// catalog default.
func NewShelf(t ShelfType, name string) (*Element, error) {
	spec, ok := LookupShelf(t)
	if !ok {
		return nil, fmt.Errorf("unknown shelf type %q", t)
	}
	if name == "" {
		name = spec.DefaultName
	}
	sh := &Shelf{Type: spec.Type}
	if spec.NumSlots > 0 {
		sh.Slots = make([]*Element, spec.NumSlots)
	}
	return &Element{
		ID:           newID(),
		Name:         name,
		DisplayUnits: spec.DisplayUnits,
		Width:        RackInnerWidth,
		Shelf:        sh,
	}, nil
}

// IsShelf reports whether the element is a shelf.
func (e *Element) IsShelf() bool {
	return e.Shelf != nil
}

// Units returns the rack units the element reserves.
func (e *Element) Units() int {
	return ReservedUnits(e.DisplayUnits)
}

// Height returns the pixel height of the element.
func (e *Element) Height() float64 {
	return float64(e.Units()) * UnitHeight
}

// InShelf reports whether the element is owned by a shelf.
func (e *Element) InShelf() bool {
	return e.Placement.Kind == InShelfSlot || e.Placement.Kind == InShelfPacked
}

// SlotIndex returns the fixed slot the element occupies, if any.
func (e *Element) SlotIndex() (int, bool) {
	if e.Placement.Kind != InShelfSlot {
		return 0, false
	}
	return e.Placement.SlotIndex, true
}

// Spec returns the catalog entry of a shelf element.
func (e *Element) Spec() (ShelfSpec, bool) {
	if e.Shelf == nil {
		return ShelfSpec{}, false
	}
	return LookupShelf(e.Shelf.Type)
}

// Remove drops el from the shelf's slot array and child list.
func (s *Shelf) Remove(el *Element) bool {
	found := false
	for i, occ := range s.Slots {
		if occ == el {
			s.Slots[i] = nil
			found = true
		}
	}
	for i, c := range s.Children {
		if c == el {
			s.Children = append(s.Children[:i], s.Children[i+1:]...)
			found = true
			break
		}
	}
	return found
}

// Rack is a 42U enclosure with its directly placed elements.
type Rack struct {
	ID       string
	Name     string
	X, Y     float64
	Elements []*Element
}

// NewRack creates an empty rack at the given canvas position.
func NewRack(name string, x, y float64) *Rack {
	return &Rack{
		ID:   newID(),
		Name: name,
		X:    x,
		Y:    y,
	}
}

// Position returns the rack's canvas position.
func (r *Rack) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

// Remove drops el from the rack.
func (r *Rack) Remove(el *Element) bool {
	for i, e := range r.Elements {
		if e == el {
			r.Elements = append(r.Elements[:i], r.Elements[i+1:]...)
			return true
		}
	}
	return false
}

// Project is an ordered set of racks plus any unowned elements left on the
// canvas. Unowned elements are not persisted.
type Project struct {
	Racks    []*Rack
	Floating []*Element
}

// NewProject returns an empty project.
func NewProject() *Project {
	return &Project{}
}

// Rack returns the rack with the given ID, or nil.
func (p *Project) Rack(id string) *Rack {
	for _, r := range p.Racks {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Element finds an element anywhere in the project.
func (p *Project) Element(id string) *Element {
	for _, r := range p.Racks {
		for _, e := range r.Elements {
			if e.ID == id {
				return e
			}
			if e.Shelf != nil {
				for _, c := range e.Shelf.Children {
					if c.ID == id {
						return c
					}
				}
			}
		}
	}
	for _, e := range p.Floating {
		if e.ID == id {
			return e
		}
		if e.Shelf != nil {
			for _, c := range e.Shelf.Children {
				if c.ID == id {
					return c
				}
			}
		}
	}
	return nil
}

// Shelf returns the shelf element with the given ID, whether it is mounted
// in a rack or floating on the canvas.
func (p *Project) Shelf(id string) *Element {
	for _, r := range p.Racks {
		for _, e := range r.Elements {
			if e.ID == id && e.Shelf != nil {
				return e
			}
		}
	}
	for _, e := range p.Floating {
		if e.ID == id && e.Shelf != nil {
			return e
		}
	}
	return nil
}

// MountedShelf returns the shelf with the given ID only if it sits in a rack.
func (p *Project) MountedShelf(id string) *Element {
	sh := p.Shelf(id)
	if sh == nil || sh.Placement.Kind != InRack {
		return nil
	}
	return sh
}

// Shelves returns every rack-mounted shelf in rack and insertion order.
func (p *Project) Shelves() []*Element {
	var out []*Element
	for _, r := range p.Racks {
		for _, e := range r.Elements {
			if e.Shelf != nil {
				out = append(out, e)
			}
		}
	}
	return out
}

// RackOf returns the rack that directly or indirectly owns el.
func (p *Project) RackOf(el *Element) *Rack {
	switch el.Placement.Kind {
	case InRack:
		return p.Rack(el.Placement.RackID)
	case InShelfSlot, InShelfPacked:
		if sh := p.Shelf(el.Placement.ShelfID); sh != nil {
			return p.Rack(sh.Placement.RackID)
		}
	}
	return nil
}

// AbsolutePosition returns the canvas position of el's top-left corner.
func (p *Project) AbsolutePosition(el *Element) Point {
	local := Point{X: el.X, Y: el.Y}
	switch el.Placement.Kind {
	case InRack:
		if r := p.Rack(el.Placement.RackID); r != nil {
			return r.Position().Add(local)
		}
	case InShelfSlot, InShelfPacked:
		if sh := p.Shelf(el.Placement.ShelfID); sh != nil {
			return p.AbsolutePosition(sh).Add(local)
		}
	}
	return local
}

// Detach removes el from whatever owns it and marks it unowned. Its
// coordinates are left untouched.
func (p *Project) Detach(el *Element) {
	switch el.Placement.Kind {
	case InRack:
		if r := p.Rack(el.Placement.RackID); r != nil {
			r.Remove(el)
		}
	case InShelfSlot, InShelfPacked:
		if sh := p.Shelf(el.Placement.ShelfID); sh != nil {
			sh.Shelf.Remove(el)
		}
	}
	p.Unfloat(el)
	el.Placement = Placement{}
}

// Float puts an unowned element on the canvas at an absolute position.
func (p *Project) Float(el *Element, at Point) {
	p.Unfloat(el)
	el.Placement = Placement{}
	el.X, el.Y = at.X, at.Y
	p.Floating = append(p.Floating, el)
}

// Unfloat removes el from the canvas layer without changing its placement.
func (p *Project) Unfloat(el *Element) {
	for i, e := range p.Floating {
		if e == el {
			p.Floating = append(p.Floating[:i], p.Floating[i+1:]...)
			return
		}
	}
}

// RemoveRack deletes a rack and everything in it.
func (p *Project) RemoveRack(id string) bool {
	for i, r := range p.Racks {
		if r.ID == id {
			p.Racks = append(p.Racks[:i], p.Racks[i+1:]...)
			return true
		}
	}
	return false
}

// DeviceCount returns the number of devices placed in racks and shelves.
func (p *Project) DeviceCount() int {
	n := 0
	for _, r := range p.Racks {
		for _, e := range r.Elements {
			if e.Shelf != nil {
				n += len(e.Shelf.Children)
				continue
			}
			n++
		}
	}
	return n
}
