package designer

import (
	"fmt"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Outcome is how a released drag was resolved.
type Outcome int

const (
	PlacedShelf Outcome = iota + 1
	PlacedRack
	RestoredSlot
	RestoredRack
	Reverted
)

func (o Outcome) String() string {
	switch o {
	case PlacedShelf:
		return "placed-shelf"
	case PlacedRack:
		return "placed-rack"
	case RestoredSlot:
		return "restored-slot"
	case RestoredRack:
		return "restored-rack"
	case Reverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// dragOrigin snapshots where an element was when its drag began.
type dragOrigin struct {
	rackID    string
	startUnit int

	shelfID  string
	slot     int
	hasSlot  bool
	packed   bool
	local    model.Point
	absolute model.Point
}

// Dragging reports whether id has an unresolved drag.
func (s *Session) Dragging(id string) bool {
	defer s.lock()()
	_, ok := s.drags[id]
	return ok
}

// BeginDrag lifts an element out of its owner onto the canvas layer at its
// current absolute position. A shelf slot it held is released immediately.
func (s *Session) BeginDrag(id string) error {
	defer s.lock()()
	el, err := s.element(id)
	if err != nil {
		return err
	}
	if _, ok := s.drags[id]; ok {
		return fmt.Errorf("element %s is already being dragged", id)
	}

	origin := &dragOrigin{
		local:    model.Point{X: el.X, Y: el.Y},
		absolute: s.project.AbsolutePosition(el),
	}
	switch el.Placement.Kind {
	case model.InRack:
		origin.rackID = el.Placement.RackID
		origin.startUnit = el.Placement.StartUnit
	case model.InShelfSlot:
		origin.shelfID = el.Placement.ShelfID
		origin.slot = el.Placement.SlotIndex
		origin.hasSlot = true
	case model.InShelfPacked:
		origin.shelfID = el.Placement.ShelfID
		origin.packed = true
	}

	s.logger.Debug("drag started", "id", id, "from", el.Placement.Kind)
	s.project.Detach(el)
	s.project.Float(el, origin.absolute)
	s.drags[id] = origin
	s.selected = id
	s.touch()
	return nil
}

// MoveDrag moves a dragged element so its top-left corner is at topLeft.
func (s *Session) MoveDrag(id string, topLeft model.Point) error {
	defer s.lock()()
	if _, ok := s.drags[id]; !ok {
		return fmt.Errorf("element %s is not being dragged", id)
	}
	el, err := s.element(id)
	if err != nil {
		return err
	}
	el.X, el.Y = topLeft.X, topLeft.Y
	s.touch()
	return nil
}

// EndDrag releases a dragged element with its top-left corner at topLeft
// and resolves it, in order, into the shelf under its centre, the rack
// under its centre, its original shelf slot, its original rack, or back to
// its original canvas position. Drag resolution never notifies the user.
func (s *Session) EndDrag(id string, topLeft model.Point) (Outcome, error) {
	defer s.lock()()
	origin, ok := s.drags[id]
	if !ok {
		return 0, fmt.Errorf("element %s is not being dragged", id)
	}
	delete(s.drags, id)
	el, err := s.element(id)
	if err != nil {
		return 0, err
	}
	el.X, el.Y = topLeft.X, topLeft.Y

	outcome := s.resolveDrop(el, origin, engine.Centre(el, topLeft))
	s.touch()
	s.logger.Debug("drag resolved", "id", id, "outcome", outcome)
	return outcome, nil
}

func (s *Session) resolveDrop(el *model.Element, origin *dragOrigin, centre model.Point) Outcome {
	p := s.project

	if !el.IsShelf() {
		if shelf := engine.ShelfAt(p, centre); shelf != nil && engine.CompatibleType(el.DisplayUnits, shelf.Shelf.Type) {
			if engine.PlaceInShelf(el, shelf) == nil {
				p.Unfloat(el)
				return PlacedShelf
			}
		}
	}

	if el.IsShelf() || !engine.RequiresShelf(el.DisplayUnits) {
		if rack := engine.RackAt(p, centre); rack != nil {
			preferred := engine.PreferredStartUnit(el, rack, centre)
			if start, ok := engine.FindNearestFree(rack, el.Units(), preferred, el); ok {
				p.Unfloat(el)
				engine.Place(el, rack, start)
				return PlacedRack
			}
		}
	}

	if origin.shelfID != "" {
		if shelf := p.Shelf(origin.shelfID); shelf != nil && s.restoreShelf(el, shelf, origin) {
			p.Unfloat(el)
			return RestoredSlot
		}
	}

	if origin.rackID != "" {
		if rack := p.Rack(origin.rackID); rack != nil {
			if start, ok := engine.FindNearestFree(rack, el.Units(), origin.startUnit, el); ok {
				p.Unfloat(el)
				engine.Place(el, rack, start)
				return RestoredRack
			}
		}
	}

	p.Float(el, origin.absolute)
	return Reverted
}

// restoreShelf puts el back into the shelf it was dragged out of. Fixed
// slots are only restored when still empty; blinder shelves re-append.
func (s *Session) restoreShelf(el, shelf *model.Element, origin *dragOrigin) bool {
	switch {
	case origin.hasSlot:
		if !engine.SlotFree(shelf, origin.slot) {
			return false
		}
		if engine.PlaceInSlot(el, shelf, origin.slot) != nil {
			return false
		}
		el.X, el.Y = origin.local.X, origin.local.Y
		return true
	case origin.packed:
		return engine.PlaceInBlinder(el, shelf) == nil
	}
	return false
}
