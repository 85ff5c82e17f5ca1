package designer

import (
	"errors"
	"fmt"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

type pendingSelection struct {
	source  string
	payload Payload
}

// rejection turns a placement failure into the message shown to the user.
func rejection(reason error, units int) error {
	switch {
	case errors.Is(reason, engine.ErrNoCapacity):
		return engine.Reject(reason, "No free %dU space in this rack.", units)
	case errors.Is(reason, engine.ErrNoShelfSlot):
		return engine.Reject(reason, "No free shelf slot available.")
	case errors.Is(reason, engine.ErrIncompatible):
		return engine.Reject(reason, "This device does not fit this shelf type.")
	case errors.Is(reason, engine.ErrRequiresShelf):
		return engine.Reject(reason, "Place this device into a matching shelf slot.")
	case errors.Is(reason, engine.ErrShelfInShelf):
		return engine.Reject(reason, "Shelves can only be placed on rack units.")
	case errors.Is(reason, engine.ErrSlotOccupied):
		return engine.Reject(reason, "This shelf slot is already occupied.")
	default:
		return engine.Reject(reason, "")
	}
}

// SelectPayload arms click-to-place with payload. Selecting the source that
// is already pending cancels instead. It reports whether a selection is now
// pending.
func (s *Session) SelectPayload(source string, payload Payload) bool {
	defer s.lock()()
	if s.pending != nil && s.pending.source == source {
		s.pending = nil
		s.changed = true
		return false
	}
	s.pending = &pendingSelection{source: source, payload: payload}
	s.changed = true
	return true
}

// Pending returns the armed payload and its palette source.
func (s *Session) Pending() (Payload, string, bool) {
	defer s.lock()()
	if s.pending == nil {
		return Payload{}, "", false
	}
	return s.pending.payload, s.pending.source, true
}

// CancelPending drops the armed payload, if any.
func (s *Session) CancelPending() {
	defer s.lock()()
	if s.pending != nil {
		s.pending = nil
		s.changed = true
	}
}

// ClickRackUnit places the pending payload with its top edge at unit.
// The selection stays armed when the placement is rejected.
func (s *Session) ClickRackUnit(rackID string, unit int) (string, error) {
	defer s.lock()()
	return s.clickRackUnit(rackID, unit)
}

func (s *Session) clickRackUnit(rackID string, unit int) (string, error) {
	if s.pending == nil {
		return "", engine.ErrNoTarget
	}
	rack, err := s.rack(rackID)
	if err != nil {
		return "", err
	}
	payload := s.pending.payload
	units := payload.Units()

	if !payload.IsShelf() && engine.RequiresShelf(payload.DisplayUnits) {
		return "", s.reject(rejection(engine.ErrRequiresShelf, units))
	}
	if !engine.IsRangeFree(rack, unit, units, nil) {
		return "", s.reject(rejection(engine.ErrNoCapacity, units))
	}
	el, err := payload.Build()
	if err != nil {
		return "", err
	}

	engine.Place(el, rack, unit)
	s.pending = nil
	s.touch()
	s.logger.Debug("placed from palette", "id", el.ID, "rack", rack.Name, "unit", unit)
	return el.ID, nil
}

// ClickShelfSlot places the pending payload into slot of a rack-mounted
// shelf. Blinder shelves ignore slot and append at their packing edge.
func (s *Session) ClickShelfSlot(shelfID string, slot int) (string, error) {
	defer s.lock()()
	return s.clickShelfSlot(shelfID, slot)
}

func (s *Session) clickShelfSlot(shelfID string, slot int) (string, error) {
	if s.pending == nil {
		return "", engine.ErrNoTarget
	}
	shelf := s.project.MountedShelf(shelfID)
	if shelf == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownElement, shelfID)
	}
	payload := s.pending.payload
	if payload.IsShelf() {
		return "", s.reject(rejection(engine.ErrShelfInShelf, payload.Units()))
	}
	if !engine.CompatibleType(payload.DisplayUnits, shelf.Shelf.Type) {
		return "", s.reject(rejection(engine.ErrIncompatible, payload.Units()))
	}
	el, err := payload.Build()
	if err != nil {
		return "", err
	}

	if engine.IsBlinder(shelf) {
		err = engine.PlaceInBlinder(el, shelf)
	} else {
		err = engine.PlaceInSlot(el, shelf, slot)
	}
	if err != nil {
		return "", s.reject(rejection(err, payload.Units()))
	}
	s.pending = nil
	s.touch()
	s.logger.Debug("placed in shelf from palette", "id", el.ID, "shelf", shelf.Name, "slot", slot)
	return el.ID, nil
}

// ClickAt handles a click on the canvas. With a pending payload the click
// targets the shelf slot or rack unit under pt, and a click on empty canvas
// cancels it. Without one the element under pt becomes the selection.
func (s *Session) ClickAt(pt model.Point) (string, error) {
	defer s.lock()()
	p := s.project

	if s.pending == nil {
		s.selected = ""
		if el := engine.ElementAt(p, pt); el != nil {
			s.selected = el.ID
		}
		s.changed = true
		return s.selected, nil
	}

	if shelf := engine.ShelfAt(p, pt); shelf != nil {
		slot := 0
		if !engine.IsBlinder(shelf) {
			idx, ok := engine.SlotAt(p, shelf, pt.X)
			if !ok {
				return "", engine.ErrNoTarget
			}
			slot = idx
		}
		return s.clickShelfSlot(shelf.ID, slot)
	}
	if rack := engine.RackAt(p, pt); rack != nil {
		unit, ok := engine.UnitAt(rack, pt.Y)
		if !ok {
			return "", engine.ErrNoTarget
		}
		return s.clickRackUnit(rack.ID, unit)
	}

	s.pending = nil
	s.selected = ""
	s.changed = true
	return "", engine.ErrNoTarget
}
