package designer

import (
	"fmt"
	"math"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Add places a new element described by payload at the first free unit
// from the top of the rack and returns its ID. When nothing fits the
// element is discarded and a rejection is reported.
func (s *Session) Add(rackID string, payload Payload) (string, error) {
	return s.AddAt(rackID, payload, -1)
}

// AddAt is Add with a preferred start unit, used when it is free. A
// negative unit means no preference.
func (s *Session) AddAt(rackID string, payload Payload, unit int) (string, error) {
	defer s.lock()()
	rack, err := s.rack(rackID)
	if err != nil {
		return "", err
	}
	return s.addToRack(rack, payload, unit)
}

func (s *Session) addToRack(rack *model.Rack, payload Payload, preferred int) (string, error) {
	el, err := payload.Build()
	if err != nil {
		return "", err
	}
	units := el.Units()

	start := -1
	if preferred >= 0 && engine.IsRangeFree(rack, preferred, units, nil) {
		start = preferred
	}
	if start < 0 {
		if first, ok := engine.FindFirstFreeFromTop(rack, units); ok {
			start = first
		}
	}
	if start < 0 {
		return "", s.reject(rejection(engine.ErrNoCapacity, units))
	}

	engine.Place(el, rack, start)
	s.touch()
	s.logger.Debug("element added", "id", el.ID, "name", el.Name, "rack", rack.Name, "unit", start)
	return el.ID, nil
}

// DropPayload handles a palette entry dropped on the canvas at pt. Devices
// dropped on a shelf go into its next free slot. Otherwise the payload lands
// in the rack under pt, at the unit under the pointer when free. A drop
// outside every rack and shelf returns engine.ErrNoTarget.
func (s *Session) DropPayload(payload Payload, pt model.Point) (string, error) {
	defer s.lock()()
	p := s.project

	if !payload.IsShelf() {
		if shelf := engine.ShelfAt(p, pt); shelf != nil {
			el, err := payload.Build()
			if err != nil {
				return "", err
			}
			if err := engine.PlaceInShelf(el, shelf); err != nil {
				return "", s.reject(rejection(err, el.Units()))
			}
			s.touch()
			return el.ID, nil
		}
		if engine.RequiresShelf(payload.DisplayUnits) {
			return "", s.reject(rejection(engine.ErrRequiresShelf, payload.Units()))
		}
	}

	rack := engine.RackAt(p, pt)
	if rack == nil {
		return "", engine.ErrNoTarget
	}
	top := pt.Y - float64(payload.Units())*model.UnitHeight/2
	return s.addToRack(rack, payload, engine.PixelToUnit(top, rack.Y, payload.Units()))
}

// AddRack appends a rack named after the next rack number and returns its
// ID. Racks are laid out left to right and wrap onto a new row when they
// would leave the configured canvas width.
func (s *Session) AddRack() string {
	defer s.lock()()
	name := fmt.Sprintf("%s %d", s.cfg.RackNamePrefix, s.nextRack)
	s.nextRack++

	pos := rackSlot(len(s.project.Racks), s.cfg.CanvasWidth)
	r := model.NewRack(name, pos.X, pos.Y)
	s.project.Racks = append(s.project.Racks, r)
	s.touch()
	s.logger.Info("rack added", "name", name)
	return r.ID
}

func rackSlot(index int, canvasWidth float64) model.Point {
	pitch := model.CabinetWidth + model.RackGap
	perRow := index + 1
	if canvasWidth > 0 {
		perRow = int(math.Floor((canvasWidth - model.RackOrigin + model.RackGap) / pitch))
		if perRow < 1 {
			perRow = 1
		}
	}
	col, row := index%perRow, index/perRow
	return model.Point{
		X: model.RackOrigin + float64(col)*pitch,
		Y: model.RackOrigin + float64(row)*(model.CabinetHeight+model.RackGap),
	}
}

// MoveRack moves a rack to a new canvas position.
func (s *Session) MoveRack(id string, x, y float64) error {
	defer s.lock()()
	r, err := s.rack(id)
	if err != nil {
		return err
	}
	r.X, r.Y = x, y
	s.touch()
	return nil
}

// DeleteRack removes a rack and everything placed in it.
func (s *Session) DeleteRack(id string) error {
	defer s.lock()()
	r, err := s.rack(id)
	if err != nil {
		return err
	}
	if s.selected != "" && (s.selected == id || s.ownedBy(s.selected, r)) {
		s.selected = ""
	}
	s.project.RemoveRack(id)
	s.touch()
	s.logger.Info("rack deleted", "name", r.Name)
	return nil
}

func (s *Session) ownedBy(elementID string, r *model.Rack) bool {
	el := s.project.Element(elementID)
	return el != nil && s.project.RackOf(el) == r
}
