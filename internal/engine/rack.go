// Package engine implements the rack and shelf occupancy rules: converting
// canvas coordinates to rack units, finding free unit ranges and shelf
// slots, and committing placements onto the project tree.
//
// All functions operate on explicit model values and never consult UI state.
package engine

import (
	"math"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// IsRangeFree reports whether [startUnit, startUnit+units) lies inside the
// rack and overlaps no directly placed element other than ignore.
func IsRangeFree(rack *model.Rack, startUnit, units int, ignore *model.Element) bool {
	if startUnit < 0 || startUnit+units > model.RackUnits {
		return false
	}
	for _, e := range rack.Elements {
		if e == ignore || e.Placement.Kind != model.InRack {
			continue
		}
		if IntervalsOverlap(startUnit, units, e.Placement.StartUnit, e.Units()) {
			return false
		}
	}
	return true
}

// FindNearestFree returns the free start unit closest to preferred. Ties go
// to the lower unit. The second result is false when nothing fits.
func FindNearestFree(rack *model.Rack, units, preferred int, ignore *model.Element) (int, bool) {
	preferred = clampUnit(preferred, units)
	best := -1
	bestDist := math.MaxInt
	for start := 0; start <= MaxStartUnit(units); start++ {
		if !IsRangeFree(rack, start, units, ignore) {
			continue
		}
		dist := start - preferred
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best = start
			bestDist = dist
		}
	}
	return best, best >= 0
}

// FindFirstFreeFromTop returns the lowest free start unit.
func FindFirstFreeFromTop(rack *model.Rack, units int) (int, bool) {
	for start := 0; start <= MaxStartUnit(units); start++ {
		if IsRangeFree(rack, start, units, nil) {
			return start, true
		}
	}
	return -1, false
}

// Place commits el to rack at startUnit. It performs no validation; the
// caller must have detached el from its previous owner and checked that
// the range is free.
func Place(el *model.Element, rack *model.Rack, startUnit int) {
	el.Placement = model.RackPlacement(rack.ID, startUnit)
	el.X = model.CabinetPadding
	el.Y = UnitToPixel(startUnit)
	for _, e := range rack.Elements {
		if e == el {
			return
		}
	}
	rack.Elements = append(rack.Elements, el)
}

// Occupancy returns, for each rack unit, the element occupying it or nil.
func Occupancy(rack *model.Rack) [model.RackUnits]*model.Element {
	var units [model.RackUnits]*model.Element
	for _, e := range rack.Elements {
		if e.Placement.Kind != model.InRack {
			continue
		}
		for u := e.Placement.StartUnit; u < e.Placement.StartUnit+e.Units() && u < model.RackUnits; u++ {
			if u >= 0 {
				units[u] = e
			}
		}
	}
	return units
}

// FreeUnits counts the unoccupied units of a rack.
func FreeUnits(rack *model.Rack) int {
	free := 0
	for _, e := range Occupancy(rack) {
		if e == nil {
			free++
		}
	}
	return free
}

// ValidateRack checks that the rack's elements lie inside the rack and do
// not overlap. It returns the first offending pair, if any.
func ValidateRack(rack *model.Rack) (a, b *model.Element, ok bool) {
	for i, e := range rack.Elements {
		if e.Placement.StartUnit < 0 || e.Placement.StartUnit+e.Units() > model.RackUnits {
			return e, nil, false
		}
		for _, o := range rack.Elements[i+1:] {
			if IntervalsOverlap(e.Placement.StartUnit, e.Units(), o.Placement.StartUnit, o.Units()) {
				return e, o, false
			}
		}
	}
	return nil, nil, true
}
