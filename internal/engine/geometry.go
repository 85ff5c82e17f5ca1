package engine

import (
	"math"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// PixelToUnit converts the top edge of an element at canvas y dropY into a
// start unit of the rack whose frame starts at rackOriginY. The result is
// rounded to the nearest unit and clamped so an element of the given size
// stays inside the rack.
func PixelToUnit(dropY, rackOriginY float64, units int) int {
	raw := (dropY - rackOriginY - model.CabinetPadding) / model.UnitHeight
	return clampUnit(int(math.Round(raw)), units)
}

// PreferredStartUnit returns the start unit for an element whose centre is
// at point, dropped onto rack.
func PreferredStartUnit(el *model.Element, rack *model.Rack, centre model.Point) int {
	return PixelToUnit(centre.Y-el.Height()/2, rack.Y, el.Units())
}

// UnitToPixel returns the rack-relative y of a start unit.
func UnitToPixel(startUnit int) float64 {
	return model.CabinetPadding + float64(startUnit)*model.UnitHeight
}

// MaxStartUnit is the highest start unit an element of the given size can use.
func MaxStartUnit(units int) int {
	return model.RackUnits - units
}

// IntervalsOverlap reports whether [startA, startA+lenA) and
// [startB, startB+lenB) intersect. Touching intervals do not overlap.
func IntervalsOverlap(startA, lenA, startB, lenB int) bool {
	return startA < startB+lenB && startA+lenA > startB
}

func clampUnit(u, units int) int {
	maxStart := MaxStartUnit(units)
	if maxStart < 0 {
		maxStart = 0
	}
	if u > maxStart {
		return maxStart
	}
	if u < 0 {
		return 0
	}
	return u
}
