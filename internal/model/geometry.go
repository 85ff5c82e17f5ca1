package model

// Rack geometry. All pixel dimensions follow the designer's scale of
// 5 pixels per centimetre.
const (
	// RackUnits is the number of unit slots in every rack.
	RackUnits = 42

	// UnitHeight is the pixel height of one rack unit (4.5 cm).
	UnitHeight = 22.5

	// CabinetPadding surrounds the rack frame on every side.
	CabinetPadding = 20.0

	RackWidth          = 260.0
	RackSideLabelWidth = 30.0

	// RackInnerWidth is the usable width for devices and shelves.
	RackInnerWidth = RackWidth - RackSideLabelWidth

	RackHeight    = RackUnits * UnitHeight
	CabinetWidth  = RackWidth + CabinetPadding*2
	CabinetHeight = RackHeight + CabinetPadding*2

	// RackGap is the horizontal gap between auto-placed racks.
	RackGap = 40.0

	// RackOrigin is the offset of the first auto-placed rack.
	RackOrigin = 20.0
)

// Point is a position on the design canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// ReservedUnits returns the number of physical rack units an element of the
// given display size consumes. A 4U device always reserves 6 units.
func ReservedUnits(displayUnits int) int {
	if displayUnits == 4 {
		return 6
	}
	return displayUnits
}

// DeviceWidth returns the pixel width of a device of the given display size.
// 3U and 4U devices are sized to fit the slots of the matching shelves.
func DeviceWidth(displayUnits int) float64 {
	switch displayUnits {
	case 3:
		return RackInnerWidth / 6
	case 4:
		return RackInnerWidth / 4
	default:
		return RackInnerWidth
	}
}

// ValidDisplayUnits reports whether n is a known display size class.
func ValidDisplayUnits(n int) bool {
	return n >= 1 && n <= 4
}

// UnitLabel returns the number printed beside unit index i. Labels count
// down from 42 at the top of the rack.
func UnitLabel(i int) int {
	return RackUnits - i
}
