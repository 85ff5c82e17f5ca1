package engine

import (
	"errors"
	"testing"

	"github.com/amassoud-ap34/rack-designer/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestUnitToPixelRoundTrip(t *testing.T) {
	const rackY = 120.0
	for u := 0; u <= model.RackUnits-1; u++ {
		y := rackY + UnitToPixel(u)
		assert.Equal(t, u, PixelToUnit(y, rackY, 1), "unit %d", u)
	}
}

func TestPixelToUnit_RoundsAndClamps(t *testing.T) {
	const rackY = 0.0
	tests := []struct {
		name  string
		y     float64
		units int
		want  int
	}{
		{"just below half rounds down", model.CabinetPadding + 0.49*model.UnitHeight, 1, 0},
		{"half rounds up", model.CabinetPadding + 0.5*model.UnitHeight, 1, 1},
		{"above the rack clamps to 0", -500, 2, 0},
		{"below the rack clamps to max", 5000, 2, 40},
		{"4U clamps to 36", 5000, 6, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PixelToUnit(tt.y, rackY, tt.units))
		})
	}
}

func TestPreferredStartUnitUsesCentre(t *testing.T) {
	rack := model.NewRack("R", 0, 0)
	d := model.NewDevice(2, "", "", "")
	// Centre of a 2U device whose top edge is at unit 7.
	centre := model.Point{X: 100, Y: UnitToPixel(7) + d.Height()/2}

	assert.Equal(t, 7, PreferredStartUnit(d, rack, centre))
}

func TestIntervalsOverlap(t *testing.T) {
	assert.True(t, IntervalsOverlap(0, 2, 1, 2))
	assert.True(t, IntervalsOverlap(5, 1, 0, 10))
	assert.False(t, IntervalsOverlap(0, 2, 2, 2), "touching intervals do not overlap")
	assert.False(t, IntervalsOverlap(4, 2, 0, 4))
}

func TestRackAtAndUnitAt(t *testing.T) {
	p := model.NewProject()
	r1 := model.NewRack("R1", 20, 20)
	r2 := model.NewRack("R2", 20+model.CabinetWidth+model.RackGap, 20)
	p.Racks = append(p.Racks, r1, r2)

	assert.Same(t, r1, RackAt(p, model.Point{X: 20, Y: 20}), "edges count as inside")
	assert.Same(t, r2, RackAt(p, model.Point{X: r2.X + 5, Y: 500}))
	assert.Nil(t, RackAt(p, model.Point{X: r1.X + model.CabinetWidth + 10, Y: 100}))

	u, ok := UnitAt(r1, r1.Y+UnitToPixel(12)+1)
	assert.True(t, ok)
	assert.Equal(t, 12, u)
	_, ok = UnitAt(r1, r1.Y+5)
	assert.False(t, ok, "padding is outside the unit grid")
}

func TestRejectedError(t *testing.T) {
	err := Reject(ErrNoCapacity, "No free %dU space in this rack.", 6)

	assert.Equal(t, "No free 6U space in this rack.", err.Error())
	assert.True(t, errors.Is(err, ErrNoCapacity))
	assert.True(t, IsRejected(err))
	assert.False(t, IsRejected(ErrNoCapacity))
}
