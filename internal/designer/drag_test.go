package designer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// shelfWithDevice mounts a shelf of type typ at unit and places a device of
// the matching size into slot.
func shelfWithDevice(t *testing.T, s *Session, rackID string, typ model.ShelfType, unit, slot int) (shelfID, deviceID string) {
	t.Helper()
	shelfID, err := s.AddAt(rackID, shelf(typ), unit)
	require.NoError(t, err)
	size := s.elementForTest(t, shelfID).DisplayUnits
	require.True(t, s.SelectPayload("palette", device(size, "Nested")))
	deviceID, err = s.ClickShelfSlot(shelfID, slot)
	require.NoError(t, err)
	return shelfID, deviceID
}

func TestDrag_OutOfSlotToEmptyCanvasRestoresSlot(t *testing.T) {
	s, rec := newTestSession(t)
	rackID := s.AddRack()
	shelfID, devID := shelfWithDevice(t, s, rackID, model.Shelf3U4Slot, 5, 2)
	before := *s.elementForTest(t, devID)

	require.NoError(t, s.BeginDrag(devID))
	assert.Nil(t, s.elementForTest(t, shelfID).Shelf.Slots[2], "slot is released while dragging")
	require.NoError(t, s.MoveDrag(devID, model.Point{X: 900, Y: 900}))
	outcome, err := s.EndDrag(devID, emptyCanvas)

	require.NoError(t, err)
	assert.Equal(t, RestoredSlot, outcome)
	el := s.elementForTest(t, devID)
	idx, ok := el.SlotIndex()
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, before.X, el.X)
	assert.Equal(t, before.Y, el.Y)
	assert.Same(t, el, s.elementForTest(t, shelfID).Shelf.Slots[2])
	assert.Empty(t, s.Snapshot().Floating)
	assert.Empty(t, rec.messages(), "drag resolution never notifies")
	assertRackConsistent(t, s)
}

func TestDrag_OriginSlotTakenRevertsToCanvas(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	shelfID, devID := shelfWithDevice(t, s, rackID, model.Shelf3U4Slot, 5, 1)
	origin := s.absolute(t, devID)

	require.NoError(t, s.BeginDrag(devID))
	require.True(t, s.SelectPayload("palette", device(3, "Usurper")))
	_, err := s.ClickShelfSlot(shelfID, 1)
	require.NoError(t, err)

	outcome, err := s.EndDrag(devID, emptyCanvas)
	require.NoError(t, err)

	assert.Equal(t, Reverted, outcome)
	el := s.elementForTest(t, devID)
	assert.Equal(t, model.Unowned, el.Placement.Kind)
	assert.Equal(t, origin, model.Point{X: el.X, Y: el.Y})
	assert.Len(t, s.Snapshot().Floating, 1)
}

func TestDrag_DeviceBetweenRackUnits(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	rack := s.rackForTest(t, rackID)
	id, err := s.AddAt(rackID, device(2, "Switch"), 0)
	require.NoError(t, err)
	_, err = s.AddAt(rackID, device(2, "Blocker"), 10)
	require.NoError(t, err)

	require.NoError(t, s.BeginDrag(id))
	outcome, err := s.EndDrag(id, unitTopLeft(rack, 11))
	require.NoError(t, err)

	assert.Equal(t, PlacedRack, outcome)
	assert.Equal(t, 12, s.elementForTest(t, id).Placement.StartUnit, "nearest free to 11 with [10,12) taken")
	assertRackConsistent(t, s)
}

func TestDrag_OntoOwnRangeDoesNotSelfBlock(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	rack := s.rackForTest(t, rackID)
	id, err := s.AddAt(rackID, device(2, "Switch"), 4)
	require.NoError(t, err)

	require.NoError(t, s.BeginDrag(id))
	outcome, err := s.EndDrag(id, unitTopLeft(rack, 5))
	require.NoError(t, err)

	assert.Equal(t, PlacedRack, outcome)
	assert.Equal(t, 5, s.elementForTest(t, id).Placement.StartUnit)
}

func TestDrag_RackDeviceToEmptyCanvasRestoresRack(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	id, err := s.AddAt(rackID, device(1, "Patch"), 17)
	require.NoError(t, err)

	require.NoError(t, s.BeginDrag(id))
	outcome, err := s.EndDrag(id, emptyCanvas)
	require.NoError(t, err)

	assert.Equal(t, RestoredRack, outcome)
	el := s.elementForTest(t, id)
	assert.Equal(t, model.InRack, el.Placement.Kind)
	assert.Equal(t, 17, el.Placement.StartUnit)
	assert.Equal(t, rackID, el.Placement.RackID)
}

func TestDrag_DeviceIntoCompatibleShelf(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	shelfID, err := s.AddAt(rackID, shelf(model.Shelf6U4Slot), 20)
	require.NoError(t, err)
	_, nested := shelfWithDevice(t, s, rackID, model.Shelf6U3Slot, 0, 0)

	require.NoError(t, s.BeginDrag(nested))
	outcome, err := s.EndDrag(nested, s.absolute(t, shelfID))
	require.NoError(t, err)

	assert.Equal(t, PlacedShelf, outcome)
	el := s.elementForTest(t, nested)
	assert.Equal(t, shelfID, el.Placement.ShelfID)
	idx, _ := el.SlotIndex()
	assert.Equal(t, 0, idx)
	assertRackConsistent(t, s)
}

func TestDrag_ShelfOnlyDeviceSkipsRack(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	rack := s.rackForTest(t, rackID)
	_, nested := shelfWithDevice(t, s, rackID, model.Shelf3U6Slot, 0, 3)

	require.NoError(t, s.BeginDrag(nested))
	outcome, err := s.EndDrag(nested, unitTopLeft(rack, 30))
	require.NoError(t, err)

	assert.Equal(t, RestoredSlot, outcome, "3U devices are never placed directly on rack units")
	idx, _ := s.elementForTest(t, nested).SlotIndex()
	assert.Equal(t, 3, idx)
}

func TestDrag_IncompatibleShelfFallsBack(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	target, err := s.AddAt(rackID, shelf(model.Shelf6U4Slot), 20)
	require.NoError(t, err)
	_, nested := shelfWithDevice(t, s, rackID, model.Shelf3U4Slot, 0, 0)

	require.NoError(t, s.BeginDrag(nested))
	outcome, err := s.EndDrag(nested, s.absolute(t, target))
	require.NoError(t, err)

	assert.Equal(t, RestoredSlot, outcome)
	assert.Empty(t, s.elementForTest(t, target).Shelf.Children)
}

func TestDrag_ShelfCarriesChildren(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	rack := s.rackForTest(t, rackID)
	shelfID, devID := shelfWithDevice(t, s, rackID, model.Shelf3U4Slot, 0, 1)

	require.NoError(t, s.BeginDrag(shelfID))
	outcome, err := s.EndDrag(shelfID, unitTopLeft(rack, 25))
	require.NoError(t, err)

	assert.Equal(t, PlacedRack, outcome)
	sh := s.elementForTest(t, shelfID)
	assert.Equal(t, 25, sh.Placement.StartUnit)
	dev := s.absolute(t, devID)
	want := unitTopLeft(rack, 25)
	want.X += model.RackInnerWidth / 4
	assert.Equal(t, want, dev)
	assertRackConsistent(t, s)
}

func TestDrag_ShelfNeverNestsInShelf(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	target, err := s.AddAt(rackID, shelf(model.Shelf3U6Slot), 10)
	require.NoError(t, err)
	moving, err := s.AddAt(rackID, shelf(model.Shelf3U4Slot), 30)
	require.NoError(t, err)

	require.NoError(t, s.BeginDrag(moving))
	outcome, err := s.EndDrag(moving, s.absolute(t, target))
	require.NoError(t, err)

	assert.Equal(t, PlacedRack, outcome)
	assert.Empty(t, s.elementForTest(t, target).Shelf.Children)
	assert.Equal(t, model.InRack, s.elementForTest(t, moving).Placement.Kind)
	assertRackConsistent(t, s)
}

func TestDrag_BlinderOriginReappends(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	shelfID, err := s.AddAt(rackID, shelf(model.Shelf3UBlinder), 0)
	require.NoError(t, err)
	require.True(t, s.SelectPayload("palette", device(3, "A")))
	a, err := s.ClickShelfSlot(shelfID, 0)
	require.NoError(t, err)
	require.True(t, s.SelectPayload("palette2", device(3, "B")))
	b, err := s.ClickShelfSlot(shelfID, 0)
	require.NoError(t, err)

	require.NoError(t, s.BeginDrag(a))
	outcome, err := s.EndDrag(a, emptyCanvas)
	require.NoError(t, err)

	assert.Equal(t, RestoredSlot, outcome)
	width := model.DeviceWidth(3)
	assert.Equal(t, width, s.elementForTest(t, b).X)
	assert.Equal(t, 2*width, s.elementForTest(t, a).X, "blinder shelves re-append at the packing edge")
	assertRackConsistent(t, s)
}

func TestDrag_Errors(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	id, err := s.Add(rackID, device(1, ""))
	require.NoError(t, err)

	assert.ErrorIs(t, s.BeginDrag("missing"), ErrUnknownElement)
	_, err = s.EndDrag(id, emptyCanvas)
	assert.Error(t, err, "no drag in progress")

	require.NoError(t, s.BeginDrag(id))
	assert.True(t, s.Dragging(id))
	assert.Error(t, s.BeginDrag(id))
	_, err = s.EndDrag(id, emptyCanvas)
	require.NoError(t, err)
	assert.False(t, s.Dragging(id))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "restored-slot", RestoredSlot.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}

func TestDrag_RevertInLoadedRackWithRepeatedID(t *testing.T) {
	s, _ := newTestSession(t)
	doc := `{"version":1,"racks":[
		{"rackId":"rack-1","rackName":"A","x":20,"y":20,"devices":[{"x":20,"y":20,"units":1,"displayUnits":1,"name":"a"}]},
		{"rackId":"rack-1","rackName":"B","x":360,"y":20,"devices":[{"x":20,"y":20,"units":1,"displayUnits":1,"name":"b"}]}
	]}`
	require.NoError(t, s.LoadProject([]byte(doc)))

	var bID string
	s.View(func(p *model.Project) { bID = p.Racks[1].Elements[0].ID })

	require.NoError(t, s.BeginDrag(bID))
	outcome, err := s.EndDrag(bID, emptyCanvas)
	require.NoError(t, err)
	assert.Equal(t, RestoredRack, outcome)

	snap := s.Snapshot()
	require.Len(t, snap.Racks, 2)
	require.Len(t, snap.Racks[0].Elements, 1)
	require.Len(t, snap.Racks[1].Elements, 1)
	assert.Equal(t, "a", snap.Racks[0].Elements[0].Name)
	assert.Equal(t, "b", snap.Racks[1].Elements[0].Name)
	assert.Equal(t, 2, snap.DeviceCount())
	assertRackConsistent(t, s)
}
