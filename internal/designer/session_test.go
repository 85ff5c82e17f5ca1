package designer

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

type fakePrompter struct {
	label   string
	current string
	reply   func(string, bool)
}

func (f *fakePrompter) RequestText(label, current string, reply func(string, bool)) {
	f.label, f.current, f.reply = label, current, reply
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	base := []Option{
		WithNotifier(rec),
		WithLogger(log.NewWithOptions(io.Discard, log.Options{})),
	}
	return New(append(base, opts...)...), rec
}

func device(units int, name string) Payload {
	return Payload{DisplayUnits: units, Name: name}
}

func shelf(t model.ShelfType) Payload {
	return ShelfPayload(model.ShelfItem{ShelfType: t})
}

func (s *Session) elementForTest(t *testing.T, id string) *model.Element {
	t.Helper()
	var el *model.Element
	s.View(func(p *model.Project) { el = p.Element(id) })
	require.NotNil(t, el, "element %s", id)
	return el
}

func (s *Session) rackForTest(t *testing.T, id string) *model.Rack {
	t.Helper()
	var r *model.Rack
	s.View(func(p *model.Project) { r = p.Rack(id) })
	require.NotNil(t, r, "rack %s", id)
	return r
}

func (s *Session) absolute(t *testing.T, id string) model.Point {
	t.Helper()
	var pos model.Point
	s.View(func(p *model.Project) { pos = p.AbsolutePosition(p.Element(id)) })
	return pos
}

// unitTopLeft is the canvas position of a rack element starting at unit.
func unitTopLeft(r *model.Rack, unit int) model.Point {
	return model.Point{X: r.X + model.CabinetPadding, Y: r.Y + engine.UnitToPixel(unit)}
}

var emptyCanvas = model.Point{X: 5000, Y: 5000}

func assertRackConsistent(t *testing.T, s *Session) {
	t.Helper()
	s.View(func(p *model.Project) {
		for _, r := range p.Racks {
			a, b, ok := engine.ValidateRack(r)
			assert.True(t, ok, "rack %s: %v overlaps %v", r.Name, a, b)
			for _, e := range r.Elements {
				if e.IsShelf() {
					assert.True(t, engine.ValidateShelf(e), "shelf %s", e.Name)
				}
			}
		}
	})
}

func TestAddRack_NamingAndLayout(t *testing.T) {
	s, _ := newTestSession(t)

	ids := []string{s.AddRack(), s.AddRack(), s.AddRack()}

	for i, id := range ids {
		r := s.rackForTest(t, id)
		assert.Equal(t, []string{"Rack 1", "Rack 2", "Rack 3"}[i], r.Name)
		assert.Equal(t, model.RackOrigin+float64(i)*(model.CabinetWidth+model.RackGap), r.X)
		assert.Equal(t, model.RackOrigin, r.Y)
	}

	require.NoError(t, s.DeleteRack(ids[1]))
	assert.Equal(t, "Rack 4", s.rackForTest(t, s.AddRack()).Name, "rack numbers are never reused")
}

func TestAddRack_WrapsToCanvasWidth(t *testing.T) {
	cfg := model.DefaultAppConfig()
	cfg.CanvasWidth = 700
	cfg.RackNamePrefix = "Cab"
	s, _ := newTestSession(t, WithConfig(cfg))

	s.AddRack()
	s.AddRack()
	third := s.rackForTest(t, s.AddRack())

	assert.Equal(t, "Cab 3", third.Name)
	assert.Equal(t, model.RackOrigin, third.X)
	assert.Equal(t, model.RackOrigin+model.CabinetHeight+model.RackGap, third.Y)
}

func TestAdd_FirstFreeFromTop(t *testing.T) {
	s, rec := newTestSession(t)
	rackID := s.AddRack()

	first, err := s.Add(rackID, device(2, "Switch"))
	require.NoError(t, err)
	second, err := s.Add(rackID, device(1, ""))
	require.NoError(t, err)

	assert.Equal(t, 0, s.elementForTest(t, first).Placement.StartUnit)
	el := s.elementForTest(t, second)
	assert.Equal(t, 2, el.Placement.StartUnit)
	assert.Equal(t, "Device 1U", el.Name)
	assert.Empty(t, rec.messages())
}

func TestAddAt_PreferredUnitOrFallback(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()

	a, err := s.AddAt(rackID, device(2, "A"), 41)
	require.NoError(t, err)
	assert.Equal(t, 0, s.elementForTest(t, a).Placement.StartUnit, "41 cannot hold 2U, first free from top is used")

	b, err := s.AddAt(rackID, device(2, "B"), 20)
	require.NoError(t, err)
	assert.Equal(t, 20, s.elementForTest(t, b).Placement.StartUnit)

	c, err := s.AddAt(rackID, device(1, "C"), 21)
	require.NoError(t, err)
	assert.Equal(t, 2, s.elementForTest(t, c).Placement.StartUnit)
}

func TestAdd_ShelfPayloadCreatesShelf(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()

	id, err := s.Add(rackID, shelf(model.Shelf6U3Slot))
	require.NoError(t, err)

	el := s.elementForTest(t, id)
	require.True(t, el.IsShelf())
	assert.Equal(t, "Shelf 6U (3 slots)", el.Name)
	assert.Equal(t, 6, el.Units())
	assert.Len(t, el.Shelf.Slots, 3)
}

func TestAdd_NoCapacityDiscardsElement(t *testing.T) {
	s, rec := newTestSession(t)
	rackID := s.AddRack()
	for i := 0; i < 7; i++ {
		_, err := s.Add(rackID, device(4, "Server"))
		require.NoError(t, err)
	}

	_, err := s.Add(rackID, device(4, "One too many"))

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrNoCapacity)
	assert.True(t, engine.IsRejected(err))
	assert.Equal(t, []string{"No free 6U space in this rack."}, rec.messages())
	snap := s.Snapshot()
	assert.Equal(t, 7, snap.DeviceCount())
	assert.Empty(t, snap.Floating)
}

func TestAdd_UnknownRack(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Add("nope", device(1, ""))
	assert.ErrorIs(t, err, ErrUnknownRack)
}

func TestDropPayload(t *testing.T) {
	s, rec := newTestSession(t)
	rack := s.rackForTest(t, s.AddRack())

	pt := unitTopLeft(rack, 12)
	pt.X += 50
	pt.Y += model.UnitHeight / 2
	id, err := s.DropPayload(device(1, "Patch"), pt)
	require.NoError(t, err)
	assert.Equal(t, 12, s.elementForTest(t, id).Placement.StartUnit)

	_, err = s.DropPayload(device(3, "NAS"), pt)
	assert.ErrorIs(t, err, engine.ErrRequiresShelf)
	assert.Equal(t, []string{"Place this device into a matching shelf slot."}, rec.messages())

	_, err = s.DropPayload(device(1, "Lost"), emptyCanvas)
	assert.ErrorIs(t, err, engine.ErrNoTarget)
	assert.Len(t, rec.messages(), 1, "drops outside every rack are silent")

	shelfID, err := s.AddAt(rack.ID, shelf(model.Shelf3U4Slot), 30)
	require.NoError(t, err)
	onShelf := s.absolute(t, shelfID)
	onShelf.X += 10
	onShelf.Y += 10
	nas, err := s.DropPayload(device(3, "NAS"), onShelf)
	require.NoError(t, err)
	idx, ok := s.elementForTest(t, nas).SlotIndex()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assertRackConsistent(t, s)
}

func TestLoadProject_InvalidLeavesWorkspace(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	_, err := s.Add(rackID, device(2, "Keep me"))
	require.NoError(t, err)
	before, err := s.Serialize()
	require.NoError(t, err)

	err = s.LoadProject([]byte(`{"version":1,"racks":"oops"}`))

	require.Error(t, err)
	after, err := s.Serialize()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestLoadProject_ReplacesAndResetsRackCounter(t *testing.T) {
	s, _ := newTestSession(t)
	for i := 0; i < 4; i++ {
		s.AddRack()
	}
	require.True(t, s.SelectPayload("1U/Patch", device(1, "Patch")))

	doc := `{"version":1,"racks":[{"rackId":"r1","rackName":"Lab","x":20,"y":20,"devices":[]}]}`
	require.NoError(t, s.LoadProject([]byte(doc)))

	_, _, pending := s.Pending()
	assert.False(t, pending, "loading clears the pending selection")
	assert.Equal(t, "Lab", s.rackForTest(t, "r1").Name)
	assert.Equal(t, "Rack 2", s.rackForTest(t, s.AddRack()).Name)
}

func TestOnChangeAndNotifyRunOutsideLock(t *testing.T) {
	var changes int
	var s *Session
	rec := NotifierFunc(func(string) {
		// Re-entering the session must not deadlock.
		_, _, _ = s.Pending()
	})
	s = New(WithNotifier(rec), WithLogger(log.NewWithOptions(io.Discard, log.Options{})))
	s.OnChange(func() {
		changes++
		_ = s.Selected()
	})

	rackID := s.AddRack()
	assert.Equal(t, 1, changes)
	rev := s.Revision()

	s.SelectPayload("3U", device(3, "NAS"))
	_, err := s.ClickRackUnit(rackID, 0)
	assert.ErrorIs(t, err, engine.ErrRequiresShelf)
	assert.Equal(t, rev, s.Revision(), "a rejected placement changes nothing")
}

func TestSnapshotIsIndependent(t *testing.T) {
	s, _ := newTestSession(t)
	rackID := s.AddRack()
	id, err := s.Add(rackID, device(1, "Original"))
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Element(id).Name = "Changed"

	assert.Equal(t, "Original", s.elementForTest(t, id).Name)
}
