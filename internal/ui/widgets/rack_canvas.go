package widgets

import (
	"errors"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/amassoud-ap34/rack-designer/internal/designer"
	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

var (
	cabinetFill   = color.NRGBA{R: 74, G: 85, B: 104, A: 255}
	frameFill     = color.NRGBA{R: 26, G: 32, B: 44, A: 255}
	unitLine      = color.NRGBA{R: 74, G: 85, B: 104, A: 255}
	unitLabel     = color.NRGBA{R: 160, G: 174, B: 192, A: 255}
	rackTitle     = color.NRGBA{R: 237, G: 242, B: 247, A: 255}
	slotDivider   = color.NRGBA{R: 160, G: 174, B: 192, A: 160}
	selectedColor = color.NRGBA{R: 49, G: 130, B: 206, A: 255}
	pendingColor  = color.NRGBA{R: 72, G: 187, B: 120, A: 255}
)

// RackCanvas draws the racks of a designer session and forwards pointer
// input to it: taps become click-to-place or selection, drags move
// elements through the drag protocol, and drags on an empty cabinet move
// the rack.
type RackCanvas struct {
	widget.BaseWidget
	session *designer.Session

	// OnSecondaryTap is called with the element or rack under a right
	// click. Both IDs are empty on bare canvas.
	OnSecondaryTap func(elementID, rackID string, pos fyne.Position)
	// OnError receives unexpected session errors. Rejections are already
	// reported through the session notifier.
	OnError func(err error)

	drag *dragState
}

type dragState struct {
	elementID string
	rackID    string
	grab      model.Point
	last      model.Point
}

// NewRackCanvas returns a canvas bound to s. It refreshes itself whenever
// the session changes.
func NewRackCanvas(s *designer.Session) *RackCanvas {
	rc := &RackCanvas{session: s}
	rc.ExtendBaseWidget(rc)
	s.OnChange(func() {
		fyne.Do(rc.Refresh)
	})
	return rc
}

func (rc *RackCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &rackCanvasRenderer{rc: rc}
	r.rebuild()
	return r
}

func toPoint(p fyne.Position) model.Point {
	return model.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (rc *RackCanvas) report(err error) {
	if err == nil || errors.Is(err, engine.ErrNoTarget) || engine.IsRejected(err) {
		return
	}
	if rc.OnError != nil {
		rc.OnError(err)
	}
}

// Tapped implements fyne.Tappable.
func (rc *RackCanvas) Tapped(ev *fyne.PointEvent) {
	_, err := rc.session.ClickAt(toPoint(ev.Position))
	rc.report(err)
}

// TappedSecondary implements fyne.SecondaryTappable.
func (rc *RackCanvas) TappedSecondary(ev *fyne.PointEvent) {
	pt := toPoint(ev.Position)
	var elementID, rackID string
	rc.session.View(func(p *model.Project) {
		if el := engine.ElementAt(p, pt); el != nil {
			elementID = el.ID
		}
		if r := engine.RackAt(p, pt); r != nil {
			rackID = r.ID
		}
	})
	if elementID != "" {
		rc.report(rc.session.Select(elementID))
	}
	if rc.OnSecondaryTap != nil {
		rc.OnSecondaryTap(elementID, rackID, ev.AbsolutePosition)
	}
}

// Dragged implements fyne.Draggable.
func (rc *RackCanvas) Dragged(ev *fyne.DragEvent) {
	pt := toPoint(ev.Position)
	if rc.drag == nil {
		start := model.Point{X: pt.X - float64(ev.Dragged.DX), Y: pt.Y - float64(ev.Dragged.DY)}
		rc.drag = rc.beginDrag(start)
	}
	d := rc.drag
	d.last = model.Point{X: pt.X - d.grab.X, Y: pt.Y - d.grab.Y}

	switch {
	case d.elementID != "":
		rc.report(rc.session.MoveDrag(d.elementID, d.last))
	case d.rackID != "":
		x, y := d.last.X, d.last.Y
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}
		rc.report(rc.session.MoveRack(d.rackID, x, y))
	}
}

func (rc *RackCanvas) beginDrag(start model.Point) *dragState {
	d := &dragState{}
	rc.session.View(func(p *model.Project) {
		if el := engine.ElementAt(p, start); el != nil {
			pos := p.AbsolutePosition(el)
			d.elementID = el.ID
			d.grab = model.Point{X: start.X - pos.X, Y: start.Y - pos.Y}
			return
		}
		if r := engine.RackAt(p, start); r != nil {
			d.rackID = r.ID
			d.grab = model.Point{X: start.X - r.X, Y: start.Y - r.Y}
		}
	})
	if d.elementID != "" {
		if err := rc.session.BeginDrag(d.elementID); err != nil {
			rc.report(err)
			d.elementID = ""
		}
	}
	return d
}

// DragEnd implements fyne.Draggable.
func (rc *RackCanvas) DragEnd() {
	d := rc.drag
	rc.drag = nil
	if d == nil || d.elementID == "" {
		return
	}
	_, err := rc.session.EndDrag(d.elementID, d.last)
	rc.report(err)
}

type rackCanvasRenderer struct {
	rc       *RackCanvas
	objects  []fyne.CanvasObject
	size     fyne.Size
	selected string
}

func (r *rackCanvasRenderer) rebuild() {
	r.objects = nil
	r.selected = r.rc.session.Selected()
	var w, h float32
	r.rc.session.View(func(p *model.Project) {
		for _, rack := range p.Racks {
			r.drawRack(p, rack)
			if right := float32(rack.X + model.CabinetWidth); right > w {
				w = right
			}
			if bottom := float32(rack.Y + model.CabinetHeight); bottom > h {
				h = bottom
			}
		}
		for _, el := range p.Floating {
			r.drawElement(p, el)
		}
	})
	_, _, pending := r.rc.session.Pending()
	if pending {
		hint := canvas.NewText("Click a rack unit or shelf slot to place", pendingColor)
		hint.TextSize = 11
		hint.Move(fyne.NewPos(model.RackOrigin, 2))
		r.objects = append(r.objects, hint)
	}
	r.size = fyne.NewSize(w+model.RackOrigin, h+model.RackOrigin)
}

func rect(fill, stroke color.Color, strokeWidth float32, x, y, w, h float64) *canvas.Rectangle {
	rc := canvas.NewRectangle(fill)
	rc.StrokeColor = stroke
	rc.StrokeWidth = strokeWidth
	rc.Resize(fyne.NewSize(float32(w), float32(h)))
	rc.Move(fyne.NewPos(float32(x), float32(y)))
	return rc
}

func (r *rackCanvasRenderer) drawRack(p *model.Project, rack *model.Rack) {
	r.objects = append(r.objects,
		rect(cabinetFill, color.Transparent, 0, rack.X, rack.Y, model.CabinetWidth, model.CabinetHeight))
	r.objects[len(r.objects)-1].(*canvas.Rectangle).CornerRadius = 6

	fx, fy := rack.X+model.CabinetPadding, rack.Y+model.CabinetPadding
	r.objects = append(r.objects, rect(frameFill, unitLine, 1, fx, fy, model.RackWidth, model.RackHeight))

	title := canvas.NewText(rack.Name, rackTitle)
	title.TextSize = 11
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Move(fyne.NewPos(float32(fx), float32(rack.Y+3)))
	r.objects = append(r.objects, title)

	for i := 0; i < model.RackUnits; i++ {
		y := fy + float64(i)*model.UnitHeight
		if i > 0 {
			line := canvas.NewLine(unitLine)
			line.StrokeWidth = 1
			line.Position1 = fyne.NewPos(float32(fx), float32(y))
			line.Position2 = fyne.NewPos(float32(fx+model.RackInnerWidth), float32(y))
			r.objects = append(r.objects, line)
		}
		label := canvas.NewText(fmt.Sprint(model.UnitLabel(i)), unitLabel)
		label.TextSize = 9
		label.Move(fyne.NewPos(float32(fx+model.RackInnerWidth+6), float32(y+5)))
		r.objects = append(r.objects, label)
	}

	for _, el := range rack.Elements {
		r.drawElement(p, el)
		if el.IsShelf() {
			r.drawSlots(p, el)
			for _, c := range el.Shelf.Children {
				r.drawElement(p, c)
			}
		}
	}
}

func (r *rackCanvasRenderer) drawSlots(p *model.Project, shelf *model.Element) {
	n := len(shelf.Shelf.Slots)
	if n < 2 {
		return
	}
	pos := p.AbsolutePosition(shelf)
	w := engine.SlotWidth(shelf)
	for i := 1; i < n; i++ {
		x := float32(pos.X + float64(i)*w)
		line := canvas.NewLine(slotDivider)
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(x, float32(pos.Y+2))
		line.Position2 = fyne.NewPos(x, float32(pos.Y+shelf.Height()-2))
		r.objects = append(r.objects, line)
	}
}

func (r *rackCanvasRenderer) drawElement(p *model.Project, el *model.Element) {
	scheme := model.SchemeFor(el)
	pos := p.AbsolutePosition(el)

	stroke := color.Color(model.MustColor(scheme.Stroke))
	width := float32(1)
	if el.ID == r.selected {
		stroke, width = selectedColor, 2
	}
	box := rect(model.MustColor(scheme.Fill), stroke, width, pos.X, pos.Y, el.Width, el.Height())
	box.CornerRadius = 2
	r.objects = append(r.objects, box)

	if el.Width > 24 {
		name := canvas.NewText(el.Name, model.MustColor(scheme.Text))
		name.TextSize = 10
		if el.Width < 60 {
			name.TextSize = 8
		}
		name.Move(fyne.NewPos(float32(pos.X+4), float32(pos.Y+4)))
		r.objects = append(r.objects, name)
	}
}

func (r *rackCanvasRenderer) Layout(size fyne.Size)        {}
func (r *rackCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *rackCanvasRenderer) Destroy()                     {}
func (r *rackCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *rackCanvasRenderer) MinSize() fyne.Size           { return r.size }
