package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// DXF layer names.
const (
	LayerRack    = "RACK"
	LayerDevices = "DEVICES"
	LayerLabels  = "LABELS"
)

// DXFScale converts canvas pixels to drawing millimetres. The canvas
// draws 5 pixels per centimetre.
const DXFScale = 2.0

// ExportDXF writes every rack as a front elevation. Racks keep their canvas
// positions; the Y axis is flipped so the drawing reads top-down in CAD.
func ExportDXF(path string, p *model.Project) error {
	if len(p.Racks) == 0 {
		return fmt.Errorf("no racks to export")
	}

	d := dxf.NewDrawing()
	for _, l := range []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerRack, color.White},
		{LayerDevices, color.Cyan},
		{LayerLabels, color.Yellow},
	} {
		if _, err := d.AddLayer(l.name, l.col, table.LT_CONTINUOUS, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	w := dxfWriter{d: d}
	for _, r := range p.Racks {
		w.rack(r)
	}
	if w.err != nil {
		return w.err
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// dxfWriter keeps the first drawing error so the geometry code stays flat.
type dxfWriter struct {
	d   *drawing.Drawing
	err error
}

func (w *dxfWriter) layer(name string) {
	if w.err == nil {
		w.err = w.d.ChangeLayer(name)
	}
}

// pt maps a canvas point into drawing coordinates.
func pt(x, y float64) (float64, float64) {
	return x * DXFScale, -y * DXFScale
}

func (w *dxfWriter) line(x1, y1, x2, y2 float64) {
	if w.err != nil {
		return
	}
	ax, ay := pt(x1, y1)
	bx, by := pt(x2, y2)
	_, w.err = w.d.Line(ax, ay, 0, bx, by, 0)
}

func (w *dxfWriter) box(x, y, width, height float64) {
	w.line(x, y, x+width, y)
	w.line(x+width, y, x+width, y+height)
	w.line(x+width, y+height, x, y+height)
	w.line(x, y+height, x, y)
}

func (w *dxfWriter) text(s string, x, y, height float64) {
	if w.err != nil || s == "" {
		return
	}
	tx, ty := pt(x, y)
	_, w.err = w.d.Text(s, tx, ty, 0, height*DXFScale)
}

func (w *dxfWriter) rack(r *model.Rack) {
	w.layer(LayerRack)
	w.box(r.X, r.Y, model.CabinetWidth, model.CabinetHeight)
	fx, fy := r.X+model.CabinetPadding, r.Y+model.CabinetPadding
	w.box(fx, fy, model.RackWidth, model.RackHeight)
	for i := 1; i < model.RackUnits; i++ {
		y := fy + float64(i)*model.UnitHeight
		w.line(fx, y, fx+model.RackInnerWidth, y)
	}
	w.line(fx+model.RackInnerWidth, fy, fx+model.RackInnerWidth, fy+model.RackHeight)

	w.layer(LayerLabels)
	w.text(r.Name, fx, r.Y+model.CabinetPadding-4, 10)
	for i := 0; i < model.RackUnits; i++ {
		y := fy + float64(i+1)*model.UnitHeight - 6
		w.text(fmt.Sprintf("%d", model.UnitLabel(i)), fx+model.RackInnerWidth+6, y, 8)
	}

	for _, el := range r.Elements {
		x, y := r.X+el.X, r.Y+el.Y
		w.element(el, x, y)
		if el.IsShelf() {
			for _, c := range el.Shelf.Children {
				w.element(c, x+c.X, y+c.Y)
			}
		}
	}
}

func (w *dxfWriter) element(el *model.Element, x, y float64) {
	w.layer(LayerDevices)
	w.box(x, y, el.Width, el.Height())
	w.layer(LayerLabels)
	w.text(el.Name, x+3, y+model.UnitHeight-7, 7)
}
