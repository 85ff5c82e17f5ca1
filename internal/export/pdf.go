package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	legendGap    = 10.0
)

// Cabinet colours, matching the canvas widget.
var (
	cabinetFill  = model.MustColor("#2D3748")
	cabinetEdge  = model.MustColor("#4A5568")
	frameEdge    = model.MustColor("#CBD5E0")
	gridLine     = model.MustColor("#E2E8F0")
	unitLabelCol = model.MustColor("#718096")
)

// ExportPDF writes a rack elevation document: one page per rack with a
// scaled drawing and a device table, followed by a summary page.
func ExportPDF(path string, p *model.Project) error {
	if len(p.Racks) == 0 {
		return fmt.Errorf("no racks to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	entries := Entries(p)
	for _, r := range p.Racks {
		pdf.AddPage()
		renderRackPage(pdf, r, entriesOf(entries, r.ID))
	}

	pdf.AddPage()
	renderSummaryPage(pdf, p, entries)

	return pdf.OutputFileAndClose(path)
}

func entriesOf(entries []Entry, rackID string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.RackID == rackID {
			out = append(out, e)
		}
	}
	return out
}

func setFill(pdf *fpdf.Fpdf, hex string) {
	c := model.MustColor(hex)
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setDraw(pdf *fpdf.Fpdf, hex string) {
	c := model.MustColor(hex)
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setText(pdf *fpdf.Fpdf, hex string) {
	c := model.MustColor(hex)
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}

// renderRackPage draws one rack elevation on the current page.
func renderRackPage(pdf *fpdf.Fpdf, r *model.Rack, entries []Entry) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, r.Name, "", 0, "L", false, 0, "")

	free := engine.FreeUnits(r)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Devices: %d | Used: %dU of %dU | Free: %dU",
		len(Devices(entries)), model.RackUnits-free, model.RackUnits, free)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := drawHeight / model.CabinetHeight
	canvasW := model.CabinetWidth * scale
	canvasH := model.CabinetHeight * scale
	ox := marginLeft
	oy := drawAreaTop

	pdf.SetFillColor(int(cabinetFill.R), int(cabinetFill.G), int(cabinetFill.B))
	pdf.SetDrawColor(int(cabinetEdge.R), int(cabinetEdge.G), int(cabinetEdge.B))
	pdf.SetLineWidth(0.6)
	pdf.RoundedRect(ox, oy, canvasW, canvasH, 8*scale, "1234", "FD")

	fx := ox + model.CabinetPadding*scale
	fy := oy + model.CabinetPadding*scale
	pdf.SetFillColor(255, 255, 255)
	pdf.SetDrawColor(int(frameEdge.R), int(frameEdge.G), int(frameEdge.B))
	pdf.SetLineWidth(0.2)
	pdf.Rect(fx, fy, model.RackWidth*scale, model.RackHeight*scale, "FD")

	drawUnitGrid(pdf, fx, fy, scale)

	for _, el := range r.Elements {
		pos := model.Point{X: ox + el.X*scale, Y: oy + el.Y*scale}
		drawElement(pdf, el, pos, scale)
		if el.IsShelf() {
			for _, c := range el.Shelf.Children {
				drawElement(pdf, c, model.Point{X: pos.X + c.X*scale, Y: pos.Y + c.Y*scale}, scale)
			}
		}
	}

	drawDeviceTable(pdf, entries, ox+canvasW+legendGap, drawAreaTop)
}

// drawUnitGrid draws the unit rows and the side labels counting down from 42.
func drawUnitGrid(pdf *fpdf.Fpdf, fx, fy, scale float64) {
	uh := model.UnitHeight * scale
	inner := model.RackInnerWidth * scale

	pdf.SetDrawColor(int(gridLine.R), int(gridLine.G), int(gridLine.B))
	pdf.SetLineWidth(0.1)
	pdf.SetFont("Helvetica", "", 4)
	pdf.SetTextColor(int(unitLabelCol.R), int(unitLabelCol.G), int(unitLabelCol.B))
	for i := 0; i < model.RackUnits; i++ {
		y := fy + float64(i)*uh
		pdf.Rect(fx, y, inner, uh, "D")
		pdf.SetXY(fx+inner, y)
		pdf.CellFormat(model.RackSideLabelWidth*scale, uh, fmt.Sprintf("%d", model.UnitLabel(i)), "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawElement renders a device or shelf body with its name.
func drawElement(pdf *fpdf.Fpdf, el *model.Element, pos model.Point, scale float64) {
	scheme := model.SchemeFor(el)
	w := el.Width * scale
	h := el.Height() * scale

	setFill(pdf, scheme.Fill)
	setDraw(pdf, scheme.Stroke)
	pdf.SetLineWidth(0.25)
	pdf.Rect(pos.X, pos.Y, w, h, "FD")

	if el.IsShelf() {
		// Shelf names sit in the top strip above the nested devices.
		h = math.Min(h, model.UnitHeight*scale)
	}
	if w < 4 || h < 2 {
		return
	}
	size := labelFontSize(w, h)
	pdf.SetFont("Helvetica", "", size)
	setText(pdf, scheme.Text)
	name := fitText(pdf, el.Name, w-1)
	if name != "" {
		pdf.SetXY(pos.X, pos.Y)
		pdf.CellFormat(w, h, name, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}

// drawDeviceTable lists the rack contents top to bottom.
func drawDeviceTable(pdf *fpdf.Fpdf, entries []Entry, x, y float64) {
	colWidths := []float64{24, 70, 14, 70}
	headers := []string{"Units", "Name", "Size", "Shelf"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := x
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 8)
	maxY := pageHeight - marginBottom - 5
	for i, e := range entries {
		if y > maxY {
			pdf.SetXY(x, y)
			pdf.CellFormat(100, 5, fmt.Sprintf("... %d more", len(entries)-i), "", 0, "L", false, 0, "")
			return
		}
		name := e.Name
		if e.Shelf != "" {
			name = "  " + name
		}
		size := fmt.Sprintf("%dU", e.Size)
		if e.IsShelf {
			size = "shelf"
		}
		row := []string{e.Units(), name, size, e.Location()}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = x
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			align := "C"
			if j == 1 || j == 3 {
				align = "L"
			}
			pdf.CellFormat(colWidths[j], 5, fitText(pdf, cell, colWidths[j]-1), "1", 0, align, true, 0, "")
			xPos += colWidths[j]
		}
		setFill(pdf, e.Color)
		pdf.Rect(x-4, y+1, 3, 3, "F")
		y += 5
	}
}

// renderSummaryPage draws the closing page with per-rack totals.
func renderSummaryPage(pdf *fpdf.Fpdf, p *model.Project, entries []Entry) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Rack Layout Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	shelves := 0
	for _, e := range entries {
		if e.IsShelf {
			shelves++
		}
	}
	summaryItems := []struct {
		label string
		value string
	}{
		{"Racks", fmt.Sprintf("%d", len(p.Racks))},
		{"Devices", fmt.Sprintf("%d", p.DeviceCount())},
		{"Shelves", fmt.Sprintf("%d", shelves)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Rack Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{70, 30, 30, 35, 35}
	headers := []string{"Rack", "Devices", "Shelves", "Used", "Free"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range p.Racks {
		rackEntries := entriesOf(entries, r.ID)
		free := engine.FreeUnits(r)
		rowData := []string{
			r.Name,
			fmt.Sprintf("%d", len(Devices(rackEntries))),
			fmt.Sprintf("%d", len(rackEntries)-len(Devices(rackEntries))),
			fmt.Sprintf("%dU", model.RackUnits-free),
			fmt.Sprintf("%dU", free),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by Rack Designer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 6:
		return 7
	case minDim > 3.5:
		return 6
	default:
		return 5
	}
}

// fitText truncates s with an ellipsis until it fits width.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	if s == "" {
		return ""
	}
	return s + "..."
}
