package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// LabelInfo holds the data encoded into each asset label's QR code.
type LabelInfo struct {
	Rack   string `json:"rack"`
	Unit   string `json:"unit"`
	Device string `json:"device"`
	Size   int    `json:"size"`
	Shelf  string `json:"shelf,omitempty"`
	Slot   int    `json:"slot,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
	swatchWidth     = 1.5  // mm colour bar on the left edge
)

// ExportLabels generates a PDF of QR-coded asset labels, one per placed
// device. Labels are laid out on a standard label sheet format
// (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, p *model.Project) error {
	devices := Devices(Entries(p))
	if len(devices) == 0 {
		return fmt.Errorf("no devices placed to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, e := range devices {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, e); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", e.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, n int, e Entry) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	setFill(pdf, e.Color)
	pdf.Rect(x, y, swatchWidth, labelHeight, "F")

	qrData, err := json.Marshal(labelInfo(e))
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d", n)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + swatchWidth + labelPadding
	textW := labelWidth - qrSize - swatchWidth - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fitText(pdf, e.Name, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pdf.CellFormat(textW, 3.5, fitText(pdf, fmt.Sprintf("%s  %s", e.Rack, e.Units()), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("%dU device", e.Size), "", 1, "L", false, 0, "")

	if loc := e.Location(); loc != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.CellFormat(textW, 3, fitText(pdf, loc, textW), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

func labelInfo(e Entry) LabelInfo {
	info := LabelInfo{
		Rack:   e.Rack,
		Unit:   e.Units(),
		Device: e.Name,
		Size:   e.Size,
		Shelf:  e.Shelf,
	}
	if e.Slot >= 0 {
		info.Slot = e.Slot + 1
	}
	return info
}

// CollectLabelInfos returns the QR payloads ExportLabels would print.
func CollectLabelInfos(p *model.Project) []LabelInfo {
	var labels []LabelInfo
	for _, e := range Devices(Entries(p)) {
		labels = append(labels, labelInfo(e))
	}
	return labels
}
