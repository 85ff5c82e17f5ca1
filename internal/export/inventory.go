// Package export writes rack layouts to PDF elevations, QR label sheets,
// spreadsheets and DXF drawings.
package export

import (
	"sort"
	"strconv"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Entry is one rack-mounted element or nested device, flattened for
// tabular exports.
type Entry struct {
	RackID string
	Rack   string

	// Top and Bottom are the printed unit labels of the occupied range.
	// Nested devices report the range of their shelf.
	Top    int
	Bottom int

	Name      string
	Size      int // display units
	IsShelf   bool
	ShelfType model.ShelfType

	// Shelf is the owning shelf name for nested devices. Slot is -1 unless
	// the device sits in a fixed slot.
	Shelf string
	Slot  int

	Color string
}

// Units returns the printed unit range, e.g. "U42" or "U40-U35".
func (e Entry) Units() string {
	if e.Top == e.Bottom {
		return unitName(e.Top)
	}
	return unitName(e.Top) + "-" + unitName(e.Bottom)
}

// Location describes where a nested device sits, or "" for rack-mounted
// elements.
func (e Entry) Location() string {
	switch {
	case e.Shelf == "":
		return ""
	case e.Slot < 0:
		return e.Shelf
	default:
		return e.Shelf + " / slot " + strconv.Itoa(e.Slot+1)
	}
}

// Entries lists every placed element rack by rack, top to bottom. Shelves
// are followed by their nested devices.
func Entries(p *model.Project) []Entry {
	var out []Entry
	for _, r := range p.Racks {
		elems := append([]*model.Element(nil), r.Elements...)
		sort.SliceStable(elems, func(i, j int) bool {
			return elems[i].Placement.StartUnit < elems[j].Placement.StartUnit
		})
		for _, el := range elems {
			top := model.UnitLabel(el.Placement.StartUnit)
			bottom := model.UnitLabel(el.Placement.StartUnit + el.Units() - 1)
			e := Entry{
				RackID: r.ID,
				Rack:   r.Name,
				Top:    top,
				Bottom: bottom,
				Name:   el.Name,
				Size:   el.DisplayUnits,
				Slot:   -1,
				Color:  model.SchemeFor(el).Fill,
			}
			if !el.IsShelf() {
				out = append(out, e)
				continue
			}
			e.IsShelf = true
			e.ShelfType = el.Shelf.Type
			out = append(out, e)
			for _, c := range nested(el) {
				child := Entry{
					RackID: r.ID,
					Rack:   r.Name,
					Top:    top,
					Bottom: bottom,
					Name:   c.Name,
					Size:   c.DisplayUnits,
					Shelf:  el.Name,
					Slot:   -1,
					Color:  model.SchemeFor(c).Fill,
				}
				if idx, ok := c.SlotIndex(); ok {
					child.Slot = idx
				}
				out = append(out, child)
			}
		}
	}
	return out
}

// nested returns the devices of a shelf ordered left to right.
func nested(shelf *model.Element) []*model.Element {
	kids := append([]*model.Element(nil), shelf.Shelf.Children...)
	sort.SliceStable(kids, func(i, j int) bool { return kids[i].X < kids[j].X })
	return kids
}

// Devices filters entries down to devices, dropping shelves.
func Devices(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if !e.IsShelf {
			out = append(out, e)
		}
	}
	return out
}

func unitName(n int) string {
	return "U" + strconv.Itoa(n)
}
