package designer

import (
	"fmt"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Payload describes an element that does not exist yet: a palette entry
// being dragged or waiting for a click target. A non-empty ShelfType makes
// it a shelf; DisplayUnits is then taken from the catalog.
type Payload struct {
	DisplayUnits int
	Name         string
	Color        string
	FontColor    string
	ShelfType    model.ShelfType
}

// DevicePayload returns the payload for a palette device entry.
func DevicePayload(displayUnits int, e model.PaletteEntry) Payload {
	return Payload{
		DisplayUnits: displayUnits,
		Name:         e.Name,
		Color:        e.Color,
		FontColor:    e.FontColor,
	}
}

// ShelfPayload returns the payload for a palette shelf entry.
func ShelfPayload(item model.ShelfItem) Payload {
	p := Payload{Name: item.Name, ShelfType: item.ShelfType}
	if spec, ok := model.LookupShelf(item.ShelfType); ok {
		p.DisplayUnits = spec.DisplayUnits
	}
	return p
}

// IsShelf reports whether the payload creates a shelf.
func (p Payload) IsShelf() bool {
	return p.ShelfType != ""
}

// Units returns the rack units the created element will reserve.
func (p Payload) Units() int {
	if p.IsShelf() {
		if spec, ok := model.LookupShelf(p.ShelfType); ok {
			return model.ReservedUnits(spec.DisplayUnits)
		}
	}
	return model.ReservedUnits(p.DisplayUnits)
}

// Build creates the unowned element described by the payload.
func (p Payload) Build() (*model.Element, error) {
	if p.IsShelf() {
		return model.NewShelf(p.ShelfType, p.Name)
	}
	if !model.ValidDisplayUnits(p.DisplayUnits) {
		return nil, fmt.Errorf("invalid device size %dU", p.DisplayUnits)
	}
	return model.NewDevice(p.DisplayUnits, p.Name, p.Color, p.FontColor), nil
}
