// Package project persists rack layouts and application data: the versioned
// project document, autosave snapshots, app configuration, toolbar profiles
// and full backups.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/amassoud-ap34/rack-designer/internal/engine"
	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// FormatVersion is the project document version written by Serialize.
const FormatVersion = 1

// ErrInvalidFormat matches every FormatError.
var ErrInvalidFormat = errors.New("invalid project format")

// FormatError reports a project document that cannot be loaded. The
// workspace is never modified when it is returned.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid project format: %s: %v", e.Reason, e.Err)
	}
	return "invalid project format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidFormat) match.
func (e *FormatError) Is(target error) bool { return target == ErrInvalidFormat }

func formatErr(format string, args ...any) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// IsFormatError reports whether err is a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

type wireProject struct {
	Version int        `json:"version"`
	Racks   []wireRack `json:"racks"`
}

type wireRack struct {
	RackID   string       `json:"rackId"`
	RackName string       `json:"rackName"`
	X        *float64     `json:"x"`
	Y        *float64     `json:"y"`
	Devices  []wireDevice `json:"devices"`
}

type wireElement struct {
	X               float64  `json:"x"`
	Y               float64  `json:"y"`
	Units           int      `json:"units"`
	DisplayUnits    int      `json:"displayUnits"`
	Name            string   `json:"name"`
	CustomColor     *string  `json:"customColor"`
	CustomFontColor *string  `json:"customFontColor"`
	DeviceWidth     *float64 `json:"deviceWidth"`
}

type wireDevice struct {
	wireElement
	IsShelf   bool         `json:"isShelf"`
	ShelfType string       `json:"shelfType,omitempty"`
	NumSlots  *int         `json:"numSlots,omitempty"`
	Children  *[]wireChild `json:"children,omitempty"`
}

type wireChild struct {
	wireElement
	ShelfSlotIndex *int `json:"shelfSlotIndex"`
}

// Serialize encodes the racks of p as an indented version 1 document.
// Unowned elements are not written.
func Serialize(p *model.Project) ([]byte, error) {
	doc := wireProject{Version: FormatVersion, Racks: make([]wireRack, 0, len(p.Racks))}
	for _, r := range p.Racks {
		x, y := r.X, r.Y
		wr := wireRack{
			RackID:   r.ID,
			RackName: r.Name,
			X:        &x,
			Y:        &y,
			Devices:  make([]wireDevice, 0, len(r.Elements)),
		}
		for _, e := range r.Elements {
			wr.Devices = append(wr.Devices, encodeDevice(e))
		}
		doc.Racks = append(doc.Racks, wr)
	}
	return json.MarshalIndent(doc, "", "  ")
}

func encodeElement(e *model.Element) wireElement {
	w := e.Width
	return wireElement{
		X:               e.X,
		Y:               e.Y,
		Units:           e.Units(),
		DisplayUnits:    e.DisplayUnits,
		Name:            e.Name,
		CustomColor:     optString(e.Color),
		CustomFontColor: optString(e.FontColor),
		DeviceWidth:     &w,
	}
}

func encodeDevice(e *model.Element) wireDevice {
	wd := wireDevice{wireElement: encodeElement(e)}
	if !e.IsShelf() {
		return wd
	}
	n := len(e.Shelf.Slots)
	children := make([]wireChild, 0, len(e.Shelf.Children))
	for _, c := range e.Shelf.Children {
		wc := wireChild{wireElement: encodeElement(c)}
		if idx, ok := c.SlotIndex(); ok {
			wc.ShelfSlotIndex = &idx
		}
		children = append(children, wc)
	}
	wd.IsShelf = true
	wd.ShelfType = string(e.Shelf.Type)
	wd.NumSlots = &n
	wd.Children = &children
	return wd
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Deserialize decodes a project document. Racks and elements are rebuilt in
// document order and shelf slots are restored from each child's
// shelfSlotIndex. Any structural problem yields a *FormatError.
func Deserialize(data []byte) (*model.Project, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var head struct {
		Version json.RawMessage `json:"version"`
		Racks   json.RawMessage `json:"racks"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &FormatError{Reason: "not a project document", Err: err}
	}
	racks := bytes.TrimSpace(head.Racks)
	if len(racks) == 0 || racks[0] != '[' {
		return nil, formatErr("racks must be an array")
	}
	if len(head.Version) > 0 {
		var v int
		if err := json.Unmarshal(head.Version, &v); err != nil || v < 1 || v > FormatVersion {
			return nil, formatErr("unsupported version %s", head.Version)
		}
	}

	var doc wireProject
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Reason: "malformed racks", Err: err}
	}

	p := model.NewProject()
	taken := make(map[string]bool, len(doc.Racks))
	for i, wr := range doc.Racks {
		r, err := decodeRack(wr, i, taken)
		if err != nil {
			return nil, err
		}
		taken[r.ID] = true
		p.Racks = append(p.Racks, r)
	}
	return p, nil
}

// decodeRack keeps the document's rackId unless an earlier rack already
// uses it. A repeated ID gets a fresh one before any element is placed.
func decodeRack(wr wireRack, index int, taken map[string]bool) (*model.Rack, error) {
	name := wr.RackName
	if name == "" {
		name = fmt.Sprintf("Rack %d", index+1)
	}
	x, y := model.RackOrigin, model.RackOrigin
	if wr.X != nil {
		x = *wr.X
	}
	if wr.Y != nil {
		y = *wr.Y
	}
	r := model.NewRack(name, x, y)
	if wr.RackID != "" && !taken[wr.RackID] {
		r.ID = wr.RackID
	}
	for taken[r.ID] {
		r.ID = model.NewRack(name, x, y).ID
	}

	for j, wd := range wr.Devices {
		el, err := decodeDevice(wd)
		if err != nil {
			return nil, formatErrAt(err, "rack %q device %d", name, j)
		}
		start := int(math.Round((wd.Y - model.CabinetPadding) / model.UnitHeight))
		if !engine.IsRangeFree(r, start, el.Units(), nil) {
			return nil, formatErr("rack %q device %d: unit %d overlaps another element or leaves the rack", name, j, start)
		}
		engine.Place(el, r, start)
		el.X, el.Y = wd.X, wd.Y
	}
	return r, nil
}

func formatErrAt(err error, format string, args ...any) error {
	var fe *FormatError
	if errors.As(err, &fe) {
		return &FormatError{Reason: fmt.Sprintf(format, args...) + ": " + fe.Reason, Err: fe.Err}
	}
	return &FormatError{Reason: fmt.Sprintf(format, args...), Err: err}
}

func displayUnitsOf(w wireElement) (int, error) {
	du := w.DisplayUnits
	if du == 0 {
		du = w.Units
		if du == 6 {
			du = 4
		}
	}
	if !model.ValidDisplayUnits(du) {
		return 0, formatErr("invalid display size %d", du)
	}
	return du, nil
}

func decodeElement(w wireElement) (*model.Element, error) {
	du, err := displayUnitsOf(w)
	if err != nil {
		return nil, err
	}
	el := model.NewDevice(du, w.Name, strValue(w.CustomColor), strValue(w.CustomFontColor))
	if w.DeviceWidth != nil && *w.DeviceWidth > 0 {
		el.Width = *w.DeviceWidth
	}
	return el, nil
}

func decodeDevice(wd wireDevice) (*model.Element, error) {
	if !wd.IsShelf {
		return decodeElement(wd.wireElement)
	}

	shelf, err := model.NewShelf(model.ShelfType(wd.ShelfType), wd.Name)
	if err != nil {
		return nil, &FormatError{Reason: "bad shelf", Err: err}
	}
	shelf.Color = strValue(wd.CustomColor)
	shelf.FontColor = strValue(wd.CustomFontColor)
	if wd.Children == nil {
		return shelf, nil
	}

	for k, wc := range *wd.Children {
		child, err := decodeElement(wc.wireElement)
		if err != nil {
			return nil, formatErrAt(err, "shelf child %d", k)
		}
		if err := engine.CanNest(child, shelf); err != nil {
			return nil, formatErr("shelf child %d: %v", k, err)
		}
		if engine.IsBlinder(shelf) {
			if wc.ShelfSlotIndex != nil {
				return nil, formatErr("shelf child %d: blinder shelves have no slots", k)
			}
			child.Placement = model.PackedPlacement(shelf.ID, wc.X)
			shelf.Shelf.Children = append(shelf.Shelf.Children, child)
		} else {
			if wc.ShelfSlotIndex == nil {
				return nil, formatErr("shelf child %d: missing shelfSlotIndex", k)
			}
			if err := engine.PlaceInSlot(child, shelf, *wc.ShelfSlotIndex); err != nil {
				return nil, formatErr("shelf child %d: slot %d: %v", k, *wc.ShelfSlotIndex, err)
			}
		}
		child.X, child.Y = wc.X, wc.Y
	}
	if engine.IsBlinder(shelf) && (!engine.ValidateShelf(shelf) || engine.BlinderEdge(shelf, nil) > model.RackInnerWidth+0.001) {
		return nil, formatErr("blinder shelf %q children overlap or overflow", shelf.Name)
	}
	return shelf, nil
}
