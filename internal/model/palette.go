package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Palette group keys for shelves.
const (
	ShelfGroup3U = "shelf-3u"
	ShelfGroup6U = "shelf-6u"
)

// PaletteEntry is a user-defined device in the toolbar palette.
type PaletteEntry struct {
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	FontColor string `json:"fontColor,omitempty"`
}

// UnmarshalJSON accepts both the object form and the legacy bare name string.
func (p *PaletteEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*p = PaletteEntry{Name: name}
		return nil
	}
	type plain PaletteEntry
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PaletteEntry(v)
	return nil
}

// ShelfItem is a named shelf in a palette group.
type ShelfItem struct {
	Name      string    `json:"name"`
	ShelfType ShelfType `json:"shelfType"`
}

// Key identifies the item in a group's deleted list.
func (s ShelfItem) Key() string {
	return string(s.ShelfType) + "::" + s.Name
}

// ShelfPaletteGroup holds the saved and deleted shelves of one group.
type ShelfPaletteGroup struct {
	Items   []ShelfItem `json:"items"`
	Deleted []string    `json:"deleted"`
}

// Palette holds the user's custom devices per size class and shelf groups.
type Palette struct {
	Devices map[int][]PaletteEntry
	Shelves map[string]ShelfPaletteGroup
}

// NewPalette returns an empty palette.
func NewPalette() Palette {
	return Palette{
		Devices: map[int][]PaletteEntry{},
		Shelves: map[string]ShelfPaletteGroup{},
	}
}

// AddDevice appends a custom device entry to a size class.
func (p *Palette) AddDevice(displayUnits int, e PaletteEntry) error {
	if !ValidDisplayUnits(displayUnits) {
		return fmt.Errorf("invalid size class %dU", displayUnits)
	}
	if e.Name == "" {
		return errors.New("palette entry has no name")
	}
	if p.Devices == nil {
		p.Devices = map[int][]PaletteEntry{}
	}
	p.Devices[displayUnits] = append(p.Devices[displayUnits], e)
	return nil
}

// RemoveDevice removes the first entry with the given name from a size class.
func (p *Palette) RemoveDevice(displayUnits int, name string) bool {
	list := p.Devices[displayUnits]
	for i, e := range list {
		if e.Name == name {
			p.Devices[displayUnits] = append(list[:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// AddShelf saves a shelf item in its group and clears any deletion marker.
func (p *Palette) AddShelf(item ShelfItem) {
	if p.Shelves == nil {
		p.Shelves = map[string]ShelfPaletteGroup{}
	}
	group := ShelfGroup(item.ShelfType)
	g := p.Shelves[group]
	g.Items = append(g.Items, item)
	g.Deleted = removeString(g.Deleted, item.Key())
	p.Shelves[group] = g
}

// DeleteShelf hides a shelf item, including built-in defaults.
func (p *Palette) DeleteShelf(item ShelfItem) {
	if p.Shelves == nil {
		p.Shelves = map[string]ShelfPaletteGroup{}
	}
	group := ShelfGroup(item.ShelfType)
	g := p.Shelves[group]
	key := item.Key()
	var kept []ShelfItem
	for _, it := range g.Items {
		if it.Key() != key {
			kept = append(kept, it)
		}
	}
	g.Items = kept
	if !containsString(g.Deleted, key) {
		g.Deleted = append(g.Deleted, key)
	}
	p.Shelves[group] = g
}

// ShelfItems merges saved items with the built-in defaults of a group.
// Saved items come first; deleted and duplicate keys are skipped.
func (p Palette) ShelfItems(group string, defaults []ShelfItem) []ShelfItem {
	g := p.Shelves[group]
	deleted := make(map[string]bool, len(g.Deleted))
	for _, k := range g.Deleted {
		deleted[k] = true
	}
	seen := map[string]bool{}
	var out []ShelfItem
	add := func(it ShelfItem) {
		if it.Name == "" || it.ShelfType == "" {
			return
		}
		k := it.Key()
		if deleted[k] || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, it)
	}
	for _, it := range g.Items {
		add(it)
	}
	for _, it := range defaults {
		add(it)
	}
	return out
}

// DefaultShelfItems returns the catalog shelves belonging to a group.
func DefaultShelfItems(group string) []ShelfItem {
	var out []ShelfItem
	for _, s := range shelfCatalog {
		if ShelfGroup(s.Type) == group {
			out = append(out, ShelfItem{Name: s.DefaultName, ShelfType: s.Type})
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func removeString(list []string, s string) []string {
	var out []string
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
