package model

import "strings"

// ShelfType identifies an entry in the shelf catalog.
type ShelfType string

const (
	Shelf3U4Slot   ShelfType = "3u-4"
	Shelf3U6Slot   ShelfType = "3u-6"
	Shelf6U3Slot   ShelfType = "6u-3"
	Shelf6U4Slot   ShelfType = "6u-4"
	Shelf3UBlinder ShelfType = "3u-blinder"
)

// ShelfSpec describes a catalog entry.
type ShelfSpec struct {
	Type         ShelfType
	DisplayUnits int
	NumSlots     int // 0 for blinder shelves
	DefaultName  string
}

// Blinder reports whether the shelf packs devices by width instead of slots.
func (s ShelfSpec) Blinder() bool {
	return s.NumSlots == 0
}

var shelfCatalog = []ShelfSpec{
	{Type: Shelf3U4Slot, DisplayUnits: 3, NumSlots: 4, DefaultName: "Shelf 3U (4 slots)"},
	{Type: Shelf3U6Slot, DisplayUnits: 3, NumSlots: 6, DefaultName: "Shelf 3U (6 slots)"},
	{Type: Shelf6U3Slot, DisplayUnits: 4, NumSlots: 3, DefaultName: "Shelf 6U (3 slots)"},
	{Type: Shelf6U4Slot, DisplayUnits: 4, NumSlots: 4, DefaultName: "Shelf 6U (4 slots)"},
	{Type: Shelf3UBlinder, DisplayUnits: 3, NumSlots: 0, DefaultName: "Blinder Shelf 3U"},
}

// ShelfCatalog returns a copy of the known shelf types in catalog order.
func ShelfCatalog() []ShelfSpec {
	out := make([]ShelfSpec, len(shelfCatalog))
	copy(out, shelfCatalog)
	return out
}

// LookupShelf returns the catalog entry for t. Long spellings such as
// "3u-4slot" are accepted as aliases.
func LookupShelf(t ShelfType) (ShelfSpec, bool) {
	t = NormalizeShelfType(t)
	for _, s := range shelfCatalog {
		if s.Type == t {
			return s, true
		}
	}
	return ShelfSpec{}, false
}

// NormalizeShelfType maps alias spellings onto catalog keys.
func NormalizeShelfType(t ShelfType) ShelfType {
	s := strings.ToLower(strings.TrimSpace(string(t)))
	s = strings.TrimSuffix(s, "slots")
	s = strings.TrimSuffix(s, "slot")
	return ShelfType(s)
}

// ShelfGroup returns the palette group ("shelf-3u" or "shelf-6u") a shelf
// type belongs to.
func ShelfGroup(t ShelfType) string {
	if strings.HasPrefix(string(t), "6u") {
		return ShelfGroup6U
	}
	return ShelfGroup3U
}
