package model

import "testing"

func TestGenerateSchemeDefaults(t *testing.T) {
	s := GenerateScheme(2, "", "")
	if s != (ColorScheme{Fill: "#C6F6D5", Stroke: "#68D391", Text: "#22543D"}) {
		t.Errorf("unexpected 2U scheme %+v", s)
	}
}

func TestGenerateSchemeCustomFill(t *testing.T) {
	s := GenerateScheme(1, "#C86432", "")
	if s.Fill != "#C86432" {
		t.Errorf("expected fill to be kept, got %s", s.Fill)
	}
	// 200*0.7=140, 100*0.7=70, 50*0.7=35
	if s.Stroke != "#8C4623" {
		t.Errorf("expected stroke #8C4623, got %s", s.Stroke)
	}
	// 200*0.3=60, 100*0.3=30, 50*0.3=15
	if s.Text != "#3C1E0F" {
		t.Errorf("expected text #3C1E0F, got %s", s.Text)
	}
}

func TestGenerateSchemeCustomFont(t *testing.T) {
	s := GenerateScheme(3, "#FFFFFF", "#000001")
	if s.Text != "#000001" {
		t.Errorf("custom font colour should win, got %s", s.Text)
	}
}

func TestSchemeForShelf(t *testing.T) {
	shelf, _ := NewShelf(Shelf3U4Slot, "")
	if SchemeFor(shelf) != ShelfScheme {
		t.Error("shelves always use the shelf scheme")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#abc")
	if err != nil {
		t.Fatalf("ParseHexColor failed: %v", err)
	}
	if HexColor(c) != "#AABBCC" {
		t.Errorf("expected #AABBCC, got %s", HexColor(c))
	}
	if _, err := ParseHexColor("#12"); err == nil {
		t.Error("expected error for short colour")
	}
	if _, err := ParseHexColor("#GGGGGG"); err == nil {
		t.Error("expected error for non-hex colour")
	}
}
