package designer

import (
	"fmt"
	"strings"

	"github.com/amassoud-ap34/rack-designer/internal/model"
)

// Select makes id the current selection. An empty id clears it.
func (s *Session) Select(id string) error {
	defer s.lock()()
	if id != "" {
		if _, err := s.element(id); err != nil {
			return err
		}
	}
	s.selected = id
	s.changed = true
	return nil
}

// Selected returns the selected element ID, or "".
func (s *Session) Selected() string {
	defer s.lock()()
	return s.selected
}

// Delete removes an element. A device frees its rack units or shelf slot;
// a shelf takes its nested devices with it.
func (s *Session) Delete(id string) error {
	defer s.lock()()
	return s.delete(id)
}

// DeleteSelected removes the selected element. It is a no-op without a
// selection.
func (s *Session) DeleteSelected() error {
	defer s.lock()()
	if s.selected == "" {
		return nil
	}
	return s.delete(s.selected)
}

func (s *Session) delete(id string) error {
	el, err := s.element(id)
	if err != nil {
		return err
	}
	s.project.Detach(el)
	delete(s.drags, id)
	if s.selected == id || (el.IsShelf() && s.childSelected(el)) {
		s.selected = ""
	}
	s.touch()
	s.logger.Debug("element deleted", "id", id, "name", el.Name)
	return nil
}

func (s *Session) childSelected(shelf *model.Element) bool {
	for _, c := range shelf.Shelf.Children {
		if c.ID == s.selected {
			return true
		}
	}
	return false
}

// SetColors sets the custom fill and text colours of an element. Empty
// strings restore the size class defaults.
func (s *Session) SetColors(id, fill, font string) error {
	defer s.lock()()
	el, err := s.element(id)
	if err != nil {
		return err
	}
	for _, c := range []string{fill, font} {
		if c == "" {
			continue
		}
		if _, err := model.ParseHexColor(c); err != nil {
			return err
		}
	}
	el.Color, el.FontColor = fill, font
	s.touch()
	return nil
}

// RenameElement asks the prompter for a new element name. The reply is
// applied when it arrives; blank input keeps the current name and a
// cancelled prompt changes nothing.
func (s *Session) RenameElement(id string) error {
	label := "Edit device name:"
	var current string
	err := func() error {
		defer s.lock()()
		el, err := s.element(id)
		if err != nil {
			return err
		}
		if el.IsShelf() {
			label = "Edit shelf name:"
		}
		current = el.Name
		return nil
	}()
	if err != nil {
		return err
	}

	return s.prompt(label, current, func(name string) {
		defer s.lock()()
		if el := s.project.Element(id); el != nil && el.Name != name {
			el.Name = name
			s.touch()
		}
	})
}

// RenameRack asks the prompter for a new rack name.
func (s *Session) RenameRack(id string) error {
	var current string
	err := func() error {
		defer s.lock()()
		r, err := s.rack(id)
		if err != nil {
			return err
		}
		current = r.Name
		return nil
	}()
	if err != nil {
		return err
	}

	return s.prompt("Edit rack name:", current, func(name string) {
		defer s.lock()()
		if r := s.project.Rack(id); r != nil && r.Name != name {
			r.Name = name
			s.touch()
		}
	})
}

func (s *Session) prompt(label, current string, apply func(name string)) error {
	s.mu.Lock()
	prompter := s.prompter
	s.mu.Unlock()
	if prompter == nil {
		return fmt.Errorf("no prompter configured")
	}

	prompter.RequestText(label, current, func(text string, ok bool) {
		if !ok {
			return
		}
		name := strings.TrimSpace(text)
		if name == "" {
			return
		}
		apply(name)
	})
	return nil
}
