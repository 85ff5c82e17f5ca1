package model

// Clone returns a deep copy of the project. Element IDs are preserved, and
// shelf slot arrays point at the copied children.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	cp := &Project{}
	for _, r := range p.Racks {
		cp.Racks = append(cp.Racks, r.Clone())
	}
	for _, e := range p.Floating {
		cp.Floating = append(cp.Floating, e.Clone())
	}
	return cp
}

// Clone returns a deep copy of the rack.
func (r *Rack) Clone() *Rack {
	cp := *r
	cp.Elements = nil
	for _, e := range r.Elements {
		cp.Elements = append(cp.Elements, e.Clone())
	}
	return &cp
}

// Clone returns a deep copy of the element including nested devices.
func (e *Element) Clone() *Element {
	cp := *e
	if e.Shelf == nil {
		return &cp
	}
	sh := &Shelf{Type: e.Shelf.Type}
	copied := make(map[*Element]*Element, len(e.Shelf.Children))
	for _, c := range e.Shelf.Children {
		cc := c.Clone()
		copied[c] = cc
		sh.Children = append(sh.Children, cc)
	}
	if e.Shelf.Slots != nil {
		sh.Slots = make([]*Element, len(e.Shelf.Slots))
		for i, occ := range e.Shelf.Slots {
			if occ != nil {
				sh.Slots[i] = copied[occ]
			}
		}
	}
	cp.Shelf = sh
	return &cp
}
