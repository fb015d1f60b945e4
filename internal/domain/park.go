package domain

// Park is one row of the site reference table.
type Park struct {
	Reference    string
	Name         string
	LocationDesc string
	Geo          Geo
}

// ParkTable is an immutable reference-code index over the parks loaded for a
// run. When the source contains duplicate references the first row wins.
type ParkTable struct {
	byRef map[string]Park
	order []string
}

// NewParkTable indexes parks in order.
func NewParkTable(parks []Park) *ParkTable {
	t := &ParkTable{byRef: make(map[string]Park, len(parks))}
	for _, p := range parks {
		if p.Reference == "" {
			continue
		}
		if _, dup := t.byRef[p.Reference]; dup {
			continue
		}
		t.byRef[p.Reference] = p
		t.order = append(t.order, p.Reference)
	}
	return t
}

// Lookup returns the coordinates for an exact reference match.
func (t *ParkTable) Lookup(reference string) (Geo, bool) {
	p, ok := t.Park(reference)
	if !ok {
		return Geo{}, false
	}
	return p.Geo, true
}

// Park returns the full table row for a reference.
func (t *ParkTable) Park(reference string) (Park, bool) {
	if t == nil || reference == "" {
		return Park{}, false
	}
	p, ok := t.byRef[reference]
	return p, ok
}

// Len returns the number of distinct references.
func (t *ParkTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}
