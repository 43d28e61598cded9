package topology

import "github.com/openmd/gmxtop/internal/diag"

const component = "topology"

// Tables holds every symbol table accumulated while parsing: the
// molecule-type definitions seen so far, the atom-type mass table, and the
// instantiation roster, in the order they were defined.
type Tables struct {
	MolTypes     []*MoleculeType
	molTypeIndex map[string]int

	AtomTypes []AtomTypeRecord

	Roster []InstantiationEntry
}

// NewTables returns an empty symbol table set.
func NewTables() *Tables {
	return &Tables{molTypeIndex: make(map[string]int)}
}

// BeginMolType registers a new molecule type named name. Identity is by
// name: a name seen before is a duplicate and is ignored with a warning,
// returning a detached MoleculeType so the duplicate's body (atoms, bonds,
// ...) is parsed but discarded rather than corrupting the first definition.
func (t *Tables) BeginMolType(name string, nrexcl int) *MoleculeType {
	name = truncate(name, maxMolTypeNameLen)
	if _, dup := t.molTypeIndex[name]; dup {
		diag.For(component).Warnf("duplicate moleculetype %q ignored, first definition wins", name)
		return &MoleculeType{Name: name, NRExcl: nrexcl}
	}
	if len(t.MolTypes) >= MaxMolTypes {
		diag.For(component).Warnf("maximum number of moleculetypes (%d) exceeded, dropping %q", MaxMolTypes, name)
		return &MoleculeType{Name: name, NRExcl: nrexcl}
	}
	mt := &MoleculeType{Name: name, NRExcl: nrexcl}
	t.molTypeIndex[name] = len(t.MolTypes)
	t.MolTypes = append(t.MolTypes, mt)
	return mt
}

// FindMolType looks up a previously defined molecule type by name.
func (t *Tables) FindMolType(name string) (*MoleculeType, bool) {
	i, ok := t.molTypeIndex[name]
	if !ok {
		return nil, false
	}
	return t.MolTypes[i], true
}

// AddAtomType records an [atomtypes] mass entry. Later entries for the same
// name win, matching the format's "last definition wins" table semantics for
// the global atom-type table (distinct from moleculetype's first-wins rule,
// since atomtypes are commonly re-specified by force-field include files
// that refine an earlier, coarser table).
func (t *Tables) AddAtomType(name string, mass float64) {
	name = truncate(name, maxAtomTypeNameLen)
	for i := range t.AtomTypes {
		if t.AtomTypes[i].Name == name {
			t.AtomTypes[i].Mass = mass
			return
		}
	}
	if len(t.AtomTypes) >= MaxAtomTypes {
		diag.For(component).Warnf("maximum number of atomtypes (%d) exceeded, dropping %q", MaxAtomTypes, name)
		return
	}
	t.AtomTypes = append(t.AtomTypes, AtomTypeRecord{Name: name, Mass: mass})
}

// AtomTypeMass looks up the mass registered for an atom-type name.
func (t *Tables) AtomTypeMass(name string) (float64, bool) {
	for _, at := range t.AtomTypes {
		if at.Name == name {
			return at.Mass, true
		}
	}
	return 0, false
}

// AddRosterEntry appends one [molecules] line to the instantiation roster.
func (t *Tables) AddRosterEntry(name string, count int) {
	if len(t.Roster) >= MaxRoster {
		diag.For(component).Warnf("maximum roster length (%d) exceeded, dropping entry %q", MaxRoster, name)
		return
	}
	diag.For(component).Debugf("found molecule: %s x %d", name, count)
	t.Roster = append(t.Roster, InstantiationEntry{MolTypeName: name, Count: count})
}
