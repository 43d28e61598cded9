// Package instantiate expands an ordered roster of (molecule type, count)
// entries into the flat, globally-indexed atom/bond/angle/dihedral tables a
// caller actually wants. Every moleculetype definition is a template; this
// package is where templates become atoms.
package instantiate

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/openmd/gmxtop/internal/diag"
	"github.com/openmd/gmxtop/internal/topology"
)

const component = "instantiate"

// ErrUnknownMoleculeType is returned when the roster names a molecule type
// that was never defined anywhere in the flattened topology file.
var ErrUnknownMoleculeType = errors.New("instantiate: roster references undefined molecule type")

// Atom is one globally-indexed atom in the instantiated system.
type Atom struct {
	Index    int // 1-based position in Model.Atoms
	Name     string
	Type     string
	ResName  string
	ResID    int // continuously renumbered across the whole roster
	SegID    string
	Charge   float64
	Mass     float64
}

// Bond, Angle and Dihedral reference atoms by their global Index.
type Bond struct{ AI, AJ int }
type Angle struct{ AI, AJ, AK int }
type Dihedral struct {
	AI, AJ, AK, AL int
	Funct          int
}

// Model is the fully instantiated system: every roster entry expanded and
// concatenated in roster order.
type Model struct {
	Atoms             []Atom
	Bonds             []Bond
	Angles            []Angle
	ProperDihedrals   []Dihedral
	ImproperDihedrals []Dihedral
}

// Run expands t's roster into a Model. It fails fast (ErrUnknownMoleculeType)
// on the first roster entry naming a molecule type with no definition,
// matching the format's treatment of that case as structurally fatal rather
// than a droppable warning: there is no sane flat table to produce once an
// entire molecule's worth of atoms is missing from the middle of the system.
func Run(t *topology.Tables) (*Model, error) {
	m := &Model{}
	segIDs := make(map[string]string, len(t.MolTypes))
	residBase := 0

	for _, entry := range t.Roster {
		mt, ok := t.FindMolType(entry.MolTypeName)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownMoleculeType, "molecule type %q", entry.MolTypeName)
		}
		segID, cached := segIDs[mt.Name]
		if !cached {
			segID = deriveSegID(mt.Name)
			segIDs[mt.Name] = segID
		}

		minR, maxR, hasAtoms := resnrRange(mt.Atoms)
		nres := 0
		if hasAtoms {
			nres = maxR - minR + 1
		}

		for copyN := 0; copyN < entry.Count; copyN++ {
			base := len(m.Atoms)
			idIndex := make(map[int]int, len(mt.Atoms))

			for i, rec := range mt.Atoms {
				idIndex[rec.ID] = base + i

				mass := rec.Mass
				if mass <= 0 {
					if typeMass, ok := t.AtomTypeMass(rec.AtomType); ok {
						mass = typeMass
					} else {
						diag.For(component).Debugf("no mass for atom type %q (%s/%d), defaulting to 0", rec.AtomType, mt.Name, rec.ID)
					}
				}

				m.Atoms = append(m.Atoms, Atom{
					Index:   base + i + 1,
					Name:    rec.AtomName,
					Type:    rec.AtomType,
					ResName: rec.Residue,
					ResID:   rec.ResNr + (residBase - minR + 1),
					SegID:   segID,
					Charge:  rec.Charge,
					Mass:    mass,
				})
			}

			// A moltype instance with no atoms has nothing for its own bond,
			// angle or dihedral records to reference; skip connectivity
			// emission entirely rather than resolve indices against an
			// empty idIndex.
			if len(mt.Atoms) > 0 {
				for _, b := range mt.Bonds {
					m.Bonds = append(m.Bonds, Bond{AI: idIndex[b.AI] + 1, AJ: idIndex[b.AJ] + 1})
				}
				for _, a := range mt.Angles {
					m.Angles = append(m.Angles, Angle{AI: idIndex[a.AI] + 1, AJ: idIndex[a.AJ] + 1, AK: idIndex[a.AK] + 1})
				}
				for _, d := range mt.Dihedrals {
					rec := Dihedral{
						AI:    idIndex[d.AI] + 1,
						AJ:    idIndex[d.AJ] + 1,
						AK:    idIndex[d.AK] + 1,
						AL:    idIndex[d.AL] + 1,
						Funct: d.Funct,
					}
					if d.IsImproper() {
						m.ImproperDihedrals = append(m.ImproperDihedrals, rec)
					} else {
						m.ProperDihedrals = append(m.ProperDihedrals, rec)
					}
				}
			}

			residBase += nres
		}
	}

	return m, nil
}

// resnrRange returns the min and max resnr across a moltype's atoms. ok is
// false when atoms is empty, in which case min/max are meaningless.
func resnrRange(atoms []topology.AtomRecord) (min, max int, ok bool) {
	if len(atoms) == 0 {
		return 0, 0, false
	}
	min, max = atoms[0].ResNr, atoms[0].ResNr
	for _, a := range atoms[1:] {
		if a.ResNr < min {
			min = a.ResNr
		}
		if a.ResNr > max {
			max = a.ResNr
		}
	}
	return min, max, true
}

// deriveSegID builds a segment identifier from a molecule type name: its
// first four characters, uppercased, padding never added since segment IDs
// shorter than four characters are valid and common (e.g. "W" for water).
func deriveSegID(molTypeName string) string {
	n := len(molTypeName)
	if n > 4 {
		n = 4
	}
	return strings.ToUpper(molTypeName[:n])
}
