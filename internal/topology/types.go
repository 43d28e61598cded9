// Package topology accumulates molecule-type definitions and the global
// instantiation roster out of a flattened preprocessor event stream, the
// section dispatcher and record parsers from the topology format (spec
// components D, E and F).
package topology

// Field-length caps mirrored from the original plugin's fixed-size buffers,
// kept here only as truncation limits for the record parsers — the
// containers themselves grow dynamically (see Tables).
const (
	maxAtomTypeNameLen = 15
	maxResidueNameLen  = 7
	maxAtomNameLen     = 15
	maxMolTypeNameLen  = 31
)

// Soft capacities. Exceeding one of these drops the new item with a warning
// rather than failing the parse (spec's "capacity exceeded" error class).
const (
	MaxMolTypes  = 500
	MaxAtomTypes = 1000
	MaxRoster    = 1000
)

// AtomRecord is one atom line inside a [atoms] section.
type AtomRecord struct {
	ID       int
	AtomType string
	ResNr    int
	Residue  string
	AtomName string
	CGNr     int
	Charge   float64
	Mass     float64 // 0 means "unknown, back-fill from the atom-type table"
}

// BondRecord is one [bonds] or [constraints] record.
type BondRecord struct {
	AI, AJ int
}

// AngleRecord is one [angles] record.
type AngleRecord struct {
	AI, AJ, AK int
}

// DihedralRecord is one [dihedrals] record. Funct 2 or 4 marks an improper;
// any other value (including the default 0) marks a proper dihedral.
type DihedralRecord struct {
	AI, AJ, AK, AL int
	Funct          int
}

// IsImproper reports whether this record's function code marks it as an
// out-of-plane (improper) term rather than a torsional (proper) one.
func (d DihedralRecord) IsImproper() bool {
	return d.Funct == 2 || d.Funct == 4
}

// AtomTypeRecord is one [atomtypes] entry.
type AtomTypeRecord struct {
	Name string
	Mass float64
}

// MoleculeType is a reusable molecule definition, instantiated Count times
// wherever it appears in the roster.
type MoleculeType struct {
	Name      string
	NRExcl    int
	Atoms     []AtomRecord
	Bonds     []BondRecord
	Angles    []AngleRecord
	Dihedrals []DihedralRecord
}

// NAtoms returns the number of atoms defined for this molecule type.
func (m *MoleculeType) NAtoms() int { return len(m.Atoms) }

// InstantiationEntry is one line of the [molecules] roster: a molecule type
// name and how many copies of it appear in the system, in roster order.
type InstantiationEntry struct {
	MolTypeName string
	Count       int
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
