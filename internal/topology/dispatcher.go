package topology

import (
	"github.com/openmd/gmxtop/internal/diag"
	"github.com/openmd/gmxtop/internal/preproc"
)

// ignoredSections are recognized but carry nothing the instantiator needs.
// Their record lines are consumed and discarded.
var ignoredSections = map[string]bool{
	"system":              true,
	"defaults":            true,
	"pairs":               true,
	"exclusions":          true,
	"settles":             true,
	"position_restraints": true,
}

// Parse drives pp to completion, dispatching every event to the record
// parser for its enclosing section. A section boundary is simply the next
// EventSection or EventEOF value off the stream, so no individual record
// parser ever has to detect its own end, and a directive appearing between
// two records of the same section never disturbs which section is current.
func Parse(pp *preproc.Preprocessor) (*Tables, error) {
	t := NewTables()
	var section string
	var current *MoleculeType
	var molTypeHeaderSeen bool

	for {
		ev, err := pp.Next()
		if err != nil {
			return nil, err
		}

		switch ev.Kind {
		case preproc.EventEOF:
			natoms := 0
			for _, mt := range t.MolTypes {
				natoms += mt.NAtoms()
			}
			diag.For(component).Infof("parsed %d molecule types, %d atomtypes, %d atoms (per-definition, pre-instantiation)",
				len(t.MolTypes), len(t.AtomTypes), natoms)
			return t, nil

		case preproc.EventSection:
			section = ev.Section
			if section == "moleculetype" {
				molTypeHeaderSeen = false
			}
			continue

		case preproc.EventRecord:
			dispatchRecord(t, section, ev.Line, &current, &molTypeHeaderSeen)
		}
	}
}

func dispatchRecord(t *Tables, section, line string, current **MoleculeType, molTypeHeaderSeen *bool) {
	switch section {
	case "atomtypes":
		if rec, ok := parseAtomType(line); ok {
			t.AddAtomType(rec.Name, rec.Mass)
		}

	case "moleculetype":
		// Exactly one record is meaningful per section instance: the
		// name/nrexcl header. Anything further before the next header is
		// not part of the format and is ignored.
		if *molTypeHeaderSeen {
			return
		}
		name, nrexcl, ok := parseMolTypeHeader(line)
		if !ok {
			return
		}
		*current = t.BeginMolType(name, nrexcl)
		*molTypeHeaderSeen = true

	case "atoms":
		if *current == nil {
			diag.For(component).Warnf("atoms record outside any moleculetype, ignored: %q", line)
			return
		}
		if rec, ok := parseAtom(line); ok {
			(*current).Atoms = append((*current).Atoms, rec)
		}

	case "bonds", "constraints":
		if *current == nil {
			diag.For(component).Warnf("%s record outside any moleculetype, ignored: %q", section, line)
			return
		}
		if rec, ok := parseBond(line); ok {
			(*current).Bonds = append((*current).Bonds, rec)
		}

	case "angles":
		if *current == nil {
			diag.For(component).Warnf("angles record outside any moleculetype, ignored: %q", line)
			return
		}
		if rec, ok := parseAngle(line); ok {
			(*current).Angles = append((*current).Angles, rec)
		}

	case "dihedrals":
		if *current == nil {
			diag.For(component).Warnf("dihedrals record outside any moleculetype, ignored: %q", line)
			return
		}
		if rec, ok := parseDihedral(line); ok {
			(*current).Dihedrals = append((*current).Dihedrals, rec)
		}

	case "molecules":
		if name, count, ok := parseRosterEntry(line); ok {
			t.AddRosterEntry(name, count)
		}

	default:
		if !ignoredSections[section] {
			diag.For(component).Debugf("unrecognized section %q, record ignored", section)
		}
	}
}
