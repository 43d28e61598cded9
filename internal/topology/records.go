package topology

import (
	"strconv"
	"strings"
)

// parseAtomType implements the MARTINI-vs-GROMACS disambiguation ported from
// the original plugin: MARTINI's two-column "name mass" form is tried first,
// and only if that fails is the full GROMACS form ("name bond_type at.num
// mass charge ptype ...", mass in the 4th field) attempted. MARTINI wins on
// ambiguity: whenever the 2nd field parses as a number, that value is the
// mass, whatever the 4th field holds.
func parseAtomType(line string) (AtomTypeRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) >= 2 {
		if mass, err := strconv.ParseFloat(fields[1], 64); err == nil {
			return AtomTypeRecord{Name: fields[0], Mass: mass}, true
		}
	}
	if len(fields) >= 4 {
		if mass, err := strconv.ParseFloat(fields[3], 64); err == nil {
			return AtomTypeRecord{Name: fields[0], Mass: mass}, true
		}
	}
	return AtomTypeRecord{}, false
}

// parseMolTypeHeader parses a [moleculetype] section's single "name nrexcl"
// record. nrexcl defaults to 3 when the second field is absent or
// unparsable.
func parseMolTypeHeader(line string) (name string, nrexcl int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", 0, false
	}
	nrexcl = 3
	if len(fields) >= 2 {
		if n, err := strconv.Atoi(fields[1]); err == nil {
			nrexcl = n
		}
	}
	return fields[0], nrexcl, true
}

// parseAtom parses one [atoms] record: id type resnr residue atom cgnr
// charge [mass]. The leading six fields plus charge are mandatory; records
// with fewer fields are malformed and silently skipped.
func parseAtom(line string) (AtomRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < 7 {
		return AtomRecord{}, false
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return AtomRecord{}, false
	}
	resNr, err := strconv.Atoi(fields[2])
	if err != nil {
		return AtomRecord{}, false
	}
	cgNr, err := strconv.Atoi(fields[5])
	if err != nil {
		return AtomRecord{}, false
	}
	charge, err := strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return AtomRecord{}, false
	}
	rec := AtomRecord{
		ID:       id,
		AtomType: truncate(fields[1], maxAtomTypeNameLen),
		ResNr:    resNr,
		Residue:  truncate(fields[3], maxResidueNameLen),
		AtomName: truncate(fields[4], maxAtomNameLen),
		CGNr:     cgNr,
		Charge:   charge,
	}
	if len(fields) >= 8 {
		if mass, err := strconv.ParseFloat(fields[7], 64); err == nil {
			rec.Mass = mass
		}
	}
	return rec, true
}

// parseBond parses one [bonds] or [constraints] record's leading ai aj pair,
// ignoring any function-type and parameter columns that follow.
func parseBond(line string) (BondRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return BondRecord{}, false
	}
	ai, err1 := strconv.Atoi(fields[0])
	aj, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return BondRecord{}, false
	}
	return BondRecord{AI: ai, AJ: aj}, true
}

// parseAngle parses one [angles] record's leading ai aj ak triple.
func parseAngle(line string) (AngleRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return AngleRecord{}, false
	}
	ai, err1 := strconv.Atoi(fields[0])
	aj, err2 := strconv.Atoi(fields[1])
	ak, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return AngleRecord{}, false
	}
	return AngleRecord{AI: ai, AJ: aj, AK: ak}, true
}

// parseDihedral parses one [dihedrals] record's leading ai aj ak al quad,
// plus an optional function-type column that determines proper vs. improper.
func parseDihedral(line string) (DihedralRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return DihedralRecord{}, false
	}
	ai, err1 := strconv.Atoi(fields[0])
	aj, err2 := strconv.Atoi(fields[1])
	ak, err3 := strconv.Atoi(fields[2])
	al, err4 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return DihedralRecord{}, false
	}
	rec := DihedralRecord{AI: ai, AJ: aj, AK: ak, AL: al}
	if len(fields) >= 5 {
		if funct, err := strconv.Atoi(fields[4]); err == nil {
			rec.Funct = funct
		}
	}
	return rec, true
}

// parseRosterEntry parses one [molecules] record: moltype name, count.
func parseRosterEntry(line string) (name string, count int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, false
	}
	return fields[0], n, true
}
