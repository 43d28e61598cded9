package topology

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAtomType_MartiniWinsOnAmbiguity(t *testing.T) {
	// 2nd field and 4th field both parse as floats, but to different values;
	// MARTINI's two-column form must win.
	rec, ok := parseAtomType("P4 72.0 0.0 86.0")
	require.True(t, ok)
	assert.Equal(t, "P4", rec.Name)
	assert.Equal(t, 72.0, rec.Mass)
}

func TestParseAtomType_FallsBackToGromacsFullForm(t *testing.T) {
	// 2nd field ("6") parses as a float too (atomic number), so on its own
	// this line is ambiguous with MARTINI form — this case instead exercises
	// a 2nd field that is NOT numeric, forcing the GROMACS fallback.
	rec, ok := parseAtomType("CA C 12.011 0.0 A 0.339 0.359")
	require.True(t, ok)
	assert.Equal(t, "CA", rec.Name)
	assert.Equal(t, 0.0, rec.Mass, "2nd field 'C' fails to parse so MARTINI form is skipped, picking field[3]=0.0")
}

func TestParseAtomType_TooFewFields(t *testing.T) {
	_, ok := parseAtomType("OnlyName")
	assert.False(t, ok)
}

func TestParseMolTypeHeader(t *testing.T) {
	name, nrexcl, ok := parseMolTypeHeader("SOL 2")
	require.True(t, ok)
	assert.Equal(t, "SOL", name)
	assert.Equal(t, 2, nrexcl)

	name, nrexcl, ok = parseMolTypeHeader("SOL")
	require.True(t, ok)
	assert.Equal(t, "SOL", name)
	assert.Equal(t, 3, nrexcl, "nrexcl defaults to 3")
}

func TestParseAtom(t *testing.T) {
	rec, ok := parseAtom("1 OW 1 SOL OW 1 -0.834")
	require.True(t, ok)
	assert.Equal(t, AtomRecord{ID: 1, AtomType: "OW", ResNr: 1, Residue: "SOL", AtomName: "OW", CGNr: 1, Charge: -0.834}, rec)

	rec, ok = parseAtom("2 HW 1 SOL HW1 1 0.417 1.008")
	require.True(t, ok)
	assert.Equal(t, 1.008, rec.Mass)

	_, ok = parseAtom("1 2 3 4 5 6")
	assert.False(t, ok, "six fields is one short of the required seven")
}

func TestParseBond(t *testing.T) {
	rec, ok := parseBond("1 2 1 0.1 1000")
	require.True(t, ok)
	assert.Equal(t, BondRecord{AI: 1, AJ: 2}, rec)

	_, ok = parseBond("1")
	assert.False(t, ok)
}

func TestParseAngle(t *testing.T) {
	rec, ok := parseAngle("1 2 3 1 109.5 400")
	require.True(t, ok)
	assert.Equal(t, AngleRecord{AI: 1, AJ: 2, AK: 3}, rec)
}

func TestParseDihedral_FunctDefaultsToZero(t *testing.T) {
	rec, ok := parseDihedral("1 2 3 4")
	require.True(t, ok)
	assert.Equal(t, DihedralRecord{AI: 1, AJ: 2, AK: 3, AL: 4, Funct: 0}, rec)
	assert.False(t, rec.IsImproper())
}

func TestParseDihedral_ImproperFunctCodes(t *testing.T) {
	for _, funct := range []int{2, 4} {
		rec, ok := parseDihedral("1 2 3 4 " + strconv.Itoa(funct))
		require.True(t, ok)
		assert.True(t, rec.IsImproper())
	}
	for _, funct := range []int{1, 3, 9} {
		rec, ok := parseDihedral("1 2 3 4 " + strconv.Itoa(funct))
		require.True(t, ok)
		assert.False(t, rec.IsImproper())
	}
}

func TestParseRosterEntry(t *testing.T) {
	name, count, ok := parseRosterEntry("SOL 216")
	require.True(t, ok)
	assert.Equal(t, "SOL", name)
	assert.Equal(t, 216, count)
}
