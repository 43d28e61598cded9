package gmxtop

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTop(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestOpen_S1SingleWater(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "water.top", `
[atomtypes]
OW 16.0
HW 1.008

[moleculetype]
SOL 2

[atoms]
1 OW 1 SOL OW 1 -0.834
2 HW 1 SOL HW1 1 0.417
3 HW 1 SOL HW2 1 0.417

[bonds]
1 2
1 3

[molecules]
SOL 1
`)

	h, natoms, err := Open(path)
	require.NoError(t, err)
	defer h.Close()
	require.Equal(t, 3, natoms)

	atoms, flags := h.ReadStructure()
	require.True(t, flags.HasCharge)
	require.True(t, flags.HasMass)
	require.Len(t, atoms, 3)
	require.Equal(t, "SOL", atoms[0].SegID)
	for _, a := range atoms {
		require.Equal(t, 1, a.ResID)
	}
	require.Equal(t, 16.0, atoms[0].Mass)
	require.Equal(t, 1.008, atoms[1].Mass)
	require.Equal(t, 1.008, atoms[2].Mass)

	nbonds, from, to := h.ReadBonds()
	require.Equal(t, 2, nbonds)
	require.Equal(t, []int{1, 1}, from)
	require.Equal(t, []int{2, 3}, to)
}

func TestOpen_S2ThreeWaterCopies(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "water3.top", `
[moleculetype]
SOL 2

[atoms]
1 OW 1 SOL OW 1 -0.834 16.0
2 HW 1 SOL HW1 1 0.417 1.008
3 HW 1 SOL HW2 1 0.417 1.008

[bonds]
1 2
1 3

[molecules]
SOL 3
`)

	h, natoms, err := Open(path)
	require.NoError(t, err)
	defer h.Close()
	require.Equal(t, 9, natoms)

	nbonds, from, to := h.ReadBonds()
	require.Equal(t, 6, nbonds)
	require.Equal(t, []int{1, 1, 4, 4, 7, 7}, from)
	require.Equal(t, []int{2, 3, 5, 6, 8, 9}, to)

	atoms, _ := h.ReadStructure()
	wantResID := []int{1, 1, 1, 2, 2, 2, 3, 3, 3}
	for i, a := range atoms {
		require.Equal(t, wantResID[i], a.ResID, "atom %d", i)
	}
}

func TestOpen_S3IncludeAndIfdef(t *testing.T) {
	dir := t.TempDir()
	writeTop(t, dir, "mol.itp", `
[moleculetype]
M 3

[atoms]
1 C 1 M C1 1 0.0
2 C 1 M C2 1 0.0

#ifdef FLEXIBLE
[bonds]
1 2
#endif

[molecules]
M 1
`)

	t.Run("defined", func(t *testing.T) {
		path := writeTop(t, dir, "flexible.top", "#define FLEXIBLE\n#include \"mol.itp\"\n")
		h, natoms, err := Open(path)
		require.NoError(t, err)
		defer h.Close()
		require.Equal(t, 2, natoms)

		nbonds, _, _ := h.ReadBonds()
		require.Equal(t, 1, nbonds)
	})

	t.Run("undefined", func(t *testing.T) {
		path := writeTop(t, dir, "rigid.top", "#include \"mol.itp\"\n")
		h, natoms, err := Open(path)
		require.NoError(t, err)
		defer h.Close()
		require.Equal(t, 2, natoms, "atoms are unaffected by the ifdef")

		nbonds, _, _ := h.ReadBonds()
		require.Equal(t, 0, nbonds)
	})
}

func TestOpen_S4ConstraintAsBond(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "m.top", `
[moleculetype]
M 3

[atoms]
1 C 1 M C1 1 0.0
2 C 1 M C2 1 0.0
3 C 1 M C3 1 0.0

[bonds]
1 2

[constraints]
2 3

[molecules]
M 1
`)

	h, _, err := Open(path)
	require.NoError(t, err)
	defer h.Close()

	nbonds, from, to := h.ReadBonds()
	require.Equal(t, 2, nbonds)
	require.Equal(t, []int{1, 2}, from)
	require.Equal(t, []int{2, 3}, to)
}

func TestOpen_S5ImproperSplit(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "m.top", `
[moleculetype]
M 3

[atoms]
1 C 1 M C1 1 0.0
2 C 1 M C2 1 0.0
3 C 1 M C3 1 0.0
4 C 1 M C4 1 0.0

[dihedrals]
1 2 3 4 1
1 2 3 4 2
1 2 3 4 4
1 2 3 4 9

[molecules]
M 1
`)

	h, _, err := Open(path)
	require.NoError(t, err)
	defer h.Close()

	_, _, ndihedrals, _, nimpropers, _ := h.ReadAngles()
	require.Equal(t, 2, ndihedrals)
	require.Equal(t, 2, nimpropers)
}

func TestOpen_S6MassBackfill(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "m.top", `
[atomtypes]
CA 12.011

[moleculetype]
M 3

[atoms]
1 CA 1 M C1 1 0.0

[molecules]
M 1
`)

	h, _, err := Open(path)
	require.NoError(t, err)
	defer h.Close()

	atoms, _ := h.ReadStructure()
	require.Equal(t, 12.011, atoms[0].Mass)
}

func TestOpen_EmptyRosterSucceedsWithZeroAtoms(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "empty.top", `
[moleculetype]
M 3

[atoms]
1 C 1 M C1 1 0.0

[molecules]
`)

	h, natoms, err := Open(path)
	require.NoError(t, err)
	defer h.Close()
	require.Equal(t, 0, natoms)

	nbonds, from, to := h.ReadBonds()
	require.Equal(t, 0, nbonds)
	require.Empty(t, from)
	require.Empty(t, to)
}

func TestOpen_UnknownMoleculeTypeInRosterFails(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "m.top", "[molecules]\nGHOST 1\n")

	h, _, err := Open(path)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownMoleculeType)
	require.Nil(t, h)
}

func TestOpen_MissingFileFails(t *testing.T) {
	h, natoms, err := Open(filepath.Join(t.TempDir(), "nope.top"))
	require.Error(t, err)
	require.Nil(t, h)
	require.Equal(t, 0, natoms)
}

func TestOpen_UnmatchedEndifFails(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "bad.top", "#endif\n")

	h, _, err := Open(path)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnmatchedEndif)
	require.Nil(t, h)
}

func TestHandle_CloseIsIdempotentAndNilSafe(t *testing.T) {
	dir := t.TempDir()
	path := writeTop(t, dir, "m.top", "[molecules]\n")

	h, _, err := Open(path)
	require.NoError(t, err)
	h.Close()
	h.Close()

	var nilHandle *Handle
	nilHandle.Close()
}
