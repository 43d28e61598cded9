package gmxtop

import (
	"io"

	"github.com/openmd/gmxtop/internal/diag"
	"github.com/openmd/gmxtop/internal/instantiate"
	"github.com/openmd/gmxtop/internal/preproc"
	"github.com/openmd/gmxtop/internal/topology"
)

const component = "gmxtop"

// Error categories a caller may test for with errors.Is / errors.As.
// Exact message phrasing is not part of the contract; these sentinels are.
var (
	// ErrUnknownMoleculeType is returned (wrapped) when Open's instantiation
	// pass finds a [molecules] roster entry naming an undefined moltype.
	ErrUnknownMoleculeType = instantiate.ErrUnknownMoleculeType

	// ErrUnmatchedEndif/ErrUnmatchedElse mark a structurally malformed
	// conditional-compilation block.
	ErrUnmatchedEndif = preproc.ErrUnmatchedEndif
	ErrUnmatchedElse  = preproc.ErrUnmatchedElse

	// ErrIncludeDepthExceeded/ErrIfdefDepthExceeded mark the two recursion
	// limits the preprocessor enforces.
	ErrIncludeDepthExceeded = preproc.ErrIncludeDepthExceeded
	ErrIfdefDepthExceeded   = preproc.ErrIfdefDepthExceeded
)

// Handle owns every table built out of one topology parse. The zero Handle
// is not usable; obtain one from Open.
type Handle struct {
	model *instantiate.Model
}

// Open parses path (and everything it transitively includes), builds every
// molecule-type and roster entry, and instantiates the full system. It
// returns the total atom count alongside the handle, matching the source
// API's "open returns natoms up front" shape.
//
// On any fatal error (open/IO failure, malformed conditional-compilation
// structure, an undefined molecule type in the roster) Open returns a nil
// handle and a non-nil error; no partial handle is ever returned.
func Open(path string) (*Handle, int, error) {
	pp, err := preproc.Open(path)
	if err != nil {
		diag.ForErr(component).Errorf("open %s: %v", path, err)
		return nil, 0, err
	}

	tables, err := topology.Parse(pp)
	pp.Close()
	if err != nil {
		diag.ForErr(component).Errorf("parse %s: %v", path, err)
		return nil, 0, err
	}

	model, err := instantiate.Run(tables)
	if err != nil {
		diag.ForErr(component).Errorf("instantiate %s: %v", path, err)
		return nil, 0, err
	}

	return &Handle{model: model}, len(model.Atoms), nil
}

// Close releases everything owned by h. After Close, h must not be used
// again. Close is idempotent.
func (h *Handle) Close() {
	if h == nil {
		return
	}
	h.model = nil
}

// Atom is one row of the structure table returned by ReadStructure.
type Atom = instantiate.Atom

// OptFlags reports which optional per-atom fields a ReadStructure call
// populated. This implementation always supplies both.
type OptFlags struct {
	HasCharge bool
	HasMass   bool
}

// ReadStructure returns the full, globally-indexed atom table in roster
// order. The returned slice is owned by h and is only valid until h.Close.
func (h *Handle) ReadStructure() ([]Atom, OptFlags) {
	return h.model.Atoms, OptFlags{HasCharge: true, HasMass: true}
}

// ReadBonds returns the global 1-based bond table: parallel from/to slices,
// one pair per bond, in roster/copy/record order. [constraints] records
// were folded into this same table during parsing.
func (h *Handle) ReadBonds() (nbonds int, from, to []int) {
	bonds := h.model.Bonds
	from = make([]int, len(bonds))
	to = make([]int, len(bonds))
	for i, b := range bonds {
		from[i], to[i] = b.AI, b.AJ
	}
	return len(bonds), from, to
}

// ReadAngles returns the global angle, proper-dihedral and improper-dihedral
// tables. angles is a flattened ai,aj,ak triple per angle; dihedrals and
// impropers are flattened ai,aj,ak,al quads, in roster/copy/record order.
func (h *Handle) ReadAngles() (nangles int, angles []int, ndihedrals int, dihedrals []int, nimpropers int, impropers []int) {
	for _, a := range h.model.Angles {
		angles = append(angles, a.AI, a.AJ, a.AK)
	}
	for _, d := range h.model.ProperDihedrals {
		dihedrals = append(dihedrals, d.AI, d.AJ, d.AK, d.AL)
	}
	for _, d := range h.model.ImproperDihedrals {
		impropers = append(impropers, d.AI, d.AJ, d.AK, d.AL)
	}
	return len(h.model.Angles), angles, len(h.model.ProperDihedrals), dihedrals, len(h.model.ImproperDihedrals), impropers
}

// SetDiagWriter redirects the process-wide progress/warning diagnostic
// stream (section loads, dropped-for-capacity notices, #define/#ifdef
// state). It defaults to stdout.
func SetDiagWriter(w io.Writer) { diag.SetDiagWriter(w) }

// SetErrWriter redirects the process-wide error diagnostic stream. It
// defaults to stderr.
func SetErrWriter(w io.Writer) { diag.SetErrWriter(w) }
