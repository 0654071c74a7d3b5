package netcode

import (
	"sort"

	"github.com/tpetri/mcgserver/internal/gf16"
)

// Equation is one row of the epoch matrix: a GF(2^4) coding vector of length
// EpochSizeFragments paired with the fragment it resolves to once isolated.
type Equation struct {
	Factors  [EpochSizeFragments]byte
	Fragment Fragment
}

func (e Equation) pivot() int {
	for i, v := range e.Factors {
		if v != 0 {
			return i
		}
	}
	return -1
}

func (e Equation) isZero() bool {
	return e.pivot() == -1
}

// scaleSub computes e - scale*other (which in GF(2^n) is e XOR scale*other)
// and returns the result; e and other are left unmodified.
func scaleSub(e, other Equation, scale byte) Equation {
	if scale == 0 {
		return e
	}
	var out Equation
	for i := range out.Factors {
		out.Factors[i] = gf16.Sub(e.Factors[i], gf16.Mul(scale, other.Factors[i]))
	}
	for i := range out.Fragment {
		out.Fragment[i] = e.Fragment[i] ^ mulByte(scale, other.Fragment[i])
	}
	return out
}

func scaleEq(e Equation, scale byte) Equation {
	var out Equation
	for i := range out.Factors {
		out.Factors[i] = gf16.Mul(e.Factors[i], scale)
	}
	for i := range out.Fragment {
		out.Fragment[i] = mulByte(scale, e.Fragment[i])
	}
	return out
}

// mulByte multiplies both GF(2^4) nibbles packed in a fragment byte by scale.
func mulByte(scale, b byte) byte {
	lo, hi := gf16.UnpackNibbles(b)
	return gf16.PackNibbles(gf16.Mul(scale, lo), gf16.Mul(scale, hi))
}

// owner and fragmentIndex map an epoch column to the participant and
// fragment slot it represents.
func owner(col int) int         { return col / FragmentsPerParticipant }
func fragmentIndex(col int) int { return col % FragmentsPerParticipant }

// Epoch accumulates Equations from pushed Frames and maintains them in
// reduced row echelon form, recovering fragments as pivots resolve to unit
// rows.
type Epoch struct {
	ID        uint8
	equations []Equation // sorted by pivot column

	// decodedFragments[participant][fragmentIndex] = recovered bytes
	decodedFragments map[int]map[int]Fragment

	neededEqs int
}

// NewEpoch creates an empty decoder for the given epoch id.
func NewEpoch(id uint8) *Epoch {
	return &Epoch{
		ID:               id,
		decodedFragments: make(map[int]map[int]Fragment),
	}
}

// PushFrame expands frame's factors, folds the resulting equation into the
// RREF matrix, and records any fragment that becomes fully resolved.
// Malformed or redundant frames are silently absorbed — there are no error
// returns by design (§4.4).
func (e *Epoch) PushFrame(fr Frame) {
	full, err := fr.Factor.Expand()
	if err != nil {
		return
	}
	eq := Equation{Factors: full, Fragment: fr.Fragment}
	e.pushEquation(eq)
}

func (e *Epoch) pushEquation(newEq Equation) {
	// Reduce against every existing pivot row.
	for _, row := range e.equations {
		c := row.pivot()
		if c < 0 {
			continue
		}
		coeff := newEq.Factors[c]
		if coeff != 0 {
			newEq = scaleSub(newEq, row, coeff)
		}
	}

	if newEq.isZero() {
		return // redundant
	}

	c := newEq.pivot()
	lead := newEq.Factors[c]
	if lead != 1 {
		newEq = scaleEq(newEq, gf16.Inv(lead))
	}

	// Clear column c in every existing row.
	for i, row := range e.equations {
		coeff := row.Factors[c]
		if coeff != 0 {
			e.equations[i] = scaleSub(row, newEq, coeff)
		}
	}

	e.equations = append(e.equations, newEq)
	sort.Slice(e.equations, func(i, j int) bool {
		return e.equations[i].pivot() < e.equations[j].pivot()
	})

	e.recordResolved()
}

// recordResolved scans the matrix for unit rows (exactly one non-zero entry,
// equal to 1) and records the corresponding fragment as decoded.
func (e *Epoch) recordResolved() {
	decodedCols := make(map[int]bool)
	for p, frags := range e.decodedFragments {
		for idx := range frags {
			decodedCols[p*FragmentsPerParticipant+idx] = true
		}
	}

	for _, row := range e.equations {
		c := row.pivot()
		if c < 0 || decodedCols[c] {
			continue
		}
		if isUnitRow(row, c) {
			p, idx := owner(c), fragmentIndex(c)
			if e.decodedFragments[p] == nil {
				e.decodedFragments[p] = make(map[int]Fragment)
			}
			e.decodedFragments[p][idx] = row.Fragment
		}
	}
	e.neededEqs = e.countNeeded()
}

func isUnitRow(row Equation, pivotCol int) bool {
	if row.Factors[pivotCol] != 1 {
		return false
	}
	for i, v := range row.Factors {
		if i == pivotCol {
			continue
		}
		if v != 0 {
			return false
		}
	}
	return true
}

// countNeeded returns the number of columns touched by any row that have
// not yet resolved to a unit row. Used as an optimistic termination signal;
// the true measure of completeness is application-defined (how many
// fragments each participant is expected to contribute).
func (e *Epoch) countNeeded() int {
	touched := make(map[int]bool)
	resolved := make(map[int]bool)
	for _, row := range e.equations {
		c := row.pivot()
		if c < 0 {
			continue
		}
		touched[c] = true
		if isUnitRow(row, c) {
			resolved[c] = true
		}
	}
	return len(touched) - len(resolved)
}

// NeededEquations reports how many touched columns are still unresolved.
func (e *Epoch) NeededEquations() int { return e.neededEqs }

// Rank reports the number of independent equations accumulated so far.
func (e *Epoch) Rank() int { return len(e.equations) }

// DecodedFragments returns the fragments recovered so far, keyed by
// participant then fragment index. The returned map is owned by the caller.
func (e *Epoch) DecodedFragments() map[int]map[int]Fragment {
	out := make(map[int]map[int]Fragment, len(e.decodedFragments))
	for p, frags := range e.decodedFragments {
		cp := make(map[int]Fragment, len(frags))
		for idx, f := range frags {
			cp[idx] = f
		}
		out[p] = cp
	}
	return out
}

// ParticipantComplete reports whether all fragments in [0, count) for the
// given participant have been recovered, and returns them in order if so.
func (e *Epoch) ParticipantComplete(participant, count int) ([]Fragment, bool) {
	frags, ok := e.decodedFragments[participant]
	if !ok {
		return nil, false
	}
	out := make([]Fragment, count)
	for i := 0; i < count; i++ {
		f, ok := frags[i]
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
