package rational

import "math/big"

// PhaseT is an affine phase c0 + c1*t, evaluated in turns.
type PhaseT struct {
	C0, C1 *big.Rat
}

// Eval returns c0 + c1*t.
func (p PhaseT) Eval(t *big.Rat) *big.Rat {
	return Add(p.C0, Mul(p.C1, t))
}

// TermDef is one term of an AffineTabSeries: an amplitude (in turns) times a
// table evaluated at an affine phase of t.
type TermDef struct {
	Amp   *big.Rat
	Phase PhaseT
	Table *OddPeriodicTable
}

func (term TermDef) eval(t *big.Rat) *big.Rat {
	return Mul(term.Amp, term.Table.EvalTurn(term.Phase.Eval(t)))
}

// AffineTabSeries implements base(t) = A + B*t plus a sum of table terms,
// per spec.md §4.5. It is the rational lane's building block for both the
// true-elongation series (A_elong, B_elong, lunar/solar terms) and the
// solar-longitude series.
type AffineTabSeries struct {
	A, B  *big.Rat
	Terms []TermDef
}

// Base returns A + B*t.
func (s *AffineTabSeries) Base(t *big.Rat) *big.Rat {
	return Add(s.A, Mul(s.B, t))
}

// Correction returns the sum of all table terms at t.
func (s *AffineTabSeries) Correction(t *big.Rat) *big.Rat {
	sum := RI(0)
	for _, term := range s.Terms {
		sum = Add(sum, term.eval(t))
	}
	return sum
}

// Eval returns Base(t) + Correction(t).
func (s *AffineTabSeries) Eval(t *big.Rat) *big.Rat {
	return Add(s.Base(t), s.Correction(t))
}

// PicardSolve inverts Eval(t) = x0 for t using a fixed number of Picard
// iterations, per spec.md §4.5:
//
//	t0   := (x0 - A) / B
//	invB := 1 / B
//	t    := t0
//	repeat `iterations` times:
//	    corr := Correction(t)
//	    t    := t0 - corr*invB
//	return t
//
// The iteration count is an explicit fixed integer, never a tolerance: the
// same spec must always produce the same answer.
func (s *AffineTabSeries) PicardSolve(x0 *big.Rat, iterations int) *big.Rat {
	t0 := Quo(Sub(x0, s.A), s.B)
	invB := Quo(RI(1), s.B)
	t := t0
	for i := 0; i < iterations; i++ {
		corr := s.Correction(t)
		t = Sub(t0, Mul(corr, invB))
	}
	return t
}
