package rational

import "math/big"

// OddPeriodicTable is an exact-rational evaluator for an implicit odd
// periodic function of period N grid units with quarter-wave symmetry.
// Storage is the nonnegative quarter (index 0..N/4), strictly increasing
// from 0 at index 0 to Peak at index N/4. The full period is reconstructed
// by odd symmetry around N/2 and mirror symmetry around N/4.
//
// Grounded on staudtlex-libcalendar's big.Rat lunar/solar phase tables
// (calendar.go), generalized from a single fixed table to a reusable
// quarter-wave type with monotone inverse lookup (asin/acos), which the
// traditional lane's moon/sun correction tables and the reform lane's
// spherical sunrise model both need.
type OddPeriodicTable struct {
	N       int64   // full period, in grid units; must be a multiple of 4
	Quarter []int64 // N/4 + 1 nonnegative integers, strictly increasing
}

// NewOddPeriodicTable constructs a table from its quarter-wave node values.
func NewOddPeriodicTable(n int64, quarter []int64) *OddPeriodicTable {
	return &OddPeriodicTable{N: n, Quarter: quarter}
}

// Peak returns the table's maximum node value (at index N/4).
func (t *OddPeriodicTable) Peak() int64 {
	return t.Quarter[len(t.Quarter)-1]
}

// quarterAt interpolates the monotone quarter-wave table at a real-valued
// index u in [0, N/4], returning an exact rational in table units.
func (t *OddPeriodicTable) quarterAt(u *big.Rat) *big.Rat {
	qmax := int64(len(t.Quarter) - 1)
	uf := Floor(u)
	i := FloorInt(u)
	if i < 0 {
		i = 0
	}
	if i >= qmax {
		return RI(t.Quarter[qmax])
	}
	frac := Sub(u, uf)
	lo := RI(t.Quarter[i])
	hi := RI(t.Quarter[i+1])
	return Add(lo, Mul(frac, Sub(hi, lo)))
}

// EvalU evaluates the full odd periodic function at a grid-unit coordinate
// u, reducing modulo N and applying odd/mirror symmetry, returning a signed
// rational in table units.
func (t *OddPeriodicTable) EvalU(u *big.Rat) *big.Rat {
	n := RI(t.N)
	uu := ModR(u, n)
	half := Quo(n, RI(2))
	quarter := Quo(n, RI(4))

	sign := RI(1)
	if uu.Cmp(half) > 0 {
		uu = Sub(uu, half)
		sign = RI(-1)
	}
	// uu is now in [0, N/2]; mirror around N/4.
	if uu.Cmp(quarter) > 0 {
		uu = Sub(half, uu)
	}
	val := t.quarterAt(uu)
	return Mul(sign, val)
}

// EvalTurn evaluates the function at an angle given in turns, reducing theta
// modulo 1 first.
func (t *OddPeriodicTable) EvalTurn(theta *big.Rat) *big.Rat {
	u := Mul(Mod1(theta), RI(t.N))
	return t.EvalU(u)
}

// EvalNormalizedTurn is EvalTurn scaled by 1/Peak, returning a value in
// [-1, 1].
func (t *OddPeriodicTable) EvalNormalizedTurn(theta *big.Rat) *big.Rat {
	return Quo(t.EvalTurn(theta), RI(t.Peak()))
}

// AsinTurn performs a monotone binary search over the table's quarter-wave
// nodes to bracket y, then linearly interpolates the inverse, returning a
// turn in [-1/4, 1/4]. y must be a normalized value in [-1, 1]; flat spots
// (which cannot occur since Quarter is strictly increasing) would yield the
// left endpoint.
func (t *OddPeriodicTable) AsinTurn(y *big.Rat) *big.Rat {
	peak := t.Peak()
	sign := RI(1)
	yy := Mul(y, RI(peak))
	if yy.Sign() < 0 {
		sign = RI(-1)
		yy = Neg(yy)
	}
	qmax := len(t.Quarter) - 1
	lo, hi := 0, qmax
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if RI(t.Quarter[mid]).Cmp(yy) <= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	loVal := RI(t.Quarter[lo])
	hiVal := RI(t.Quarter[hi])
	var frac *big.Rat
	if hiVal.Cmp(loVal) == 0 {
		frac = RI(0)
	} else {
		frac = Quo(Sub(yy, loVal), Sub(hiVal, loVal))
	}
	idx := Add(RI(int64(lo)), frac)
	// idx is in grid units [0, N/4]; convert to turns.
	turn := Quo(idx, RI(t.N))
	return Mul(sign, turn)
}

// AcosTurn returns 1/4 - AsinTurn(y).
func (t *OddPeriodicTable) AcosTurn(y *big.Rat) *big.Rat {
	return Sub(R(1, 4), t.AsinTurn(y))
}
