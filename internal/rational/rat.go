// Package rational implements the exact-rational arithmetic primitives the
// reform/rational calendar lane is built on: turn reduction, an odd
// quarter-wave periodic table with monotone inverse lookup, and the
// affine-plus-table series with its fixed-iteration Picard solver.
//
// All values that cross an engine boundary are *big.Rat so that identical
// inputs produce byte-identical outputs on every platform, per the
// determinism requirement: no floating point in the critical path.
package rational

import "math/big"

// R is a shorthand constructor for an exact rational from an integer
// numerator/denominator pair.
func R(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

// RI wraps an integer as a rational.
func RI(n int64) *big.Rat {
	return big.NewRat(n, 1)
}

// Add returns a + b without mutating either argument.
func Add(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Add(a, b)
}

// Sub returns a - b without mutating either argument.
func Sub(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Sub(a, b)
}

// Mul returns a * b without mutating either argument.
func Mul(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Mul(a, b)
}

// Quo returns a / b without mutating either argument.
func Quo(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Quo(a, b)
}

// Neg returns -a without mutating a.
func Neg(a *big.Rat) *big.Rat {
	return new(big.Rat).Neg(a)
}

// Cmp is a convenience wrapper around (*big.Rat).Cmp for readability at call
// sites that compare many rationals.
func Cmp(a, b *big.Rat) int {
	return a.Cmp(b)
}

// FloorInt returns floor(x) as an int64. Panics if the result does not fit
// (callers operate on calendar-scale magnitudes, never anything close to
// overflow).
func FloorInt(x *big.Rat) int64 {
	q := new(big.Int)
	r := new(big.Int)
	q.QuoRem(x.Num(), x.Denom(), r)
	if r.Sign() < 0 {
		q.Sub(q, big.NewInt(1))
	}
	return q.Int64()
}

// Floor returns floor(x) as an exact rational integer.
func Floor(x *big.Rat) *big.Rat {
	return RI(FloorInt(x))
}

// Mod1 reduces x modulo 1, returning a value in [0, 1).
func Mod1(x *big.Rat) *big.Rat {
	return Sub(x, Floor(x))
}

// ModR reduces x modulo m (m > 0), returning a value in [0, m).
func ModR(x, m *big.Rat) *big.Rat {
	q := Floor(Quo(x, m))
	return Sub(x, Mul(q, m))
}

// Min returns the lesser of a and b.
func Min(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Max returns the greater of a and b.
func Max(a, b *big.Rat) *big.Rat {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}
