package engine

import (
	"math/big"

	"go.caltib.dev/caltib/internal/rational"
)

// DayParamsTraditional carries the traditional lane's affine mean-date
// coefficients, independent solar/lunar anomaly phases, and the two
// quarter-wave correction tables (spec.md §3.4).
type DayParamsTraditional struct {
	EpochK int64

	M0, M1, M2 *big.Rat // mean-date affine; M2 = M1/30
	S0, S1, S2 *big.Rat // solar mean-longitude affine
	R0, R1, R2 *big.Rat // solar anomaly phase (default R0=S0-1/4, R1=S1, R2=S2)
	A0, A1, A2 *big.Rat // lunar anomaly phase

	MoonTab *rational.OddPeriodicTable // period 28, peak 25
	SunTab  *rational.OddPeriodicTable // period 12, peak 11
}

// TraditionalDayEngine implements the continuous tithi-to-time kinematics
// of spec.md §4.2: a mean-date series corrected by two quarter-wave tables,
// already civil-aligned (the dawn convention is absorbed into the affine
// constants, so local_civil_date == true_date in this lane).
type TraditionalDayEngine struct {
	P DayParamsTraditional
}

func (e *TraditionalDayEngine) EpochK() int64 { return e.P.EpochK }

// splitX splits a continuous tithi coordinate x into (n, d) with
// n := floor(x/30), d := x − 30n.
func splitX(x *big.Rat) (n *big.Rat, d *big.Rat) {
	n = rational.Floor(rational.Quo(x, rational.RI(30)))
	d = rational.Sub(x, rational.Mul(rational.RI(30), n))
	return n, d
}

// TMean returns the mean-date series t_mean(x) = m0 + m1*n + m2*d − J2000_JD.
func (e *TraditionalDayEngine) TMean(x *big.Rat) *big.Rat {
	n, d := splitX(x)
	p := e.P
	mean := rational.Add(rational.Add(p.M0, rational.Mul(p.M1, n)), rational.Mul(p.M2, d))
	return rational.Sub(mean, rational.RI(J2000JD))
}

func affinePhase(c0, c1, c2, n, d *big.Rat) *big.Rat {
	return rational.Mod1(rational.Add(rational.Add(c0, rational.Mul(c1, n)), rational.Mul(c2, d)))
}

// TTrue returns the true-date series:
// t_true(x) = t_mean(x) + (1/60)*MoonTab(φ_moon(d,n)) − (1/60)*SunTab(φ_sun_anom(d,n)).
func (e *TraditionalDayEngine) TTrue(x *big.Rat) *big.Rat {
	n, d := splitX(x)
	p := e.P
	phiMoon := affinePhase(p.A0, p.A1, p.A2, n, d)
	phiSun := affinePhase(p.R0, p.R1, p.R2, n, d)

	moonCorr := rational.Quo(p.MoonTab.EvalTurn(phiMoon), rational.RI(60))
	sunCorr := rational.Quo(p.SunTab.EvalTurn(phiSun), rational.RI(60))

	return rational.Sub(rational.Add(e.TMean(x), moonCorr), sunCorr)
}

// LocalCivilDate returns the civil-aligned time of tithi coordinate x. The
// traditional lane absorbs the dawn convention into its affine constants,
// so this is simply TTrue(x).
func (e *TraditionalDayEngine) LocalCivilDate(x *big.Rat) *big.Rat {
	return e.TTrue(x)
}

// TrueDate is an alias for TTrue, satisfying the DayEngine interface: the
// traditional lane has no separate TT/civil distinction.
func (e *TraditionalDayEngine) TrueDate(x *big.Rat) *big.Rat {
	return e.TTrue(x)
}

// SolarLongitude returns the sun's mean-plus-equation-of-center longitude
// (in turns, wrapped to [0,1)) at tithi coordinate x: a separate
// affine+table series with amplitude 1/720 per table unit (spec.md §4.2).
func (e *TraditionalDayEngine) SolarLongitude(x *big.Rat) *big.Rat {
	n, d := splitX(x)
	p := e.P
	base := rational.Add(rational.Add(p.S0, rational.Mul(p.S1, n)), rational.Mul(p.S2, d))
	phiSun := affinePhase(p.R0, p.R1, p.R2, n, d)
	corr := rational.Quo(p.SunTab.EvalTurn(phiSun), rational.RI(720))
	return rational.Mod1(rational.Add(base, corr))
}

// GetXFromT2000 inverts TTrue: since t_true is strictly monotone increasing
// in x with amplitude well under one tithi, the linear seed is accurate to
// within a tithi or two and a short walk finds the exact bracket (spec.md
// §4.2).
func (e *TraditionalDayEngine) GetXFromT2000(t2000 *big.Rat) int64 {
	p := e.P
	seedNum := rational.Sub(t2000, rational.Sub(p.M0, rational.RI(J2000JD)))
	xEst := roundToInt(rational.Quo(seedNum, p.M2))

	for e.TTrue(rational.RI(xEst)).Cmp(t2000) > 0 {
		xEst--
	}
	for e.TTrue(rational.RI(xEst + 1)).Cmp(t2000) <= 0 {
		xEst++
	}
	return xEst
}

// roundToInt rounds x to the nearest integer (ties away from zero).
func roundToInt(x *big.Rat) int64 {
	half := rational.R(1, 2)
	if x.Sign() >= 0 {
		return rational.FloorInt(rational.Add(x, half))
	}
	return -rational.FloorInt(rational.Add(rational.Neg(x), half))
}
