package engine

import (
	"math/big"

	"go.caltib.dev/caltib/internal/rational"
)

// DayParamsRational carries the reform lane's true-elongation series
// (inverted by Picard iteration), ΔT and sunrise models, and observer
// location (spec.md §3.5).
type DayParamsRational struct {
	EpochK int64

	Elongation *rational.AffineTabSeries // A_elong, B_elong, lunar+solar terms (solar sign-flipped)
	SolarLon   *rational.AffineTabSeries // A_sun, B_sun, solar_terms

	Iterations int // 1..4, a hard contract per spec.md §4.3

	DeltaT  DeltaT
	Sunrise Sunrise

	LatTurn, LonTurn, Elev *big.Rat
}

// RationalDayEngine implements the reform/rational lane of spec.md §4.3:
// the true-elongation series is inverted by a fixed-iteration Picard
// solver to get TT, then shifted through UTC and a sunrise model to the
// civil day that contains the tithi boundary.
type RationalDayEngine struct {
	P DayParamsRational
}

func (e *RationalDayEngine) EpochK() int64 { return e.P.EpochK }

// TrueDate solves E_true(t) = x/30 for t via fixed Picard iteration,
// returning t_tt (Days-since-J2000.0).
func (e *RationalDayEngine) TrueDate(x *big.Rat) *big.Rat {
	target := rational.Quo(x, rational.RI(30))
	return e.P.Elongation.PicardSolve(target, e.P.Iterations)
}

// LocalCivilDate implements the 5-step civil-alignment algorithm of
// spec.md §4.3: TT → UTC via ΔT, bracket the civil day whose dawn contains
// t_utc, evaluate the sunrise model there, and shift t_utc to be relative
// to that civil day's dawn.
func (e *RationalDayEngine) LocalCivilDate(x *big.Rat) *big.Rat {
	p := e.P
	tTT := e.TrueDate(x)
	tUTC := rational.Sub(tTT, rational.Quo(p.DeltaT.Eval(tTT), rational.RI(86400)))

	// Seed the civil day so the dawn (~6am local) falls on an integer
	// boundary, then take the floor.
	jCivil := rational.FloorInt(rational.Add(rational.Add(tUTC, p.LonTurn), rational.R(1, 4)))

	// Approximate dawn UTC for jCivil, shifted back to TT to evaluate the
	// sun's position there.
	dawnApproxUTC := rational.Add(rational.RI(jCivil), rational.R(1, 4))
	dawnApproxTT := rational.Add(dawnApproxUTC, rational.Quo(p.DeltaT.Eval(dawnApproxUTC), rational.RI(86400)))

	sunAppLon := rational.Mod1(p.SolarLon.Eval(dawnApproxTT))
	obliquity := defaultObliquity

	dawnUTCExact := rational.Add(rational.RI(jCivil), p.Sunrise.Dawn(sunAppLon, obliquity, p.LatTurn, p.LonTurn))

	return rational.Add(rational.RI(jCivil), rational.Sub(tUTC, dawnUTCExact))
}

// defaultObliquity is the mean obliquity of the ecliptic, as a turn
// (≈23.4393°/360° ≈ 1/15.375), represented as a clean rational for the
// reform lane's unrefracted sunrise model.
var defaultObliquity = rational.R(23439, 360000)

// GetXFromT2000 inverts LocalCivilDate: since it is strictly monotone
// increasing in x (spec.md §8 invariant 6), seed from the mean rate and
// walk to the exact bracket, mirroring the traditional lane's inverse.
func (e *RationalDayEngine) GetXFromT2000(t2000 *big.Rat) int64 {
	// Seed via the elongation series' own linear rate: x ≈ 30*(t-A)/B.
	b := e.P.Elongation.B
	a := e.P.Elongation.A
	xEst := roundToInt(rational.Mul(rational.RI(30), rational.Quo(rational.Sub(t2000, a), b)))

	for e.LocalCivilDate(rational.RI(xEst)).Cmp(t2000) > 0 {
		xEst--
	}
	for e.LocalCivilDate(rational.RI(xEst + 1)).Cmp(t2000) <= 0 {
		xEst++
	}
	return xEst
}
