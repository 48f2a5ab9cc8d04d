package engine

import (
	"math/big"

	"go.caltib.dev/caltib/internal/rational"
)

// SphericalSunrise computes dawn from the apparent sun longitude and
// obliquity at an approximate dawn instant, via the standard spherical
// hour-angle equation, using only the shared sine table's sin/cos/acos
// (spec.md §4.3 step 4). Topocentric refraction is out of scope (spec.md
// §1 non-goals); this is the unrefracted horizon crossing.
type SphericalSunrise struct{}

// Dawn returns the dawn offset (a turn) such that sunrise = 1/2 − H0 − lon,
// where H0 is the hour angle of sunrise derived from declination and
// latitude. Polar day/night are clamped: if the sun never sets or never
// rises at this latitude on this date, H0 is clamped to 0 or 1/4
// respectively (dawn coincides with local noon/midnight in that limit).
func (SphericalSunrise) Dawn(sunAppLonTurns, obliquityTurns, latTurn, lonTurn *big.Rat) *big.Rat {
	sinDecl := rational.Mul(rational.Sin(obliquityTurns), rational.Sin(sunAppLonTurns))
	decl := rational.SineTable.AsinTurn(clamp11(sinDecl))

	sinLat := rational.Sin(latTurn)
	cosLat := rational.Cos(latTurn)
	sinDeltaVal := rational.Sin(decl)
	cosDeltaVal := rational.Cos(decl)

	var cosH0 *big.Rat
	if cosLat.Sign() == 0 || cosDeltaVal.Sign() == 0 {
		cosH0 = rational.RI(0)
	} else {
		tanLat := rational.Quo(sinLat, cosLat)
		tanDelta := rational.Quo(sinDeltaVal, cosDeltaVal)
		cosH0 = rational.Neg(rational.Mul(tanLat, tanDelta))
	}
	cosH0 = clamp11(cosH0)

	h0 := rational.SineTable.AcosTurn(cosH0)
	return rational.Sub(rational.Sub(rational.R(1, 2), h0), lonTurn)
}

// clamp11 clamps x to [-1, 1], the domain of AsinTurn/AcosTurn's normalized
// input — needed because the unrefracted hour-angle / declination formulas
// can otherwise fall outside [-1, 1] at polar latitudes (polar day/night).
func clamp11(x *big.Rat) *big.Rat {
	one := rational.RI(1)
	negOne := rational.RI(-1)
	return rational.Max(negOne, rational.Min(one, x))
}
