package engine

import (
	"math/big"

	"go.caltib.dev/caltib/internal/rational"
)

// MonthEngine maps a calendar label (Y,M) to its lunation index or indices,
// and a lunation index back to a label, per spec.md §4.1. Both the
// arithmetic and astronomical variants implement it.
type MonthEngine interface {
	// GetLunations returns the 1 or 2 lunations carrying label (year,
	// month), in chronological order. Precondition: month in 1..12
	// (caller's contract, per spec.md §4.1).
	GetLunations(year, month int64) []int64
	// GetMonthInfo resolves a lunation index to its label.
	GetMonthInfo(n int64) MonthInfo
	// FirstLunation returns the first lunation of a calendar year.
	FirstLunation(year int64) int64
	// IsTrigger reports whether (year, month) is a leap trigger.
	IsTrigger(year, month int64) bool
	EpochK() int64
}

// ArithmeticMonthEngine implements MonthEngine via the closed-form leap
// arithmetic of spec.md §4.1: a rational mean-motion ratio P/Q with a
// shifted trigger set.
type ArithmeticMonthEngine struct {
	Params MonthParams
}

func (e *ArithmeticMonthEngine) EpochK() int64 { return e.Params.EpochK }

// mStar returns M* := 12*(Y−Y0) + (M−M0).
func (e *ArithmeticMonthEngine) mStar(year, month int64) int64 {
	return 12*(year-e.Params.Y0) + (month - e.Params.M0)
}

// IntercalationIndex returns I := (ℓ·M* + β*) mod P.
func (e *ArithmeticMonthEngine) IntercalationIndex(year, month int64) int64 {
	p := e.Params
	mStar := e.mStar(year, month)
	return floorMod(p.Ell()*mStar+p.BetaStar, p.P)
}

// IntercalationIndexInternal returns I_int := (ℓ·M* + β_int) mod P.
func (e *ArithmeticMonthEngine) IntercalationIndexInternal(year, month int64) int64 {
	p := e.Params
	mStar := e.mStar(year, month)
	return floorMod(p.Ell()*mStar+p.BetaInt(), p.P)
}

// IntercalationTraditional applies the traditional-almanac "+ℓ" display
// shift for I > τ+ℓ−1, returned in {0..P−1} ("mod") or the extended range
// {0..P+ℓ−1} ("extended"), per spec.md §4.1.
func (e *ArithmeticMonthEngine) IntercalationTraditional(year, month int64, wrap string) int64 {
	p := e.Params
	i := e.IntercalationIndex(year, month)
	if i > p.Tau+p.Ell()-1 {
		shifted := i + p.Ell()
		if wrap == "extended" {
			return shifted
		}
		return floorMod(shifted, p.P)
	}
	return i
}

// IsTrigger reports whether (year, month) is a leap trigger: I_int < ℓ.
func (e *ArithmeticMonthEngine) IsTrigger(year, month int64) bool {
	return e.IntercalationIndexInternal(year, month) < e.Params.Ell()
}

// nPlus returns n_+(Y,M) := floor((Q·M* + β_int) / P).
func (e *ArithmeticMonthEngine) nPlus(year, month int64) int64 {
	p := e.Params
	mStar := e.mStar(year, month)
	return floorDiv(p.Q*mStar+p.BetaInt(), p.P)
}

// GetLunations returns the chronological lunation(s) carrying (year,
// month): a single lunation if not a trigger, or the pair (n_+−1, n_+) if
// it is.
func (e *ArithmeticMonthEngine) GetLunations(year, month int64) []int64 {
	nPlus := e.nPlus(year, month)
	if !e.IsTrigger(year, month) {
		return []int64{nPlus}
	}
	return []int64{nPlus - 1, nPlus}
}

// xOf returns x(n) := M*(n) + M0, where M*(n) := floor((P·n − β_int − 1)/Q) + 1.
func (e *ArithmeticMonthEngine) xOf(n int64) int64 {
	p := e.Params
	mStarN := floorDiv(p.P*n-p.BetaInt()-1, p.Q) + 1
	return mStarN + p.M0
}

// GetMonthInfo resolves a lunation index n to its label and leap state.
func (e *ArithmeticMonthEngine) GetMonthInfo(n int64) MonthInfo {
	p := e.Params
	x := e.xOf(n)
	month := amod12(x)
	year := p.Y0 + floorDiv(x-month, 12)

	leapState := 0
	if x == e.xOf(n+1) {
		leapState = 1
	} else if x == e.xOf(n-1) {
		leapState = 2
	}

	return MonthInfo{
		Year:        year,
		Month:       month,
		LeapState:   leapState,
		LinearMonth: month - 1,
	}
}

// FirstLunation returns the first lunation of year Y:
// get_lunations(Y,1)[0].
func (e *ArithmeticMonthEngine) FirstLunation(year int64) int64 {
	return e.GetLunations(year, 1)[0]
}

// SolarLongitudeFunc returns the sun's sidereal longitude (in turns) at the
// new-moon instant of lunation n — the input the astronomical month engine
// needs from a rational DayEngine's solar series.
type SolarLongitudeFunc func(n int64) *big.Rat

// AstronomicalMonthEngine implements MonthEngine via label-by-true-transit
// (spec.md §9 open question / L4 reform): sgang_index(n) := floor((L_sun(n)
// − sgang_base)·12); leap = no sgang change between consecutive lunations.
// Structured to mirror ArithmeticMonthEngine's x(n) inverse (same
// amod12/Y0/M0 label resolution, same "compare to neighbors" leap-state
// rule), so both variants genuinely implement one interface rather than
// two unrelated algorithms wearing the same method names.
type AstronomicalMonthEngine struct {
	SolarLongitude SolarLongitudeFunc
	SgangBase      *big.Rat
	Y0, M0         int64
	EpochKVal      int64
}

func (e *AstronomicalMonthEngine) EpochK() int64 { return e.EpochKVal }

func (e *AstronomicalMonthEngine) sgangIndex(n int64) int64 {
	lsun := e.SolarLongitude(n)
	diff := rational.Sub(lsun, e.SgangBase)
	return rational.FloorInt(rational.Mul(diff, rational.RI(12)))
}

func (e *AstronomicalMonthEngine) GetMonthInfo(n int64) MonthInfo {
	x := e.sgangIndex(n) + e.M0
	month := amod12(x)
	year := e.Y0 + floorDiv(x-month, 12)

	leapState := 0
	if e.sgangIndex(n) == e.sgangIndex(n+1) {
		leapState = 1
	} else if e.sgangIndex(n) == e.sgangIndex(n-1) {
		leapState = 2
	}

	return MonthInfo{Year: year, Month: month, LeapState: leapState, LinearMonth: month - 1}
}

// IsTrigger reports whether (year, month) is a leap trigger by searching
// near the linear estimate for a lunation whose label matches and whose
// sgang index repeats.
func (e *AstronomicalMonthEngine) IsTrigger(year, month int64) bool {
	lunations := e.GetLunations(year, month)
	return len(lunations) == 2
}

// GetLunations searches a bounded window around the linear estimate for the
// lunation(s) whose resolved label matches (year, month).
func (e *AstronomicalMonthEngine) GetLunations(year, month int64) []int64 {
	est := e.EpochKVal + 12*(year-e.Y0) + (month - e.M0)
	const window = 40
	var found []int64
	for n := est - window; n <= est+window; n++ {
		info := e.GetMonthInfo(n)
		if info.Year == year && info.Month == month {
			found = append(found, n)
		}
	}
	return found
}

func (e *AstronomicalMonthEngine) FirstLunation(year int64) int64 {
	return e.GetLunations(year, 1)[0]
}
