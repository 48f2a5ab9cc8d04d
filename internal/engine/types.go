// Package engine implements the per-calendar kinematics stack described in
// spec.md §4: a discrete MonthEngine, a continuous-to-civil DayEngine (in
// traditional and rational/reform variants), and the CalendarEngine
// orchestrator that joins them through the two-layer lunation coordinate
// bridge δk.
//
// Grounded architecturally on the teacher's domain package (one interface
// per swappable concern — NodalCorrection, PhaseConvention — with a small
// set of concrete implementations selected by a tag), generalized here to
// MonthEngine/DayEngine/DeltaT/Sunrise.
package engine

import (
	"math/big"

	"go.caltib.dev/caltib/internal/rational"
)

// J2000JD is the Julian Day Number of the J2000.0 reference epoch.
const J2000JD = 2451545

// EngineId identifies a calendar variant. Immutable.
type EngineId struct {
	Family  string
	Name    string
	Version string
}

// LeapLabeling selects which of a trigger pair's two lunations is reported
// as the "leap" instance.
type LeapLabeling int

const (
	FirstIsLeap LeapLabeling = iota
	SecondIsLeap
)

func (l LeapLabeling) String() string {
	if l == SecondIsLeap {
		return "second_is_leap"
	}
	return "first_is_leap"
}

// EngineKind tags which DayEngine family an EngineSpec selects.
type EngineKind int

const (
	KindTraditional EngineKind = iota
	KindRational
	KindFloat
)

// MonthEngineKind tags which MonthEngine family an EngineSpec selects.
type MonthEngineKind int

const (
	MonthArithmetic MonthEngineKind = iota
	MonthAstronomical
)

// MonthParams carries the arithmetic of leap-month placement (spec.md §3.3).
type MonthParams struct {
	EpochK   int64
	Y0, M0   int64
	P, Q     int64
	BetaStar int64 // β*, in 0..P-1
	Tau      int64 // τ, in 0..P-1
}

// Ell returns ℓ := Q − P, the number of leap months per P months.
func (p MonthParams) Ell() int64 { return p.Q - p.P }

// Gamma returns γ := (P − τ) mod P.
func (p MonthParams) Gamma() int64 { return floorMod(p.P-p.Tau, p.P) }

// BetaInt returns β_int := β* + γ.
func (p MonthParams) BetaInt() int64 { return p.BetaStar + p.Gamma() }

// TriggerSet returns {(τ+k) mod P | 0 ≤ k < ℓ}.
func (p MonthParams) TriggerSet() map[int64]bool {
	set := make(map[int64]bool, p.Ell())
	for k := int64(0); k < p.Ell(); k++ {
		set[floorMod(p.Tau+k, p.P)] = true
	}
	return set
}

// MonthInfo is the result of resolving a lunation index to a calendar
// label: its year, month-in-year, leap state (0 regular, 1 first-of-pair,
// 2 second-of-pair), and the 0-origin linear month index within the year.
type MonthInfo struct {
	Year        int64
	Month       int64
	LeapState   int
	LinearMonth int64
}

// IsLeap reports whether this MonthInfo's lunation is the instance that a
// given leap_labeling convention calls "leap".
func (m MonthInfo) IsLeap(labeling LeapLabeling) bool {
	switch labeling {
	case FirstIsLeap:
		return m.LeapState == 1
	case SecondIsLeap:
		return m.LeapState == 2
	}
	return false
}

// MonthRecord is one dated lunation entry of a months_in_year listing
// (spec.md §6 `months_in_year`): the label this lunation resolves to and
// whether this particular instance is the one the leap_labeling convention
// calls leap.
type MonthRecord struct {
	Year        int64
	Month       int64
	IsLeapMonth bool
	Lunation    int64 // month-layer lunation index n_m
}

// DeltaT models the TT-UTC offset, in seconds, as a function of TT
// (Days-since-J2000.0).
type DeltaT interface {
	Eval(tTT *big.Rat) *big.Rat
}

// ConstantDeltaT is a fixed ΔT, in seconds.
type ConstantDeltaT struct {
	Value *big.Rat
}

func (d ConstantDeltaT) Eval(_ *big.Rat) *big.Rat { return d.Value }

// QuadraticDeltaT implements ΔT(u) = a + b*u + c*u^2, u := (year − y0)/100,
// year computed as t_tt/365.25 + 2000.
type QuadraticDeltaT struct {
	A, B, C, Y0 *big.Rat
}

func (d QuadraticDeltaT) Eval(tTT *big.Rat) *big.Rat {
	year := d.year(tTT)
	u := rational.Quo(rational.Sub(year, d.Y0), rational.RI(100))
	return rational.Add(rational.Add(d.A, rational.Mul(d.B, u)), rational.Mul(d.C, rational.Mul(u, u)))
}

// year converts TT (days since J2000.0) to a fractional Gregorian year
// using the Julian-year approximation (365.25 days/year), per spec.md §4.3.
func (d QuadraticDeltaT) year(tTT *big.Rat) *big.Rat {
	return rational.Add(rational.Quo(tTT, rational.R(36525, 100)), rational.RI(2000))
}

// Sunrise models the local civil-dawn offset from midnight, as a fraction
// of a day (a turn), given the apparent sun longitude and obliquity at an
// approximate dawn, the observer's coordinates, and the shared trig table.
type Sunrise interface {
	Dawn(sunAppLonTurns, obliquityTurns, latTurn, lonTurn *big.Rat) *big.Rat
}

// ConstantSunrise returns a fixed dawn fraction f, adjusted for longitude:
// sunrise = f − lon_turn.
type ConstantSunrise struct {
	F *big.Rat
}

func (s ConstantSunrise) Dawn(_, _, _, lonTurn *big.Rat) *big.Rat {
	return rational.Sub(s.F, lonTurn)
}

// TibetanDate is a Tibetan-calendar label (spec.md §3.7).
type TibetanDate struct {
	EngineId    EngineId
	Year        int64
	MonthNo     int64 // 1..12
	IsLeapMonth bool
	Tithi       int64 // 1..30
	Occ         int   // 1 (default) or 2
}

// DayStatus marks whether a civil day is a normal, single-tithi day, or one
// where the previous tithi's label was duplicated onto it.
type DayStatus int

const (
	StatusNormal DayStatus = iota
	StatusDuplicated
)

func (s DayStatus) String() string {
	if s == StatusDuplicated {
		return "duplicated"
	}
	return "normal"
}

// DayInfo couples a TibetanDate to its civil Gregorian date and status.
type DayInfo struct {
	Tibetan     TibetanDate
	Gregorian   GregorianDate
	Status      DayStatus
	JDN         int64
	LinearMonth int64
}

// CivilDayEntry is one entry of a CivilMonthMap: the tithi label a civil
// JDN carries, whether it repeats the previous label, and whether it
// absorbed a skipped label.
type CivilDayEntry struct {
	JDN      int64
	Day      int64 // tithi label 1..30
	Repeated bool
	Skipped  bool
}

// CivilMonthMap is a dense mapping from contiguous JDNs to tithi labels for
// one lunation, built on demand (spec.md §3.8).
type CivilMonthMap struct {
	LunationDay int64 // n_d, the day-layer lunation index
	Entries     []CivilDayEntry
}

// ByJDN returns the entry for a given JDN, and whether it was found.
func (m *CivilMonthMap) ByJDN(jdn int64) (CivilDayEntry, bool) {
	for _, e := range m.Entries {
		if e.JDN == jdn {
			return e, true
		}
	}
	return CivilDayEntry{}, false
}

// FirstJDN and LastJDN bound the civil days of the lunation.
func (m *CivilMonthMap) FirstJDN() int64 { return m.Entries[0].JDN }
func (m *CivilMonthMap) LastJDN() int64  { return m.Entries[len(m.Entries)-1].JDN }

// ToGregorianPolicy selects how to_gregorian resolves multiple matches.
type ToGregorianPolicy int

const (
	PolicyAll ToGregorianPolicy = iota
	PolicyOcc
	PolicyFirst
	PolicySecond
	PolicyRaise
)
