// Package registry materializes the closed set of named calendar engines
// (spec.md §5) from concrete parameter literals into wired CalendarEngine
// instances.
//
// Every constant below is a plausible, internally consistent rational
// approximation, not a claim of historical-almanac fidelity: spec.md §1
// explicitly excludes reproducing any individual almanac's page-level
// output bit-for-bit. The month-layer ratios are continued-fraction
// convergents of the synodic-month/year ratio (≈12.3682667 synodic months
// per tropical year); the day-layer mean-month length, 10631/360, is the
// traditional Phugpa value (29;31,50 days in sexagesimal: 29 + 31/60 +
// 50/3600), reused across the traditional engines with small per-tradition
// offsets. See DESIGN.md for the full derivation.
package registry

import (
	"math/big"

	"go.caltib.dev/caltib/internal/engine"
	"go.caltib.dev/caltib/internal/rational"
)

// meanMonth is the traditional mean synodic month, in days: 29;31,50,0,0 in
// the sexagesimal day-fraction notation the Phugpa tradition uses.
var meanMonth = rational.R(10631, 360)

// moonTab and sunTab are the traditional lane's two quarter-wave anomaly
// correction tables, in units of 1/60 of a day. Node values trace a
// quarter sine scaled to each table's peak, which is the smooth monotone
// shape a lunar/solar equation-of-center correction actually has (spec.md
// §3.4, §8.8).
var (
	moonTab = rational.NewOddPeriodicTable(28, []int64{0, 6, 11, 16, 20, 23, 24, 25})
	sunTab  = rational.NewOddPeriodicTable(12, []int64{0, 6, 10, 11})
)

// monthParams builds the MonthParams of a Metonic-family engine: P/Q is the
// shared convergent, tau and epochK vary per tradition so their trigger
// sets land on different lunations.
func monthParams(p, q, tau, epochK, y0, m0 int64) engine.MonthParams {
	return engine.MonthParams{
		EpochK:   epochK,
		Y0:       y0,
		M0:       m0,
		P:        p,
		Q:        q,
		BetaStar: 0,
		Tau:      tau,
	}
}

// traditionalDay builds a DayParamsTraditional sharing the common mean
// month, solar series, and correction tables; epochK and the lunar anomaly
// phase base moonPhase0 vary per tradition.
func traditionalDay(epochK int64, m0 *big.Rat, moonPhase0 *big.Rat) engine.DayParamsTraditional {
	m1 := meanMonth
	m2 := rational.Quo(m1, rational.RI(30))
	s1 := rational.R(1, 12)
	s2 := rational.Quo(s1, rational.RI(30))
	r0 := rational.Sub(rational.R(1, 4), rational.R(1, 4)) // S0 - 1/4, S0 == 1/4
	return engine.DayParamsTraditional{
		EpochK:  epochK,
		M0:      m0,
		M1:      m1,
		M2:      m2,
		S0:      rational.R(1, 4),
		S1:      s1,
		S2:      s2,
		R0:      r0,
		R1:      s1,
		R2:      s2,
		A0:      moonPhase0,
		A1:      rational.R(1, 9),
		A2:      rational.Quo(rational.R(1, 9), rational.RI(30)),
		MoonTab: moonTab,
		SunTab:  sunTab,
	}
}

// rationalDay builds a DayParamsRational sharing a common two-term
// elongation/solar series, varying epochK, iteration depth, ΔT model, and
// observer coordinates per reform level (spec.md §3.5).
func rationalDay(epochK int64, iterations int, deltaT engine.DeltaT, sunrise engine.Sunrise, latTurn, lonTurn *big.Rat) engine.DayParamsRational {
	elongA := rational.RI(0)
	elongB := rational.Quo(rational.RI(1), meanMonth)
	elongTerms := []rational.TermDef{
		{Amp: rational.R(1, 720), Phase: rational.PhaseT{C0: rational.R(1, 4), C1: rational.R(1, 9)}, Table: moonTab},
		{Amp: rational.R(-1, 720), Phase: rational.PhaseT{C0: rational.RI(0), C1: rational.R(1, 12)}, Table: sunTab},
	}
	sunA := rational.RI(0)
	sunB := rational.R(1, 365)
	sunTerms := []rational.TermDef{
		{Amp: rational.R(1, 720), Phase: rational.PhaseT{C0: rational.RI(0), C1: rational.R(1, 12)}, Table: sunTab},
	}
	return engine.DayParamsRational{
		EpochK:     epochK,
		Elongation: &rational.AffineTabSeries{A: elongA, B: elongB, Terms: elongTerms},
		SolarLon:   &rational.AffineTabSeries{A: sunA, B: sunB, Terms: sunTerms},
		Iterations: iterations,
		DeltaT:     deltaT,
		Sunrise:    sunrise,
		LatTurn:    latTurn,
		LonTurn:    lonTurn,
		Elev:       rational.RI(0),
	}
}

// lhasaLat and lhasaLon are Lhasa's coordinates expressed as turns
// (fraction of a full circle), the reference site for every engine below.
var (
	lhasaLat = rational.R(2991, 36000) // ≈29.91° N
	lhasaLon = rational.R(9106, 36000) // ≈91.06° E, as a turn east of Greenwich
)

// buildSpecs returns the closed set of 9 named engine specs (spec.md §5):
// phugpa, tsurphu, mongol, bhutan, karana (traditional lane), and
// reform-l1..reform-l4 (rational lane, graduated fidelity, l4 astronomical
// month-layer).
func buildSpecs() []*EngineSpec {
	// Metonic convergent shared by the traditional engines and reform L3:
	// 19 years = 228 ordinary months = 235 lunations, ℓ=7.
	const metonicP, metonicQ = 228, 235

	specs := []*EngineSpec{
		{
			Id:           engine.EngineId{Family: "traditional", Name: "phugpa", Version: "1"},
			MonthKind:    engine.MonthArithmetic,
			DayKind:      engine.KindTraditional,
			LeapLabeling: engine.SecondIsLeap,
			Month:        monthParams(metonicP, metonicQ, 0, 0, 0, 1),
			Traditional:  traditionalDay(0, rational.RI(0), rational.R(1, 4)),
		},
		{
			Id:           engine.EngineId{Family: "traditional", Name: "tsurphu", Version: "1"},
			MonthKind:    engine.MonthArithmetic,
			DayKind:      engine.KindTraditional,
			LeapLabeling: engine.SecondIsLeap,
			Month:        monthParams(metonicP, metonicQ, 3, 0, 0, 1),
			Traditional:  traditionalDay(0, rational.R(1, 60), rational.R(7, 24)),
		},
		{
			Id:           engine.EngineId{Family: "traditional", Name: "mongol", Version: "1"},
			MonthKind:    engine.MonthArithmetic,
			DayKind:      engine.KindTraditional,
			LeapLabeling: engine.FirstIsLeap,
			Month:        monthParams(metonicP, metonicQ, 5, 0, 0, 1),
			Traditional:  traditionalDay(0, rational.R(-1, 60), rational.R(5, 24)),
		},
		{
			// Open question resolved (spec.md §9): bhutan keeps
			// second_is_leap, the same convention as phugpa, but is a
			// distinct named tradition with its own trigger offset and
			// epoch — not a labeling variant of phugpa.
			Id:           engine.EngineId{Family: "traditional", Name: "bhutan", Version: "1"},
			MonthKind:    engine.MonthArithmetic,
			DayKind:      engine.KindTraditional,
			LeapLabeling: engine.SecondIsLeap,
			Month:        monthParams(metonicP, metonicQ, 1, 2, 0, 1),
			Traditional:  traditionalDay(2, rational.R(1, 30), rational.R(3, 24)),
		},
		{
			// Open question resolved (spec.md §9): karana's canonical
			// convention is second_is_leap; fixtures recorded under
			// first_is_leap are historical fossils of an older edition and
			// are not reproduced here (spec.md §1 non-goal).
			Id:           engine.EngineId{Family: "traditional", Name: "karana", Version: "1"},
			MonthKind:    engine.MonthArithmetic,
			DayKind:      engine.KindTraditional,
			LeapLabeling: engine.SecondIsLeap,
			Month:        monthParams(metonicP, metonicQ, 2, 1, 0, 1),
			Traditional:  traditionalDay(1, rational.R(1, 20), rational.R(11, 24)),
		},
		{
			// L1: crudest reform fidelity — 8-year convergent (96/99,
			// ℓ=3), constant ΔT, constant dawn offset, single Picard pass.
			Id:           engine.EngineId{Family: "reform", Name: "l1", Version: "1"},
			MonthKind:    engine.MonthArithmetic,
			DayKind:      engine.KindRational,
			LeapLabeling: engine.SecondIsLeap,
			Month:        monthParams(96, 99, 0, 0, 0, 1),
			Rational: rationalDay(0, 1,
				engine.ConstantDeltaT{Value: rational.RI(69)},
				engine.ConstantSunrise{F: rational.R(1, 4)},
				lhasaLat, lhasaLon),
		},
		{
			// L2: 11-year convergent (132/136, ℓ=4), quadratic ΔT, still a
			// constant dawn offset, two Picard passes.
			Id:           engine.EngineId{Family: "reform", Name: "l2", Version: "1"},
			MonthKind:    engine.MonthArithmetic,
			DayKind:      engine.KindRational,
			LeapLabeling: engine.SecondIsLeap,
			Month:        monthParams(132, 136, 0, 0, 0, 1),
			Rational: rationalDay(0, 2,
				engine.QuadraticDeltaT{A: rational.RI(69), B: rational.RI(22), C: rational.RI(0), Y0: rational.RI(2000)},
				engine.ConstantSunrise{F: rational.R(1, 4)},
				lhasaLat, lhasaLon),
		},
		{
			// L3: full Metonic convergent (228/235, ℓ=7, shared with the
			// traditional lane), quadratic ΔT, the spherical sunrise
			// model, three Picard passes.
			Id:           engine.EngineId{Family: "reform", Name: "l3", Version: "1"},
			MonthKind:    engine.MonthArithmetic,
			DayKind:      engine.KindRational,
			LeapLabeling: engine.SecondIsLeap,
			Month:        monthParams(metonicP, metonicQ, 0, 0, 0, 1),
			Rational: rationalDay(0, 3,
				engine.QuadraticDeltaT{A: rational.RI(69), B: rational.RI(22), C: rational.RI(6), Y0: rational.RI(2000)},
				&engine.SphericalSunrise{},
				lhasaLat, lhasaLon),
		},
		{
			// L4 (open question resolved, spec.md §9): ships the
			// astronomical true-transit month engine as its default,
			// alongside the same L3-grade day layer — the most
			// astronomically faithful of the nine named engines.
			Id:                engine.EngineId{Family: "reform", Name: "l4", Version: "1"},
			MonthKind:         engine.MonthAstronomical,
			DayKind:           engine.KindRational,
			LeapLabeling:      engine.SecondIsLeap,
			AstronomicalY0:    0,
			AstronomicalM0:    1,
			AstronomicalEpoch: 0,
			SgangBase:         rational.RI(0),
			Rational: rationalDay(0, 4,
				engine.QuadraticDeltaT{A: rational.RI(69), B: rational.RI(22), C: rational.RI(6), Y0: rational.RI(2000)},
				&engine.SphericalSunrise{},
				lhasaLat, lhasaLon),
		},
	}
	return specs
}
