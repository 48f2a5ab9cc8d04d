package engine

import (
	"math/big"
	"testing"

	"go.caltib.dev/caltib/internal/rational"
)

func testMonthParams() MonthParams {
	// 19-year Metonic convergent: 228 ordinary months = 235 lunations, ell=7.
	return MonthParams{EpochK: 0, Y0: 0, M0: 1, P: 228, Q: 235, BetaStar: 0, Tau: 0}
}

func TestArithmeticMonthEngine_TriggerSetSize(t *testing.T) {
	p := testMonthParams()
	set := p.TriggerSet()
	if len(set) != int(p.Ell()) {
		t.Errorf("trigger set size = %d, want %d", len(set), p.Ell())
	}
}

// TestArithmeticMonthEngine_XOfMonthInfoRoundTrip checks that GetMonthInfo's
// label, fed back through GetLunations, returns a lunation resolving to the
// same n (the label/lunation bijection spec.md §8 invariant 1 relies on).
func TestArithmeticMonthEngine_XOfMonthInfoRoundTrip(t *testing.T) {
	e := &ArithmeticMonthEngine{Params: testMonthParams()}
	for n := int64(-50); n <= 50; n++ {
		info := e.GetMonthInfo(n)
		isLeap := info.LeapState == 2 // arbitrary convention for this check
		lunations := e.GetLunations(info.Year, info.Month)
		found := false
		for _, cand := range lunations {
			if cand == n {
				found = true
			}
		}
		if !found {
			t.Errorf("n=%d -> info=%+v, but GetLunations(%d,%d)=%v does not contain %d (isLeap guess=%v)",
				n, info, info.Year, info.Month, lunations, n, isLeap)
		}
	}
}

func TestArithmeticMonthEngine_MonthRangeInvariant(t *testing.T) {
	e := &ArithmeticMonthEngine{Params: testMonthParams()}
	for n := int64(-100); n <= 100; n++ {
		info := e.GetMonthInfo(n)
		if info.Month < 1 || info.Month > 12 {
			t.Fatalf("n=%d -> month=%d out of 1..12", n, info.Month)
		}
	}
}

func TestArithmeticMonthEngine_IsTriggerAgreesWithGetLunations(t *testing.T) {
	e := &ArithmeticMonthEngine{Params: testMonthParams()}
	for year := int64(-5); year <= 5; year++ {
		for month := int64(1); month <= 12; month++ {
			trig := e.IsTrigger(year, month)
			lunations := e.GetLunations(year, month)
			wantLen := 1
			if trig {
				wantLen = 2
			}
			if len(lunations) != wantLen {
				t.Errorf("year=%d month=%d: IsTrigger=%v but GetLunations returned %d entries",
					year, month, trig, len(lunations))
			}
		}
	}
}

// TestArithmeticMonthEngine_IntercalationTraditionalWrapModes checks the
// "+ℓ" display shift against a hand-computed expectation for both wrap
// modes, per spec.md §4.1 / §7's engine-lacks-capability worked example
// (this is the engine side of that capability; internal/api wires the
// registry-level capability check on top of it).
func TestArithmeticMonthEngine_IntercalationTraditionalWrapModes(t *testing.T) {
	e := &ArithmeticMonthEngine{Params: testMonthParams()}
	p := e.Params
	for year := int64(-5); year <= 5; year++ {
		for month := int64(1); month <= 12; month++ {
			i := e.IntercalationIndex(year, month)
			wantMod, wantExt := i, i
			if i > p.Tau+p.Ell()-1 {
				shifted := i + p.Ell()
				wantExt = shifted
				wantMod = floorMod(shifted, p.P)
			}
			if got := e.IntercalationTraditional(year, month, "mod"); got != wantMod {
				t.Errorf("year=%d month=%d wrap=mod: got %d, want %d", year, month, got, wantMod)
			}
			if got := e.IntercalationTraditional(year, month, "extended"); got != wantExt {
				t.Errorf("year=%d month=%d wrap=extended: got %d, want %d", year, month, got, wantExt)
			}
		}
	}
}

func TestArithmeticMonthEngine_FirstLunationIncreasing(t *testing.T) {
	e := &ArithmeticMonthEngine{Params: testMonthParams()}
	prev := e.FirstLunation(-10)
	for year := int64(-9); year <= 10; year++ {
		cur := e.FirstLunation(year)
		if cur <= prev {
			t.Errorf("FirstLunation(%d)=%d is not greater than FirstLunation(%d)=%d", year, cur, year-1, prev)
		}
		prev = cur
	}
}

// TestAstronomicalMonthEngine_LabelsAgreeWithLinearEstimate checks that the
// astronomical month engine, given a solar-longitude function that advances
// by exactly 1/12 turn per lunation (the idealized case with no anomaly),
// reproduces a plain 12-month calendar with no leap months.
func TestAstronomicalMonthEngine_LabelsAgreeWithLinearEstimate(t *testing.T) {
	solarLon := func(n int64) *big.Rat {
		return rational.Mod1(rational.Quo(rational.RI(n), rational.RI(12)))
	}
	e := &AstronomicalMonthEngine{
		SolarLongitude: solarLon,
		SgangBase:      rational.RI(0),
		Y0:             0,
		M0:             1,
		EpochKVal:      0,
	}
	for n := int64(-24); n <= 24; n++ {
		info := e.GetMonthInfo(n)
		if info.LeapState != 0 {
			t.Errorf("n=%d: expected no leap month in the idealized 12-per-year case, got LeapState=%d", n, info.LeapState)
		}
	}
}

func TestAstronomicalMonthEngine_DetectsLeapWhenSgangRepeats(t *testing.T) {
	// Advance the sgang index by 1/13 turn per lunation instead of 1/12, so
	// one lunation in a cycle repeats the same sgang index (a leap trigger).
	solarLon := func(n int64) *big.Rat {
		return rational.Mod1(rational.Quo(rational.RI(n), rational.RI(13)))
	}
	e := &AstronomicalMonthEngine{
		SolarLongitude: solarLon,
		SgangBase:      rational.RI(0),
		Y0:             0,
		M0:             1,
		EpochKVal:      0,
	}
	sawLeap := false
	for n := int64(-26); n <= 26; n++ {
		info := e.GetMonthInfo(n)
		if info.LeapState != 0 {
			sawLeap = true
		}
	}
	if !sawLeap {
		t.Error("expected at least one leap-state lunation when the sgang index advances slower than 1/12 turn per lunation")
	}
}
