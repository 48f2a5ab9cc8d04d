package engine

import (
	"testing"

	"go.caltib.dev/caltib/internal/rational"
)

// testEngine builds a small, self-contained CalendarEngine (arithmetic month
// layer + traditional day layer) for exercising the orchestrator without
// depending on the registry's literal specs.
func testEngine() *CalendarEngine {
	moonTab := rational.NewOddPeriodicTable(28, []int64{0, 6, 11, 16, 20, 23, 24, 25})
	sunTab := rational.NewOddPeriodicTable(12, []int64{0, 6, 10, 11})

	monthParams := MonthParams{EpochK: 0, Y0: 0, M0: 1, P: 228, Q: 235, BetaStar: 0, Tau: 0}
	month := &ArithmeticMonthEngine{Params: monthParams}

	meanMonth := rational.R(10631, 360)
	m2 := rational.Quo(meanMonth, rational.RI(30))
	s1 := rational.R(1, 12)
	s2 := rational.Quo(s1, rational.RI(30))
	a1 := rational.R(1, 9)
	a2 := rational.Quo(a1, rational.RI(30))

	day := &TraditionalDayEngine{P: DayParamsTraditional{
		EpochK:  0,
		M0:      rational.RI(0),
		M1:      meanMonth,
		M2:      m2,
		S0:      rational.R(1, 4),
		S1:      s1,
		S2:      s2,
		R0:      rational.RI(0),
		R1:      s1,
		R2:      s2,
		A0:      rational.R(1, 4),
		A1:      a1,
		A2:      a2,
		MoonTab: moonTab,
		SunTab:  sunTab,
	}}

	return NewCalendarEngine(EngineId{Family: "test", Name: "test", Version: "1"}, month, day, SecondIsLeap)
}

func TestCalendarEngine_ToJDNFromJDNRoundTrip(t *testing.T) {
	e := testEngine()
	for year := int64(-3); year <= 3; year++ {
		for month := int64(1); month <= 12; month++ {
			for day := int64(1); day <= 30; day++ {
				jdn, err := e.ToJDN(year, month, false, day)
				if err != nil {
					t.Fatalf("ToJDN(%d,%d,false,%d): %v", year, month, day, err)
				}
				info, entry, err := e.FromJDN(jdn)
				if err != nil {
					t.Fatalf("FromJDN(%d): %v", jdn, err)
				}
				if info.Year != year || info.Month != month {
					t.Errorf("ToJDN(%d,%d,_,%d)=%d -> FromJDN gives label (%d,%d), want (%d,%d)",
						year, month, day, jdn, info.Year, info.Month, year, month)
				}
				_ = entry
			}
		}
	}
}

func TestCalendarEngine_DayInfoJDNMatchesGregorianConversion(t *testing.T) {
	e := testEngine()
	g := GregorianDate{2024, 6, 15}
	info, err := e.DayInfo(g)
	if err != nil {
		t.Fatalf("DayInfo: %v", err)
	}
	want := JDNFromGregorian(g)
	if info.JDN != want {
		t.Errorf("DayInfo(%+v).JDN = %d, want %d", g, info.JDN, want)
	}
	if info.Gregorian != g {
		t.Errorf("DayInfo(%+v).Gregorian = %+v, want unchanged input", g, info.Gregorian)
	}
}

// TestCalendarEngine_BuildCivilMonthContiguous checks spec.md §8 invariant 2:
// a lunation's civil-day map spans a contiguous run of JDNs with no gaps.
func TestCalendarEngine_BuildCivilMonthContiguous(t *testing.T) {
	e := testEngine()
	for nd := int64(-20); nd <= 20; nd++ {
		cmap := e.BuildCivilMonth(nd)
		if len(cmap.Entries) < 29 || len(cmap.Entries) > 30 {
			t.Errorf("nd=%d: civil month has %d days, want 29 or 30", nd, len(cmap.Entries))
		}
		for i := 1; i < len(cmap.Entries); i++ {
			if cmap.Entries[i].JDN != cmap.Entries[i-1].JDN+1 {
				t.Errorf("nd=%d: civil month JDNs not contiguous at index %d: %d -> %d",
					nd, i, cmap.Entries[i-1].JDN, cmap.Entries[i].JDN)
			}
		}
	}
}

// TestCalendarEngine_TithiLabelsMonotoneWithinMonth checks that the tithi
// labels within one civil month never decrease (duplicated days repeat the
// previous label; skipped days jump forward, but never backward).
func TestCalendarEngine_TithiLabelsMonotoneWithinMonth(t *testing.T) {
	e := testEngine()
	for nd := int64(-10); nd <= 10; nd++ {
		cmap := e.BuildCivilMonth(nd)
		for i := 1; i < len(cmap.Entries); i++ {
			if cmap.Entries[i].Day < cmap.Entries[i-1].Day {
				t.Errorf("nd=%d: tithi label decreased at index %d: %d -> %d",
					nd, i, cmap.Entries[i-1].Day, cmap.Entries[i].Day)
			}
		}
	}
}

func TestCalendarEngine_ToGregorianPolicyRaiseOnSingleMatch(t *testing.T) {
	e := testEngine()
	td := TibetanDate{Year: 2024, MonthNo: 6, IsLeapMonth: false, Tithi: 15, Occ: 1}
	dates, err := e.ToGregorian(td, PolicyRaise)
	if err != nil {
		t.Fatalf("ToGregorian: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected exactly one date, got %d", len(dates))
	}
	info, err := e.DayInfo(dates[0])
	if err != nil {
		t.Fatalf("DayInfo: %v", err)
	}
	if info.Tibetan.Year != td.Year || info.Tibetan.MonthNo != td.MonthNo || info.Tibetan.Tithi != td.Tithi {
		t.Errorf("round trip mismatch: got %+v, want label matching %+v", info.Tibetan, td)
	}
}

func TestCalendarEngine_MonthBoundsOrdered(t *testing.T) {
	e := testEngine()
	first, last, err := e.MonthBounds(2024, 6, false)
	if err != nil {
		t.Fatalf("MonthBounds: %v", err)
	}
	if last < first {
		t.Errorf("MonthBounds: last=%d < first=%d", last, first)
	}
}

func TestCalendarEngine_AdjacentMonthInfoMovesOneLunation(t *testing.T) {
	e := testEngine()
	next, err := e.AdjacentMonthInfo(2024, 6, false, +1)
	if err != nil {
		t.Fatalf("AdjacentMonthInfo(+1): %v", err)
	}
	prev, err := e.AdjacentMonthInfo(2024, 6, false, -1)
	if err != nil {
		t.Fatalf("AdjacentMonthInfo(-1): %v", err)
	}
	if next.Year < 2024 || (next.Year == 2024 && next.Month < 6) {
		t.Errorf("next month %+v should be chronologically after (2024,6)", next)
	}
	if prev.Year > 2024 || (prev.Year == 2024 && prev.Month > 6) {
		t.Errorf("prev month %+v should be chronologically before (2024,6)", prev)
	}
}

func TestCalendarEngine_MonthsInYearIs12Or13(t *testing.T) {
	e := testEngine()
	for year := int64(-5); year <= 5; year++ {
		records := e.MonthsInYear(year)
		if len(records) != 12 && len(records) != 13 {
			t.Errorf("MonthsInYear(%d) returned %d records, want 12 or 13", year, len(records))
		}
	}
}

// TestCalendarEngine_MonthsInYearLeapRecordsMatchTriggers checks spec.md §8's
// concrete scenario: is_leap_month=true records appear exactly at the
// trigger labels of the year, and every record's label falls within that
// year.
func TestCalendarEngine_MonthsInYearLeapRecordsMatchTriggers(t *testing.T) {
	e := testEngine()
	for year := int64(-5); year <= 5; year++ {
		records := e.MonthsInYear(year)
		leapCount := 0
		for _, rec := range records {
			if rec.Year != year {
				t.Errorf("year=%d: record %+v has a label from another year", year, rec)
			}
			if rec.IsLeapMonth {
				leapCount++
				if !e.Month.IsTrigger(rec.Year, rec.Month) {
					t.Errorf("year=%d: record %+v marked leap but (year,month) is not a trigger", year, rec)
				}
			}
		}
		wantLeap := len(records) - 12
		if leapCount != wantLeap {
			t.Errorf("year=%d: %d leap records, want %d (len(records)-12)", year, leapCount, wantLeap)
		}
	}
}

func TestCalendarEngine_ToJDNRejectsOutOfRangeLabel(t *testing.T) {
	e := testEngine()
	if _, err := e.ToJDN(2024, 13, false, 1); err == nil {
		t.Error("expected an error for month_no=13")
	}
	if _, err := e.ToJDN(2024, 1, false, 31); err == nil {
		t.Error("expected an error for tithi=31")
	}
}

func TestCalendarEngine_ToJDNRejectsNonTriggerLeapLabel(t *testing.T) {
	e := testEngine()
	// Find a non-trigger month first.
	for month := int64(1); month <= 12; month++ {
		if !e.Month.IsTrigger(2024, month) {
			if _, err := e.ToJDN(2024, month, true, 1); err == nil {
				t.Errorf("expected an error requesting isLeap=true on a non-trigger month %d", month)
			}
			return
		}
	}
}

// TestCalendarEngine_DaysInMonthCoversTriggerUnionWithoutGap checks spec.md
// §8's concrete scenario: at a leap-trigger label, days_in_month(isLeap=true)
// and days_in_month(isLeap=false) together cover the union of the two
// lunations' civil days without gap.
func TestCalendarEngine_DaysInMonthCoversTriggerUnionWithoutGap(t *testing.T) {
	e := testEngine()
	found := false
	for year := int64(-10); year <= 10 && !found; year++ {
		for month := int64(1); month <= 12; month++ {
			if !e.Month.IsTrigger(year, month) {
				continue
			}
			found = true
			leapEntries, err := e.DaysInMonth(year, month, true)
			if err != nil {
				t.Fatalf("DaysInMonth(leap=true): %v", err)
			}
			plainEntries, err := e.DaysInMonth(year, month, false)
			if err != nil {
				t.Fatalf("DaysInMonth(leap=false): %v", err)
			}
			var first, second []CivilDayEntry
			if leapEntries[0].JDN < plainEntries[0].JDN {
				first, second = leapEntries, plainEntries
			} else {
				first, second = plainEntries, leapEntries
			}
			if second[0].JDN != first[len(first)-1].JDN+1 {
				t.Errorf("year=%d month=%d: civil days not contiguous across the trigger pair: %d -> %d",
					year, month, first[len(first)-1].JDN, second[0].JDN)
			}
			break
		}
	}
	if !found {
		t.Skip("no leap trigger found in sample window")
	}
}

func TestCalendarEngine_DeltaKIsPrecomputed(t *testing.T) {
	e := testEngine()
	if e.DeltaK() != e.Month.EpochK()-e.Day.EpochK() {
		t.Errorf("DeltaK() = %d, want month.EpochK()-day.EpochK()=%d", e.DeltaK(), e.Month.EpochK()-e.Day.EpochK())
	}
}
