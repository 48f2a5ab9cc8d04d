package registry

import (
	"math/rand"
	"testing"

	"go.caltib.dev/caltib/internal/engine"
	"go.caltib.dev/caltib/internal/rational"
)

// TestSweep_DayInfoToGregorianRoundTrip is the >=2000-draw pseudo-random
// sweep over [1600-01-01, 2400-12-31] from spec.md §8: for every registered
// engine, a civil date resolved to a Tibetan label and back must return the
// same civil date, and every resolved label must stay within its documented
// ranges.
func TestSweep_DayInfoToGregorianRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pseudo-random sweep in -short mode")
	}
	r := Build()
	rng := rand.New(rand.NewSource(20260730))

	const draws = 2000
	firstJDN := engine.JDNFromGregorian(engine.GregorianDate{Year: 1600, Month: 1, Day: 1})
	lastJDN := engine.JDNFromGregorian(engine.GregorianDate{Year: 2400, Month: 12, Day: 31})
	span := lastJDN - firstJDN

	names := r.Names()
	for _, name := range names {
		e, _ := r.Get(name)
		for i := 0; i < draws; i++ {
			jdn := firstJDN + rng.Int63n(span+1)
			g := engine.GregorianFromJDN(jdn)

			info, err := e.DayInfo(g)
			if err != nil {
				t.Fatalf("engine %q: DayInfo(%+v) [jdn=%d]: %v", name, g, jdn, err)
			}
			if info.Tibetan.MonthNo < 1 || info.Tibetan.MonthNo > 12 {
				t.Fatalf("engine %q: jdn=%d -> month_no=%d out of range", name, jdn, info.Tibetan.MonthNo)
			}
			if info.Tibetan.Tithi < 1 || info.Tibetan.Tithi > 30 {
				t.Fatalf("engine %q: jdn=%d -> tithi=%d out of range", name, jdn, info.Tibetan.Tithi)
			}
			if info.JDN != jdn {
				t.Fatalf("engine %q: DayInfo(%+v).JDN = %d, want %d", name, g, info.JDN, jdn)
			}

			td := engine.TibetanDate{
				Year: info.Tibetan.Year, MonthNo: info.Tibetan.MonthNo,
				IsLeapMonth: info.Tibetan.IsLeapMonth, Tithi: info.Tibetan.Tithi, Occ: info.Tibetan.Occ,
			}
			back, err := e.ToGregorian(td, engine.PolicyOcc)
			if err != nil {
				t.Fatalf("engine %q: ToGregorian(%+v) [from jdn=%d]: %v", name, td, jdn, err)
			}
			if len(back) != 1 || back[0] != g {
				t.Fatalf("engine %q: round trip failed at jdn=%d: got %v, want [%+v]", name, jdn, back, g)
			}
		}
	}
}

// TestSweep_TrueDateMonotone checks spec.md §8 invariant 6: each day
// engine's TrueDate is strictly increasing in the tithi coordinate, sampled
// across the same 800-year window.
func TestSweep_TrueDateMonotone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pseudo-random sweep in -short mode")
	}
	r := Build()
	rng := rand.New(rand.NewSource(20260730))

	for _, name := range r.Names() {
		e, _ := r.Get(name)
		x := rng.Int63n(200000) - 100000
		prev := e.Day.TrueDate(rational.RI(x))
		for i := 0; i < 500; i++ {
			x++
			cur := e.Day.TrueDate(rational.RI(x))
			if cur.Cmp(prev) <= 0 {
				t.Fatalf("engine %q: TrueDate not strictly increasing at step %d", name, i)
			}
			prev = cur
		}
	}
}
