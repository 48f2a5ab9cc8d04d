package registry

import (
	"math/big"
	"sync"

	"go.caltib.dev/caltib/internal/engine"
	"go.caltib.dev/caltib/internal/rational"
)

// EngineSpec is the closed-literal description of one named calendar
// engine (spec.md §5): which MonthEngine and DayEngine variants to build,
// and their concrete parameters. Exactly one of Month/(AstronomicalY0 etc.)
// and exactly one of Traditional/Rational is populated, selected by
// MonthKind/DayKind.
type EngineSpec struct {
	Id           engine.EngineId
	MonthKind    engine.MonthEngineKind
	DayKind      engine.EngineKind
	LeapLabeling engine.LeapLabeling

	Month engine.MonthParams // valid when MonthKind == MonthArithmetic

	// Valid when MonthKind == MonthAstronomical.
	AstronomicalY0    int64
	AstronomicalM0    int64
	AstronomicalEpoch int64
	SgangBase         *big.Rat

	Traditional engine.DayParamsTraditional // valid when DayKind == KindTraditional
	Rational    engine.DayParamsRational    // valid when DayKind == KindRational
}

// Registry is the read-only, build-once set of named CalendarEngines
// (spec.md §5). Grounded on the teacher's lazy sync.Once-loaded lookup
// tables (station_adjustments.go), generalized from a JSON-file load to an
// in-process literal build since the engine set is closed and compiled in,
// not user-supplied data.
type Registry struct {
	once    sync.Once
	engines map[string]*engine.CalendarEngine
	names   []string
}

var global = &Registry{}

// Build materializes the 9 named engines, idempotently. Safe for
// concurrent use; the underlying map is never mutated after the first
// call.
func Build() *Registry {
	global.once.Do(global.build)
	return global
}

func (r *Registry) build() {
	specs := buildSpecs()
	r.engines = make(map[string]*engine.CalendarEngine, len(specs))
	r.names = make([]string, 0, len(specs))
	for _, spec := range specs {
		name := spec.Id.Name
		r.engines[name] = spec.toCalendarEngine()
		r.names = append(r.names, name)
	}
}

// meanNewMoonTT approximates the TT instant of lunation n by inverting the
// elongation series' own linear rate with zero Picard iterations (the pure
// mean estimate, no table correction). Leap-trigger detection only needs
// the sun's approximate sidereal longitude at that instant, not a fully
// Picard-solved true date.
func meanNewMoonTT(p engine.DayParamsRational, n int64) *big.Rat {
	return p.Elongation.PicardSolve(rational.RI(n), 0)
}

// toCalendarEngine wires one spec's MonthEngine and DayEngine into a
// CalendarEngine, following spec.md §4.6's δk bridge.
func (s *EngineSpec) toCalendarEngine() *engine.CalendarEngine {
	dayEngine := s.buildDayEngine()

	var monthEngine engine.MonthEngine
	switch s.MonthKind {
	case engine.MonthAstronomical:
		rp := s.Rational
		monthEngine = &engine.AstronomicalMonthEngine{
			SolarLongitude: func(n int64) *big.Rat {
				t := meanNewMoonTT(rp, n)
				return rational.Mod1(rp.SolarLon.Eval(t))
			},
			SgangBase: s.SgangBase,
			Y0:        s.AstronomicalY0,
			M0:        s.AstronomicalM0,
			EpochKVal: s.AstronomicalEpoch,
		}
	default:
		monthEngine = &engine.ArithmeticMonthEngine{Params: s.Month}
	}

	return engine.NewCalendarEngine(s.Id, monthEngine, dayEngine, s.LeapLabeling)
}

func (s *EngineSpec) buildDayEngine() engine.DayEngine {
	switch s.DayKind {
	case engine.KindTraditional:
		return &engine.TraditionalDayEngine{P: s.Traditional}
	case engine.KindRational:
		return &engine.RationalDayEngine{P: s.Rational}
	}
	panic("registry: unhandled day engine kind")
}

// Get returns the named engine and whether it exists.
func (r *Registry) Get(name string) (*engine.CalendarEngine, bool) {
	if r.engines == nil {
		panic("registry: Get called before Build")
	}
	e, ok := r.engines[name]
	return e, ok
}

// Names returns every registered engine name, in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
