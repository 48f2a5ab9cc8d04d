// Package api is the single entry point spec.md §6 describes: every
// caller — the CLI, the HTTP server, a future embedder — goes through this
// package rather than touching internal/engine or internal/registry
// directly.
package api

import (
	"fmt"
	"math/big"

	"go.caltib.dev/caltib/internal/engine"
	"go.caltib.dev/caltib/internal/registry"
)

// API is the thin dispatcher over the engine registry. Stateless beyond the
// registry itself, so safe for concurrent use (mirrors the registry's own
// build-once/read-only contract).
type API struct {
	reg *registry.Registry
}

// New builds (or reuses) the process-wide engine registry and returns an
// API bound to it.
func New() *API {
	return &API{reg: registry.Build()}
}

func (a *API) resolve(name string) (*engine.CalendarEngine, error) {
	e, ok := a.reg.Get(name)
	if !ok {
		return nil, engine.NewError(engine.ErrUnknownEngine, "no such engine registered", name)
	}
	return e, nil
}

// ListEngines returns every registered engine name.
func (a *API) ListEngines() []string {
	return a.reg.Names()
}

// EngineInfo describes one registered engine's identity and capabilities.
type EngineInfo struct {
	Id           engine.EngineId
	LeapLabeling string
}

// EngineInfo returns the identity of a named engine.
func (a *API) EngineInfo(name string) (EngineInfo, error) {
	e, err := a.resolve(name)
	if err != nil {
		return EngineInfo{}, err
	}
	return EngineInfo{Id: e.Id, LeapLabeling: e.LeapLabeling.String()}, nil
}

// DayInfo resolves a Gregorian civil date to its full Tibetan label under
// the named engine.
func (a *API) DayInfo(name string, g engine.GregorianDate) (engine.DayInfo, error) {
	e, err := a.resolve(name)
	if err != nil {
		return engine.DayInfo{}, err
	}
	return e.DayInfo(g)
}

// ToGregorian resolves a Tibetan label to one or more Gregorian civil
// dates, per policy.
func (a *API) ToGregorian(name string, td engine.TibetanDate, policy engine.ToGregorianPolicy) ([]engine.GregorianDate, error) {
	e, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return e.ToGregorian(td, policy)
}

// NewYearDay returns the Gregorian date of the first civil day of month 1
// (non-leap) of the given Tibetan year.
func (a *API) NewYearDay(name string, year int64) (engine.GregorianDate, error) {
	e, err := a.resolve(name)
	if err != nil {
		return engine.GregorianDate{}, err
	}
	jdn, err := e.ToJDN(year, 1, false, 1)
	if err != nil {
		return engine.GregorianDate{}, err
	}
	return engine.GregorianFromJDN(jdn), nil
}

// MonthBounds returns the first and last Gregorian civil dates of (year,
// month, isLeap).
func (a *API) MonthBounds(name string, year, month int64, isLeap bool) (first, last engine.GregorianDate, err error) {
	e, err := a.resolve(name)
	if err != nil {
		return engine.GregorianDate{}, engine.GregorianDate{}, err
	}
	firstJDN, lastJDN, err := e.MonthBounds(year, month, isLeap)
	if err != nil {
		return engine.GregorianDate{}, engine.GregorianDate{}, err
	}
	return engine.GregorianFromJDN(firstJDN), engine.GregorianFromJDN(lastJDN), nil
}

// FirstDayOfMonth and LastDayOfMonth are MonthBounds' two halves, named per
// spec.md §6's individual operation list.
func (a *API) FirstDayOfMonth(name string, year, month int64, isLeap bool) (engine.GregorianDate, error) {
	first, _, err := a.MonthBounds(name, year, month, isLeap)
	return first, err
}

func (a *API) LastDayOfMonth(name string, year, month int64, isLeap bool) (engine.GregorianDate, error) {
	_, last, err := a.MonthBounds(name, year, month, isLeap)
	return last, err
}

// DaysInMonth returns the ordered per-civil-day records of (year, month,
// isLeap).
func (a *API) DaysInMonth(name string, year, month int64, isLeap bool) ([]engine.CivilDayEntry, error) {
	e, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return e.DaysInMonth(year, month, isLeap)
}

// MonthsInYear returns one record per lunation labeled with calendar year
// `year`: 12 entries, or 13 if it contains a leap-trigger pair, each
// exposing whether that instance is the leap one.
func (a *API) MonthsInYear(name string, year int64) ([]engine.MonthRecord, error) {
	e, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return e.MonthsInYear(year), nil
}

// IntercalationTraditional exposes the traditional almanac's "+ℓ" display
// intercalation index for (year, month) (spec.md §7's worked example of
// engine-lacks-capability): only an arithmetic month engine has one, so a
// reform engine whose month layer is astronomical (l4) is rejected.
func (a *API) IntercalationTraditional(name string, year, month int64, wrap string) (int64, error) {
	e, err := a.resolve(name)
	if err != nil {
		return 0, err
	}
	arith, ok := e.Month.(*engine.ArithmeticMonthEngine)
	if !ok {
		return 0, engine.NewError(engine.ErrEngineLacksCapability,
			"intercalation_index_traditional requires an arithmetic month engine", name)
	}
	return arith.IntercalationTraditional(year, month, wrap), nil
}

// PrevMonth and NextMonth resolve the adjacent lunation's label.
func (a *API) PrevMonth(name string, year, month int64, isLeap bool) (engine.MonthInfo, error) {
	e, err := a.resolve(name)
	if err != nil {
		return engine.MonthInfo{}, err
	}
	return e.AdjacentMonthInfo(year, month, isLeap, -1)
}

func (a *API) NextMonth(name string, year, month int64, isLeap bool) (engine.MonthInfo, error) {
	e, err := a.resolve(name)
	if err != nil {
		return engine.MonthInfo{}, err
	}
	return e.AdjacentMonthInfo(year, month, isLeap, +1)
}

// MonthInfo resolves a raw month-layer lunation index directly (bypassing
// label resolution), the low-level counterpart to PrevMonth/NextMonth.
func (a *API) MonthInfo(name string, nm int64) (engine.MonthInfo, error) {
	e, err := a.resolve(name)
	if err != nil {
		return engine.MonthInfo{}, err
	}
	return e.Month.GetMonthInfo(nm), nil
}

// MonthFromN is an alias of MonthInfo kept for spec.md §6's naming: callers
// that already have a month-layer lunation index from a previous call (e.g.
// PrevMonth's result fed back in) use this name for the round trip.
func (a *API) MonthFromN(name string, nm int64) (engine.MonthInfo, error) {
	return a.MonthInfo(name, nm)
}

// TrueDateDN is a low-level debug probe: the exact, unrounded true date (in
// days since J2000.0) of tithi coordinate x = 30*nd + day under the named
// engine's day layer.
func (a *API) TrueDateDN(name string, nd, day int64) (*big.Rat, error) {
	e, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return e.TrueDateDN(nd, day), nil
}

// EndJDDN is a low-level debug probe: the last civil JDN of day-layer
// lunation nd.
func (a *API) EndJDDN(name string, nd int64) (int64, error) {
	e, err := a.resolve(name)
	if err != nil {
		return 0, err
	}
	return e.EndJDDN(nd), nil
}

// CivilMonthN is a low-level debug probe: the full civil-day map of
// day-layer lunation nd.
func (a *API) CivilMonthN(name string, nd int64) (*engine.CivilMonthMap, error) {
	e, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	return e.BuildCivilMonth(nd), nil
}

// Attribute is a named extractor over a resolved DayInfo, the mechanism
// behind the CLI's repeatable `--attr NAME` flag. It also receives the
// resolved engine, since some attributes (e.g. the traditional display
// intercalation index) are derived from the engine's month layer rather
// than re-exported from DayInfo itself.
type Attribute func(e *engine.CalendarEngine, d engine.DayInfo) (string, error)

// attributes is the closed set of named per-day attributes the CLI/HTTP
// surface can request individually. Most simply re-export a DayInfo field;
// `intercalation_traditional` is a genuinely derived value, following
// original_source's attributes/standard.py (which computes derived scalars
// like weekday and sexagenary_year rather than only re-exporting fields).
var attributes = map[string]Attribute{
	"year":    func(_ *engine.CalendarEngine, d engine.DayInfo) (string, error) { return fmt.Sprintf("%d", d.Tibetan.Year), nil },
	"month":   func(_ *engine.CalendarEngine, d engine.DayInfo) (string, error) { return fmt.Sprintf("%d", d.Tibetan.MonthNo), nil },
	"is_leap": func(_ *engine.CalendarEngine, d engine.DayInfo) (string, error) { return fmt.Sprintf("%t", d.Tibetan.IsLeapMonth), nil },
	"tithi":   func(_ *engine.CalendarEngine, d engine.DayInfo) (string, error) { return fmt.Sprintf("%d", d.Tibetan.Tithi), nil },
	"occ":     func(_ *engine.CalendarEngine, d engine.DayInfo) (string, error) { return fmt.Sprintf("%d", d.Tibetan.Occ), nil },
	"status":  func(_ *engine.CalendarEngine, d engine.DayInfo) (string, error) { return d.Status.String(), nil },
	"jdn":     func(_ *engine.CalendarEngine, d engine.DayInfo) (string, error) { return fmt.Sprintf("%d", d.JDN), nil },
	"intercalation_traditional": func(e *engine.CalendarEngine, d engine.DayInfo) (string, error) {
		arith, ok := e.Month.(*engine.ArithmeticMonthEngine)
		if !ok {
			return "", engine.NewError(engine.ErrEngineLacksCapability,
				"intercalation_traditional requires an arithmetic month engine", e.Id)
		}
		i := arith.IntercalationTraditional(d.Tibetan.Year, d.Tibetan.MonthNo, "mod")
		return fmt.Sprintf("%d", i), nil
	},
}

// AttributeNames lists every attribute name Attr accepts.
func AttributeNames() []string {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	return names
}

// Attr extracts a single named attribute from a resolved DayInfo under the
// named engine.
func (a *API) Attr(engineName, attrName string, d engine.DayInfo) (string, error) {
	e, err := a.resolve(engineName)
	if err != nil {
		return "", err
	}
	fn, ok := attributes[attrName]
	if !ok {
		return "", engine.NewError(engine.ErrInvalidLabel, "unknown attribute", attrName)
	}
	return fn(e, d)
}

// Explain produces a debug dump of the intermediate values behind one
// DayInfo resolution: the day-layer lunation index, the δk bridge, and the
// exact (unrounded) true date, alongside the resolved label itself.
// Grounded on the teacher's structured-metadata response fields
// (PredictionResponse.Meta, predict.go), generalized from a fixed string
// map to typed fields since every value here is a concrete, named
// quantity rather than free-form provenance text.
type Explanation struct {
	Info             engine.DayInfo
	DeltaK           int64
	LunationDayIndex int64
	TrueDate         *big.Rat
}

// Explain resolves a Gregorian date and returns both the result and the
// intermediate coordinates that produced it.
func (a *API) Explain(name string, g engine.GregorianDate) (Explanation, error) {
	e, err := a.resolve(name)
	if err != nil {
		return Explanation{}, err
	}
	info, err := e.DayInfo(g)
	if err != nil {
		return Explanation{}, err
	}
	cmap, err := e.CivilMonthByLabel(info.Tibetan.Year, info.Tibetan.MonthNo, info.Tibetan.IsLeapMonth)
	if err != nil {
		return Explanation{}, err
	}
	trueDate := e.TrueDateDN(cmap.LunationDay, info.Tibetan.Tithi)
	return Explanation{
		Info:             info,
		DeltaK:           e.DeltaK(),
		LunationDayIndex: cmap.LunationDay,
		TrueDate:         trueDate,
	}, nil
}
