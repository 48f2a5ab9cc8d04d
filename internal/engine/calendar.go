package engine

import (
	"math/big"

	"go.caltib.dev/caltib/internal/rational"
)

// DayEngine maps a continuous tithi coordinate to physical/civil time, in
// both the traditional and rational/reform lanes (spec.md §4.2, §4.3).
type DayEngine interface {
	EpochK() int64
	// TrueDate returns the (possibly non-civil-aligned) true date of tithi
	// coordinate x, used by civil-month boundary bracketing.
	TrueDate(x *big.Rat) *big.Rat
	// LocalCivilDate returns the civil-aligned date of tithi coordinate x,
	// such that floor(LocalCivilDate(x) + J2000JD) is the JDN of the civil
	// day containing that tithi boundary.
	LocalCivilDate(x *big.Rat) *big.Rat
	// GetXFromT2000 inverts LocalCivilDate approximately (accurate to
	// within about one tithi), for seeding the civil-month search.
	GetXFromT2000(t2000 *big.Rat) int64
}

// CalendarEngine is the orchestrator of spec.md §4.6: it hides the
// two-layer lunation coordinate system (month-layer n_m vs day-layer n_d,
// bridged by δk) and produces civil-day resolution.
type CalendarEngine struct {
	Id           EngineId
	Month        MonthEngine
	Day          DayEngine
	LeapLabeling LeapLabeling
	deltaK       int64
}

// NewCalendarEngine precomputes δk := month.epoch_k − day.epoch_k, the
// bridge between the month layer's and day layer's lunation coordinates.
func NewCalendarEngine(id EngineId, month MonthEngine, day DayEngine, leapLabeling LeapLabeling) *CalendarEngine {
	return &CalendarEngine{
		Id:           id,
		Month:        month,
		Day:          day,
		LeapLabeling: leapLabeling,
		deltaK:       month.EpochK() - day.EpochK(),
	}
}

// resolveLunation picks which of GetLunations(year, month)'s 1 or 2
// lunations corresponds to (isLeap), per the leap_labeling convention
// (spec.md §4.6 step 2).
func (c *CalendarEngine) resolveLunation(year, month int64, isLeap bool) (int64, error) {
	lunations := c.Month.GetLunations(year, month)
	switch len(lunations) {
	case 1:
		if isLeap {
			return 0, NewError(ErrInvalidLabel, "month is not a leap trigger", MonthLabel{year, month, isLeap})
		}
		return lunations[0], nil
	case 2:
		first, second := lunations[0], lunations[1]
		switch c.LeapLabeling {
		case FirstIsLeap:
			if isLeap {
				return first, nil
			}
			return second, nil
		case SecondIsLeap:
			if isLeap {
				return second, nil
			}
			return first, nil
		}
	}
	return 0, NewError(ErrInvalidLabel, "unexpected lunation count", MonthLabel{year, month, isLeap})
}

// MonthLabel is the (year, month, leap) triple attached to invalid-label
// errors so callers can recover the offending value.
type MonthLabel struct {
	Year   int64
	Month  int64
	IsLeap bool
}

// ToJDN implements spec.md §4.6 `to_jdn`.
func (c *CalendarEngine) ToJDN(year, month int64, isLeap bool, day int64) (int64, error) {
	if month < 1 || month > 12 {
		return 0, NewError(ErrInvalidLabel, "month_no out of range", month)
	}
	if day < 1 || day > 30 {
		return 0, NewError(ErrInvalidLabel, "tithi out of range", day)
	}
	nm, err := c.resolveLunation(year, month, isLeap)
	if err != nil {
		return 0, err
	}
	nd := nm + c.deltaK
	x := rational.RI(30*nd + day)
	civilDate := c.Day.LocalCivilDate(x)
	return rational.FloorInt(rational.Add(civilDate, rational.RI(J2000JD))), nil
}

// BuildCivilMonth implements spec.md §4.6 `_build_civil_month` for the
// day-layer lunation index n_d: which civil JDNs carry which tithi labels,
// and which are duplicated or have absorbed a skipped label.
func (c *CalendarEngine) BuildCivilMonth(nd int64) *CivilMonthMap {
	hits := make(map[int64][]int64, 32)
	for d := int64(1); d <= 30; d++ {
		x := rational.RI(30*nd + d)
		jdn := rational.FloorInt(rational.Add(c.Day.LocalCivilDate(x), rational.RI(J2000JD)))
		hits[jdn] = append(hits[jdn], d)
	}

	firstJDN := rational.FloorInt(rational.Add(c.Day.TrueDate(rational.RI(30*(nd-1)+30)), rational.RI(J2000JD))) + 1
	lastJDN := rational.FloorInt(rational.Add(c.Day.TrueDate(rational.RI(30*nd+30)), rational.RI(J2000JD)))

	entries := make([]CivilDayEntry, 0, 32)
	var prevLabel int64
	havePrev := false
	for jdn := firstJDN; jdn <= lastJDN; jdn++ {
		ended := hits[jdn]
		switch len(ended) {
		case 0:
			day := int64(1)
			repeated := false
			if havePrev {
				day = prevLabel
				repeated = true
			}
			entries = append(entries, CivilDayEntry{JDN: jdn, Day: day, Repeated: repeated, Skipped: false})
		case 1:
			entries = append(entries, CivilDayEntry{JDN: jdn, Day: ended[0], Repeated: false, Skipped: false})
			prevLabel, havePrev = ended[0], true
		default:
			last := ended[len(ended)-1]
			entries = append(entries, CivilDayEntry{JDN: jdn, Day: last, Repeated: false, Skipped: true})
			prevLabel, havePrev = last, true
		}
	}

	return &CivilMonthMap{LunationDay: nd, Entries: entries}
}

// FromJDN implements spec.md §4.6 `from_jdn`: resolve a civil JDN to its
// full Tibetan label.
func (c *CalendarEngine) FromJDN(jdn int64) (MonthInfo, CivilDayEntry, error) {
	t2000 := rational.Sub(rational.RI(jdn), rational.RI(J2000JD))
	t2000 = rational.Add(t2000, rational.R(1, 2)) // jdn + 0.5, per spec.md §4.6 step 1
	xEst := c.Day.GetXFromT2000(t2000)
	nd := floorDiv(xEst, 30)

	var cmap *CivilMonthMap
	var entry CivilDayEntry
	var ok bool
	for _, delta := range []int64{0, -1, 1, -2, 2} {
		cmap = c.BuildCivilMonth(nd + delta)
		entry, ok = cmap.ByJDN(jdn)
		if ok {
			nd += delta
			break
		}
	}
	if !ok {
		return MonthInfo{}, CivilDayEntry{}, NewError(ErrOutOfRange, "jdn not resolvable to a civil month", jdn)
	}

	nm := nd - c.deltaK
	info := c.Month.GetMonthInfo(nm)
	return info, entry, nil
}

// DayInfo implements spec.md §4.6 `day_info`.
func (c *CalendarEngine) DayInfo(g GregorianDate) (DayInfo, error) {
	jdn := JDNFromGregorian(g)
	info, entry, err := c.FromJDN(jdn)
	if err != nil {
		return DayInfo{}, err
	}
	isLeap := info.IsLeap(c.LeapLabeling)
	occ := 1
	status := StatusNormal
	if entry.Repeated {
		occ = 2
		status = StatusDuplicated
	}
	return DayInfo{
		Tibetan: TibetanDate{
			EngineId:    c.Id,
			Year:        info.Year,
			MonthNo:     info.Month,
			IsLeapMonth: isLeap,
			Tithi:       entry.Day,
			Occ:         occ,
		},
		Gregorian:   g,
		Status:      status,
		JDN:         jdn,
		LinearMonth: info.LinearMonth,
	}, nil
}

// ToGregorian implements spec.md §4.6 `to_gregorian`.
func (c *CalendarEngine) ToGregorian(td TibetanDate, policy ToGregorianPolicy) ([]GregorianDate, error) {
	nm, err := c.resolveLunation(td.Year, td.MonthNo, td.IsLeapMonth)
	if err != nil {
		return nil, err
	}
	nd := nm + c.deltaK
	cmap := c.BuildCivilMonth(nd)

	var matches []int64
	for _, e := range cmap.Entries {
		if e.Day == td.Tithi {
			matches = append(matches, e.JDN)
		}
	}

	switch policy {
	case PolicyAll:
		return jdnsToGregorian(matches), nil
	case PolicyOcc:
		idx := td.Occ - 1
		if idx < 0 || idx >= len(matches) {
			return nil, NewError(ErrAmbiguousOrMissingMatch, "no match at requested occurrence", td)
		}
		return jdnsToGregorian(matches[idx : idx+1]), nil
	case PolicyFirst:
		if len(matches) == 0 {
			return nil, NewError(ErrAmbiguousOrMissingMatch, "no match", td)
		}
		return jdnsToGregorian(matches[0:1]), nil
	case PolicySecond:
		if len(matches) < 2 {
			return nil, NewError(ErrAmbiguousOrMissingMatch, "no second match", td)
		}
		return jdnsToGregorian(matches[1:2]), nil
	case PolicyRaise:
		if len(matches) != 1 {
			return nil, NewError(ErrAmbiguousOrMissingMatch, "expected exactly one match", len(matches))
		}
		return jdnsToGregorian(matches), nil
	}
	return nil, NewError(ErrInvalidLabel, "unknown policy", policy)
}

func jdnsToGregorian(jdns []int64) []GregorianDate {
	out := make([]GregorianDate, len(jdns))
	for i, j := range jdns {
		out[i] = GregorianFromJDN(j)
	}
	return out
}

// DeltaK exposes δk := month.epoch_k − day.epoch_k for callers that need to
// translate between the month-layer (n_m) and day-layer (n_d) lunation
// coordinates directly, such as the low-level debug probes of spec.md §6.
func (c *CalendarEngine) DeltaK() int64 { return c.deltaK }

// CivilMonthByLabel resolves (year, month, isLeap) to its day-layer
// lunation index and civil-day map in one step.
func (c *CalendarEngine) CivilMonthByLabel(year, month int64, isLeap bool) (*CivilMonthMap, error) {
	nm, err := c.resolveLunation(year, month, isLeap)
	if err != nil {
		return nil, err
	}
	return c.BuildCivilMonth(nm + c.deltaK), nil
}

// MonthBounds returns the first and last civil JDN of (year, month, isLeap).
func (c *CalendarEngine) MonthBounds(year, month int64, isLeap bool) (first, last int64, err error) {
	cmap, err := c.CivilMonthByLabel(year, month, isLeap)
	if err != nil {
		return 0, 0, err
	}
	return cmap.FirstJDN(), cmap.LastJDN(), nil
}

// DaysInMonth implements spec.md §6 `days_in_month`: the ordered per-civil-
// day records of (year, month, isLeap), usually 30 entries but 29 when
// exactly one tithi is skipped that lunation.
func (c *CalendarEngine) DaysInMonth(year, month int64, isLeap bool) ([]CivilDayEntry, error) {
	cmap, err := c.CivilMonthByLabel(year, month, isLeap)
	if err != nil {
		return nil, err
	}
	return cmap.Entries, nil
}

// AdjacentMonthInfo resolves the lunation delta steps away from (year,
// month, isLeap) in the month layer: delta=-1 for the previous month,
// delta=+1 for the next.
func (c *CalendarEngine) AdjacentMonthInfo(year, month int64, isLeap bool, delta int64) (MonthInfo, error) {
	nm, err := c.resolveLunation(year, month, isLeap)
	if err != nil {
		return MonthInfo{}, err
	}
	return c.Month.GetMonthInfo(nm + delta), nil
}

// MonthsInYear implements spec.md §6 `months_in_year`: one record per
// lunation labeled with calendar year `year`, in chronological order — 12
// entries, or 13 in a year containing a leap-trigger pair, with both
// instances of a trigger present and IsLeapMonth set on whichever instance
// the engine's leap_labeling convention calls leap.
func (c *CalendarEngine) MonthsInYear(year int64) []MonthRecord {
	var out []MonthRecord
	for month := int64(1); month <= 12; month++ {
		for _, n := range c.Month.GetLunations(year, month) {
			info := c.Month.GetMonthInfo(n)
			out = append(out, MonthRecord{
				Year:        info.Year,
				Month:       info.Month,
				IsLeapMonth: info.IsLeap(c.LeapLabeling),
				Lunation:    n,
			})
		}
	}
	return out
}

// TrueDateDN is a low-level debug probe (spec.md §6): the unrounded true
// date of tithi coordinate x := 30*nd + day, as an exact rational number of
// days since J2000.0.
func (c *CalendarEngine) TrueDateDN(nd, day int64) *big.Rat {
	return c.Day.TrueDate(rational.RI(30*nd + day))
}

// EndJDDN is a low-level debug probe (spec.md §6): the last civil JDN of
// day-layer lunation nd.
func (c *CalendarEngine) EndJDDN(nd int64) int64 {
	return c.BuildCivilMonth(nd).LastJDN()
}
