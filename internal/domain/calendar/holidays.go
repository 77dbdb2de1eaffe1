// Package calendar computes the Colombian public-holiday calendar: fixed
// holidays, Ley Emiliani Monday-moved holidays and Easter-relative holidays,
// optionally merged with manually curated overrides from storage.
package calendar

import (
	"sort"
	"sync"
	"time"
)

// Holiday is a single observed holiday date with its display name.
type Holiday struct {
	Date time.Time
	Name string
}

type fixedDate struct {
	month time.Month
	day   int
	name  string
}

// Fixed-date holidays that are observed on the day they fall.
var fixedHolidays = []fixedDate{
	{time.January, 1, "Año Nuevo"},
	{time.May, 1, "Día del Trabajo"},
	{time.July, 20, "Día de la Independencia"},
	{time.August, 7, "Batalla de Boyacá"},
	{time.December, 8, "Inmaculada Concepción"},
	{time.December, 25, "Navidad"},
}

// Fixed-date holidays moved to the following Monday (Ley Emiliani).
var emilianiHolidays = []fixedDate{
	{time.January, 6, "Reyes Magos"},
	{time.March, 19, "San José"},
	{time.June, 29, "San Pedro y San Pablo"},
	{time.August, 15, "Asunción de la Virgen"},
	{time.October, 12, "Día de la Raza"},
	{time.November, 1, "Todos los Santos"},
	{time.November, 11, "Independencia de Cartagena"},
}

// Easter-relative holidays observed at a fixed offset.
var easterFixed = []struct {
	offset int
	name   string
}{
	{-3, "Jueves Santo"},
	{-2, "Viernes Santo"},
}

// Easter-relative holidays moved to the following Monday.
var easterMoved = []struct {
	offset int
	name   string
}{
	{39, "Ascensión del Señor"},
	{60, "Corpus Christi"},
	{68, "Sagrado Corazón"},
}

// Date builds a civil date: midnight UTC. All calendar math in this module
// works on civil dates, never on wall-clock instants.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize truncates an instant to its civil date.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// nextMonday applies the Ley Emiliani shift: a holiday already on Monday
// stays; any other weekday advances to the following Monday.
func nextMonday(d time.Time) time.Time {
	if d.Weekday() == time.Monday {
		return d
	}
	days := (8 - int(d.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return d.AddDate(0, 0, days)
}

var (
	yearCacheMu sync.RWMutex
	yearCache   = map[int][]Holiday{}
)

// Holidays returns the algorithmic holiday set for a year, sorted by date.
// Total for any valid year; results are memoized.
func Holidays(year int) []Holiday {
	yearCacheMu.RLock()
	cached, ok := yearCache[year]
	yearCacheMu.RUnlock()
	if ok {
		return cached
	}

	hs := make([]Holiday, 0, len(fixedHolidays)+len(emilianiHolidays)+len(easterFixed)+len(easterMoved))
	for _, f := range fixedHolidays {
		hs = append(hs, Holiday{Date: Date(year, f.month, f.day), Name: f.name})
	}
	for _, f := range emilianiHolidays {
		hs = append(hs, Holiday{Date: nextMonday(Date(year, f.month, f.day)), Name: f.name})
	}
	easter := easterSunday(year)
	for _, e := range easterFixed {
		hs = append(hs, Holiday{Date: easter.AddDate(0, 0, e.offset), Name: e.name})
	}
	for _, e := range easterMoved {
		hs = append(hs, Holiday{Date: nextMonday(easter.AddDate(0, 0, e.offset)), Name: e.name})
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i].Date.Before(hs[j].Date) })

	yearCacheMu.Lock()
	yearCache[year] = hs
	yearCacheMu.Unlock()
	return hs
}

// HolidaySet returns the algorithmic holidays for a year keyed by date.
func HolidaySet(year int) map[time.Time]bool {
	set := make(map[time.Time]bool)
	for _, h := range Holidays(year) {
		set[h.Date] = true
	}
	return set
}

// InRange lists algorithmic holiday dates within [start, end], inclusive on
// both ends: callers pass night ranges and window bounds, both of which treat
// their last day as eligible.
func InRange(start, end time.Time) []time.Time {
	start, end = Normalize(start), Normalize(end)
	var out []time.Time
	for year := start.Year(); year <= end.Year(); year++ {
		for _, h := range Holidays(year) {
			if !h.Date.Before(start) && !h.Date.After(end) {
				out = append(out, h.Date)
			}
		}
	}
	return out
}
