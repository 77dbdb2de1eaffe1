//go:build unit

package calendar_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/domain/calendar"
)

func d(year int, month time.Month, day int) time.Time {
	return calendar.Date(year, month, day)
}

func TestHolidays2026(t *testing.T) {
	got := calendar.Holidays(2026)

	expected := []calendar.Holiday{
		{Date: d(2026, time.January, 1), Name: "Año Nuevo"},
		{Date: d(2026, time.January, 12), Name: "Reyes Magos"}, // Jan 6 is a Tuesday
		{Date: d(2026, time.March, 23), Name: "San José"},      // Mar 19 is a Thursday
		{Date: d(2026, time.April, 2), Name: "Jueves Santo"},
		{Date: d(2026, time.April, 3), Name: "Viernes Santo"},
		{Date: d(2026, time.May, 1), Name: "Día del Trabajo"},
		{Date: d(2026, time.May, 18), Name: "Ascensión del Señor"},
		{Date: d(2026, time.June, 8), Name: "Corpus Christi"},
		{Date: d(2026, time.June, 15), Name: "Sagrado Corazón"},
		{Date: d(2026, time.June, 29), Name: "San Pedro y San Pablo"}, // already a Monday
		{Date: d(2026, time.July, 20), Name: "Día de la Independencia"},
		{Date: d(2026, time.August, 7), Name: "Batalla de Boyacá"},
		{Date: d(2026, time.August, 17), Name: "Asunción de la Virgen"},
		{Date: d(2026, time.October, 12), Name: "Día de la Raza"}, // already a Monday
		{Date: d(2026, time.November, 2), Name: "Todos los Santos"},
		{Date: d(2026, time.November, 16), Name: "Independencia de Cartagena"},
		{Date: d(2026, time.December, 8), Name: "Inmaculada Concepción"},
		{Date: d(2026, time.December, 25), Name: "Navidad"},
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("2026 holidays mismatch (-want +got):\n%s", diff)
	}
}

func TestHolidaysSortedAndCached(t *testing.T) {
	first := calendar.Holidays(2027)
	second := calendar.Holidays(2027)
	require.NotEmpty(t, first)

	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Date.Before(first[i].Date), "holidays must be sorted")
	}
	assert.Equal(t, first, second)
}

func TestEasterAnchors(t *testing.T) {
	// Easter Sunday 2026 is April 5; both Semana Santa days hang off it.
	set := calendar.HolidaySet(2026)
	assert.True(t, set[d(2026, time.April, 2)])
	assert.True(t, set[d(2026, time.April, 3)])
	assert.False(t, set[d(2026, time.April, 5)], "Easter Sunday itself is not observed")
}

func TestInRange(t *testing.T) {
	t.Run("inclusive on both ends", func(t *testing.T) {
		got := calendar.InRange(d(2026, time.April, 2), d(2026, time.April, 3))
		require.Len(t, got, 2)
		assert.Equal(t, d(2026, time.April, 2), got[0])
		assert.Equal(t, d(2026, time.April, 3), got[1])
	})

	t.Run("spans a year boundary", func(t *testing.T) {
		got := calendar.InRange(d(2026, time.December, 24), d(2027, time.January, 2))
		require.Len(t, got, 2)
		assert.Equal(t, d(2026, time.December, 25), got[0])
		assert.Equal(t, d(2027, time.January, 1), got[1])
	})

	t.Run("empty range has no holidays", func(t *testing.T) {
		got := calendar.InRange(d(2026, time.February, 2), d(2026, time.February, 6))
		assert.Empty(t, got)
	})
}

func TestNormalize(t *testing.T) {
	instant := time.Date(2026, time.March, 2, 23, 45, 12, 999, time.UTC)
	assert.Equal(t, d(2026, time.March, 2), calendar.Normalize(instant))
}
