//go:build unit

package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/domain/booking"
	"finca-reservations/internal/domain/calendar"
)

func d(year int, month time.Month, day int) time.Time {
	return calendar.Date(year, month, day)
}

func stay(t *testing.T, checkIn, checkOut time.Time) booking.StayRange {
	t.Helper()
	s, err := booking.NewStayRange(checkIn, checkOut)
	require.NoError(t, err)
	return s
}

func TestNewStayRange(t *testing.T) {
	t.Run("normalizes instants to civil dates", func(t *testing.T) {
		s, err := booking.NewStayRange(
			time.Date(2026, time.March, 2, 15, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 4, 11, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, d(2026, time.March, 2), s.CheckIn())
		assert.Equal(t, d(2026, time.March, 4), s.CheckOut())
		assert.Equal(t, 2, s.Nights())
	})

	t.Run("same-day range is a day pass", func(t *testing.T) {
		s := stay(t, d(2026, time.March, 2), d(2026, time.March, 2))
		assert.True(t, s.IsDayPass())
		assert.Equal(t, 0, s.Nights())
		assert.Empty(t, s.NightDates())
	})

	t.Run("check-out before check-in is rejected", func(t *testing.T) {
		_, err := booking.NewStayRange(d(2026, time.March, 4), d(2026, time.March, 2))
		assert.ErrorIs(t, err, booking.ErrInvalidStayRange)
	})
}

func TestStayRangeOverlaps(t *testing.T) {
	nightly := func(inDay, outDay int) booking.StayRange {
		return stay(t, d(2026, time.March, inDay), d(2026, time.March, outDay))
	}
	dayPass := func(day int) booking.StayRange {
		return stay(t, d(2026, time.March, day), d(2026, time.March, day))
	}

	tests := []struct {
		name string
		a, b booking.StayRange
		want bool
	}{
		{
			name: "nightly stays sharing interior nights conflict",
			a:    nightly(2, 6),
			b:    nightly(4, 8),
			want: true,
		},
		{
			name: "back-to-back nightly stays hand over cleanly",
			a:    nightly(2, 4),
			b:    nightly(4, 6),
			want: false,
		},
		{
			name: "disjoint nightly stays do not conflict",
			a:    nightly(2, 4),
			b:    nightly(10, 12),
			want: false,
		},
		{
			name: "nightly stay containing another conflicts",
			a:    nightly(2, 10),
			b:    nightly(4, 6),
			want: true,
		},
		{
			name: "day pass inside a nightly stay conflicts",
			a:    dayPass(3),
			b:    nightly(2, 6),
			want: true,
		},
		{
			name: "day pass on a nightly check-out day conflicts",
			a:    dayPass(4),
			b:    nightly(2, 4),
			want: true,
		},
		{
			name: "day pass on a nightly check-in day conflicts",
			a:    dayPass(4),
			b:    nightly(4, 6),
			want: true,
		},
		{
			name: "day pass clear of the stay does not conflict",
			a:    dayPass(8),
			b:    nightly(2, 6),
			want: false,
		},
		{
			name: "two day passes on the same day conflict",
			a:    dayPass(3),
			b:    dayPass(3),
			want: true,
		},
		{
			name: "day passes on different days do not conflict",
			a:    dayPass(3),
			b:    dayPass(5),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}
