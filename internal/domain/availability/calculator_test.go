package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysRange(from, to int) []int {
	out := []int{}
	for d := from; d <= to; d++ {
		out = append(out, d)
	}
	return out
}

func TestCalculate_WeekdaysMarch2024(t *testing.T) {
	today := day(2024, time.March, 1)
	m := Calculate(Input{GeneralAvailability: []Token{TokenWeekdays}}, today, 0)

	assert.Equal(t, 2024, m.Year)
	assert.Equal(t, time.March, m.Month)
	assert.Equal(t, 31, m.DaysInMonth)
	assert.Equal(t, time.Friday, m.StartDayOfWeek)

	assert.False(t, m.IsAvailable(9), "Saturday must be closed by the weekday rule")
	assert.True(t, m.IsAvailable(11), "Monday must be open")
	assert.False(t, m.IsAvailable(10), "Sunday must be closed")
}

func TestCalculate_WeekdaysStaysClosedEvenWhenBlockedOrBooked(t *testing.T) {
	today := day(2024, time.March, 1)
	in := Input{
		GeneralAvailability: []Token{TokenWeekdays},
		BlockedDates:        []time.Time{day(2024, time.March, 9)},
		Bookings:            []Booking{{Start: day(2024, time.March, 11), End: day(2024, time.March, 11)}},
	}
	m := Calculate(in, today, 0)

	assert.False(t, m.IsAvailable(9))
	assert.True(t, m.IsBlocked(9))
	assert.False(t, m.IsAvailable(11))
	assert.True(t, m.IsBooked(11))
	assert.True(t, m.IsAvailable(12))
}

func TestCalculate_AvailableNeverOverlapsBookedOrBlocked(t *testing.T) {
	today := day(2024, time.February, 10)
	in := Input{
		GeneralAvailability: []Token{TokenWeekends, TokenWed},
		BlockedDates: []time.Time{
			day(2024, time.February, 14),
			day(2024, time.March, 2),
			day(2024, time.June, 15),
			day(2025, time.January, 4),
		},
		Bookings: []Booking{
			{Start: day(2024, time.February, 20), End: day(2024, time.March, 3)},
			{Start: day(2024, time.May, 30), End: day(2024, time.August, 2)},
			{Start: day(2024, time.December, 28), End: day(2025, time.January, 5)},
		},
	}

	for offset := -2; offset <= 12; offset++ {
		m := Calculate(in, today, offset)
		for _, d := range m.AvailableDays {
			assert.False(t, m.IsBooked(d), "offset %d day %d available and booked", offset, d)
			assert.False(t, m.IsBlocked(d), "offset %d day %d available and blocked", offset, d)
			assert.GreaterOrEqual(t, d, 1)
			assert.LessOrEqual(t, d, m.DaysInMonth)
		}
	}
}

func TestCalculate_PastDaysNeverAvailable(t *testing.T) {
	// A media tarde: la comparación es por día, no por hora.
	today := time.Date(2024, time.March, 15, 17, 45, 0, 0, time.UTC)
	m := Calculate(Input{GeneralAvailability: []Token{TokenFullTime}}, today, 0)

	for d := 1; d < 15; d++ {
		assert.False(t, m.IsAvailable(d), "day %d is in the past", d)
	}
	assert.True(t, m.IsAvailable(15), "today is still bookable")
	assert.Equal(t, daysRange(15, 31), m.AvailableDays)
}

func TestCalculate_PreviousMonthIsEntirelyPast(t *testing.T) {
	today := day(2024, time.January, 15)
	m := Calculate(Input{}, today, -1)

	assert.Equal(t, 2023, m.Year)
	assert.Equal(t, time.December, m.Month)
	assert.Empty(t, m.AvailableDays)
}

func TestCalculate_EmptyRulesDefaultToOpen(t *testing.T) {
	today := day(2024, time.March, 1)
	in := Input{
		BlockedDates: []time.Time{day(2024, time.March, 4)},
		Bookings:     []Booking{{Start: day(2024, time.March, 20), End: day(2024, time.March, 21)}},
	}
	m := Calculate(in, today, 0)

	want := []int{}
	for d := 1; d <= 31; d++ {
		if d == 4 || d == 20 || d == 21 {
			continue
		}
		want = append(want, d)
	}
	assert.Equal(t, want, m.AvailableDays)
}

func TestCalculate_FullTimeIgnoresWeekday(t *testing.T) {
	today := day(2024, time.April, 1)
	m := Calculate(Input{GeneralAvailability: []Token{TokenFullTime, TokenHolidays}}, today, 0)

	assert.Equal(t, daysRange(1, 30), m.AvailableDays)
}

func TestCalculate_HolidaysAloneOpensNothing(t *testing.T) {
	today := day(2024, time.April, 1)
	m := Calculate(Input{GeneralAvailability: []Token{TokenHolidays}}, today, 0)

	assert.Empty(t, m.AvailableDays)
}

func TestCalculate_SingleDayToken(t *testing.T) {
	today := day(2024, time.March, 1)
	m := Calculate(Input{GeneralAvailability: []Token{TokenSun}}, today, 0)

	assert.Equal(t, []int{3, 10, 17, 24, 31}, m.AvailableDays)
}

func TestCalculate_BookingInsideMonth(t *testing.T) {
	today := day(2024, time.March, 1)
	in := Input{Bookings: []Booking{{Start: day(2024, time.March, 5), End: day(2024, time.March, 10)}}}

	m := Calculate(in, today, 0)
	assert.Equal(t, daysRange(5, 10), m.BookedDays)
}

func TestCalculate_BookingSpansWholeMonth(t *testing.T) {
	today := day(2024, time.January, 10)
	in := Input{Bookings: []Booking{{Start: day(2024, time.January, 25), End: day(2024, time.March, 2)}}}

	m := Calculate(in, today, 1)
	require.Equal(t, time.February, m.Month)
	assert.Equal(t, 29, m.DaysInMonth)
	assert.Equal(t, daysRange(1, 29), m.BookedDays)
	assert.Empty(t, m.AvailableDays)
}

func TestCalculate_BookingCrossesMonthEdges(t *testing.T) {
	today := day(2024, time.March, 1)
	in := Input{Bookings: []Booking{
		{Start: day(2024, time.February, 27), End: day(2024, time.March, 2)}, // termina en el mes
		{Start: day(2024, time.March, 30), End: day(2024, time.April, 4)},    // empieza en el mes
		{Start: day(2024, time.May, 1), End: day(2024, time.May, 3)},         // fuera del mes
	}}

	m := Calculate(in, today, 0)
	assert.Equal(t, []int{1, 2, 30, 31}, m.BookedDays)
}

func TestCalculate_BookingTimeOfDayIsIgnored(t *testing.T) {
	today := day(2024, time.March, 1)
	in := Input{Bookings: []Booking{{
		Start: time.Date(2024, time.March, 5, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.March, 6, 9, 30, 0, 0, time.UTC),
	}}}

	m := Calculate(in, today, 0)
	assert.Equal(t, []int{5, 6}, m.BookedDays)
}

func TestCalculate_OffsetNormalizesAcrossYears(t *testing.T) {
	today := day(2024, time.November, 20)

	m := Calculate(Input{}, today, 3)
	assert.Equal(t, 2025, m.Year)
	assert.Equal(t, time.February, m.Month)
	assert.Equal(t, 28, m.DaysInMonth)
	assert.Equal(t, time.Saturday, m.StartDayOfWeek)

	m = Calculate(Input{}, today, -11)
	assert.Equal(t, 2023, m.Year)
	assert.Equal(t, time.December, m.Month)
}

func TestCalculate_BlockedDatesFilteredToMonth(t *testing.T) {
	today := day(2024, time.March, 1)
	in := Input{BlockedDates: []time.Time{
		day(2024, time.March, 8),
		day(2023, time.March, 9),
		day(2024, time.April, 8),
	}}

	m := Calculate(in, today, 0)
	assert.Equal(t, []int{8}, m.BlockedDays)
	assert.True(t, m.IsAvailable(9))
}

func TestParseToken(t *testing.T) {
	tok, ok := ParseToken(" Full-Time ")
	assert.True(t, ok)
	assert.Equal(t, TokenFullTime, tok)

	tok, ok = ParseToken("Wed")
	assert.True(t, ok)
	assert.Equal(t, TokenWed, tok)

	_, ok = ParseToken("Wednesday")
	assert.False(t, ok)
}

func TestDayToken(t *testing.T) {
	assert.Equal(t, TokenSun, DayToken(time.Sunday))
	assert.Equal(t, TokenSat, DayToken(time.Saturday))
}
