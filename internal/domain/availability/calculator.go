package availability

import (
	"slices"
	"time"
)

// Calculate resuelve el calendario del mes today+monthOffset.
//
// Un día está disponible si no es pasado (comparado contra today a medianoche),
// no está bloqueado, no está reservado y cumple la regla semanal.
// Todas las fechas se llevan a la zona de today y se comparan por día.
func Calculate(in Input, today time.Time, monthOffset int) Month {
	loc := today.Location()
	todayMidnight := dateIn(today, loc)

	// time.Date normaliza meses fuera de rango (negativos o > 12).
	first := time.Date(todayMidnight.Year(), todayMidnight.Month()+time.Month(monthOffset), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	daysInMonth := last.Day()

	booked := bookedDays(in.Bookings, first, last, loc)
	blocked := blockedDays(in.BlockedDates, first, loc)

	rules := ruleSet(in.GeneralAvailability)

	available := make([]int, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)

		if date.Before(todayMidnight) {
			continue
		}
		if blocked[day] || booked[day] {
			continue
		}
		if !isDayAvailable(date.Weekday(), rules) {
			continue
		}
		available = append(available, day)
	}

	return Month{
		Year:           first.Year(),
		Month:          first.Month(),
		DaysInMonth:    daysInMonth,
		StartDayOfWeek: first.Weekday(),
		AvailableDays:  available,
		BookedDays:     sortedDays(booked),
		BlockedDays:    sortedDays(blocked),
	}
}

// bookedDays marca los días del mes que cubre cada reserva. Una reserva puede
// empezar en el mes, terminar en el mes o atravesarlo entero.
func bookedDays(bookings []Booking, first, last time.Time, loc *time.Location) map[int]bool {
	out := map[int]bool{}
	for _, b := range bookings {
		start := dateIn(b.Start, loc)
		end := dateIn(b.End, loc)

		if end.Before(first) || start.After(last) {
			continue
		}

		from := 1
		if !start.Before(first) {
			from = start.Day()
		}
		to := last.Day()
		if !end.After(last) {
			to = end.Day()
		}

		for d := from; d <= to; d++ {
			out[d] = true
		}
	}
	return out
}

func blockedDays(dates []time.Time, first time.Time, loc *time.Location) map[int]bool {
	out := map[int]bool{}
	for _, bd := range dates {
		d := dateIn(bd, loc)
		if d.Year() == first.Year() && d.Month() == first.Month() {
			out[d.Day()] = true
		}
	}
	return out
}

// isDayAvailable aplica la regla semanal. Un set vacío deja todos los días
// abiertos; Holidays por sí solo no abre ningún día.
func isDayAvailable(wd time.Weekday, rules map[Token]bool) bool {
	if rules[TokenFullTime] {
		return true
	}
	if rules[DayToken(wd)] {
		return true
	}
	weekend := wd == time.Saturday || wd == time.Sunday
	if rules[TokenWeekdays] && !weekend {
		return true
	}
	if rules[TokenWeekends] && weekend {
		return true
	}
	return len(rules) == 0
}

func ruleSet(tokens []Token) map[Token]bool {
	out := make(map[Token]bool, len(tokens))
	for _, t := range tokens {
		out[t] = true
	}
	return out
}

// dateIn toma el día calendario de t (en su propia zona) y lo ubica a medianoche en loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func sortedDays(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}
