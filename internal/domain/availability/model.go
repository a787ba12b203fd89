package availability

import (
	"slices"
	"strings"
	"time"
)

// Token es una regla de disponibilidad semanal recurrente del sitter.
// @Enum Weekdays, Weekends, Holidays, Full-Time, Sun, Mon, Tue, Wed, Thu, Fri, Sat
type Token string

const (
	TokenWeekdays Token = "Weekdays"
	TokenWeekends Token = "Weekends"
	TokenHolidays Token = "Holidays"
	TokenFullTime Token = "Full-Time"

	TokenSun Token = "Sun"
	TokenMon Token = "Mon"
	TokenTue Token = "Tue"
	TokenWed Token = "Wed"
	TokenThu Token = "Thu"
	TokenFri Token = "Fri"
	TokenSat Token = "Sat"
)

// TokensOneOf es el valor para tags `validate:"oneof=..."` de los DTOs.
const TokensOneOf = "Weekdays Weekends Holidays Full-Time Sun Mon Tue Wed Thu Fri Sat"

// dayTokens indexado por time.Weekday (Sunday = 0).
var dayTokens = [7]Token{TokenSun, TokenMon, TokenTue, TokenWed, TokenThu, TokenFri, TokenSat}

// DayToken devuelve la abreviatura usada en generalAvailability para un día de la semana.
func DayToken(wd time.Weekday) Token {
	return dayTokens[wd%7]
}

func ParseToken(s string) (Token, bool) {
	s = strings.TrimSpace(s)
	switch Token(s) {
	case TokenWeekdays, TokenWeekends, TokenHolidays, TokenFullTime:
		return Token(s), true
	}
	for _, t := range dayTokens {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Booking es un rango de días (inclusive) reservado o pendiente.
// Solo importa la fecha; la hora se ignora.
type Booking struct {
	Start time.Time
	End   time.Time
}

// Input es lo que el backend nos da de un sitter para armar el calendario.
// Las fechas ya vienen parseadas y validadas desde el adapter.
type Input struct {
	GeneralAvailability []Token
	BlockedDates        []time.Time
	Bookings            []Booking
}

// Month es el calendario resuelto de un mes para un sitter.
type Month struct {
	Year           int          `json:"year"`
	Month          time.Month   `json:"month"`
	DaysInMonth    int          `json:"daysInMonth"`
	StartDayOfWeek time.Weekday `json:"startDayOfWeek"` // 0 = domingo

	AvailableDays []int `json:"availableDays"`
	BookedDays    []int `json:"bookedDays"`
	BlockedDays   []int `json:"blockedDays"`
}

func (m Month) IsAvailable(day int) bool { return slices.Contains(m.AvailableDays, day) }
func (m Month) IsBooked(day int) bool    { return slices.Contains(m.BookedDays, day) }
func (m Month) IsBlocked(day int) bool   { return slices.Contains(m.BlockedDays, day) }
