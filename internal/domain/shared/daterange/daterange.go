package daterange

import (
	"errors"
	"strings"
	"time"
)

// Layout is the canonical day format used as map keys across pricing.
const Layout = "2006-01-02"

// MaxDays bounds a single pricing window.
const MaxDays = 731

var (
	ErrInvalidRange = errors.New("daterange: to must not be before from")
	ErrRangeTooLong = errors.New("daterange: range exceeds maximum length")
	ErrInvalidDay   = errors.New("daterange: invalid day")
)

// DateRange is an inclusive interval of calendar days [From, To].
type DateRange struct {
	From time.Time
	To   time.Time
}

func New(from, to time.Time) (DateRange, error) {
	dr := DateRange{From: Truncate(from), To: Truncate(to)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Parse builds a range from two YYYY-MM-DD strings.
func Parse(from, to string) (DateRange, error) {
	f, err := ParseDay(from)
	if err != nil {
		return DateRange{}, err
	}
	t, err := ParseDay(to)
	if err != nil {
		return DateRange{}, err
	}
	return New(f, t)
}

func (dr DateRange) Validate() error {
	if dr.From.IsZero() || dr.To.IsZero() {
		return ErrInvalidRange
	}
	if dr.To.Before(dr.From) {
		return ErrInvalidRange
	}
	if dr.Len() > MaxDays {
		return ErrRangeTooLong
	}
	return nil
}

// Len returns the number of days in the range, both ends included.
func (dr DateRange) Len() int {
	return int(dr.To.Sub(dr.From).Hours()/24) + 1
}

// Days lists every day of the range in ascending order.
func (dr DateRange) Days() []string {
	if dr.From.IsZero() || dr.To.Before(dr.From) {
		return nil
	}
	out := make([]string, 0, dr.Len())
	for d := dr.From; !d.After(dr.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(Layout))
	}
	return out
}

func (dr DateRange) ContainsDay(day string) bool {
	t, err := ParseDay(day)
	if err != nil {
		return false
	}
	return !t.Before(dr.From) && !t.After(dr.To)
}

func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.From.After(other.To) && !other.From.After(dr.To)
}

// Truncate drops the clock part and normalizes to UTC.
func Truncate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDay(t time.Time) string {
	return Truncate(t).Format(Layout)
}

func ParseDay(raw string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return t, nil
}

// Within reports whether day falls into the optional [from, to] window; nil bounds are open.
func Within(day string, from, to *time.Time) bool {
	t, err := ParseDay(day)
	if err != nil {
		return false
	}
	if from != nil && t.Before(Truncate(*from)) {
		return false
	}
	if to != nil && t.After(Truncate(*to)) {
		return false
	}
	return true
}
