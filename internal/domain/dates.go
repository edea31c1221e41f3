package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DateField names one of the three schedule dates
type DateField string

const (
	FieldPickupDate DateField = "pickupDate"
	FieldETD        DateField = "etd"
	FieldETA        DateField = "eta"
)

// IsValid reports whether f names a schedule date
func (f DateField) IsValid() bool {
	return f == FieldPickupDate || f == FieldETD || f == FieldETA
}

// DateTriple is the schedule of a job order. A zero value means the date is blank.
type DateTriple struct {
	PickupDate time.Time
	ETD        time.Time
	ETA        time.Time
}

// DateBounds are the earliest dates a date picker should offer
type DateBounds struct {
	ETDMin time.Time
	ETAMin time.Time
}

// TruncateDay returns midnight UTC of the calendar date t falls on in its own location
func TruncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string. Empty input yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD, or "" when blank
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return TruncateDay(t).Format(DateLayout)
}

// ApplyDateChange sets one schedule date and pushes later dates forward so that
// pickupDate <= etd <= eta holds. Corrections only move forward. A zero value is
// ignored and the triple is returned unchanged. Blank dates take no part in comparisons.
func ApplyDateChange(field DateField, value time.Time, current DateTriple, today time.Time) DateTriple {
	if value.IsZero() {
		return current
	}

	next := DateTriple{
		PickupDate: TruncateDay(current.PickupDate),
		ETD:        TruncateDay(current.ETD),
		ETA:        TruncateDay(current.ETA),
	}
	value = TruncateDay(value)
	today = TruncateDay(today)

	switch field {
	case FieldPickupDate:
		next.PickupDate = laterOf(value, today)
		next.ETD = notBefore(next.ETD, next.PickupDate)
		next.ETA = notBefore(next.ETA, next.ETD)
	case FieldETD:
		next.ETD = notBefore(value, next.PickupDate)
		next.ETA = notBefore(next.ETA, next.ETD)
	case FieldETA:
		next.ETA = notBefore(value, next.ETD)
	default:
		return current
	}
	return next
}

// Bounds returns the advisory minimums for the etd and eta inputs
func Bounds(t DateTriple, today time.Time) DateBounds {
	b := DateBounds{ETDMin: TruncateDay(t.PickupDate), ETAMin: TruncateDay(t.ETD)}
	if b.ETAMin.IsZero() {
		b.ETAMin = TruncateDay(today)
	}
	return b
}

// CheckOrder returns the field that breaks pickupDate <= etd <= eta, or "" when ordered
func CheckOrder(t DateTriple) DateField {
	if !t.PickupDate.IsZero() && !t.ETD.IsZero() && TruncateDay(t.ETD).Before(TruncateDay(t.PickupDate)) {
		return FieldETD
	}
	if !t.ETD.IsZero() && !t.ETA.IsZero() && TruncateDay(t.ETA).Before(TruncateDay(t.ETD)) {
		return FieldETA
	}
	return ""
}

// notBefore returns floor when v is set and earlier than floor
func notBefore(v, floor time.Time) time.Time {
	if v.IsZero() || floor.IsZero() {
		return v
	}
	if v.Before(floor) {
		return floor
	}
	return v
}

func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}

func derefDate(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return TruncateDay(*t)
}

func refDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	d := TruncateDay(t)
	return &d
}
