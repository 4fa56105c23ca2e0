// Package schedule provides business-day date arithmetic for deletion deadlines.
package schedule

import "time"

// DefaultGracePeriodDays is the number of business days between a deletion
// request and its scheduled execution date.
const DefaultGracePeriodDays = 7

// DefaultWeekend returns the default set of non-business days.
// Holiday calendars are not modeled; a caller can pass a custom set
// that includes them without changing this contract.
func DefaultWeekend() map[time.Weekday]bool {
	return map[time.Weekday]bool{
		time.Saturday: true,
		time.Sunday:   true,
	}
}

// ComputeDeadline returns the instant businessDays business days after
// reference, walking forward one calendar day at a time and counting only
// days not in the weekend set. The time of day of the reference instant is
// preserved. If weekend is nil, DefaultWeekend is used.
//
// The walk-forward algorithm is deliberate: a closed-form formula would
// break as soon as holiday calendars are injected through the weekend set.
// The function never reads a clock; the reference instant is always a
// parameter, which keeps it unit-testable without any clock dependency.
func ComputeDeadline(reference time.Time, businessDays int, weekend map[time.Weekday]bool) time.Time {
	if weekend == nil {
		weekend = DefaultWeekend()
	}

	deadline := reference
	counted := 0
	for counted < businessDays {
		deadline = deadline.AddDate(0, 0, 1)
		if !weekend[deadline.Weekday()] {
			counted++
		}
	}
	return deadline
}

// Month and weekday names for Dutch deadline rendering. The service runs
// with nl-NL as the default account locale, so the banner date needs
// Dutch names; every other locale falls back to English.
var (
	dutchMonths = [...]string{
		"januari", "februari", "maart", "april", "mei", "juni",
		"juli", "augustus", "september", "oktober", "november", "december",
	}
	dutchWeekdays = [...]string{
		"zondag", "maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag",
	}
)

// FormatDeadline renders a deadline for the user-facing banner using the
// account's locale (BCP 47). Only the language subtag is inspected.
func FormatDeadline(t time.Time, locale string) string {
	if len(locale) >= 2 && (locale[:2] == "nl" || locale[:2] == "NL") {
		return dutchWeekdays[t.Weekday()] + " " +
			t.Format("2") + " " + dutchMonths[t.Month()-1] + " " + t.Format("2006")
	}
	return t.Format("Monday, 2 January 2006")
}
