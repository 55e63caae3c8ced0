package domain

import (
	"sort"
	"time"
)

// BirthdayWindowDays is the length of the upcoming-birthday window: a
// birthday matches when its next occurrence falls within [today, today+6],
// seven calendar days inclusive.
const BirthdayWindowDays = 7

// UpcomingBirthdays filters contacts whose birthday (month/day only, year
// ignored) falls within the window anchored at today, and orders them by the
// number of days until the birthday, ties broken by id. Contacts without a
// birthday never match. The window handles the Dec→Jan wraparound: the next
// occurrence of a birthday earlier in the calendar than today is projected
// onto the following year.
func UpcomingBirthdays(contacts []Contact, today time.Time) []Contact {
	today = truncateToDay(today)

	type upcoming struct {
		contact Contact
		offset  int
	}
	matched := make([]upcoming, 0, len(contacts))
	for _, c := range contacts {
		if c.Birthday == nil {
			continue
		}
		days := daysUntilBirthday(*c.Birthday, today)
		if days < BirthdayWindowDays {
			matched = append(matched, upcoming{contact: c, offset: days})
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].offset != matched[j].offset {
			return matched[i].offset < matched[j].offset
		}
		return matched[i].contact.ID < matched[j].contact.ID
	})

	out := make([]Contact, len(matched))
	for i, m := range matched {
		out[i] = m.contact
	}
	return out
}

// daysUntilBirthday returns the number of whole days from today until the
// next occurrence of the birthday's month/day. Zero means the birthday is
// today.
func daysUntilBirthday(birthday, today time.Time) int {
	next := projectToYear(birthday, today.Year())
	if next.Before(today) {
		next = projectToYear(birthday, today.Year()+1)
	}
	return int(next.Sub(today).Hours() / 24)
}

// projectToYear places a birthday's month/day into the given year. A Feb 29
// birthday falls on Mar 1 in non-leap years.
func projectToYear(birthday time.Time, year int) time.Time {
	month, day := birthday.Month(), birthday.Day()
	if month == time.February && day == 29 && !isLeapYear(year) {
		month, day = time.March, 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
