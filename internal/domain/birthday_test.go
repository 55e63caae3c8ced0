package domain_test

import (
	"testing"
	"time"

	"contactbook/internal/domain"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func contact(id int64, birthday *time.Time) domain.Contact {
	return domain.Contact{ID: id, UserID: 1, Birthday: birthday}
}

func ids(contacts []domain.Contact) []int64 {
	out := make([]int64, len(contacts))
	for i, c := range contacts {
		out[i] = c.ID
	}
	return out
}

func TestUpcomingBirthdaysWindow(t *testing.T) {
	today := time.Date(2024, time.June, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		birthday *time.Time
		want     bool
	}{
		{"today", date(1990, time.June, 1), true},
		{"last day of window, offset 6", date(1985, time.June, 7), true},
		{"just past window, offset 7", date(1985, time.June, 8), false},
		{"yesterday wraps to next year", date(1990, time.May, 31), false},
		{"no birthday", nil, false},
		{"year of birth is irrelevant", date(2024, time.June, 3), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.UpcomingBirthdays([]domain.Contact{contact(1, tc.birthday)}, today)
			if matched := len(got) == 1; matched != tc.want {
				t.Errorf("birthday %v in window anchored %v: got %v, want %v",
					tc.birthday, today, matched, tc.want)
			}
		})
	}
}

func TestUpcomingBirthdaysYearBoundary(t *testing.T) {
	// Window Dec 28 .. Jan 3 straddles the year end.
	today := time.Date(2024, time.December, 28, 0, 0, 0, 0, time.UTC)

	contacts := []domain.Contact{
		contact(1, date(1999, time.January, 2)),
		contact(2, date(1970, time.December, 30)),
		contact(3, date(2001, time.January, 4)),
		contact(4, date(1988, time.December, 27)),
	}

	got := ids(domain.UpcomingBirthdays(contacts, today))
	want := []int64{2, 1} // Dec 30 (offset 2) before Jan 2 (offset 5)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestUpcomingBirthdaysLeapDay(t *testing.T) {
	// 2025 is not a leap year: a Feb 29 birthday falls on Mar 1.
	today := time.Date(2025, time.February, 25, 0, 0, 0, 0, time.UTC)

	got := domain.UpcomingBirthdays([]domain.Contact{contact(1, date(2000, time.February, 29))}, today)
	if len(got) != 1 {
		t.Fatalf("Feb 29 birthday not matched in non-leap window, got %d contacts", len(got))
	}

	// In a leap year the same birthday occurs on Feb 29 itself.
	leapToday := time.Date(2024, time.February, 25, 0, 0, 0, 0, time.UTC)
	got = domain.UpcomingBirthdays([]domain.Contact{contact(1, date(2000, time.February, 29))}, leapToday)
	if len(got) != 1 {
		t.Fatalf("Feb 29 birthday not matched in leap window, got %d contacts", len(got))
	}
}

func TestUpcomingBirthdaysOrdering(t *testing.T) {
	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	contacts := []domain.Contact{
		contact(5, date(1991, time.March, 12)),
		contact(2, date(1992, time.March, 10)),
		contact(9, date(1993, time.March, 12)),
		contact(1, date(1994, time.March, 16)),
	}

	got := ids(domain.UpcomingBirthdays(contacts, today))
	want := []int64{2, 5, 9, 1} // offset asc, ties by id asc
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got order %v, want %v", got, want)
		}
	}
}
