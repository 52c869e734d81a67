// Package datefmt renders dates the way the club's German-speaking members read them.
package datefmt

import (
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var weekdays = [...]string{
	time.Sunday:    "Sonntag",
	time.Monday:    "Montag",
	time.Tuesday:   "Dienstag",
	time.Wednesday: "Mittwoch",
	time.Thursday:  "Donnerstag",
	time.Friday:    "Freitag",
	time.Saturday:  "Samstag",
}

var months = [...]string{
	time.January:   "Januar",
	time.February:  "Februar",
	time.March:     "März",
	time.April:     "April",
	time.May:       "Mai",
	time.June:      "Juni",
	time.July:      "Juli",
	time.August:    "August",
	time.September: "September",
	time.October:   "Oktober",
	time.November:  "November",
	time.December:  "Dezember",
}

func Weekday(d time.Weekday) string { return weekdays[d] }

func Month(m time.Month) string { return months[m] }

// LongDate formats t as "Dienstag, 10. Juni 2025".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s, %02d. %s %d", weekdays[t.Weekday()], t.Day(), months[t.Month()], t.Year())
}

// Clock formats the wall-clock time as "16:15 Uhr".
func Clock(t time.Time) string {
	return fmt.Sprintf("%02d:%02d Uhr", t.Hour(), t.Minute())
}

// RunLabel is the generated title of a run: the long date, plus the start for timed runs.
func RunLabel(t time.Time, allDay bool) string {
	label := "Lauf – " + LongDate(t)
	if allDay {
		return label
	}
	return label + ", " + Clock(t)
}

// SortNames orders names with German collation, so umlauts sort next to their base letter.
func SortNames(names []string) {
	c := collate.New(language.German, collate.IgnoreCase)
	sort.SliceStable(names, func(i, j int) bool {
		return c.CompareString(names[i], names[j]) < 0
	})
}
