package excel

import "time"

// Standalone (nominative) Russian month names, lower case.
var monthNames = [...]string{
	time.January:   "январь",
	time.February:  "февраль",
	time.March:     "март",
	time.April:     "апрель",
	time.May:       "май",
	time.June:      "июнь",
	time.July:      "июль",
	time.August:    "август",
	time.September: "сентябрь",
	time.October:   "октябрь",
	time.November:  "ноябрь",
	time.December:  "декабрь",
}

// monthHeading renders "Месяц: январь 2024" for the month of t.
func monthHeading(t time.Time) string {
	return "Месяц: " + monthNames[t.Month()] + " " + t.Format("2006")
}
