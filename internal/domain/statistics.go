package domain

import (
	"strings"
	"time"
)

// Display labels of a statistics row, in column order. They are shown to end
// users as is and must survive JSON and spreadsheet round-trips unchanged.
const (
	ColNumber          = "Номер"
	ColCreatedAt       = "Дата создания"
	ColUpdatedAt       = "Дата обновления"
	ColHeadacheToday   = "Головная боль сегодня"
	ColMedicamentToday = "Принимали ли медикаменты"
	ColPainIntensity   = "Интенсивность боли"
	ColPainArea        = "Область боли"
	ColAreaDetail      = "Детали области"
	ColPainType        = "Тип боли"
	ColComments        = "Комментарии"
)

// StatColumns lists the display labels in the order rows are rendered.
var StatColumns = []string{
	ColNumber,
	ColCreatedAt,
	ColUpdatedAt,
	ColHeadacheToday,
	ColMedicamentToday,
	ColPainIntensity,
	ColPainArea,
	ColAreaDetail,
	ColPainType,
	ColComments,
}

const (
	// MonthLabelLayout formats a bucket label: YYYY-MM.
	MonthLabelLayout = "2006-01"

	// DisplayTimeLayout is the naive timestamp layout used in rows.
	DisplayTimeLayout = "2006-01-02T15:04:05"

	// DisplayTimeSuffix is appended to display timestamps. It does not mean UTC:
	// the value keeps the wall clock of the stored timestamp.
	DisplayTimeSuffix = "Z"
)

// StatRow is a SurveyRecord rendered for display. Dates are already formatted.
type StatRow struct {
	Number          string
	CreatedAt       string
	UpdatedAt       string
	HeadacheToday   bool
	MedicamentToday bool
	PainIntensity   *int
	PainArea        *string
	AreaDetail      *string
	PainType        *string
	Comments        *string
}

// MonthBucket groups the rows created in one calendar month.
type MonthBucket struct {
	Label string
	Rows  []StatRow
}

// Statistics is the month-grouped survey history of one identity.
// Months are ordered as constructed (most recent first); consumers that need
// a specific order should rely on the labels.
type Statistics struct {
	PhoneNumber string
	Months      []MonthBucket
}

// Month returns the bucket with the given label.
func (s *Statistics) Month(label string) (MonthBucket, bool) {
	for _, m := range s.Months {
		if m.Label == label {
			return m, true
		}
	}
	return MonthBucket{}, false
}

// RowCount returns the total number of rows across all months.
func (s *Statistics) RowCount() int {
	n := 0
	for _, m := range s.Months {
		n += len(m.Rows)
	}
	return n
}

// FormatDisplayTime renders t as a display timestamp using its own wall clock.
func FormatDisplayTime(t time.Time) string {
	return t.Format(DisplayTimeLayout) + DisplayTimeSuffix
}

// ParseDisplayTime parses a display timestamp back into a naive time.
// The suffix is optional so that already normalized values are accepted.
func ParseDisplayTime(s string) (time.Time, error) {
	return time.Parse(DisplayTimeLayout, strings.TrimSuffix(s, DisplayTimeSuffix))
}
