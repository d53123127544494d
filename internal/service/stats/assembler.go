package stats

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/painstats-backend/internal/domain"
)

// Assemble groups records by the calendar month of their creation time and
// renders each one as a display row.
//
// It returns (nil, nil) for an empty input. On failure it returns a nil result
// and an *AssembleError; it never panics on bad data.
//
// The month key uses the wall clock of CreatedAt as stored, with no time zone
// conversion. Buckets come out most recent first; rows keep their input order.
func Assemble(identity string, records []domain.SurveyRecord) (*domain.Statistics, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if identity == "" {
		return nil, &AssembleError{Kind: KindMissingField, Err: errors.New("empty identity")}
	}

	buckets := make(map[string][]domain.StatRow)
	for i := range records {
		rec := &records[i]

		row, err := displayRow(rec)
		if err != nil {
			return nil, err
		}

		label := rec.CreatedAt.Format(domain.MonthLabelLayout)
		buckets[label] = append(buckets[label], row)
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	// YYYY-MM labels sort chronologically as strings.
	slices.Sort(labels)
	slices.Reverse(labels)

	months := make([]domain.MonthBucket, 0, len(labels))
	for _, label := range labels {
		months = append(months, domain.MonthBucket{Label: label, Rows: buckets[label]})
	}

	return &domain.Statistics{PhoneNumber: identity, Months: months}, nil
}

func displayRow(rec *domain.SurveyRecord) (domain.StatRow, error) {
	if rec.ID == uuid.Nil {
		return domain.StatRow{}, &AssembleError{Kind: KindMissingField, Err: errors.New("record without id")}
	}
	id := rec.ID.String()

	if rec.CreatedAt.IsZero() {
		return domain.StatRow{}, &AssembleError{Kind: KindMissingField, Record: id, Err: errors.New("created_at is not set")}
	}
	if rec.UpdatedAt.IsZero() {
		return domain.StatRow{}, &AssembleError{Kind: KindMissingField, Record: id, Err: errors.New("updated_at is not set")}
	}

	created, err := formatChecked(rec.CreatedAt)
	if err != nil {
		return domain.StatRow{}, &AssembleError{Kind: KindParse, Record: id, Err: fmt.Errorf("created_at: %w", err)}
	}
	updated, err := formatChecked(rec.UpdatedAt)
	if err != nil {
		return domain.StatRow{}, &AssembleError{Kind: KindParse, Record: id, Err: fmt.Errorf("updated_at: %w", err)}
	}

	return domain.StatRow{
		Number:          id,
		CreatedAt:       created,
		UpdatedAt:       updated,
		HeadacheToday:   rec.HeadacheToday,
		MedicamentToday: rec.MedicamentToday,
		PainIntensity:   rec.PainIntensity,
		PainArea:        rec.PainArea,
		AreaDetail:      rec.AreaDetail,
		PainType:        rec.PainType,
		Comments:        rec.Comments,
	}, nil
}

// formatChecked formats t for display and verifies the string parses back to
// the same wall clock second. The export writer depends on that round-trip.
func formatChecked(t time.Time) (string, error) {
	s := domain.FormatDisplayTime(t)

	back, err := domain.ParseDisplayTime(s)
	if err != nil {
		return "", err
	}

	want := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	if !back.Equal(want) {
		return "", fmt.Errorf("%q parses back as %s, want %s", s, back, want)
	}

	return s, nil
}
