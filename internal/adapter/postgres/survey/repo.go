// Package survey implements the survey record store on PostgreSQL.
package survey

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/painstats-backend/internal/adapter/postgres"
	"github.com/heartmarshall/painstats-backend/internal/domain"
)

const table = "surveys"

var columns = []string{
	"survey_id",
	"userid",
	"created_at",
	"updated_at",
	"headache_today",
	"medicament_today",
	"pain_intensity",
	"pain_area",
	"area_detail",
	"pain_type",
	"comments",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides read access to survey records.
type Repo struct {
	db postgres.Querier
}

// New creates a survey repository on top of a pool, connection or transaction.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ListByUser returns all survey records of the user ordered by creation time.
// An unknown user yields an empty slice, not an error.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domain.SurveyRecord, error) {
	query, args, err := psql.
		Select(columns...).
		From(table).
		Where(sq.Eq{"userid": userID}).
		OrderBy("created_at", "survey_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build surveys query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, table, userID)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, postgres.MapError(err, table, userID)
	}

	return records, nil
}

// Insert stores a survey record. Zero timestamps default to now and a nil ID
// is replaced by a fresh one. Used by seeding tools and tests.
func (r *Repo) Insert(ctx context.Context, rec domain.SurveyRecord) (domain.SurveyRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}

	query, args, err := psql.
		Insert(table).
		Columns(columns...).
		Values(
			rec.ID,
			rec.UserID,
			rec.CreatedAt,
			rec.UpdatedAt,
			rec.HeadacheToday,
			rec.MedicamentToday,
			rec.PainIntensity,
			rec.PainArea,
			rec.AreaDetail,
			rec.PainType,
			rec.Comments,
		).
		ToSql()
	if err != nil {
		return domain.SurveyRecord{}, fmt.Errorf("build surveys insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return domain.SurveyRecord{}, postgres.MapError(err, table, rec.ID.String())
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

// scanRecords scans survey rows. Timestamps are normalized to UTC, the
// service's naive calendar.
func scanRecords(rows pgx.Rows) ([]domain.SurveyRecord, error) {
	records := []domain.SurveyRecord{}
	for rows.Next() {
		var rec domain.SurveyRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.CreatedAt,
			&rec.UpdatedAt,
			&rec.HeadacheToday,
			&rec.MedicamentToday,
			&rec.PainIntensity,
			&rec.PainArea,
			&rec.AreaDetail,
			&rec.PainType,
			&rec.Comments,
		); err != nil {
			return nil, err
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		rec.UpdatedAt = rec.UpdatedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
