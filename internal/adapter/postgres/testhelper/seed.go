package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/painstats-backend/internal/domain"
)

// UniquePhone returns a phone-like user id that no other test uses.
func UniquePhone() string {
	return "7700" + uuid.New().String()[:8]
}

// SeedSurvey inserts a survey record for userID created at createdAt
// (UpdatedAt = createdAt + 1h). Returns the stored record.
func SeedSurvey(t *testing.T, pool *pgxpool.Pool, userID string, createdAt time.Time) domain.SurveyRecord {
	t.Helper()

	intensity := 5
	area := "лоб"
	rec := domain.SurveyRecord{
		ID:              uuid.New(),
		UserID:          userID,
		CreatedAt:       createdAt.UTC().Truncate(time.Microsecond),
		UpdatedAt:       createdAt.UTC().Add(time.Hour).Truncate(time.Microsecond),
		HeadacheToday:   true,
		MedicamentToday: false,
		PainIntensity:   &intensity,
		PainArea:        &area,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO surveys (survey_id, userid, created_at, updated_at, headache_today, medicament_today,
		                      pain_intensity, pain_area, area_detail, pain_type, comments)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.UserID, rec.CreatedAt, rec.UpdatedAt, rec.HeadacheToday, rec.MedicamentToday,
		rec.PainIntensity, rec.PainArea, rec.AreaDetail, rec.PainType, rec.Comments,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSurvey insert: %v", err)
	}

	return rec
}
