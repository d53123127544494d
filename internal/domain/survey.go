package domain

import (
	"time"

	"github.com/google/uuid"
)

// SurveyRecord is one stored daily survey submission of a user.
// Nullable columns are represented by pointers.
type SurveyRecord struct {
	ID              uuid.UUID
	UserID          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	HeadacheToday   bool
	MedicamentToday bool
	PainIntensity   *int
	PainArea        *string
	AreaDetail      *string
	PainType        *string
	Comments        *string
}
