package candidate

import (
	"time"

	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

type Profile struct {
	ID                uuid.UUID
	Skills            []string
	Location          *string
	ExpectedSalary    *float64
	WorkPreference    *job.WorkArrangement
	YearsOfExperience *float64
}

type CVExperience struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type CVDocument struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	Skills      []string
	Experience  []CVExperience
	Summary     string
}

type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	CandidateID uuid.UUID
	Status      string
	AppliedAt   time.Time
}
