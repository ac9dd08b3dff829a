package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

// Fixtures is the JSON document accepted by LoadFixtures.
type Fixtures struct {
	Jobs         []FixtureJob         `json:"jobs"`
	Candidates   []FixtureCandidate   `json:"candidates"`
	CVs          []FixtureCV          `json:"cvs"`
	Applications []FixtureApplication `json:"applications"`
}

type FixtureJob struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Employer         *string    `json:"employer"`
	Location         *string    `json:"location"`
	WorkArrangement  *string    `json:"work_arrangement"`
	EmploymentType   *string    `json:"employment_type"`
	ExperienceTier   *string    `json:"experience_tier"`
	SalaryMin        *float64   `json:"salary_min"`
	SalaryMax        *float64   `json:"salary_max"`
	SalaryCurrency   *string    `json:"salary_currency"`
	CategoryID       *string    `json:"category_id"`
	RequiredSkills   []string   `json:"required_skills"`
	PreferredSkills  []string   `json:"preferred_skills"`
	Status           string     `json:"status"`
	ViewCount        int        `json:"view_count"`
	ApplicationCount int        `json:"application_count"`
	PublishedAt      *time.Time `json:"published_at"`
	ExpiresAt        *time.Time `json:"expires_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

type FixtureCandidate struct {
	ID                uuid.UUID `json:"id"`
	Skills            []string  `json:"skills"`
	Location          *string   `json:"location"`
	ExpectedSalary    *float64  `json:"expected_salary"`
	WorkPreference    *string   `json:"work_preference"`
	YearsOfExperience *float64  `json:"years_of_experience"`
}

type FixtureCV struct {
	ID          uuid.UUID                `json:"id"`
	CandidateID uuid.UUID                `json:"candidate_id"`
	Skills      []string                 `json:"skills"`
	Experience  []candidate.CVExperience `json:"experience"`
	Summary     string                   `json:"summary"`
}

type FixtureApplication struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
}

// DecodeFixtures rejects unknown fields so typos in hand-written files surface.
func DecodeFixtures(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}

func LoadFixtures(r io.Reader, store *MemoryStore) error {
	fx, err := DecodeFixtures(r)
	if err != nil {
		return err
	}
	fx.AddTo(store)
	return nil
}

func (fx Fixtures) AddTo(store *MemoryStore) {
	for _, j := range fx.Jobs {
		store.AddJobs(j.Posting())
	}
	for _, c := range fx.Candidates {
		store.AddProfile(candidate.Profile{
			ID:                c.ID,
			Skills:            c.Skills,
			Location:          c.Location,
			ExpectedSalary:    c.ExpectedSalary,
			WorkPreference:    workArrangementPtr(c.WorkPreference),
			YearsOfExperience: c.YearsOfExperience,
		})
	}
	for _, cv := range fx.CVs {
		store.AddCV(candidate.CVDocument{
			ID:          cv.ID,
			CandidateID: cv.CandidateID,
			Skills:      cv.Skills,
			Experience:  cv.Experience,
			Summary:     cv.Summary,
		})
	}
	for _, a := range fx.Applications {
		store.AddApplication(candidate.Application(a))
	}
}

// Posting converts the fixture; an empty status means published.
func (j FixtureJob) Posting() job.Posting {
	status := job.Status(j.Status)
	if status == "" {
		status = job.StatusPublished
	}
	return job.Posting{
		ID:               j.ID,
		Title:            j.Title,
		Description:      j.Description,
		Employer:         j.Employer,
		Location:         j.Location,
		WorkArrangement:  workArrangementPtr(j.WorkArrangement),
		EmploymentType:   j.EmploymentType,
		ExperienceTier:   experienceTierPtr(j.ExperienceTier),
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		SalaryCurrency:   j.SalaryCurrency,
		CategoryID:       j.CategoryID,
		RequiredSkills:   j.RequiredSkills,
		PreferredSkills:  j.PreferredSkills,
		Status:           status,
		ViewCount:        j.ViewCount,
		ApplicationCount: j.ApplicationCount,
		PublishedAt:      j.PublishedAt,
		ExpiresAt:        j.ExpiresAt,
		CreatedAt:        j.CreatedAt,
	}
}

func workArrangementPtr(s *string) *job.WorkArrangement {
	if s == nil || *s == "" {
		return nil
	}
	w := job.WorkArrangement(*s)
	return &w
}

func experienceTierPtr(s *string) *job.ExperienceTier {
	if s == nil || *s == "" {
		return nil
	}
	t := job.ExperienceTier(*s)
	return &t
}
