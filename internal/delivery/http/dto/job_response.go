package dto

import (
	"time"

	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Employer         *string   `json:"employer"`
	Location         *string   `json:"location"`
	WorkArrangement  *string   `json:"work_arrangement"`
	EmploymentType   *string   `json:"employment_type"`
	ExperienceTier   *string   `json:"experience_tier"`
	SalaryMin        *float64  `json:"salary_min"`
	SalaryMax        *float64  `json:"salary_max"`
	SalaryCurrency   *string   `json:"salary_currency"`
	CategoryID       *string   `json:"category_id"`
	RequiredSkills   []string  `json:"required_skills"`
	PreferredSkills  []string  `json:"preferred_skills"`
	ViewCount        int       `json:"view_count"`
	ApplicationCount int       `json:"application_count"`
	PublishedAt      *string   `json:"published_at"`
	ExpiresAt        *string   `json:"expires_at"`
	MatchScore       *int      `json:"match_score,omitempty"`
}

func NewJobResponse(p job.Posting) JobResponse {
	out := JobResponse{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Employer:         p.Employer,
		Location:         p.Location,
		EmploymentType:   p.EmploymentType,
		SalaryMin:        p.SalaryMin,
		SalaryMax:        p.SalaryMax,
		SalaryCurrency:   p.SalaryCurrency,
		CategoryID:       p.CategoryID,
		RequiredSkills:   nonNil(p.RequiredSkills),
		PreferredSkills:  nonNil(p.PreferredSkills),
		ViewCount:        p.ViewCount,
		ApplicationCount: p.ApplicationCount,
		PublishedAt:      rfc3339(p.PublishedAt),
		ExpiresAt:        rfc3339(p.ExpiresAt),
	}
	if p.WorkArrangement != nil {
		s := string(*p.WorkArrangement)
		out.WorkArrangement = &s
	}
	if p.ExperienceTier != nil {
		s := string(*p.ExperienceTier)
		out.ExperienceTier = &s
	}
	return out
}

func NewJobResponses(items []job.Posting) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, p := range items {
		out = append(out, NewJobResponse(p))
	}
	return out
}

func rfc3339(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
