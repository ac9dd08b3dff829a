package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"jobmatch/internal/database"
	"jobmatch/internal/repository"
)

// FixturesSeeder copies a fixtures document into Postgres. Rows that already
// exist are left untouched.
type FixturesSeeder struct {
	Fixtures repository.Fixtures
}

func (FixturesSeeder) Name() string { return "fixtures" }

var fixtureColumns = map[string][]string{
	"jobs":               {"id", "title", "status", "required_skills", "published_at", "created_at"},
	"candidate_profiles": {"id", "skills", "years_of_experience"},
	"cv_documents":       {"id", "candidate_id", "experience"},
	"applications":       {"id", "job_id", "candidate_id", "applied_at"},
}

func (s FixturesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, fixtureColumns); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, j := range s.Fixtures.Jobs {
		p := j.Posting()
		_, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, title, description, employer, location, work_arrangement, employment_type,
				experience_tier, salary_min, salary_max, salary_currency, category_id, required_skills,
				preferred_skills, status, view_count, application_count, published_at, expires_at, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Title, p.Description, p.Employer, p.Location, j.WorkArrangement, p.EmploymentType,
			j.ExperienceTier, p.SalaryMin, p.SalaryMax, p.SalaryCurrency, p.CategoryID, nonNil(p.RequiredSkills),
			nonNil(p.PreferredSkills), string(p.Status), p.ViewCount, p.ApplicationCount, p.PublishedAt, p.ExpiresAt, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert job %s: %w", p.ID, err)
		}
	}

	for _, c := range s.Fixtures.Candidates {
		_, err := tx.Exec(ctx,
			`INSERT INTO candidate_profiles (id, skills, location, expected_salary, work_preference, years_of_experience)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			c.ID, nonNil(c.Skills), c.Location, c.ExpectedSalary, c.WorkPreference, c.YearsOfExperience,
		)
		if err != nil {
			return fmt.Errorf("insert candidate %s: %w", c.ID, err)
		}
	}

	for _, cv := range s.Fixtures.CVs {
		experience, err := json.Marshal(cv.Experience)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO cv_documents (id, candidate_id, skills, experience, summary)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			cv.ID, cv.CandidateID, nonNil(cv.Skills), string(experience), cv.Summary,
		)
		if err != nil {
			return fmt.Errorf("insert cv %s: %w", cv.ID, err)
		}
	}

	for _, a := range s.Fixtures.Applications {
		_, err := tx.Exec(ctx,
			`INSERT INTO applications (id, job_id, candidate_id, status, applied_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT DO NOTHING`,
			a.ID, a.JobID, a.CandidateID, a.Status, a.AppliedAt,
		)
		if err != nil {
			return fmt.Errorf("insert application %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
