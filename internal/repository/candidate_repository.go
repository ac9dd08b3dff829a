package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/candidate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetCandidateProfile(ctx context.Context, id uuid.UUID) (candidate.Profile, error) {
	var (
		p    candidate.Profile
		pref *string
	)
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(skills, '{}'), location, expected_salary, work_preference, years_of_experience
		 FROM candidate_profiles
		 WHERE id = $1`,
		id,
	)
	if err := row.Scan(&p.ID, &p.Skills, &p.Location, &p.ExpectedSalary, &pref, &p.YearsOfExperience); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return candidate.Profile{}, ErrCandidateNotFound
		}
		return candidate.Profile{}, err
	}
	p.WorkPreference = workArrangementPtr(pref)
	return p, nil
}

func (r *PostgresCandidateRepository) ListCVs(ctx context.Context, candidateID uuid.UUID) ([]candidate.CVDocument, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, candidate_id, COALESCE(skills, '{}'), COALESCE(experience, '[]'::jsonb), COALESCE(summary, '')
		 FROM cv_documents
		 WHERE candidate_id = $1
		 ORDER BY updated_at DESC, id ASC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.CVDocument, 0)
	for rows.Next() {
		var (
			cv  candidate.CVDocument
			raw []byte
		)
		if err := rows.Scan(&cv.ID, &cv.CandidateID, &cv.Skills, &raw, &cv.Summary); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &cv.Experience); err != nil {
				return nil, fmt.Errorf("cv %s experience: %w", cv.ID, err)
			}
		}
		out = append(out, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateRepository) ListApplications(ctx context.Context, candidateID uuid.UUID) ([]candidate.Application, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, job_id, candidate_id, COALESCE(status, ''), applied_at
		 FROM applications
		 WHERE candidate_id = $1
		 ORDER BY applied_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.Application, 0)
	for rows.Next() {
		var a candidate.Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.Status, &a.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateRepository) CheckApplied(ctx context.Context, candidateID, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE candidate_id = $1 AND job_id = $2)`,
		candidateID, jobID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// PostgresStore joins the job and candidate repositories into one Store.
type PostgresStore struct {
	*PostgresJobRepository
	*PostgresCandidateRepository
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{
		PostgresJobRepository:       NewPostgresJobRepository(db),
		PostgresCandidateRepository: NewPostgresCandidateRepository(db),
	}
}
