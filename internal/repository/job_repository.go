package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/search"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `j.id, j.title, COALESCE(j.description, ''), j.employer, j.location,
	j.work_arrangement, j.employment_type, j.experience_tier,
	j.salary_min, j.salary_max, j.salary_currency, j.category_id,
	COALESCE(j.required_skills, '{}'), COALESCE(j.preferred_skills, '{}'),
	j.status, j.view_count, j.application_count, j.published_at, j.expires_at, j.created_at`

type PostgresJobRepository struct {
	db  database.DB
	now func() time.Time
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db, now: time.Now}
}

func (r *PostgresJobRepository) SearchJobs(ctx context.Context, f search.Filter, page, limit int) (JobPage, error) {
	f = f.WithDefaults()
	where, args := buildJobWhere(f, r.now().UTC())

	var total int
	countSQL := `SELECT COUNT(1) FROM jobs j WHERE ` + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return JobPage{}, err
	}
	if total == 0 {
		return JobPage{Items: []job.Posting{}, Total: 0}, nil
	}

	orderBy, args := buildJobOrder(f, f.Terms(), args)
	q := fmt.Sprintf(`SELECT %s FROM jobs j WHERE %s ORDER BY %s`, jobColumns, where, orderBy)
	if limit > 0 {
		args = append(args, limit, offsetFor(page, limit))
		q += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return JobPage{}, err
	}
	defer rows.Close()

	items := make([]job.Posting, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return JobPage{}, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return JobPage{}, err
	}
	return JobPage{Items: items, Total: total}, nil
}

func (r *PostgresJobRepository) GetJob(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id)
	p, err := scanPosting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return job.Posting{}, ErrJobNotFound
		}
		return job.Posting{}, err
	}
	return p, nil
}

func buildJobWhere(f search.Filter, now time.Time) (string, []any) {
	args := []any{now}
	conds := []string{`j.status = 'published'`, `(j.expires_at IS NULL OR j.expires_at > $1)`}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if needle := f.Needle(); needle != "" {
		p := arg(likePattern(needle))
		conds = append(conds, fmt.Sprintf(`(j.title ILIKE %[1]s OR j.description ILIKE %[1]s OR j.employer ILIKE %[1]s)`, p))
	}
	if v := strings.TrimSpace(f.Location); v != "" {
		conds = append(conds, `j.location ILIKE `+arg(likePattern(v)))
	}
	if v := strings.TrimSpace(f.Employer); v != "" {
		conds = append(conds, `lower(trim(j.employer)) = lower(`+arg(v)+`)`)
	}
	if f.WorkArrangement != "" {
		conds = append(conds, `j.work_arrangement = `+arg(f.WorkArrangement))
	}
	if v := strings.TrimSpace(f.EmploymentType); v != "" {
		conds = append(conds, `lower(j.employment_type) = lower(`+arg(v)+`)`)
	}
	if f.ExperienceTier != "" {
		conds = append(conds, `j.experience_tier = `+arg(f.ExperienceTier))
	}
	if f.CategoryID != "" {
		conds = append(conds, `j.category_id = `+arg(f.CategoryID))
	}
	if f.SalaryMin != nil || f.SalaryMax != nil {
		conds = append(conds, `(j.salary_min IS NOT NULL OR j.salary_max IS NOT NULL)`)
		if f.SalaryMin != nil {
			conds = append(conds, `GREATEST(j.salary_min, j.salary_max) >= `+arg(*f.SalaryMin))
		}
		if f.SalaryMax != nil {
			conds = append(conds, `LEAST(j.salary_min, j.salary_max) <= `+arg(*f.SalaryMax))
		}
	}
	if len(f.Skills) > 0 {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM unnest(COALESCE(j.required_skills, '{}') || COALESCE(j.preferred_skills, '{}')) s,
			              unnest(`+arg(lowerAll(f.Skills))+`::text[]) q
			WHERE strpos(lower(s), q) > 0 OR strpos(q, lower(s)) > 0)`)
	}
	if f.PostedWithinDays > 0 {
		cutoff := now.Add(-time.Duration(f.PostedWithinDays) * 24 * time.Hour)
		conds = append(conds, `COALESCE(j.published_at, j.created_at) >= `+arg(cutoff))
	}

	return strings.Join(conds, " AND "), args
}

// buildJobOrder mirrors search.SortPostings.
func buildJobOrder(f search.Filter, terms []string, args []any) (string, []any) {
	dir := "DESC"
	if f.Order == search.OrderAsc {
		dir = "ASC"
	}
	recency := `COALESCE(j.published_at, j.created_at) DESC, j.id ASC`
	if f.Sort != search.SortRelevance || len(terms) == 0 {
		return fmt.Sprintf(`COALESCE(j.published_at, j.created_at) %s, j.id ASC`, dir), args
	}

	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		args = append(args, likePattern(t))
		p := fmt.Sprintf("$%d", len(args))
		parts = append(parts, fmt.Sprintf(
			`(CASE WHEN j.title ILIKE %[1]s THEN 3 ELSE 0 END + CASE WHEN j.description ILIKE %[1]s THEN 1 ELSE 0 END + CASE WHEN j.employer ILIKE %[1]s THEN 1 ELSE 0 END)`, p))
	}
	return fmt.Sprintf(`LEAST(%s, 10) %s, %s`, strings.Join(parts, " + "), dir, recency), args
}

func scanPosting(row database.Row) (job.Posting, error) {
	var (
		p                 job.Posting
		arrangement, tier *string
		status            string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Employer, &p.Location,
		&arrangement, &p.EmploymentType, &tier,
		&p.SalaryMin, &p.SalaryMax, &p.SalaryCurrency, &p.CategoryID,
		&p.RequiredSkills, &p.PreferredSkills,
		&status, &p.ViewCount, &p.ApplicationCount, &p.PublishedAt, &p.ExpiresAt, &p.CreatedAt,
	)
	if err != nil {
		return job.Posting{}, err
	}
	p.WorkArrangement = workArrangementPtr(arrangement)
	p.ExperienceTier = experienceTierPtr(tier)
	p.Status = job.Status(status)
	return p, nil
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
