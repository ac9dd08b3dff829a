package repository

import (
	"context"
	"errors"
	"math"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/search"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)

type JobPage struct {
	Items []job.Posting
	Total int
}

// JobStore only ever returns eligible postings from SearchJobs: published and
// not expired. Pages are 1-indexed and Total is the filtered count.
type JobStore interface {
	SearchJobs(ctx context.Context, f search.Filter, page, limit int) (JobPage, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.Posting, error)
}

type CandidateStore interface {
	GetCandidateProfile(ctx context.Context, id uuid.UUID) (candidate.Profile, error)
	ListCVs(ctx context.Context, candidateID uuid.UUID) ([]candidate.CVDocument, error)
	ListApplications(ctx context.Context, candidateID uuid.UUID) ([]candidate.Application, error)
	CheckApplied(ctx context.Context, candidateID, jobID uuid.UUID) (bool, error)
}

type Store interface {
	JobStore
	CandidateStore
}

// offsetFor saturates at math.MaxInt so a huge page reads as past the end.
func offsetFor(page, limit int) int {
	if page < 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
