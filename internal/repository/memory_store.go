package repository

import (
	"context"
	"sync"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/search"

	"github.com/google/uuid"
)

// MemoryStore is a Store over in-process data, used by the CLI and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	jobs         []job.Posting
	profiles     map[uuid.UUID]candidate.Profile
	cvs          map[uuid.UUID][]candidate.CVDocument
	applications map[uuid.UUID][]candidate.Application
	now          func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		profiles:     map[uuid.UUID]candidate.Profile{},
		cvs:          map[uuid.UUID][]candidate.CVDocument{},
		applications: map[uuid.UUID][]candidate.Application{},
		now:          now,
	}
}

func (s *MemoryStore) AddJobs(jobs ...job.Posting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, jobs...)
}

func (s *MemoryStore) AddProfile(p candidate.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *MemoryStore) AddCV(cv candidate.CVDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cvs[cv.CandidateID] = append(s.cvs[cv.CandidateID], cv)
}

func (s *MemoryStore) AddApplication(a candidate.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[a.CandidateID] = append(s.applications[a.CandidateID], a)
}

func (s *MemoryStore) SearchJobs(ctx context.Context, f search.Filter, page, limit int) (JobPage, error) {
	if err := ctx.Err(); err != nil {
		return JobPage{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	matched := make([]job.Posting, 0)
	for _, p := range s.jobs {
		if search.Matches(p, f, now) {
			matched = append(matched, p)
		}
	}
	search.SortPostings(matched, f, f.Terms())

	total := len(matched)
	start := offsetFor(page, limit)
	if start > total {
		start = total
	}
	end := total
	if limit > 0 && limit < end-start {
		end = start + limit
	}
	items := make([]job.Posting, end-start)
	copy(items, matched[start:end])
	return JobPage{Items: items, Total: total}, nil
}

func (s *MemoryStore) GetJob(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	if err := ctx.Err(); err != nil {
		return job.Posting{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.jobs {
		if p.ID == id {
			return p, nil
		}
	}
	return job.Posting{}, ErrJobNotFound
}

func (s *MemoryStore) GetCandidateProfile(ctx context.Context, id uuid.UUID) (candidate.Profile, error) {
	if err := ctx.Err(); err != nil {
		return candidate.Profile{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return candidate.Profile{}, ErrCandidateNotFound
	}
	return p, nil
}

func (s *MemoryStore) ListCVs(ctx context.Context, candidateID uuid.UUID) ([]candidate.CVDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]candidate.CVDocument, len(s.cvs[candidateID]))
	copy(out, s.cvs[candidateID])
	return out, nil
}

func (s *MemoryStore) ListApplications(ctx context.Context, candidateID uuid.UUID) ([]candidate.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]candidate.Application, len(s.applications[candidateID]))
	copy(out, s.applications[candidateID])
	return out, nil
}

func (s *MemoryStore) CheckApplied(ctx context.Context, candidateID, jobID uuid.UUID) (bool, error) {
	apps, err := s.ListApplications(ctx, candidateID)
	if err != nil {
		return false, err
	}
	for _, a := range apps {
		if a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}
