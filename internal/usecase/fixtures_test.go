package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/repository"
	"jobmatch/internal/search"

	"github.com/google/uuid"
)

func sp(s string) *string                           { return &s }
func fp(f float64) *float64                         { return &f }
func wa(w job.WorkArrangement) *job.WorkArrangement { return &w }
func tier(t job.ExperienceTier) *job.ExperienceTier { return &t }
func quietLogger() *log.Logger                      { return log.New(&bytes.Buffer{}, "", 0) }

func ago(d time.Duration) *time.Time {
	t := time.Now().Add(-d)
	return &t
}

func postingIDs(items []job.Posting) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, p := range items {
		out = append(out, p.ID)
	}
	return out
}

func resultIDs(items []matching.MatchResult) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, r := range items {
		out = append(out, r.JobID)
	}
	return out
}

const day = 24 * time.Hour

type world struct {
	store     *repository.MemoryStore
	candidate uuid.UUID

	pGo, pPy, pLow, pApplied, pDraft, pExpired job.Posting
}

// newWorld builds a candidate who knows Go and PostgreSQL plus postings whose
// heuristic scores against them are 90 (pGo), 40 (pPy) and 13 (pLow).
func newWorld() *world {
	w := &world{store: repository.NewMemoryStore(nil), candidate: uuid.New()}

	w.pGo = job.Posting{
		ID: uuid.New(), Title: "Backend Engineer", Employer: sp("Acme"), Location: sp("Berlin, Germany"),
		WorkArrangement: wa(job.WorkRemote), ExperienceTier: tier(job.TierMid), CategoryID: sp("eng"),
		RequiredSkills: []string{"Go", "PostgreSQL"}, Status: job.StatusPublished,
		ViewCount: 100, PublishedAt: ago(1 * day), CreatedAt: time.Now().Add(-10 * day),
	}
	w.pPy = job.Posting{
		ID: uuid.New(), Title: "Data Engineer", Employer: sp("Beta"),
		WorkArrangement: wa(job.WorkOnsite), ExperienceTier: tier(job.TierSenior), CategoryID: sp("eng"),
		RequiredSkills: []string{"Python", "SQL", "AWS"}, Status: job.StatusPublished,
		PublishedAt: ago(2 * day), CreatedAt: time.Now().Add(-10 * day),
	}
	w.pLow = job.Posting{
		ID: uuid.New(), Title: "Chef", Employer: sp("Bistro"), Location: sp("Paris, France"),
		WorkArrangement: wa(job.WorkOnsite), ExperienceTier: tier(job.TierExecutive),
		RequiredSkills: []string{"Cooking"}, Status: job.StatusPublished,
		PublishedAt: ago(3 * day), CreatedAt: time.Now().Add(-10 * day),
	}
	w.pApplied = job.Posting{
		ID: uuid.New(), Title: "Go Developer", Employer: sp("ACME "), Location: sp("Berlin, Germany"),
		WorkArrangement: wa(job.WorkRemote), RequiredSkills: []string{"Go"}, Status: job.StatusPublished,
		PublishedAt: ago(5 * day), CreatedAt: time.Now().Add(-10 * day),
	}
	w.pDraft = job.Posting{
		ID: uuid.New(), Title: "Go Intern", RequiredSkills: []string{"Go"}, Status: job.StatusDraft,
		CreatedAt: time.Now().Add(-1 * day),
	}
	w.pExpired = job.Posting{
		ID: uuid.New(), Title: "Go Contractor", RequiredSkills: []string{"Go"}, Status: job.StatusPublished,
		PublishedAt: ago(20 * day), ExpiresAt: ago(1 * day), CreatedAt: time.Now().Add(-20 * day),
	}
	w.store.AddJobs(w.pGo, w.pPy, w.pLow, w.pApplied, w.pDraft, w.pExpired)

	years := 4.0
	w.store.AddProfile(candidate.Profile{
		ID:                w.candidate,
		Skills:            []string{"Go"},
		Location:          sp("Berlin, Germany"),
		WorkPreference:    wa(job.WorkRemote),
		YearsOfExperience: &years,
	})
	w.store.AddCV(candidate.CVDocument{
		ID:          uuid.New(),
		CandidateID: w.candidate,
		Experience:  []candidate.CVExperience{{Title: "Engineer", Description: "Ran PostgreSQL clusters."}},
	})
	w.store.AddApplication(candidate.Application{ID: uuid.New(), JobID: w.pApplied.ID, CandidateID: w.candidate, AppliedAt: time.Now()})
	return w
}

func (w *world) recommender() *Recommender {
	return NewRecommender(w.store, nil, 0, quietLogger())
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
	sets int
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (c *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(b, out)
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	c.sets++
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = []byte(value)
	return true, nil
}

var errConnReset = errors.New("connection reset by peer")

type failingStore struct {
	*repository.MemoryStore
}

func (failingStore) SearchJobs(context.Context, search.Filter, int, int) (repository.JobPage, error) {
	return repository.JobPage{}, errConnReset
}

type stubProvider struct {
	name  string
	text  string
	err   error
	delay time.Duration
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) Generate(ctx context.Context, _ string) (string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}
