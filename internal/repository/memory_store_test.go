package repository

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/search"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func published(title string, age time.Duration) job.Posting {
	t := fixedNow.Add(-age)
	return job.Posting{ID: uuid.New(), Title: title, Status: job.StatusPublished, PublishedAt: &t, CreatedAt: t}
}

func TestMemoryStore_SearchJobs_PaginatesFilteredCount(t *testing.T) {
	s := NewMemoryStore(clock)
	for i := 0; i < 5; i++ {
		s.AddJobs(published("Go Engineer", time.Duration(i)*time.Hour))
	}
	draft := published("Go Engineer", 0)
	draft.Status = job.StatusDraft
	s.AddJobs(draft, published("Chef", 0))

	page, err := s.SearchJobs(context.Background(), search.Filter{Query: "engineer"}, 2, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("expected total 5, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}

	last, err := s.SearchJobs(context.Background(), search.Filter{Query: "engineer"}, 3, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(last.Items) != 1 {
		t.Fatalf("expected 1 item on last page, got %d", len(last.Items))
	}

	beyond, _ := s.SearchJobs(context.Background(), search.Filter{Query: "engineer"}, 9, 2)
	if len(beyond.Items) != 0 || beyond.Total != 5 {
		t.Fatalf("expected empty page beyond the end, got %d/%d", len(beyond.Items), beyond.Total)
	}
}

func TestMemoryStore_SearchJobs_HugePage(t *testing.T) {
	s := NewMemoryStore(clock)
	s.AddJobs(published("Go Engineer", 0), published("Go Engineer", time.Hour))

	page, err := s.SearchJobs(context.Background(), search.Filter{}, math.MaxInt, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 0 || page.Total != 2 {
		t.Fatalf("expected an empty page past the end, got %d/%d", len(page.Items), page.Total)
	}
}

func TestOffsetFor(t *testing.T) {
	cases := []struct {
		page, limit, want int
	}{
		{page: 0, limit: 20, want: 0},
		{page: 3, limit: 20, want: 40},
		{page: 5, limit: 0, want: 0},
		{page: math.MaxInt, limit: 2, want: math.MaxInt},
	}
	for _, tc := range cases {
		if got := offsetFor(tc.page, tc.limit); got != tc.want {
			t.Fatalf("offsetFor(%d, %d) = %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryStore(clock)
	if _, err := s.GetJob(context.Background(), uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if _, err := s.GetCandidateProfile(context.Background(), uuid.New()); !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestMemoryStore_CheckApplied(t *testing.T) {
	s := NewMemoryStore(clock)
	cid, jid := uuid.New(), uuid.New()
	s.AddApplication(candidate.Application{ID: uuid.New(), JobID: jid, CandidateID: cid, AppliedAt: fixedNow})

	ok, err := s.CheckApplied(context.Background(), cid, jid)
	if err != nil || !ok {
		t.Fatalf("expected applied, got %v %v", ok, err)
	}
	ok, _ = s.CheckApplied(context.Background(), cid, uuid.New())
	if ok {
		t.Fatalf("expected not applied")
	}
}

func TestMemoryStore_HonorsCancelledContext(t *testing.T) {
	s := NewMemoryStore(clock)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.SearchJobs(ctx, search.Filter{}, 1, 10); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadFixtures(t *testing.T) {
	doc := `{
	  "jobs": [{"id": "6f1c1d3e-9b5a-4a51-9f57-8d3d8f0b0a01", "title": "Data Engineer", "work_arrangement": "remote",
	            "experience_tier": "mid", "required_skills": ["Python", "SQL"], "status": "published",
	            "published_at": "2026-04-30T09:00:00Z", "created_at": "2026-04-30T09:00:00Z"}],
	  "candidates": [{"id": "0b3a2f1e-1c2d-4e5f-8a9b-0c1d2e3f4a5b", "skills": ["python"], "work_preference": "remote"}],
	  "cvs": [{"id": "1b3a2f1e-1c2d-4e5f-8a9b-0c1d2e3f4a5b", "candidate_id": "0b3a2f1e-1c2d-4e5f-8a9b-0c1d2e3f4a5b",
	           "skills": ["Airflow"], "experience": [{"title": "Analyst", "description": "SQL reports"}]}],
	  "applications": []
	}`

	s := NewMemoryStore(clock)
	if err := LoadFixtures(strings.NewReader(doc), s); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	j, err := s.GetJob(context.Background(), uuid.MustParse("6f1c1d3e-9b5a-4a51-9f57-8d3d8f0b0a01"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if j.WorkArrangement == nil || *j.WorkArrangement != job.WorkRemote || j.ExperienceTier == nil || *j.ExperienceTier != job.TierMid {
		t.Fatalf("enums not decoded: %+v", j)
	}

	cid := uuid.MustParse("0b3a2f1e-1c2d-4e5f-8a9b-0c1d2e3f4a5b")
	p, err := s.GetCandidateProfile(context.Background(), cid)
	if err != nil || p.WorkPreference == nil || *p.WorkPreference != job.WorkRemote {
		t.Fatalf("unexpected profile %+v err=%v", p, err)
	}
	cvs, _ := s.ListCVs(context.Background(), cid)
	if len(cvs) != 1 || len(cvs[0].Experience) != 1 {
		t.Fatalf("unexpected cvs: %+v", cvs)
	}

	if err := LoadFixtures(strings.NewReader(`{"unknown": 1}`), s); err == nil {
		t.Fatalf("expected unknown fields to be rejected")
	}
}

func TestBuildJobWhere(t *testing.T) {
	min := 50000.0
	f := search.Filter{
		Query:           "golang",
		Location:        "50%_off",
		WorkArrangement: "remote",
		SalaryMin:       &min,
		Skills:          []string{" Go "},
	}.WithDefaults()

	where, args := buildJobWhere(f, fixedNow)
	for _, frag := range []string{
		"j.status = 'published'",
		"j.expires_at > $1",
		"j.title ILIKE $2",
		"j.work_arrangement = ",
		"GREATEST(j.salary_min, j.salary_max) >= ",
		"unnest(",
	} {
		if !strings.Contains(where, frag) {
			t.Fatalf("expected %q in where clause: %s", frag, where)
		}
	}
	if args[0] != fixedNow {
		t.Fatalf("expected clock as first arg")
	}

	foundEscaped := false
	for _, a := range args {
		if s, ok := a.(string); ok && s == `%50\%\_off%` {
			foundEscaped = true
		}
	}
	if !foundEscaped {
		t.Fatalf("expected escaped location pattern in %v", args)
	}
	for _, a := range args {
		if s, ok := a.(string); ok && strings.Contains(s, "go developer") {
			t.Fatalf("synonyms must not widen the where clause: %v", args)
		}
	}

	order, orderArgs := buildJobOrder(f, f.Terms(), args)
	if !strings.HasPrefix(order, "LEAST(") || len(orderArgs) <= len(args) {
		t.Fatalf("expected relevance ordering, got %s", order)
	}

	dateOrder, _ := buildJobOrder(search.Filter{Sort: search.SortDate, Order: search.OrderAsc}, nil, nil)
	if dateOrder != "COALESCE(j.published_at, j.created_at) ASC, j.id ASC" {
		t.Fatalf("unexpected date ordering: %s", dateOrder)
	}
}
