package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/repository"
	"jobmatch/internal/search"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRecommendationLimit = 10
	MaxRecommendationLimit     = 50
	DefaultRecommendPoolCap    = 500
)

// RecommendParams tunes one heuristic run. Exclude drops postings in
// addition to the ones already applied to.
type RecommendParams struct {
	Limit            int
	MinScore         int
	IncludeSkillGaps bool
	Exclude          []uuid.UUID
}

// CandidateContext is everything the engine knows about one candidate.
type CandidateContext struct {
	Profile candidate.Profile
	Skills  []string
	Years   *float64
	Summary string
	Applied map[uuid.UUID]struct{}
}

// ScoringProfile is the profile with CV-derived skills and experience merged in.
func (c CandidateContext) ScoringProfile() candidate.Profile {
	p := c.Profile
	p.Skills = c.Skills
	p.YearsOfExperience = c.Years
	return p
}

func (c CandidateContext) HasApplied(id uuid.UUID) bool {
	_, ok := c.Applied[id]
	return ok
}

// Recommender ranks postings for a candidate with local data only.
type Recommender struct {
	store   repository.Store
	scorer  *matching.Scorer
	poolCap int
	logger  *log.Logger
	now     func() time.Time
}

func NewRecommender(store repository.Store, scorer *matching.Scorer, poolCap int, logger *log.Logger) *Recommender {
	if scorer == nil {
		scorer = matching.DefaultScorer()
	}
	if poolCap <= 0 {
		poolCap = DefaultRecommendPoolCap
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Recommender{store: store, scorer: scorer, poolCap: poolCap, logger: logger, now: time.Now}
}

func (r *Recommender) Scorer() *matching.Scorer { return r.scorer }

// LoadCandidate reads profile, CVs and applications concurrently.
func (r *Recommender) LoadCandidate(ctx context.Context, candidateID uuid.UUID) (CandidateContext, error) {
	if candidateID == uuid.Nil {
		return CandidateContext{}, ErrUnauthorized
	}

	var (
		profile candidate.Profile
		cvs     []candidate.CVDocument
		apps    []candidate.Application
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := r.store.GetCandidateProfile(gctx, candidateID)
		if err != nil {
			return storeErr("get candidate profile", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		list, err := r.store.ListCVs(gctx, candidateID)
		if err != nil {
			return storeErr("list cvs", err)
		}
		cvs = list
		return nil
	})
	g.Go(func() error {
		list, err := r.store.ListApplications(gctx, candidateID)
		if err != nil {
			return storeErr("list applications", err)
		}
		apps = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return CandidateContext{}, err
	}

	return buildCandidateContext(profile, cvs, apps, r.now()), nil
}

func buildCandidateContext(profile candidate.Profile, cvs []candidate.CVDocument, apps []candidate.Application, now time.Time) CandidateContext {
	lists := [][]string{profile.Skills}
	summaries := make([]string, 0, len(cvs))
	for _, cv := range cvs {
		lists = append(lists, cv.Skills)
		texts := []string{cv.Summary}
		for _, e := range cv.Experience {
			texts = append(texts, e.Title, e.Description)
		}
		lists = append(lists, matching.DetectSkills(texts...))
		if s := strings.TrimSpace(cv.Summary); s != "" {
			summaries = append(summaries, s)
		}
	}

	years := profile.YearsOfExperience
	if years == nil {
		years = experienceYears(cvs, now)
	}

	applied := make(map[uuid.UUID]struct{}, len(apps))
	for _, a := range apps {
		applied[a.JobID] = struct{}{}
	}

	return CandidateContext{
		Profile: profile,
		Skills:  matching.MergeSkills(lists...),
		Years:   years,
		Summary: strings.Join(summaries, " "),
		Applied: applied,
	}
}

// experienceYears sums dated CV experience entries. Open-ended entries run to now.
func experienceYears(cvs []candidate.CVDocument, now time.Time) *float64 {
	var total time.Duration
	found := false
	for _, cv := range cvs {
		for _, e := range cv.Experience {
			if e.StartDate == nil {
				continue
			}
			end := now
			if e.EndDate != nil {
				end = *e.EndDate
			}
			if end.After(*e.StartDate) {
				total += end.Sub(*e.StartDate)
				found = true
			}
		}
	}
	if !found {
		return nil
	}
	y := total.Hours() / (24 * 365.25)
	return &y
}

// Pool returns eligible postings the candidate has not applied to.
func (r *Recommender) Pool(ctx context.Context, cc CandidateContext) ([]job.Posting, error) {
	page, err := r.store.SearchJobs(ctx, search.Filter{Sort: search.SortDate, Order: search.OrderDesc}, 1, r.poolCap)
	if err != nil {
		return nil, storeErr("search jobs", err)
	}
	now := r.now()
	out := make([]job.Posting, 0, len(page.Items))
	for _, p := range page.Items {
		if !p.Eligible(now) || cc.HasApplied(p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Rank scores every posting and orders by score, then recency, then id.
func (r *Recommender) Rank(cc CandidateContext, pool []job.Posting, includeSkillGaps bool) []matching.MatchResult {
	profile := cc.ScoringProfile()
	out := make([]matching.MatchResult, 0, len(pool))
	for _, p := range pool {
		out = append(out, r.scorer.Explain(profile, p, includeSkillGaps))
	}
	SortMatchResults(out)
	return out
}

func (r *Recommender) Recommend(ctx context.Context, candidateID uuid.UUID, params RecommendParams) ([]matching.MatchResult, error) {
	cc, err := r.LoadCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return r.RecommendFor(ctx, cc, params)
}

// RecommendFor is Recommend for an already loaded candidate.
func (r *Recommender) RecommendFor(ctx context.Context, cc CandidateContext, params RecommendParams) ([]matching.MatchResult, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	pool, err := r.Pool(ctx, cc)
	if err != nil {
		return nil, err
	}
	if len(params.Exclude) > 0 {
		skip := make(map[uuid.UUID]struct{}, len(params.Exclude))
		for _, id := range params.Exclude {
			skip[id] = struct{}{}
		}
		kept := pool[:0]
		for _, p := range pool {
			if _, ok := skip[p.ID]; !ok {
				kept = append(kept, p)
			}
		}
		pool = kept
	}

	ranked := r.Rank(cc, pool, params.IncludeSkillGaps)
	out := filterMinScore(ranked, params.MinScore)
	if len(out) > limit {
		out = out[:limit]
	}
	r.logger.Printf("[Recommend] candidate=%s pool=%d returned=%d source=%s", cc.Profile.ID, len(pool), len(out), matching.SourceHeuristic)
	return out, nil
}

func filterMinScore(in []matching.MatchResult, minScore int) []matching.MatchResult {
	if minScore <= 0 {
		return in
	}
	out := make([]matching.MatchResult, 0, len(in))
	for _, m := range in {
		if m.MatchScore >= minScore {
			out = append(out, m)
		}
	}
	return out
}

// SortMatchResults orders by score desc, then publish recency, then id.
func SortMatchResults(items []matching.MatchResult) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.Job != nil && b.Job != nil {
			ra, rb := a.Job.Recency(), b.Job.Recency()
			if !ra.Equal(rb) {
				return ra.After(rb)
			}
		}
		return a.JobID.String() < b.JobID.String()
	})
}
