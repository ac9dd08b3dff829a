package usecase

import (
	"context"
	"log"
	"reflect"
	"strings"
	"time"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/repository"
	"jobmatch/internal/search"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultSearchLimit      = 20
	MaxSearchLimit          = 100
	DefaultFacetPoolCap     = 1000
	SearchRecommendationCap = 5
)

type SearchConfig struct {
	FacetPoolCap int
	FacetTTL     time.Duration
}

type SearchParams struct {
	Filter      search.Filter
	CandidateID *uuid.UUID
	Page        int
	Limit       int
}

type SearchItem struct {
	Job        job.Posting
	MatchScore *int
}

type SearchResponse struct {
	Items           []SearchItem
	Total           int
	Pages           int
	Page            int
	Limit           int
	Facets          search.Facets
	Recommendations []matching.MatchResult
}

type JobSearchUsecase interface {
	Search(ctx context.Context, params SearchParams) (SearchResponse, error)
}

type JobSearch struct {
	store    repository.Store
	rec      *Recommender
	cache    SearchCache
	cfg      SearchConfig
	validate *validator.Validate
	logger   *log.Logger
	now      func() time.Time
}

func NewJobSearchUsecase(store repository.Store, rec *Recommender, cache SearchCache, cfg SearchConfig, logger *log.Logger) *JobSearch {
	if cfg.FacetPoolCap <= 0 {
		cfg.FacetPoolCap = DefaultFacetPoolCap
	}
	if cfg.FacetTTL <= 0 {
		cfg.FacetTTL = time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}
	return &JobSearch{
		store:    store,
		rec:      rec,
		cache:    cache,
		cfg:      cfg,
		validate: newValidator(),
		logger:   logger,
		now:      time.Now,
	}
}

// newValidator reports json field names in validation errors.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func (u *JobSearch) Search(ctx context.Context, params SearchParams) (SearchResponse, error) {
	page := params.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return SearchResponse{}, invalid("page", "must be at least 1")
	}
	limit := params.Limit
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	if limit < 0 || limit > MaxSearchLimit {
		return SearchResponse{}, invalid("limit", "must be between 1 and 100")
	}

	f, err := u.normalizeFilter(params.Filter)
	if err != nil {
		return SearchResponse{}, err
	}

	// Resolve the candidate before any job query so an unknown id fails fast.
	var cc *CandidateContext
	if params.CandidateID != nil {
		loaded, err := u.rec.LoadCandidate(ctx, *params.CandidateID)
		if err != nil {
			return SearchResponse{}, err
		}
		cc = &loaded
	}

	result, err := u.store.SearchJobs(ctx, f, page, limit)
	if err != nil {
		return SearchResponse{}, storeErr("search jobs", err)
	}

	facets, err := u.facets(ctx, f, page, result)
	if err != nil {
		return SearchResponse{}, err
	}

	items := make([]SearchItem, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, SearchItem{Job: p})
	}

	recs := []matching.MatchResult{}
	if cc != nil {
		profile := cc.ScoringProfile()
		pageIDs := make([]uuid.UUID, 0, len(items))
		for i := range items {
			score := u.rec.scorer.Score(profile, items[i].Job).MatchScore
			items[i].MatchScore = &score
			pageIDs = append(pageIDs, items[i].Job.ID)
		}
		recs, err = u.rec.RecommendFor(ctx, *cc, RecommendParams{Limit: SearchRecommendationCap, Exclude: pageIDs})
		if err != nil {
			return SearchResponse{}, err
		}
	}

	return SearchResponse{
		Items:           items,
		Total:           result.Total,
		Pages:           pagesFor(result.Total, limit),
		Page:            page,
		Limit:           limit,
		Facets:          facets,
		Recommendations: recs,
	}, nil
}

func (u *JobSearch) normalizeFilter(f search.Filter) (search.Filter, error) {
	f.Query = strings.TrimSpace(f.Query)
	f.Location = strings.TrimSpace(f.Location)
	f.Employer = strings.TrimSpace(f.Employer)
	f.EmploymentType = strings.TrimSpace(f.EmploymentType)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.WorkArrangement = strings.ToLower(strings.TrimSpace(f.WorkArrangement))
	f.ExperienceTier = strings.ToLower(strings.TrimSpace(f.ExperienceTier))

	skills := make([]string, 0, len(f.Skills))
	for _, s := range f.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	f.Skills = skills

	if err := u.validate.Struct(f); err != nil {
		return search.Filter{}, validationFrom(err)
	}
	if f.SalaryMin != nil && f.SalaryMax != nil && *f.SalaryMax < *f.SalaryMin {
		return search.Filter{}, invalid("salary_max", "must not be below salary_min")
	}
	return f.WithDefaults(), nil
}

// facets covers the whole filtered pool. When the first page already holds
// every match it is reused instead of querying again.
func (u *JobSearch) facets(ctx context.Context, f search.Filter, page int, result repository.JobPage) (search.Facets, error) {
	if page == 1 && result.Total <= len(result.Items) {
		return search.ComputeFacets(result.Items), nil
	}
	key := FacetsCacheKey(f, u.now(), u.cfg.FacetTTL)
	return memoJSON(ctx, u.cache, u.logger, key, u.cfg.FacetTTL, func() (search.Facets, error) {
		pool, err := u.store.SearchJobs(ctx, f, 1, u.cfg.FacetPoolCap)
		if err != nil {
			return search.Facets{}, storeErr("search facet pool", err)
		}
		if pool.Total > len(pool.Items) {
			u.logger.Printf("[Jobs] Facet pool capped total=%d cap=%d", pool.Total, u.cfg.FacetPoolCap)
		}
		return search.ComputeFacets(pool.Items), nil
	})
}

func pagesFor(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
