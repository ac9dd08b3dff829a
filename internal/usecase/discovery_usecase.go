package usecase

import (
	"context"
	"log"
	"time"

	"jobmatch/internal/domain/job"
	"jobmatch/internal/repository"
	"jobmatch/internal/search"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultDiscoveryLimit = 10
	MaxDiscoveryLimit     = 50
	DefaultDiscoveryPool  = 1000

	kindTrending = "trending"
	kindFeatured = "featured"
)

// DiscoveryConfig sizes the discovery pool. WarmLimits are the feed sizes
// precomputed by Warm.
type DiscoveryConfig struct {
	PoolCap     int
	TrendingTTL time.Duration
	WarmLimits  []int
}

type DiscoveryUsecase interface {
	Trending(ctx context.Context, limit int) ([]job.Posting, error)
	Featured(ctx context.Context, limit int) ([]job.Posting, error)
	Similar(ctx context.Context, jobID uuid.UUID, limit int) ([]job.Posting, error)
	ByEmployer(ctx context.Context, jobID uuid.UUID, limit int) ([]job.Posting, error)
}

type Discovery struct {
	store  repository.JobStore
	cache  SearchCache
	cfg    DiscoveryConfig
	logger *log.Logger
	now    func() time.Time
}

func NewDiscoveryUsecase(store repository.JobStore, cache SearchCache, cfg DiscoveryConfig, logger *log.Logger) *Discovery {
	if cfg.PoolCap <= 0 {
		cfg.PoolCap = DefaultDiscoveryPool
	}
	if cfg.TrendingTTL <= 0 {
		cfg.TrendingTTL = 5 * time.Minute
	}
	if len(cfg.WarmLimits) == 0 {
		cfg.WarmLimits = []int{DefaultDiscoveryLimit}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Discovery{store: store, cache: cache, cfg: cfg, logger: logger, now: time.Now}
}

func discoveryLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultDiscoveryLimit, nil
	}
	if limit < 0 || limit > MaxDiscoveryLimit {
		return 0, invalid("limit", "must be between 1 and 50")
	}
	return limit, nil
}

func (u *Discovery) Trending(ctx context.Context, limit int) ([]job.Posting, error) {
	return u.feed(ctx, kindTrending, limit, search.Trending)
}

func (u *Discovery) Featured(ctx context.Context, limit int) ([]job.Posting, error) {
	return u.feed(ctx, kindFeatured, limit, search.Featured)
}

type rankFunc func(pool []job.Posting, limit int, now time.Time) []job.Posting

func (u *Discovery) feed(ctx context.Context, kind string, limit int, rank rankFunc) ([]job.Posting, error) {
	limit, err := discoveryLimit(limit)
	if err != nil {
		return nil, err
	}
	now := u.now()
	key := TrendingCacheKey(kind, limit, now, u.cfg.TrendingTTL)
	return memoJSON(ctx, u.cache, u.logger, key, u.cfg.TrendingTTL, func() ([]job.Posting, error) {
		pool, err := u.pool(ctx, search.Filter{})
		if err != nil {
			return nil, err
		}
		return rank(pool, limit, now), nil
	})
}

func (u *Discovery) Similar(ctx context.Context, jobID uuid.UUID, limit int) ([]job.Posting, error) {
	limit, err := discoveryLimit(limit)
	if err != nil {
		return nil, err
	}
	src, err := u.source(ctx, jobID)
	if err != nil {
		return nil, err
	}
	pool, err := u.pool(ctx, search.Filter{})
	if err != nil {
		return nil, err
	}
	return search.Similar(src, pool, limit), nil
}

func (u *Discovery) ByEmployer(ctx context.Context, jobID uuid.UUID, limit int) ([]job.Posting, error) {
	limit, err := discoveryLimit(limit)
	if err != nil {
		return nil, err
	}
	src, err := u.source(ctx, jobID)
	if err != nil {
		return nil, err
	}
	employer := src.EmployerName()
	if employer == "" {
		return []job.Posting{}, nil
	}
	pool, err := u.pool(ctx, search.Filter{Employer: employer})
	if err != nil {
		return nil, err
	}
	return search.ByEmployer(src, pool, limit), nil
}

// Warm precomputes the trending and featured feeds for the configured sizes.
func (u *Discovery) Warm(ctx context.Context) error {
	if u.cache == nil {
		return nil
	}
	pool, err := u.pool(ctx, search.Filter{})
	if err != nil {
		return err
	}
	now := u.now()

	g, gctx := errgroup.WithContext(ctx)
	for _, limit := range u.cfg.WarmLimits {
		for kind, rank := range map[string]rankFunc{kindTrending: search.Trending, kindFeatured: search.Featured} {
			g.Go(func() error {
				key := TrendingCacheKey(kind, limit, now, u.cfg.TrendingTTL)
				return u.cache.SetJSON(gctx, key, rank(pool, limit, now), u.cfg.TrendingTTL)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}
	u.logger.Printf("[Jobs] Warm completed pool=%d limits=%v", len(pool), u.cfg.WarmLimits)
	return nil
}

func (u *Discovery) source(ctx context.Context, jobID uuid.UUID) (job.Posting, error) {
	if jobID == uuid.Nil {
		return job.Posting{}, invalid("job_id", "required")
	}
	p, err := u.store.GetJob(ctx, jobID)
	if err != nil {
		return job.Posting{}, storeErr("get job", err)
	}
	return p, nil
}

func (u *Discovery) pool(ctx context.Context, f search.Filter) ([]job.Posting, error) {
	f.Sort, f.Order = search.SortDate, search.OrderDesc
	page, err := u.store.SearchJobs(ctx, f, 1, u.cfg.PoolCap)
	if err != nil {
		return nil, storeErr("search jobs", err)
	}
	return page.Items, nil
}
