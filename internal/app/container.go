package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/database"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/infrastructure/cache"
	"jobmatch/internal/llm"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/repository"
	"jobmatch/internal/usecase"
	"jobmatch/internal/ws"
)

// Container owns every long-lived dependency of the engine.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Store repository.Store
	Cache *cache.Redis
	Chain *llm.Chain
	JWT   jwt.Service
	Hub   *ws.Hub

	Recommender     *usecase.Recommender
	Recommendations *usecase.Recommendations
	Matching        *usecase.Matching
	SkillGaps       *usecase.SkillGaps
	Search          *usecase.JobSearch
	Discovery       *usecase.Discovery

	closers []func() error
}

// NewContainer uses Postgres when a database host is configured and the
// fixtures file otherwise. Redis is skipped when neither a URL nor a host is
// set.
func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	store, err := c.openStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Store = store

	if cfg.Redis.URL != "" || cfg.Redis.Host != "" {
		c.Cache = cache.NewRedis(cfg.Redis, logger)
		c.closers = append(c.closers, c.Cache.Close)
	}

	c.Chain = llm.NewChain(cfg.Providers.CallTimeout, logger, c.buildProviders(ctx)...)
	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessTTL)
	c.Hub = ws.NewHub(logger)

	var memo usecase.SearchCache
	if c.Cache != nil {
		memo = c.Cache
	}

	c.Recommender = usecase.NewRecommender(store, matching.DefaultScorer(), cfg.Engine.RecommendPoolCap, logger)
	semantic := usecase.NewSemanticMatcher(c.Recommender, c.Chain, cfg.Engine.SemanticPromptN, logger)
	c.Recommendations = usecase.NewRecommendationUsecase(c.Recommender, semantic)
	c.Matching = usecase.NewMatchingUsecase(c.Recommender)
	c.SkillGaps = usecase.NewSkillGapUsecase(c.Recommender, c.Chain, logger)
	c.Search = usecase.NewJobSearchUsecase(store, c.Recommender, memo, usecase.SearchConfig{
		FacetPoolCap: cfg.Engine.FacetPoolCap,
		FacetTTL:     cfg.Redis.FacetTTL,
	}, logger)
	c.Discovery = usecase.NewDiscoveryUsecase(store, memo, usecase.DiscoveryConfig{
		PoolCap:     cfg.Engine.DiscoveryPoolCap,
		TrendingTTL: cfg.Redis.TrendingTTL,
		WarmLimits:  cfg.Engine.WarmLimits,
	}, logger)

	return c, nil
}

func (c *Container) openStore(ctx context.Context) (repository.Store, error) {
	cfg := c.Config
	if cfg.Database.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(connectCtx, cfg.Database, c.Logger)
		if err != nil {
			return nil, err
		}
		c.DB = db
		c.closers = append(c.closers, db.Close)

		r := migration.Runner{Dir: cfg.Database.MigrationsDir, Logger: c.Logger}
		if err := r.Run(ctx, db.SQLDB()); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return repository.NewPostgresStore(db), nil
	}

	store, err := OpenFixtures(cfg.App.FixturesPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Printf("[App] Using fixtures store path=%s", cfg.App.FixturesPath)
	return store, nil
}

// OpenFixtures loads a fixtures file into a fresh in-memory store.
func OpenFixtures(path string) (*repository.MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	store := repository.NewMemoryStore(nil)
	if err := repository.LoadFixtures(f, store); err != nil {
		return nil, err
	}
	return store, nil
}

// buildProviders follows the configured order. A provider without
// credentials is skipped; the chain then falls back to heuristics.
func (c *Container) buildProviders(ctx context.Context) []llm.Provider {
	cfg := c.Config.Providers
	out := make([]llm.Provider, 0, len(cfg.Order))
	for _, name := range cfg.Order {
		var p llm.Provider
		switch name {
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				c.Logger.Printf("[App] provider=gemini skipped reason=no_api_key")
				continue
			}
			g, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				c.Logger.Printf("[App] provider=gemini skipped err=%v", err)
				continue
			}
			c.closers = append(c.closers, g.Close)
			p = g
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				c.Logger.Printf("[App] provider=openai skipped reason=no_api_key")
				continue
			}
			o, err := llm.NewOpenAIProvider(llm.OpenAIConfig{
				BaseURL:      cfg.OpenAIBaseURL,
				APIKey:       cfg.OpenAIAPIKey,
				FallbackKeys: cfg.OpenAIFallbackKeys,
				Model:        cfg.OpenAIModel,
				MaxTokens:    cfg.MaxTokens,
				Temperature:  cfg.Temperature,
				HTTPTimeout:  cfg.CallTimeout,
			})
			if err != nil {
				c.Logger.Printf("[App] provider=openai skipped err=%v", err)
				continue
			}
			p = o
		default:
			c.Logger.Printf("[App] provider=%s skipped reason=unknown", name)
			continue
		}
		out = append(out, llm.WithRateLimit(p, cfg.RatePerMinute, cfg.RateBurst))
		c.Logger.Printf("[App] provider=%s enabled", name)
	}
	return out
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
