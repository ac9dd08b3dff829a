// Package scheduler runs the cron job that keeps the trending and featured
// feeds warm and tells websocket subscribers when they change.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const lockTTL = time.Minute

// Feeds is the discovery surface the warm cycle drives.
type Feeds interface {
	Warm(ctx context.Context) error
	Trending(ctx context.Context, limit int) ([]job.Posting, error)
	Featured(ctx context.Context, limit int) ([]job.Posting, error)
}

// Locker keeps concurrent instances from warming the same window twice.
type Locker interface {
	Available() bool
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// NotifyFunc receives the ids of a freshly computed feed.
type NotifyFunc func(kind string, limit int, ids []uuid.UUID)

type Config struct {
	Spec    string
	Limits  []int
	LockKey string
}

// Scheduler wraps robfig/cron and manages the warm loop.
type Scheduler struct {
	cron   *cron.Cron
	feeds  Feeds
	lock   Locker
	notify NotifyFunc
	cfg    Config
	logger *log.Logger
	owner  string
}

func New(feeds Feeds, lock Locker, notify NotifyFunc, cfg Config, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Spec == "" {
		cfg.Spec = "@every 5m"
	}
	host, _ := os.Hostname()
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		feeds:  feeds,
		lock:   lock,
		notify: notify,
		cfg:    cfg,
		logger: logger,
		owner:  fmt.Sprintf("%s:%d", host, os.Getpid()),
	}
}

// Start registers the job and starts the scheduler. One cycle also runs
// immediately so the feeds are warm before the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Printf("[scheduler] Cron started spec=%s", s.cfg.Spec)

	go s.RunOnce(ctx)
	return nil
}

// Stop waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Println("[scheduler] Cron stopped")
}

// RunOnce warms the caches and broadcasts the new feeds. It reports whether
// the cycle ran; a cycle held by another instance is skipped.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if !s.acquire(ctx) {
		s.logger.Println("[scheduler] Warm skipped reason=locked")
		return false
	}

	start := time.Now()
	if err := s.feeds.Warm(ctx); err != nil {
		s.logger.Printf("[scheduler] Warm error: %v", err)
		return false
	}
	s.broadcast(ctx)
	s.logger.Printf("[scheduler] Warm cycle complete duration_ms=%d", time.Since(start).Milliseconds())
	return true
}

func (s *Scheduler) acquire(ctx context.Context) bool {
	if s.lock == nil || !s.lock.Available() || s.cfg.LockKey == "" {
		return true
	}
	ok, err := s.lock.SetIfNotExists(ctx, s.cfg.LockKey, s.owner, lockTTL)
	if err != nil {
		// Redis failed mid-flight; warming is idempotent so go ahead.
		s.logger.Printf("[scheduler] Lock error: %v", err)
		return true
	}
	return ok
}

func (s *Scheduler) broadcast(ctx context.Context) {
	if s.notify == nil {
		return
	}
	feeds := []struct {
		kind string
		load func(context.Context, int) ([]job.Posting, error)
	}{
		{"trending", s.feeds.Trending},
		{"featured", s.feeds.Featured},
	}
	for _, limit := range s.cfg.Limits {
		for _, f := range feeds {
			items, err := f.load(ctx, limit)
			if err != nil {
				s.logger.Printf("[scheduler] %s feed error limit=%d err=%v", f.kind, limit, err)
				continue
			}
			ids := make([]uuid.UUID, 0, len(items))
			for _, p := range items {
				ids = append(ids, p.ID)
			}
			s.notify(f.kind, limit, ids)
		}
	}
}
