package search

import (
	"math"
	"sort"
	"time"

	"jobmatch/internal/domain/job"
)

const (
	trendingViewWeight        = 0.3
	trendingApplicationWeight = 0.5
	trendingRecencyWeight     = 0.2
	trendingRecencyDays       = 7

	FeaturedMinQuality = 4
)

// TrendingScore = 0.3*views + 0.5*applications + 0.2*max(0, 7-days since
// publish). Days are whole days; an unpublished posting gets no recency credit.
func TrendingScore(p job.Posting, now time.Time) float64 {
	recency := 0.0
	if p.PublishedAt != nil && !p.PublishedAt.IsZero() {
		days := math.Floor(now.Sub(*p.PublishedAt).Hours() / 24)
		if days < 0 {
			days = 0
		}
		recency = math.Max(0, trendingRecencyDays-days)
	}
	return trendingViewWeight*float64(p.ViewCount) +
		trendingApplicationWeight*float64(p.ApplicationCount) +
		trendingRecencyWeight*recency
}

// Trending ranks eligible postings by TrendingScore.
func Trending(pool []job.Posting, limit int, now time.Time) []job.Posting {
	return rankTrending(pool, limit, now, func(job.Posting) bool { return true })
}

// Featured is Trending restricted to postings with a data quality of at least 4 of 5.
func Featured(pool []job.Posting, limit int, now time.Time) []job.Posting {
	return rankTrending(pool, limit, now, func(p job.Posting) bool {
		return ComputeDataQuality(p) >= FeaturedMinQuality
	})
}

func rankTrending(pool []job.Posting, limit int, now time.Time, keep func(job.Posting) bool) []job.Posting {
	type scored struct {
		p     job.Posting
		score float64
	}
	tmp := make([]scored, 0, len(pool))
	for _, p := range pool {
		if !p.Eligible(now) || !keep(p) {
			continue
		}
		tmp = append(tmp, scored{p: p, score: TrendingScore(p, now)})
	}

	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].score != tmp[j].score {
			return tmp[i].score > tmp[j].score
		}
		return newerFirst(tmp[i].p, tmp[j].p)
	})

	if limit > 0 && len(tmp) > limit {
		tmp = tmp[:limit]
	}
	out := make([]job.Posting, 0, len(tmp))
	for _, it := range tmp {
		out = append(out, it.p)
	}
	return out
}
