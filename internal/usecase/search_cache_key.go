package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"jobmatch/internal/search"
)

const WarmLockKey = "jobs:warm:lock"

type facetCacheKeyInput struct {
	Query            string   `json:"query"`
	Location         string   `json:"location"`
	Employer         string   `json:"employer"`
	WorkArrangement  string   `json:"work_arrangement"`
	EmploymentType   string   `json:"employment_type"`
	ExperienceTier   string   `json:"experience_tier"`
	SalaryMin        *float64 `json:"salary_min"`
	SalaryMax        *float64 `json:"salary_max"`
	CategoryID       string   `json:"category_id"`
	Skills           []string `json:"skills"`
	PostedWithinDays int      `json:"posted_within_days"`
	Window           int64    `json:"window"`
}

// normalizeSearchValue folds only what the filter predicates fold: case and
// surrounding whitespace.
func normalizeSearchValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// freshnessWindow buckets now so keys roll over once per window.
func freshnessWindow(now time.Time, window time.Duration) int64 {
	if window <= 0 {
		return 0
	}
	return now.Truncate(window).Unix()
}

// FacetsCacheKey depends on the filter signature only, never on sort or
// pagination, since facets cover the whole filtered pool.
func FacetsCacheKey(f search.Filter, now time.Time, window time.Duration) string {
	skills := make([]string, 0, len(f.Skills))
	for _, s := range f.Skills {
		s = normalizeSearchValue(s)
		if s == "" {
			continue
		}
		skills = append(skills, s)
	}
	sort.Strings(skills)

	in := facetCacheKeyInput{
		Query:            f.Needle(),
		Location:         normalizeSearchValue(f.Location),
		Employer:         normalizeSearchValue(f.Employer),
		WorkArrangement:  f.WorkArrangement,
		EmploymentType:   normalizeSearchValue(f.EmploymentType),
		ExperienceTier:   f.ExperienceTier,
		SalaryMin:        f.SalaryMin,
		SalaryMax:        f.SalaryMax,
		CategoryID:       strings.TrimSpace(f.CategoryID),
		Skills:           skills,
		PostedWithinDays: f.PostedWithinDays,
		Window:           freshnessWindow(now, window),
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "jobs:facets:" + hex.EncodeToString(sum[:])
}

func TrendingCacheKey(kind string, limit int, now time.Time, window time.Duration) string {
	return fmt.Sprintf("jobs:%s:%d:%d", kind, limit, freshnessWindow(now, window))
}
