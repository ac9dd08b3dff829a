package search

import (
	"sort"
	"strings"

	"jobmatch/internal/domain/job"
)

func ComputeRelevance(p job.Posting, queryVariants []string) float64 {
	if len(queryVariants) == 0 {
		return 0
	}

	title := strings.ToLower(p.Title)
	desc := strings.ToLower(p.Description)
	employer := strings.ToLower(p.EmployerName())

	score := 0.0
	for _, v := range queryVariants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if title != "" && strings.Contains(title, v) {
			score += 3
		}
		if desc != "" && strings.Contains(desc, v) {
			score += 1
		}
		if employer != "" && strings.Contains(employer, v) {
			score += 1
		}
		if score >= 10 {
			return 10
		}
	}
	return score
}

// ComputeDataQuality awards one point each for title, employer, location,
// a description longer than 100 characters, and salary information.
func ComputeDataQuality(p job.Posting) float64 {
	score := 0.0
	if strings.TrimSpace(p.Title) != "" {
		score += 1
	}
	if p.EmployerName() != "" {
		score += 1
	}
	if p.LocationName() != "" {
		score += 1
	}
	if len(strings.TrimSpace(p.Description)) > 100 {
		score += 1
	}
	if p.HasSalary() {
		score += 1
	}
	return score
}

// SortPostings orders postings in place by f.Sort/f.Order. Ties fall back to
// recency (newest first) and then id so the order is total.
func SortPostings(items []job.Posting, f Filter, queryVariants []string) {
	f = f.WithDefaults()
	desc := f.Order != OrderAsc

	type scored struct {
		p     job.Posting
		score float64
	}
	tmp := make([]scored, len(items))
	for i, p := range items {
		s := float64(p.Recency().UnixNano())
		if f.Sort == SortRelevance && len(queryVariants) > 0 {
			s = ComputeRelevance(p, queryVariants)
		}
		tmp[i] = scored{p: p, score: s}
	}

	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].score != tmp[j].score {
			if desc {
				return tmp[i].score > tmp[j].score
			}
			return tmp[i].score < tmp[j].score
		}
		return newerFirst(tmp[i].p, tmp[j].p)
	})

	for i := range tmp {
		items[i] = tmp[i].p
	}
}

// newerFirst is the shared tiebreak: later recency first, then id ascending.
func newerFirst(a, b job.Posting) bool {
	ra, rb := a.Recency(), b.Recency()
	if !ra.Equal(rb) {
		return ra.After(rb)
	}
	return a.ID.String() < b.ID.String()
}
