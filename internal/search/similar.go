package search

import (
	"sort"
	"strings"

	"jobmatch/internal/domain/job"
)

const (
	similarCategoryWeight    = 3
	similarSkillWeight       = 2
	similarTierWeight        = 1
	similarArrangementWeight = 1
)

// SimilarityStrength is 0 when the postings share nothing.
func SimilarityStrength(src, p job.Posting) int {
	s := 0
	if src.CategoryID != nil && p.CategoryID != nil && *src.CategoryID != "" && *src.CategoryID == *p.CategoryID {
		s += similarCategoryWeight
	}
	if sharesRequiredSkill(src.RequiredSkills, p.RequiredSkills) {
		s += similarSkillWeight
	}
	if src.ExperienceTier != nil && p.ExperienceTier != nil && *src.ExperienceTier == *p.ExperienceTier {
		s += similarTierWeight
	}
	if src.WorkArrangement != nil && p.WorkArrangement != nil && *src.WorkArrangement == *p.WorkArrangement {
		s += similarArrangementWeight
	}
	return s
}

// Similar returns pool postings overlapping src, strongest overlap first, then newest.
func Similar(src job.Posting, pool []job.Posting, limit int) []job.Posting {
	type scored struct {
		p        job.Posting
		strength int
	}
	tmp := make([]scored, 0)
	for _, p := range pool {
		if p.ID == src.ID {
			continue
		}
		if s := SimilarityStrength(src, p); s > 0 {
			tmp = append(tmp, scored{p: p, strength: s})
		}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].strength != tmp[j].strength {
			return tmp[i].strength > tmp[j].strength
		}
		return newerFirst(tmp[i].p, tmp[j].p)
	})

	out := make([]job.Posting, 0, len(tmp))
	for _, it := range tmp {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, it.p)
	}
	return out
}

// ByEmployer returns other postings from the same employer, newest first.
func ByEmployer(src job.Posting, pool []job.Posting, limit int) []job.Posting {
	emp := lower(src.EmployerName())
	out := make([]job.Posting, 0)
	if emp == "" {
		return out
	}
	for _, p := range pool {
		if p.ID == src.ID || lower(p.EmployerName()) != emp {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return newerFirst(out[i], out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sharesRequiredSkill(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		if k := strings.ToLower(strings.TrimSpace(s)); k != "" {
			set[k] = struct{}{}
		}
	}
	for _, s := range b {
		if _, ok := set[strings.ToLower(strings.TrimSpace(s))]; ok {
			return true
		}
	}
	return false
}
