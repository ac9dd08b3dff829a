package search

import (
	"math"
	"sort"
	"strings"

	"jobmatch/internal/domain/job"
)

const FacetTopN = 10

type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Facets struct {
	Locations        []FacetValue `json:"locations"`
	WorkArrangements []FacetValue `json:"work_arrangements"`
	ExperienceTiers  []FacetValue `json:"experience_tiers"`
	SalaryRanges     []FacetValue `json:"salary_ranges"`
	Categories       []FacetValue `json:"categories"`
	Employers        []FacetValue `json:"employers"`
}

type salaryBucket struct {
	label string
	upper float64
}

// SalaryBuckets are ordered; the last one is open-ended.
var SalaryBuckets = []salaryBucket{
	{label: "0-30k", upper: 30000},
	{label: "30k-50k", upper: 50000},
	{label: "50k-75k", upper: 75000},
	{label: "75k-100k", upper: 100000},
	{label: "100k-150k", upper: 150000},
	{label: "150k+", upper: math.Inf(1)},
}

// ComputeFacets counts values per dimension over the pool. Postings without a
// value for a dimension are left out of that dimension.
func ComputeFacets(pool []job.Posting) Facets {
	locations := map[string]int{}
	arrangements := map[string]int{}
	tiers := map[string]int{}
	categories := map[string]int{}
	employers := map[string]int{}
	salaries := make([]int, len(SalaryBuckets))

	for _, p := range pool {
		countPtr(locations, p.Location)
		countPtr(categories, p.CategoryID)
		countPtr(employers, p.Employer)
		if p.WorkArrangement != nil {
			count(arrangements, string(*p.WorkArrangement))
		}
		if p.ExperienceTier != nil {
			count(tiers, string(*p.ExperienceTier))
		}
		if p.HasSalary() {
			salaries[salaryBucketIndex(p)]++
		}
	}

	salaryFacet := make([]FacetValue, 0, len(SalaryBuckets))
	for i, b := range SalaryBuckets {
		if salaries[i] == 0 {
			continue
		}
		salaryFacet = append(salaryFacet, FacetValue{Value: b.label, Count: salaries[i]})
	}

	return Facets{
		Locations:        rankFacet(locations, FacetTopN),
		WorkArrangements: rankFacet(arrangements, 0),
		ExperienceTiers:  rankFacet(tiers, 0),
		SalaryRanges:     salaryFacet,
		Categories:       rankFacet(categories, FacetTopN),
		Employers:        rankFacet(employers, FacetTopN),
	}
}

func salaryBucketIndex(p job.Posting) int {
	v := 0.0
	if p.SalaryMax != nil && *p.SalaryMax > v {
		v = *p.SalaryMax
	}
	if p.SalaryMin != nil && *p.SalaryMin > v {
		v = *p.SalaryMin
	}
	for i, b := range SalaryBuckets {
		if v < b.upper {
			return i
		}
	}
	return len(SalaryBuckets) - 1
}

func count(m map[string]int, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	m[v]++
}

func countPtr(m map[string]int, v *string) {
	if v == nil {
		return
	}
	count(m, *v)
}

// rankFacet sorts by count desc then value asc; limit <= 0 keeps everything.
func rankFacet(m map[string]int, limit int) []FacetValue {
	out := make([]FacetValue, 0, len(m))
	for v, c := range m {
		out = append(out, FacetValue{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
