package search

import (
	"testing"
	"time"

	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func sp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }
func tp(t time.Time) *time.Time { return &t }
func wa(w job.WorkArrangement) *job.WorkArrangement { return &w }
func tier(t job.ExperienceTier) *job.ExperienceTier { return &t }

func posting(title string, mutate ...func(*job.Posting)) job.Posting {
	p := job.Posting{
		ID:          uuid.New(),
		Title:       title,
		Status:      job.StatusPublished,
		PublishedAt: tp(testNow.Add(-48 * time.Hour)),
		CreatedAt:   testNow.Add(-72 * time.Hour),
	}
	for _, m := range mutate {
		m(&p)
	}
	return p
}

func daysAgo(d int) func(*job.Posting) {
	return func(p *job.Posting) { p.PublishedAt = tp(testNow.Add(-time.Duration(d) * 24 * time.Hour)) }
}

func filterPool(pool []job.Posting, f Filter) []job.Posting {
	out := make([]job.Posting, 0)
	for _, p := range pool {
		if Matches(p, f, testNow) {
			out = append(out, p)
		}
	}
	return out
}

func TestMatches_Eligibility(t *testing.T) {
	draft := posting("Draft", func(p *job.Posting) { p.Status = job.StatusDraft })
	expired := posting("Expired", func(p *job.Posting) { p.ExpiresAt = tp(testNow.Add(-time.Minute)) })
	future := posting("Open", func(p *job.Posting) { p.ExpiresAt = tp(testNow.Add(time.Hour)) })

	got := filterPool([]job.Posting{draft, expired, future}, Filter{})
	if len(got) != 1 || got[0].ID != future.ID {
		t.Fatalf("expected only the open posting, got %d", len(got))
	}
}

func TestMatches_FreeTextAndLocation(t *testing.T) {
	a := posting("Senior Backend Engineer", func(p *job.Posting) { p.Location = sp("Berlin, Germany") })
	b := posting("Designer", func(p *job.Posting) { p.Employer = sp("Backend Labs"); p.Location = sp("Paris") })
	c := posting("Accountant", func(p *job.Posting) { p.Description = "Works with our backend team" })
	d := posting("Cook")

	got := filterPool([]job.Posting{a, b, c, d}, Filter{Query: "BACKEND"})
	if len(got) != 3 {
		t.Fatalf("expected 3 free-text matches, got %d", len(got))
	}

	got = filterPool([]job.Posting{a, b, c, d}, Filter{Query: "backend", Location: "berlin"})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("expected location to narrow to 1, got %d", len(got))
	}
}

func TestMatches_FreeTextIgnoresSynonyms(t *testing.T) {
	goDev := posting("Go Developer", func(p *job.Posting) { p.Description = "Build services in Go." })
	golang := posting("Golang Engineer")

	got := filterPool([]job.Posting{goDev, golang}, Filter{Query: "golang"})
	if len(got) != 1 || got[0].ID != golang.ID {
		t.Fatalf("expected only the literal golang match, got %d", len(got))
	}

	got = filterPool([]job.Posting{goDev}, Filter{Query: "go  developer"})
	if len(got) != 0 {
		t.Fatalf("inner whitespace must be kept, got %d", len(got))
	}
}

func TestMatches_SalaryAndEnums(t *testing.T) {
	remoteHigh := posting("A", func(p *job.Posting) {
		p.WorkArrangement = wa(job.WorkRemote)
		p.SalaryMin = fp(60000)
		p.SalaryMax = fp(80000)
	})
	remoteLow := posting("B", func(p *job.Posting) { p.WorkArrangement = wa(job.WorkRemote); p.SalaryMax = fp(40000) })
	remoteUnknown := posting("C", func(p *job.Posting) { p.WorkArrangement = wa(job.WorkRemote) })
	onsite := posting("D", func(p *job.Posting) { p.WorkArrangement = wa(job.WorkOnsite); p.SalaryMin = fp(90000) })

	pool := []job.Posting{remoteHigh, remoteLow, remoteUnknown, onsite}
	got := filterPool(pool, Filter{WorkArrangement: "remote", SalaryMin: fp(50000)})
	if len(got) != 1 || got[0].ID != remoteHigh.ID {
		t.Fatalf("expected 1 match, got %d", len(got))
	}

	got = filterPool(pool, Filter{SalaryMax: fp(50000)})
	if len(got) != 1 || got[0].ID != remoteLow.ID {
		t.Fatalf("expected ceiling to keep only the low posting, got %d", len(got))
	}
}

func TestMatches_SkillsEmployerAndWindow(t *testing.T) {
	goJob := posting("Go dev", func(p *job.Posting) { p.RequiredSkills = []string{"Go", "gRPC"}; p.Employer = sp("Acme") })
	pyJob := posting("Py dev", func(p *job.Posting) { p.PreferredSkills = []string{"Python"}; p.Employer = sp("acme inc") })
	old := posting("Old", daysAgo(40), func(p *job.Posting) { p.RequiredSkills = []string{"python"} })

	pool := []job.Posting{goJob, pyJob, old}
	if got := filterPool(pool, Filter{Skills: []string{"python"}}); len(got) != 2 {
		t.Fatalf("expected 2 python postings, got %d", len(got))
	}
	if got := filterPool(pool, Filter{Skills: []string{"python"}, PostedWithinDays: 30}); len(got) != 1 {
		t.Fatalf("expected window to drop the old posting, got %d", len(got))
	}
	if got := filterPool(pool, Filter{Employer: "ACME"}); len(got) != 1 || got[0].ID != goJob.ID {
		t.Fatalf("expected exact employer match, got %d", len(got))
	}
}

func TestComputeFacets_FilteredPool(t *testing.T) {
	pool := []job.Posting{
		posting("A", func(p *job.Posting) { p.WorkArrangement = wa(job.WorkRemote); p.SalaryMin = fp(55000) }),
		posting("B", func(p *job.Posting) {
			p.WorkArrangement = wa(job.WorkRemote)
			p.SalaryMin = fp(60000)
			p.SalaryMax = fp(90000)
		}),
		posting("C", func(p *job.Posting) { p.WorkArrangement = wa(job.WorkRemote); p.SalaryMax = fp(200000) }),
		posting("D", func(p *job.Posting) { p.WorkArrangement = wa(job.WorkOnsite); p.SalaryMin = fp(70000) }),
		posting("E", func(p *job.Posting) { p.WorkArrangement = wa(job.WorkHybrid) }),
	}

	filtered := filterPool(pool, Filter{WorkArrangement: "remote", SalaryMin: fp(50000)})
	if len(filtered) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(filtered))
	}

	f := ComputeFacets(filtered)
	if len(f.WorkArrangements) != 1 || f.WorkArrangements[0] != (FacetValue{Value: "remote", Count: 3}) {
		t.Fatalf("unexpected work arrangement facet: %+v", f.WorkArrangements)
	}
	want := []FacetValue{{Value: "50k-75k", Count: 1}, {Value: "75k-100k", Count: 1}, {Value: "150k+", Count: 1}}
	if len(f.SalaryRanges) != len(want) {
		t.Fatalf("unexpected salary facet: %+v", f.SalaryRanges)
	}
	for i := range want {
		if f.SalaryRanges[i] != want[i] {
			t.Fatalf("salary bucket %d: expected %+v, got %+v", i, want[i], f.SalaryRanges[i])
		}
	}
}

func TestComputeFacets_CoverageAndOrdering(t *testing.T) {
	pool := []job.Posting{
		posting("1", func(p *job.Posting) {
			p.Location = sp("Berlin")
			p.Employer = sp("Acme")
			p.ExperienceTier = tier(job.TierMid)
		}),
		posting("2", func(p *job.Posting) { p.Location = sp("Berlin"); p.Employer = sp("Zed") }),
		posting("3", func(p *job.Posting) { p.Location = sp("Amsterdam"); p.CategoryID = sp("eng") }),
		posting("4", func(p *job.Posting) { p.Location = sp("  ") }),
		posting("5"),
	}

	f := ComputeFacets(pool)

	sum := func(vs []FacetValue) int {
		n := 0
		for _, v := range vs {
			n += v.Count
		}
		return n
	}
	if sum(f.Locations) != 3 || sum(f.Employers) != 2 || sum(f.Categories) != 1 || sum(f.ExperienceTiers) != 1 {
		t.Fatalf("facet counts do not cover non-null values: %+v", f)
	}
	if sum(f.SalaryRanges) != 0 || len(f.WorkArrangements) != 0 {
		t.Fatalf("expected empty salary and arrangement facets: %+v", f)
	}
	if f.Locations[0] != (FacetValue{Value: "Berlin", Count: 2}) || f.Locations[1].Value != "Amsterdam" {
		t.Fatalf("unexpected location order: %+v", f.Locations)
	}
	if f.Employers[0].Value != "Acme" || f.Employers[1].Value != "Zed" {
		t.Fatalf("expected ties broken by value: %+v", f.Employers)
	}
}

func TestComputeFacets_TopNCap(t *testing.T) {
	pool := make([]job.Posting, 0, 15)
	for i := 0; i < 15; i++ {
		loc := string(rune('A' + i))
		pool = append(pool, posting("x", func(p *job.Posting) { p.Location = sp(loc) }))
	}
	f := ComputeFacets(pool)
	if len(f.Locations) != FacetTopN {
		t.Fatalf("expected %d locations, got %d", FacetTopN, len(f.Locations))
	}
}

func TestTrendingScore_RecencyWins(t *testing.T) {
	recent := posting("recent", daysAgo(1), func(p *job.Posting) { p.ViewCount = 10; p.ApplicationCount = 2 })
	older := posting("older", daysAgo(10), func(p *job.Posting) { p.ViewCount = 10; p.ApplicationCount = 2 })

	if got := TrendingScore(recent, testNow); got < 5.2-1e-9 || got > 5.2+1e-9 {
		t.Fatalf("expected 5.2, got %v", got)
	}
	if got := TrendingScore(older, testNow); got < 4-1e-9 || got > 4+1e-9 {
		t.Fatalf("expected 4, got %v", got)
	}

	out := Trending([]job.Posting{older, recent}, 10, testNow)
	if len(out) != 2 || out[0].ID != recent.ID {
		t.Fatalf("expected recent posting first")
	}
}

func TestTrendingScore_NonIncreasingWithAge(t *testing.T) {
	prev := -1.0
	for d := 14; d >= 0; d-- {
		p := posting("p", daysAgo(d), func(p *job.Posting) { p.ViewCount = 3 })
		s := TrendingScore(p, testNow)
		if s < prev {
			t.Fatalf("score dropped for a more recent posting at %d days", d)
		}
		prev = s
	}
	noDate := posting("p", func(p *job.Posting) { p.PublishedAt = nil; p.ViewCount = 3 })
	if got := TrendingScore(noDate, testNow); got < 0.9-1e-9 || got > 0.9+1e-9 {
		t.Fatalf("expected no recency credit, got %v", got)
	}
}

func TestTrending_PublishedOnlyAndLimit(t *testing.T) {
	pool := []job.Posting{
		posting("a", func(p *job.Posting) { p.ViewCount = 100; p.Status = job.StatusClosed }),
		posting("b", func(p *job.Posting) { p.ViewCount = 5 }),
		posting("c", func(p *job.Posting) { p.ViewCount = 7 }),
		posting("d", func(p *job.Posting) { p.ViewCount = 1 }),
	}
	out := Trending(pool, 2, testNow)
	if len(out) != 2 || out[0].Title != "c" || out[1].Title != "b" {
		t.Fatalf("unexpected trending order: %+v", out)
	}
}

func TestFeatured_RequiresDataQuality(t *testing.T) {
	long := "This role builds the core matching platform, owns services end to end and mentors engineers across several teams."
	rich := posting("Rich", func(p *job.Posting) {
		p.Employer = sp("Acme")
		p.Location = sp("Berlin")
		p.Description = long
		p.SalaryMin = fp(50000)
	})
	thin := posting("Thin", func(p *job.Posting) { p.ViewCount = 1000 })

	out := Featured([]job.Posting{thin, rich}, 10, testNow)
	if len(out) != 1 || out[0].ID != rich.ID {
		t.Fatalf("expected only the rich posting, got %d", len(out))
	}
	if ComputeDataQuality(rich) != 5 {
		t.Fatalf("expected full data quality, got %v", ComputeDataQuality(rich))
	}
}

func TestSimilar_OrderingAndExclusion(t *testing.T) {
	src := posting("src", func(p *job.Posting) {
		p.CategoryID = sp("eng")
		p.RequiredSkills = []string{"Go", "SQL"}
		p.ExperienceTier = tier(job.TierSenior)
		p.WorkArrangement = wa(job.WorkRemote)
	})
	sameCat := posting("cat", daysAgo(5), func(p *job.Posting) { p.CategoryID = sp("eng") })
	sameSkill := posting("skill", daysAgo(1), func(p *job.Posting) { p.RequiredSkills = []string{"sql"} })
	tierOnlyNew := posting("tier-new", daysAgo(1), func(p *job.Posting) { p.ExperienceTier = tier(job.TierSenior) })
	tierOnlyOld := posting("tier-old", daysAgo(3), func(p *job.Posting) { p.ExperienceTier = tier(job.TierSenior) })
	unrelated := posting("none", func(p *job.Posting) { p.CategoryID = sp("sales") })

	out := Similar(src, []job.Posting{unrelated, tierOnlyOld, src, sameSkill, tierOnlyNew, sameCat}, 10)
	wantTitles := []string{"cat", "skill", "tier-new", "tier-old"}
	if len(out) != len(wantTitles) {
		t.Fatalf("expected %d similar postings, got %d", len(wantTitles), len(out))
	}
	for i, w := range wantTitles {
		if out[i].Title != w {
			t.Fatalf("position %d: expected %s, got %s", i, w, out[i].Title)
		}
	}

	if got := Similar(src, []job.Posting{sameCat, sameSkill, tierOnlyNew}, 2); len(got) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(got))
	}
}

func TestByEmployer(t *testing.T) {
	src := posting("src", func(p *job.Posting) { p.Employer = sp("Acme") })
	a := posting("a", daysAgo(3), func(p *job.Posting) { p.Employer = sp("acme") })
	b := posting("b", daysAgo(1), func(p *job.Posting) { p.Employer = sp("ACME ") })
	other := posting("c", func(p *job.Posting) { p.Employer = sp("Other") })

	out := ByEmployer(src, []job.Posting{src, a, other, b}, 5)
	if len(out) != 2 || out[0].ID != b.ID || out[1].ID != a.ID {
		t.Fatalf("unexpected employer postings: %+v", out)
	}
	if got := ByEmployer(posting("no employer"), []job.Posting{a, b}, 5); len(got) != 0 {
		t.Fatalf("expected nothing for an unknown employer")
	}
}

func TestSortPostings_RelevanceThenDate(t *testing.T) {
	titleHit := posting("Backend Engineer", daysAgo(6))
	descHit := posting("Engineer", daysAgo(6), func(p *job.Posting) { p.Description = "backend services" })

	items := []job.Posting{descHit, titleHit}
	f := Filter{Query: "backend"}
	SortPostings(items, f, f.Terms())
	if items[0].ID != titleHit.ID {
		t.Fatalf("expected title hit first")
	}

	older := posting("old", daysAgo(9))
	newer := posting("new", daysAgo(2))
	items = []job.Posting{older, newer}
	SortPostings(items, Filter{}, nil)
	if items[0].ID != newer.ID {
		t.Fatalf("expected newest first by default")
	}
	SortPostings(items, Filter{Sort: SortDate, Order: OrderAsc}, nil)
	if items[0].ID != older.ID {
		t.Fatalf("expected oldest first for ascending date")
	}
}

func TestProcessQuery(t *testing.T) {
	q := ProcessQuery("  Frontend!!  ")
	if q.Normalized != "frontend" {
		t.Fatalf("unexpected normalized query %q", q.Normalized)
	}
	if len(q.Variants) != 4 || q.Variants[1] != "front end" {
		t.Fatalf("unexpected variants: %v", q.Variants)
	}

	q = ProcessQuery("devops berlin")
	found := false
	for _, v := range q.Variants {
		if v == "sre berlin" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected prefix synonym expansion, got %v", q.Variants)
	}

	if q := ProcessQuery("C++ / Node.js"); q.Normalized != "c++ node.js" {
		t.Fatalf("expected skill symbols kept, got %q", q.Normalized)
	}
	if q := ProcessQuery("   "); len(q.Variants) != 0 {
		t.Fatalf("expected no variants for blank query")
	}
}
