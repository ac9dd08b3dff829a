package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type WorkArrangement string

const (
	WorkRemote WorkArrangement = "remote"
	WorkHybrid WorkArrangement = "hybrid"
	WorkOnsite WorkArrangement = "onsite"
)

var WorkArrangements = []WorkArrangement{WorkRemote, WorkHybrid, WorkOnsite}

func (w WorkArrangement) Valid() bool {
	switch w {
	case WorkRemote, WorkHybrid, WorkOnsite:
		return true
	}
	return false
}

// ExperienceTier is ordered entry < mid < senior < executive.
type ExperienceTier string

const (
	TierEntry     ExperienceTier = "entry"
	TierMid       ExperienceTier = "mid"
	TierSenior    ExperienceTier = "senior"
	TierExecutive ExperienceTier = "executive"
)

var ExperienceTiers = []ExperienceTier{TierEntry, TierMid, TierSenior, TierExecutive}

// Rank returns the ordinal of the tier, or -1 when the tier is unknown.
func (t ExperienceTier) Rank() int {
	switch t {
	case TierEntry:
		return 0
	case TierMid:
		return 1
	case TierSenior:
		return 2
	case TierExecutive:
		return 3
	}
	return -1
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusPaused    Status = "paused"
	StatusClosed    Status = "closed"
	StatusExpired   Status = "expired"
)

type Posting struct {
	ID               uuid.UUID
	Title            string
	Description      string
	Employer         *string
	Location         *string
	WorkArrangement  *WorkArrangement
	EmploymentType   *string
	ExperienceTier   *ExperienceTier
	SalaryMin        *float64
	SalaryMax        *float64
	SalaryCurrency   *string
	CategoryID       *string
	RequiredSkills   []string
	PreferredSkills  []string
	Status           Status
	ViewCount        int
	ApplicationCount int
	PublishedAt      *time.Time
	ExpiresAt        *time.Time
	CreatedAt        time.Time
}

// Eligible reports whether the posting may appear in search or recommendations.
func (p Posting) Eligible(now time.Time) bool {
	if p.Status != StatusPublished {
		return false
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	return true
}

func (p Posting) EmployerName() string {
	return deref(p.Employer)
}

func (p Posting) LocationName() string {
	return deref(p.Location)
}

// Recency is the publish time, falling back to creation time.
func (p Posting) Recency() time.Time {
	if p.PublishedAt != nil && !p.PublishedAt.IsZero() {
		return *p.PublishedAt
	}
	return p.CreatedAt
}

// HasSalary reports whether at least one salary bound is known.
func (p Posting) HasSalary() bool {
	return p.SalaryMin != nil || p.SalaryMax != nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
