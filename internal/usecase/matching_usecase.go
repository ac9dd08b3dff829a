package usecase

import (
	"context"

	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
)

type MatchingUsecase interface {
	CalculateMatch(ctx context.Context, candidateID, jobID uuid.UUID, includeSkillGaps bool) (matching.MatchResult, error)
}

type Matching struct {
	rec *Recommender
}

func NewMatchingUsecase(rec *Recommender) *Matching {
	return &Matching{rec: rec}
}

// CalculateMatch explains one (candidate, posting) pair with the local scorer.
// The posting does not need to be eligible.
func (u *Matching) CalculateMatch(ctx context.Context, candidateID, jobID uuid.UUID, includeSkillGaps bool) (matching.MatchResult, error) {
	if jobID == uuid.Nil {
		return matching.MatchResult{}, ErrJobNotFound
	}
	cc, err := u.rec.LoadCandidate(ctx, candidateID)
	if err != nil {
		return matching.MatchResult{}, err
	}
	p, err := u.rec.store.GetJob(ctx, jobID)
	if err != nil {
		return matching.MatchResult{}, storeErr("get job", err)
	}
	return u.rec.scorer.Explain(cc.ScoringProfile(), p, includeSkillGaps), nil
}
