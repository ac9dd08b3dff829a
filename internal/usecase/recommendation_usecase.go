package usecase

import (
	"context"

	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
)

type RecommendationParams struct {
	Limit            int
	MinScore         int
	Semantic         bool
	IncludeSkillGaps bool
}

type RecommendationUsecase interface {
	GetRecommendations(ctx context.Context, candidateID uuid.UUID, params RecommendationParams) ([]matching.MatchResult, error)
}

type Recommendations struct {
	rec      *Recommender
	semantic *SemanticMatcher
}

func NewRecommendationUsecase(rec *Recommender, semantic *SemanticMatcher) *Recommendations {
	return &Recommendations{rec: rec, semantic: semantic}
}

func (u *Recommendations) GetRecommendations(ctx context.Context, candidateID uuid.UUID, params RecommendationParams) ([]matching.MatchResult, error) {
	if candidateID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	limit := params.Limit
	if limit == 0 {
		limit = DefaultRecommendationLimit
	}
	if limit < 0 || limit > MaxRecommendationLimit {
		return nil, invalid("limit", "must be between 1 and 50")
	}
	if params.MinScore < 0 || params.MinScore > 100 {
		return nil, invalid("min_score", "must be between 0 and 100")
	}

	if params.Semantic && u.semantic != nil {
		out, err := u.semantic.Analyze(ctx, candidateID, MaxRecommendationLimit, params.IncludeSkillGaps)
		if err != nil {
			return nil, err
		}
		out = filterMinScore(out, params.MinScore)
		if len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	}

	return u.rec.Recommend(ctx, candidateID, RecommendParams{
		Limit:            limit,
		MinScore:         params.MinScore,
		IncludeSkillGaps: params.IncludeSkillGaps,
	})
}
