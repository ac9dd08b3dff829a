package handler

import (
	"strings"

	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	recommendations usecase.RecommendationUsecase
	matching        usecase.MatchingUsecase
	skillGaps       usecase.SkillGapUsecase
	validate        *validator.Validate
}

func NewRecommendationHandler(rec usecase.RecommendationUsecase, match usecase.MatchingUsecase, gaps usecase.SkillGapUsecase) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: rec,
		matching:        match,
		skillGaps:       gaps,
		validate:        validator.New(),
	}
}

// RegisterRoutes expects r to carry the required auth middleware.
func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/recommendations", h.GetRecommendations)
	r.Post("/jobs/skill-gaps", h.AnalyzeSkillGaps)
	r.Get("/jobs/:id/match", h.GetMatch)
}

func (h *RecommendationHandler) GetRecommendations(c fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	minScore, err := queryInt(c, "min_score")
	if err != nil {
		return err
	}
	semantic, err := queryBool(c, "semantic")
	if err != nil {
		return err
	}
	includeGaps, err := queryBool(c, "include_skill_gaps")
	if err != nil {
		return err
	}

	items, err := h.recommendations.GetRecommendations(c.Context(), candidateID, usecase.RecommendationParams{
		Limit:            limit,
		MinScore:         minScore,
		Semantic:         semantic,
		IncludeSkillGaps: includeGaps,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponses(items))
}

func (h *RecommendationHandler) GetMatch(c fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	includeGaps, err := queryBool(c, "include_skill_gaps")
	if err != nil {
		return err
	}

	res, err := h.matching.CalculateMatch(c.Context(), candidateID, jobID, includeGaps)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(res))
}

func (h *RecommendationHandler) AnalyzeSkillGaps(c fiber.Ctx) error {
	candidateID, ok := middleware.CandidateID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.SkillGapRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest("job_ids", "must hold between 1 and 10 job ids", err)
	}

	ids := make([]uuid.UUID, 0, len(req.JobIDs))
	for _, raw := range req.JobIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return badRequest("job_ids", "must be uuids", err)
		}
		ids = append(ids, id)
	}

	report, err := h.skillGaps.AnalyzeSkillGaps(c.Context(), candidateID, ids)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, report)
}
