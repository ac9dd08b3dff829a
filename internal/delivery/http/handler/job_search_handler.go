package handler

import (
	"jobmatch/internal/delivery/http/dto"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/pkg/response"
	"jobmatch/internal/search"
	"jobmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobSearchHandler struct {
	uc usecase.JobSearchUsecase
}

func NewJobSearchHandler(uc usecase.JobSearchUsecase) *JobSearchHandler {
	return &JobSearchHandler{uc: uc}
}

// RegisterRoutes expects r to carry the optional auth middleware.
func (h *JobSearchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/search", h.Search)
}

func (h *JobSearchHandler) Search(c fiber.Ctx) error {
	params, err := searchParamsFromQuery(c)
	if err != nil {
		return err
	}
	if id, ok := middleware.CandidateID(c); ok {
		params.CandidateID = &id
	}

	res, err := h.uc.Search(c.Context(), params)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSearchResponse(res))
}

func searchParamsFromQuery(c fiber.Ctx) (usecase.SearchParams, error) {
	f := search.Filter{
		Query:           c.Query("q"),
		Location:        c.Query("location"),
		Employer:        c.Query("employer"),
		WorkArrangement: c.Query("work_arrangement"),
		EmploymentType:  c.Query("employment_type"),
		ExperienceTier:  c.Query("experience_tier"),
		CategoryID:      c.Query("category_id"),
		Skills:          queryList(c, "skills"),
		Sort:            search.SortKey(c.Query("sort")),
		Order:           search.SortOrder(c.Query("order")),
	}

	var err error
	if f.SalaryMin, err = queryFloat(c, "salary_min"); err != nil {
		return usecase.SearchParams{}, err
	}
	if f.SalaryMax, err = queryFloat(c, "salary_max"); err != nil {
		return usecase.SearchParams{}, err
	}
	if f.PostedWithinDays, err = queryInt(c, "posted_within_days"); err != nil {
		return usecase.SearchParams{}, err
	}

	page, err := queryInt(c, "page")
	if err != nil {
		return usecase.SearchParams{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return usecase.SearchParams{}, err
	}
	return usecase.SearchParams{Filter: f, Page: page, Limit: limit}, nil
}
