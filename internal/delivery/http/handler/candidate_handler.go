package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/dto"
	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/middleware"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/response"
	"github.com/alexandra-producto/referal-program-sub001/internal/repository"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type CandidateHandler struct {
	candidates  repository.CandidateRepository
	experiences repository.ExperienceRepository
	pipeline    MatchPipeline
	cache       MatchCache
	log         *zap.Logger
}

func NewCandidateHandler(
	candidates repository.CandidateRepository,
	experiences repository.ExperienceRepository,
	pipeline MatchPipeline,
	matchCache MatchCache,
	logger *zap.Logger,
) *CandidateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateHandler{
		candidates:  candidates,
		experiences: experiences,
		pipeline:    pipeline,
		cache:       matchCache,
		log:         logger,
	}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}
	r.Post("/candidates", h.Create, auth)
	r.Get("/candidates", h.List, auth)
}

// Create stores a candidate with their experience history and optionally
// kicks off matching against every job.
func (h *CandidateHandler) Create(c fiber.Ctx) error {
	var req dto.CreateCandidateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "full_name is required", nil, nil)
	}

	exps := make([]repository.Experience, 0, len(req.Experiences))
	for _, e := range req.Experiences {
		start, err := parseDate(e.StartDate)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD", nil, err)
		}
		end, err := parseDate(e.EndDate)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD", nil, err)
		}
		exps = append(exps, repository.Experience{
			CompanyName: e.CompanyName,
			RoleTitle:   e.RoleTitle,
			StartDate:   start,
			EndDate:     end,
			Location:    e.Location,
			Description: e.Description,
			Source:      e.Source,
		})
	}

	id, err := h.candidates.Insert(c.Context(), repository.Candidate{
		FullName:        req.FullName,
		Email:           req.Email,
		LinkedinURL:     req.LinkedinURL,
		CurrentJobTitle: req.CurrentJobTitle,
		CurrentCompany:  req.CurrentCompany,
		Industry:        req.Industry,
		Seniority:       req.Seniority,
		Country:         req.Country,
	})
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	for _, e := range exps {
		e.CandidateID = id
		if _, err := h.experiences.Insert(c.Context(), e); err != nil {
			return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
	}

	if req.TriggerMatching {
		_ = h.cache.InvalidateAllJobMatches(c.Context())
		go func() {
			if _, err := h.pipeline.MatchCandidateWithAllJobs(context.Background(), id); err != nil {
				h.log.Error("candidate matching run failed", zap.String("candidate_id", id.String()), zap.Error(err))
			}
		}()
	}

	return response.Success(c, fiber.StatusCreated, "", dto.CandidateResponse{
		ID:              id.String(),
		FullName:        req.FullName,
		CurrentJobTitle: req.CurrentJobTitle,
		CurrentCompany:  req.CurrentCompany,
		Industry:        req.Industry,
		Seniority:       req.Seniority,
		Country:         req.Country,
	})
}

func (h *CandidateHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	candidates, err := h.candidates.List(c.Context(), limit, offset)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	out := make([]dto.CandidateResponse, 0, len(candidates))
	for _, cd := range candidates {
		out = append(out, dto.CandidateResponse{
			ID:              cd.ID.String(),
			FullName:        cd.FullName,
			CurrentJobTitle: cd.CurrentJobTitle,
			CurrentCompany:  cd.CurrentCompany,
			Industry:        cd.Industry,
			Seniority:       cd.Seniority,
			Country:         cd.Country,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
