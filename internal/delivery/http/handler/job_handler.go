package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/dto"
	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/middleware"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/response"
	"github.com/alexandra-producto/referal-program-sub001/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JobHandler struct {
	jobs     repository.JobRepository
	pipeline MatchPipeline
	log      *zap.Logger
}

func NewJobHandler(jobs repository.JobRepository, pipeline MatchPipeline, logger *zap.Logger) *JobHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobHandler{jobs: jobs, pipeline: pipeline, log: logger}
}

func (h *JobHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}
	r.Post("/jobs", h.Create, auth)
	r.Get("/jobs", h.List)
	r.Get("/jobs/:job_id", h.Get)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	if strings.TrimSpace(req.CompanyName) == "" || strings.TrimSpace(req.JobTitle) == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "company_name and job_title are required", nil, nil)
	}

	id, err := h.jobs.Insert(c.Context(), repository.Job{
		CompanyName:  req.CompanyName,
		JobTitle:     req.JobTitle,
		JobLevel:     req.JobLevel,
		Location:     req.Location,
		RemoteOK:     req.RemoteOK,
		Description:  req.Description,
		Requirements: req.Requirements,
	})
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	if req.TriggerMatching {
		go func() {
			if _, err := h.pipeline.MatchJobWithAllCandidates(context.Background(), id); err != nil {
				h.log.Error("job matching run failed", zap.String("job_id", id.String()), zap.Error(err))
			}
		}()
	}

	return response.Success(c, fiber.StatusCreated, "", dto.JobResponse{
		ID:          id.String(),
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		JobLevel:    req.JobLevel,
		Location:    req.Location,
		RemoteOK:    req.RemoteOK,
	})
}

func (h *JobHandler) List(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	jobs, err := h.jobs.List(c.Context(), limit, offset)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	out := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, dto.JobResponse{
			ID:          j.ID.String(),
			CompanyName: j.CompanyName,
			JobTitle:    j.JobTitle,
			JobLevel:    j.JobLevel,
			Location:    j.Location,
			RemoteOK:    j.RemoteOK,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	j, err := h.jobs.GetByID(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.JobResponse{
		ID:          j.ID.String(),
		CompanyName: j.CompanyName,
		JobTitle:    j.JobTitle,
		JobLevel:    j.JobLevel,
		Location:    j.Location,
		RemoteOK:    j.RemoteOK,
	})
}
