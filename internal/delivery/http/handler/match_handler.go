package handler

import (
	"context"
	"errors"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/dto"
	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/middleware"
	"github.com/alexandra-producto/referal-program-sub001/internal/infrastructure/cache"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/response"
	"github.com/alexandra-producto/referal-program-sub001/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchPipeline is the batch orchestrator surface the trigger endpoints need.
type MatchPipeline interface {
	MatchJobWithAllCandidates(ctx context.Context, jobID uuid.UUID) (int, error)
	MatchCandidateWithAllJobs(ctx context.Context, candidateID uuid.UUID) (int, error)
}

// MatchCache is satisfied by the redis cache; a nil-client cache degrades to
// no-ops.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateJobMatches(ctx context.Context, jobID uuid.UUID) error
	InvalidateAllJobMatches(ctx context.Context) error
}

type MatchHandler struct {
	pipeline   MatchPipeline
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	matches    repository.MatchRepository
	cache      MatchCache
	log        *zap.Logger
}

func NewMatchHandler(
	pipeline MatchPipeline,
	jobs repository.JobRepository,
	candidates repository.CandidateRepository,
	matches repository.MatchRepository,
	matchCache MatchCache,
	logger *zap.Logger,
) *MatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchHandler{
		pipeline:   pipeline,
		jobs:       jobs,
		candidates: candidates,
		matches:    matches,
		cache:      matchCache,
		log:        logger,
	}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}
	r.Post("/jobs/:job_id/match", h.TriggerJobMatch, auth)
	r.Post("/candidates/:candidate_id/match", h.TriggerCandidateMatch, auth)
	r.Get("/jobs/:job_id/matches", h.ListJobMatches, auth)
}

// TriggerJobMatch starts a full matching run for one job in the background
// and answers immediately.
func (h *MatchHandler) TriggerJobMatch(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	if _, err := h.jobs.GetByID(c.Context(), jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	_ = h.cache.InvalidateJobMatches(c.Context(), jobID)

	h.log.Info("job matching run triggered",
		zap.String("job_id", jobID.String()),
		zap.String("admin", adminEmail(c)))

	go func() {
		if _, err := h.pipeline.MatchJobWithAllCandidates(context.Background(), jobID); err != nil {
			h.log.Error("job matching run failed", zap.String("job_id", jobID.String()), zap.Error(err))
		}
	}()

	return response.Success(c, fiber.StatusAccepted, "", dto.MatchTriggerResponse{Status: "started"})
}

// TriggerCandidateMatch starts the reverse direction: one candidate against
// every job.
func (h *MatchHandler) TriggerCandidateMatch(c fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	if _, err := h.candidates.GetByID(c.Context(), candidateID); err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	// A candidate run can touch every job's listing.
	_ = h.cache.InvalidateAllJobMatches(c.Context())

	h.log.Info("candidate matching run triggered",
		zap.String("candidate_id", candidateID.String()),
		zap.String("admin", adminEmail(c)))

	go func() {
		if _, err := h.pipeline.MatchCandidateWithAllJobs(context.Background(), candidateID); err != nil {
			h.log.Error("candidate matching run failed", zap.String("candidate_id", candidateID.String()), zap.Error(err))
		}
	}()

	return response.Success(c, fiber.StatusAccepted, "", dto.MatchTriggerResponse{Status: "started"})
}

// adminEmail reads the identity the auth middleware stored for this request.
func adminEmail(c fiber.Ctx) string {
	email, _ := c.Locals(middleware.CtxEmailKey).(string)
	return email
}

func (h *MatchHandler) ListJobMatches(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	key := cache.JobMatchesKey(jobID)
	var cached []dto.JobMatchResponse
	if hit, err := h.cache.GetJSON(c.Context(), key, &cached); err == nil && hit {
		return response.Success(c, fiber.StatusOK, response.MessageOK, cached)
	}

	if _, err := h.jobs.GetByID(c.Context(), jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	matches, err := h.matches.ListByJobID(c.Context(), jobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	out := make([]dto.JobMatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, dto.JobMatchResponse{
			CandidateID:   m.CandidateID.String(),
			CandidateName: m.CandidateName,
			MatchScore:    m.Score,
			MatchDetail:   m.Detail,
			MatchSource:   m.Source,
			UpdatedAt:     m.UpdatedAt,
		})
	}

	_ = h.cache.SetJSON(c.Context(), key, out, 0)

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
