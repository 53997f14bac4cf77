package handler

import (
	"errors"

	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/dto"
	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/middleware"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/reflink"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/response"
	"github.com/alexandra-producto/referal-program-sub001/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ReflinkHandler struct {
	signer  *reflink.Signer
	baseURL string
	jobs    repository.JobRepository
}

func NewReflinkHandler(signer *reflink.Signer, baseURL string, jobs repository.JobRepository) *ReflinkHandler {
	return &ReflinkHandler{signer: signer, baseURL: baseURL, jobs: jobs}
}

func (h *ReflinkHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}
	r.Post("/hyperconnectors/:hci_id/links", h.CreateLink, auth)
	r.Get("/recommend/:token", h.Resolve)
}

// CreateLink mints a shareable recommendation link binding a hyperconnector
// to a job.
func (h *ReflinkHandler) CreateLink(c fiber.Ctx) error {
	hciID, err := uuid.Parse(c.Params("hci_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid hyperconnector id", nil, err)
	}

	var req dto.CreateLinkRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	if _, err := h.jobs.GetByID(c.Context(), jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	token := h.signer.Generate(hciID, jobID)

	return response.Success(c, fiber.StatusCreated, "", dto.LinkResponse{
		Token: token,
		URL:   reflink.BuildURL(h.baseURL, token),
	})
}

// Resolve validates a recommendation token and returns the job it points at.
func (h *ReflinkHandler) Resolve(c fiber.Ctx) error {
	link, err := h.signer.Validate(c.Params("token"))
	if err != nil {
		switch {
		case errors.Is(err, reflink.ErrTokenExpired):
			return middleware.NewAppError(fiber.StatusGone, "Recommendation link expired", nil, err)
		case errors.Is(err, reflink.ErrTokenForged):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid recommendation link", nil, err)
		default:
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid recommendation link", nil, err)
		}
	}

	job, err := h.jobs.GetByID(c.Context(), link.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
		}
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RecommendationResponse{
		HyperconnectorID: link.HyperconnectorID.String(),
		Job: dto.JobResponse{
			ID:          job.ID.String(),
			CompanyName: job.CompanyName,
			JobTitle:    job.JobTitle,
			JobLevel:    job.JobLevel,
			Location:    job.Location,
			RemoteOK:    job.RemoteOK,
		},
		IssuedAt: link.IssuedAt,
	})
}
