package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/delivery/http/middleware"
	"github.com/alexandra-producto/referal-program-sub001/internal/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubJobRepo struct {
	jobs map[uuid.UUID]repository.Job
}

func (s *stubJobRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return repository.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (s *stubJobRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) { return nil, nil }

func (s *stubJobRepo) List(ctx context.Context, limit, offset int) ([]repository.Job, error) {
	return nil, nil
}

func (s *stubJobRepo) Insert(ctx context.Context, job repository.Job) (uuid.UUID, error) {
	return job.ID, nil
}

type stubCandidateRepo struct {
	candidates map[uuid.UUID]repository.Candidate
}

func (s *stubCandidateRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Candidate, error) {
	c, ok := s.candidates[id]
	if !ok {
		return repository.Candidate{}, repository.ErrCandidateNotFound
	}
	return c, nil
}

func (s *stubCandidateRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) { return nil, nil }

func (s *stubCandidateRepo) List(ctx context.Context, limit, offset int) ([]repository.Candidate, error) {
	return nil, nil
}

func (s *stubCandidateRepo) Insert(ctx context.Context, c repository.Candidate) (uuid.UUID, error) {
	return c.ID, nil
}

type stubMatchRepo struct{}

func (stubMatchRepo) Upsert(ctx context.Context, up repository.MatchUpsert) error { return nil }

func (stubMatchRepo) ListByJobID(ctx context.Context, jobID uuid.UUID) ([]repository.JobMatch, error) {
	return nil, nil
}

type stubPipeline struct {
	mu sync.Mutex
}

func (s *stubPipeline) MatchJobWithAllCandidates(ctx context.Context, jobID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 0, nil
}

func (s *stubPipeline) MatchCandidateWithAllJobs(ctx context.Context, candidateID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 0, nil
}

type noopCache struct{}

func (noopCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	return false, nil
}

func (noopCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (noopCache) InvalidateJobMatches(ctx context.Context, jobID uuid.UUID) error { return nil }

func (noopCache) InvalidateAllJobMatches(ctx context.Context) error { return nil }

func newTriggerApp(t *testing.T, jobID, candID uuid.UUID) (*fiber.App, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	h := NewMatchHandler(
		&stubPipeline{},
		&stubJobRepo{jobs: map[uuid.UUID]repository.Job{jobID: {ID: jobID}}},
		&stubCandidateRepo{candidates: map[uuid.UUID]repository.Candidate{candID: {ID: candID}}},
		stubMatchRepo{},
		noopCache{},
		zap.New(core),
	)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(zap.NewNop()).Middleware())
	asAdmin := func(c fiber.Ctx) error {
		c.Locals(middleware.CtxEmailKey, "ana@example.com")
		return c.Next()
	}
	h.RegisterRoutes(app, asAdmin)

	return app, logs
}

func TestTriggerJobMatch_AuditsAdmin(t *testing.T) {
	jobID := uuid.New()
	app, logs := newTriggerApp(t, jobID, uuid.New())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/jobs/"+jobID.String()+"/match", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status=%d, want 202", resp.StatusCode)
	}

	entries := logs.FilterMessage("job matching run triggered").All()
	if len(entries) != 1 {
		t.Fatalf("expected one trigger log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["admin"] != "ana@example.com" {
		t.Fatalf("admin=%v, want the authenticated email", fields["admin"])
	}
	if fields["job_id"] != jobID.String() {
		t.Fatalf("job_id=%v, want %s", fields["job_id"], jobID)
	}
}

func TestTriggerCandidateMatch_AuditsAdmin(t *testing.T) {
	candID := uuid.New()
	app, logs := newTriggerApp(t, uuid.New(), candID)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/candidates/"+candID.String()+"/match", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status=%d, want 202", resp.StatusCode)
	}

	entries := logs.FilterMessage("candidate matching run triggered").All()
	if len(entries) != 1 {
		t.Fatalf("expected one trigger log, got %d", len(entries))
	}
	if fields := entries[0].ContextMap(); fields["admin"] != "ana@example.com" {
		t.Fatalf("admin=%v, want the authenticated email", fields["admin"])
	}
}

func TestTriggerJobMatch_UnknownJob(t *testing.T) {
	app, logs := newTriggerApp(t, uuid.New(), uuid.New())

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/jobs/"+uuid.New().String()+"/match", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.StatusCode)
	}
	if got := logs.FilterMessage("job matching run triggered").Len(); got != 0 {
		t.Fatalf("unknown job must not log a trigger, got %d entries", got)
	}
}
