package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alexandra-producto/referal-program-sub001/internal/repository"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	jobs map[uuid.UUID]repository.Job
	err  error
}

func (m *mockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Job, error) {
	if m.err != nil {
		return repository.Job{}, m.err
	}
	j, ok := m.jobs[id]
	if !ok {
		return repository.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (m *mockJobRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(m.jobs))
	for id := range m.jobs {
		out = append(out, id)
	}
	return out, nil
}

func (m *mockJobRepo) List(ctx context.Context, limit, offset int) ([]repository.Job, error) {
	return nil, nil
}

func (m *mockJobRepo) Insert(ctx context.Context, job repository.Job) (uuid.UUID, error) {
	return job.ID, nil
}

type mockCandidateRepo struct {
	candidates map[uuid.UUID]repository.Candidate
}

func (m *mockCandidateRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Candidate, error) {
	c, ok := m.candidates[id]
	if !ok {
		return repository.Candidate{}, repository.ErrCandidateNotFound
	}
	return c, nil
}

func (m *mockCandidateRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(m.candidates))
	for id := range m.candidates {
		out = append(out, id)
	}
	return out, nil
}

func (m *mockCandidateRepo) List(ctx context.Context, limit, offset int) ([]repository.Candidate, error) {
	return nil, nil
}

func (m *mockCandidateRepo) Insert(ctx context.Context, c repository.Candidate) (uuid.UUID, error) {
	return c.ID, nil
}

type mockExperienceRepo struct {
	byCandidate map[uuid.UUID][]repository.Experience
}

func (m *mockExperienceRepo) ListByCandidateID(ctx context.Context, id uuid.UUID) ([]repository.Experience, error) {
	return m.byCandidate[id], nil
}

func (m *mockExperienceRepo) Insert(ctx context.Context, exp repository.Experience) (uuid.UUID, error) {
	return exp.ID, nil
}

type pairKey struct {
	jobID       uuid.UUID
	candidateID uuid.UUID
}

type mockMatchRepo struct {
	upserts map[pairKey]repository.MatchUpsert
	calls   int
	err     error
}

func newMockMatchRepo() *mockMatchRepo {
	return &mockMatchRepo{upserts: make(map[pairKey]repository.MatchUpsert)}
}

func (m *mockMatchRepo) Upsert(ctx context.Context, up repository.MatchUpsert) error {
	if m.err != nil {
		return m.err
	}
	m.calls++
	m.upserts[pairKey{up.JobID, up.CandidateID}] = up
	return nil
}

func (m *mockMatchRepo) ListByJobID(ctx context.Context, jobID uuid.UUID) ([]repository.JobMatch, error) {
	return nil, nil
}

func fixtureUsecase() (*Matching, uuid.UUID, uuid.UUID, *mockMatchRepo) {
	jobID := uuid.New()
	candID := uuid.New()

	jobs := &mockJobRepo{jobs: map[uuid.UUID]repository.Job{
		jobID: {ID: jobID, CompanyName: "Rides Co", JobTitle: "Senior PM", JobLevel: "senior"},
	}}
	cands := &mockCandidateRepo{candidates: map[uuid.UUID]repository.Candidate{
		candID: {ID: candID, FullName: "Maria Lopez", Seniority: "senior", Country: "Mexico"},
	}}
	exps := &mockExperienceRepo{byCandidate: map[uuid.UUID][]repository.Experience{
		candID: {{RoleTitle: "Senior Product Manager", CompanyName: "Acme SaaS"}},
	}}
	matches := newMockMatchRepo()

	return NewMatchingUsecase(jobs, cands, exps, matches), jobID, candID, matches
}

func TestMatchJobCandidate_PersistsResult(t *testing.T) {
	uc, jobID, candID, matches := fixtureUsecase()

	res, err := uc.MatchJobCandidate(context.Background(), jobID, candID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, ok := matches.upserts[pairKey{jobID, candID}]
	if !ok {
		t.Fatalf("expected an upsert for the pair")
	}
	if stored.Score != res.Score {
		t.Fatalf("stored score %v != returned score %v", stored.Score, res.Score)
	}
	if stored.Source != repository.MatchSourceAuto {
		t.Fatalf("source=%q, want %q", stored.Source, repository.MatchSourceAuto)
	}

	var detail map[string]any
	if err := json.Unmarshal(stored.Detail, &detail); err != nil {
		t.Fatalf("stored detail is not valid json: %v", err)
	}
	if _, ok := detail["components"]; !ok {
		t.Fatalf("stored detail missing components: %v", detail)
	}
}

func TestMatchJobCandidate_Idempotent(t *testing.T) {
	uc, jobID, candID, matches := fixtureUsecase()

	first, err := uc.MatchJobCandidate(context.Background(), jobID, candID)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := uc.MatchJobCandidate(context.Background(), jobID, candID)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Score != second.Score {
		t.Fatalf("scores differ across runs: %v vs %v", first.Score, second.Score)
	}
	if len(matches.upserts) != 1 {
		t.Fatalf("expected a single row per pair, got %d", len(matches.upserts))
	}
	if matches.calls != 2 {
		t.Fatalf("expected 2 upsert calls, got %d", matches.calls)
	}
}

func TestMatchJobCandidate_JobNotFound(t *testing.T) {
	uc, _, candID, _ := fixtureUsecase()

	_, err := uc.MatchJobCandidate(context.Background(), uuid.New(), candID)
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("got %v, want ErrJobNotFound", err)
	}
}

func TestMatchJobCandidate_CandidateNotFound(t *testing.T) {
	uc, jobID, _, _ := fixtureUsecase()

	_, err := uc.MatchJobCandidate(context.Background(), jobID, uuid.New())
	if !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("got %v, want ErrCandidateNotFound", err)
	}
}

func TestMatchJobCandidate_NilIDs(t *testing.T) {
	uc, jobID, candID, _ := fixtureUsecase()

	if _, err := uc.MatchJobCandidate(context.Background(), uuid.Nil, candID); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("nil job id: got %v, want ErrJobNotFound", err)
	}
	if _, err := uc.MatchJobCandidate(context.Background(), jobID, uuid.Nil); !errors.Is(err, ErrCandidateNotFound) {
		t.Fatalf("nil candidate id: got %v, want ErrCandidateNotFound", err)
	}
}

func TestMatchJobCandidate_UpsertFailure(t *testing.T) {
	uc, jobID, candID, matches := fixtureUsecase()
	matches.err = errors.New("pq: disk quota exceeded")

	_, err := uc.MatchJobCandidate(context.Background(), jobID, candID)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("got %v, want ErrInternal", err)
	}
	if !strings.Contains(err.Error(), "pq: disk quota exceeded") {
		t.Fatalf("error %q lost the upsert cause", err)
	}
}

func TestMatchJobCandidate_FetchFailureKeepsCause(t *testing.T) {
	uc, jobID, candID, _ := fixtureUsecase()
	uc.jobs.(*mockJobRepo).err = errors.New("connection reset by peer")

	_, err := uc.MatchJobCandidate(context.Background(), jobID, candID)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("got %v, want ErrInternal", err)
	}
	if errors.Is(err, ErrJobNotFound) {
		t.Fatalf("repo outage must not read as a missing job: %v", err)
	}
	if !strings.Contains(err.Error(), "connection reset by peer") {
		t.Fatalf("error %q lost the fetch cause", err)
	}
}
