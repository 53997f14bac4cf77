package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexandra-producto/referal-program-sub001/internal/domain/matching"
	"github.com/alexandra-producto/referal-program-sub001/internal/repository"

	"github.com/google/uuid"
)

type recordedPair struct {
	jobID       uuid.UUID
	candidateID uuid.UUID
}

type mockMatcher struct {
	mu      sync.Mutex
	calls   []recordedPair
	failing map[uuid.UUID]bool
}

func (m *mockMatcher) MatchJobCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (matching.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, recordedPair{jobID, candidateID})
	m.mu.Unlock()

	if m.failing[jobID] || m.failing[candidateID] {
		return matching.Result{}, errors.New("candidate not found")
	}
	return matching.Result{Score: 50}, nil
}

func (m *mockMatcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type mockIDLister struct {
	jobIDs []uuid.UUID
	err    error
}

func (m *mockIDLister) GetByID(ctx context.Context, id uuid.UUID) (repository.Job, error) {
	return repository.Job{}, repository.ErrJobNotFound
}

func (m *mockIDLister) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.jobIDs, nil
}

func (m *mockIDLister) List(ctx context.Context, limit, offset int) ([]repository.Job, error) {
	return nil, nil
}

func (m *mockIDLister) Insert(ctx context.Context, job repository.Job) (uuid.UUID, error) {
	return job.ID, nil
}

type mockCandidateLister struct {
	ids []uuid.UUID
	err error
}

func (m *mockCandidateLister) GetByID(ctx context.Context, id uuid.UUID) (repository.Candidate, error) {
	return repository.Candidate{}, repository.ErrCandidateNotFound
}

func (m *mockCandidateLister) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ids, nil
}

func (m *mockCandidateLister) List(ctx context.Context, limit, offset int) ([]repository.Candidate, error) {
	return nil, nil
}

func (m *mockCandidateLister) Insert(ctx context.Context, c repository.Candidate) (uuid.UUID, error) {
	return c.ID, nil
}

type progressEvent struct {
	direction string
	processed int
	total     int
	succeeded int
	failed    int
	completed bool
}

type mockNotifier struct {
	mu     sync.Mutex
	events []progressEvent
}

func (m *mockNotifier) MatchProgress(direction string, id uuid.UUID, processed, total, succeeded, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, progressEvent{direction, processed, total, succeeded, failed, false})
}

func (m *mockNotifier) MatchCompleted(direction string, id uuid.UUID, total, succeeded, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, progressEvent{direction, total, total, succeeded, failed, true})
}

func newIDs(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestMatchJobWithAllCandidates_AllSucceed(t *testing.T) {
	jobID := uuid.New()
	candidateIDs := newIDs(25)

	matcher := &mockMatcher{}
	p := NewMatchPipeline(matcher, &mockIDLister{}, &mockCandidateLister{ids: candidateIDs}, nil, nil)

	succeeded, err := p.MatchJobWithAllCandidates(context.Background(), jobID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if succeeded != 25 {
		t.Fatalf("succeeded=%d, want 25", succeeded)
	}
	if matcher.callCount() != 25 {
		t.Fatalf("calls=%d, want 25", matcher.callCount())
	}

	for _, call := range matcher.calls {
		if call.jobID != jobID {
			t.Fatalf("pair scored against wrong job: %v", call.jobID)
		}
	}
}

func TestMatchJobWithAllCandidates_FailureIsolation(t *testing.T) {
	jobID := uuid.New()
	candidateIDs := newIDs(10)

	failing := map[uuid.UUID]bool{
		candidateIDs[1]: true,
		candidateIDs[4]: true,
		candidateIDs[9]: true,
	}
	matcher := &mockMatcher{failing: failing}
	p := NewMatchPipeline(matcher, &mockIDLister{}, &mockCandidateLister{ids: candidateIDs}, nil, nil)

	succeeded, err := p.MatchJobWithAllCandidates(context.Background(), jobID)
	if err != nil {
		t.Fatalf("pair failures must not propagate: %v", err)
	}
	if succeeded != 7 {
		t.Fatalf("succeeded=%d, want 7", succeeded)
	}
	if matcher.callCount() != 10 {
		t.Fatalf("every pair should still be attempted, calls=%d", matcher.callCount())
	}
}

func TestMatchCandidateWithAllJobs_Direction(t *testing.T) {
	candidateID := uuid.New()
	jobIDs := newIDs(3)

	matcher := &mockMatcher{}
	p := NewMatchPipeline(matcher, &mockIDLister{jobIDs: jobIDs}, &mockCandidateLister{}, nil, nil)

	succeeded, err := p.MatchCandidateWithAllJobs(context.Background(), candidateID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if succeeded != 3 {
		t.Fatalf("succeeded=%d, want 3", succeeded)
	}

	seen := make(map[uuid.UUID]bool)
	for _, call := range matcher.calls {
		if call.candidateID != candidateID {
			t.Fatalf("pair scored against wrong candidate: %v", call.candidateID)
		}
		seen[call.jobID] = true
	}
	for _, jid := range jobIDs {
		if !seen[jid] {
			t.Fatalf("job %v never scored", jid)
		}
	}
}

func TestMatchJobWithAllCandidates_Empty(t *testing.T) {
	p := NewMatchPipeline(&mockMatcher{}, &mockIDLister{}, &mockCandidateLister{}, nil, nil)

	succeeded, err := p.MatchJobWithAllCandidates(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if succeeded != 0 {
		t.Fatalf("succeeded=%d, want 0", succeeded)
	}
}

func TestMatchJobWithAllCandidates_ListFailurePropagates(t *testing.T) {
	listErr := errors.New("connection refused")
	p := NewMatchPipeline(&mockMatcher{}, &mockIDLister{}, &mockCandidateLister{err: listErr}, nil, nil)

	_, err := p.MatchJobWithAllCandidates(context.Background(), uuid.New())
	if !errors.Is(err, listErr) {
		t.Fatalf("got %v, want the list error", err)
	}
}

func TestMatchJobWithAllCandidates_NotifierEvents(t *testing.T) {
	jobID := uuid.New()
	candidateIDs := newIDs(23)

	notifier := &mockNotifier{}
	p := NewMatchPipeline(&mockMatcher{}, &mockIDLister{}, &mockCandidateLister{ids: candidateIDs}, notifier, nil)

	if _, err := p.MatchJobWithAllCandidates(context.Background(), jobID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 23 counterparts: batches of 10, 10, 3 plus one completion event.
	if len(notifier.events) != 4 {
		t.Fatalf("events=%d, want 4: %+v", len(notifier.events), notifier.events)
	}

	last := notifier.events[len(notifier.events)-1]
	if !last.completed {
		t.Fatalf("last event should be completion: %+v", last)
	}
	if last.succeeded != 23 || last.failed != 0 || last.total != 23 {
		t.Fatalf("completion totals wrong: %+v", last)
	}

	prev := 0
	for _, ev := range notifier.events[:len(notifier.events)-1] {
		if ev.processed <= prev || ev.processed > ev.total {
			t.Fatalf("progress not monotonic: %+v", notifier.events)
		}
		prev = ev.processed
	}
}
