package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexandra-producto/referal-program-sub001/internal/domain/matching"
	"github.com/alexandra-producto/referal-program-sub001/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound       = errors.New("job not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)

type MatchingUsecase interface {
	MatchJobCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (matching.Result, error)
}

type Matching struct {
	jobs        repository.JobRepository
	candidates  repository.CandidateRepository
	experiences repository.ExperienceRepository
	matches     repository.MatchRepository
}

func NewMatchingUsecase(
	jobs repository.JobRepository,
	candidates repository.CandidateRepository,
	experiences repository.ExperienceRepository,
	matches repository.MatchRepository,
) *Matching {
	return &Matching{jobs: jobs, candidates: candidates, experiences: experiences, matches: matches}
}

// MatchJobCandidate scores one pair and persists the result. Re-running the
// same pair overwrites the previous row.
func (u *Matching) MatchJobCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (matching.Result, error) {
	if jobID == uuid.Nil {
		return matching.Result{}, ErrJobNotFound
	}
	if candidateID == uuid.Nil {
		return matching.Result{}, ErrCandidateNotFound
	}

	job, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return matching.Result{}, ErrJobNotFound
		}
		return matching.Result{}, fmt.Errorf("%w: fetching job: %v", ErrInternal, err)
	}

	cand, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return matching.Result{}, ErrCandidateNotFound
		}
		return matching.Result{}, fmt.Errorf("%w: fetching candidate: %v", ErrInternal, err)
	}

	exps, err := u.experiences.ListByCandidateID(ctx, candidateID)
	if err != nil {
		return matching.Result{}, fmt.Errorf("%w: listing experiences: %v", ErrInternal, err)
	}

	res := matching.Compute(engineJob(job), engineCandidate(cand), engineExperiences(exps))

	detail, err := json.Marshal(res.Detail)
	if err != nil {
		return matching.Result{}, fmt.Errorf("%w: encoding match detail: %v", ErrInternal, err)
	}

	err = u.matches.Upsert(ctx, repository.MatchUpsert{
		JobID:       jobID,
		CandidateID: candidateID,
		Score:       res.Score,
		Detail:      detail,
		Source:      repository.MatchSourceAuto,
	})
	if err != nil {
		return matching.Result{}, fmt.Errorf("%w: upserting match: %v", ErrInternal, err)
	}

	return res, nil
}

func engineJob(j repository.Job) matching.Job {
	return matching.Job{
		ID:           j.ID,
		CompanyName:  j.CompanyName,
		JobTitle:     j.JobTitle,
		JobLevel:     j.JobLevel,
		RemoteOK:     j.RemoteOK,
		Requirements: j.Requirements,
	}
}

func engineCandidate(c repository.Candidate) matching.Candidate {
	return matching.Candidate{
		ID:              c.ID,
		FullName:        c.FullName,
		CurrentJobTitle: c.CurrentJobTitle,
		CurrentCompany:  c.CurrentCompany,
		Industry:        c.Industry,
		Seniority:       c.Seniority,
		Country:         c.Country,
	}
}

func engineExperiences(exps []repository.Experience) []matching.Experience {
	out := make([]matching.Experience, 0, len(exps))
	for _, e := range exps {
		out = append(out, matching.Experience{
			CompanyName: e.CompanyName,
			RoleTitle:   e.RoleTitle,
			Location:    e.Location,
			Description: e.Description,
		})
	}
	return out
}
