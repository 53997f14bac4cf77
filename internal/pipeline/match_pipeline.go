package pipeline

import (
	"context"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/repository"
	"github.com/alexandra-producto/referal-program-sub001/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// batchSize pairs run concurrently; batches run sequentially so a huge
// counterpart set never floods the database.
const batchSize = 10

// Notifier receives progress events. A nil notifier disables publishing.
type Notifier interface {
	MatchProgress(direction string, id uuid.UUID, processed, total, succeeded, failed int)
	MatchCompleted(direction string, id uuid.UUID, total, succeeded, failed int)
}

type MatchPipeline struct {
	matcher    usecase.MatchingUsecase
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	notifier   Notifier
	log        *zap.Logger
}

func NewMatchPipeline(
	matcher usecase.MatchingUsecase,
	jobs repository.JobRepository,
	candidates repository.CandidateRepository,
	notifier Notifier,
	logger *zap.Logger,
) *MatchPipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchPipeline{
		matcher:    matcher,
		jobs:       jobs,
		candidates: candidates,
		notifier:   notifier,
		log:        logger,
	}
}

// MatchJobWithAllCandidates scores one job against every candidate and
// returns the number of successfully stored matches. Individual pair
// failures are logged and counted, never propagated.
func (p *MatchPipeline) MatchJobWithAllCandidates(ctx context.Context, jobID uuid.UUID) (int, error) {
	candidateIDs, err := p.candidates.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(candidateIDs) == 0 {
		p.log.Info("no candidates to match", zap.String("job_id", jobID.String()))
		return 0, nil
	}

	pair := func(ctx context.Context, counterpartID uuid.UUID) error {
		_, err := p.matcher.MatchJobCandidate(ctx, jobID, counterpartID)
		return err
	}
	return p.run(ctx, "job", jobID, candidateIDs, pair)
}

// MatchCandidateWithAllJobs is the reverse direction: one candidate against
// every job.
func (p *MatchPipeline) MatchCandidateWithAllJobs(ctx context.Context, candidateID uuid.UUID) (int, error) {
	jobIDs, err := p.jobs.ListIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(jobIDs) == 0 {
		p.log.Info("no jobs to match", zap.String("candidate_id", candidateID.String()))
		return 0, nil
	}

	pair := func(ctx context.Context, counterpartID uuid.UUID) error {
		_, err := p.matcher.MatchJobCandidate(ctx, counterpartID, candidateID)
		return err
	}
	return p.run(ctx, "candidate", candidateID, jobIDs, pair)
}

func (p *MatchPipeline) run(
	ctx context.Context,
	direction string,
	anchorID uuid.UUID,
	counterparts []uuid.UUID,
	pair func(ctx context.Context, counterpartID uuid.UUID) error,
) (int, error) {
	start := time.Now()
	total := len(counterparts)

	p.log.Info("matching started",
		zap.String("direction", direction),
		zap.String("id", anchorID.String()),
		zap.Int("total", total),
	)

	var processed, succeeded, failed int
	for begin := 0; begin < total; begin += batchSize {
		end := begin + batchSize
		if end > total {
			end = total
		}
		batch := counterparts[begin:end]

		pool := NewWorkerPool(len(batch), len(batch))
		results := pool.Run(ctx)

		for _, cid := range batch {
			cid := cid
			pool.Submit(func(ctx context.Context) error {
				if err := pair(ctx, cid); err != nil {
					p.log.Warn("pair failed",
						zap.String("direction", direction),
						zap.String("id", anchorID.String()),
						zap.String("counterpart_id", cid.String()),
						zap.Error(err),
					)
					return err
				}
				return nil
			})
		}
		pool.Close()

		for r := range results {
			if r.Err != nil {
				failed++
			} else {
				succeeded++
			}
		}
		processed += len(batch)

		p.log.Info("matching progress",
			zap.String("direction", direction),
			zap.String("id", anchorID.String()),
			zap.Int("processed", processed),
			zap.Int("total", total),
		)
		if p.notifier != nil {
			p.notifier.MatchProgress(direction, anchorID, processed, total, succeeded, failed)
		}
	}

	p.log.Info("matching finished",
		zap.String("direction", direction),
		zap.String("id", anchorID.String()),
		zap.Int("total", total),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)),
	)
	if p.notifier != nil {
		p.notifier.MatchCompleted(direction, anchorID, total, succeeded, failed)
	}

	return succeeded, nil
}
