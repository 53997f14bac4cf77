package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/app"
	"github.com/alexandra-producto/referal-program-sub001/internal/config"
	"github.com/alexandra-producto/referal-program-sub001/internal/database/migration"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/logger"

	"github.com/google/uuid"
)

// matcher runs one matching pass from the command line: either one job
// against every candidate, or one candidate against every job.
func main() {
	jobArg := flag.String("job", "", "job id to match against all candidates")
	candidateArg := flag.String("candidate", "", "candidate id to match against all jobs")
	flag.Parse()

	jobRaw := strings.TrimSpace(*jobArg)
	candidateRaw := strings.TrimSpace(*candidateArg)
	if (jobRaw == "") == (candidateRaw == "") {
		log.Fatalf("provide exactly one of -job or -candidate")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.App.LogJSON, cfg.App.LogDebug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	c, err := app.NewContainer(cfg, zlog)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() { _ = c.Close() }()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	r := migration.Runner{Dir: "migrations"}
	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var succeeded int
	if jobRaw != "" {
		jobID, err := uuid.Parse(jobRaw)
		if err != nil {
			log.Fatalf("invalid -job id: %v", err)
		}
		succeeded, err = c.Pipeline.MatchJobWithAllCandidates(ctx, jobID)
		if err != nil {
			log.Fatalf("matching failed: %v", err)
		}
	} else {
		candidateID, err := uuid.Parse(candidateRaw)
		if err != nil {
			log.Fatalf("invalid -candidate id: %v", err)
		}
		succeeded, err = c.Pipeline.MatchCandidateWithAllJobs(ctx, candidateID)
		if err != nil {
			log.Fatalf("matching failed: %v", err)
		}
	}

	log.Printf("matching done succeeded=%d", succeeded)
}
