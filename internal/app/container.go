package app

import (
	"context"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/config"
	"github.com/alexandra-producto/referal-program-sub001/internal/database"
	dbpostgres "github.com/alexandra-producto/referal-program-sub001/internal/database/postgres"
	"github.com/alexandra-producto/referal-program-sub001/internal/infrastructure/cache"
	"github.com/alexandra-producto/referal-program-sub001/internal/pipeline"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/jwt"
	"github.com/alexandra-producto/referal-program-sub001/internal/pkg/reflink"
	"github.com/alexandra-producto/referal-program-sub001/internal/repository"
	"github.com/alexandra-producto/referal-program-sub001/internal/usecase"
	"github.com/alexandra-producto/referal-program-sub001/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency. Handlers and commands pull
// what they need from here.
type Container struct {
	Config config.Config
	Log    *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	Jobs        repository.JobRepository
	Candidates  repository.CandidateRepository
	Experiences repository.ExperienceRepository
	Matches     repository.MatchRepository

	JWT      jwt.Service
	Signer   *reflink.Signer
	Matcher  usecase.MatchingUsecase
	Auth     usecase.AuthUsecase
	Pipeline *pipeline.MatchPipeline
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	jobs := repository.NewPostgresJobRepository(db)
	candidates := repository.NewPostgresCandidateRepository(db)
	experiences := repository.NewPostgresExperienceRepository(db)
	matches := repository.NewPostgresMatchRepository(db)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	hub := ws.NewHub(logger)
	matcher := usecase.NewMatchingUsecase(jobs, candidates, experiences, matches)

	return &Container{
		Config: cfg,
		Log:    logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		Hub:    hub,

		Jobs:        jobs,
		Candidates:  candidates,
		Experiences: experiences,
		Matches:     matches,

		JWT:      jwtSvc,
		Signer:   reflink.NewSigner(cfg.Reflink.Secret, cfg.Reflink.MaxAge),
		Matcher:  matcher,
		Auth:     usecase.NewAuthUsecase(cfg.Admin.Emails, cfg.Admin.PasswordHash, jwtSvc),
		Pipeline: pipeline.NewMatchPipeline(matcher, jobs, candidates, ws.NewMatchNotifier(hub), logger),
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
