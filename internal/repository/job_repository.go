package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/alexandra-producto/referal-program-sub001/internal/database"
	"github.com/alexandra-producto/referal-program-sub001/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobRepository interface {
	GetByID(ctx context.Context, jobID uuid.UUID) (Job, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	List(ctx context.Context, limit, offset int) ([]Job, error)
	Insert(ctx context.Context, job Job) (uuid.UUID, error)
}

type Job struct {
	ID           uuid.UUID
	CompanyName  string
	JobTitle     string
	JobLevel     string
	Location     string
	RemoteOK     bool
	Description  string
	Requirements matching.Requirements
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (Job, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, company_name, job_title, COALESCE(job_level, ''),
		        COALESCE(location, ''), remote_ok, COALESCE(description, ''),
		        COALESCE(requirements_json, '{}'::jsonb)
		 FROM jobs WHERE id = $1`,
		jobID,
	)

	var j Job
	var reqs []byte
	if err := row.Scan(&j.ID, &j.CompanyName, &j.JobTitle, &j.JobLevel,
		&j.Location, &j.RemoteOK, &j.Description, &reqs); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Job{}, ErrJobNotFound
		}
		return Job{}, err
	}
	if err := json.Unmarshal(reqs, &j.Requirements); err != nil {
		return Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM jobs ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) List(ctx context.Context, limit, offset int) ([]Job, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, company_name, job_title, COALESCE(job_level, ''),
		        COALESCE(location, ''), remote_ok, COALESCE(description, ''),
		        COALESCE(requirements_json, '{}'::jsonb)
		 FROM jobs
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Job, 0)
	for rows.Next() {
		var j Job
		var reqs []byte
		if err := rows.Scan(&j.ID, &j.CompanyName, &j.JobTitle, &j.JobLevel,
			&j.Location, &j.RemoteOK, &j.Description, &reqs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(reqs, &j.Requirements); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Insert(ctx context.Context, job Job) (uuid.UUID, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	reqs, err := json.Marshal(job.Requirements)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO jobs (id, company_name, job_title, job_level, location, remote_ok, description, requirements_json)
		 VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,NULLIF($7,''),$8)`,
		job.ID, job.CompanyName, job.JobTitle, job.JobLevel,
		job.Location, job.RemoteOK, job.Description, reqs,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return job.ID, nil
}
