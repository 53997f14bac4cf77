package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexandra-producto/referal-program-sub001/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
)

type CandidateRepository interface {
	GetByID(ctx context.Context, candidateID uuid.UUID) (Candidate, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	List(ctx context.Context, limit, offset int) ([]Candidate, error)
	Insert(ctx context.Context, candidate Candidate) (uuid.UUID, error)
}

type Candidate struct {
	ID              uuid.UUID
	FullName        string
	Email           string
	LinkedinURL     string
	CurrentJobTitle string
	CurrentCompany  string
	Industry        string
	Seniority       string
	Country         string
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, candidateID uuid.UUID) (Candidate, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, full_name, COALESCE(email, ''), COALESCE(linkedin_url, ''),
		        COALESCE(current_job_title, ''), COALESCE(current_company, ''),
		        COALESCE(industry, ''), COALESCE(seniority, ''), COALESCE(country, '')
		 FROM candidates WHERE id = $1`,
		candidateID,
	)

	var c Candidate
	if err := row.Scan(&c.ID, &c.FullName, &c.Email, &c.LinkedinURL,
		&c.CurrentJobTitle, &c.CurrentCompany, &c.Industry, &c.Seniority, &c.Country); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Candidate{}, ErrCandidateNotFound
		}
		return Candidate{}, err
	}
	return c, nil
}

func (r *PostgresCandidateRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM candidates ORDER BY created_at`)
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

func (r *PostgresCandidateRepository) List(ctx context.Context, limit, offset int) ([]Candidate, error) {
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
		`SELECT id, full_name, COALESCE(email, ''), COALESCE(linkedin_url, ''),
		        COALESCE(current_job_title, ''), COALESCE(current_company, ''),
		        COALESCE(industry, ''), COALESCE(seniority, ''), COALESCE(country, '')
		 FROM candidates
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Candidate, 0)
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.LinkedinURL,
			&c.CurrentJobTitle, &c.CurrentCompany, &c.Industry, &c.Seniority, &c.Country); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateRepository) Insert(ctx context.Context, candidate Candidate) (uuid.UUID, error) {
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO candidates (id, full_name, email, linkedin_url, current_job_title, current_company, industry, seniority, country)
		 VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),NULLIF($7,''),NULLIF($8,''),NULLIF($9,''))`,
		candidate.ID, candidate.FullName, candidate.Email, candidate.LinkedinURL,
		candidate.CurrentJobTitle, candidate.CurrentCompany, candidate.Industry,
		candidate.Seniority, candidate.Country,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return candidate.ID, nil
}
