package repository

import (
	"context"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/database"

	"github.com/google/uuid"
)

type ExperienceRepository interface {
	ListByCandidateID(ctx context.Context, candidateID uuid.UUID) ([]Experience, error)
	Insert(ctx context.Context, exp Experience) (uuid.UUID, error)
}

type Experience struct {
	ID          uuid.UUID
	CandidateID uuid.UUID
	CompanyName string
	RoleTitle   string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    string
	Description string
	Source      string
}

type PostgresExperienceRepository struct {
	db database.DB
}

func NewPostgresExperienceRepository(db database.DB) *PostgresExperienceRepository {
	return &PostgresExperienceRepository{db: db}
}

// ListByCandidateID returns the candidate's history most recent first, which
// is the order the scorer expects.
func (r *PostgresExperienceRepository) ListByCandidateID(ctx context.Context, candidateID uuid.UUID) ([]Experience, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, candidate_id, COALESCE(company_name, ''), COALESCE(role_title, ''),
		        start_date, end_date, COALESCE(location, ''), COALESCE(description, ''),
		        COALESCE(experience_source, '')
		 FROM candidate_experience
		 WHERE candidate_id = $1
		 ORDER BY start_date DESC NULLS LAST, created_at DESC`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Experience, 0)
	for rows.Next() {
		var e Experience
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.CompanyName, &e.RoleTitle,
			&e.StartDate, &e.EndDate, &e.Location, &e.Description, &e.Source); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresExperienceRepository) Insert(ctx context.Context, exp Experience) (uuid.UUID, error) {
	if exp.ID == uuid.Nil {
		exp.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO candidate_experience (id, candidate_id, company_name, role_title, start_date, end_date, location, description, experience_source)
		 VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''),$5,$6,NULLIF($7,''),NULLIF($8,''),NULLIF($9,''))`,
		exp.ID, exp.CandidateID, exp.CompanyName, exp.RoleTitle,
		exp.StartDate, exp.EndDate, exp.Location, exp.Description, exp.Source,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return exp.ID, nil
}
