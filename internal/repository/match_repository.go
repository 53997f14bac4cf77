package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alexandra-producto/referal-program-sub001/internal/database"

	"github.com/google/uuid"
)

const MatchSourceAuto = "auto"

type MatchUpsert struct {
	JobID       uuid.UUID
	CandidateID uuid.UUID
	Score       float64
	Detail      []byte
	Source      string
}

type JobMatch struct {
	CandidateID   uuid.UUID
	CandidateName string
	Score         float64
	Detail        json.RawMessage
	Source        string
	UpdatedAt     time.Time
}

type MatchRepository interface {
	Upsert(ctx context.Context, m MatchUpsert) error
	ListByJobID(ctx context.Context, jobID uuid.UUID) ([]JobMatch, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Upsert keeps one row per (job, candidate); re-scoring overwrites the score
// and detail and bumps updated_at.
func (r *PostgresMatchRepository) Upsert(ctx context.Context, m MatchUpsert) error {
	if m.JobID == uuid.Nil || m.CandidateID == uuid.Nil {
		return nil
	}
	if m.Source == "" {
		m.Source = MatchSourceAuto
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO job_candidate_matches (id, job_id, candidate_id, match_score, match_detail, match_source, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,now())
		 ON CONFLICT (job_id, candidate_id) DO UPDATE SET
			match_score = EXCLUDED.match_score,
			match_detail = EXCLUDED.match_detail,
			match_source = EXCLUDED.match_source,
			updated_at = now()`,
		uuid.New(), m.JobID, m.CandidateID, m.Score, m.Detail, m.Source,
	)
	return err
}

func (r *PostgresMatchRepository) ListByJobID(ctx context.Context, jobID uuid.UUID) ([]JobMatch, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.candidate_id, c.full_name, m.match_score,
		        COALESCE(m.match_detail, '{}'::jsonb), m.match_source, m.updated_at
		 FROM job_candidate_matches m
		 JOIN candidates c ON c.id = m.candidate_id
		 WHERE m.job_id = $1
		 ORDER BY m.match_score DESC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]JobMatch, 0)
	for rows.Next() {
		var m JobMatch
		var detail []byte
		if err := rows.Scan(&m.CandidateID, &m.CandidateName, &m.Score, &detail, &m.Source, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.Detail = json.RawMessage(detail)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
