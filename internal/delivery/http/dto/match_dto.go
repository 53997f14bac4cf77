package dto

import (
	"encoding/json"
	"time"
)

type JobMatchResponse struct {
	CandidateID   string          `json:"candidate_id"`
	CandidateName string          `json:"candidate_name"`
	MatchScore    float64         `json:"match_score"`
	MatchDetail   json.RawMessage `json:"match_detail"`
	MatchSource   string          `json:"match_source"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type MatchTriggerResponse struct {
	Status string `json:"status"`
}
