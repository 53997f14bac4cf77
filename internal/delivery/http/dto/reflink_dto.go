package dto

import "time"

type CreateLinkRequest struct {
	JobID string `json:"job_id"`
}

type LinkResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type RecommendationResponse struct {
	HyperconnectorID string      `json:"hyperconnector_id"`
	Job              JobResponse `json:"job"`
	IssuedAt         time.Time   `json:"issued_at"`
}
