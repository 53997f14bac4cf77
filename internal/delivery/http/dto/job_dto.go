package dto

import "github.com/alexandra-producto/referal-program-sub001/internal/domain/matching"

type CreateJobRequest struct {
	CompanyName     string                `json:"company_name"`
	JobTitle        string                `json:"job_title"`
	JobLevel        string                `json:"job_level"`
	Location        string                `json:"location"`
	RemoteOK        bool                  `json:"remote_ok"`
	Description     string                `json:"description"`
	Requirements    matching.Requirements `json:"requirements"`
	TriggerMatching bool                  `json:"trigger_matching"`
}

type JobResponse struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	JobLevel    string `json:"job_level,omitempty"`
	Location    string `json:"location,omitempty"`
	RemoteOK    bool   `json:"remote_ok"`
}
