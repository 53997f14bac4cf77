package dto

type ExperiencePayload struct {
	CompanyName string `json:"company_name"`
	RoleTitle   string `json:"role_title"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"experience_source,omitempty"`
}

type CreateCandidateRequest struct {
	FullName        string              `json:"full_name"`
	Email           string              `json:"email,omitempty"`
	LinkedinURL     string              `json:"linkedin_url,omitempty"`
	CurrentJobTitle string              `json:"current_job_title,omitempty"`
	CurrentCompany  string              `json:"current_company,omitempty"`
	Industry        string              `json:"industry,omitempty"`
	Seniority       string              `json:"seniority,omitempty"`
	Country         string              `json:"country,omitempty"`
	Experiences     []ExperiencePayload `json:"experiences,omitempty"`
	TriggerMatching bool                `json:"trigger_matching"`
}

type CandidateResponse struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	CurrentJobTitle string `json:"current_job_title,omitempty"`
	CurrentCompany  string `json:"current_company,omitempty"`
	Industry        string `json:"industry,omitempty"`
	Seniority       string `json:"seniority,omitempty"`
	Country         string `json:"country,omitempty"`
}
