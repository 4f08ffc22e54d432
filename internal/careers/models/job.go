package models

// JobType is the employment type of a job posting.
type JobType string

const (
	FullTime   JobType = "full-time"
	PartTime   JobType = "part-time"
	Contract   JobType = "contract"
	Internship JobType = "internship"
	Freelance  JobType = "freelance"
)

// Job is a single posting listed on the careers page.
type Job struct {
	ID           string   `json:"id" validate:"required"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	JobType      JobType  `json:"job_type" validate:"required,oneof=full-time part-time contract internship freelance"`
	Department   string   `json:"department,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Benefits     []string `json:"benefits,omitempty"`
	// IsActive defaults to active when absent.
	IsActive *bool `json:"is_active,omitempty"`
}

// Active reports whether the job is listed publicly. Only an explicit false
// deactivates a job.
func (j Job) Active() bool {
	return j.IsActive == nil || *j.IsActive
}
