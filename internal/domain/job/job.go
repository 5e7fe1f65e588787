package job

import (
	"time"

	"jobboard/internal/common"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusPaused Status = "paused"
	StatusClosed Status = "closed"
)

// Job is a posting owned by one recruiter. The counters are denormalized and
// advisory: RecomputeCounters rebuilds them from application and bookmark rows.
type Job struct {
	ID                  common.UUID `json:"id"`
	RecruiterID         common.UUID `json:"recruiter_id"`
	Title               string      `json:"title"`
	Company             string      `json:"company"`
	Description         string      `json:"description"`
	Location            string      `json:"location"`
	Type                string      `json:"type"`
	Skills              []string    `json:"skills"`
	Salary              string      `json:"salary,omitempty"`
	Status              Status      `json:"status"`
	ApplicationDeadline *time.Time  `json:"application_deadline,omitempty"`
	ApplicationCount    int         `json:"application_count"`
	ViewCount           int         `json:"view_count"`
	BookmarkCount       int         `json:"bookmark_count"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (j Job) AcceptingApplications() bool {
	return j.Status == StatusActive
}

func (j Job) DeadlinePassed(now time.Time) bool {
	return j.ApplicationDeadline != nil && now.After(*j.ApplicationDeadline)
}

type Counters struct {
	ApplicationCount int `json:"application_count"`
	ViewCount        int `json:"view_count"`
	BookmarkCount    int `json:"bookmark_count"`
}
