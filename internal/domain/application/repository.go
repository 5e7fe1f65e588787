package application

import (
	"context"

	"jobboard/internal/common"
)

// Filter narrows a listing; zero values match everything.
type Filter struct {
	StudentID   common.UUID
	RecruiterID common.UUID
	JobID       common.UUID
	Status      Status
}

type Repository interface {
	// Create must return a CodeConflict error when (JobID, StudentID) already exists.
	Create(ctx context.Context, app Application) (*Application, error)
	Update(ctx context.Context, app Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByJobAndStudent(ctx context.Context, jobID, studentID common.UUID) (*Application, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Application, int, error)
	CountByStatus(ctx context.Context, recruiterID common.UUID) (map[Status]int, error)
	CountByJob(ctx context.Context, jobID common.UUID) (int, error)
}

type Page struct {
	Items []Application `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Pages int           `json:"pages"`
}

type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}
