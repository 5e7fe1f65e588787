package job

import (
	"context"

	"jobboard/internal/common"
)

type Repository interface {
	Create(ctx context.Context, job Job) (*Job, error)
	Update(ctx context.Context, job Job) (*Job, error)
	GetByID(ctx context.Context, id common.UUID) (*Job, error)
	ListActive(ctx context.Context, limit, offset int) ([]Job, error)
	ListByRecruiter(ctx context.Context, recruiterID common.UUID) ([]Job, error)
	IncrementApplicationCount(ctx context.Context, id common.UUID) error
	IncrementViewCount(ctx context.Context, id common.UUID) error
	AddBookmarkCount(ctx context.Context, id common.UUID, delta int) error
	RecomputeCounters(ctx context.Context, id common.UUID) (*Counters, error)
}

type BookmarkRepository interface {
	// Add reports whether a new bookmark row was created.
	Add(ctx context.Context, jobID, studentID common.UUID) (bool, error)
	// Remove reports whether a bookmark row was deleted.
	Remove(ctx context.Context, jobID, studentID common.UUID) (bool, error)
	CountByJob(ctx context.Context, jobID common.UUID) (int, error)
}
