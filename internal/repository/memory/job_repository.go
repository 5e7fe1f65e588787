package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
)

type JobRepository struct {
	mu           sync.RWMutex
	jobs         map[common.UUID]*job.Job
	applications *ApplicationRepository
	bookmarks    *BookmarkRepository
}

// NewJobRepository takes the stores RecomputeCounters counts from; either may be nil.
func NewJobRepository(applications *ApplicationRepository, bookmarks *BookmarkRepository) *JobRepository {
	return &JobRepository{
		jobs:         make(map[common.UUID]*job.Job),
		applications: applications,
		bookmarks:    bookmarks,
	}
}

func (r *JobRepository) Create(_ context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.ID = common.NewUUID()
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now
	stored := cloneJob(j)
	r.jobs[j.ID] = &stored
	out := cloneJob(stored)
	return &out, nil
}

func (r *JobRepository) Update(_ context.Context, j job.Job) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.jobs[j.ID]
	if !ok || current.RecruiterID != j.RecruiterID {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.ApplicationCount = current.ApplicationCount
	j.ViewCount = current.ViewCount
	j.BookmarkCount = current.BookmarkCount
	j.CreatedAt = current.CreatedAt
	j.UpdatedAt = time.Now().UTC()
	stored := cloneJob(j)
	r.jobs[j.ID] = &stored
	out := cloneJob(stored)
	return &out, nil
}

func (r *JobRepository) GetByID(_ context.Context, id common.UUID) (*job.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	out := cloneJob(*j)
	return &out, nil
}

func (r *JobRepository) ListActive(_ context.Context, limit, offset int) ([]job.Job, error) {
	return r.list(func(j job.Job) bool { return j.Status == job.StatusActive }, limit, offset), nil
}

func (r *JobRepository) ListByRecruiter(_ context.Context, recruiterID common.UUID) ([]job.Job, error) {
	return r.list(func(j job.Job) bool { return j.RecruiterID == recruiterID }, 0, 0), nil
}

func (r *JobRepository) list(keep func(job.Job) bool, limit, offset int) []job.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]job.Job, 0)
	for _, j := range r.jobs {
		if keep(*j) {
			items = append(items, cloneJob(*j))
		}
	}
	sort.Slice(items, func(i, k int) bool {
		return items[i].CreatedAt.After(items[k].CreatedAt)
	})
	if offset >= len(items) {
		return []job.Job{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (r *JobRepository) IncrementApplicationCount(_ context.Context, id common.UUID) error {
	return r.bump(id, func(j *job.Job) { j.ApplicationCount++ })
}

func (r *JobRepository) IncrementViewCount(_ context.Context, id common.UUID) error {
	return r.bump(id, func(j *job.Job) { j.ViewCount++ })
}

func (r *JobRepository) AddBookmarkCount(_ context.Context, id common.UUID, delta int) error {
	return r.bump(id, func(j *job.Job) {
		j.BookmarkCount += delta
		if j.BookmarkCount < 0 {
			j.BookmarkCount = 0
		}
	})
}

func (r *JobRepository) bump(id common.UUID, apply func(*job.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	apply(j)
	return nil
}

func (r *JobRepository) RecomputeCounters(ctx context.Context, id common.UUID) (*job.Counters, error) {
	applications := 0
	if r.applications != nil {
		count, err := r.applications.CountByJob(ctx, id)
		if err != nil {
			return nil, err
		}
		applications = count
	}
	bookmarks := 0
	if r.bookmarks != nil {
		count, err := r.bookmarks.CountByJob(ctx, id)
		if err != nil {
			return nil, err
		}
		bookmarks = count
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	j.ApplicationCount = applications
	j.BookmarkCount = bookmarks
	return &job.Counters{ApplicationCount: j.ApplicationCount, ViewCount: j.ViewCount, BookmarkCount: j.BookmarkCount}, nil
}

func cloneJob(j job.Job) job.Job {
	copy := j
	copy.Skills = append([]string(nil), j.Skills...)
	if j.ApplicationDeadline != nil {
		deadline := *j.ApplicationDeadline
		copy.ApplicationDeadline = &deadline
	}
	return copy
}

var _ application.Repository = (*ApplicationRepository)(nil)
var _ job.Repository = (*JobRepository)(nil)
