package app

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobboard/internal/common"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
)

type JobService struct {
	repo      job.Repository
	bookmarks job.BookmarkRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewJobService(repo job.Repository, bookmarks job.BookmarkRepository, logger *zap.Logger) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		repo:      repo,
		bookmarks: bookmarks,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *JobService) Create(ctx context.Context, caller user.Principal, j job.Job) (*job.Job, error) {
	if caller.Role != user.RoleRecruiter && caller.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "only recruiters can post jobs", nil)
	}
	j.RecruiterID = caller.ID
	if j.Status == "" {
		j.Status = job.StatusDraft
	}
	normalized, err := normalizeJobStatus(j.Status)
	if err != nil {
		return nil, err
	}
	j.Status = normalized
	if err := s.validateJob(j); err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, j)
	if err != nil {
		return nil, err
	}
	s.logger.Info("job.created", zap.String("job_id", created.ID.String()), zap.String("recruiter_id", caller.ID.String()))
	return created, nil
}

func (s *JobService) validateJob(j job.Job) error {
	fields := map[string]string{}
	title := strings.TrimSpace(j.Title)
	if title == "" {
		fields["title"] = "title is required"
	} else if len(title) < 4 || len(title) > 120 {
		fields["title"] = "title must be between 4 and 120 characters"
	}
	if strings.TrimSpace(j.Description) == "" {
		fields["description"] = "description is required"
	}
	if strings.TrimSpace(j.Location) == "" {
		fields["location"] = "location is required"
	}
	if j.ApplicationDeadline != nil && !j.ApplicationDeadline.After(s.now()) {
		fields["application_deadline"] = "deadline must be in the future"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid job", fields)
	}
	return nil
}

// Get is the public read path. Only active jobs are visible and every read
// bumps the advisory view counter.
// Get shows active jobs to anyone. Draft, paused and closed jobs are visible
// only to their recruiter and to administrators; viewer is the zero Principal
// for anonymous callers.
func (s *JobService) Get(ctx context.Context, id common.UUID, viewer user.Principal) (*job.Job, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != job.StatusActive {
		if viewer.IsAdmin() || (viewer.Role == user.RoleRecruiter && viewer.ID == item.RecruiterID) {
			return item, nil
		}
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	if err := s.repo.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("view count not incremented", zap.String("job_id", id.String()), zap.Error(err))
	}
	return item, nil
}

func (s *JobService) ListActive(ctx context.Context, limit, offset int) ([]job.Job, error) {
	if limit <= 0 || limit > maxPageLimit {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListActive(ctx, limit, offset)
}

func (s *JobService) ListByRecruiter(ctx context.Context, caller user.Principal) ([]job.Job, error) {
	return s.repo.ListByRecruiter(ctx, caller.ID)
}

// UpdateStatus is open to the owning recruiter and to administrators, who use
// it to moderate listings.
func (s *JobService) UpdateStatus(ctx context.Context, caller user.Principal, id common.UUID, status job.Status) (*job.Job, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.RecruiterID != caller.ID && !caller.IsAdmin() {
		return nil, common.NewError(common.CodeForbidden, "job belongs to another recruiter", nil)
	}
	normalized, err := normalizeJobStatus(status)
	if err != nil {
		return nil, err
	}
	item.Status = normalized
	updated, err := s.repo.Update(ctx, *item)
	if err != nil {
		return nil, err
	}
	s.logger.Info("job.status_changed",
		zap.String("job_id", id.String()),
		zap.String("status", string(normalized)),
		zap.String("actor_id", caller.ID.String()),
	)
	return updated, nil
}

func (s *JobService) Bookmark(ctx context.Context, caller user.Principal, jobID common.UUID) error {
	if caller.Role != user.RoleStudent {
		return common.NewError(common.CodeForbidden, "only students can bookmark jobs", nil)
	}
	item, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if item.Status != job.StatusActive {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	added, err := s.bookmarks.Add(ctx, jobID, caller.ID)
	if err != nil {
		return err
	}
	if added {
		s.bumpBookmarks(ctx, jobID, 1)
	}
	return nil
}

func (s *JobService) RemoveBookmark(ctx context.Context, caller user.Principal, jobID common.UUID) error {
	removed, err := s.bookmarks.Remove(ctx, jobID, caller.ID)
	if err != nil {
		return err
	}
	if removed {
		s.bumpBookmarks(ctx, jobID, -1)
	}
	return nil
}

func (s *JobService) bumpBookmarks(ctx context.Context, jobID common.UUID, delta int) {
	if err := s.repo.AddBookmarkCount(ctx, jobID, delta); err != nil {
		s.logger.Warn("bookmark count not updated", zap.String("job_id", jobID.String()), zap.Int("delta", delta), zap.Error(err))
	}
}

// RecomputeCounters rebuilds application_count and bookmark_count from the
// underlying rows. view_count has no backing log and is left as is.
func (s *JobService) RecomputeCounters(ctx context.Context, id common.UUID) (*job.Counters, error) {
	counters, err := s.repo.RecomputeCounters(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("job.counters_recomputed",
		zap.String("job_id", id.String()),
		zap.Int("application_count", counters.ApplicationCount),
		zap.Int("bookmark_count", counters.BookmarkCount),
	)
	return counters, nil
}

func normalizeJobStatus(status job.Status) (job.Status, error) {
	normalized := job.Status(strings.ToLower(strings.TrimSpace(string(status))))
	switch normalized {
	case job.StatusDraft, job.StatusActive, job.StatusPaused, job.StatusClosed:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid job status", map[string]string{"status": "status must be draft, active, paused, or closed"})
	}
}
