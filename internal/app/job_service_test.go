package app

import (
	"context"
	"testing"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository/memory"
)

func newJobService() (*JobService, *memory.JobRepository, *memory.ApplicationRepository) {
	apps := memory.NewApplicationRepository()
	bookmarks := memory.NewBookmarkRepository()
	jobs := memory.NewJobRepository(apps, bookmarks)
	return NewJobService(jobs, bookmarks, nil), jobs, apps
}

func validJob() job.Job {
	return job.Job{
		Title:       "Data analyst intern",
		Company:     "Acme",
		Description: "SQL and dashboards",
		Location:    "Berlin",
		Status:      job.StatusActive,
	}
}

func TestJobCreateValidation(t *testing.T) {
	service, _, _ := newJobService()
	recruiter := user.Principal{ID: common.NewUUID(), Role: user.RoleRecruiter}
	ctx := context.Background()

	if _, err := service.Create(ctx, user.Principal{ID: common.NewUUID(), Role: user.RoleStudent}, validJob()); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for student, got %v", err)
	}
	invalid := validJob()
	invalid.Title = "abc"
	if _, err := service.Create(ctx, recruiter, invalid); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	past := time.Now().Add(-time.Hour)
	expired := validJob()
	expired.ApplicationDeadline = &past
	if _, err := service.Create(ctx, recruiter, expired); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected deadline validation error, got %v", err)
	}

	draft := validJob()
	draft.Status = ""
	created, err := service.Create(ctx, recruiter, draft)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != job.StatusDraft || created.RecruiterID != recruiter.ID {
		t.Fatalf("unexpected job %+v", created)
	}
}

func TestJobGetCountsViewsOfActiveJobs(t *testing.T) {
	service, jobs, _ := newJobService()
	recruiter := user.Principal{ID: common.NewUUID(), Role: user.RoleRecruiter}
	ctx := context.Background()
	created, err := service.Create(ctx, recruiter, validJob())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := service.Get(ctx, created.ID, user.Principal{}); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	stored, _ := jobs.GetByID(ctx, created.ID)
	if stored.ViewCount != 3 {
		t.Fatalf("expected 3 views, got %d", stored.ViewCount)
	}

	if _, err := service.UpdateStatus(ctx, recruiter, created.ID, job.StatusClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := service.Get(ctx, created.ID, user.Principal{}); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected closed job to be hidden, got %v", err)
	}
	stranger := user.Principal{ID: common.NewUUID(), Role: user.RoleRecruiter}
	if _, err := service.Get(ctx, created.ID, stranger); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected closed job hidden from other recruiters, got %v", err)
	}
	admin := user.Principal{ID: common.NewUUID(), Role: user.RoleAdmin}
	for _, viewer := range []user.Principal{recruiter, admin} {
		item, err := service.Get(ctx, created.ID, viewer)
		if err != nil {
			t.Fatalf("expected %s to see closed job, got %v", viewer.Role, err)
		}
		if item.Status != job.StatusClosed {
			t.Fatalf("expected closed, got %s", item.Status)
		}
	}
	stored, _ = jobs.GetByID(ctx, created.ID)
	if stored.ViewCount != 3 {
		t.Fatalf("expected hidden reads not to count views, got %d", stored.ViewCount)
	}
}

func TestJobUpdateStatusOwnership(t *testing.T) {
	service, _, _ := newJobService()
	owner := user.Principal{ID: common.NewUUID(), Role: user.RoleRecruiter}
	ctx := context.Background()
	created, _ := service.Create(ctx, owner, validJob())

	stranger := user.Principal{ID: common.NewUUID(), Role: user.RoleRecruiter}
	if _, err := service.UpdateStatus(ctx, stranger, created.ID, job.StatusClosed); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := service.UpdateStatus(ctx, owner, created.ID, "archived"); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	admin := user.Principal{ID: common.NewUUID(), Role: user.RoleAdmin}
	moderated, err := service.UpdateStatus(ctx, admin, created.ID, job.StatusPaused)
	if err != nil {
		t.Fatalf("admin moderation: %v", err)
	}
	if moderated.Status != job.StatusPaused || moderated.RecruiterID != owner.ID {
		t.Fatalf("unexpected moderated job %+v", moderated)
	}
}

func TestBookmarksAndRecompute(t *testing.T) {
	service, jobs, apps := newJobService()
	recruiter := user.Principal{ID: common.NewUUID(), Role: user.RoleRecruiter}
	student := user.Principal{ID: common.NewUUID(), Role: user.RoleStudent}
	ctx := context.Background()
	created, _ := service.Create(ctx, recruiter, validJob())

	if err := service.Bookmark(ctx, student, created.ID); err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	if err := service.Bookmark(ctx, student, created.ID); err != nil {
		t.Fatalf("bookmark again: %v", err)
	}
	stored, _ := jobs.GetByID(ctx, created.ID)
	if stored.BookmarkCount != 1 {
		t.Fatalf("expected one bookmark, got %d", stored.BookmarkCount)
	}
	if err := service.Bookmark(ctx, recruiter, created.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected recruiter bookmark to be forbidden, got %v", err)
	}

	if _, err := apps.Create(ctx, application.New(created.ID, student.ID, recruiter.ID, application.Submission{}, time.Now())); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	counters, err := service.RecomputeCounters(ctx, created.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if counters.ApplicationCount != 1 || counters.BookmarkCount != 1 {
		t.Fatalf("unexpected counters %+v", counters)
	}

	if err := service.RemoveBookmark(ctx, student, created.ID); err != nil {
		t.Fatalf("remove bookmark: %v", err)
	}
	stored, _ = jobs.GetByID(ctx, created.ID)
	if stored.BookmarkCount != 0 {
		t.Fatalf("expected zero bookmarks, got %d", stored.BookmarkCount)
	}
}
