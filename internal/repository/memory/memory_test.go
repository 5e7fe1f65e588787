package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
)

func TestApplicationRepositoryCreateIsUniquePerPair(t *testing.T) {
	repo := NewApplicationRepository()
	jobID, studentID := common.NewUUID(), common.NewUUID()

	var wg sync.WaitGroup
	results := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), application.New(jobID, studentID, common.NewUUID(), application.Submission{}, time.Now()))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	created, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			created++
		case common.Is(err, common.CodeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, 15, conflicts)

	count, err := repo.CountByJob(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApplicationRepositoryReturnsCopies(t *testing.T) {
	repo := NewApplicationRepository()
	created, err := repo.Create(context.Background(), application.New(common.NewUUID(), common.NewUUID(), common.NewUUID(), application.Submission{}, time.Now()))
	require.NoError(t, err)

	created.SetStatus(application.StatusRejected, "", common.NewUUID(), time.Now())

	stored, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusPending, stored.Status)
	assert.Len(t, stored.Timeline, 1)
}

func TestApplicationRepositoryUpdateRejectsStaleVersion(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, application.New(common.NewUUID(), common.NewUUID(), common.NewUUID(), application.Submission{}, time.Now()))
	require.NoError(t, err)
	require.Equal(t, 1, created.Version)

	first, second := *created, *created
	first.SetStatus(application.StatusApproved, "", first.RecruiterID, time.Now())
	second.Withdraw(second.StudentID, time.Now())

	updated, err := repo.Update(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	_, err = repo.Update(ctx, second)
	assert.True(t, common.Is(err, common.CodeConflict), "expected conflict, got %v", err)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusApproved, stored.Status)
	assert.Len(t, stored.Timeline, 2)

	_, err = repo.Update(ctx, application.Application{ID: common.NewUUID()})
	assert.True(t, common.Is(err, common.CodeNotFound), "expected not found, got %v", err)
}

func TestApplicationRepositoryListFiltersAndPaginates(t *testing.T) {
	repo := NewApplicationRepository()
	recruiterID := common.NewUUID()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		app := application.New(common.NewUUID(), common.NewUUID(), recruiterID, application.Submission{}, base.Add(time.Duration(i)*time.Hour))
		if i%2 == 0 {
			app.SetStatus(application.StatusUnderReview, "", recruiterID, app.CreatedAt)
		}
		_, err := repo.Create(context.Background(), app)
		require.NoError(t, err)
	}
	_, err := repo.Create(context.Background(), application.New(common.NewUUID(), common.NewUUID(), common.NewUUID(), application.Submission{}, base))
	require.NoError(t, err)

	items, total, err := repo.List(context.Background(), application.Filter{RecruiterID: recruiterID}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 2)
	assert.True(t, items[0].CreatedAt.After(items[1].CreatedAt))

	items, total, err = repo.List(context.Background(), application.Filter{RecruiterID: recruiterID, Status: application.StatusUnderReview}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 3)

	counts, err := repo.CountByStatus(context.Background(), recruiterID)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[application.StatusUnderReview])
	assert.Equal(t, 2, counts[application.StatusPending])
}

func TestJobRepositoryRecomputeCounters(t *testing.T) {
	applications := NewApplicationRepository()
	bookmarks := NewBookmarkRepository()
	jobs := NewJobRepository(applications, bookmarks)
	ctx := context.Background()

	created, err := jobs.Create(ctx, job.Job{RecruiterID: common.NewUUID(), Title: "Intern", Status: job.StatusActive})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := applications.Create(ctx, application.New(created.ID, common.NewUUID(), created.RecruiterID, application.Submission{}, time.Now()))
		require.NoError(t, err)
	}
	added, err := bookmarks.Add(ctx, created.ID, common.NewUUID())
	require.NoError(t, err)
	require.True(t, added)

	// Drift the advisory counters.
	require.NoError(t, jobs.IncrementApplicationCount(ctx, created.ID))
	require.NoError(t, jobs.AddBookmarkCount(ctx, created.ID, 5))

	counters, err := jobs.RecomputeCounters(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, counters.ApplicationCount)
	assert.Equal(t, 1, counters.BookmarkCount)

	stored, err := jobs.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.ApplicationCount)
}

func TestBookmarkRepositoryIsIdempotent(t *testing.T) {
	repo := NewBookmarkRepository()
	ctx := context.Background()
	jobID, studentID := common.NewUUID(), common.NewUUID()

	added, _ := repo.Add(ctx, jobID, studentID)
	again, _ := repo.Add(ctx, jobID, studentID)
	assert.True(t, added)
	assert.False(t, again)

	removed, _ := repo.Remove(ctx, jobID, studentID)
	removedAgain, _ := repo.Remove(ctx, jobID, studentID)
	assert.True(t, removed)
	assert.False(t, removedAgain)
}
