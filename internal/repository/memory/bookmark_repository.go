package memory

import (
	"context"
	"sync"

	"jobboard/internal/common"
	"jobboard/internal/domain/job"
)

type BookmarkRepository struct {
	mu        sync.Mutex
	bookmarks map[pairKey]struct{}
}

func NewBookmarkRepository() *BookmarkRepository {
	return &BookmarkRepository{bookmarks: make(map[pairKey]struct{})}
}

func (r *BookmarkRepository) Add(_ context.Context, jobID, studentID common.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{jobID: jobID, studentID: studentID}
	if _, ok := r.bookmarks[key]; ok {
		return false, nil
	}
	r.bookmarks[key] = struct{}{}
	return true, nil
}

func (r *BookmarkRepository) Remove(_ context.Context, jobID, studentID common.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{jobID: jobID, studentID: studentID}
	if _, ok := r.bookmarks[key]; !ok {
		return false, nil
	}
	delete(r.bookmarks, key)
	return true, nil
}

func (r *BookmarkRepository) CountByJob(_ context.Context, jobID common.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for key := range r.bookmarks {
		if key.jobID == jobID {
			count++
		}
	}
	return count, nil
}

var _ job.BookmarkRepository = (*BookmarkRepository)(nil)
