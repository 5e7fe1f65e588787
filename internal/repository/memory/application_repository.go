package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
)

type pairKey struct {
	jobID     common.UUID
	studentID common.UUID
}

// ApplicationRepository keeps applications in memory. The (job, student) index
// is checked and written under one lock, so concurrent Creates for the same
// pair leave exactly one record.
type ApplicationRepository struct {
	mu     sync.RWMutex
	byID   map[common.UUID]*application.Application
	byPair map[pairKey]common.UUID
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{
		byID:   make(map[common.UUID]*application.Application),
		byPair: make(map[pairKey]common.UUID),
	}
}

func (r *ApplicationRepository) Create(_ context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{jobID: app.JobID, studentID: app.StudentID}
	if _, exists := r.byPair[key]; exists {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	}
	app.ID = common.NewUUID()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	if app.UpdatedAt.IsZero() {
		app.UpdatedAt = app.CreatedAt
	}
	app.Version = 1
	stored := cloneApplication(app)
	r.byID[app.ID] = &stored
	r.byPair[key] = app.ID
	out := cloneApplication(stored)
	return &out, nil
}

func (r *ApplicationRepository) Update(_ context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[app.ID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if current.Version != app.Version {
		return nil, common.NewError(common.CodeConflict, "application was changed by another request", nil)
	}
	app.Version++
	app.JobID = current.JobID
	app.StudentID = current.StudentID
	app.RecruiterID = current.RecruiterID
	app.CreatedAt = current.CreatedAt
	stored := cloneApplication(app)
	r.byID[app.ID] = &stored
	out := cloneApplication(stored)
	return &out, nil
}

func (r *ApplicationRepository) GetByID(_ context.Context, id common.UUID) (*application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	out := cloneApplication(*app)
	return &out, nil
}

func (r *ApplicationRepository) FindByJobAndStudent(_ context.Context, jobID, studentID common.UUID) (*application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPair[pairKey{jobID: jobID, studentID: studentID}]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	out := cloneApplication(*r.byID[id])
	return &out, nil
}

func (r *ApplicationRepository) List(_ context.Context, filter application.Filter, limit, offset int) ([]application.Application, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]application.Application, 0)
	for _, app := range r.byID {
		if matches(*app, filter) {
			matched = append(matched, *app)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	if offset >= total {
		return []application.Application{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	items := make([]application.Application, 0, end-offset)
	for _, app := range matched[offset:end] {
		items = append(items, cloneApplication(app))
	}
	return items, total, nil
}

func (r *ApplicationRepository) CountByStatus(_ context.Context, recruiterID common.UUID) (map[application.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[application.Status]int)
	for _, app := range r.byID {
		if !recruiterID.IsZero() && app.RecruiterID != recruiterID {
			continue
		}
		counts[app.Status]++
	}
	return counts, nil
}

func (r *ApplicationRepository) CountByJob(_ context.Context, jobID common.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for key := range r.byPair {
		if key.jobID == jobID {
			count++
		}
	}
	return count, nil
}

func matches(app application.Application, filter application.Filter) bool {
	if !filter.StudentID.IsZero() && app.StudentID != filter.StudentID {
		return false
	}
	if !filter.RecruiterID.IsZero() && app.RecruiterID != filter.RecruiterID {
		return false
	}
	if !filter.JobID.IsZero() && app.JobID != filter.JobID {
		return false
	}
	if filter.Status != "" && app.Status != filter.Status {
		return false
	}
	return true
}

func cloneApplication(app application.Application) application.Application {
	copy := app
	copy.Answers = append([]application.Answer{}, app.Answers...)
	copy.Timeline = append([]application.TimelineEvent(nil), app.Timeline...)
	if app.Resume != nil {
		resume := *app.Resume
		copy.Resume = &resume
	}
	if app.Interview != nil {
		interview := *app.Interview
		copy.Interview = &interview
	}
	if app.Feedback != nil {
		feedback := *app.Feedback
		feedback.Strengths = append([]string(nil), app.Feedback.Strengths...)
		feedback.Improvements = append([]string(nil), app.Feedback.Improvements...)
		copy.Feedback = &feedback
	}
	return copy
}
