package app

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type ApplicationService struct {
	repo   application.Repository
	jobs   job.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewApplicationService(repo application.Repository, jobs job.Repository, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		repo:   repo,
		jobs:   jobs,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit creates the single application a student may hold for a job. The job's
// application counter is bumped only after the record exists, and a failed bump
// is logged rather than returned.
func (s *ApplicationService) Submit(ctx context.Context, jobID, studentID common.UUID, submission application.Submission) (*application.Application, error) {
	if err := submission.Validate(); err != nil {
		return nil, err
	}
	posting, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !posting.AcceptingApplications() {
		return nil, common.NewError(common.CodeInvalidState, "job is no longer accepting applications", nil)
	}
	now := s.now()
	if posting.DeadlinePassed(now) {
		return nil, common.NewError(common.CodeExpired, "application deadline has passed", nil)
	}
	if _, err := s.repo.FindByJobAndStudent(ctx, jobID, studentID); err == nil {
		return nil, common.NewError(common.CodeConflict, "already applied", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	created, err := s.repo.Create(ctx, application.New(jobID, studentID, posting.RecruiterID, submission, now))
	if err != nil {
		return nil, err
	}
	if err := s.jobs.IncrementApplicationCount(ctx, jobID); err != nil {
		s.logger.Warn("application count not incremented",
			zap.String("job_id", jobID.String()),
			zap.String("application_id", created.ID.String()),
			zap.Error(err),
		)
	}
	s.logger.Info("application.created",
		zap.String("application_id", created.ID.String()),
		zap.String("job_id", jobID.String()),
		zap.String("student_id", studentID.String()),
	)
	return created, nil
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID, caller user.Principal) (*application.Application, error) {
	return s.loadVisible(ctx, id, caller)
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, id common.UUID, caller user.Principal, status application.Status, note string) (*application.Application, error) {
	app, err := s.loadManaged(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	next, ok := application.ParseStatus(string(status))
	if !ok {
		return nil, common.NewValidationErrorWithCode(common.CodeInvalidStatus, "invalid status", map[string]string{"status": "status must be pending, under_review, interview, approved, rejected, or withdrawn"})
	}
	if utf8.RuneCountInString(note) > application.MaxNoteLength {
		return nil, common.NewValidationError("invalid request", map[string]string{"note": "note is too long"})
	}
	if next == application.StatusWithdrawn {
		return nil, common.NewError(common.CodeInvalidTransition, "withdrawn is set only by the applying student", nil)
	}
	if !caller.IsAdmin() && !application.CanTransition(app.Status, next) {
		return nil, common.NewError(common.CodeInvalidTransition, "cannot change status from "+string(app.Status)+" to "+string(next), nil)
	}
	previous := app.Status
	app.SetStatus(next, strings.TrimSpace(note), caller.ID, s.now())
	updated, err := s.repo.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application.status_changed",
		zap.String("application_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
		zap.String("actor_id", caller.ID.String()),
		zap.String("actor_role", string(caller.Role)),
	)
	return updated, nil
}

func (s *ApplicationService) ScheduleInterview(ctx context.Context, id common.UUID, caller user.Principal, interview application.Interview) (*application.Application, error) {
	app, err := s.loadManaged(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := interview.Validate(now); err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && !application.CanTransition(app.Status, application.StatusInterview) {
		return nil, common.NewError(common.CodeInvalidTransition, "cannot schedule an interview from status "+string(app.Status), nil)
	}
	app.ScheduleInterview(interview, caller.ID, now)
	updated, err := s.repo.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application.interview_scheduled",
		zap.String("application_id", id.String()),
		zap.String("date", interview.Date),
		zap.String("type", string(interview.Type)),
	)
	return updated, nil
}

// Withdraw is open to the owning student only; administrators cannot withdraw
// on a student's behalf.
func (s *ApplicationService) Withdraw(ctx context.Context, id, studentID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.StudentID != studentID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another student", nil)
	}
	if !app.Status.Withdrawable() {
		return nil, common.NewError(common.CodeInvalidState, "cannot withdraw at this stage", nil)
	}
	app.Withdraw(studentID, s.now())
	updated, err := s.repo.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application.withdrawn", zap.String("application_id", id.String()))
	return updated, nil
}

// UpdateNotes writes the caller's own note slot; the slot follows the role.
func (s *ApplicationService) UpdateNotes(ctx context.Context, id common.UUID, caller user.Principal, text string) (*application.Application, error) {
	app, err := s.loadVisible(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(text) > application.MaxNoteLength {
		return nil, common.NewValidationError("invalid request", map[string]string{"notes": "notes are too long"})
	}
	text = strings.TrimSpace(text)
	switch caller.Role {
	case user.RoleStudent:
		app.Notes.Student = text
	case user.RoleRecruiter:
		app.Notes.Recruiter = text
	case user.RoleAdmin:
		app.Notes.Admin = text
	}
	app.UpdatedAt = s.now()
	return s.repo.Update(ctx, *app)
}

func (s *ApplicationService) SetFeedback(ctx context.Context, id common.UUID, caller user.Principal, feedback application.Feedback) (*application.Application, error) {
	app, err := s.loadManaged(ctx, id, caller)
	if err != nil {
		return nil, err
	}
	if err := feedback.Validate(); err != nil {
		return nil, err
	}
	app.Feedback = &feedback
	app.UpdatedAt = s.now()
	return s.repo.Update(ctx, *app)
}

// List scopes the filter to the caller: students see their own applications,
// recruiters the ones on their jobs, administrators everything.
func (s *ApplicationService) List(ctx context.Context, caller user.Principal, filter application.Filter, page, limit int) (*application.Page, error) {
	switch caller.Role {
	case user.RoleStudent:
		filter.StudentID = caller.ID
	case user.RoleRecruiter:
		filter.RecruiterID = caller.ID
	case user.RoleAdmin:
	default:
		return nil, common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	items, total, err := s.repo.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []application.Application{}
	}
	return &application.Page{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: (total + limit - 1) / limit,
	}, nil
}

// Stats counts applications by status. Recruiters always get their own
// numbers; administrators get global numbers unless recruiterID is set.
func (s *ApplicationService) Stats(ctx context.Context, caller user.Principal, recruiterID common.UUID) (*application.Stats, error) {
	switch caller.Role {
	case user.RoleRecruiter:
		recruiterID = caller.ID
	case user.RoleAdmin:
	default:
		return nil, common.NewError(common.CodeForbidden, "insufficient role", nil)
	}
	counts, err := s.repo.CountByStatus(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	stats := &application.Stats{ByStatus: make(map[application.Status]int, len(application.Statuses))}
	for _, status := range application.Statuses {
		stats.ByStatus[status] = counts[status]
		stats.Total += counts[status]
	}
	return stats, nil
}

func (s *ApplicationService) loadVisible(ctx context.Context, id common.UUID, caller user.Principal) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !application.CanView(*app, caller) {
		return nil, common.NewError(common.CodeForbidden, "not allowed to access this application", nil)
	}
	return app, nil
}

func (s *ApplicationService) loadManaged(ctx context.Context, id common.UUID, caller user.Principal) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !application.CanManage(*app, caller) {
		return nil, common.NewError(common.CodeForbidden, "not allowed to manage this application", nil)
	}
	return app, nil
}
