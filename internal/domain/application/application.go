package application

import (
	"fmt"
	"time"
	"unicode/utf8"

	"jobboard/internal/common"
)

const (
	MaxCoverLetterLength = 2000
	MaxNoteLength        = 2000
)

type EventKind string

const (
	EventSubmitted          EventKind = "submitted"
	EventStatusChanged      EventKind = "status_changed"
	EventInterviewScheduled EventKind = "interview_scheduled"
	EventWithdrawn          EventKind = "withdrawn"
)

type TimelineEvent struct {
	Kind      EventKind   `json:"kind"`
	Status    Status      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
	ActorID   common.UUID `json:"actor_id,omitempty"`
}

type Resume struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Notes struct {
	Recruiter string `json:"recruiter,omitempty"`
	Student   string `json:"student,omitempty"`
	Admin     string `json:"admin,omitempty"`
}

type Application struct {
	ID          common.UUID     `json:"id"`
	JobID       common.UUID     `json:"job_id"`
	StudentID   common.UUID     `json:"student_id"`
	RecruiterID common.UUID     `json:"recruiter_id"`
	Status      Status          `json:"status"`
	CoverLetter string          `json:"cover_letter,omitempty"`
	Resume      *Resume         `json:"resume,omitempty"`
	Answers     []Answer        `json:"answers"`
	Notes       Notes           `json:"notes"`
	Timeline    []TimelineEvent `json:"timeline"`
	Interview   *Interview      `json:"interview,omitempty"`
	Feedback    *Feedback       `json:"feedback,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	// Version is bumped on every write; an Update carrying a stale version is
	// rejected with CodeConflict.
	Version int `json:"-"`
}

type Submission struct {
	CoverLetter string
	Answers     []Answer
	Resume      *Resume
}

func (s Submission) Validate() error {
	fields := map[string]string{}
	if utf8.RuneCountInString(s.CoverLetter) > MaxCoverLetterLength {
		fields["cover_letter"] = fmt.Sprintf("cover letter must be at most %d characters", MaxCoverLetterLength)
	}
	for i, answer := range s.Answers {
		if answer.Question == "" {
			fields[fmt.Sprintf("answers[%d].question", i)] = "question is required"
		}
	}
	if s.Resume != nil && s.Resume.Filename == "" {
		fields["resume.filename"] = "filename is required"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid application", fields)
	}
	return nil
}

// New builds a pending application with its first timeline entry.
func New(jobID, studentID, recruiterID common.UUID, submission Submission, at time.Time) Application {
	app := Application{
		JobID:       jobID,
		StudentID:   studentID,
		RecruiterID: recruiterID,
		CoverLetter: submission.CoverLetter,
		Resume:      submission.Resume,
		Answers:     submission.Answers,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if app.Answers == nil {
		app.Answers = []Answer{}
	}
	app.record(EventSubmitted, StatusPending, "Application submitted", studentID, at)
	return app
}

// SetStatus is the only way a status changes outside of interview scheduling
// and withdrawal, and it always appends a timeline entry.
func (a *Application) SetStatus(status Status, note string, actor common.UUID, at time.Time) {
	if note == "" {
		note = fmt.Sprintf("Status changed to %s", status)
	}
	a.record(EventStatusChanged, status, note, actor, at)
}

func (a *Application) ScheduleInterview(interview Interview, actor common.UUID, at time.Time) {
	interview.Scheduled = true
	a.Interview = &interview
	a.record(EventInterviewScheduled, StatusInterview, fmt.Sprintf("Interview scheduled for %s %s", interview.Date, interview.Time), actor, at)
}

func (a *Application) Withdraw(actor common.UUID, at time.Time) {
	a.record(EventWithdrawn, StatusWithdrawn, "Application withdrawn by student", actor, at)
}

func (a *Application) record(kind EventKind, status Status, note string, actor common.UUID, at time.Time) {
	a.Status = status
	a.Timeline = append(a.Timeline, TimelineEvent{
		Kind:      kind,
		Status:    status,
		Timestamp: at,
		Note:      note,
		ActorID:   actor,
	})
	a.UpdatedAt = at
}

func (a Application) LastEvent() (TimelineEvent, bool) {
	if len(a.Timeline) == 0 {
		return TimelineEvent{}, false
	}
	return a.Timeline[len(a.Timeline)-1], true
}
