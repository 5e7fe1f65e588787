package application

import (
	"strings"
	"testing"
	"time"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
)

func TestNewStartsPendingWithSingleEvent(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	studentID := common.NewUUID()
	app := New(common.NewUUID(), studentID, common.NewUUID(), Submission{CoverLetter: "hello"}, now)

	if app.Status != StatusPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}
	if len(app.Timeline) != 1 {
		t.Fatalf("expected one timeline entry, got %d", len(app.Timeline))
	}
	event := app.Timeline[0]
	if event.Kind != EventSubmitted || event.Status != StatusPending || event.Note != "Application submitted" {
		t.Fatalf("unexpected first event: %+v", event)
	}
	if event.ActorID != studentID || !event.Timestamp.Equal(now) {
		t.Fatalf("unexpected actor or timestamp: %+v", event)
	}
	if app.Answers == nil {
		t.Fatal("expected answers to be an empty list")
	}
}

func TestSetStatusAppendsExactlyOneEvent(t *testing.T) {
	now := time.Now().UTC()
	app := New(common.NewUUID(), common.NewUUID(), common.NewUUID(), Submission{}, now)
	actor := common.NewUUID()

	for i, status := range []Status{StatusUnderReview, StatusInterview, StatusApproved} {
		app.SetStatus(status, "", actor, now.Add(time.Duration(i+1)*time.Minute))
		if len(app.Timeline) != i+2 {
			t.Fatalf("expected %d entries, got %d", i+2, len(app.Timeline))
		}
		last, _ := app.LastEvent()
		if last.Status != status || app.Status != status {
			t.Fatalf("expected status %s, got event %s app %s", status, last.Status, app.Status)
		}
		if last.Note != "Status changed to "+string(status) {
			t.Fatalf("unexpected default note %q", last.Note)
		}
	}
}

func TestSetStatusKeepsCallerNote(t *testing.T) {
	app := New(common.NewUUID(), common.NewUUID(), common.NewUUID(), Submission{}, time.Now())
	app.SetStatus(StatusInterview, "Let's talk", common.NewUUID(), time.Now())

	last, _ := app.LastEvent()
	if last.Note != "Let's talk" {
		t.Fatalf("expected caller note, got %q", last.Note)
	}
}

func TestScheduleInterviewForcesStatus(t *testing.T) {
	app := New(common.NewUUID(), common.NewUUID(), common.NewUUID(), Submission{}, time.Now())
	app.ScheduleInterview(Interview{Date: "2030-01-02", Time: "10:00", Location: "Zoom", Type: InterviewVideo}, common.NewUUID(), time.Now())

	if app.Status != StatusInterview || app.Interview == nil || !app.Interview.Scheduled {
		t.Fatalf("expected scheduled interview, got %+v", app)
	}
	last, _ := app.LastEvent()
	if last.Kind != EventInterviewScheduled || !strings.Contains(last.Note, "2030-01-02 10:00") {
		t.Fatalf("unexpected event %+v", last)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusUnderReview, true},
		{StatusPending, StatusApproved, true},
		{StatusUnderReview, StatusInterview, true},
		{StatusInterview, StatusUnderReview, true},
		{StatusInterview, StatusRejected, true},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusPending, false},
		{StatusWithdrawn, StatusUnderReview, false},
		{StatusPending, StatusWithdrawn, false},
		{StatusUnderReview, StatusPending, false},
		{StatusApproved, StatusApproved, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := ParseStatus(" Under_Review "); !ok || status != StatusUnderReview {
		t.Fatalf("expected under_review, got %q %v", status, ok)
	}
	if _, ok := ParseStatus("hired"); ok {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestSubmissionValidate(t *testing.T) {
	if err := (Submission{CoverLetter: strings.Repeat("ж", MaxCoverLetterLength)}).Validate(); err != nil {
		t.Fatalf("expected cover letter at limit to pass, got %v", err)
	}
	err := Submission{CoverLetter: strings.Repeat("a", MaxCoverLetterLength+1)}.Validate()
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInterviewValidate(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	valid := Interview{Date: "2026-05-10", Time: "16:00", Location: "Room 4", Type: InterviewInPerson}
	if err := valid.Validate(now); err != nil {
		t.Fatalf("expected same-day interview to pass, got %v", err)
	}

	past := valid
	past.Date = "2026-05-09"
	if err := past.Validate(now); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected past date to fail, got %v", err)
	}

	badType := valid
	badType.Type = "carrier-pigeon"
	if err := badType.Validate(now); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected bad type to fail, got %v", err)
	}
}

func TestFeedbackValidate(t *testing.T) {
	if err := (Feedback{Rating: 5}).Validate(); err != nil {
		t.Fatalf("expected rating 5 to pass, got %v", err)
	}
	if err := (Feedback{Rating: 0}).Validate(); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected rating 0 to fail, got %v", err)
	}
}

func TestAccessPredicates(t *testing.T) {
	student := user.Principal{ID: common.NewUUID(), Role: user.RoleStudent}
	recruiter := user.Principal{ID: common.NewUUID(), Role: user.RoleRecruiter}
	admin := user.Principal{ID: common.NewUUID(), Role: user.RoleAdmin}
	otherStudent := user.Principal{ID: common.NewUUID(), Role: user.RoleStudent}
	otherRecruiter := user.Principal{ID: common.NewUUID(), Role: user.RoleRecruiter}
	app := New(common.NewUUID(), student.ID, recruiter.ID, Submission{}, time.Now())

	if !CanView(app, student) || !CanView(app, recruiter) || !CanView(app, admin) {
		t.Fatal("expected owners and admin to view")
	}
	if CanView(app, otherStudent) || CanView(app, otherRecruiter) {
		t.Fatal("expected strangers to be denied")
	}
	if CanManage(app, student) || CanManage(app, otherRecruiter) {
		t.Fatal("expected only recruiter owner or admin to manage")
	}
	if !CanManage(app, recruiter) || !CanManage(app, admin) {
		t.Fatal("expected recruiter owner and admin to manage")
	}
	// A student whose id happens to equal the recruiter id must still be denied manage.
	impostor := user.Principal{ID: recruiter.ID, Role: user.RoleStudent}
	if CanManage(app, impostor) {
		t.Fatal("expected role to be checked, not just id")
	}
}
