package application

import (
	"strings"
	"time"
	"unicode/utf8"

	"jobboard/internal/common"
)

type InterviewType string

const (
	InterviewPhone    InterviewType = "phone"
	InterviewVideo    InterviewType = "video"
	InterviewInPerson InterviewType = "in-person"
)

const interviewDateLayout = "2006-01-02"

type Interview struct {
	Scheduled bool          `json:"scheduled"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Location  string        `json:"location"`
	Type      InterviewType `json:"type"`
	Notes     string        `json:"notes,omitempty"`
}

// Validate rejects incomplete details and dates before the day of now.
func (i Interview) Validate(now time.Time) error {
	fields := map[string]string{}
	if strings.TrimSpace(i.Date) == "" {
		fields["date"] = "date is required"
	} else if day, err := time.Parse(interviewDateLayout, i.Date); err != nil {
		fields["date"] = "date must be YYYY-MM-DD"
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if day.Before(today) {
			fields["date"] = "date must not be in the past"
		}
	}
	if strings.TrimSpace(i.Time) == "" {
		fields["time"] = "time is required"
	}
	if strings.TrimSpace(i.Location) == "" {
		fields["location"] = "location or link is required"
	}
	switch i.Type {
	case InterviewPhone, InterviewVideo, InterviewInPerson:
	default:
		fields["type"] = "type must be phone, video, or in-person"
	}
	if utf8.RuneCountInString(i.Notes) > MaxNoteLength {
		fields["notes"] = "notes are too long"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid interview", fields)
	}
	return nil
}

type Feedback struct {
	Rating       int      `json:"rating"`
	Comments     string   `json:"comments,omitempty"`
	Strengths    []string `json:"strengths,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

func (f Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return common.NewValidationError("invalid feedback", map[string]string{"rating": "rating must be between 1 and 5"})
	}
	if utf8.RuneCountInString(f.Comments) > MaxNoteLength {
		return common.NewValidationError("invalid feedback", map[string]string{"comments": "comments are too long"})
	}
	return nil
}
