package application

import "strings"

type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusInterview   Status = "interview"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

var Statuses = []Status{
	StatusPending,
	StatusUnderReview,
	StatusInterview,
	StatusApproved,
	StatusRejected,
	StatusWithdrawn,
}

func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Statuses {
		if status == known {
			return status, true
		}
	}
	return "", false
}

// allowedTransitions lists the edges a recruiter may take. Approved, rejected
// and withdrawn have no outgoing edges; only an administrator can move an
// application out of them. Withdrawn is reached through Withdraw only.
var allowedTransitions = map[Status][]Status{
	StatusPending:     {StatusUnderReview, StatusInterview, StatusApproved, StatusRejected},
	StatusUnderReview: {StatusInterview, StatusApproved, StatusRejected},
	StatusInterview:   {StatusUnderReview, StatusApproved, StatusRejected},
}

func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusWithdrawn
}

// Withdrawable reports whether the owning student may still withdraw.
func (s Status) Withdrawable() bool {
	return s != StatusApproved && s != StatusRejected
}
