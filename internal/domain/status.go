package domain

import "fmt"

// Status is the closed set of travel request states. It is the single
// source of truth for status values: repo, service, handler, and notify
// all share this type instead of scattering string literals.
type Status string

const (
	// StatusRequested is the initial state of every travel request.
	StatusRequested Status = "requested"
	// StatusApproved marks a request an approver has signed off on.
	StatusApproved Status = "approved"
	// StatusCanceled is terminal: no transition leaves it.
	StatusCanceled Status = "canceled"
)

// ParseStatus converts a raw string into a Status.
// Returns ErrValidation (wrapped) for anything outside the closed set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusRequested, StatusApproved, StatusCanceled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	return s == StatusRequested || s == StatusApproved || s == StatusCanceled
}

// Terminal reports whether no further transition is permitted out of s.
func (s Status) Terminal() bool {
	return s == StatusCanceled
}

func (s Status) String() string {
	return string(s)
}
