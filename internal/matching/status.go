// internal/matching/status.go
package matching

import (
	"errors"
	"fmt"
)

// Status is the operator-owned lifecycle of a surfaced match.
type Status string

const (
	StatusNew          Status = "new"
	StatusContacted    Status = "contacted"
	StatusInDiscussion Status = "in_discussion"
	StatusMatched      Status = "matched"
	StatusRejected     Status = "rejected"
)

var (
	ErrUnknownStatus     = errors.New("unknown match status")
	ErrInvalidTransition = errors.New("invalid match status transition")
)

var transitions = map[Status][]Status{
	StatusNew:          {StatusContacted},
	StatusContacted:    {StatusInDiscussion},
	StatusInDiscussion: {StatusMatched, StatusRejected},
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNew, StatusContacted, StatusInDiscussion, StatusMatched, StatusRejected:
		return st, nil
	case "":
		return StatusNew, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s Status) Terminal() bool {
	return s == StatusMatched || s == StatusRejected
}

// Next lists the statuses reachable from s in one step.
func (s Status) Next() []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition validates a single operator move and returns the new status.
func Transition(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}

// ApplyStatuses returns a copy of results with stored statuses merged in.
// Pairs without a stored status keep StatusNew.
func ApplyStatuses(results []MatchResult, statuses map[PairKey]Status) []MatchResult {
	out := make([]MatchResult, len(results))
	copy(out, results)
	for i := range out {
		if st, ok := statuses[out[i].Key()]; ok {
			out[i].Status = st
		}
	}
	return out
}
