// Package lifecycle holds the single transition table for a movie's selection status.
// Every endpoint that changes a status asks CanTransition instead of keeping its own
// list of allowed values.
package lifecycle

import (
	"slices"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/constant"
)

type rule struct {
	// nil means any status
	from []constant.SelectionStatus
	to   []constant.SelectionStatus
}

var transitions = map[constant.UserRole][]rule{
	constant.RoleAdmin: {
		{from: nil, to: constant.SelectionStatuses},
	},
	constant.RoleJury: {
		{from: []constant.SelectionStatus{constant.StatusToDiscuss}, to: []constant.SelectionStatus{constant.StatusCandidate}},
	},
	constant.RoleProducer: {},
}

// AllowedTargets returns the statuses the role may move a movie to from the given status.
func AllowedTargets(from constant.SelectionStatus, role constant.UserRole) []constant.SelectionStatus {
	var out []constant.SelectionStatus
	for _, r := range transitions[role] {
		if r.from != nil && !slices.Contains(r.from, from) {
			continue
		}
		for _, to := range r.to {
			if !slices.Contains(out, to) {
				out = append(out, to)
			}
		}
	}
	return out
}

func CanTransition(from, to constant.SelectionStatus, role constant.UserRole) bool {
	return slices.Contains(AllowedTargets(from, role), to)
}

// Check validates a requested transition and returns the error kind the api reports.
// The caller checks assignment separately since that needs the database.
func Check(from, to constant.SelectionStatus, role constant.UserRole) error {
	if !to.IsValid() {
		return apperror.ErrInvalidStatus
	}

	if CanTransition(from, to, role) {
		return nil
	}

	// the role can reach "to" from some other status, so the current status is the problem
	for _, st := range constant.SelectionStatuses {
		if CanTransition(st, to, role) {
			return apperror.ErrInvalidTransition
		}
	}

	return apperror.Forbidden("role is not allowed to set this status", nil)
}
