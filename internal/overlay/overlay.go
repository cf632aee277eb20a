// Package overlay merges local confirmation state onto parsed tasks. The
// parser never sees confirmations; they are stored and owned here.
package overlay

import (
	"time"

	"github.com/julianstephens/onboard/internal/models"
)

// Apply returns a copy of sections with each task's Confirmed and
// CompletionDate taken from state. Tasks without an entry are unconfirmed.
// The input is not modified.
func Apply(sections []models.Section, state models.ConfirmationState) []models.Section {
	out := make([]models.Section, len(sections))
	for i, s := range sections {
		tasks := make([]models.Task, len(s.Tasks))
		for j, t := range s.Tasks {
			c := state[t.ID]
			t.Confirmed = c.Confirmed
			t.CompletionDate = ""
			if c.Confirmed {
				t.CompletionDate = c.Date
			}
			tasks[j] = t
		}
		out[i] = models.Section{Title: s.Title, Tasks: tasks}
	}
	return out
}

// Toggle returns a new state with id marked checked or unchecked at now.
func Toggle(state models.ConfirmationState, id string, checked bool, now time.Time) models.ConfirmationState {
	next := state.Clone()
	stamp := now.UTC().Format(time.RFC3339)
	c := models.Confirmation{Confirmed: checked, UpdatedAt: stamp}
	if checked {
		c.Date = stamp
	}
	next[id] = c
	return next
}

// FromTasks rebuilds a state from imported tasks. Only confirmed tasks get an
// entry; a missing completion date defaults to now.
func FromTasks(tasks []models.Task, now time.Time) models.ConfirmationState {
	stamp := now.UTC().Format(time.RFC3339)
	state := make(models.ConfirmationState)
	for _, t := range tasks {
		if !t.Confirmed {
			continue
		}
		date := t.CompletionDate
		if date == "" {
			date = stamp
		}
		state[t.ID] = models.Confirmation{Confirmed: true, Date: date, UpdatedAt: stamp}
	}
	return state
}

// Supersede returns next plus an unconfirmed entry stamped now for every id
// in prev or ids that next leaves without an entry. A peer merging the
// result then sees those ids cleared at now instead of keeping an older
// confirmation.
func Supersede(prev, next models.ConfirmationState, ids []string, now time.Time) models.ConfirmationState {
	out := next.Clone()
	cleared := models.Confirmation{Confirmed: false, UpdatedAt: now.UTC().Format(time.RFC3339)}
	for id := range prev {
		if _, ok := out[id]; !ok {
			out[id] = cleared
		}
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = cleared
		}
	}
	return out
}

// Merge combines two states entry by entry. For each id the entry changed
// most recently wins, judged by UpdatedAt and falling back to Date when
// UpdatedAt is missing. Ties go to remote, the state read last.
func Merge(local, remote models.ConfirmationState) models.ConfirmationState {
	merged := local.Clone()
	for id, r := range remote {
		l, ok := merged[id]
		if !ok || !stamp(r).Before(stamp(l)) {
			merged[id] = r
		}
	}
	return merged
}

// Count returns the number of confirmed entries.
func Count(state models.ConfirmationState) int {
	n := 0
	for _, c := range state {
		if c.Confirmed {
			n++
		}
	}
	return n
}

func stamp(c models.Confirmation) time.Time {
	for _, v := range []string{c.UpdatedAt, c.Date} {
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
