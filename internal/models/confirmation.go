package models

import "time"

// Confirmation is the local completion state of a single task.
type Confirmation struct {
	Confirmed bool   `json:"confirmed"`
	Date      string `json:"date"`                // completion time, empty when unconfirmed
	UpdatedAt string `json:"updatedAt,omitempty"` // toggle time, drives merging
}

// ConfirmationState maps task id to its confirmation.
type ConfirmationState map[string]Confirmation

// Clone returns a shallow copy of the state. A nil state clones to an empty map.
func (s ConfirmationState) Clone() ConfirmationState {
	out := make(ConfirmationState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Progress is the persisted overlay row for one user.
type Progress struct {
	UserID        string
	Confirmations ConfirmationState
	UpdatedAt     time.Time
}
