package domain

import (
	"errors"
	"fmt"
	"time"
)

// CompletionState is a step of the completion workflow
type CompletionState string

const (
	CompletionEditable   CompletionState = "editable"
	CompletionCompleting CompletionState = "completing"
	CompletionCompleted  CompletionState = "completed"
)

// ErrInvalidTransition is returned for a transition the current state does not allow
var ErrInvalidTransition = errors.New("invalid completion transition")

// CompletionFlow drives a job order from editable to completed.
// Completed is terminal.
type CompletionFlow struct {
	jo    *JobOrder
	state CompletionState
}

// NewCompletionFlow starts a flow in the state implied by the job order
func NewCompletionFlow(jo *JobOrder) *CompletionFlow {
	state := CompletionEditable
	if jo.IsCompleted {
		state = CompletionCompleted
	}
	return &CompletionFlow{jo: jo, state: state}
}

// State returns the current state
func (f *CompletionFlow) State() CompletionState {
	return f.state
}

// Begin moves an editable job order whose unloading is finished into confirmation
func (f *CompletionFlow) Begin() error {
	switch f.state {
	case CompletionCompleted:
		return ErrJobOrderCompleted
	case CompletionCompleting:
		return fmt.Errorf("%w: already awaiting confirmation", ErrInvalidTransition)
	}
	if !f.jo.UnloadingFinished() {
		return ErrUnloadingNotFinished
	}
	f.state = CompletionCompleting
	return nil
}

// Cancel abandons confirmation without touching the job order
func (f *CompletionFlow) Cancel() error {
	if f.state != CompletionCompleting {
		return fmt.Errorf("%w: nothing to cancel from %s", ErrInvalidTransition, f.state)
	}
	f.state = CompletionEditable
	return nil
}

// Confirm completes the job order, stamping the completion date and remarks
func (f *CompletionFlow) Confirm(remarks string, now time.Time) error {
	if f.state != CompletionCompleting {
		if f.state == CompletionCompleted {
			return ErrJobOrderCompleted
		}
		return fmt.Errorf("%w: confirm requires begin", ErrInvalidTransition)
	}
	completedAt := now.UTC()
	f.jo.IsCompleted = true
	f.jo.DateCompleted = &completedAt
	f.jo.CompletionRemarks = remarks
	f.state = CompletionCompleted
	return nil
}
