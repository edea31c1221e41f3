package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Action is something an actor can do to a job order
type Action string

const (
	ActionView             Action = "view"
	ActionCreate           Action = "create"
	ActionEdit             Action = "edit"
	ActionUpdateOperations Action = "updateOperations"
	ActionComplete         Action = "complete"
	ActionDelete           Action = "delete"
)

// allActions fixes the order AllowedActions reports in
var allActions = []Action{
	ActionView,
	ActionCreate,
	ActionEdit,
	ActionUpdateOperations,
	ActionComplete,
	ActionDelete,
}

var (
	// ErrActionForbidden means the actor's role or ownership does not permit the action
	ErrActionForbidden = errors.New("action not permitted for this user")
	// ErrJobOrderCompleted means the job order is completed and can no longer change
	ErrJobOrderCompleted = errors.New("job order is already completed")
	// ErrUnloadingNotFinished means completion was attempted before unloading finished
	ErrUnloadingNotFinished = errors.New("unloading must be finished before completion")
)

// Actor is the verified identity performing an action
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin reports whether the actor has the admin role
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// owns reports whether a sales actor created the job order
func (a Actor) owns(jo *JobOrder) bool {
	return a.Role == RoleSales && jo != nil && jo.OwnedBy(a.ID)
}

// ActionSet is an ordered set of permitted actions
type ActionSet []Action

// Has reports whether the set contains the action
func (s ActionSet) Has(a Action) bool {
	for _, x := range s {
		if x == a {
			return true
		}
	}
	return false
}

// Authorize decides whether actor may perform action on jo. jo is nil for create.
// Role and ownership failures return ErrActionForbidden; a permitted actor blocked
// by the record's state gets ErrJobOrderCompleted or ErrUnloadingNotFinished.
func Authorize(actor Actor, action Action, jo *JobOrder) error {
	switch action {
	case ActionView:
		if actor.Role == "" {
			return ErrActionForbidden
		}
		return nil

	case ActionCreate:
		if actor.IsAdmin() || actor.Role == RoleSales {
			return nil
		}
		return ErrActionForbidden

	case ActionEdit:
		if !actor.IsAdmin() && !actor.owns(jo) {
			return ErrActionForbidden
		}
		if jo != nil && jo.IsCompleted {
			return ErrJobOrderCompleted
		}
		return nil

	case ActionUpdateOperations:
		if !actor.IsAdmin() && actor.Role != RoleOperations {
			return ErrActionForbidden
		}
		if jo != nil && jo.IsCompleted {
			return ErrJobOrderCompleted
		}
		return nil

	case ActionComplete:
		if !actor.IsAdmin() && !actor.owns(jo) {
			return ErrActionForbidden
		}
		if jo == nil {
			return nil
		}
		if jo.IsCompleted {
			return ErrJobOrderCompleted
		}
		if !jo.UnloadingFinished() {
			return ErrUnloadingNotFinished
		}
		return nil

	case ActionDelete:
		// completed job orders stay deletable by admin
		if actor.IsAdmin() {
			return nil
		}
		return ErrActionForbidden
	}

	return ErrActionForbidden
}

// AllowedActions lists every action the actor may perform on jo right now.
// It is derived from Authorize so server checks and UI controls never disagree.
func AllowedActions(actor Actor, jo *JobOrder) ActionSet {
	set := make(ActionSet, 0, len(allActions))
	for _, a := range allActions {
		if Authorize(actor, a, jo) == nil {
			set = append(set, a)
		}
	}
	return set
}
