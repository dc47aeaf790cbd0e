package accounts

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidTransition = "INVALID_ACCOUNT_STATE_TRANSITION"
	textCodeTerminalState     = "TERMINAL_ACCOUNT_STATE"
)

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid account state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrTerminalState is returned when attempting to move away from the deleted status.
var ErrTerminalState = goerrors.New("account state is terminal", goerrors.CategoryConflict).
	WithTextCode(textCodeTerminalState).
	WithCode(goerrors.CodeConflict)

// ActorRef identifies who/what triggered a transition.
type ActorRef struct {
	ID   string
	Type string
}

// TransitionOption customizes a single transition.
type TransitionOption func(*transitionOptions)

// AccountStateMachine governs account status transitions. It mutates the
// account in memory; persisting the result is the caller's concern.
type AccountStateMachine interface {
	Transition(actor ActorRef, account *Account, target AccountStatus, opts ...TransitionOption) (*Account, error)
	CurrentStatus(account *Account) AccountStatus
}

// StateMachineOption customizes state machine construction.
type StateMachineOption func(*accountStateMachine)

// WithStateMachineClock injects a custom clock (useful for tests).
func WithStateMachineClock(clock func() time.Time) StateMachineOption {
	return func(sm *accountStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// WithTransitionReason sets the human-readable reason for the transition.
func WithTransitionReason(reason string) TransitionOption {
	return func(opts *transitionOptions) {
		opts.reason = reason
	}
}

// NewAccountStateMachine returns the default implementation. Statuses move
// along inactivated -> activated -> deleted; deletion is reachable from any
// non-terminal status and nothing leaves deleted.
func NewAccountStateMachine(opts ...StateMachineOption) AccountStateMachine {
	sm := &accountStateMachine{
		transitions: map[AccountStatus]map[AccountStatus]struct{}{
			AccountStatusInactivated: {
				AccountStatusActivated: {},
				AccountStatusDeleted:   {},
			},
			AccountStatusActivated: {
				AccountStatusDeleted: {},
			},
		},
		now: time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

type accountStateMachine struct {
	transitions map[AccountStatus]map[AccountStatus]struct{}
	now         func() time.Time
}

type transitionOptions struct {
	reason string
}

func (sm *accountStateMachine) Transition(actor ActorRef, account *Account, target AccountStatus, opts ...TransitionOption) (*Account, error) {
	if account == nil {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"target": target,
			"reason": "account is nil",
		})
	}

	account.EnsureStatus()
	from := account.Status
	if target == "" {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"reason": "target status is empty",
		})
	}

	// re-applying the current status is a no-op, so consuming an
	// activation link twice succeeds quietly
	if from == target {
		return account, nil
	}

	options := &transitionOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	if from == AccountStatusDeleted {
		return nil, ErrTerminalState.WithMetadata(map[string]any{
			"from": from,
			"to":   target,
		})
	}

	if !sm.canTransition(from, target) {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   from,
			"to":     target,
			"actor":  actor.ID,
			"reason": options.reason,
		})
	}

	sm.apply(account, target)

	return account, nil
}

func (sm *accountStateMachine) CurrentStatus(account *Account) AccountStatus {
	if account == nil {
		return ""
	}
	account.EnsureStatus()
	return account.Status
}

func (sm *accountStateMachine) canTransition(from, to AccountStatus) bool {
	if allowed, ok := sm.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

func (sm *accountStateMachine) apply(account *Account, target AccountStatus) {
	account.Status = target

	// DeletedAt stays owned by the persistence layer's soft delete; only
	// the activation timestamp is recorded here
	if target == AccountStatusActivated {
		now := sm.now()
		account.ActivatedAt = &now
	}
}
