package lifecycle

import (
	"fmt"
	"strings"

	"tallermotos/internal/domain"
)

// Action is a workflow action requested against a work order.
type Action string

const (
	ActionDiagnose  Action = "diagnose"
	ActionStartWork Action = "start_work"
	ActionComplete  Action = "complete"
	ActionDeliver   Action = "deliver"
	ActionCancel    Action = "cancel"
)

// Context carries the data needed to validate transition preconditions.
type Context struct {
	Diagnosis string
	LineItems int
}

// transitions is the full state machine. An action absent for a state is an
// illegal transition; there are no silent no-ops.
var transitions = map[domain.OrderState]map[Action]domain.OrderState{
	domain.OrderReceived: {
		ActionDiagnose: domain.OrderDiagnosed,
		ActionCancel:   domain.OrderCancelled,
	},
	domain.OrderDiagnosed: {
		ActionStartWork: domain.OrderInProgress,
		ActionCancel:    domain.OrderCancelled,
	},
	domain.OrderInProgress: {
		ActionComplete: domain.OrderCompleted,
		ActionCancel:   domain.OrderCancelled,
	},
	domain.OrderCompleted: {
		ActionDeliver: domain.OrderDelivered,
		ActionCancel:  domain.OrderCancelled,
	},
}

// NextState validates an action against the current order state and its
// preconditions, returning the successor state. Pure; performs no I/O.
func NextState(current domain.OrderState, action Action, ctx Context) (domain.OrderState, error) {
	switch action {
	case ActionDiagnose, ActionStartWork, ActionComplete, ActionDeliver, ActionCancel:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	next, ok := transitions[current][action]
	if !ok {
		return "", fmt.Errorf("%w: %s from %s", ErrIllegalTransition, action, current)
	}

	switch action {
	case ActionDiagnose:
		d := strings.TrimSpace(ctx.Diagnosis)
		if len(d) < domain.DiagnosisMinLen {
			return "", fmt.Errorf("%w: diagnosis must be at least %d characters", ErrPreconditionFailed, domain.DiagnosisMinLen)
		}
		if len(d) > domain.DiagnosisMaxLen {
			return "", fmt.Errorf("%w: diagnosis must be at most %d characters", ErrPreconditionFailed, domain.DiagnosisMaxLen)
		}
	case ActionComplete:
		if ctx.LineItems < 1 {
			return "", fmt.Errorf("%w: order has no service lines or part usages", ErrPreconditionFailed)
		}
	}

	return next, nil
}

// CanApply reports whether an action is defined for a state, ignoring
// preconditions. Used to derive which workflow buttons a UI should render.
func CanApply(current domain.OrderState, action Action) bool {
	_, ok := transitions[current][action]
	return ok
}

// AvailableActions lists the actions defined for a state.
func AvailableActions(current domain.OrderState) []Action {
	out := make([]Action, 0, len(transitions[current]))
	for _, a := range []Action{ActionDiagnose, ActionStartWork, ActionComplete, ActionDeliver, ActionCancel} {
		if CanApply(current, a) {
			out = append(out, a)
		}
	}
	return out
}
