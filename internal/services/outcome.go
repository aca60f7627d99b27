package services

import (
	"errors"
	"math/big"
	"net/http"

	"github.com/stayledger/backend/internal/ledger"
)

// FailureKind classifies why an orchestration attempt ended without its
// mutation taking effect. Every abort is terminal for that attempt; the caller
// may re-invoke with fresh inputs but nothing is retried automatically.
type FailureKind string

const (
	FailureNotAuthenticated   FailureKind = "NOT_AUTHENTICATED"
	FailureRoomUnavailable    FailureKind = "ROOM_UNAVAILABLE"
	FailureInsufficientFunds  FailureKind = "INSUFFICIENT_FUNDS"
	FailureAuthorization      FailureKind = "AUTHORIZATION_FAILED"
	FailureEstimation         FailureKind = "ESTIMATION_FAILED"
	FailureSubmissionRejected FailureKind = "SUBMISSION_REJECTED"
	FailureGatewayUnreachable FailureKind = "GATEWAY_UNREACHABLE"
)

// HTTPStatus maps a failure kind onto the facade's response code.
func (k FailureKind) HTTPStatus() int {
	switch k {
	case FailureNotAuthenticated:
		return http.StatusUnauthorized
	case FailureRoomUnavailable, FailureInsufficientFunds, FailureAuthorization, FailureSubmissionRejected:
		return http.StatusConflict
	case FailureGatewayUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// State is the observable position of an in-flight orchestration attempt.
// Presentation only ever reads the current state; it never drives transitions.
type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateAuthorizing State = "authorizing"
	StateEstimating  State = "estimating"
	StateSubmitting  State = "submitting"
	StateConfirming  State = "confirming"
	StateSucceeded   State = "succeeded"
	StateFailed      State = "failed"
)

// BookingOutcome is the single terminal result of one AttemptBooking call.
type BookingOutcome struct {
	Booked     bool          `json:"booked"`
	Kind       FailureKind   `json:"kind,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	TxHash     ledger.TxHash `json:"txHash,omitempty"`
	DaysBooked int64         `json:"daysBooked,omitempty"`
	TotalPrice *big.Int      `json:"totalPrice,omitempty"`
}

// ToggleOutcome is the terminal result of a SetAvailability or AddRoom call.
type ToggleOutcome struct {
	Applied bool          `json:"applied"`
	Kind    FailureKind   `json:"kind,omitempty"`
	Reason  string        `json:"reason,omitempty"`
	TxHash  ledger.TxHash `json:"txHash,omitempty"`
}

// ReviewOutcome is the terminal result of a SubmitReview call.
type ReviewOutcome struct {
	Submitted bool          `json:"submitted"`
	Kind      FailureKind   `json:"kind,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	TxHash    ledger.TxHash `json:"txHash,omitempty"`
}

// Option configures an orchestrator service.
type Option func(*hooks)

type hooks struct {
	refresh    func()
	transition func(State)
}

// WithRefreshSignal wires the callback fired whenever a mutation reaches a
// definitive outcome, telling the presentation layer to re-query displayed
// state instead of patching it locally.
func WithRefreshSignal(fn func()) Option {
	return func(h *hooks) { h.refresh = fn }
}

// WithTransitionHook wires an observer for orchestrator state transitions.
func WithTransitionHook(fn func(State)) Option {
	return func(h *hooks) { h.transition = fn }
}

func newHooks(opts []Option) hooks {
	var h hooks
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

func (h hooks) setState(s State) {
	if h.transition != nil {
		h.transition(s)
	}
}

func (h hooks) signalRefresh() {
	if h.refresh != nil {
		h.refresh()
	}
}

// readFailure classifies an error from a read step. Transport failures abort
// the attempt the same way a validation failure does; the caller offers manual
// retry.
func readFailure(err error) (FailureKind, string) {
	if errors.Is(err, ledger.ErrUnreachable) {
		return FailureGatewayUnreachable, err.Error()
	}
	var rpcErr *ledger.RPCError
	if errors.As(err, &rpcErr) {
		return FailureGatewayUnreachable, rpcErr.Message
	}
	return FailureGatewayUnreachable, err.Error()
}
