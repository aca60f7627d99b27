package services

import (
	"context"
	"errors"
	"log"
	"math/big"

	"github.com/stayledger/backend/internal/ledger"
	"github.com/stayledger/backend/internal/models"
)

// AvailabilityService runs the single-mutation room management flows: toggling
// a room's availability and adding a room. The ledger alone decides who may
// mutate which room; rejections are surfaced verbatim rather than guessed at
// locally. Concurrent toggles from different clients are not coordinated — a
// confirmed toggle always wins over locally displayed state, which the refresh
// signal forces the caller to discard after every attempt.
type AvailabilityService struct {
	gateway ledger.Gateway
	journal *JournalService
	hooks   hooks
}

func NewAvailabilityService(gateway ledger.Gateway, journal *JournalService, opts ...Option) *AvailabilityService {
	return &AvailabilityService{
		gateway: gateway,
		journal: journal,
		hooks:   newHooks(opts),
	}
}

// SetAvailability submits the toggle and waits for the ledger's verdict.
func (s *AvailabilityService) SetAvailability(ctx context.Context, roomID int64, desired bool, account string) *ToggleOutcome {
	if account == "" {
		s.hooks.setState(StateFailed)
		return &ToggleOutcome{Kind: FailureNotAuthenticated, Reason: "acting account required"}
	}

	s.hooks.setState(StateSubmitting)
	tx, err := s.gateway.SetRoomAvailability(ctx, account, roomID, desired)
	if err != nil {
		return s.fail(submitFailure(err))
	}
	s.journal.RecordSubmitted(ctx, account, SubmissionAvailability, tx)

	s.hooks.setState(StateConfirming)
	receipt, err := s.gateway.WaitMined(ctx, tx)
	if err != nil {
		return s.fail(FailureGatewayUnreachable, err.Error())
	}
	s.journal.RecordVerdict(ctx, tx, receipt)
	if !receipt.Confirmed() {
		return s.fail(FailureSubmissionRejected, receipt.Reason)
	}

	log.Printf("availability confirmed: tx=%s room=%d available=%v", tx.Hash, roomID, desired)
	s.hooks.setState(StateSucceeded)
	s.hooks.signalRefresh()
	return &ToggleOutcome{Applied: true, TxHash: tx.Hash}
}

// AddRoom registers a new room on the ledger with an immutable nightly price.
func (s *AvailabilityService) AddRoom(ctx context.Context, category models.RoomCategory, pricePerNight *big.Int, account string) *ToggleOutcome {
	if account == "" {
		s.hooks.setState(StateFailed)
		return &ToggleOutcome{Kind: FailureNotAuthenticated, Reason: "acting account required"}
	}

	s.hooks.setState(StateSubmitting)
	tx, err := s.gateway.AddRoom(ctx, account, category, pricePerNight)
	if err != nil {
		return s.fail(submitFailure(err))
	}
	s.journal.RecordSubmitted(ctx, account, SubmissionAddRoom, tx)

	s.hooks.setState(StateConfirming)
	receipt, err := s.gateway.WaitMined(ctx, tx)
	if err != nil {
		return s.fail(FailureGatewayUnreachable, err.Error())
	}
	s.journal.RecordVerdict(ctx, tx, receipt)
	if !receipt.Confirmed() {
		return s.fail(FailureSubmissionRejected, receipt.Reason)
	}

	s.hooks.setState(StateSucceeded)
	s.hooks.signalRefresh()
	return &ToggleOutcome{Applied: true, TxHash: tx.Hash}
}

// fail ends the attempt; the refresh still fires because a mutation may have
// reached the ledger, and displayed state must be re-fetched either way.
func (s *AvailabilityService) fail(kind FailureKind, reason string) *ToggleOutcome {
	s.hooks.setState(StateFailed)
	s.hooks.signalRefresh()
	return &ToggleOutcome{Kind: kind, Reason: reason}
}

func submitFailure(err error) (FailureKind, string) {
	if errors.Is(err, ledger.ErrUnreachable) {
		return FailureGatewayUnreachable, err.Error()
	}
	return FailureSubmissionRejected, rejectionReason(err)
}
