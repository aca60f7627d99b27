package services

import (
	"context"
	"errors"
	"log"
	"math/big"

	"github.com/stayledger/backend/internal/ledger"
	"github.com/stayledger/backend/internal/models"
)

// BookingRequest carries one booking attempt. CheckIn/CheckOut are Unix
// seconds; the handler guarantees CheckIn < CheckOut before the orchestrator
// runs. Whether check-in may lie in the past is deliberately not enforced
// anywhere, matching the ledger contract's observed behavior.
type BookingRequest struct {
	Category models.RoomCategory
	CheckIn  int64
	CheckOut int64
	Account  string
}

// BookingService sequences a booking attempt into its ledger operations:
// freshness check, balance check, conditional authorization grant, fee
// estimation, submission, confirmation. Each step is a terminal abort point and
// nothing is retried automatically. Concurrent attempts are not coordinated —
// the ledger's atomic execution is the only double-booking guarantee, so a
// racing attempt is expected to lose at confirmation, not locally.
type BookingService struct {
	gateway ledger.Gateway
	journal *JournalService
	hooks   hooks
}

func NewBookingService(gateway ledger.Gateway, journal *JournalService, opts ...Option) *BookingService {
	return &BookingService{
		gateway: gateway,
		journal: journal,
		hooks:   newHooks(opts),
	}
}

// estimateMarginPercent is the safety margin applied on top of the ledger's
// advisory cost estimate. The budget is ceil(estimate * 120 / 100).
const estimateMarginPercent = 120

func budgetWithMargin(estimate *big.Int) *big.Int {
	budget := new(big.Int).Mul(estimate, big.NewInt(estimateMarginPercent))
	budget.Add(budget, big.NewInt(99))
	return budget.Div(budget, big.NewInt(100))
}

// AttemptBooking runs the full precondition-check, conditional-authorization,
// estimation, submission, confirmation sequence and reports one terminal
// outcome. The attempt holds only its own snapshots; re-invocation starts over
// from the freshness check with fresh reads.
func (s *BookingService) AttemptBooking(ctx context.Context, req BookingRequest) *BookingOutcome {
	if req.Account == "" {
		return s.fail(FailureNotAuthenticated, "acting account required", false)
	}

	// Step 1: freshness check. The room list that rendered the UI may be
	// arbitrarily stale relative to the ledger.
	s.hooks.setState(StateChecking)
	detail, err := s.gateway.RoomDetail(ctx, int64(req.Category))
	if err != nil {
		kind, reason := readFailure(err)
		return s.fail(kind, reason, false)
	}
	if !detail.Room.IsAvailable {
		return s.fail(FailureRoomUnavailable, "room is no longer available", false)
	}

	// Step 2: balance check.
	days := models.DaysBooked(req.CheckIn, req.CheckOut)
	totalPrice := models.TotalPrice(detail.Room.PricePerNight, req.CheckIn, req.CheckOut)

	balance, err := s.gateway.Balance(ctx, req.Account)
	if err != nil {
		kind, reason := readFailure(err)
		return s.fail(kind, reason, false)
	}
	if balance.Cmp(totalPrice) < 0 {
		return s.fail(FailureInsufficientFunds, "token balance below total price", false)
	}

	// Step 3: authorization. The allowance is re-read inside this attempt; a
	// previously observed value, or the nominal failure of a previous grant,
	// proves nothing about the current standing allowance.
	s.hooks.setState(StateAuthorizing)
	mutated := false
	allowance, err := s.gateway.Allowance(ctx, req.Account)
	if err != nil {
		kind, reason := readFailure(err)
		return s.fail(kind, reason, mutated)
	}
	if allowance.Cmp(totalPrice) < 0 {
		grantTx, err := s.gateway.Approve(ctx, req.Account, totalPrice)
		if err != nil {
			return s.fail(FailureAuthorization, err.Error(), mutated)
		}
		mutated = true
		s.journal.RecordSubmitted(ctx, req.Account, SubmissionApprove, grantTx)

		receipt, err := s.gateway.WaitMined(ctx, grantTx)
		if err != nil {
			return s.fail(FailureAuthorization, err.Error(), mutated)
		}
		s.journal.RecordVerdict(ctx, grantTx, receipt)
		if !receipt.Confirmed() {
			return s.fail(FailureAuthorization, receipt.Reason, mutated)
		}
	}

	// Step 4: fee estimation. Advisory only; never submit without a budget.
	s.hooks.setState(StateEstimating)
	estimate, err := s.gateway.EstimateBooking(ctx, req.Category, req.CheckIn, req.CheckOut)
	if err != nil {
		if errors.Is(err, ledger.ErrUnreachable) {
			return s.fail(FailureGatewayUnreachable, err.Error(), mutated)
		}
		return s.fail(FailureEstimation, err.Error(), mutated)
	}
	budget := budgetWithMargin(estimate)

	// Step 5: submission.
	s.hooks.setState(StateSubmitting)
	tx, err := s.gateway.SubmitBooking(ctx, req.Account, req.Category, req.CheckIn, req.CheckOut, budget)
	if err != nil {
		if errors.Is(err, ledger.ErrUnreachable) {
			return s.fail(FailureGatewayUnreachable, err.Error(), mutated)
		}
		return s.fail(FailureSubmissionRejected, rejectionReason(err), mutated)
	}
	mutated = true
	s.journal.RecordSubmitted(ctx, req.Account, SubmissionBooking, tx)

	// Step 6: confirmation wait. The submission stands even if this wait is
	// abandoned; cancellation only stops us from watching.
	s.hooks.setState(StateConfirming)
	receipt, err := s.gateway.WaitMined(ctx, tx)
	if err != nil {
		return s.fail(FailureGatewayUnreachable, err.Error(), mutated)
	}
	s.journal.RecordVerdict(ctx, tx, receipt)
	if !receipt.Confirmed() {
		return s.fail(FailureSubmissionRejected, receipt.Reason, mutated)
	}

	log.Printf("booking confirmed: tx=%s account=%s category=%s days=%d", tx.Hash, req.Account, req.Category, days)
	s.hooks.setState(StateSucceeded)
	s.hooks.signalRefresh()
	return &BookingOutcome{
		Booked:     true,
		TxHash:     tx.Hash,
		DaysBooked: days,
		TotalPrice: totalPrice,
	}
}

func (s *BookingService) fail(kind FailureKind, reason string, mutated bool) *BookingOutcome {
	s.hooks.setState(StateFailed)
	if mutated {
		// A grant or submission left the attempt; displayed state must be
		// re-fetched, never patched.
		s.hooks.signalRefresh()
	}
	return &BookingOutcome{Kind: kind, Reason: reason}
}

func rejectionReason(err error) string {
	var rpcErr *ledger.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Message
	}
	return err.Error()
}
