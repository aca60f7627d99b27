package services

import (
	"context"
	"fmt"
	"log"

	"github.com/stayledger/backend/internal/ledger"
)

// RatingMin and RatingMax bound a review rating. Checked locally before any
// gateway call: a rating outside the range is guaranteed to fail on the ledger,
// so the round trip is not worth making. Comment length and content are the
// ledger's concern.
const (
	RatingMin = 1
	RatingMax = 5
)

// ReviewService attaches a rating/comment to a room: one mutation, one
// confirmation wait, no retries.
type ReviewService struct {
	gateway ledger.Gateway
	journal *JournalService
	hooks   hooks
}

func NewReviewService(gateway ledger.Gateway, journal *JournalService, opts ...Option) *ReviewService {
	return &ReviewService{
		gateway: gateway,
		journal: journal,
		hooks:   newHooks(opts),
	}
}

func (s *ReviewService) SubmitReview(ctx context.Context, roomID int64, rating int, comment string, account string) *ReviewOutcome {
	if account == "" {
		s.hooks.setState(StateFailed)
		return &ReviewOutcome{Kind: FailureNotAuthenticated, Reason: "acting account required"}
	}
	if rating < RatingMin || rating > RatingMax {
		s.hooks.setState(StateFailed)
		return &ReviewOutcome{
			Kind:   FailureSubmissionRejected,
			Reason: fmt.Sprintf("rating must be between %d and %d", RatingMin, RatingMax),
		}
	}

	s.hooks.setState(StateSubmitting)
	tx, err := s.gateway.AddReview(ctx, account, roomID, rating, comment)
	if err != nil {
		kind, reason := submitFailure(err)
		return s.fail(kind, reason)
	}
	s.journal.RecordSubmitted(ctx, account, SubmissionReview, tx)

	s.hooks.setState(StateConfirming)
	receipt, err := s.gateway.WaitMined(ctx, tx)
	if err != nil {
		return s.fail(FailureGatewayUnreachable, err.Error())
	}
	s.journal.RecordVerdict(ctx, tx, receipt)
	if !receipt.Confirmed() {
		return s.fail(FailureSubmissionRejected, receipt.Reason)
	}

	log.Printf("review confirmed: tx=%s room=%d rating=%d", tx.Hash, roomID, rating)
	s.hooks.setState(StateSucceeded)
	s.hooks.signalRefresh()
	return &ReviewOutcome{Submitted: true, TxHash: tx.Hash}
}

func (s *ReviewService) fail(kind FailureKind, reason string) *ReviewOutcome {
	s.hooks.setState(StateFailed)
	s.hooks.signalRefresh()
	return &ReviewOutcome{Kind: kind, Reason: reason}
}
