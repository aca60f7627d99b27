package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stayledger/backend/internal/ledger"
)

func TestReviewService_SubmitReview(t *testing.T) {
	ctx := context.Background()

	t.Run("out-of-range ratings fail locally before any gateway call", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1, 100} {
			gw := &MockGateway{}
			svc := NewReviewService(gw, nil)

			outcome := svc.SubmitReview(ctx, 3, rating, "nope", guest)

			assert.False(t, outcome.Submitted, "rating %d", rating)
			assert.Equal(t, FailureSubmissionRejected, outcome.Kind)
			gw.AssertNotCalled(t, "AddReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("boundary ratings are accepted", func(t *testing.T) {
		for _, rating := range []int{1, 5} {
			gw := &MockGateway{}
			gw.On("AddReview", mock.Anything, guest, int64(3), rating, "great stay").Return(ledger.PendingTx{Hash: "0xrev"}, nil)
			gw.On("WaitMined", mock.Anything, ledger.PendingTx{Hash: "0xrev"}).Return(confirmed("0xrev"), nil)
			svc := NewReviewService(gw, nil)

			outcome := svc.SubmitReview(ctx, 3, rating, "great stay", guest)

			require.True(t, outcome.Submitted, "rating %d", rating)
		}
	})

	t.Run("requires an acting account", func(t *testing.T) {
		gw := &MockGateway{}
		svc := NewReviewService(gw, nil)

		outcome := svc.SubmitReview(ctx, 3, 4, "great stay", "")

		assert.Equal(t, FailureNotAuthenticated, outcome.Kind)
		gw.AssertNotCalled(t, "AddReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("comment limits are the ledger's concern", func(t *testing.T) {
		longComment := make([]byte, 4096)
		for i := range longComment {
			longComment[i] = 'a'
		}

		gw := &MockGateway{}
		gw.On("AddReview", mock.Anything, guest, int64(3), 5, string(longComment)).Return(ledger.PendingTx{Hash: "0xrev"}, nil)
		gw.On("WaitMined", mock.Anything, ledger.PendingTx{Hash: "0xrev"}).Return(rejected("0xrev", "Comment too long"), nil)

		refreshes := 0
		svc := NewReviewService(gw, nil, WithRefreshSignal(func() { refreshes++ }))

		outcome := svc.SubmitReview(ctx, 3, 5, string(longComment), guest)

		assert.False(t, outcome.Submitted)
		assert.Equal(t, FailureSubmissionRejected, outcome.Kind)
		assert.Equal(t, "Comment too long", outcome.Reason)
		assert.Equal(t, 1, refreshes)
	})
}
