package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stayledger/backend/internal/ledger"
	"github.com/stayledger/backend/internal/models"
)

func TestAvailabilityService_SetAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an acting account", func(t *testing.T) {
		gw := &MockGateway{}
		svc := NewAvailabilityService(gw, nil)

		outcome := svc.SetAvailability(ctx, 3, false, "")

		assert.Equal(t, FailureNotAuthenticated, outcome.Kind)
		gw.AssertNotCalled(t, "SetRoomAvailability", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed toggle", func(t *testing.T) {
		gw := &MockGateway{}
		gw.On("SetRoomAvailability", mock.Anything, guest, int64(3), false).Return(ledger.PendingTx{Hash: "0xtoggle"}, nil)
		gw.On("WaitMined", mock.Anything, ledger.PendingTx{Hash: "0xtoggle"}).Return(confirmed("0xtoggle"), nil)

		refreshes := 0
		svc := NewAvailabilityService(gw, nil, WithRefreshSignal(func() { refreshes++ }))

		outcome := svc.SetAvailability(ctx, 3, false, guest)

		require.True(t, outcome.Applied)
		assert.Equal(t, ledger.TxHash("0xtoggle"), outcome.TxHash)
		assert.Equal(t, 1, refreshes)
	})

	t.Run("ledger decides authorization, client relays the reason", func(t *testing.T) {
		gw := &MockGateway{}
		gw.On("SetRoomAvailability", mock.Anything, guest, int64(3), true).Return(ledger.PendingTx{Hash: "0xtoggle"}, nil)
		gw.On("WaitMined", mock.Anything, ledger.PendingTx{Hash: "0xtoggle"}).Return(rejected("0xtoggle", "Only owner can set availability"), nil)

		refreshes := 0
		svc := NewAvailabilityService(gw, nil, WithRefreshSignal(func() { refreshes++ }))

		outcome := svc.SetAvailability(ctx, 3, true, guest)

		assert.False(t, outcome.Applied)
		assert.Equal(t, FailureSubmissionRejected, outcome.Kind)
		assert.Equal(t, "Only owner can set availability", outcome.Reason)
		// Displayed state is discarded after failure too, to avoid drift.
		assert.Equal(t, 1, refreshes)
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		gw := &MockGateway{}
		gw.On("SetRoomAvailability", mock.Anything, guest, int64(3), true).
			Return(ledger.PendingTx{}, fmt.Errorf("%w: timeout", ledger.ErrUnreachable))
		svc := NewAvailabilityService(gw, nil)

		outcome := svc.SetAvailability(ctx, 3, true, guest)

		assert.Equal(t, FailureGatewayUnreachable, outcome.Kind)
	})
}

func TestAvailabilityService_AddRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed room creation", func(t *testing.T) {
		gw := &MockGateway{}
		gw.On("AddRoom", mock.Anything, guest, models.CategorySuite, price("2.5")).Return(ledger.PendingTx{Hash: "0xroom"}, nil)
		gw.On("WaitMined", mock.Anything, ledger.PendingTx{Hash: "0xroom"}).Return(confirmed("0xroom"), nil)
		svc := NewAvailabilityService(gw, nil)

		outcome := svc.AddRoom(ctx, models.CategorySuite, price("2.5"), guest)

		require.True(t, outcome.Applied)
		gw.AssertExpectations(t)
	})

	t.Run("requires an acting account", func(t *testing.T) {
		gw := &MockGateway{}
		svc := NewAvailabilityService(gw, nil)

		outcome := svc.AddRoom(ctx, models.CategorySuite, price("2.5"), "")

		assert.Equal(t, FailureNotAuthenticated, outcome.Kind)
		gw.AssertNotCalled(t, "AddRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
