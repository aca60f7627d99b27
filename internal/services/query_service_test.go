package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stayledger/backend/internal/models"
)

func TestQueryService_EveryReadRefetches(t *testing.T) {
	gw := &MockGateway{}
	gw.On("ListRooms", mock.Anything).Return([]models.Room{deluxeDetail(true).Room}, nil)
	svc := NewQueryService(gw)

	for i := 0; i < 3; i++ {
		rooms, err := svc.ListRooms(context.Background())
		require.NoError(t, err)
		assert.Len(t, rooms, 1)
	}

	// No memoization: three calls mean three gateway reads.
	gw.AssertNumberOfCalls(t, "ListRooms", 3)
}

func TestQueryService_WrapsGatewayErrors(t *testing.T) {
	sentinel := errors.New("boom")
	gw := &MockGateway{}
	gw.On("Balance", mock.Anything, guest).Return(nil, sentinel)
	svc := NewQueryService(gw)

	_, err := svc.Balance(context.Background(), guest)
	assert.ErrorIs(t, err, sentinel)
}

func TestQueryService_RoomDetail(t *testing.T) {
	gw := &MockGateway{}
	gw.On("RoomDetail", mock.Anything, int64(3)).Return(deluxeDetail(true), nil)
	svc := NewQueryService(gw)

	detail, err := svc.RoomDetail(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryDeluxe, detail.Room.Category)
}
