package services

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/stayledger/backend/internal/ledger"
	"github.com/stayledger/backend/internal/models"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockGateway) RoomDetail(ctx context.Context, roomRef int64) (*models.RoomDetail, error) {
	args := m.Called(ctx, roomRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoomDetail), args.Error(1)
}

func (m *MockGateway) BookingsByGuest(ctx context.Context, guest string) ([]models.Booking, error) {
	args := m.Called(ctx, guest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockGateway) Balance(ctx context.Context, account string) (*big.Int, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockGateway) Allowance(ctx context.Context, owner string) (*big.Int, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockGateway) EstimateBooking(ctx context.Context, category models.RoomCategory, checkIn, checkOut int64) (*big.Int, error) {
	args := m.Called(ctx, category, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockGateway) Approve(ctx context.Context, owner string, amount *big.Int) (ledger.PendingTx, error) {
	args := m.Called(ctx, owner, amount)
	return args.Get(0).(ledger.PendingTx), args.Error(1)
}

func (m *MockGateway) SubmitBooking(ctx context.Context, guest string, category models.RoomCategory, checkIn, checkOut int64, budget *big.Int) (ledger.PendingTx, error) {
	args := m.Called(ctx, guest, category, checkIn, checkOut, budget)
	return args.Get(0).(ledger.PendingTx), args.Error(1)
}

func (m *MockGateway) SetRoomAvailability(ctx context.Context, owner string, roomID int64, available bool) (ledger.PendingTx, error) {
	args := m.Called(ctx, owner, roomID, available)
	return args.Get(0).(ledger.PendingTx), args.Error(1)
}

func (m *MockGateway) AddReview(ctx context.Context, guest string, roomID int64, rating int, comment string) (ledger.PendingTx, error) {
	args := m.Called(ctx, guest, roomID, rating, comment)
	return args.Get(0).(ledger.PendingTx), args.Error(1)
}

func (m *MockGateway) AddRoom(ctx context.Context, owner string, category models.RoomCategory, pricePerNight *big.Int) (ledger.PendingTx, error) {
	args := m.Called(ctx, owner, category, pricePerNight)
	return args.Get(0).(ledger.PendingTx), args.Error(1)
}

func (m *MockGateway) WaitMined(ctx context.Context, tx ledger.PendingTx) (*ledger.Receipt, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Receipt), args.Error(1)
}
