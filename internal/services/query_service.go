package services

import (
	"context"
	"fmt"
	"math/big"

	"github.com/stayledger/backend/internal/ledger"
	"github.com/stayledger/backend/internal/models"
)

// QueryService is the stateless read layer over the ledger gateway. Every call
// re-fetches; nothing is memoized, so a returned snapshot is never staler than
// the moment it was requested. Snapshots still go stale immediately after —
// orchestrators re-check anything they rely on.
type QueryService struct {
	gateway ledger.Gateway
}

func NewQueryService(gateway ledger.Gateway) *QueryService {
	return &QueryService{gateway: gateway}
}

func (s *QueryService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.gateway.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *QueryService) RoomDetail(ctx context.Context, roomRef int64) (*models.RoomDetail, error) {
	detail, err := s.gateway.RoomDetail(ctx, roomRef)
	if err != nil {
		return nil, fmt.Errorf("room detail %d: %w", roomRef, err)
	}
	return detail, nil
}

func (s *QueryService) BookingsByGuest(ctx context.Context, guest string) ([]models.Booking, error) {
	bookings, err := s.gateway.BookingsByGuest(ctx, guest)
	if err != nil {
		return nil, fmt.Errorf("bookings for %s: %w", guest, err)
	}
	return bookings, nil
}

func (s *QueryService) Balance(ctx context.Context, account string) (*big.Int, error) {
	balance, err := s.gateway.Balance(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("balance of %s: %w", account, err)
	}
	return balance, nil
}

func (s *QueryService) Allowance(ctx context.Context, owner string) (*big.Int, error) {
	allowance, err := s.gateway.Allowance(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("allowance of %s: %w", owner, err)
	}
	return allowance, nil
}
