package ledger

import (
	"context"
	"errors"
	"math/big"

	"github.com/stayledger/backend/internal/models"
)

// ErrUnreachable marks transport-level failures talking to the ledger gateway,
// as opposed to a ledger-level rejection of a valid request. Callers test for
// it with errors.Is.
var ErrUnreachable = errors.New("ledger gateway unreachable")

// TxHash identifies a submitted mutation on the ledger.
type TxHash string

// PendingTx is the handle returned by every mutating operation. The mutation
// has been sent but has no effect until the ledger confirms it; once sent it
// cannot be withdrawn by this client.
type PendingTx struct {
	Hash TxHash `json:"hash"`
}

type ReceiptStatus string

const (
	StatusConfirmed ReceiptStatus = "confirmed"
	StatusRejected  ReceiptStatus = "rejected"
)

// Receipt is the ledger's durable verdict on a pending transaction. Reason is
// the ledger-supplied human-readable string for rejections, empty when the
// ledger gave none.
type Receipt struct {
	Hash   TxHash        `json:"hash"`
	Status ReceiptStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
	Block  uint64        `json:"block,omitempty"`
}

func (r *Receipt) Confirmed() bool { return r != nil && r.Status == StatusConfirmed }

// Gateway is the authoritative remote ledger. All entity state is owned by the
// ledger; reads return fresh snapshots and are never cached on this side.
// Mutations return a PendingTx which must be driven to a Receipt via WaitMined.
type Gateway interface {
	// Reads.
	ListRooms(ctx context.Context) ([]models.Room, error)
	// RoomDetail resolves a room plus its reviews. The ledger keys this lookup
	// by room id or by category interchangeably.
	RoomDetail(ctx context.Context, roomRef int64) (*models.RoomDetail, error)
	BookingsByGuest(ctx context.Context, guest string) ([]models.Booking, error)
	Balance(ctx context.Context, account string) (*big.Int, error)
	// Allowance is the amount the booking contract may currently pull from the
	// owner's token balance. Always re-read inside the attempt that uses it.
	Allowance(ctx context.Context, owner string) (*big.Int, error)
	EstimateBooking(ctx context.Context, category models.RoomCategory, checkIn, checkOut int64) (*big.Int, error)

	// Mutations.
	Approve(ctx context.Context, owner string, amount *big.Int) (PendingTx, error)
	SubmitBooking(ctx context.Context, guest string, category models.RoomCategory, checkIn, checkOut int64, budget *big.Int) (PendingTx, error)
	SetRoomAvailability(ctx context.Context, owner string, roomID int64, available bool) (PendingTx, error)
	AddReview(ctx context.Context, guest string, roomID int64, rating int, comment string) (PendingTx, error)
	AddRoom(ctx context.Context, owner string, category models.RoomCategory, pricePerNight *big.Int) (PendingTx, error)

	// WaitMined blocks until the ledger reports tx confirmed or rejected.
	// Cancelling ctx abandons the wait for display purposes only; the
	// submitted mutation still takes effect on the ledger.
	WaitMined(ctx context.Context, tx PendingTx) (*Receipt, error)
}
