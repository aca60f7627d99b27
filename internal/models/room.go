package models

import (
	"fmt"
	"math/big"
)

// RoomCategory is the ledger's enumerated room tag. The numeric values are part
// of the contract ABI and must not be reordered.
type RoomCategory int64

const (
	CategoryPresidential RoomCategory = 0
	CategoryDeluxe       RoomCategory = 1
	CategorySuite        RoomCategory = 2
)

func (c RoomCategory) String() string {
	switch c {
	case CategoryPresidential:
		return "Presidential"
	case CategoryDeluxe:
		return "Deluxe"
	case CategorySuite:
		return "Suite"
	default:
		return "Unknown"
	}
}

// ImageFile maps a category to its display image, same fallback as the web UI.
func (c RoomCategory) ImageFile() string {
	switch c {
	case CategoryPresidential:
		return "2071.png"
	case CategoryDeluxe:
		return "2149.png"
	default:
		return "7715.png"
	}
}

// ParseCategory validates a raw category value from the API or the ledger.
func ParseCategory(v int64) (RoomCategory, error) {
	c := RoomCategory(v)
	if c < CategoryPresidential || c > CategorySuite {
		return 0, fmt.Errorf("unknown room category %d", v)
	}
	return c, nil
}

// Room is a transient snapshot of a ledger room record. It is valid only for
// the orchestration attempt that fetched it; the ledger may change it at any
// time through other clients.
type Room struct {
	ID            int64        `json:"id"`
	Category      RoomCategory `json:"category"`
	PricePerNight *big.Int     `json:"pricePerNight"`
	IsAvailable   bool         `json:"isAvailable"`
}

// Review is attached to a room on the ledger and never edited.
type Review struct {
	Guest   string `json:"guest"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// RoomDetail is the getRoomDetails projection: the room plus its reviews.
type RoomDetail struct {
	Room    Room     `json:"room"`
	Reviews []Review `json:"reviews"`
}

// Booking is created by the ledger as a side effect of a confirmed booking
// submission. Timestamps are Unix seconds; CheckOutDate > CheckInDate.
type Booking struct {
	Guest        string `json:"guest"`
	RoomID       int64  `json:"roomId"`
	CheckInDate  int64  `json:"checkInDate"`
	CheckOutDate int64  `json:"checkOutDate"`
}

// SecondsPerDay is the charging granularity: any fraction of a day occupied is
// billed as a full day.
const SecondsPerDay = 86400

// DaysBooked returns ceil((checkOut-checkIn)/86400).
func DaysBooked(checkIn, checkOut int64) int64 {
	if checkOut <= checkIn {
		return 0
	}
	return (checkOut - checkIn + SecondsPerDay - 1) / SecondsPerDay
}

// TotalPrice returns pricePerNight * DaysBooked(checkIn, checkOut).
func TotalPrice(pricePerNight *big.Int, checkIn, checkOut int64) *big.Int {
	return new(big.Int).Mul(pricePerNight, big.NewInt(DaysBooked(checkIn, checkOut)))
}
