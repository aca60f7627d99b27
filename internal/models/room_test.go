package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	for v, want := range map[int64]string{0: "Presidential", 1: "Deluxe", 2: "Suite"} {
		c, err := ParseCategory(v)
		assert.NoError(t, err)
		assert.Equal(t, want, c.String())
	}

	for _, v := range []int64{-1, 3, 99} {
		_, err := ParseCategory(v)
		assert.Error(t, err)
	}
}

func TestDaysBooked(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  int64
		checkOut int64
		want     int64
	}{
		{"exactly one day", 0, SecondsPerDay, 1},
		{"day and a half rounds up", 0, SecondsPerDay + SecondsPerDay/2, 2},
		{"one second rounds up", 0, 1, 1},
		{"three full days", 1700000000, 1700000000 + 3*SecondsPerDay, 3},
		{"equal dates", 100, 100, 0},
		{"inverted dates", 200, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBooked(tt.checkIn, tt.checkOut))
		})
	}
}

func TestTotalPrice(t *testing.T) {
	price := big.NewInt(1_000_000_000_000_000_000) // 1.0 in display units

	// checkIn day 0, checkOut day 1.5: charged for 2 days.
	total := TotalPrice(price, 0, SecondsPerDay+SecondsPerDay/2)
	assert.Equal(t, "2", FormatAmount(total))
}

func TestFormatAmount(t *testing.T) {
	amt, ok := new(big.Int).SetString("1500000000000000000", 10)
	assert.True(t, ok)
	assert.Equal(t, "1.5", FormatAmount(amt))
	assert.Equal(t, "0", FormatAmount(nil))
	assert.Equal(t, "0", FormatAmount(big.NewInt(0)))
}

func TestParseAmount(t *testing.T) {
	t.Run("round trips display amounts", func(t *testing.T) {
		for _, s := range []string{"0", "1.5", "0.000000000000000001", "42"} {
			amt, err := ParseAmount(s)
			assert.NoError(t, err)
			assert.Equal(t, s, FormatAmount(amt))
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		for _, s := range []string{"", "abc", "-1", "0.0000000000000000001"} {
			_, err := ParseAmount(s)
			assert.Error(t, err, s)
		}
	})
}
