package chain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Ledger accounts are 20-byte hex addresses. Incoming addresses are accepted in
// any casing and normalized to the EIP-55 mixed-case checksum form before they
// are handed to the gateway or compared.

const addressHexLen = 40

// NormalizeAddress validates addr and returns its checksummed form.
func NormalizeAddress(addr string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(addr), "0x")
	if len(trimmed) != addressHexLen {
		return "", fmt.Errorf("invalid account address %q: want %d hex chars", addr, addressHexLen)
	}
	if _, err := hex.DecodeString(trimmed); err != nil {
		return "", fmt.Errorf("invalid account address %q: %w", addr, err)
	}
	return "0x" + checksumHex(strings.ToLower(trimmed)), nil
}

// IsValidAddress reports whether addr parses as a ledger account address.
func IsValidAddress(addr string) bool {
	_, err := NormalizeAddress(addr)
	return err == nil
}

// ShortAddress renders the 0x1234...abcd form used in displays and logs.
func ShortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

func checksumHex(lowerHex string) string {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(lowerHex))
	digest := hasher.Sum(nil)

	out := []byte(lowerHex)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		// Uppercase when the matching checksum nibble is >= 8.
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}
