package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
)

// ReceiptService renders booking receipt QR codes that point at the ledger
// explorer page for a transaction, so a guest can verify the confirmation on
// an independent device.
type ReceiptService struct {
	explorerBaseURL string
}

func NewReceiptService(explorerBaseURL string) *ReceiptService {
	return &ReceiptService{explorerBaseURL: strings.TrimRight(explorerBaseURL, "/")}
}

// ExplorerURL returns the public explorer link for a transaction hash.
func (s *ReceiptService) ExplorerURL(txHash string) string {
	return fmt.Sprintf("%s/tx/%s", s.explorerBaseURL, txHash)
}

// GenerateReceiptQR returns a base64 PNG QR code encoding the explorer URL.
func (s *ReceiptService) GenerateReceiptQR(txHash string) (string, error) {
	qr, err := qrcode.New(s.ExplorerURL(txHash), qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("build receipt qr for %s: %w", txHash, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", fmt.Errorf("encode receipt qr for %s: %w", txHash, err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
