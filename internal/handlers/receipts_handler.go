package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/stayledger/backend/internal/services"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)

type ReceiptsHandler struct {
	receipts *services.ReceiptService
}

func NewReceiptsHandler(receipts *services.ReceiptService) *ReceiptsHandler {
	return &ReceiptsHandler{receipts: receipts}
}

// GetReceiptQR renders a QR code linking to the explorer page for a transaction
// @Summary Booking receipt QR
// @Tags Receipts
// @Produce json
// @Param txHash path string true "Transaction hash"
// @Success 200 {object} object{txHash=string,explorerUrl=string,qrImage=string}
// @Failure 400 {object} services.ErrorResponse
// @Router /receipts/{txHash}/qr [get]
func (h *ReceiptsHandler) GetReceiptQR(w http.ResponseWriter, r *http.Request) {
	txHash := chi.URLParam(r, "txHash")
	if !txHashPattern.MatchString(txHash) {
		services.SendErrorResponse(w, "Invalid transaction hash", http.StatusBadRequest, nil)
		return
	}

	qrImage, err := h.receipts.GenerateReceiptQR(txHash)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"txHash":      txHash,
		"explorerUrl": h.receipts.ExplorerURL(txHash),
		"qrImage":     qrImage,
	})
}
