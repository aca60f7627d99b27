package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/stayledger/backend/internal/middleware"
	"github.com/stayledger/backend/internal/models"
	"github.com/stayledger/backend/internal/services"
)

type BookingsHandler struct {
	query     *services.QueryService
	booking   *services.BookingService
	journal   *services.JournalService
	validator *services.ValidationHelper
}

func NewBookingsHandler(query *services.QueryService, booking *services.BookingService, journal *services.JournalService) *BookingsHandler {
	return &BookingsHandler{
		query:     query,
		booking:   booking,
		journal:   journal,
		validator: services.NewValidationHelper(),
	}
}

// CreateBooking runs the booking transaction for the authenticated guest
// @Summary Book a room
// @Description Runs the full check/authorize/estimate/submit/confirm sequence against the ledger
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{category=int,checkInDate=int,checkOutDate=int} true "Booking request"
// @Success 201 {object} services.BookingOutcome
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 502 {object} services.ErrorResponse
// @Router /bookings [post]
func (h *BookingsHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())

	var req struct {
		Category     *int64 `json:"category" validate:"required"`
		CheckInDate  int64  `json:"checkInDate" validate:"required,gt=0"`
		CheckOutDate int64  `json:"checkOutDate" validate:"required,gtfield=CheckInDate"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	category, err := models.ParseCategory(*req.Category)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	outcome := h.booking.AttemptBooking(r.Context(), services.BookingRequest{
		Category: category,
		CheckIn:  req.CheckInDate,
		CheckOut: req.CheckOutDate,
		Account:  account,
	})
	if !outcome.Booked {
		services.SendOutcomeError(w, outcome.Kind, outcome.Reason)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"booked":            true,
		"txHash":            outcome.TxHash,
		"daysBooked":        outcome.DaysBooked,
		"totalPrice":        outcome.TotalPrice.String(),
		"totalPriceDisplay": models.FormatAmount(outcome.TotalPrice),
	})
}

// ListBookings lists the authenticated guest's bookings
// @Summary List bookings
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Booking
// @Failure 502 {object} services.ErrorResponse
// @Router /bookings [get]
func (h *BookingsHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())

	bookings, err := h.query.BookingsByGuest(r.Context(), account)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadGateway, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

// PendingSubmissions returns the journal of this client's own submissions
// @Summary Submission journal
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.JournalEntry
// @Router /bookings/pending [get]
func (h *BookingsHandler) PendingSubmissions(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())

	entries, err := h.journal.HistoryFor(r.Context(), account)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// Balance returns the guest's token balance
// @Summary Account balance
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{balance=string,balanceDisplay=string}
// @Failure 502 {object} services.ErrorResponse
// @Router /account/balance [get]
func (h *BookingsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())

	balance, err := h.query.Balance(r.Context(), account)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadGateway, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"balance":        balance.String(),
		"balanceDisplay": models.FormatAmount(balance),
	})
}

// Allowance returns what the booking contract may currently spend
// @Summary Account allowance
// @Tags Account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{allowance=string,allowanceDisplay=string}
// @Failure 502 {object} services.ErrorResponse
// @Router /account/allowance [get]
func (h *BookingsHandler) Allowance(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())

	allowance, err := h.query.Allowance(r.Context(), account)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadGateway, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"allowance":        allowance.String(),
		"allowanceDisplay": models.FormatAmount(allowance),
	})
}
