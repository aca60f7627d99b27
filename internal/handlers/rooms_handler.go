package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stayledger/backend/internal/middleware"
	"github.com/stayledger/backend/internal/models"
	"github.com/stayledger/backend/internal/services"
)

type RoomsHandler struct {
	query        *services.QueryService
	availability *services.AvailabilityService
	review       *services.ReviewService
	validator    *services.ValidationHelper
}

func NewRoomsHandler(query *services.QueryService, availability *services.AvailabilityService, review *services.ReviewService) *RoomsHandler {
	return &RoomsHandler{
		query:        query,
		availability: availability,
		review:       review,
		validator:    services.NewValidationHelper(),
	}
}

// roomResponse is the display projection of a ledger room snapshot.
type roomResponse struct {
	ID            int64  `json:"id"`
	Category      string `json:"category"`
	CategoryID    int64  `json:"categoryId"`
	PricePerNight string `json:"pricePerNight"`
	PriceDisplay  string `json:"priceDisplay"`
	IsAvailable   bool   `json:"isAvailable"`
	Image         string `json:"image"`
}

func toRoomResponse(room models.Room) roomResponse {
	return roomResponse{
		ID:            room.ID,
		Category:      room.Category.String(),
		CategoryID:    int64(room.Category),
		PricePerNight: room.PricePerNight.String(),
		PriceDisplay:  models.FormatAmount(room.PricePerNight),
		IsAvailable:   room.IsAvailable,
		Image:         "/static/room-images/" + room.Category.ImageFile(),
	}
}

// ListRooms returns every room, fetched fresh from the ledger
// @Summary List rooms
// @Description Fetch all rooms from the booking ledger
// @Tags Rooms
// @Produce json
// @Success 200 {array} handlers.roomResponse
// @Failure 502 {object} services.ErrorResponse
// @Router /rooms [get]
func (h *RoomsHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.query.ListRooms(r.Context())
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadGateway, nil)
		return
	}

	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomResponse(room))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// GetRoom returns one room with its reviews
// @Summary Room detail
// @Tags Rooms
// @Produce json
// @Param roomId path int true "Room id"
// @Success 200 {object} object{room=handlers.roomResponse,reviews=[]models.Review}
// @Failure 502 {object} services.ErrorResponse
// @Router /rooms/{roomId} [get]
func (h *RoomsHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomId"), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid room id", http.StatusBadRequest, nil)
		return
	}

	detail, err := h.query.RoomDetail(r.Context(), roomID)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadGateway, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"room":    toRoomResponse(detail.Room),
		"reviews": detail.Reviews,
	})
}

// AddRoom registers a new room on the ledger
// @Summary Add room
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{category=int,pricePerNight=string} true "New room"
// @Success 201 {object} services.ToggleOutcome
// @Failure 400 {object} services.ErrorResponse
// @Router /rooms [post]
func (h *RoomsHandler) AddRoom(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())

	var req struct {
		Category      *int64 `json:"category" validate:"required"`
		PricePerNight string `json:"pricePerNight" validate:"required"`
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
	price, err := models.ParseAmount(req.PricePerNight)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	outcome := h.availability.AddRoom(r.Context(), category, price, account)
	writeToggleOutcome(w, outcome, http.StatusCreated)
}

// SetAvailability toggles a room's availability on the ledger
// @Summary Set room availability
// @Tags Rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room id"
// @Param request body object{available=bool} true "Desired availability"
// @Success 200 {object} services.ToggleOutcome
// @Failure 409 {object} services.ErrorResponse
// @Router /rooms/{roomId}/availability [post]
func (h *RoomsHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())

	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomId"), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid room id", http.StatusBadRequest, nil)
		return
	}

	var req struct {
		Available *bool `json:"available" validate:"required"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	outcome := h.availability.SetAvailability(r.Context(), roomID, *req.Available, account)
	writeToggleOutcome(w, outcome, http.StatusOK)
}

// SubmitReview attaches a rating and comment to a room
// @Summary Submit review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room id"
// @Param request body object{rating=int,comment=string} true "Review"
// @Success 201 {object} services.ReviewOutcome
// @Failure 400 {object} services.ErrorResponse
// @Router /rooms/{roomId}/reviews [post]
func (h *RoomsHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	account := middleware.AccountFromContext(r.Context())

	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomId"), 10, 64)
	if err != nil {
		services.SendErrorResponse(w, "Invalid room id", http.StatusBadRequest, nil)
		return
	}

	var req struct {
		Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
		Comment string `json:"comment"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	outcome := h.review.SubmitReview(r.Context(), roomID, req.Rating, req.Comment, account)
	if !outcome.Submitted {
		services.SendOutcomeError(w, outcome.Kind, outcome.Reason)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(outcome)
}

func writeToggleOutcome(w http.ResponseWriter, outcome *services.ToggleOutcome, successStatus int) {
	if !outcome.Applied {
		services.SendOutcomeError(w, outcome.Kind, outcome.Reason)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(successStatus)
	json.NewEncoder(w).Encode(outcome)
}

// decodeBody reads a single JSON object into dst, rejecting trailing data and
// unknown fields. Returns false after writing the error response.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}
