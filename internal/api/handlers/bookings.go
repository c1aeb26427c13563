package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homigo-app/homigo-backend/internal/api/httpx"
	"github.com/homigo-app/homigo-backend/internal/api/validate"
	"github.com/homigo-app/homigo-backend/internal/middleware"
	"github.com/homigo-app/homigo-backend/internal/models"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
	"github.com/homigo-app/homigo-backend/internal/services"
)

type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	ListingID    int64  `json:"listing_id"`
	BookingDate  string `json:"booking_date"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ListingID == 0 || req.BookingDate == "" || req.CheckInDate == "" || req.CheckOutDate == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Listing ID, booking date, check-in date, and check-out date are required")
		return
	}

	bookingDate, err := validate.ParseDate("booking date", req.BookingDate)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	checkIn, err := validate.ParseDate("check-in date", req.CheckInDate)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	checkOut, err := validate.ParseDate("check-out date", req.CheckOutDate)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	booking, err := h.bookings.Create(r.Context(), actor, services.CreateBookingInput{
		ListingID:    req.ListingID,
		BookingDate:  bookingDate,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	})
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "Booking created successfully", map[string]any{"booking": booking})
}

func (h *BookingHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := validate.ID("user ID", chi.URLParam(r, "userId"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	q := r.URL.Query()
	page, limit := validate.PageQuery(q)
	p := repo.NewPage(page, limit)
	actor, _ := middleware.ActorFrom(r.Context())

	bookings, total, err := h.bookings.ListForGuest(r.Context(), actor, userID, q.Get("status"), p)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	writeBookingPage(w, bookings, p, total)
}

func (h *BookingHandler) ListForListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := validate.ID("listing ID", chi.URLParam(r, "listingId"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	q := r.URL.Query()
	page, limit := validate.PageQuery(q)
	p := repo.NewPage(page, limit)
	actor, _ := middleware.ActorFrom(r.Context())

	bookings, total, err := h.bookings.ListForListing(r.Context(), actor, listingID, q.Get("status"), p)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	writeBookingPage(w, bookings, p, total)
}

// ListAll is the admin monitoring view.
func (h *BookingHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := validate.PageQuery(q)
	p := repo.NewPage(page, limit)
	actor, _ := middleware.ActorFrom(r.Context())

	bookings, total, err := h.bookings.ListAll(r.Context(), actor, q.Get("status"), p)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	writeBookingPage(w, bookings, p, total)
}

type updateBookingStatusRequest struct {
	Status string `json:"status"`
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ID("booking ID", chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	var req updateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	booking, err := h.bookings.UpdateStatus(r.Context(), actor, id, models.BookingStatus(req.Status))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Booking "+req.Status+" successfully", map[string]any{"booking": booking})
}

func writeBookingPage(w http.ResponseWriter, bookings []models.Booking, p repo.Page, total int) {
	httpx.WriteData(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"pagination": httpx.Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: total,
			Pages: p.Pages(total),
		},
	})
}
