package services

import (
	"context"
	"time"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/metrics"
	"github.com/homigo-app/homigo-backend/internal/models"
	"github.com/homigo-app/homigo-backend/internal/policy"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

type BookingService struct {
	bookings repo.Bookings
	listings repo.Listings
	audit    *Auditor

	// autoConfirm selects the status a fresh booking starts in: confirmed
	// (instant confirmation) or pending awaiting the host.
	autoConfirm bool

	now func() time.Time
}

func NewBookingService(bookings repo.Bookings, listings repo.Listings, audit *Auditor, autoConfirm bool) *BookingService {
	return &BookingService{
		bookings:    bookings,
		listings:    listings,
		audit:       audit,
		autoConfirm: autoConfirm,
		now:         time.Now,
	}
}

type CreateBookingInput struct {
	ListingID    int64
	BookingDate  time.Time
	CheckInDate  time.Time
	CheckOutDate time.Time
}

// today returns the current calendar day at midnight UTC, matching how
// request dates are parsed.
func (s *BookingService) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Create applies the full reservation contract: date validation, listing
// state, self-booking, overlap conflict, server-computed price. The overlap
// check and the insert run atomically in the repository.
func (s *BookingService) Create(ctx context.Context, actor policy.Actor, in CreateBookingInput) (models.Booking, error) {
	if in.ListingID == 0 || in.BookingDate.IsZero() || in.CheckInDate.IsZero() || in.CheckOutDate.IsZero() {
		return models.Booking{}, apperr.Validation("Listing ID, booking date, check-in date, and check-out date are required")
	}
	if !in.CheckInDate.Before(in.CheckOutDate) {
		return models.Booking{}, apperr.Validation("Check-out date must be after check-in date")
	}
	if in.CheckInDate.Before(s.today()) {
		return models.Booking{}, apperr.Validation("Check-in date cannot be in the past")
	}
	if in.BookingDate.After(in.CheckInDate) {
		return models.Booking{}, apperr.Validation("Booking date cannot be after check-in date")
	}

	listing, err := s.listings.GetByID(ctx, in.ListingID)
	if err != nil {
		return models.Booking{}, err
	}
	if listing.Status != models.ListingActive {
		return models.Booking{}, apperr.InvalidState("Listing is not available for booking")
	}
	if d := policy.CanBookListing(actor, listing.HostID); !d.Allowed {
		return models.Booking{}, apperr.Forbidden(d.Reason)
	}

	nights := models.Nights(in.CheckInDate, in.CheckOutDate)
	if nights <= 0 {
		return models.Booking{}, apperr.Validation("Check-out date must be after check-in date")
	}

	status := models.BookingConfirmed
	if !s.autoConfirm {
		status = models.BookingPending
	}

	b := models.Booking{
		ListingID:    in.ListingID,
		GuestID:      actor.UserID,
		BookingDate:  in.BookingDate,
		CheckInDate:  in.CheckInDate,
		CheckOutDate: in.CheckOutDate,
		TotalPrice:   float64(nights) * listing.Price,
		Status:       status,
	}
	created, err := s.bookings.Create(ctx, b)
	if err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			metrics.BookingConflicts.Inc()
		}
		return models.Booking{}, err
	}
	metrics.BookingsCreated.WithLabelValues(string(status)).Inc()
	s.audit.record("booking", created.ID, "created", map[string]any{
		"listing_id": in.ListingID,
		"guest_id":   actor.UserID,
		"status":     string(status),
	})

	return s.bookings.GetDetailed(ctx, created.ID)
}

// ListForGuest returns a user's own bookings; anyone else's are off limits.
func (s *BookingService) ListForGuest(ctx context.Context, actor policy.Actor, guestID int64, status string, p repo.Page) ([]models.Booking, int, error) {
	if d := policy.CanViewUserBookings(actor, guestID); !d.Allowed {
		return nil, 0, apperr.Forbidden(d.Reason)
	}
	if err := validateStatusFilter(status); err != nil {
		return nil, 0, err
	}
	return s.bookings.ListByGuest(ctx, guestID, status, p)
}

// ListForListing returns a listing's bookings for its host.
func (s *BookingService) ListForListing(ctx context.Context, actor policy.Actor, listingID int64, status string, p repo.Page) ([]models.Booking, int, error) {
	hostID, err := s.listings.HostID(ctx, listingID)
	if err != nil {
		return nil, 0, err
	}
	if d := policy.CanViewListingBookings(actor, hostID); !d.Allowed {
		return nil, 0, apperr.Forbidden(d.Reason)
	}
	if err := validateStatusFilter(status); err != nil {
		return nil, 0, err
	}
	return s.bookings.ListByListing(ctx, listingID, status, p)
}

// ListAll is the admin monitoring view across every booking.
func (s *BookingService) ListAll(ctx context.Context, actor policy.Actor, status string, p repo.Page) ([]models.Booking, int, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperr.Forbidden("Only admins can view all bookings")
	}
	if err := validateStatusFilter(status); err != nil {
		return nil, 0, err
	}
	return s.bookings.ListAll(ctx, status, p)
}

// UpdateStatus moves a booking to target if the caller's relation to it
// permits. The owner is re-derived from a fresh listing lookup, never from
// the request.
func (s *BookingService) UpdateStatus(ctx context.Context, actor policy.Actor, id int64, target models.BookingStatus) (models.Booking, error) {
	if !models.ValidBookingStatus(target) {
		return models.Booking{}, apperr.Validation("Valid status is required (pending, confirmed, cancelled, completed)")
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return models.Booking{}, err
	}
	hostID, err := s.listings.HostID(ctx, b.ListingID)
	if err != nil {
		return models.Booking{}, err
	}
	if d := policy.CanTransitionBooking(actor, b.GuestID, hostID, target); !d.Allowed {
		return models.Booking{}, apperr.Forbidden(d.Reason)
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, target)
	if err != nil {
		return models.Booking{}, err
	}
	s.audit.record("booking", id, "status_change", map[string]any{
		"from": string(b.Status),
		"to":   string(target),
		"by":   actor.UserID,
	})
	return updated, nil
}

func validateStatusFilter(status string) error {
	if status != "" && !models.ValidBookingStatus(models.BookingStatus(status)) {
		return apperr.Validation("Valid status is required (pending, confirmed, cancelled, completed)")
	}
	return nil
}
