package models

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

type Booking struct {
	ID           int64         `json:"id"`
	ListingID    int64         `json:"listing_id"`
	GuestID      int64         `json:"guest_id"`
	BookingDate  time.Time     `json:"booking_date"`
	CheckInDate  time.Time     `json:"check_in_date"`
	CheckOutDate time.Time     `json:"check_out_date"`
	TotalPrice   float64       `json:"total_price"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	Listing *ListingSummary `json:"listing,omitempty"`
	Guest   *UserSummary    `json:"guest,omitempty"`
	Host    *UserSummary    `json:"host,omitempty"`
}

// DatesOverlap reports whether two [check-in, check-out) ranges intersect.
// The interval is half-open: a checkout on day X does not conflict with a
// check-in on day X.
func DatesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// Nights counts whole nights between check-in and check-out, rounding any
// partial day up.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		nights++
	}
	return nights
}
