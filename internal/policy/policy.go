// Package policy centralizes the per-action authorization rules. Every rule
// returns an explicit Decision so the rule set is testable on its own; the
// caller is responsible for feeding it a freshly loaded owner id, never one
// taken from the request body.
package policy

import "github.com/homigo-app/homigo-backend/internal/models"

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// Actor is the verified caller identity derived from the bearer token.
type Actor struct {
	UserID int64
	Role   models.Role
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// CanMutateListing gates listing update and delete. Only the owning host may
// mutate; admins may delete through the same rule.
func CanMutateListing(a Actor, hostID int64) Decision {
	if a.UserID == hostID || a.IsAdmin() {
		return allow()
	}
	return deny("You can only modify your own listings")
}

// CanBookListing rejects self-booking.
func CanBookListing(a Actor, hostID int64) Decision {
	if a.UserID == hostID {
		return deny("You cannot book your own listing")
	}
	return allow()
}

// CanViewUserBookings allows a guest to read only their own booking list.
func CanViewUserBookings(a Actor, guestID int64) Decision {
	if a.UserID == guestID || a.IsAdmin() {
		return allow()
	}
	return deny("You can only view your own bookings")
}

// CanViewListingBookings allows the owning host to read a listing's bookings.
func CanViewListingBookings(a Actor, hostID int64) Decision {
	if a.UserID == hostID || a.IsAdmin() {
		return allow()
	}
	return deny("You can only view bookings for your own listings")
}

// CanTransitionBooking decides whether the actor may move a booking to
// target. Hosts of the listing may set any valid status; the booking's guest
// may only cancel; everyone else is denied. Transitions out of cancelled or
// completed are not blocked.
func CanTransitionBooking(a Actor, guestID, hostID int64, target models.BookingStatus) Decision {
	isHost := a.UserID == hostID
	isGuest := a.UserID == guestID

	switch {
	case isHost:
		return allow()
	case isGuest:
		if target == models.BookingCancelled {
			return allow()
		}
		return deny("Guests can only cancel bookings")
	default:
		return deny("You do not have permission to update this booking")
	}
}

// CanMutateUser gates profile updates and deletes: self-service only, except
// admins may delete accounts.
func CanMutateUser(a Actor, userID int64) Decision {
	if a.UserID == userID {
		return allow()
	}
	if a.IsAdmin() {
		return allow()
	}
	return deny("You can only update your own profile")
}
