package repository

import (
	"context"

	"github.com/homigo-app/homigo-backend/internal/models"
)

// Page is a normalized pagination request. Use NewPage to apply the
// defaults (page 1, limit 10).
type Page struct {
	Page  int
	Limit int
}

func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// Pages computes the page count for a total row count.
func (p Page) Pages(total int) int {
	if total == 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

type UserPatch struct {
	Name           *string
	Email          *string
	Bio            *string
	ProfilePicture *string
}

type ListingPatch struct {
	Title       *string
	Description *string
	Location    *string
	Price       *float64
	Images      *[]string
	Amenities   *[]string
	Status      *models.ListingStatus
}

// ListingFilter holds the catalog search predicates. Location is a
// case-insensitive substring match; price bounds are inclusive; SortBy and
// SortOrder must already be validated against the allow-list.
type ListingFilter struct {
	Location  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
	Status    string
	HostID    int64
}

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context, role string, p Page) ([]models.User, int, error)
	UpdateProfile(ctx context.Context, id int64, patch UserPatch) (models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type Listings interface {
	Create(ctx context.Context, l models.Listing) (models.Listing, error)
	// GetByID returns the listing joined with its host summary.
	GetByID(ctx context.Context, id int64) (models.Listing, error)
	// HostID is the fresh ownership lookup run immediately before any
	// mutating query.
	HostID(ctx context.Context, listingID int64) (int64, error)
	Search(ctx context.Context, f ListingFilter, p Page) ([]models.Listing, int, error)
	Update(ctx context.Context, id int64, patch ListingPatch) (models.Listing, error)
	Delete(ctx context.Context, id int64) error
}

type Bookings interface {
	// Create re-checks for overlapping confirmed/pending bookings on the
	// same listing and inserts, all inside one serializable transaction that
	// holds an advisory lock keyed by the listing id. An overlap (either
	// found by the check or raised by the exclusion constraint) surfaces as
	// apperr.Conflict.
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	GetByID(ctx context.Context, id int64) (models.Booking, error)
	// GetDetailed joins the booking with listing, guest, and host summaries.
	GetDetailed(ctx context.Context, id int64) (models.Booking, error)
	ListByGuest(ctx context.Context, guestID int64, status string, p Page) ([]models.Booking, int, error)
	ListByListing(ctx context.Context, listingID int64, status string, p Page) ([]models.Booking, int, error)
	ListAll(ctx context.Context, status string, p Page) ([]models.Booking, int, error)
	UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) (models.Booking, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
