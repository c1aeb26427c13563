package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/models"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

// In-memory repository doubles mirroring the postgres implementations'
// error semantics.

type mockUsers struct {
	users  map[int64]models.User
	nextID int64
}

func newMockUsers() *mockUsers {
	return &mockUsers{users: make(map[int64]models.User)}
}

func (m *mockUsers) add(u models.User) models.User {
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return u
}

func (m *mockUsers) Create(_ context.Context, u models.User) (models.User, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return models.User{}, apperr.Conflict("User with this email already exists")
		}
	}
	return m.add(u), nil
}

func (m *mockUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("User not found")
	}
	return u, nil
}

func (m *mockUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("User not found")
}

func (m *mockUsers) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUsers) List(_ context.Context, role string, p repo.Page) ([]models.User, int, error) {
	var all []models.User
	for _, u := range m.users {
		if role == "" || string(u.Role) == role {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	page := paginate(all, p)
	return page, len(all), nil
}

func (m *mockUsers) UpdateProfile(_ context.Context, id int64, patch repo.UserPatch) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, apperr.NotFound("User not found")
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Bio != nil {
		u.Bio = patch.Bio
	}
	if patch.ProfilePicture != nil {
		u.ProfilePicture = patch.ProfilePicture
	}
	u.UpdatedAt = time.Now()
	m.users[id] = u
	return u, nil
}

func (m *mockUsers) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *mockUsers) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return apperr.NotFound("User not found")
	}
	delete(m.users, id)
	return nil
}

type mockListings struct {
	listings map[int64]models.Listing
	nextID   int64
}

func newMockListings() *mockListings {
	return &mockListings{listings: make(map[int64]models.Listing)}
}

func (m *mockListings) add(l models.Listing) models.Listing {
	m.nextID++
	l.ID = m.nextID
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	m.listings[l.ID] = l
	return l
}

func (m *mockListings) Create(_ context.Context, l models.Listing) (models.Listing, error) {
	return m.add(l), nil
}

func (m *mockListings) GetByID(_ context.Context, id int64) (models.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return models.Listing{}, apperr.NotFound("Listing not found")
	}
	return l, nil
}

func (m *mockListings) HostID(_ context.Context, id int64) (int64, error) {
	l, ok := m.listings[id]
	if !ok {
		return 0, apperr.NotFound("Listing not found")
	}
	return l.HostID, nil
}

func (m *mockListings) Search(_ context.Context, f repo.ListingFilter, p repo.Page) ([]models.Listing, int, error) {
	var all []models.Listing
	for _, l := range m.listings {
		if f.Status != "" && string(l.Status) != f.Status {
			continue
		}
		if f.HostID != 0 && l.HostID != f.HostID {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(l.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.MinPrice != nil && l.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && l.Price > *f.MaxPrice {
			continue
		}
		all = append(all, l)
	}
	asc := f.SortOrder == "ASC"
	sort.Slice(all, func(i, j int) bool {
		var less bool
		switch f.SortBy {
		case models.SortPrice:
			less = all[i].Price < all[j].Price
		case models.SortTitle:
			less = all[i].Title < all[j].Title
		default:
			less = all[i].ID < all[j].ID
		}
		if asc {
			return less
		}
		return !less
	})
	page := paginate(all, p)
	return page, len(all), nil
}

func (m *mockListings) Update(_ context.Context, id int64, patch repo.ListingPatch) (models.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return models.Listing{}, apperr.NotFound("Listing not found")
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.Location != nil {
		l.Location = *patch.Location
	}
	if patch.Price != nil {
		l.Price = *patch.Price
	}
	if patch.Images != nil {
		l.Images = *patch.Images
	}
	if patch.Amenities != nil {
		l.Amenities = *patch.Amenities
	}
	if patch.Status != nil {
		l.Status = *patch.Status
	}
	l.UpdatedAt = time.Now()
	m.listings[id] = l
	return l, nil
}

func (m *mockListings) Delete(_ context.Context, id int64) error {
	if _, ok := m.listings[id]; !ok {
		return apperr.NotFound("Listing not found")
	}
	delete(m.listings, id)
	return nil
}

type mockBookings struct {
	bookings map[int64]models.Booking
	nextID   int64
}

func newMockBookings() *mockBookings {
	return &mockBookings{bookings: make(map[int64]models.Booking)}
}

// Create mirrors the transactional overlap check of the postgres repository.
func (m *mockBookings) Create(_ context.Context, b models.Booking) (models.Booking, error) {
	for _, existing := range m.bookings {
		if existing.ListingID != b.ListingID {
			continue
		}
		if existing.Status != models.BookingConfirmed && existing.Status != models.BookingPending {
			continue
		}
		if models.DatesOverlap(b.CheckInDate, b.CheckOutDate, existing.CheckInDate, existing.CheckOutDate) {
			return models.Booking{}, apperr.Conflict("These dates are already booked or pending confirmation")
		}
	}
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.bookings[b.ID] = b
	return b, nil
}

func (m *mockBookings) GetByID(_ context.Context, id int64) (models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, apperr.NotFound("Booking not found")
	}
	return b, nil
}

func (m *mockBookings) GetDetailed(ctx context.Context, id int64) (models.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m *mockBookings) list(filter func(models.Booking) bool, status string, p repo.Page) ([]models.Booking, int, error) {
	var all []models.Booking
	for _, b := range m.bookings {
		if !filter(b) {
			continue
		}
		if status != "" && string(b.Status) != status {
			continue
		}
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	page := paginate(all, p)
	return page, len(all), nil
}

func (m *mockBookings) ListByGuest(_ context.Context, guestID int64, status string, p repo.Page) ([]models.Booking, int, error) {
	return m.list(func(b models.Booking) bool { return b.GuestID == guestID }, status, p)
}

func (m *mockBookings) ListByListing(_ context.Context, listingID int64, status string, p repo.Page) ([]models.Booking, int, error) {
	return m.list(func(b models.Booking) bool { return b.ListingID == listingID }, status, p)
}

func (m *mockBookings) ListAll(_ context.Context, status string, p repo.Page) ([]models.Booking, int, error) {
	return m.list(func(models.Booking) bool { return true }, status, p)
}

func (m *mockBookings) UpdateStatus(_ context.Context, id int64, status models.BookingStatus) (models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return models.Booking{}, apperr.NotFound("Booking not found")
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	m.bookings[id] = b
	return b, nil
}

type mockAuditLogs struct {
	entries []models.AuditLog
}

func (m *mockAuditLogs) Create(_ context.Context, l models.AuditLog) error {
	m.entries = append(m.entries, l)
	return nil
}

func paginate[T any](all []T, p repo.Page) []T {
	start := p.Offset()
	if start >= len(all) {
		return nil
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
