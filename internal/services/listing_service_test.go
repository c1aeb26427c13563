package services

import (
	"context"
	"testing"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/models"
	"github.com/homigo-app/homigo-backend/internal/policy"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

type listingFixture struct {
	svc      *ListingService
	users    *mockUsers
	listings *mockListings

	host models.User
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	f := &listingFixture{
		users:    newMockUsers(),
		listings: newMockListings(),
	}
	f.host = f.users.add(models.User{Name: "Host", Email: "host@example.com", Role: models.RoleHost})
	f.svc = NewListingService(f.listings, f.users, NewAuditor(&mockAuditLogs{}, nil))
	return f
}

func (f *listingFixture) actor(u models.User) policy.Actor {
	return policy.Actor{UserID: u.ID, Role: u.Role}
}

func validListingInput() CreateListingInput {
	return CreateListingInput{
		Title:       "Beach House",
		Description: "Steps from the ocean",
		Location:    "Lisbon",
		Price:       120,
	}
}

func TestCreateListing_Success(t *testing.T) {
	f := newListingFixture(t)

	l, err := f.svc.Create(context.Background(), f.actor(f.host), validListingInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if l.HostID != f.host.ID {
		t.Errorf("Expected host ID %d, got %d", f.host.ID, l.HostID)
	}
	if l.Status != models.ListingActive {
		t.Errorf("Expected status active, got %s", l.Status)
	}
	if l.Images == nil || l.Amenities == nil {
		t.Error("Expected images and amenities to default to empty slices")
	}
	if l.Host == nil || l.Host.ID != f.host.ID {
		t.Error("Expected host summary attached to created listing")
	}
}

func TestCreateListing_MissingFields(t *testing.T) {
	f := newListingFixture(t)

	in := validListingInput()
	in.Title = "  "
	_, err := f.svc.Create(context.Background(), f.actor(f.host), in)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestCreateListing_NonPositivePrice(t *testing.T) {
	f := newListingFixture(t)

	for _, price := range []float64{0, -10} {
		in := validListingInput()
		in.Price = price
		if _, err := f.svc.Create(context.Background(), f.actor(f.host), in); !apperr.IsKind(err, apperr.KindValidation) {
			t.Errorf("Expected validation error for price %v, got %v", price, err)
		}
	}
}

func TestSearchListings_ActiveOnlyAndFilters(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	f.listings.add(models.Listing{HostID: f.host.ID, Title: "A", Location: "Lisbon Center", Price: 50, Status: models.ListingActive})
	f.listings.add(models.Listing{HostID: f.host.ID, Title: "B", Location: "Porto", Price: 150, Status: models.ListingActive})
	f.listings.add(models.Listing{HostID: f.host.ID, Title: "C", Location: "Lisbon Hills", Price: 90, Status: models.ListingInactive})

	listings, total, _, err := f.svc.Search(ctx, SearchListingsInput{Location: "lisbon"}, repo.NewPage(1, 10))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if total != 1 || len(listings) != 1 {
		t.Fatalf("Expected 1 active Lisbon listing, got total=%d len=%d", total, len(listings))
	}
	if listings[0].Title != "A" {
		t.Errorf("Expected listing A, got %s", listings[0].Title)
	}

	min, max := 60.0, 200.0
	_, total, _, err = f.svc.Search(ctx, SearchListingsInput{MinPrice: &min, MaxPrice: &max}, repo.NewPage(1, 10))
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("Expected 1 listing in price range, got %d", total)
	}
}

func TestSearchListings_SortFallback(t *testing.T) {
	f := newListingFixture(t)

	_, _, filters, err := f.svc.Search(context.Background(), SearchListingsInput{SortBy: "drop table", SortOrder: "sideways"}, repo.NewPage(1, 10))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if filters.SortBy != models.SortCreatedAt || filters.SortOrder != "DESC" {
		t.Errorf("Expected fallback to created_at DESC, got %s %s", filters.SortBy, filters.SortOrder)
	}
}

func TestSearchListings_SortByPriceAsc(t *testing.T) {
	f := newListingFixture(t)

	f.listings.add(models.Listing{HostID: f.host.ID, Title: "Cheap", Location: "X", Price: 10, Status: models.ListingActive})
	f.listings.add(models.Listing{HostID: f.host.ID, Title: "Pricey", Location: "X", Price: 500, Status: models.ListingActive})

	listings, _, _, err := f.svc.Search(context.Background(), SearchListingsInput{SortBy: "price", SortOrder: "asc"}, repo.NewPage(1, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(listings) != 2 || listings[0].Title != "Cheap" {
		t.Errorf("Expected cheapest first, got %+v", listings)
	}
}

func TestSearchListings_Pagination(t *testing.T) {
	f := newListingFixture(t)

	for i := 0; i < 25; i++ {
		f.listings.add(models.Listing{HostID: f.host.ID, Title: "L", Location: "X", Price: 10, Status: models.ListingActive})
	}

	p := repo.NewPage(3, 10)
	listings, total, _, err := f.svc.Search(context.Background(), SearchListingsInput{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if total != 25 {
		t.Errorf("Expected total 25, got %d", total)
	}
	if len(listings) != 5 {
		t.Errorf("Expected 5 rows on page 3, got %d", len(listings))
	}
	if pages := p.Pages(total); pages != 3 {
		t.Errorf("Expected 3 pages, got %d", pages)
	}
}

func TestUpdateListing_OwnerOnly(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	other := f.users.add(models.User{Name: "Other", Email: "other@example.com", Role: models.RoleHost})

	l, err := f.svc.Create(ctx, f.actor(f.host), validListingInput())
	if err != nil {
		t.Fatal(err)
	}

	title := "Renamed"
	if _, err := f.svc.Update(ctx, f.actor(other), l.ID, UpdateListingInput{Title: &title}); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("Expected forbidden for non-owner, got %v", err)
	}

	updated, err := f.svc.Update(ctx, f.actor(f.host), l.ID, UpdateListingInput{Title: &title})
	if err != nil {
		t.Fatalf("Expected owner update to succeed, got %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Expected title Renamed, got %s", updated.Title)
	}
	// omitted fields keep their values
	if updated.Price != l.Price || updated.Location != l.Location {
		t.Error("Expected omitted fields to be left unchanged")
	}
}

func TestUpdateListing_AdminAllowed(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	admin := f.users.add(models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin})

	l, err := f.svc.Create(ctx, f.actor(f.host), validListingInput())
	if err != nil {
		t.Fatal(err)
	}

	suspended := models.ListingSuspended
	updated, err := f.svc.Update(ctx, f.actor(admin), l.ID, UpdateListingInput{Status: &suspended})
	if err != nil {
		t.Fatalf("Expected admin update to succeed, got %v", err)
	}
	if updated.Status != models.ListingSuspended {
		t.Errorf("Expected status suspended, got %s", updated.Status)
	}
}

func TestUpdateListing_InvalidPriceAndStatus(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()

	l, err := f.svc.Create(ctx, f.actor(f.host), validListingInput())
	if err != nil {
		t.Fatal(err)
	}

	zero := 0.0
	if _, err := f.svc.Update(ctx, f.actor(f.host), l.ID, UpdateListingInput{Price: &zero}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("Expected validation error for zero price, got %v", err)
	}
	bad := models.ListingStatus("bogus")
	if _, err := f.svc.Update(ctx, f.actor(f.host), l.ID, UpdateListingInput{Status: &bad}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("Expected validation error for bad status, got %v", err)
	}
}

func TestDeleteListing_OwnerOnly(t *testing.T) {
	f := newListingFixture(t)
	ctx := context.Background()
	other := f.users.add(models.User{Name: "Other", Email: "other@example.com", Role: models.RoleGuest})

	l, err := f.svc.Create(ctx, f.actor(f.host), validListingInput())
	if err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Delete(ctx, f.actor(other), l.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("Expected forbidden for non-owner, got %v", err)
	}
	if err := f.svc.Delete(ctx, f.actor(f.host), l.ID); err != nil {
		t.Fatalf("Expected owner delete to succeed, got %v", err)
	}
	if _, err := f.svc.Get(ctx, l.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected not found after delete, got %v", err)
	}
}
