package services

import (
	"context"
	"strings"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/models"
	"github.com/homigo-app/homigo-backend/internal/policy"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

type ListingService struct {
	listings repo.Listings
	users    repo.Users
	audit    *Auditor
}

func NewListingService(listings repo.Listings, users repo.Users, audit *Auditor) *ListingService {
	return &ListingService{listings: listings, users: users, audit: audit}
}

type CreateListingInput struct {
	Title       string
	Description string
	Location    string
	Price       float64
	Images      []string
	Amenities   []string
}

func (s *ListingService) Create(ctx context.Context, actor policy.Actor, in CreateListingInput) (models.Listing, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Location) == "" || in.Price == 0 {
		return models.Listing{}, apperr.Validation("Title, description, location, and price are required")
	}
	if in.Price <= 0 {
		return models.Listing{}, apperr.Validation("Price must be greater than 0")
	}
	if in.Images == nil {
		in.Images = []string{}
	}
	if in.Amenities == nil {
		in.Amenities = []string{}
	}

	l := models.Listing{
		HostID:      actor.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Price:       in.Price,
		Images:      in.Images,
		Amenities:   in.Amenities,
		Status:      models.ListingActive,
	}
	created, err := s.listings.Create(ctx, l)
	if err != nil {
		return models.Listing{}, err
	}

	if host, err := s.users.GetByID(ctx, actor.UserID); err == nil {
		sum := host.Summary()
		created.Host = &sum
	}
	s.audit.record("listing", created.ID, "created", map[string]any{"host_id": actor.UserID})
	return created, nil
}

func (s *ListingService) Get(ctx context.Context, id int64) (models.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

type SearchListingsInput struct {
	Location  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
}

// SearchFilters is the normalized filter set echoed back to the client.
type SearchFilters struct {
	Location  string   `json:"location,omitempty"`
	MinPrice  *float64 `json:"minPrice"`
	MaxPrice  *float64 `json:"maxPrice"`
	SortBy    string   `json:"sortBy"`
	SortOrder string   `json:"sortOrder"`
}

// Search returns active listings only. Invalid sort input falls back to
// created_at DESC rather than erroring.
func (s *ListingService) Search(ctx context.Context, in SearchListingsInput, p repo.Page) ([]models.Listing, int, SearchFilters, error) {
	sortBy := in.SortBy
	if !models.ValidSortField(sortBy) {
		sortBy = models.SortCreatedAt
	}
	sortOrder := strings.ToUpper(in.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	f := repo.ListingFilter{
		Status:    string(models.ListingActive),
		Location:  in.Location,
		MinPrice:  in.MinPrice,
		MaxPrice:  in.MaxPrice,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
	listings, total, err := s.listings.Search(ctx, f, p)
	if err != nil {
		return nil, 0, SearchFilters{}, err
	}
	filters := SearchFilters{
		Location:  in.Location,
		MinPrice:  in.MinPrice,
		MaxPrice:  in.MaxPrice,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
	return listings, total, filters, nil
}

// ListByHost returns a host's listings in any status, newest first.
func (s *ListingService) ListByHost(ctx context.Context, hostID int64, status string, p repo.Page) ([]models.Listing, int, error) {
	f := repo.ListingFilter{
		HostID:    hostID,
		Status:    status,
		SortBy:    models.SortCreatedAt,
		SortOrder: "DESC",
	}
	return s.listings.Search(ctx, f, p)
}

type UpdateListingInput struct {
	Title       *string
	Description *string
	Location    *string
	Price       *float64
	Images      *[]string
	Amenities   *[]string
	Status      *models.ListingStatus
}

func (s *ListingService) Update(ctx context.Context, actor policy.Actor, id int64, in UpdateListingInput) (models.Listing, error) {
	hostID, err := s.listings.HostID(ctx, id)
	if err != nil {
		return models.Listing{}, err
	}
	if d := policy.CanMutateListing(actor, hostID); !d.Allowed {
		return models.Listing{}, apperr.Forbidden(d.Reason)
	}

	if in.Price != nil && *in.Price <= 0 {
		return models.Listing{}, apperr.Validation("Price must be greater than 0")
	}
	if in.Status != nil && !models.ValidListingStatus(*in.Status) {
		return models.Listing{}, apperr.Validation("Invalid status value")
	}

	patch := repo.ListingPatch{
		Title:       trimPtr(in.Title),
		Description: trimPtr(in.Description),
		Location:    trimPtr(in.Location),
		Price:       in.Price,
		Images:      in.Images,
		Amenities:   in.Amenities,
		Status:      in.Status,
	}
	updated, err := s.listings.Update(ctx, id, patch)
	if err != nil {
		return models.Listing{}, err
	}
	s.audit.record("listing", id, "updated", map[string]any{"by": actor.UserID})
	return updated, nil
}

func (s *ListingService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	hostID, err := s.listings.HostID(ctx, id)
	if err != nil {
		return err
	}
	if d := policy.CanMutateListing(actor, hostID); !d.Allowed {
		return apperr.Forbidden(d.Reason)
	}
	if err := s.listings.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.record("listing", id, "deleted", map[string]any{"by": actor.UserID})
	return nil
}
