package models

import "time"

type ListingStatus string

const (
	ListingActive    ListingStatus = "active"
	ListingInactive  ListingStatus = "inactive"
	ListingPending   ListingStatus = "pending"
	ListingSuspended ListingStatus = "suspended"
)

func ValidListingStatus(s ListingStatus) bool {
	switch s {
	case ListingActive, ListingInactive, ListingPending, ListingSuspended:
		return true
	}
	return false
}

type Listing struct {
	ID          int64         `json:"id"`
	HostID      int64         `json:"host_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Price       float64       `json:"price"`
	Images      []string      `json:"images"`
	Amenities   []string      `json:"amenities"`
	Status      ListingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Host *UserSummary `json:"host,omitempty"`
}

// ListingSummary is the joined listing shape embedded in booking responses.
type ListingSummary struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Location string   `json:"location"`
	Price    float64  `json:"price"`
	Images   []string `json:"images,omitempty"`
}

func (l *Listing) Summary() ListingSummary {
	return ListingSummary{ID: l.ID, Title: l.Title, Location: l.Location, Price: l.Price, Images: l.Images}
}

// Sortable listing columns; anything else falls back to created_at DESC.
const (
	SortCreatedAt = "created_at"
	SortPrice     = "price"
	SortTitle     = "title"
)

func ValidSortField(f string) bool {
	return f == SortCreatedAt || f == SortPrice || f == SortTitle
}
