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

type ListingHandler struct {
	listings *services.ListingService
}

func NewListingHandler(listings *services.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type createListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Amenities   []string `json:"amenities"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	listing, err := h.listings.Create(r.Context(), actor, services.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Images:      req.Images,
		Amenities:   req.Amenities,
	})
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "Listing created successfully", map[string]any{"listing": listing})
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ID("listing ID", chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	listing, err := h.listings.Get(r.Context(), id)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]any{"listing": listing})
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := validate.PageQuery(q)
	p := repo.NewPage(page, limit)

	in := services.SearchListingsInput{
		Location:  q.Get("location"),
		MinPrice:  validate.Float(q, "minPrice"),
		MaxPrice:  validate.Float(q, "maxPrice"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	listings, total, filters, err := h.listings.Search(r.Context(), in, p)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]any{
		"listings": listings,
		"filters":  filters,
		"pagination": httpx.Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: total,
			Pages: p.Pages(total),
		},
	})
}

func (h *ListingHandler) ListByHost(w http.ResponseWriter, r *http.Request) {
	hostID, err := validate.ID("host ID", chi.URLParam(r, "hostId"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	q := r.URL.Query()
	page, limit := validate.PageQuery(q)
	p := repo.NewPage(page, limit)

	listings, total, err := h.listings.ListByHost(r.Context(), hostID, q.Get("status"), p)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, map[string]any{
		"listings": listings,
		"pagination": httpx.Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: total,
			Pages: p.Pages(total),
		},
	})
}

type updateListingRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Price       *float64  `json:"price"`
	Images      *[]string `json:"images"`
	Amenities   *[]string `json:"amenities"`
	Status      *string   `json:"status"`
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ID("listing ID", chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	var req updateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	in := services.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Images:      req.Images,
		Amenities:   req.Amenities,
	}
	if req.Status != nil {
		st := models.ListingStatus(*req.Status)
		in.Status = &st
	}
	listing, err := h.listings.Update(r.Context(), actor, id, in)
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Listing updated successfully", map[string]any{"listing": listing})
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ID("listing ID", chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	if err := h.listings.Delete(r.Context(), actor, id); err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "Listing deleted successfully", nil)
}
