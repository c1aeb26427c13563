package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/models"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

type listingsRepo struct{ pool *pgxpool.Pool }

func scanListing(row interface{ Scan(...any) error }, withHost bool) (models.Listing, error) {
	var (
		l                 models.Listing
		images, amenities []byte
	)
	dest := []any{
		&l.ID, &l.HostID, &l.Title, &l.Description, &l.Location, &l.Price,
		&images, &amenities, &l.Status, &l.CreatedAt, &l.UpdatedAt,
	}
	var host models.UserSummary
	if withHost {
		dest = append(dest, &host.ID, &host.Name, &host.Email, &host.Bio)
	}
	if err := row.Scan(dest...); err != nil {
		return models.Listing{}, err
	}
	if err := json.Unmarshal(images, &l.Images); err != nil {
		return models.Listing{}, err
	}
	if err := json.Unmarshal(amenities, &l.Amenities); err != nil {
		return models.Listing{}, err
	}
	if withHost {
		l.Host = &host
	}
	return l, nil
}

func (r *listingsRepo) Create(ctx context.Context, l models.Listing) (models.Listing, error) {
	images, err := json.Marshal(l.Images)
	if err != nil {
		return models.Listing{}, err
	}
	amenities, err := json.Marshal(l.Amenities)
	if err != nil {
		return models.Listing{}, err
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO listings(host_id, title, description, location, price, images, amenities, status)
		 VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, host_id, title, description, location, price, images, amenities, status, created_at, updated_at`,
		l.HostID, l.Title, l.Description, l.Location, l.Price, images, amenities, l.Status,
	)
	return scanListing(row, false)
}

func (r *listingsRepo) GetByID(ctx context.Context, id int64) (models.Listing, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT l.id, l.host_id, l.title, l.description, l.location, l.price,
		        l.images, l.amenities, l.status, l.created_at, l.updated_at,
		        u.id, u.name, u.email, u.bio
		   FROM listings l
		   JOIN users u ON l.host_id = u.id
		  WHERE l.id=$1`,
		id,
	)
	l, err := scanListing(row, true)
	if err != nil {
		if isNoRows(err) {
			return models.Listing{}, apperr.NotFound("Listing not found")
		}
		return models.Listing{}, err
	}
	return l, nil
}

func (r *listingsRepo) HostID(ctx context.Context, listingID int64) (int64, error) {
	var hostID int64
	err := r.pool.QueryRow(ctx, `SELECT host_id FROM listings WHERE id=$1`, listingID).Scan(&hostID)
	if err != nil {
		if isNoRows(err) {
			return 0, apperr.NotFound("Listing not found")
		}
		return 0, err
	}
	return hostID, nil
}

// Search builds the catalog query from the filter. SortBy and SortOrder are
// interpolated directly, so they must come through the service allow-list.
func (r *listingsRepo) Search(ctx context.Context, f repo.ListingFilter, p repo.Page) ([]models.Listing, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("l.status = $%d", f.Status)
	}
	if f.HostID != 0 {
		add("l.host_id = $%d", f.HostID)
	}
	if f.Location != "" {
		add("l.location ILIKE $%d", "%"+f.Location+"%")
	}
	if f.MinPrice != nil {
		add("l.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("l.price <= $%d", *f.MaxPrice)
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	sortBy, sortOrder := f.SortBy, f.SortOrder
	if sortBy == "" {
		sortBy = models.SortCreatedAt
	}
	if sortOrder == "" {
		sortOrder = "DESC"
	}

	q := fmt.Sprintf(
		`SELECT l.id, l.host_id, l.title, l.description, l.location, l.price,
		        l.images, l.amenities, l.status, l.created_at, l.updated_at,
		        u.id, u.name, u.email, u.bio
		   FROM listings l
		   JOIN users u ON l.host_id = u.id%s
		  ORDER BY l.%s %s
		  LIMIT %s OFFSET %s`,
		cond, sortBy, sortOrder, placeholder(len(args)+1), placeholder(len(args)+2),
	)

	rows, err := r.pool.Query(ctx, q, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows, true)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	countQ := `SELECT COUNT(*) FROM listings l` + cond
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *listingsRepo) Update(ctx context.Context, id int64, patch repo.ListingPatch) (models.Listing, error) {
	var images, amenities []byte
	if patch.Images != nil {
		b, err := json.Marshal(*patch.Images)
		if err != nil {
			return models.Listing{}, err
		}
		images = b
	}
	if patch.Amenities != nil {
		b, err := json.Marshal(*patch.Amenities)
		if err != nil {
			return models.Listing{}, err
		}
		amenities = b
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE listings
		    SET title = COALESCE($2, title),
		        description = COALESCE($3, description),
		        location = COALESCE($4, location),
		        price = COALESCE($5, price),
		        images = COALESCE($6, images),
		        amenities = COALESCE($7, amenities),
		        status = COALESCE($8, status),
		        updated_at = now()
		  WHERE id=$1
		  RETURNING id, host_id, title, description, location, price, images, amenities, status, created_at, updated_at`,
		id, patch.Title, patch.Description, patch.Location, patch.Price, images, amenities, patch.Status,
	)
	l, err := scanListing(row, false)
	if err != nil {
		if isNoRows(err) {
			return models.Listing{}, apperr.NotFound("Listing not found")
		}
		return models.Listing{}, err
	}
	return l, nil
}

func (r *listingsRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM listings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Listing not found")
	}
	return nil
}
