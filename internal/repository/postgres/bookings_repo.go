package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/models"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

type bookingsRepo struct{ pool *pgxpool.Pool }

const bookingCols = `id, listing_id, guest_id, booking_date, check_in_date, check_out_date, total_price, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.ListingID, &b.GuestID, &b.BookingDate, &b.CheckInDate, &b.CheckOutDate, &b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Create runs the conflict check and the insert in a single serializable
// transaction, holding an advisory lock keyed by the listing id so two
// concurrent requests for the same listing serialize against each other.
// The exclusion constraint on bookings remains the storage-level backstop;
// either path surfaces as a Conflict.
func (r *bookingsRepo) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return models.Booking{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, b.ListingID); err != nil {
		return models.Booking{}, err
	}

	var overlapping bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
		    SELECT 1 FROM bookings
		     WHERE listing_id = $1
		       AND status IN ('confirmed', 'pending')
		       AND check_in_date < $3
		       AND check_out_date > $2
		 )`,
		b.ListingID, b.CheckInDate, b.CheckOutDate,
	).Scan(&overlapping)
	if err != nil {
		return models.Booking{}, err
	}
	if overlapping {
		return models.Booking{}, apperr.Conflict("These dates are already booked or pending confirmation")
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO bookings(listing_id, guest_id, booking_date, check_in_date, check_out_date, total_price, status)
		 VALUES($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+bookingCols,
		b.ListingID, b.GuestID, b.BookingDate, b.CheckInDate, b.CheckOutDate, b.TotalPrice, b.Status,
	)
	created, err := scanBooking(row)
	if err != nil {
		if isConflict(err) {
			return models.Booking{}, apperr.Conflict("These dates are already booked")
		}
		return models.Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		if isConflict(err) {
			return models.Booking{}, apperr.Conflict("These dates are already booked")
		}
		return models.Booking{}, err
	}
	return created, nil
}

func (r *bookingsRepo) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if isNoRows(err) {
			return models.Booking{}, apperr.NotFound("Booking not found")
		}
		return models.Booking{}, err
	}
	return b, nil
}

const detailedBookingQuery = `
SELECT b.id, b.listing_id, b.guest_id, b.booking_date, b.check_in_date, b.check_out_date,
       b.total_price, b.status, b.created_at, b.updated_at,
       l.id, l.title, l.location, l.price, l.images,
       g.id, g.name, g.email,
       h.id, h.name, h.email
  FROM bookings b
  JOIN listings l ON b.listing_id = l.id
  JOIN users g ON b.guest_id = g.id
  JOIN users h ON l.host_id = h.id`

func scanDetailedBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var (
		b       models.Booking
		listing models.ListingSummary
		guest   models.UserSummary
		host    models.UserSummary
		images  []byte
	)
	err := row.Scan(
		&b.ID, &b.ListingID, &b.GuestID, &b.BookingDate, &b.CheckInDate, &b.CheckOutDate,
		&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		&listing.ID, &listing.Title, &listing.Location, &listing.Price, &images,
		&guest.ID, &guest.Name, &guest.Email,
		&host.ID, &host.Name, &host.Email,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if err := json.Unmarshal(images, &listing.Images); err != nil {
		return models.Booking{}, err
	}
	b.Listing = &listing
	b.Guest = &guest
	b.Host = &host
	return b, nil
}

func (r *bookingsRepo) GetDetailed(ctx context.Context, id int64) (models.Booking, error) {
	row := r.pool.QueryRow(ctx, detailedBookingQuery+` WHERE b.id=$1`, id)
	b, err := scanDetailedBooking(row)
	if err != nil {
		if isNoRows(err) {
			return models.Booking{}, apperr.NotFound("Booking not found")
		}
		return models.Booking{}, err
	}
	return b, nil
}

func (r *bookingsRepo) listDetailed(ctx context.Context, cond, countCond string, args []any, status string, p repo.Page) ([]models.Booking, int, error) {
	if status != "" {
		args = append(args, status)
		suffix := " AND b.status = " + placeholder(len(args))
		cond += suffix
		countCond += " AND status = " + placeholder(len(args))
	}
	countArgs := append([]any{}, args...)

	q := detailedBookingQuery + cond +
		` ORDER BY b.created_at DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	rows, err := r.pool.Query(ctx, q, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanDetailedBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+countCond, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *bookingsRepo) ListByGuest(ctx context.Context, guestID int64, status string, p repo.Page) ([]models.Booking, int, error) {
	return r.listDetailed(ctx, ` WHERE b.guest_id = $1`, ` WHERE guest_id = $1`, []any{guestID}, status, p)
}

func (r *bookingsRepo) ListByListing(ctx context.Context, listingID int64, status string, p repo.Page) ([]models.Booking, int, error) {
	return r.listDetailed(ctx, ` WHERE b.listing_id = $1`, ` WHERE listing_id = $1`, []any{listingID}, status, p)
}

func (r *bookingsRepo) ListAll(ctx context.Context, status string, p repo.Page) ([]models.Booking, int, error) {
	if status != "" {
		return r.listDetailed(ctx, ` WHERE b.status = $1`, ` WHERE status = $1`, []any{status}, "", p)
	}
	return r.listDetailed(ctx, ``, ``, nil, "", p)
}

func (r *bookingsRepo) UpdateStatus(ctx context.Context, id int64, status models.BookingStatus) (models.Booking, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE bookings SET status=$2, updated_at=now() WHERE id=$1 RETURNING `+bookingCols,
		id, status,
	)
	b, err := scanBooking(row)
	if err != nil {
		if isNoRows(err) {
			return models.Booking{}, apperr.NotFound("Booking not found")
		}
		if isConflict(err) {
			return models.Booking{}, apperr.Conflict("These dates are already booked")
		}
		return models.Booking{}, err
	}
	return b, nil
}
