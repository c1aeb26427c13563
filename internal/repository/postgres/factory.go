package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

type Repositories struct {
	Users     repo.Users
	Listings  repo.Listings
	Bookings  repo.Bookings
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:     &usersRepo{pool},
		Listings:  &listingsRepo{pool},
		Bookings:  &bookingsRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}
