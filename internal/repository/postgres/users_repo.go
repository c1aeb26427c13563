package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homigo-app/homigo-backend/internal/apperr"
	"github.com/homigo-app/homigo-backend/internal/models"
	repo "github.com/homigo-app/homigo-backend/internal/repository"
)

type usersRepo struct{ pool *pgxpool.Pool }

const userCols = `id, name, email, password_hash, role, bio, profile_picture, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Bio, &u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users(name, email, password_hash, role)
		 VALUES($1, $2, $3, $4)
		 RETURNING `+userCols,
		u.Name, u.Email, u.PasswordHash, u.Role,
	)
	created, err := scanUser(row)
	if err != nil {
		if isConflict(err) {
			return models.User{}, apperr.Conflict("User with this email already exists")
		}
		return models.User{}, err
	}
	return created, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email)
	u, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email=$1 AND id<>$2)`,
		email, excludeID,
	).Scan(&taken)
	return taken, err
}

func (r *usersRepo) List(ctx context.Context, role string, p repo.Page) ([]models.User, int, error) {
	q := `SELECT ` + userCols + ` FROM users`
	countQ := `SELECT COUNT(*) FROM users`
	args := []any{}
	if role != "" {
		q += ` WHERE role=$1`
		countQ += ` WHERE role=$1`
		args = append(args, role)
	}
	q += ` ORDER BY created_at DESC LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)

	rows, err := r.pool.Query(ctx, q, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id int64, patch repo.UserPatch) (models.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		    SET name = COALESCE($2, name),
		        email = COALESCE($3, email),
		        bio = COALESCE($4, bio),
		        profile_picture = COALESCE($5, profile_picture),
		        updated_at = now()
		  WHERE id=$1
		  RETURNING `+userCols,
		id, patch.Name, patch.Email, patch.Bio, patch.ProfilePicture,
	)
	u, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return models.User{}, apperr.NotFound("User not found")
		}
		if isConflict(err) {
			return models.User{}, apperr.Conflict("Email is already taken")
		}
		return models.User{}, err
	}
	return u, nil
}

func (r *usersRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash=$2, updated_at=now() WHERE id=$1`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

func (r *usersRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}
