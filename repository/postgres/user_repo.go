package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/repository"
)

const userColumns = `id, name, email, bio, user_type, lat, lng, address, skills,
	total_points, rating, review_count, is_active, created_at, updated_at`

type userRepository struct {
	db DBTX
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM users
	WHERE ($1 = '' OR user_type = $1)
	  AND ($2::boolean IS FALSE OR is_active)
	  AND ($3::boolean IS FALSE OR (lat BETWEEN $4 AND $5 AND lng BETWEEN $6 AND $7))
	ORDER BY created_at ASC
	`
	var box domain.BoundingBox
	if filter.Box != nil {
		box = *filter.Box
	}
	rows, err := r.db.Query(ctx, query,
		string(filter.Role),
		filter.ActiveOnly,
		filter.Box != nil,
		box.MinLat, box.MaxLat, box.MinLng, box.MaxLng,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, name, email, bio, user_type, lat, lng, address, skills,
		total_points, rating, review_count, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, NOW()), NOW())
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		email = EXCLUDED.email,
		bio = EXCLUDED.bio,
		user_type = EXCLUDED.user_type,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		address = EXCLUDED.address,
		skills = EXCLUDED.skills,
		total_points = EXCLUDED.total_points,
		rating = EXCLUDED.rating,
		review_count = EXCLUDED.review_count,
		is_active = EXCLUDED.is_active,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	var lat, lng, address interface{}
	if user.Location != nil {
		lat, lng, address = user.Location.Lat, user.Location.Lng, user.Location.Address
	}

	return r.db.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Bio,
		string(user.Role),
		lat,
		lng,
		address,
		nonNil(user.Skills),
		user.TotalPoints,
		user.Rating,
		user.ReviewCount,
		user.Active,
		nullTime(user.CreatedAt),
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user     domain.User
		role     string
		lat, lng *float64
		address  *string
	)
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Bio,
		&role,
		&lat,
		&lng,
		&address,
		&user.Skills,
		&user.TotalPoints,
		&user.Rating,
		&user.ReviewCount,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = domain.Role(role)
	if lat != nil && lng != nil {
		user.Location = &domain.Location{Lat: *lat, Lng: *lng}
		if address != nil {
			user.Location.Address = *address
		}
	}
	return &user, nil
}
