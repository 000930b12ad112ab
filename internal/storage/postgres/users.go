package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/storage"
)

type userRepository struct {
	logger zerolog.Logger
	q      querier
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.GoogleID,
		&user.Email,
		&user.Name,
		&user.Picture,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT id::text,
       google_id,
       email,
       name,
       picture,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	user, err := scanUser(r.q.QueryRow(ctx, selectUserByIDQuery, id))
	if err != nil {
		return nil, fmt.Errorf("failed to select user by id: %w", classify(err))
	}
	return user, nil
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	const selectUserByGoogleIDQuery = `
SELECT id::text,
       google_id,
       email,
       name,
       picture,
       created_at,
       updated_at
FROM users
WHERE google_id = $1
`
	user, err := scanUser(r.q.QueryRow(ctx, selectUserByGoogleIDQuery, googleID))
	if err != nil {
		return nil, fmt.Errorf("failed to select user by google id: %w", classify(err))
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (google_id,
                   email,
                   name,
                   picture,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`
	err := r.q.QueryRow(
		ctx,
		insertUserQuery,
		user.GoogleID,
		user.Email,
		user.Name,
		user.Picture,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", classify(err))
	}
	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	const updateUserProfileQuery = `
UPDATE users
SET email      = $1,
    name       = $2,
    picture    = $3,
    updated_at = $4
WHERE id = $5
`
	tag, err := r.q.Exec(
		ctx,
		updateUserProfileQuery,
		user.Email,
		user.Name,
		user.Picture,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", classify(err))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
