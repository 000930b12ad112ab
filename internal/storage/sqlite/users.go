package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/models"
)

type userRepository struct {
	logger zerolog.Logger
	q      sqlx.ExtContext
}

const selectUserQuery = `
SELECT id, google_id, email, name, picture, created_at, updated_at
FROM users`

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, r.q, &row, selectUserQuery+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, classify(err))
	}
	return row.model(), nil
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, r.q, &row, selectUserQuery+" WHERE google_id = ?", googleID)
	if err != nil {
		return nil, fmt.Errorf("getting user by google id: %w", classify(err))
	}
	return row.model(), nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	id := newID()
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, google_id, email, name, picture, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, user.GoogleID, user.Email, user.Name, user.Picture,
		toMillis(user.CreatedAt), toMillis(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating user: %w", classify(err))
	}
	user.ID = id

	r.logger.Debug().
		Str("user_id", id).
		Msg("inserted user")
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	result, err := r.q.ExecContext(ctx, `
		UPDATE users SET email = ?, name = ?, picture = ?, updated_at = ?
		WHERE id = ?`,
		user.Email, user.Name, user.Picture, toMillis(user.UpdatedAt), user.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user %s: %w", user.ID, classify(err))
	}
	return rowsAffected(result)
}
