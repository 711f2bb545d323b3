package repositories

import (
	"context"

	"momo-insights/pkg/database"
	"momo-insights/pkg/models"
)

// UserRepository defines the interface for user repository.
type UserRepository interface {
	// Create creates a new user.
	Create(ctx context.Context, user models.User) error
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

type UserRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (u UserRepositoryImpl) Create(ctx context.Context, user models.User) error {
	_, err := u.db.Exec(ctx, `INSERT INTO users (id, username, password_hash, created_at)
				VALUES ($1, $2, $3, $4)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)
	return err
}

func (u UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := u.db.QueryRow(ctx, `SELECT id, username, password_hash, created_at
				FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	return user, err
}
