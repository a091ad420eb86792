// repository/user_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, bool, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	TouchLogin(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, google_id, email, name, picture, last_login_at, created_at"

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, bool, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.GoogleID, &user.Email, &user.Name, &user.Picture, &user.LastLoginAt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		logger.GetLogger().WithError(err).Error("Failed to scan user")
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := `
		INSERT INTO users (google_id, email, name, picture, last_login_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, user.GoogleID, user.Email, user.Name, user.Picture, time.Now()).Scan(&id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("email", user.Email).Error("Failed to create user")
		return 0, err
	}
	return id, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET google_id = $1,
			name = $2,
			picture = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, user.GoogleID, user.Name, user.Picture, user.ID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("user_id", user.ID).Error("Failed to update user")
		return err
	}
	return nil
}

func (r *userRepository) TouchLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("user_id", id).Error("Failed to record login")
		return err
	}
	return nil
}
