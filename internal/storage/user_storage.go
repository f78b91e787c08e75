package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/google/uuid"
)

type userRow struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
}

func (r userRow) model() models.User {
	return models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    time.Unix(0, r.CreatedAt).UTC(),
	}
}

// CreateUser inserts a user. A taken username or email yields ErrUserExists.
func CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	var taken int
	err := db.GetContext(ctx, &taken,
		rebind("SELECT COUNT(*) FROM users WHERE username = ? OR email = ?"), username, email)
	if err != nil {
		return models.User{}, err
	}
	if taken > 0 {
		return models.User{}, ErrUserExists
	}

	row := userRow{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UnixNano(),
	}
	_, err = db.ExecContext(ctx,
		rebind("INSERT INTO users(id, username, email, password_hash, created_at) VALUES(?, ?, ?, ?, ?)"),
		row.ID, row.Username, row.Email, row.PasswordHash, row.CreatedAt)
	if err != nil {
		// a concurrent registration can still win the race
		if isUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	return row.model(), nil
}

func GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var row userRow
	err := db.GetContext(ctx, &row,
		rebind("SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?"), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return row.model(), nil
}
