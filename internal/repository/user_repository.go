package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/transit-pass/internal/model"
	"github.com/iliyamo/transit-pass/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = "id,username,email,password_hash,COALESCE(phone,''),notifications_enabled,theme,role,created_at"

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			if strings.Contains(err.Error(), "uq_users_username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.NotificationsEnabled, &u.Theme, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Phone, &u.NotificationsEnabled, &u.Theme, &u.Role, &u.CreatedAt)
	return u, err
}

// UpdateProfile rewrites the mutable profile fields of a user. Username
// and email collisions with *other* users are rejected with
// ErrUsernameExists / ErrEmailExists before the update is attempted.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, username, email, phone string, notifications bool, theme string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	var taken uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE username=? AND id<>? LIMIT 1", username, id).Scan(&taken)
	if err == nil {
		return ErrUsernameExists
	}
	if err != sql.ErrNoRows {
		return err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email=? AND id<>? LIMIT 1", email, id).Scan(&taken)
	if err == nil {
		return ErrEmailExists
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, email=?, phone=?, notifications_enabled=?, theme=? WHERE id=?",
		username, email, phone, notifications, theme, id)
	if err != nil && isDuplicateKey(err) {
		// Lost the race between the pre-check and the update.
		if strings.Contains(err.Error(), "uq_users_username") {
			return ErrUsernameExists
		}
		return ErrEmailExists
	}
	return err
}

// isDuplicateKey reports whether err is a MySQL duplicate-key error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
