package repository

import (
	"context"
	"database/sql"

	"spoty/model"
)

// UserRepository defines the interface for user record operations. The id is
// the identity provider's opaque id, never assigned here.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateRole(ctx context.Context, id string, role model.Role) error
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

const userColumns = "id, email, display_name, role, created_at"

// GetByID retrieves a user by id. A missing record is (nil, nil), not an error.
func (r *mysqlUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storeErr("users", "getById", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email. A missing record is (nil, nil).
func (r *mysqlUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storeErr("users", "getByEmail", err)
	}
	return user, nil
}

// Create inserts a user record. Unlike the catalog collections, created_at is
// written explicitly: it records the moment of first sign-in, set once by the
// session layer and never rewritten.
func (r *mysqlUserRepository) Create(ctx context.Context, user *model.User) error {
	var displayName sql.NullString
	if user.DisplayName != nil {
		displayName = sql.NullString{String: *user.DisplayName, Valid: true}
	}

	query := "INSERT INTO users (id, email, display_name, role, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Email, displayName, string(user.Role), user.CreatedAt); err != nil {
		return storeErr("users", "create", err)
	}
	return nil
}

// UpdateRole changes a user's role. Reserved for the out-of-band admin command.
func (r *mysqlUserRepository) UpdateRole(ctx context.Context, id string, role model.Role) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", string(role), id); err != nil {
		return storeErr("users", "updateRole", err)
	}
	return nil
}

func scanUser(row scanner) (*model.User, error) {
	user := &model.User{}
	var displayName sql.NullString
	var role string
	var createdAt sql.NullTime
	if err := row.Scan(&user.ID, &user.Email, &displayName, &role, &createdAt); err != nil {
		return nil, err
	}
	if displayName.Valid {
		user.DisplayName = &displayName.String
	}
	if role == "" {
		role = string(model.RoleUser)
	}
	user.Role = model.Role(role)
	user.CreatedAt = timeOrNow(createdAt)
	return user, nil
}
