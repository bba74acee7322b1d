package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"spoty/model"

	"github.com/google/uuid"
)

// GenreUpdate carries a partial update: nil fields are left untouched.
type GenreUpdate struct {
	Name        *string
	ImageURL    *string
	Description *string
}

// GenreRepository defines the interface for genre data operations.
type GenreRepository interface {
	GetAll(ctx context.Context) ([]*model.Genre, error)
	GetByID(ctx context.Context, id string) (*model.Genre, error)
	Create(ctx context.Context, genre *model.Genre) (string, error)
	Update(ctx context.Context, id string, upd GenreUpdate) error
	Delete(ctx context.Context, id string) error
}

// mysqlGenreRepository implements GenreRepository for MySQL.
type mysqlGenreRepository struct {
	db *sql.DB
}

// NewMySQLGenreRepository creates a new mysqlGenreRepository.
func NewMySQLGenreRepository(db *sql.DB) GenreRepository {
	return &mysqlGenreRepository{db: db}
}

// GetAll retrieves every genre ordered by name.
func (r *mysqlGenreRepository) GetAll(ctx context.Context) ([]*model.Genre, error) {
	query := "SELECT id, name, image_url, description, created_at FROM genres ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("genres", "getAll", err)
	}
	defer rows.Close()

	var genres []*model.Genre
	for rows.Next() {
		genre, err := scanGenre(rows)
		if err != nil {
			return nil, storeErr("genres", "getAll", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("genres", "getAll", err)
	}
	return genres, nil
}

// GetByID retrieves a genre by id. A missing record is (nil, nil), not an error.
func (r *mysqlGenreRepository) GetByID(ctx context.Context, id string) (*model.Genre, error) {
	query := "SELECT id, name, image_url, description, created_at FROM genres WHERE id = ?"
	genre, err := scanGenre(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storeErr("genres", "getById", err)
	}
	return genre, nil
}

// Create inserts a new genre and returns its assigned id. The description
// column is omitted entirely when not supplied, and created_at is assigned by
// the store, not the caller's clock.
func (r *mysqlGenreRepository) Create(ctx context.Context, genre *model.Genre) (string, error) {
	id := uuid.NewString()
	cols := []string{"id", "name", "image_url"}
	args := []interface{}{id, genre.Name, genre.ImageURL}
	if genre.Description != nil {
		cols = append(cols, "description")
		args = append(args, *genre.Description)
	}

	query := "INSERT INTO genres (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(args)) + ")"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", storeErr("genres", "create", err)
	}
	return id, nil
}

// Update modifies only the supplied fields. No client-side existence check.
func (r *mysqlGenreRepository) Update(ctx context.Context, id string, upd GenreUpdate) error {
	var sets []string
	var args []interface{}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.ImageURL != nil {
		sets = append(sets, "image_url = ?")
		args = append(args, *upd.ImageURL)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := "UPDATE genres SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("genres", "update", err)
	}
	return nil
}

// Delete removes a genre unconditionally. Dependent artists are not touched.
func (r *mysqlGenreRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM genres WHERE id = ?", id); err != nil {
		return storeErr("genres", "delete", err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGenre(row scanner) (*model.Genre, error) {
	genre := &model.Genre{}
	var description sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&genre.ID, &genre.Name, &genre.ImageURL, &description, &createdAt); err != nil {
		return nil, err
	}
	if description.Valid {
		genre.Description = &description.String
	}
	genre.CreatedAt = timeOrNow(createdAt)
	return genre, nil
}

// timeOrNow defends against partially written records with no timestamp.
func timeOrNow(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Now()
}
