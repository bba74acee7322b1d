package repository

import (
	"context"
	"database/sql"
	"strings"

	"spoty/model"

	"github.com/google/uuid"
)

// ArtistUpdate carries a partial update: nil fields are left untouched.
type ArtistUpdate struct {
	Name        *string
	ImageURL    *string
	GenreID     *string
	Description *string
}

// ArtistRepository defines the interface for artist data operations.
type ArtistRepository interface {
	GetAll(ctx context.Context) ([]*model.Artist, error)
	GetByID(ctx context.Context, id string) (*model.Artist, error)
	GetByGenre(ctx context.Context, genreID string) ([]*model.Artist, error)
	Create(ctx context.Context, artist *model.Artist) (string, error)
	Update(ctx context.Context, id string, upd ArtistUpdate) error
	Delete(ctx context.Context, id string) error
}

// mysqlArtistRepository implements ArtistRepository for MySQL.
type mysqlArtistRepository struct {
	db *sql.DB
}

// NewMySQLArtistRepository creates a new mysqlArtistRepository.
func NewMySQLArtistRepository(db *sql.DB) ArtistRepository {
	return &mysqlArtistRepository{db: db}
}

const artistColumns = "id, name, image_url, genre_id, description, created_at"

// GetAll retrieves every artist ordered by name.
func (r *mysqlArtistRepository) GetAll(ctx context.Context) ([]*model.Artist, error) {
	query := "SELECT " + artistColumns + " FROM artists ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("artists", "getAll", err)
	}
	defer rows.Close()
	artists, err := collectArtists(rows)
	if err != nil {
		return nil, storeErr("artists", "getAll", err)
	}
	return artists, nil
}

// GetByID retrieves an artist by id. A missing record is (nil, nil), not an error.
func (r *mysqlArtistRepository) GetByID(ctx context.Context, id string) (*model.Artist, error) {
	query := "SELECT " + artistColumns + " FROM artists WHERE id = ?"
	artist, err := scanArtist(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storeErr("artists", "getById", err)
	}
	return artist, nil
}

// GetByGenre retrieves the artists of one genre, ordered by name.
func (r *mysqlArtistRepository) GetByGenre(ctx context.Context, genreID string) ([]*model.Artist, error) {
	query := "SELECT " + artistColumns + " FROM artists WHERE genre_id = ? ORDER BY name ASC"
	rows, err := r.db.QueryContext(ctx, query, genreID)
	if err != nil {
		return nil, storeErr("artists", "getByGenre", err)
	}
	defer rows.Close()
	artists, err := collectArtists(rows)
	if err != nil {
		return nil, storeErr("artists", "getByGenre", err)
	}
	return artists, nil
}

// Create inserts a new artist and returns its assigned id.
func (r *mysqlArtistRepository) Create(ctx context.Context, artist *model.Artist) (string, error) {
	id := uuid.NewString()
	cols := []string{"id", "name", "image_url", "genre_id"}
	args := []interface{}{id, artist.Name, artist.ImageURL, artist.GenreID}
	if artist.Description != nil {
		cols = append(cols, "description")
		args = append(args, *artist.Description)
	}

	query := "INSERT INTO artists (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(args)) + ")"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", storeErr("artists", "create", err)
	}
	return id, nil
}

// Update modifies only the supplied fields.
func (r *mysqlArtistRepository) Update(ctx context.Context, id string, upd ArtistUpdate) error {
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
	if upd.GenreID != nil {
		sets = append(sets, "genre_id = ?")
		args = append(args, *upd.GenreID)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := "UPDATE artists SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("artists", "update", err)
	}
	return nil
}

// Delete removes an artist unconditionally. Dependent songs are not touched.
func (r *mysqlArtistRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM artists WHERE id = ?", id); err != nil {
		return storeErr("artists", "delete", err)
	}
	return nil
}

func collectArtists(rows *sql.Rows) ([]*model.Artist, error) {
	var artists []*model.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, rows.Err()
}

func scanArtist(row scanner) (*model.Artist, error) {
	artist := &model.Artist{}
	var description sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&artist.ID, &artist.Name, &artist.ImageURL, &artist.GenreID, &description, &createdAt); err != nil {
		return nil, err
	}
	if description.Valid {
		artist.Description = &description.String
	}
	artist.CreatedAt = timeOrNow(createdAt)
	return artist, nil
}
