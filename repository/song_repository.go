package repository

import (
	"context"
	"database/sql"
	"strings"

	"spoty/model"

	"github.com/google/uuid"
)

// SongUpdate carries a partial update: nil fields are left untouched.
type SongUpdate struct {
	Title    *string
	AudioURL *string
	ArtistID *string
	Duration *float64
}

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	GetAll(ctx context.Context) ([]*model.Song, error)
	GetByID(ctx context.Context, id string) (*model.Song, error)
	GetByArtist(ctx context.Context, artistID string) ([]*model.Song, error)
	Create(ctx context.Context, song *model.Song) (string, error)
	Update(ctx context.Context, id string, upd SongUpdate) error
	Delete(ctx context.Context, id string) error
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new mysqlSongRepository.
func NewMySQLSongRepository(db *sql.DB) SongRepository {
	return &mysqlSongRepository{db: db}
}

const songColumns = "id, title, audio_url, artist_id, duration, created_at"

// GetAll retrieves every song ordered by title.
func (r *mysqlSongRepository) GetAll(ctx context.Context) ([]*model.Song, error) {
	query := "SELECT " + songColumns + " FROM songs ORDER BY title ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("songs", "getAll", err)
	}
	defer rows.Close()
	songs, err := collectSongs(rows)
	if err != nil {
		return nil, storeErr("songs", "getAll", err)
	}
	return songs, nil
}

// GetByID retrieves a song by id. A missing record is (nil, nil), not an error.
func (r *mysqlSongRepository) GetByID(ctx context.Context, id string) (*model.Song, error) {
	query := "SELECT " + songColumns + " FROM songs WHERE id = ?"
	song, err := scanSong(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, storeErr("songs", "getById", err)
	}
	return song, nil
}

// GetByArtist retrieves the songs of one artist, ordered by title.
func (r *mysqlSongRepository) GetByArtist(ctx context.Context, artistID string) ([]*model.Song, error) {
	query := "SELECT " + songColumns + " FROM songs WHERE artist_id = ? ORDER BY title ASC"
	rows, err := r.db.QueryContext(ctx, query, artistID)
	if err != nil {
		return nil, storeErr("songs", "getByArtist", err)
	}
	defer rows.Close()
	songs, err := collectSongs(rows)
	if err != nil {
		return nil, storeErr("songs", "getByArtist", err)
	}
	return songs, nil
}

// Create inserts a new song and returns its assigned id. The duration column
// is omitted entirely when not supplied.
func (r *mysqlSongRepository) Create(ctx context.Context, song *model.Song) (string, error) {
	id := uuid.NewString()
	cols := []string{"id", "title", "audio_url", "artist_id"}
	args := []interface{}{id, song.Title, song.AudioURL, song.ArtistID}
	if song.Duration != nil {
		cols = append(cols, "duration")
		args = append(args, *song.Duration)
	}

	query := "INSERT INTO songs (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(args)) + ")"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", storeErr("songs", "create", err)
	}
	return id, nil
}

// Update modifies only the supplied fields.
func (r *mysqlSongRepository) Update(ctx context.Context, id string, upd SongUpdate) error {
	var sets []string
	var args []interface{}
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.AudioURL != nil {
		sets = append(sets, "audio_url = ?")
		args = append(args, *upd.AudioURL)
	}
	if upd.ArtistID != nil {
		sets = append(sets, "artist_id = ?")
		args = append(args, *upd.ArtistID)
	}
	if upd.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, *upd.Duration)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	query := "UPDATE songs SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("songs", "update", err)
	}
	return nil
}

// Delete removes a song unconditionally.
func (r *mysqlSongRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM songs WHERE id = ?", id); err != nil {
		return storeErr("songs", "delete", err)
	}
	return nil
}

func collectSongs(rows *sql.Rows) ([]*model.Song, error) {
	var songs []*model.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func scanSong(row scanner) (*model.Song, error) {
	song := &model.Song{}
	var duration sql.NullFloat64
	var createdAt sql.NullTime
	if err := row.Scan(&song.ID, &song.Title, &song.AudioURL, &song.ArtistID, &duration, &createdAt); err != nil {
		return nil, err
	}
	if duration.Valid {
		song.Duration = &duration.Float64
	}
	song.CreatedAt = timeOrNow(createdAt)
	return song, nil
}
