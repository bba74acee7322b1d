package cache

import (
	"context"

	"spoty/model"
	"spoty/repository"
)

// Cached decorators for the catalog repositories. List reads go through the
// CatalogCache; single-record reads and all writes hit the store directly,
// with writes invalidating the collection's cached lists.

// CachedGenreRepository wraps a GenreRepository with list caching.
type CachedGenreRepository struct {
	inner repository.GenreRepository
	cache *CatalogCache
}

// NewCachedGenreRepository creates a caching wrapper around inner.
func NewCachedGenreRepository(inner repository.GenreRepository, cache *CatalogCache) *CachedGenreRepository {
	return &CachedGenreRepository{inner: inner, cache: cache}
}

func (r *CachedGenreRepository) GetAll(ctx context.Context) ([]*model.Genre, error) {
	var cached []*model.Genre
	if r.cache.GetList(ctx, "genres", "", &cached) {
		return cached, nil
	}
	genres, err := r.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetList(ctx, "genres", "", genres)
	return genres, nil
}

func (r *CachedGenreRepository) GetByID(ctx context.Context, id string) (*model.Genre, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedGenreRepository) Create(ctx context.Context, genre *model.Genre) (string, error) {
	id, err := r.inner.Create(ctx, genre)
	if err == nil {
		r.cache.Invalidate(ctx, "genres")
	}
	return id, err
}

func (r *CachedGenreRepository) Update(ctx context.Context, id string, upd repository.GenreUpdate) error {
	err := r.inner.Update(ctx, id, upd)
	if err == nil {
		r.cache.Invalidate(ctx, "genres")
	}
	return err
}

func (r *CachedGenreRepository) Delete(ctx context.Context, id string) error {
	err := r.inner.Delete(ctx, id)
	if err == nil {
		r.cache.Invalidate(ctx, "genres")
	}
	return err
}

// CachedArtistRepository wraps an ArtistRepository with list caching.
type CachedArtistRepository struct {
	inner repository.ArtistRepository
	cache *CatalogCache
}

// NewCachedArtistRepository creates a caching wrapper around inner.
func NewCachedArtistRepository(inner repository.ArtistRepository, cache *CatalogCache) *CachedArtistRepository {
	return &CachedArtistRepository{inner: inner, cache: cache}
}

func (r *CachedArtistRepository) GetAll(ctx context.Context) ([]*model.Artist, error) {
	var cached []*model.Artist
	if r.cache.GetList(ctx, "artists", "", &cached) {
		return cached, nil
	}
	artists, err := r.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetList(ctx, "artists", "", artists)
	return artists, nil
}

func (r *CachedArtistRepository) GetByID(ctx context.Context, id string) (*model.Artist, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedArtistRepository) GetByGenre(ctx context.Context, genreID string) ([]*model.Artist, error) {
	var cached []*model.Artist
	if r.cache.GetList(ctx, "artists", "genre:"+genreID, &cached) {
		return cached, nil
	}
	artists, err := r.inner.GetByGenre(ctx, genreID)
	if err != nil {
		return nil, err
	}
	r.cache.SetList(ctx, "artists", "genre:"+genreID, artists)
	return artists, nil
}

func (r *CachedArtistRepository) Create(ctx context.Context, artist *model.Artist) (string, error) {
	id, err := r.inner.Create(ctx, artist)
	if err == nil {
		r.cache.Invalidate(ctx, "artists")
	}
	return id, err
}

func (r *CachedArtistRepository) Update(ctx context.Context, id string, upd repository.ArtistUpdate) error {
	err := r.inner.Update(ctx, id, upd)
	if err == nil {
		r.cache.Invalidate(ctx, "artists")
	}
	return err
}

func (r *CachedArtistRepository) Delete(ctx context.Context, id string) error {
	err := r.inner.Delete(ctx, id)
	if err == nil {
		r.cache.Invalidate(ctx, "artists")
	}
	return err
}

// CachedSongRepository wraps a SongRepository with list caching.
type CachedSongRepository struct {
	inner repository.SongRepository
	cache *CatalogCache
}

// NewCachedSongRepository creates a caching wrapper around inner.
func NewCachedSongRepository(inner repository.SongRepository, cache *CatalogCache) *CachedSongRepository {
	return &CachedSongRepository{inner: inner, cache: cache}
}

func (r *CachedSongRepository) GetAll(ctx context.Context) ([]*model.Song, error) {
	var cached []*model.Song
	if r.cache.GetList(ctx, "songs", "", &cached) {
		return cached, nil
	}
	songs, err := r.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.SetList(ctx, "songs", "", songs)
	return songs, nil
}

func (r *CachedSongRepository) GetByID(ctx context.Context, id string) (*model.Song, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedSongRepository) GetByArtist(ctx context.Context, artistID string) ([]*model.Song, error) {
	var cached []*model.Song
	if r.cache.GetList(ctx, "songs", "artist:"+artistID, &cached) {
		return cached, nil
	}
	songs, err := r.inner.GetByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	r.cache.SetList(ctx, "songs", "artist:"+artistID, songs)
	return songs, nil
}

func (r *CachedSongRepository) Create(ctx context.Context, song *model.Song) (string, error) {
	id, err := r.inner.Create(ctx, song)
	if err == nil {
		r.cache.Invalidate(ctx, "songs")
	}
	return id, err
}

func (r *CachedSongRepository) Update(ctx context.Context, id string, upd repository.SongUpdate) error {
	err := r.inner.Update(ctx, id, upd)
	if err == nil {
		r.cache.Invalidate(ctx, "songs")
	}
	return err
}

func (r *CachedSongRepository) Delete(ctx context.Context, id string) error {
	err := r.inner.Delete(ctx, id)
	if err == nil {
		r.cache.Invalidate(ctx, "songs")
	}
	return err
}
