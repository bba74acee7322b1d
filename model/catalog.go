package model

import "time"

// Genre is a top-level catalog category.
// Optional fields are pointers: absent means the column is NULL and the field
// is omitted from JSON, never present-but-empty.
type Genre struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"imageUrl"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Artist belongs to a Genre. GenreID is not enforced by the store: deleting a
// genre leaves its artists behind with a dangling reference, which readers
// render as "Unknown".
type Artist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"imageUrl"`
	GenreID     string    `json:"genreId"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Song belongs to an Artist. Duration is in seconds.
type Song struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AudioURL  string    `json:"audioUrl"`
	ArtistID  string    `json:"artistId"`
	Duration  *float64  `json:"duration,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
