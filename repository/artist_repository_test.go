package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"spoty/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestArtistRepository_GetByGenre_FilteredAndOrdered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := repository.NewMySQLArtistRepository(db)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "image_url", "genre_id", "description", "created_at"}).
		AddRow("a1", "Bill Evans", "u1", "jazz", nil, created).
		AddRow("a2", "Miles Davis", "u2", "jazz", "Trumpeter", created)
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, name, image_url, genre_id, description, created_at FROM artists WHERE genre_id = ? ORDER BY name ASC`)).
		WithArgs("jazz").
		WillReturnRows(rows)

	artists, err := r.GetByGenre(context.Background(), "jazz")
	require.NoError(t, err)
	require.Len(t, artists, 2)
	require.Equal(t, "Bill Evans", artists[0].Name)
	require.Nil(t, artists[0].Description)
	require.Equal(t, "Trumpeter", *artists[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArtistRepository_GetByGenre_QueryFailureIsTagged(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := repository.NewMySQLArtistRepository(db)

	mock.ExpectQuery("SELECT .* FROM artists WHERE genre_id = ?").
		WithArgs("jazz").
		WillReturnError(errDriverDown)

	_, err = r.GetByGenre(context.Background(), "jazz")
	var storeErr *repository.StoreError
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, "artists", storeErr.Collection)
	require.Equal(t, "getByGenre", storeErr.Op)
	require.NoError(t, mock.ExpectationsWereMet())
}
