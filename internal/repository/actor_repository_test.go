package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sakila-rental-service/internal/testutil"
)

func TestActorRepo_Top(t *testing.T) {
	repo := NewActorRepo(testutil.NewStore(t))
	ctx := context.Background()

	rows, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	got := make([][2]int64, 0, len(rows))
	for _, r := range rows {
		got = append(got, [2]int64{r.ID, r.FilmCount})
	}
	assert.Equal(t, [][2]int64{{2, 3}, {1, 2}, {3, 1}, {4, 1}}, got)

	rows, err = repo.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "NICK", rows[0].FirstName)

	rows, err = repo.Top(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestActorRepo_Details(t *testing.T) {
	repo := NewActorRepo(testutil.NewStore(t))
	ctx := context.Background()

	rows, err := repo.Details(ctx, 2, DefaultActorFilms)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0].FilmID)
	assert.Equal(t, int64(5), rows[0].RentalCount)
	assert.Equal(t, "Action", rows[0].Category.String)
	assert.Equal(t, []int64{1, 2, 3}, filmIDs(rows, func(r ActorFilmDetailRow) int64 { return r.FilmID }))

	rows, err = repo.Details(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// film 4 has no inventory, so it is listed with zero rentals
	rows, err = repo.Details(ctx, 4, DefaultActorFilms)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(4), rows[0].FilmID)
	assert.Equal(t, int64(0), rows[0].RentalCount)

	rows, err = repo.Details(ctx, 99, DefaultActorFilms)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
