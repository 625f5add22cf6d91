package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sakila-rental-service/internal/testutil"
)

func filmIDs[T any](rows []T, id func(T) int64) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, id(r))
	}
	return out
}

func TestFilmRepo_SearchByTitle(t *testing.T) {
	repo := NewFilmRepo(testutil.NewStore(t))
	ctx := context.Background()

	rows, err := repo.SearchByTitle(ctx, "academy", false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, FilmTitleRow{FilmID: 1, Title: "ACADEMY DINOSAUR"}, rows[0])

	rows, err = repo.SearchByTitle(ctx, "a", false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, filmIDs(rows, func(r FilmTitleRow) int64 { return r.FilmID }))

	for _, wildcard := range []string{"%", "_", "a%", "!"} {
		rows, err = repo.SearchByTitle(ctx, wildcard, false)
		require.NoError(t, err, wildcard)
		assert.Empty(t, rows, wildcard)
	}

	rows, err = repo.SearchByTitle(ctx, "ACE GOLDFINGER", true)
	require.NoError(t, err)
	assert.Equal(t, []FilmTitleRow{{FilmID: 2, Title: "ACE GOLDFINGER"}}, rows)

	rows, err = repo.SearchByTitle(ctx, "ACE", true)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"":         "%%",
		"academy":  "%academy%",
		"50%_off!": "%50!%!_off!!%",
	}
	for in, want := range cases {
		assert.Equal(t, want, containsPattern(in), in)
	}
}

func TestFilmRepo_SearchByCategory(t *testing.T) {
	repo := NewFilmRepo(testutil.NewStore(t))
	ctx := context.Background()

	rows, err := repo.SearchByCategory(ctx, "Action")
	require.NoError(t, err)
	assert.Equal(t, []FilmCategoryRow{
		{FilmID: 1, Title: "ACADEMY DINOSAUR", CategoryID: 1, Name: "Action"},
		{FilmID: 4, Title: "AFFAIR PREJUDICE", CategoryID: 1, Name: "Action"},
	}, rows)

	rows, err = repo.SearchByCategory(ctx, "Horror")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFilmRepo_SearchByActor(t *testing.T) {
	repo := NewFilmRepo(testutil.NewStore(t))
	ctx := context.Background()

	rows, err := repo.SearchByActor(ctx, "PENELOPE GUINESS")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].Actor.ID)
	assert.Equal(t, []int64{1, 2}, filmIDs(rows, func(r ActorFilmRow) int64 { return r.FilmID }))

	rows, err = repo.SearchByActor(ctx, "  MARY ANN SMITH ")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "MARY ANN", rows[0].FirstName)
	assert.Equal(t, "AFFAIR PREJUDICE", rows[0].Title)

	rows, err = repo.SearchByActor(ctx, "NICK")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestActorNameSplits(t *testing.T) {
	assert.Equal(t, [][2]string{{"MARY", "ANN SMITH"}, {"MARY ANN", "SMITH"}}, actorNameSplits(" MARY ANN SMITH "))
	assert.Nil(t, actorNameSplits("CHER"))
	assert.Nil(t, actorNameSplits("   "))
}

func TestFilmRepo_Top(t *testing.T) {
	repo := NewFilmRepo(testutil.NewStore(t))
	ctx := context.Background()

	rows, err := repo.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []TopFilmRow{
		{FilmID: 1, Title: "ACADEMY DINOSAUR", CategoryName: "Action", RentalCount: 5},
		{FilmID: 2, Title: "ACE GOLDFINGER", CategoryName: "Comedy", RentalCount: 3},
		{FilmID: 3, Title: "ADAPTATION HOLES", CategoryName: "Drama", RentalCount: 3},
	}, rows)

	rows, err = repo.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, filmIDs(rows, func(r TopFilmRow) int64 { return r.FilmID }))

	rows, err = repo.Top(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFilmRepo_Details(t *testing.T) {
	repo := NewFilmRepo(testutil.NewStore(t))
	ctx := context.Background()

	rows, err := repo.Details(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	d := rows[0]
	assert.Equal(t, "ACADEMY DINOSAUR", d.Title)
	assert.Equal(t, "Action", d.Category.String)
	assert.Equal(t, int64(2), d.TotalAvailable)
	assert.Equal(t, "0.99", d.RentalRate)
	assert.Equal(t, int64(2006), d.ReleaseYear.Int64)
	assert.Equal(t, "Deleted Scenes,Behind the Scenes", d.SpecialFeatures.String)

	rows, err = repo.Details(ctx, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].TotalAvailable)
	assert.False(t, rows[0].Description.Valid)

	// no copies in inventory
	rows, err = repo.Details(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.Details(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
