package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sakila-rental-service/internal/apperr"
	"github.com/iliyamo/sakila-rental-service/internal/logger"
	"github.com/iliyamo/sakila-rental-service/internal/testutil"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, ClampTopN(0))
	assert.Equal(t, 1, ClampTopN(-3))
	assert.Equal(t, 100, ClampTopN(1000))
	assert.Equal(t, 7, ClampTopN(7))

	assert.Equal(t, 5, ClampActorFilms(0))
	assert.Equal(t, 50, ClampActorFilms(51))
}

func TestCatalog_Rankings(t *testing.T) {
	c := NewCatalog(testutil.NewStore(t), logger.Nop())
	ctx := context.Background()

	films, err := c.TopFilms(ctx, 0)
	require.NoError(t, err)
	require.Len(t, films, 3)
	for i := 1; i < len(films); i++ {
		prev, cur := films[i-1], films[i]
		assert.True(t, prev.RentalCount > cur.RentalCount ||
			(prev.RentalCount == cur.RentalCount && prev.FilmID < cur.FilmID))
	}

	actors, err := c.TopActors(ctx, 2)
	require.NoError(t, err)
	require.Len(t, actors, 2)
	assert.Equal(t, int64(2), actors[0].ActorID)
	assert.Equal(t, int64(3), actors[0].FilmCount)

	again, err := c.TopActors(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, actors, again)
}

func TestCatalog_ActorDetailsOrderedByRentals(t *testing.T) {
	c := NewCatalog(testutil.NewStore(t), logger.Nop())

	// actor 1 has film 1 (5 rentals) and film 2 (3 rentals)
	rows, err := c.ActorDetails(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(5), rows[0].RentalCount)
	assert.Equal(t, int64(3), rows[1].RentalCount)
	assert.Equal(t, "ACADEMY DINOSAUR", rows[0].FilmTitle)
}

func TestCatalog_SearchByCategory(t *testing.T) {
	c := NewCatalog(testutil.NewStore(t), logger.Nop())

	rows, err := c.SearchFilmsByCategory(context.Background(), "Comedy")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].FilmID)

	_, err = c.SearchFilmsByCategory(context.Background(), " ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCatalog_FilmDetailsProjected(t *testing.T) {
	c := NewCatalog(testutil.NewStore(t), logger.Nop())

	rows, err := c.FilmDetails(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "4.99", rows[0].RentalRate)
	assert.Equal(t, []string{"Trailers"}, rows[0].SpecialFeatures)
	assert.Equal(t, int64(1), rows[0].TotalAvailable)

	rows, err = c.FilmDetails(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestCatalog_Customers(t *testing.T) {
	c := NewCatalog(testutil.NewStore(t), logger.Nop())
	ctx := context.Background()

	all, err := c.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	hits, err := c.SearchCustomers(ctx, "  john ")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "PATRICIA", hits[0].FirstName)
}
