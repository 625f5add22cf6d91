package projection

import (
	"database/sql"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sakila-rental-service/internal/model"
	"github.com/iliyamo/sakila-rental-service/internal/repository"
)

func TestCurrency(t *testing.T) {
	cases := map[string]string{
		"4.99":  "4.99",
		"0.990": "0.99",
		"2":     "2.00",
		" 1.5 ": "1.50",
		"2.995": "3.00",
		"0":     "0.00",
		"n/a":   "n/a",
	}
	for in, want := range cases {
		assert.Equal(t, want, Currency(in), in)
	}
}

func TestTimestamp(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	ts := time.Date(2005, 5, 25, 1, 30, 0, 0, loc)
	assert.Equal(t, "2005-05-24T23:30:00Z", Timestamp(ts))
	assert.Nil(t, NullTimestamp(sql.NullTime{}))
	assert.Equal(t, "2005-05-24T23:30:00Z", *NullTimestamp(sql.NullTime{Time: ts, Valid: true}))
}

func TestFilmDetails(t *testing.T) {
	rows := []repository.FilmDetailRow{{
		Film: model.Film{
			ID:              1,
			Title:           "ACADEMY DINOSAUR",
			ReleaseYear:     sql.NullInt64{Int64: 2006, Valid: true},
			SpecialFeatures: sql.NullString{String: "Trailers,Deleted Scenes", Valid: true},
			RentalDuration:  6,
			RentalRate:      "0.99",
		},
		Category:       sql.NullString{String: "Action", Valid: true},
		TotalAvailable: 8,
	}, {
		Film: model.Film{ID: 2, Title: "ACE GOLDFINGER", RentalRate: "4"},
	}}

	out := FilmDetails(rows)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"Trailers", "Deleted Scenes"}, out[0].SpecialFeatures)
	assert.Equal(t, "0.99", out[0].RentalRate)
	assert.Equal(t, int64(2006), *out[0].ReleaseYear)
	assert.Nil(t, out[0].Description)
	assert.Equal(t, "Action", *out[0].Category)

	assert.Equal(t, "4.00", out[1].RentalRate)
	assert.NotNil(t, out[1].SpecialFeatures)

	b, err := jsoniter.Marshal(out[1])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"special_features":[]`)
	assert.Contains(t, string(b), `"description":null`)
	assert.Contains(t, string(b), `"category":null`)
}

func TestCustomerDetails_EmptyHistory(t *testing.T) {
	created := time.Date(2006, 2, 14, 22, 4, 36, 0, time.UTC)
	rows := []repository.CustomerDetail{{
		Customer: model.Customer{ID: 3, StoreID: 1, FirstName: "LINDA", LastName: "WILLIAMS", Active: true, CreateDate: created},
	}}

	out := CustomerDetails(rows)
	require.Len(t, out, 1)
	assert.Equal(t, "2006-02-14T22:04:36Z", out[0].CreateDate)
	assert.NotNil(t, out[0].Rentals)

	b, err := jsoniter.Marshal(out[0])
	require.NoError(t, err)
	assert.Contains(t, string(b), `"rentals":[]`)
	assert.Contains(t, string(b), `"customer_id":3`)
	assert.Contains(t, string(b), `"email":null`)
}

func TestCustomerDetails_History(t *testing.T) {
	at := time.Date(2005, 5, 24, 22, 53, 30, 0, time.UTC)
	rows := []repository.CustomerDetail{{
		Customer: model.Customer{ID: 1, FirstName: "MARY", LastName: "SMITH", CreateDate: at},
		Rentals: []repository.RentalHistoryRow{
			{RentalID: 9, FilmID: 3, Title: "ADAPTATION HOLES", RentalDate: at},
			{RentalID: 2, FilmID: 1, Title: "ACADEMY DINOSAUR", RentalDate: at, ReturnDate: sql.NullTime{Time: at.Add(time.Hour), Valid: true}},
		},
	}}

	out := CustomerDetails(rows)
	require.Len(t, out[0].Rentals, 2)
	assert.Equal(t, "open", out[0].Rentals[0].Status)
	assert.Nil(t, out[0].Rentals[0].ReturnDate)
	assert.Equal(t, "returned", out[0].Rentals[1].Status)
	assert.Equal(t, "2005-05-24T23:53:30Z", *out[0].Rentals[1].ReturnDate)
}

func TestEmptyInputsProjectToEmptyLists(t *testing.T) {
	assert.Equal(t, []FilmTitle{}, FilmTitles(nil))
	assert.Equal(t, []TopActor{}, TopActors(nil))
	assert.Equal(t, []ActorFilmDetail{}, ActorFilmDetails(nil))
	assert.Equal(t, []CustomerProfile{}, Customers(nil))
}

func TestTopActors(t *testing.T) {
	rows := []repository.TopActorRow{{Actor: model.Actor{ID: 107, FirstName: "GINA", LastName: "DEGENERES"}, FilmCount: 42}}
	assert.Equal(t, []TopActor{{ActorID: 107, FirstName: "GINA", LastName: "DEGENERES", FilmCount: 42}}, TopActors(rows))
}
