package model

import (
    "database/sql"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestRating_Valid(t *testing.T) {
    for _, r := range []Rating{RatingG, RatingPG, RatingPG13, RatingR, RatingNC17} {
        assert.True(t, r.Valid(), r)
    }
    assert.False(t, Rating("X").Valid())
    assert.False(t, Rating("").Valid())
}

func TestFilm_Features(t *testing.T) {
    f := Film{SpecialFeatures: sql.NullString{String: "Trailers, Deleted Scenes,,", Valid: true}}
    assert.Equal(t, []SpecialFeature{FeatureTrailers, FeatureDeletedScenes}, f.Features())
    assert.Equal(t, []SpecialFeature{}, Film{}.Features())
}

func TestRental_Status(t *testing.T) {
    r := Rental{}
    assert.Equal(t, RentalOpen, r.Status())
    r.ReturnDate = sql.NullTime{Time: time.Now(), Valid: true}
    assert.Equal(t, RentalReturned, r.Status())
}

func TestActor_FullName(t *testing.T) {
    assert.Equal(t, "MARY ANN SMITH", Actor{FirstName: "MARY ANN", LastName: "SMITH"}.FullName())
}
