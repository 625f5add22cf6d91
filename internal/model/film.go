package model

import (
    "database/sql"
    "strings"
)

// Rating is the MPAA rating stored in film.rating.
type Rating string

const (
    RatingG    Rating = "G"
    RatingPG   Rating = "PG"
    RatingPG13 Rating = "PG-13"
    RatingR    Rating = "R"
    RatingNC17 Rating = "NC-17"
)

// Valid reports whether r is one of the five ratings the schema allows.
func (r Rating) Valid() bool {
    switch r {
    case RatingG, RatingPG, RatingPG13, RatingR, RatingNC17:
        return true
    }
    return false
}

// SpecialFeature is one member of the film.special_features set.
type SpecialFeature string

const (
    FeatureTrailers        SpecialFeature = "Trailers"
    FeatureCommentaries    SpecialFeature = "Commentaries"
    FeatureDeletedScenes   SpecialFeature = "Deleted Scenes"
    FeatureBehindTheScenes SpecialFeature = "Behind the Scenes"
)

// Film mirrors the film table.  Optional columns use sql.Null* types.
//
// Fields:
//  ID              – film.film_id
//  Title           – film.title (required)
//  Description     – film.description
//  ReleaseYear     – film.release_year
//  Length          – film.length in minutes
//  Rating          – film.rating
//  SpecialFeatures – film.special_features, comma-separated SET value
//  RentalDuration  – film.rental_duration in days (required)
//  RentalRate      – film.rental_rate DECIMAL(4,2), kept as text to avoid float rounding
type Film struct {
    ID              int64          `db:"film_id"`
    Title           string         `db:"title"`
    Description     sql.NullString `db:"description"`
    ReleaseYear     sql.NullInt64  `db:"release_year"`
    Length          sql.NullInt64  `db:"length"`
    Rating          sql.NullString `db:"rating"`
    SpecialFeatures sql.NullString `db:"special_features"`
    RentalDuration  int64          `db:"rental_duration"`
    RentalRate      string         `db:"rental_rate"`
}

// Features splits the SET column into its members, dropping blanks.
func (f Film) Features() []SpecialFeature {
    out := []SpecialFeature{}
    if !f.SpecialFeatures.Valid {
        return out
    }
    for _, part := range strings.Split(f.SpecialFeatures.String, ",") {
        if part = strings.TrimSpace(part); part != "" {
            out = append(out, SpecialFeature(part))
        }
    }
    return out
}
