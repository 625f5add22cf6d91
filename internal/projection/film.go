package projection

import (
	"github.com/iliyamo/sakila-rental-service/internal/repository"
)

type FilmTitle struct {
	FilmID int64  `json:"film_id"`
	Title  string `json:"title"`
}

type FilmCategory struct {
	FilmID     int64  `json:"film_id"`
	Title      string `json:"title"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

type ActorFilm struct {
	ActorID   int64  `json:"actor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FilmID    int64  `json:"film_id"`
	Title     string `json:"title"`
}

type TopFilm struct {
	FilmID       int64  `json:"film_id"`
	Title        string `json:"title"`
	CategoryName string `json:"category_name"`
	RentalCount  int64  `json:"rental_count"`
}

// FilmDetail is film metadata with the number of copies in inventory.
type FilmDetail struct {
	FilmID          int64    `json:"film_id"`
	Title           string   `json:"title"`
	Description     *string  `json:"description"`
	ReleaseYear     *int64   `json:"release_year"`
	Length          *int64   `json:"length"`
	Rating          *string  `json:"rating"`
	SpecialFeatures []string `json:"special_features"`
	RentalDuration  int64    `json:"rental_duration"`
	RentalRate      string   `json:"rental_rate"`
	Category        *string  `json:"category"`
	TotalAvailable  int64    `json:"total_available"`
}

func FilmTitles(rows []repository.FilmTitleRow) []FilmTitle {
	out := make([]FilmTitle, 0, len(rows))
	for _, r := range rows {
		out = append(out, FilmTitle{FilmID: r.FilmID, Title: r.Title})
	}
	return out
}

func FilmCategories(rows []repository.FilmCategoryRow) []FilmCategory {
	out := make([]FilmCategory, 0, len(rows))
	for _, r := range rows {
		out = append(out, FilmCategory(r))
	}
	return out
}

func ActorFilms(rows []repository.ActorFilmRow) []ActorFilm {
	out := make([]ActorFilm, 0, len(rows))
	for _, r := range rows {
		out = append(out, ActorFilm{
			ActorID:   r.ID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			FilmID:    r.FilmID,
			Title:     r.Title,
		})
	}
	return out
}

func TopFilms(rows []repository.TopFilmRow) []TopFilm {
	out := make([]TopFilm, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopFilm(r))
	}
	return out
}

// FilmDetails splits the special_features set and normalises the rate.
func FilmDetails(rows []repository.FilmDetailRow) []FilmDetail {
	out := make([]FilmDetail, 0, len(rows))
	for _, r := range rows {
		features := make([]string, 0, 4)
		for _, f := range r.Features() {
			features = append(features, string(f))
		}
		out = append(out, FilmDetail{
			FilmID:          r.ID,
			Title:           r.Title,
			Description:     nullString(r.Description),
			ReleaseYear:     nullInt(r.ReleaseYear),
			Length:          nullInt(r.Length),
			Rating:          nullString(r.Rating),
			SpecialFeatures: features,
			RentalDuration:  r.RentalDuration,
			RentalRate:      Currency(r.RentalRate),
			Category:        nullString(r.Category),
			TotalAvailable:  r.TotalAvailable,
		})
	}
	return out
}
