package projection

import (
	"github.com/iliyamo/sakila-rental-service/internal/repository"
)

type TopActor struct {
	ActorID   int64  `json:"actor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FilmCount int64  `json:"film_count"`
}

// ActorFilmDetail is one of an actor's films.  The title is keyed
// film_title to stay compatible with existing clients.
type ActorFilmDetail struct {
	ActorID     int64   `json:"actor_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	FilmID      int64   `json:"film_id"`
	FilmTitle   string  `json:"film_title"`
	Description *string `json:"description"`
	ReleaseYear *int64  `json:"release_year"`
	Length      *int64  `json:"length"`
	Rating      *string `json:"rating"`
	Category    *string `json:"category"`
	RentalCount int64   `json:"rental_count"`
}

func TopActors(rows []repository.TopActorRow) []TopActor {
	out := make([]TopActor, 0, len(rows))
	for _, r := range rows {
		out = append(out, TopActor{
			ActorID:   r.ID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			FilmCount: r.FilmCount,
		})
	}
	return out
}

func ActorFilmDetails(rows []repository.ActorFilmDetailRow) []ActorFilmDetail {
	out := make([]ActorFilmDetail, 0, len(rows))
	for _, r := range rows {
		out = append(out, ActorFilmDetail{
			ActorID:     r.ID,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			FilmID:      r.FilmID,
			FilmTitle:   r.Title,
			Description: nullString(r.Description),
			ReleaseYear: nullInt(r.ReleaseYear),
			Length:      nullInt(r.Length),
			Rating:      nullString(r.Rating),
			Category:    nullString(r.Category),
			RentalCount: r.RentalCount,
		})
	}
	return out
}
