package repository

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/attribute"

	"github.com/iliyamo/sakila-rental-service/internal/database"
	"github.com/iliyamo/sakila-rental-service/internal/model"
)

// DefaultActorFilms is how many films actor details return when the
// caller does not ask for a specific limit.
const DefaultActorFilms = 5

// ActorRepo answers the actor ranking and actor details.
type ActorRepo struct {
	store *database.Store
}

// NewActorRepo returns an ActorRepo bound to the given store.
func NewActorRepo(store *database.Store) *ActorRepo { return &ActorRepo{store: store} }

// TopActorRow is one entry of the appearance ranking.
type TopActorRow struct {
	model.Actor
	FilmCount int64 `db:"film_count"`
}

// ActorFilmDetailRow is one of an actor's films with its rental count.
type ActorFilmDetailRow struct {
	model.Actor
	FilmID      int64          `db:"film_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	ReleaseYear sql.NullInt64  `db:"release_year"`
	Length      sql.NullInt64  `db:"length"`
	Rating      sql.NullString `db:"rating"`
	Category    sql.NullString `db:"category"`
	RentalCount int64          `db:"rental_count"`
}

// Top ranks actors by the number of distinct films they appear in,
// highest first, ties broken by ascending actor_id.
func (r *ActorRepo) Top(ctx context.Context, n int) (out []TopActorRow, err error) {
	ctx, span := startSpan(ctx, "ActorRepo.Top", attribute.Int("n", n))
	defer func() { endSpan(span, err) }()

	out = []TopActorRow{}
	if n <= 0 {
		return out, nil
	}
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()
	const q = `SELECT a.actor_id, a.first_name, a.last_name, COUNT(DISTINCT fa.film_id) AS film_count
               FROM actor a
               JOIN film_actor fa ON fa.actor_id = a.actor_id
               GROUP BY a.actor_id, a.first_name, a.last_name
               ORDER BY film_count DESC, a.actor_id ASC
               LIMIT ?`
	err = r.store.DB().SelectContext(ctx, &out, q, n)
	return out, err
}

// Details returns up to limit of the actor's films, most rented first,
// ties broken by ascending film_id.  Films with no rentals are included
// with a count of zero.  An actor without films yields an empty result.
func (r *ActorRepo) Details(ctx context.Context, actorID int64, limit int) (out []ActorFilmDetailRow, err error) {
	ctx, span := startSpan(ctx, "ActorRepo.Details", attribute.Int64("actor_id", actorID), attribute.Int("limit", limit))
	defer func() { endSpan(span, err) }()

	out = []ActorFilmDetailRow{}
	if limit <= 0 {
		return out, nil
	}
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()
	const q = `SELECT a.actor_id, a.first_name, a.last_name,
                      f.film_id, f.title, f.description, f.release_year, f.length, f.rating,
                      c.name AS category, COUNT(r.rental_id) AS rental_count
               FROM actor a
               JOIN film_actor fa ON fa.actor_id = a.actor_id
               JOIN film f ON f.film_id = fa.film_id
               LEFT JOIN film_category fc ON fc.film_id = f.film_id
               LEFT JOIN category c ON c.category_id = fc.category_id
               LEFT JOIN inventory i ON i.film_id = f.film_id
               LEFT JOIN rental r ON r.inventory_id = i.inventory_id
               WHERE a.actor_id = ?
               GROUP BY a.actor_id, a.first_name, a.last_name,
                        f.film_id, f.title, f.description, f.release_year, f.length, f.rating, c.name
               ORDER BY rental_count DESC, f.film_id ASC
               LIMIT ?`
	err = r.store.DB().SelectContext(ctx, &out, q, actorID, limit)
	return out, err
}
