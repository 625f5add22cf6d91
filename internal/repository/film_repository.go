package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"go.opentelemetry.io/otel/attribute"

	"github.com/iliyamo/sakila-rental-service/internal/database"
	"github.com/iliyamo/sakila-rental-service/internal/model"
)

// Ranking bounds shared by the top-N queries.
const (
	DefaultTopN = 5
	MaxTopN     = 100
)

// FilmRepo answers film searches, the film ranking and film details.
type FilmRepo struct {
	store *database.Store
}

// NewFilmRepo returns a FilmRepo bound to the given store.
func NewFilmRepo(store *database.Store) *FilmRepo { return &FilmRepo{store: store} }

// FilmTitleRow is one title search hit.
type FilmTitleRow struct {
	FilmID int64  `db:"film_id"`
	Title  string `db:"title"`
}

// FilmCategoryRow is one category search hit.
type FilmCategoryRow struct {
	FilmID     int64  `db:"film_id"`
	Title      string `db:"title"`
	CategoryID int64  `db:"category_id"`
	Name       string `db:"name"`
}

// ActorFilmRow pairs an actor matched by name with one of their films.
type ActorFilmRow struct {
	model.Actor
	FilmID int64  `db:"film_id"`
	Title  string `db:"title"`
}

// TopFilmRow is one entry of the rental ranking.
type TopFilmRow struct {
	FilmID       int64  `db:"film_id"`
	Title        string `db:"title"`
	CategoryName string `db:"category_name"`
	RentalCount  int64  `db:"rental_count"`
}

// FilmDetailRow is film metadata plus its category and copy count.
type FilmDetailRow struct {
	model.Film
	Category       sql.NullString `db:"category"`
	TotalAvailable int64          `db:"total_available"`
}

// SearchByTitle matches film titles.  With exact=true the title must be
// equal under the engine's collation; otherwise it is a case-insensitive
// substring match in which % and _ are literal characters.
func (r *FilmRepo) SearchByTitle(ctx context.Context, title string, exact bool) (out []FilmTitleRow, err error) {
	ctx, span := startSpan(ctx, "FilmRepo.SearchByTitle", attribute.Bool("exact", exact))
	defer func() { endSpan(span, err) }()
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	out = []FilmTitleRow{}
	if exact {
		const q = `SELECT f.film_id, f.title FROM film f WHERE f.title = ? ORDER BY f.film_id`
		err = r.store.DB().SelectContext(ctx, &out, q, title)
		return out, err
	}
	const q = `SELECT f.film_id, f.title FROM film f WHERE LOWER(f.title) LIKE ? ESCAPE '!' ORDER BY f.film_id`
	err = r.store.DB().SelectContext(ctx, &out, q, containsPattern(strings.ToLower(title)))
	return out, err
}

// SearchByCategory returns the films whose category name equals category.
func (r *FilmRepo) SearchByCategory(ctx context.Context, category string) (out []FilmCategoryRow, err error) {
	ctx, span := startSpan(ctx, "FilmRepo.SearchByCategory")
	defer func() { endSpan(span, err) }()
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `SELECT f.film_id, f.title, c.category_id, c.name
               FROM film f
               JOIN film_category fc ON fc.film_id = f.film_id
               JOIN category c ON c.category_id = fc.category_id
               WHERE c.name = ?
               ORDER BY f.film_id`
	out = []FilmCategoryRow{}
	err = r.store.DB().SelectContext(ctx, &out, q, category)
	return out, err
}

// SearchByActor returns every film of the actors whose "first last" name
// equals fullName.  Leading and trailing whitespace is trimmed; inner
// whitespace is kept as given, and comparison follows the engine's
// collation.  A name without a space cannot match.
func (r *FilmRepo) SearchByActor(ctx context.Context, fullName string) (out []ActorFilmRow, err error) {
	ctx, span := startSpan(ctx, "FilmRepo.SearchByActor")
	defer func() { endSpan(span, err) }()

	out = []ActorFilmRow{}
	splits := actorNameSplits(fullName)
	if len(splits) == 0 {
		return out, nil
	}
	conds := make([]goqu.Expression, 0, len(splits))
	for _, s := range splits {
		conds = append(conds, goqu.Ex{"a.first_name": s[0], "a.last_name": s[1]})
	}
	q, args, err := r.store.Builder().
		From(goqu.T("actor").As("a")).
		Join(goqu.T("film_actor").As("fa"), goqu.On(goqu.Ex{"fa.actor_id": goqu.I("a.actor_id")})).
		Join(goqu.T("film").As("f"), goqu.On(goqu.Ex{"f.film_id": goqu.I("fa.film_id")})).
		Select("a.actor_id", "a.first_name", "a.last_name", "f.film_id", "f.title").
		Where(goqu.Or(conds...)).
		Order(goqu.I("a.actor_id").Asc(), goqu.I("f.film_id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()
	err = r.store.DB().SelectContext(ctx, &out, q, args...)
	return out, err
}

// actorNameSplits lists every (first, last) pair whose "first last"
// concatenation equals the trimmed name.
func actorNameSplits(fullName string) [][2]string {
	name := strings.TrimSpace(fullName)
	var out [][2]string
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' {
			out = append(out, [2]string{name[:i], name[i+1:]})
		}
	}
	return out
}

// Top ranks films by number of rentals across all their copies, highest
// first, ties broken by ascending film_id.  Films never rented are not
// ranked.  n <= 0 yields an empty result.
func (r *FilmRepo) Top(ctx context.Context, n int) (out []TopFilmRow, err error) {
	ctx, span := startSpan(ctx, "FilmRepo.Top", attribute.Int("n", n))
	defer func() { endSpan(span, err) }()

	out = []TopFilmRow{}
	if n <= 0 {
		return out, nil
	}
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()
	const q = `SELECT f.film_id, f.title, c.name AS category_name, COUNT(r.rental_id) AS rental_count
               FROM film f
               JOIN film_category fc ON fc.film_id = f.film_id
               JOIN category c ON c.category_id = fc.category_id
               JOIN inventory i ON i.film_id = f.film_id
               JOIN rental r ON r.inventory_id = i.inventory_id
               GROUP BY f.film_id, f.title, c.name
               ORDER BY rental_count DESC, f.film_id ASC, c.name ASC
               LIMIT ?`
	err = r.store.DB().SelectContext(ctx, &out, q, n)
	return out, err
}

// Details returns the film with its category and number of inventory
// copies.  A film without copies yields an empty result.
func (r *FilmRepo) Details(ctx context.Context, filmID int64) (out []FilmDetailRow, err error) {
	ctx, span := startSpan(ctx, "FilmRepo.Details", attribute.Int64("film_id", filmID))
	defer func() { endSpan(span, err) }()
	ctx, cancel := r.store.WithTimeout(ctx)
	defer cancel()

	const q = `SELECT f.film_id, f.title, f.description, f.release_year, f.length, f.rating,
                      f.special_features, f.rental_duration, f.rental_rate,
                      c.name AS category, COUNT(i.inventory_id) AS total_available
               FROM film f
               JOIN inventory i ON i.film_id = f.film_id
               LEFT JOIN film_category fc ON fc.film_id = f.film_id
               LEFT JOIN category c ON c.category_id = fc.category_id
               WHERE f.film_id = ?
               GROUP BY f.film_id, f.title, f.description, f.release_year, f.length, f.rating,
                        f.special_features, f.rental_duration, f.rental_rate, c.name
               ORDER BY c.name`
	out = []FilmDetailRow{}
	err = r.store.DB().SelectContext(ctx, &out, q, filmID)
	return out, err
}
