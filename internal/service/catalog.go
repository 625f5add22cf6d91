package service

import (
	"context"
	"strings"

	"github.com/iliyamo/sakila-rental-service/internal/apperr"
	"github.com/iliyamo/sakila-rental-service/internal/database"
	"github.com/iliyamo/sakila-rental-service/internal/logger"
	"github.com/iliyamo/sakila-rental-service/internal/projection"
	"github.com/iliyamo/sakila-rental-service/internal/repository"
)

// MaxActorFilms caps the per-request limit of actor details.
const MaxActorFilms = 50

// Catalog runs the read-only queries and projects their rows.  Every
// method may be retried and run concurrently.
type Catalog struct {
	films     *repository.FilmRepo
	actors    *repository.ActorRepo
	customers *repository.CustomerRepo
	log       *logger.Logger
}

func NewCatalog(store *database.Store, log *logger.Logger) *Catalog {
	return &Catalog{
		films:     repository.NewFilmRepo(store),
		actors:    repository.NewActorRepo(store),
		customers: repository.NewCustomerRepo(store),
		log:       log,
	}
}

// ClampTopN normalises a requested ranking size: zero or missing means the
// default, anything else is bounded to 1..MaxTopN.
func ClampTopN(n int) int {
	switch {
	case n == 0:
		return repository.DefaultTopN
	case n < 1:
		return 1
	case n > repository.MaxTopN:
		return repository.MaxTopN
	}
	return n
}

// ClampActorFilms normalises the actor details limit the same way.
func ClampActorFilms(n int) int {
	switch {
	case n == 0:
		return repository.DefaultActorFilms
	case n < 1:
		return 1
	case n > MaxActorFilms:
		return MaxActorFilms
	}
	return n
}

func (c *Catalog) fail(op string, err error) error {
	c.log.Error("catalog query failed", "op", op, "error", err)
	return apperr.Transaction(database.Classify(err), "%s failed", op)
}

func (c *Catalog) SearchFilmsByTitle(ctx context.Context, title string, exact bool) ([]projection.FilmTitle, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("title is required")
	}
	rows, err := c.films.SearchByTitle(ctx, title, exact)
	if err != nil {
		return nil, c.fail("search films by title", err)
	}
	return projection.FilmTitles(rows), nil
}

func (c *Catalog) SearchFilmsByCategory(ctx context.Context, category string) ([]projection.FilmCategory, error) {
	if strings.TrimSpace(category) == "" {
		return nil, apperr.Validation("category is required")
	}
	rows, err := c.films.SearchByCategory(ctx, category)
	if err != nil {
		return nil, c.fail("search films by category", err)
	}
	return projection.FilmCategories(rows), nil
}

func (c *Catalog) SearchFilmsByActor(ctx context.Context, fullName string) ([]projection.ActorFilm, error) {
	if strings.TrimSpace(fullName) == "" {
		return nil, apperr.Validation("actor name is required")
	}
	rows, err := c.films.SearchByActor(ctx, fullName)
	if err != nil {
		return nil, c.fail("search films by actor", err)
	}
	return projection.ActorFilms(rows), nil
}

func (c *Catalog) TopFilms(ctx context.Context, n int) ([]projection.TopFilm, error) {
	rows, err := c.films.Top(ctx, ClampTopN(n))
	if err != nil {
		return nil, c.fail("top films", err)
	}
	return projection.TopFilms(rows), nil
}

func (c *Catalog) TopActors(ctx context.Context, n int) ([]projection.TopActor, error) {
	rows, err := c.actors.Top(ctx, ClampTopN(n))
	if err != nil {
		return nil, c.fail("top actors", err)
	}
	return projection.TopActors(rows), nil
}

func (c *Catalog) ActorDetails(ctx context.Context, actorID int64, limit int) ([]projection.ActorFilmDetail, error) {
	if actorID <= 0 {
		return nil, apperr.Validation("actor_id must be a positive integer")
	}
	rows, err := c.actors.Details(ctx, actorID, ClampActorFilms(limit))
	if err != nil {
		return nil, c.fail("actor details", err)
	}
	return projection.ActorFilmDetails(rows), nil
}

func (c *Catalog) FilmDetails(ctx context.Context, filmID int64) ([]projection.FilmDetail, error) {
	if filmID <= 0 {
		return nil, apperr.Validation("film_id must be a positive integer")
	}
	rows, err := c.films.Details(ctx, filmID)
	if err != nil {
		return nil, c.fail("film details", err)
	}
	return projection.FilmDetails(rows), nil
}

func (c *Catalog) CustomerDetails(ctx context.Context, customerID int64) ([]projection.CustomerDetail, error) {
	if customerID <= 0 {
		return nil, apperr.Validation("customer_id must be a positive integer")
	}
	rows, err := c.customers.Details(ctx, customerID)
	if err != nil {
		return nil, c.fail("customer details", err)
	}
	return projection.CustomerDetails(rows), nil
}

// SearchCustomers lists every customer when term is blank.
func (c *Catalog) SearchCustomers(ctx context.Context, term string) ([]projection.CustomerProfile, error) {
	rows, err := c.customers.Search(ctx, strings.TrimSpace(term))
	if err != nil {
		return nil, c.fail("search customers", err)
	}
	return projection.Customers(rows), nil
}

func (c *Catalog) ListCustomers(ctx context.Context) ([]projection.CustomerProfile, error) {
	return c.SearchCustomers(ctx, "")
}
