// Package testutil builds a small in-memory Sakila database for tests.
//
// The fixture is intentionally tiny so expected results can be written by
// hand:
//
//	films      1 ACADEMY DINOSAUR (Action)   copies 1,2   rentals 1-5 (2 returned)
//	           2 ACE GOLDFINGER   (Comedy)   copy   3     rentals 6-8 (6 returned)
//	           3 ADAPTATION HOLES (Drama)    copies 4,5,6 rentals 9-11 (10 returned)
//	           4 AFFAIR PREJUDICE (Action)   no copies
//	actors     1 PENELOPE GUINESS  films 1,2
//	           2 NICK WAHLBERG     films 1,2,3
//	           3 ED CHASE          film  3
//	           4 MARY ANN SMITH    film  4
//	customers  1 MARY SMITH        rentals 1,2,6,9
//	           2 PATRICIA JOHNSON  rentals 3,4,5,7,8,10,11
//	           3 LINDA WILLIAMS    no rentals
package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/sakila-rental-service/internal/database"
	"github.com/iliyamo/sakila-rental-service/internal/model"
)

// Base is the reference instant the fixture's timestamps are derived from.
var Base = time.Date(2005, time.May, 24, 22, 0, 0, 0, time.UTC)

const schema = `
CREATE TABLE category (
    category_id INTEGER PRIMARY KEY,
    name        VARCHAR(25) NOT NULL
);
CREATE TABLE film (
    film_id          INTEGER PRIMARY KEY,
    title            VARCHAR(128) NOT NULL,
    description      TEXT,
    release_year     INTEGER,
    length           INTEGER,
    rating           VARCHAR(5),
    special_features TEXT,
    rental_duration  INTEGER NOT NULL DEFAULT 3,
    rental_rate      DECIMAL(4,2) NOT NULL DEFAULT 4.99
);
CREATE TABLE film_category (
    film_id     INTEGER NOT NULL REFERENCES film(film_id),
    category_id INTEGER NOT NULL REFERENCES category(category_id),
    PRIMARY KEY (film_id, category_id)
);
CREATE TABLE actor (
    actor_id   INTEGER PRIMARY KEY,
    first_name VARCHAR(45) NOT NULL,
    last_name  VARCHAR(45) NOT NULL
);
CREATE TABLE film_actor (
    actor_id INTEGER NOT NULL REFERENCES actor(actor_id),
    film_id  INTEGER NOT NULL REFERENCES film(film_id),
    PRIMARY KEY (actor_id, film_id)
);
CREATE TABLE address (
    address_id INTEGER PRIMARY KEY,
    address    VARCHAR(50) NOT NULL
);
CREATE TABLE store (
    store_id   INTEGER PRIMARY KEY,
    address_id INTEGER NOT NULL REFERENCES address(address_id)
);
CREATE TABLE staff (
    staff_id   INTEGER PRIMARY KEY,
    first_name VARCHAR(45) NOT NULL,
    last_name  VARCHAR(45) NOT NULL,
    store_id   INTEGER NOT NULL REFERENCES store(store_id)
);
CREATE TABLE inventory (
    inventory_id INTEGER PRIMARY KEY,
    film_id      INTEGER NOT NULL REFERENCES film(film_id),
    store_id     INTEGER NOT NULL REFERENCES store(store_id)
);
CREATE TABLE customer (
    customer_id INTEGER PRIMARY KEY AUTOINCREMENT,
    store_id    INTEGER NOT NULL REFERENCES store(store_id),
    first_name  VARCHAR(45) NOT NULL,
    last_name   VARCHAR(45) NOT NULL,
    email       VARCHAR(50),
    address_id  INTEGER REFERENCES address(address_id),
    active      BOOLEAN NOT NULL DEFAULT 1,
    create_date DATETIME NOT NULL,
    last_update DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE rental (
    rental_id    INTEGER PRIMARY KEY,
    rental_date  DATETIME NOT NULL,
    inventory_id INTEGER NOT NULL REFERENCES inventory(inventory_id),
    customer_id  INTEGER NOT NULL REFERENCES customer(customer_id),
    return_date  DATETIME,
    staff_id     INTEGER NOT NULL REFERENCES staff(staff_id)
);
`

// NewStore returns a Store over a freshly seeded in-memory database.  The
// pool is limited to one connection so every statement sees the same
// database; code under test must therefore run transactional statements
// through the transaction handle.
func NewStore(t testing.TB) *database.Store {
	t.Helper()
	return NewStoreWithTimeout(t, 2*time.Second)
}

// NewStoreWithTimeout is NewStore with a chosen per-operation timeout.
func NewStoreWithTimeout(t testing.TB, opTimeout time.Duration) *database.Store {
	t.Helper()
	db, err := sqlx.Open(database.DriverSQLite, ":memory:?_foreign_keys=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	seed(t, db)
	return database.New(db, database.DriverSQLite, opTimeout)
}

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func num(n int64) sql.NullInt64 { return sql.NullInt64{Int64: n, Valid: true} }

func seed(t testing.TB, db *sqlx.DB) {
	t.Helper()

	exec := func(q string, rows interface{}) {
		t.Helper()
		_, err := db.NamedExec(q, rows)
		require.NoError(t, err, q)
	}

	exec(`INSERT INTO category (category_id, name) VALUES (:category_id, :name)`, []model.Category{
		{ID: 1, Name: "Action"}, {ID: 2, Name: "Comedy"}, {ID: 3, Name: "Drama"}, {ID: 4, Name: "Horror"},
	})
	exec(`INSERT INTO film (film_id, title, description, release_year, length, rating, special_features, rental_duration, rental_rate)
          VALUES (:film_id, :title, :description, :release_year, :length, :rating, :special_features, :rental_duration, :rental_rate)`,
		[]model.Film{
			{
				ID: 1, Title: "ACADEMY DINOSAUR",
				Description:     str("A Epic Drama of a Feminist And a Mad Scientist"),
				ReleaseYear:     num(2006),
				Length:          num(86),
				Rating:          str("PG"),
				SpecialFeatures: str("Deleted Scenes,Behind the Scenes"),
				RentalDuration:  6, RentalRate: "0.99",
			},
			{
				ID: 2, Title: "ACE GOLDFINGER",
				Description:     str("A Astounding Epistle of a Database Administrator"),
				ReleaseYear:     num(2006),
				Length:          num(48),
				Rating:          str("G"),
				SpecialFeatures: str("Trailers"),
				RentalDuration:  3, RentalRate: "4.99",
			},
			{
				ID: 3, Title: "ADAPTATION HOLES",
				ReleaseYear:    num(2006),
				Length:         num(50),
				Rating:         str("NC-17"),
				RentalDuration: 7, RentalRate: "2.99",
			},
			{ID: 4, Title: "AFFAIR PREJUDICE", RentalDuration: 5, RentalRate: "2.99"},
		})
	exec(`INSERT INTO film_category (film_id, category_id) VALUES (:film_id, :category_id)`, []model.FilmCategory{
		{FilmID: 1, CategoryID: 1}, {FilmID: 2, CategoryID: 2}, {FilmID: 3, CategoryID: 3}, {FilmID: 4, CategoryID: 1},
	})
	exec(`INSERT INTO actor (actor_id, first_name, last_name) VALUES (:actor_id, :first_name, :last_name)`, []model.Actor{
		{ID: 1, FirstName: "PENELOPE", LastName: "GUINESS"},
		{ID: 2, FirstName: "NICK", LastName: "WAHLBERG"},
		{ID: 3, FirstName: "ED", LastName: "CHASE"},
		{ID: 4, FirstName: "MARY ANN", LastName: "SMITH"},
	})
	exec(`INSERT INTO film_actor (actor_id, film_id) VALUES (:actor_id, :film_id)`, []model.FilmActor{
		{ActorID: 1, FilmID: 1}, {ActorID: 1, FilmID: 2},
		{ActorID: 2, FilmID: 1}, {ActorID: 2, FilmID: 2}, {ActorID: 2, FilmID: 3},
		{ActorID: 3, FilmID: 3},
		{ActorID: 4, FilmID: 4},
	})

	for id := 1; id <= 5; id++ {
		_, err := db.Exec(`INSERT INTO address (address_id, address) VALUES (?, ?)`, id, "47 MySakila Drive")
		require.NoError(t, err)
	}
	_, err := db.Exec(`INSERT INTO store (store_id, address_id) VALUES (1, 1), (2, 2)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO staff (staff_id, first_name, last_name, store_id) VALUES (1, 'Mike', 'Hillyer', 1)`)
	require.NoError(t, err)

	exec(`INSERT INTO inventory (inventory_id, film_id, store_id) VALUES (:inventory_id, :film_id, :store_id)`, []model.Inventory{
		{ID: 1, FilmID: 1, StoreID: 1}, {ID: 2, FilmID: 1, StoreID: 2},
		{ID: 3, FilmID: 2, StoreID: 1},
		{ID: 4, FilmID: 3, StoreID: 1}, {ID: 5, FilmID: 3, StoreID: 1}, {ID: 6, FilmID: 3, StoreID: 2},
	})
	exec(`INSERT INTO customer (customer_id, store_id, first_name, last_name, email, address_id, active, create_date)
          VALUES (:customer_id, :store_id, :first_name, :last_name, :email, :address_id, :active, :create_date)`,
		[]model.Customer{
			{ID: 1, StoreID: 1, FirstName: "MARY", LastName: "SMITH", Email: str("MARY.SMITH@sakilacustomer.org"), AddressID: num(3), Active: true, CreateDate: Base},
			{ID: 2, StoreID: 1, FirstName: "PATRICIA", LastName: "JOHNSON", Email: str("PATRICIA.JOHNSON@sakilacustomer.org"), AddressID: num(4), Active: true, CreateDate: Base},
			{ID: 3, StoreID: 2, FirstName: "LINDA", LastName: "WILLIAMS", AddressID: num(5), Active: false, CreateDate: Base},
		})

	returned := func(d time.Duration) sql.NullTime { return sql.NullTime{Time: Base.Add(d), Valid: true} }
	rentals := []model.Rental{
		{ID: 1, InventoryID: 1, CustomerID: 1},
		{ID: 2, InventoryID: 1, CustomerID: 1, ReturnDate: returned(48 * time.Hour)},
		{ID: 3, InventoryID: 2, CustomerID: 2},
		{ID: 4, InventoryID: 2, CustomerID: 2},
		{ID: 5, InventoryID: 1, CustomerID: 2},
		{ID: 6, InventoryID: 3, CustomerID: 1, ReturnDate: returned(72 * time.Hour)},
		{ID: 7, InventoryID: 3, CustomerID: 2},
		{ID: 8, InventoryID: 3, CustomerID: 2},
		{ID: 9, InventoryID: 4, CustomerID: 1},
		{ID: 10, InventoryID: 5, CustomerID: 2, ReturnDate: returned(96 * time.Hour)},
		{ID: 11, InventoryID: 6, CustomerID: 2},
	}
	for i := range rentals {
		rentals[i].RentalDate = Base.Add(time.Duration(rentals[i].ID) * time.Hour)
		rentals[i].StaffID = 1
	}
	exec(`INSERT INTO rental (rental_id, rental_date, inventory_id, customer_id, return_date, staff_id)
          VALUES (:rental_id, :rental_date, :inventory_id, :customer_id, :return_date, :staff_id)`, rentals)
}
