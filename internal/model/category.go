package model

// Category mirrors the category table.
type Category struct {
    ID   int64  `db:"category_id"`
    Name string `db:"name"`
}

// FilmCategory links a film to a category (film_category).
type FilmCategory struct {
    FilmID     int64 `db:"film_id"`
    CategoryID int64 `db:"category_id"`
}
