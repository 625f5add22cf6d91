package model

// Inventory is one physical, rentable copy of a film at a store.
type Inventory struct {
    ID      int64 `db:"inventory_id"`
    FilmID  int64 `db:"film_id"`
    StoreID int64 `db:"store_id"`
}
