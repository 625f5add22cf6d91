package model

import (
    "database/sql"
    "time"
)

// Customer mirrors the customer table.  ID is assigned by the storage
// engine and never reused.  Active defaults to true and CreateDate is set
// by the service when the row is inserted.
type Customer struct {
    ID         int64          `db:"customer_id"`
    StoreID    int64          `db:"store_id"`
    FirstName  string         `db:"first_name"`
    LastName   string         `db:"last_name"`
    Email      sql.NullString `db:"email"`
    AddressID  sql.NullInt64  `db:"address_id"`
    Active     bool           `db:"active"`
    CreateDate time.Time      `db:"create_date"`
}
