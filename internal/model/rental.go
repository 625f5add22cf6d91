package model

import (
    "database/sql"
    "time"
)

// RentalStatus is derived from return_date: open while it is NULL.
type RentalStatus string

const (
    RentalOpen     RentalStatus = "open"
    RentalReturned RentalStatus = "returned"
)

// Rental records one inventory copy checked out by a customer.  Once
// ReturnDate is set it never changes.
type Rental struct {
    ID          int64        `db:"rental_id"`
    RentalDate  time.Time    `db:"rental_date"`
    InventoryID int64        `db:"inventory_id"`
    CustomerID  int64        `db:"customer_id"`
    ReturnDate  sql.NullTime `db:"return_date"`
    StaffID     int64        `db:"staff_id"`
}

// Status reports whether the rental is still out.
func (r Rental) Status() RentalStatus {
    if r.ReturnDate.Valid {
        return RentalReturned
    }
    return RentalOpen
}
