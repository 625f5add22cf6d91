package projection

import (
	"github.com/iliyamo/sakila-rental-service/internal/model"
	"github.com/iliyamo/sakila-rental-service/internal/repository"
)

// CustomerProfile is the customer record as returned by lists, searches
// and mutations.
type CustomerProfile struct {
	CustomerID int64   `json:"customer_id"`
	StoreID    int64   `json:"store_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      *string `json:"email"`
	AddressID  *int64  `json:"address_id"`
	Active     bool    `json:"active"`
	CreateDate string  `json:"create_date"`
}

// RentalHistoryEntry is one rental in a customer's history.  ReturnDate
// is null while the rental is open.
type RentalHistoryEntry struct {
	RentalID   int64   `json:"rental_id"`
	FilmID     int64   `json:"film_id"`
	Title      string  `json:"title"`
	RentalDate string  `json:"rental_date"`
	ReturnDate *string `json:"return_date"`
	Status     string  `json:"status"`
}

type CustomerDetail struct {
	CustomerProfile
	Rentals []RentalHistoryEntry `json:"rentals"`
}

func Customer(c model.Customer) CustomerProfile {
	return CustomerProfile{
		CustomerID: c.ID,
		StoreID:    c.StoreID,
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		Email:      nullString(c.Email),
		AddressID:  nullInt(c.AddressID),
		Active:     c.Active,
		CreateDate: Timestamp(c.CreateDate),
	}
}

func Customers(cs []model.Customer) []CustomerProfile {
	out := make([]CustomerProfile, 0, len(cs))
	for _, c := range cs {
		out = append(out, Customer(c))
	}
	return out
}

// CustomerDetails keeps the rentals list non-nil so a customer without
// history serialises as "rentals": [].
func CustomerDetails(rows []repository.CustomerDetail) []CustomerDetail {
	out := make([]CustomerDetail, 0, len(rows))
	for _, r := range rows {
		history := make([]RentalHistoryEntry, 0, len(r.Rentals))
		for _, h := range r.Rentals {
			status := model.RentalOpen
			if h.ReturnDate.Valid {
				status = model.RentalReturned
			}
			history = append(history, RentalHistoryEntry{
				RentalID:   h.RentalID,
				FilmID:     h.FilmID,
				Title:      h.Title,
				RentalDate: Timestamp(h.RentalDate),
				ReturnDate: NullTimestamp(h.ReturnDate),
				Status:     string(status),
			})
		}
		out = append(out, CustomerDetail{CustomerProfile: Customer(r.Customer), Rentals: history})
	}
	return out
}
