package transaction

import "time"

type Transaction struct {
	ID       string    `json:"_id" db:"id"`
	Username string    `json:"username" db:"username"`
	Type     string    `json:"type" db:"type"`
	Amount   float64   `json:"amount" db:"amount"`
	Date     time.Time `json:"date" db:"date"`
}

// Info is a transaction joined with its category's color, the shape every
// listing endpoint returns.
type Info struct {
	ID       string    `json:"_id"`
	Username string    `json:"username"`
	Amount   float64   `json:"amount"`
	Type     string    `json:"type"`
	Color    string    `json:"color"`
	Date     time.Time `json:"date"`
}

// Created is what transaction creation returns: no id, no color.
type Created struct {
	Username string    `json:"username"`
	Amount   float64   `json:"amount"`
	Type     string    `json:"type"`
	Date     time.Time `json:"date"`
}
