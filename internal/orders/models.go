package orders

import "time"

type Order struct {
	ID              string    `json:"id"`
	Status          Status    `json:"status"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerAddress string    `json:"customer_address"`
	TotalMinor      int64     `json:"total_minor"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Item is an immutable order line snapshot. Price is the unit price in
// minor currency units at the moment of placement; later catalog or cart
// changes never affect a placed order.
type Item struct {
	ProductID int64 `json:"product_id,string"`
	Quantity  int64 `json:"quantity"`
	Price     int64 `json:"price,string"`
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}
