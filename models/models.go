package models

import (
	"time"
)

// PaymentMethod - the two options the cashier screen offers
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentQRIS PaymentMethod = "QRIS/Transfer"
)

// ProductKey identifies a product. Name alone is not unique:
// "Teh Botol" can exist in both "Minuman" and "Paket Hemat".
type ProductKey struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Product - The Inventory
type Product struct {
	Name      string  `gorm:"primaryKey;size:100" json:"name"`
	Category  string  `gorm:"primaryKey;size:100" json:"category"`
	Stock     int     `json:"stock"`
	UnitPrice float64 `json:"unit_price"`
	CostPrice float64 `json:"cost_price"`
}

func (p Product) Key() ProductKey {
	return ProductKey{Name: p.Name, Category: p.Category}
}

// RemovalRecord - snapshot of a product at the moment stock was
// removed outside of a sale. Append-only, never edited or deleted.
type RemovalRecord struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Stock           int       `json:"stock"` // stock level before the removal
	UnitPrice       float64   `json:"unit_price"`
	CostPrice       float64   `json:"cost_price"`
	QuantityRemoved int       `json:"quantity_removed"`
	Reason          string    `json:"reason"`
	RemovedAt       time.Time `json:"removed_at"`
	RemovedBy       string    `json:"removed_by"` // actor who removed it
}

// CartLine - one product inside a cart. Prices are copied from the
// catalog when the line is first added; later catalog edits do not
// touch lines already sitting in a cart.
type CartLine struct {
	ID            uint    `gorm:"primaryKey" json:"-"`
	TransactionID string  `gorm:"index;size:36" json:"-"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"` // snapshot at first add
	CostPrice     float64 `json:"cost_price"`
	Subtotal      float64 `json:"subtotal"`
}

func (l CartLine) Key() ProductKey {
	return ProductKey{Name: l.Name, Category: l.Category}
}

// Transaction - The committed sale, system of record for reporting
type Transaction struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	Time       time.Time     `json:"time"`
	ActorID    string        `json:"actor_id"` // who processed it
	Lines      []CartLine    `gorm:"foreignKey:TransactionID" json:"lines"`
	Total      float64       `json:"total"`
	AmountPaid float64       `json:"amount_paid"`
	ChangeDue  float64       `json:"change_due"`
	Method     PaymentMethod `gorm:"size:20" json:"method"`
}
