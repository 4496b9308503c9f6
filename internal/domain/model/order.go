package model

import "time"

// OrderLine is a single ordered item on a purchase order.
type OrderLine struct {
	ProductName string  `db:"product_name" json:"product_name"`
	RefCode     *string `db:"ref_code"     json:"ref_code,omitempty"`
	Quantity    int     `db:"quantity"     json:"quantity"`
}

// PurchaseOrder is the entity announced to supplier contacts. It is treated
// as an immutable snapshot for the duration of one dispatch; the only field
// this service ever writes back is the notified marker.
type PurchaseOrder struct {
	ID           string     `db:"id"            json:"id"`
	PONumber     string     `db:"po_number"     json:"po_number"`
	SupplierID   string     `db:"supplier_id"   json:"supplier_id"`
	ExpectedDate *time.Time `db:"expected_date" json:"expected_date,omitempty"`
	Notified     bool       `db:"notified"      json:"notified"`
	NotifiedAt   *time.Time `db:"notified_at"   json:"notified_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`

	// Lines are loaded alongside the order for rendering.
	Lines []OrderLine `db:"-" json:"lines"`
}
