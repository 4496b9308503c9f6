package model

// SupplierContact is an external addressable party eligible to receive a
// broadcast message. Contacts are created and deactivated by the admin UI;
// this service only reads them.
type SupplierContact struct {
	ID         string  `db:"id"          json:"id"`
	SupplierID string  `db:"supplier_id" json:"supplier_id"`
	Name       string  `db:"name"        json:"name"`
	// ChannelID is the contact's identifier on the chat push gateway.
	// A contact without one cannot be dispatched to, active or not.
	ChannelID *string `db:"channel_id"  json:"channel_id,omitempty"`
	// Priority ranks contacts for deterministic dispatch order; the primary
	// contact carries the lowest value.
	Priority int  `db:"priority" json:"priority"`
	Active   bool `db:"active"   json:"active"`
}

// Dispatchable reports whether this contact is a valid dispatch target.
func (c SupplierContact) Dispatchable() bool {
	return c.Active && c.ChannelID != nil && *c.ChannelID != ""
}

// DeliveryOutcome is the per-contact result of one broadcast dispatch.
// It exists only for the duration of a single dispatch call and its
// response payload.
type DeliveryOutcome struct {
	ContactID string `json:"contact_id"`
	Succeeded bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// SuccessCount returns the number of succeeded outcomes.
func SuccessCount(outcomes []DeliveryOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Succeeded {
			n++
		}
	}
	return n
}
