package keycrm

import "encoding/json"

const (
	// UnitPiece is the unit label attached to every product line
	UnitPiece = "шт"
	// DefaultQuantity is used because storefront carts carry no quantity
	DefaultQuantity = 1
)

// Order is the body of POST /order.
// Buyer and product values are forwarded as the storefront sent them,
// so a nil field is left out of the request.
type Order struct {
	SourceID     int64           `json:"source_id"`
	BuyerComment json.RawMessage `json:"buyer_comment"`
	Buyer        Buyer           `json:"buyer"`
	Products     []Product       `json:"products"`
}

// Buyer identifies the customer placing the order
type Buyer struct {
	FullName json.RawMessage `json:"full_name,omitempty"`
	Phone    json.RawMessage `json:"phone,omitempty"`
}

// Product is a single order line
type Product struct {
	SKU      json.RawMessage `json:"sku,omitempty"`
	Price    json.RawMessage `json:"price,omitempty"`
	Quantity int             `json:"quantity"`
	Name     json.RawMessage `json:"name,omitempty"`
	Picture  json.RawMessage `json:"picture,omitempty"`
	UnitType string          `json:"unit_type"`
}

// EmptyComment is sent when the buyer left no comment
var EmptyComment = json.RawMessage(`""`)

// CreatedOrder is the part of the create-order response we use.
// ID is kept raw so the caller echoes it exactly as KeyCRM sent it;
// it is empty when the response has no id field.
type CreatedOrder struct {
	ID json.RawMessage `json:"id"`
}
