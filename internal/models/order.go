package models

import (
	"encoding/json"
	"fmt"
)

// Submission is the raw body posted by the storefront checkout form.
// Only the honeypot is looked at before the buyer and cart are decoded, so
// a bot always gets its fake success whatever else it sent.
type Submission struct {
	UserData json.RawMessage `json:"userData"`
	Cart     json.RawMessage `json:"cart"`
	Honeypot json.RawMessage `json:"honeypot"`
}

// IsBot reports whether the hidden honeypot field was filled in.
// A non-empty string or list counts as filled; any other value does not.
func (s Submission) IsBot() bool {
	var text string
	if err := json.Unmarshal(s.Honeypot, &text); err == nil {
		return text != ""
	}
	var list []json.RawMessage
	if err := json.Unmarshal(s.Honeypot, &list); err == nil {
		return len(list) > 0
	}
	return false
}

// OrderRequest decodes the buyer and cart. Absent or null fields stay nil.
func (s Submission) OrderRequest() (OrderRequest, error) {
	var req OrderRequest
	if len(s.UserData) > 0 {
		if err := json.Unmarshal(s.UserData, &req.UserData); err != nil {
			return OrderRequest{}, fmt.Errorf("userData: %w", err)
		}
	}
	if len(s.Cart) > 0 {
		if err := json.Unmarshal(s.Cart, &req.Cart); err != nil {
			return OrderRequest{}, fmt.Errorf("cart: %w", err)
		}
	}
	return req, nil
}

// OrderRequest represents an order submitted by the storefront checkout form
type OrderRequest struct {
	UserData *UserData  `json:"userData" validate:"required"`
	Cart     []CartItem `json:"cart" validate:"required,min=1"`
}

// UserData holds the buyer's contact details
type UserData struct {
	Username Value `json:"username,omitempty"`
	Phone    Value `json:"phone,omitempty" validate:"truthy"`
	Comment  Value `json:"comment,omitempty"`
}

// CartItem is a product in the storefront cart. Each item counts once.
// Fields keep whatever JSON type the storefront used, e.g. numeric ids.
type CartItem struct {
	ID    Value `json:"id,omitempty"`
	Price Value `json:"price,omitempty"`
	Name  Value `json:"name,omitempty"`
	Image Value `json:"image,omitempty"`
}

// SubmitResponse is returned to the storefront on 200
type SubmitResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	OrderID json.RawMessage `json:"order_id,omitempty"`
}

// ErrorResponse is returned for every non-200 outcome
type ErrorResponse struct {
	Error string `json:"error"`
}
