package models

import "encoding/json"

// OrderStatus is the lifecycle label reported on an order
type OrderStatus string

const (
	StatusCompleted OrderStatus = "completed"
	StatusPending   OrderStatus = "pending"
	StatusCreated   OrderStatus = "created"
)

// Order represents an order record as returned by the API
type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"userId"`
	ProductID int64       `json:"productId"`
	Quantity  int         `json:"quantity"`
	Status    OrderStatus `json:"status"`
	Total     Money       `json:"total"`
}

// OrderPayload is the unvalidated body of a create request.
// Values are kept as raw JSON so they can be echoed back unchanged.
type OrderPayload map[string]json.RawMessage

// CreateOrderResponse is returned after an order is created.
// Extra carries the request payload; its keys take precedence over the
// synthetic fields when the response is encoded.
type CreateOrderResponse struct {
	ID      int          `json:"id"`
	Status  OrderStatus  `json:"status"`
	Message string       `json:"message"`
	Extra   OrderPayload `json:"-"`
}

// MarshalJSON flattens the synthetic fields and Extra into one object
func (r CreateOrderResponse) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(r.Extra)+3)

	synthetic := map[string]interface{}{
		"id":      r.ID,
		"status":  r.Status,
		"message": r.Message,
	}
	for key, value := range synthetic {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[key] = raw
	}

	for key, value := range r.Extra {
		if value == nil {
			value = json.RawMessage("null")
		}
		fields[key] = value
	}

	return json.Marshal(fields)
}
