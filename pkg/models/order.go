package models

// Order is the domain record carried as the detail of an OrderCreated event
type Order struct {
	OrderID  string  `json:"orderId"`
	Customer string  `json:"customer"`
	Total    float64 `json:"total"`
}

// CreateOrderRequest is the optional JSON body accepted by the producer
type CreateOrderRequest struct {
	Customer string  `json:"customer,omitempty"`
	Total    float64 `json:"total,omitempty"`
}

// Order defaults applied when the caller omits a field
const (
	DefaultCustomer         = "John Doe"
	DefaultTotal    float64 = 1000
	OrderIDPrefix           = "ORD-"
)
