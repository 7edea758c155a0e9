package payments

import "encoding/json"

// createOrderRequest represents the request to create a payment order
type createOrderRequest struct {
	Amount float64 `json:"amount" example:"500"` // Amount in major currency units
}

// createOrderResponse wraps the provider's order object verbatim
type createOrderResponse struct {
	Success bool            `json:"success" example:"true"`
	Data    json.RawMessage `json:"data"` // Provider order object, untouched
}

// errorResponse is the failure shape shared by validation and provider errors
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Internal Server Error!"`
}
