package transactions

import "time"

// transactionResponse represents one recorded payment order
type transactionResponse struct {
	ID        string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"` // Record identifier
	OrderID   string    `json:"orderId" example:"order_NXhT2g0call"`               // Provider order identifier
	Amount    int64     `json:"amount" example:"50000"`                            // Amount in minor currency units
	Currency  string    `json:"currency" example:"INR"`                            // ISO currency code
	Receipt   string    `json:"receipt" example:"9f86d081884c7d659a2f"`            // Reference token for the order
	Status    string    `json:"status" example:"created"`                          // Provider order status
	CreatedAt time.Time `json:"createdAt"`                                         // Record timestamp
}

// listTransactionsResponse wraps the recent records, newest first
type listTransactionsResponse struct {
	Transactions []transactionResponse `json:"transactions"`
}
