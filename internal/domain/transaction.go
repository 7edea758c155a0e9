package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRecord is the audit trail of a created payment order.
// Chat traffic is deliberately absent from persistence; only payment
// orders leave a record.
type TransactionRecord struct {
	ID        string    `json:"id" bson:"_id"`
	OrderID   string    `json:"orderId" bson:"order_id"`
	Amount    int64     `json:"amount" bson:"amount"` // minor currency units
	Currency  string    `json:"currency" bson:"currency"`
	Receipt   string    `json:"receipt" bson:"receipt"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type TransactionRepository interface {
	Create(ctx context.Context, record *TransactionRecord) error
	GetByReceipt(ctx context.Context, receipt string) (*TransactionRecord, error)
	GetRecent(ctx context.Context, limit int) ([]TransactionRecord, error)
}

func NewTransactionRecord(orderID string, amount int64, currency, receipt, status string) *TransactionRecord {
	return &TransactionRecord{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Amount:    amount,
		Currency:  currency,
		Receipt:   receipt,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}
