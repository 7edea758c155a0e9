package messaging

import "github.com/guruqool/gurukul/internal/domain"

type OrderEventData struct {
	Record domain.TransactionRecord `json:"record"`
}
