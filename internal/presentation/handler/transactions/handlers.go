package transactions

import (
	"net/http"
	"strconv"

	"github.com/guruqool/gurukul/internal/domain"
	"github.com/guruqool/gurukul/internal/infrastructure/json"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
)

const defaultLimit = 50

type Handler struct {
	transactions domain.TransactionRepository
	logger       logging.Logger
}

func NewHandler(transactions domain.TransactionRepository, logger logging.Logger) *Handler {
	return &Handler{
		transactions: transactions,
		logger:       logger,
	}
}

// ListTransactionsHandler godoc
// @Summary      List recent payment orders
// @Description  Returns the most recent recorded payment orders, newest first
// @Tags         transaction
// @Produce      json
// @Param        limit query int false "Maximum records to return" default(50)
// @Success      200 {object} listTransactionsResponse
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /transaction [get]
func (h *Handler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.transactions.GetRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error(logging.Mongo, logging.ExternalService, "failed to list transactions", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
		json.WriteInternalError(w, err)
		return
	}

	mapped := make([]transactionResponse, 0, len(records))
	for _, record := range records {
		mapped = append(mapped, transactionResponse{
			ID:        record.ID,
			OrderID:   record.OrderID,
			Amount:    record.Amount,
			Currency:  record.Currency,
			Receipt:   record.Receipt,
			Status:    record.Status,
			CreatedAt: record.CreatedAt,
		})
	}

	json.Write(w, http.StatusOK, listTransactionsResponse{
		Transactions: mapped,
	})
}
