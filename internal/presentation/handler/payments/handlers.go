package payments

import (
	"context"
	"math"
	"net/http"

	"github.com/guruqool/gurukul/internal/domain"
	"github.com/guruqool/gurukul/internal/infrastructure/json"
	"github.com/guruqool/gurukul/internal/infrastructure/logging"
	"github.com/guruqool/gurukul/internal/infrastructure/metrics"
	"github.com/guruqool/gurukul/internal/infrastructure/payment"
)

// OrderEventPublisher fans created/failed orders out to the audit
// consumer. Publishing is best-effort; it never fails the request.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, record domain.TransactionRecord) error
	PublishOrderFailed(ctx context.Context, record domain.TransactionRecord) error
}

type Handler struct {
	provider  *payment.Client
	currency  string
	publisher OrderEventPublisher
	logger    logging.Logger
}

func NewHandler(provider *payment.Client, currency string, publisher OrderEventPublisher, logger logging.Logger) *Handler {
	return &Handler{
		provider:  provider,
		currency:  currency,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateOrderHandler godoc
// @Summary      Create a payment order
// @Description  Converts an amount in major currency units into a provider order and returns the provider's order object verbatim
// @Tags         payment
// @Accept       json
// @Produce      json
// @Param        request body createOrderRequest true "Order amount"
// @Success      200 {object} createOrderResponse "Order created"
// @Failure      400 {object} errorResponse "Invalid amount"
// @Failure      500 {object} errorResponse "Provider or transport failure"
// @Router       /payment/create-order [post]
func (h *Handler) CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.Read(r, &req); err != nil {
		json.Write(w, http.StatusBadRequest, errorResponse{
			Success: false,
			Message: "amount must be a number",
		})
		return
	}

	if req.Amount <= 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		json.Write(w, http.StatusBadRequest, errorResponse{
			Success: false,
			Message: "amount must be a positive number",
		})
		return
	}

	receipt, err := payment.NewReceipt()
	if err != nil {
		h.respondInternalError(w, receipt, err)
		return
	}

	// Providers take minor currency units
	amountMinor := int64(math.Round(req.Amount * 100))

	order, err := h.provider.CreateOrder(r.Context(), payment.OrderRequest{
		Amount:   amountMinor,
		Currency: h.currency,
		Receipt:  receipt,
	})
	if err != nil {
		metrics.OrdersFailed.Inc()
		h.publish(false, domain.NewTransactionRecord("", amountMinor, h.currency, receipt, "failed"))
		h.respondInternalError(w, receipt, err)
		return
	}

	metrics.OrdersCreated.Inc()

	json.Write(w, http.StatusOK, createOrderResponse{
		Success: true,
		Data:    order.Raw,
	})

	h.publish(true, domain.NewTransactionRecord(order.ID, order.Amount, order.Currency, receipt, order.Status))
}

// The provider's error detail stays in the logs; callers get a generic
// failure body.
func (h *Handler) respondInternalError(w http.ResponseWriter, receipt string, err error) {
	h.logger.Error(logging.Payment, logging.OrderCreation, "order creation failed", map[logging.ExtraKey]any{
		"receipt":            receipt,
		logging.ErrorMessage: err.Error(),
	})

	json.Write(w, http.StatusInternalServerError, errorResponse{
		Success: false,
		Message: "Internal Server Error!",
	})
}

func (h *Handler) publish(created bool, record *domain.TransactionRecord) {
	if h.publisher == nil {
		return
	}

	var err error
	if created {
		err = h.publisher.PublishOrderCreated(context.Background(), *record)
	} else {
		err = h.publisher.PublishOrderFailed(context.Background(), *record)
	}
	if err != nil {
		h.logger.Warnf("failed to publish order event (receipt %s): %v", record.Receipt, err)
	}
}
