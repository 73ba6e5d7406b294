package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Lixing-Zhang/order-intake/internal/keycrm"
	"github.com/Lixing-Zhang/order-intake/internal/models"
	"github.com/Lixing-Zhang/order-intake/internal/service"
)

// Client-facing messages. Error detail stays in the logs.
const (
	msgMethodNotAllowed = "Method Not Allowed"
	msgConfigError      = "Server configuration error"
	msgInvalidBody      = "Invalid request body"
	msgMissingData      = "Missing required data"
	msgCRMFailed        = "Failed to send order to CRM"
	msgInternalError    = "Internal Server Error"
	msgOrderReceived    = "Order received"
)

// DefaultMaxBodyBytes caps the size of a submitted order
const DefaultMaxBodyBytes int64 = 1 << 20

// orderSubmitter validates an order and forwards it to the CRM
type orderSubmitter interface {
	SubmitOrder(ctx context.Context, req models.OrderRequest) (*keycrm.CreatedOrder, error)
}

// OrderHandler handles storefront order submissions
type OrderHandler struct {
	orderService orderSubmitter
	configErr    error
	maxBodyBytes int64
	log          *zap.Logger
}

// NewOrderHandler creates a new order handler.
// configErr is the result of validating the CRM settings at startup; while it
// is non-nil every submission is rejected with a configuration error.
func NewOrderHandler(orderService orderSubmitter, configErr error, maxBodyBytes int64, log *zap.Logger) *OrderHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &OrderHandler{
		orderService: orderService,
		configErr:    configErr,
		maxBodyBytes: maxBodyBytes,
		log:          log,
	}
}

// SubmitOrder handles POST /api/submit-order
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(zap.String("request_id", chimiddleware.GetReqID(r.Context())))

	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed, log)
		return
	}

	if h.configErr != nil {
		log.Error("KeyCRM settings are missing", zap.Error(h.configErr))
		WriteError(w, http.StatusInternalServerError, msgConfigError, log)
		return
	}

	var sub models.Submission
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	// An empty body is an order with nothing in it, not a malformed one.
	if err := json.NewDecoder(body).Decode(&sub); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("failed to decode order request", zap.Error(err))
		WriteError(w, http.StatusBadRequest, msgInvalidBody, log)
		return
	}

	if sub.IsBot() {
		log.Info("bot detected via honeypot")
		WriteJSON(w, http.StatusOK, models.SubmitResponse{Success: true, Message: msgOrderReceived}, log)
		return
	}

	req, err := sub.OrderRequest()
	if err != nil {
		log.Warn("failed to decode order request", zap.Error(err))
		WriteError(w, http.StatusBadRequest, msgInvalidBody, log)
		return
	}

	created, err := h.orderService.SubmitOrder(r.Context(), req)
	if err != nil {
		var apiErr *keycrm.APIError
		switch {
		case errors.Is(err, service.ErrMissingRequiredData):
			WriteError(w, http.StatusBadRequest, msgMissingData, log)
		case errors.As(err, &apiErr):
			log.Error("KeyCRM error response",
				zap.Int("status", apiErr.StatusCode),
				zap.String("body", apiErr.Body),
			)
			WriteError(w, http.StatusInternalServerError, msgCRMFailed, log)
		default:
			log.Error("order submission failed", zap.Error(err))
			WriteError(w, http.StatusInternalServerError, msgInternalError, log)
		}
		return
	}

	log.Info("order created in KeyCRM", zap.ByteString("order_id", created.ID))
	WriteJSON(w, http.StatusOK, models.SubmitResponse{Success: true, OrderID: created.ID}, log)
}
