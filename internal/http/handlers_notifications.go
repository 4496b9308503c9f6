package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dentara/clinic-ops/internal/domain/model"
	apperrors "github.com/dentara/clinic-ops/internal/errors"
	"github.com/dentara/clinic-ops/internal/service"
)

// Broadcaster is the slice of the broadcast service the handlers need.
type Broadcaster interface {
	Broadcast(ctx context.Context, req service.BroadcastRequest) (*service.BroadcastResult, error)
}

// NotificationHandlers serves the broadcast endpoint.
type NotificationHandlers struct {
	Svc    Broadcaster
	Logger *slog.Logger
}

// broadcastRequestBody is the wire shape of a broadcast request.
type broadcastRequestBody struct {
	SupplierID      string `json:"supplier_id"`
	OrderID         string `json:"order_id"`
	MessageCategory string `json:"message_category"`
}

// broadcastResponse reports the aggregate and per-contact outcomes. The
// top-level success refers to the request, not the deliveries: a broadcast
// where every push failed is still a completed broadcast.
type broadcastResponse struct {
	Success       bool                    `json:"success"`
	SentTo        int                     `json:"sent_to"`
	TotalContacts int                     `json:"total_contacts"`
	Results       []model.DeliveryOutcome `json:"results"`
}

// Broadcast handles POST /api/notifications/broadcast.
func (h *NotificationHandlers) Broadcast(w http.ResponseWriter, r *http.Request) {
	var body broadcastRequestBody
	if !DecodeJSON(w, r, &body) {
		return
	}

	body.SupplierID = strings.TrimSpace(body.SupplierID)
	body.OrderID = strings.TrimSpace(body.OrderID)
	if body.SupplierID == "" || body.OrderID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: string(apperrors.ErrCodeValidation),
			Err:     errors.New("supplier_id and order_id are required"),
		})
		return
	}

	category := model.TemplateCategory(strings.TrimSpace(body.MessageCategory))
	if category != "" && !category.Valid() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: string(apperrors.ErrCodeValidation),
			Err:     errors.New("unknown message_category"),
		})
		return
	}

	result, err := h.Svc.Broadcast(r.Context(), service.BroadcastRequest{
		SupplierID: body.SupplierID,
		OrderID:    body.OrderID,
		Category:   category,
	})
	if err != nil {
		if apperrors.IsInternal(err) {
			h.Logger.ErrorContext(r.Context(), "broadcast failed",
				"supplier_id", body.SupplierID, "order_id", body.OrderID, "error", err)
		}
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, broadcastResponse{
		Success:       true,
		SentTo:        result.SentTo,
		TotalContacts: result.TotalContacts,
		Results:       result.Outcomes,
	})
}
