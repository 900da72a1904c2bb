package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SparkJorel/payment-api-paynote/internal/apperrors"
	"github.com/SparkJorel/payment-api-paynote/internal/services"
)

type WebhookAPI interface {
	ProcessCallback(ctx context.Context, payload map[string]interface{}) (services.StatusResult, error)
}

// WebhookHandler receives vendor-initiated status pushes. No auth: the
// gateway does not sign callbacks.
type WebhookHandler struct {
	service WebhookAPI
}

func NewWebhookHandler(service WebhookAPI) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// YnoteCallback handles POST /api/webhooks/ynote-callback.
//
// Missing reference gets 400 and an unknown reference gets 404 so those show
// up on the vendor side; every other processing failure is logged and
// answered 200 to keep the vendor from retry-storming us.
func (h *WebhookHandler) YnoteCallback(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid callback payload"})
		return
	}

	res, err := h.service.ProcessCallback(r.Context(), payload)
	if err != nil {
		switch apperrors.KindOf(err) {
		case apperrors.KindInvalidArgument:
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": err.Error()})
		case apperrors.KindNotFound:
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": err.Error()})
		default:
			log.Printf("Callback processing failed: %v", err)
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "error": "callback accepted, processing failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  res.Status,
	})
}

// Health handles GET /api/webhooks/health.
func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
