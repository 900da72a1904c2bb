package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SparkJorel/payment-api-paynote/internal/models"
	"github.com/SparkJorel/payment-api-paynote/internal/phone"
	"github.com/SparkJorel/payment-api-paynote/internal/services"
)

// PaymentAPI is the slice of the payment service the handler needs; tests
// swap in a fake.
type PaymentAPI interface {
	Initiate(ctx context.Context, callerID string, req services.InitiateRequest) (*models.Transaction, error)
	CheckStatus(ctx context.Context, callerID, referenceID string) (services.StatusResult, error)
	RequestRefund(ctx context.Context, callerID string, req services.RefundRequest) (*models.Refund, error)
	ListTransactions(ctx context.Context, callerID, statusFilter string) ([]models.Transaction, error)
}

type PaymentHandler struct {
	service   PaymentAPI
	jwtSecret []byte
}

func NewPaymentHandler(service PaymentAPI, jwtSecret string) *PaymentHandler {
	return &PaymentHandler{service: service, jwtSecret: []byte(jwtSecret)}
}

// Initiate handles POST /api/payments/initiate
func (h *PaymentHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	claims, err := verifyBearer(r, h.jwtSecret)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	var req services.InitiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid request body"})
		return
	}

	txn, err := h.service.Initiate(r.Context(), claims.UserID, req)
	if err != nil {
		log.Printf("Failed to initiate payment for campaign %s: %v", req.CampaignID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"referenceId": txn.ReferenceID,
		"status":      txn.Status,
		"message":     "Payment initiated. Confirm the transaction on your phone.",
	})
}

// Status handles POST /api/payments/status and GET /api/payments/status/{referenceID}
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	claims, err := verifyBearer(r, h.jwtSecret)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	referenceID := mux.Vars(r)["referenceID"]
	if referenceID == "" {
		var req struct {
			ReferenceID string `json:"referenceId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ReferenceID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "referenceId is required"})
			return
		}
		referenceID = req.ReferenceID
	}

	res, err := h.service.CheckStatus(r.Context(), claims.UserID, referenceID)
	if err != nil {
		log.Printf("Failed to check status for %s: %v", referenceID, err)
		writeError(w, err)
		return
	}

	writeStatusResult(w, res)
}

// Refund handles POST /api/payments/refund
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	claims, err := verifyBearer(r, h.jwtSecret)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	var req services.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid request body"})
		return
	}

	refund, err := h.service.RequestRefund(r.Context(), claims.UserID, req)
	if err != nil {
		log.Printf("Failed to record refund for %s: %v", req.ReferenceID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"refundId": refund.RefundID,
		"message":  "Refund request recorded for manual review.",
	})
}

// ListTransactions handles GET /api/payments/transactions
func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	claims, err := verifyBearer(r, h.jwtSecret)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	txns, err := h.service.ListTransactions(r.Context(), claims.UserID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"transactions": txns,
	})
}

// ValidatePhone handles POST /api/payments/validate-phone. No auth: the
// frontend calls this while the user types.
func (h *PaymentHandler) ValidatePhone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid request body"})
		return
	}

	msisdn, err := phone.Validate(req.PhoneNumber)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"valid":   false,
			"reason":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"valid":   true,
		"msisdn":  msisdn,
	})
}

func writeStatusResult(w http.ResponseWriter, res services.StatusResult) {
	body := map[string]interface{}{
		"success":  true,
		"status":   res.Status,
		"currency": res.Currency,
	}
	if res.Amount > 0 {
		body["amount"] = res.Amount
	}
	if res.FinancialTransactionID != "" {
		body["financialTransactionId"] = res.FinancialTransactionID
	}
	if res.Reason != "" {
		body["reason"] = res.Reason
	}
	writeJSON(w, http.StatusOK, body)
}
