package momo

import (
	"strconv"
	"strings"

	"github.com/SparkJorel/payment-api-paynote/internal/models"
)

// VendorStatus is the normalized view of a gateway response. The Y-Note API
// is not consistent about field names or nesting, so everything is extracted
// from whichever candidate field is populated.
type VendorStatus struct {
	Status                 string
	RawStatus              string
	Amount                 int64
	FinancialTransactionID string
	Reason                 string
}

var statusFields = []string{"status", "transactionStatus", "paymentStatus"}
var txIDFields = []string{"financialTransactionId", "transactionId", "operatorTransactionId"}
var reasonFields = []string{"reason", "message", "description"}
var referenceFields = []string{"referenceId", "reference_id", "orderId", "order_id", "externalId"}

// Normalize collapses an arbitrary vendor payload into the three-state
// status model. Unrecognized statuses stay PENDING.
func Normalize(payload map[string]interface{}) VendorStatus {
	vs := VendorStatus{}
	vs.RawStatus = lookupString(payload, statusFields)
	vs.Status = NormalizeStatusString(vs.RawStatus)
	vs.FinancialTransactionID = lookupString(payload, txIDFields)
	vs.Reason = lookupString(payload, reasonFields)
	vs.Amount = lookupAmount(payload)
	return vs
}

// NormalizeStatusString maps a vendor status word to PENDING, SUCCESSFUL or
// FAILED.
func NormalizeStatusString(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SUCCESSFUL", "SUCCESS", "COMPLETED":
		return models.StatusSuccessful
	case "FAILED", "REJECTED", "CANCELLED", "EXPIRED":
		return models.StatusFailed
	default:
		return models.StatusPending
	}
}

// ExtractReferenceID pulls the reference id out of a callback payload,
// checking the known aliases at the top level and under "data".
func ExtractReferenceID(payload map[string]interface{}) string {
	return lookupString(payload, referenceFields)
}

func lookupString(payload map[string]interface{}, keys []string) string {
	for _, scope := range scopes(payload) {
		for _, key := range keys {
			if v, ok := scope[key]; ok {
				if s := asString(v); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func lookupAmount(payload map[string]interface{}) int64 {
	for _, scope := range scopes(payload) {
		if v, ok := scope["amount"]; ok {
			switch a := v.(type) {
			case float64:
				return int64(a)
			case string:
				if n, err := strconv.ParseFloat(a, 64); err == nil {
					return int64(n)
				}
			}
		}
	}
	return 0
}

// scopes yields the top-level payload and, when present, its "data" object.
func scopes(payload map[string]interface{}) []map[string]interface{} {
	out := []map[string]interface{}{payload}
	if data, ok := payload["data"].(map[string]interface{}); ok {
		out = append(out, data)
	}
	return out
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}
