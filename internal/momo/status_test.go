package momo

import (
	"testing"

	"github.com/SparkJorel/payment-api-paynote/internal/models"
)

func TestNormalizeStatusString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"SUCCESS", models.StatusSuccessful},
		{"SUCCESSFUL", models.StatusSuccessful},
		{"COMPLETED", models.StatusSuccessful},
		{"success", models.StatusSuccessful},
		{" completed ", models.StatusSuccessful},
		{"FAILED", models.StatusFailed},
		{"REJECTED", models.StatusFailed},
		{"CANCELLED", models.StatusFailed},
		{"EXPIRED", models.StatusFailed},
		{"PENDING", models.StatusPending},
		{"IN_PROGRESS", models.StatusPending},
		{"WHATEVER", models.StatusPending},
		{"", models.StatusPending},
	}
	for _, c := range cases {
		if got := NormalizeStatusString(c.in); got != c.want {
			t.Errorf("NormalizeStatusString(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeExtractsFromTopLevel(t *testing.T) {
	vs := Normalize(map[string]interface{}{
		"status":                 "SUCCESSFUL",
		"amount":                 float64(1500),
		"financialTransactionId": "FT-99",
		"reason":                 "",
	})
	if vs.Status != models.StatusSuccessful {
		t.Errorf("Status = %q, want SUCCESSFUL", vs.Status)
	}
	if vs.Amount != 1500 {
		t.Errorf("Amount = %d, want 1500", vs.Amount)
	}
	if vs.FinancialTransactionID != "FT-99" {
		t.Errorf("FinancialTransactionID = %q, want FT-99", vs.FinancialTransactionID)
	}
}

func TestNormalizeExtractsFromDataEnvelope(t *testing.T) {
	vs := Normalize(map[string]interface{}{
		"data": map[string]interface{}{
			"transactionStatus":     "REJECTED",
			"amount":                "2500",
			"operatorTransactionId": "OP-1",
			"message":               "insufficient funds",
		},
	})
	if vs.Status != models.StatusFailed {
		t.Errorf("Status = %q, want FAILED", vs.Status)
	}
	if vs.RawStatus != "REJECTED" {
		t.Errorf("RawStatus = %q, want REJECTED", vs.RawStatus)
	}
	if vs.Amount != 2500 {
		t.Errorf("Amount = %d, want 2500", vs.Amount)
	}
	if vs.FinancialTransactionID != "OP-1" {
		t.Errorf("FinancialTransactionID = %q, want OP-1", vs.FinancialTransactionID)
	}
	if vs.Reason != "insufficient funds" {
		t.Errorf("Reason = %q, want insufficient funds", vs.Reason)
	}
}

func TestExtractReferenceID(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    string
	}{
		{"top-level referenceId", map[string]interface{}{"referenceId": "ref-1"}, "ref-1"},
		{"snake case", map[string]interface{}{"reference_id": "ref-2"}, "ref-2"},
		{"orderId", map[string]interface{}{"orderId": "ref-3"}, "ref-3"},
		{"nested in data", map[string]interface{}{"data": map[string]interface{}{"orderId": "ref-4"}}, "ref-4"},
		{"missing", map[string]interface{}{"status": "SUCCESSFUL"}, ""},
	}
	for _, c := range cases {
		if got := ExtractReferenceID(c.payload); got != c.want {
			t.Errorf("%s: ExtractReferenceID = %q, want %q", c.name, got, c.want)
		}
	}
}
