package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"

	"github.com/SparkJorel/payment-api-paynote/internal/apperrors"
	"github.com/SparkJorel/payment-api-paynote/internal/models"
	"github.com/SparkJorel/payment-api-paynote/internal/services"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    models.RoleMember,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

type fakePaymentAPI struct {
	initiateErr error
	statusRes   services.StatusResult
	statusErr   error
	lastCaller  string
}

func (f *fakePaymentAPI) Initiate(ctx context.Context, callerID string, req services.InitiateRequest) (*models.Transaction, error) {
	f.lastCaller = callerID
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	return &models.Transaction{ReferenceID: "ref-1", Status: models.StatusPending, Currency: "XAF"}, nil
}

func (f *fakePaymentAPI) CheckStatus(ctx context.Context, callerID, referenceID string) (services.StatusResult, error) {
	f.lastCaller = callerID
	if f.statusErr != nil {
		return services.StatusResult{}, f.statusErr
	}
	return f.statusRes, nil
}

func (f *fakePaymentAPI) RequestRefund(ctx context.Context, callerID string, req services.RefundRequest) (*models.Refund, error) {
	return &models.Refund{RefundID: "rf-1", Status: models.RefundPendingReview}, nil
}

func (f *fakePaymentAPI) ListTransactions(ctx context.Context, callerID, statusFilter string) ([]models.Transaction, error) {
	return nil, nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(buf))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestInitiateRequiresAuth(t *testing.T) {
	h := NewPaymentHandler(&fakePaymentAPI{}, testSecret)
	rec := postJSON(t, h.Initiate, "/api/payments/initiate", "", services.InitiateRequest{})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestInitiateRejectsBadToken(t *testing.T) {
	h := NewPaymentHandler(&fakePaymentAPI{}, testSecret)
	rec := postJSON(t, h.Initiate, "/api/payments/initiate", "not-a-token", services.InitiateRequest{})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestInitiatePassesCallerFromToken(t *testing.T) {
	api := &fakePaymentAPI{}
	h := NewPaymentHandler(api, testSecret)

	rec := postJSON(t, h.Initiate, "/api/payments/initiate", signToken(t, "user-7"), services.InitiateRequest{
		CampaignID: "c1", Amount: 1500, PhoneNumber: "0677123456",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if api.lastCaller != "user-7" {
		t.Errorf("caller = %q, want user-7", api.lastCaller)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["referenceId"] != "ref-1" || body["status"] != "PENDING" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestErrorKindToStatusCode(t *testing.T) {
	cases := []struct {
		kind apperrors.Kind
		want int
	}{
		{apperrors.KindNotFound, http.StatusNotFound},
		{apperrors.KindPermissionDenied, http.StatusForbidden},
		{apperrors.KindInvalidArgument, http.StatusBadRequest},
		{apperrors.KindInvalidState, http.StatusBadRequest},
		{apperrors.KindUpstream, http.StatusInternalServerError},
		{apperrors.KindInternal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		api := &fakePaymentAPI{initiateErr: apperrors.New(c.kind, "boom")}
		h := NewPaymentHandler(api, testSecret)
		rec := postJSON(t, h.Initiate, "/api/payments/initiate", signToken(t, "u"), services.InitiateRequest{})
		if rec.Code != c.want {
			t.Errorf("kind %v: status = %d, want %d", c.kind, rec.Code, c.want)
		}
	}
}

func TestStatusByPathVariable(t *testing.T) {
	api := &fakePaymentAPI{statusRes: services.StatusResult{
		Status: models.StatusSuccessful, Amount: 1500, Currency: "XAF", FinancialTransactionID: "FT-1",
	}}
	h := NewPaymentHandler(api, testSecret)

	router := mux.NewRouter()
	router.HandleFunc("/api/payments/status/{referenceID}", h.Status).Methods("GET")

	req := httptest.NewRequest("GET", "/api/payments/status/ref-1", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "SUCCESSFUL" || body["financialTransactionId"] != "FT-1" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestStatusByBodyRequiresReference(t *testing.T) {
	h := NewPaymentHandler(&fakePaymentAPI{}, testSecret)
	rec := postJSON(t, h.Status, "/api/payments/status", signToken(t, "u"), map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestValidatePhone(t *testing.T) {
	h := NewPaymentHandler(&fakePaymentAPI{}, testSecret)

	rec := postJSON(t, h.ValidatePhone, "/api/payments/validate-phone", "", map[string]string{"phoneNumber": "0677123456"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["valid"] != true || body["msisdn"] != "237677123456" {
		t.Errorf("unexpected body: %v", body)
	}

	rec = postJSON(t, h.ValidatePhone, "/api/payments/validate-phone", "", map[string]string{"phoneNumber": "0699123456"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body = map[string]interface{}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["valid"] != false {
		t.Errorf("orange number should be invalid: %v", body)
	}
}
