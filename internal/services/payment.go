package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SparkJorel/payment-api-paynote/internal/apperrors"
	"github.com/SparkJorel/payment-api-paynote/internal/models"
	"github.com/SparkJorel/payment-api-paynote/internal/momo"
	"github.com/SparkJorel/payment-api-paynote/internal/phone"
	"github.com/SparkJorel/payment-api-paynote/internal/store"
)

// MinAmount is the smallest accepted payment in XAF.
const MinAmount = 100

// Gateway is the slice of the momo client the payment service needs.
type Gateway interface {
	RequestToPay(ctx context.Context, req momo.PaymentRequest) (map[string]interface{}, error)
	PaymentStatus(ctx context.Context, referenceID string) (map[string]interface{}, error)
}

type PaymentService struct {
	store    store.Store
	gateway  Gateway
	notifier *NotificationService
	currency string
	now      func() time.Time
}

func NewPaymentService(st store.Store, gw Gateway, notifier *NotificationService, currency string) *PaymentService {
	return &PaymentService{
		store:    st,
		gateway:  gw,
		notifier: notifier,
		currency: currency,
		now:      time.Now,
	}
}

type InitiateRequest struct {
	CampaignID   string `json:"campaignId"`
	Amount       int64  `json:"amount"`
	PhoneNumber  string `json:"phoneNumber"`
	PayerMessage string `json:"payerMessage"`
}

// StatusResult is what both the poll and the callback report back.
type StatusResult struct {
	ReferenceID            string
	Status                 string
	Amount                 int64
	Currency               string
	FinancialTransactionID string
	Reason                 string
}

// Initiate validates a payment request, submits it to the gateway and
// persists the PENDING transaction. Validation failures happen before any
// write or gateway call.
func (s *PaymentService) Initiate(ctx context.Context, callerID string, req InitiateRequest) (*models.Transaction, error) {
	campaign, err := s.store.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.UserID != callerID {
		log.Printf("User %s attempted to pay for campaign %s owned by %s", callerID, req.CampaignID, campaign.UserID)
		return nil, apperrors.New(apperrors.KindPermissionDenied, "you do not own this campaign")
	}
	if campaign.Status != models.CampaignPendingPayment {
		return nil, apperrors.Newf(apperrors.KindInvalidState, "campaign is not awaiting payment, current status is %s", campaign.Status)
	}
	if req.Amount < MinAmount {
		return nil, apperrors.Newf(apperrors.KindInvalidArgument, "amount must be at least %d %s", MinAmount, s.currency)
	}
	msisdn, err := phone.Validate(req.PhoneNumber)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidArgument, err, "invalid phone number")
	}

	referenceID := uuid.New().String()
	raw, err := s.gateway.RequestToPay(ctx, momo.PaymentRequest{
		ReferenceID:  referenceID,
		Amount:       req.Amount,
		Currency:     s.currency,
		Msisdn:       msisdn,
		PayerMessage: req.PayerMessage,
	})
	if err != nil {
		log.Printf("Gateway rejected payment for campaign %s: %v", req.CampaignID, err)
		return nil, err
	}

	txn := &models.Transaction{
		ReferenceID:  referenceID,
		CampaignID:   req.CampaignID,
		UserID:       callerID,
		Amount:       req.Amount,
		Currency:     s.currency,
		Msisdn:       msisdn,
		PayerMessage: strings.TrimSpace(req.PayerMessage),
		Status:       models.StatusPending,
		InitResponse: raw,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if err := s.store.InsertTransaction(ctx, txn); err != nil {
		return nil, err
	}

	log.Printf("Payment initiated: referenceId=%s campaign=%s amount=%d %s", referenceID, req.CampaignID, req.Amount, s.currency)
	return txn, nil
}

// CheckStatus re-queries the gateway for a reference id and applies the
// shared state transition. Only the transaction owner or an admin may poll.
func (s *PaymentService) CheckStatus(ctx context.Context, callerID, referenceID string) (StatusResult, error) {
	txn, err := s.store.GetTransaction(ctx, referenceID)
	if err != nil {
		return StatusResult{}, err
	}
	if txn.UserID != callerID {
		caller, err := s.store.GetUserByID(ctx, callerID)
		if err != nil || caller.Role != models.RoleAdmin {
			return StatusResult{}, apperrors.New(apperrors.KindPermissionDenied, "you do not own this transaction")
		}
	}

	raw, err := s.gateway.PaymentStatus(ctx, referenceID)
	if err != nil {
		log.Printf("Gateway status query failed for %s: %v", referenceID, err)
		return StatusResult{}, err
	}

	vs := momo.Normalize(raw)
	if err := s.applyStatusUpdate(ctx, txn, vs, raw); err != nil {
		return StatusResult{}, err
	}

	return s.result(txn, vs), nil
}

// ProcessCallback handles a vendor-initiated status push. The payload shape
// varies; the reference id is pulled from whichever alias is populated.
func (s *PaymentService) ProcessCallback(ctx context.Context, payload map[string]interface{}) (StatusResult, error) {
	referenceID := momo.ExtractReferenceID(payload)
	if referenceID == "" {
		return StatusResult{}, apperrors.New(apperrors.KindInvalidArgument, "callback payload is missing a reference id")
	}

	txn, err := s.store.GetTransaction(ctx, referenceID)
	if err != nil {
		return StatusResult{}, err
	}

	vs := momo.Normalize(payload)
	log.Printf("Callback received: referenceId=%s vendorStatus=%q normalized=%s", referenceID, vs.RawStatus, vs.Status)
	if err := s.applyStatusUpdate(ctx, txn, vs, payload); err != nil {
		return StatusResult{}, err
	}

	return s.result(txn, vs), nil
}

// applyStatusUpdate is the single state-transition routine both entry points
// converge on. The transaction always gets the latest status; the campaign
// transition is conditional and therefore idempotent.
func (s *PaymentService) applyStatusUpdate(ctx context.Context, txn *models.Transaction, vs momo.VendorStatus, raw map[string]interface{}) error {
	if err := s.store.UpdateTransactionStatus(ctx, txn.ReferenceID, vs.Status, vs.FinancialTransactionID, vs.Reason, raw); err != nil {
		return err
	}

	switch vs.Status {
	case models.StatusSuccessful:
		moved, err := s.store.TransitionCampaignToScheduled(ctx, txn.CampaignID)
		if err != nil {
			return err
		}
		if moved {
			log.Printf("Campaign %s scheduled after payment %s", txn.CampaignID, txn.ReferenceID)
			s.notifier.PaymentSucceeded(ctx, txn)
		}
	case models.StatusFailed:
		recorded, err := s.store.MarkCampaignPaymentFailed(ctx, txn.CampaignID)
		if err != nil {
			return err
		}
		if recorded {
			s.notifier.PaymentFailed(ctx, txn, vs.Reason)
		}
	}

	return nil
}

func (s *PaymentService) result(txn *models.Transaction, vs momo.VendorStatus) StatusResult {
	res := StatusResult{
		ReferenceID:            txn.ReferenceID,
		Status:                 vs.Status,
		Amount:                 vs.Amount,
		Currency:               txn.Currency,
		FinancialTransactionID: vs.FinancialTransactionID,
		Reason:                 vs.Reason,
	}
	if res.Amount == 0 {
		res.Amount = txn.Amount
	}
	return res
}

type RefundRequest struct {
	ReferenceID string `json:"referenceId"`
	Amount      int64  `json:"amount"`
	PhoneNumber string `json:"phoneNumber"`
	Reason      string `json:"reason"`
}

// RequestRefund records a refund for manual review. Admin only; admin-ness
// comes from the users collection, not the token.
func (s *PaymentService) RequestRefund(ctx context.Context, callerID string, req RefundRequest) (*models.Refund, error) {
	caller, err := s.store.GetUserByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.KindPermissionDenied, "refunds require an admin account")
	}

	txn, err := s.store.GetTransaction(ctx, req.ReferenceID)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 || req.Amount > txn.Amount {
		return nil, apperrors.Newf(apperrors.KindInvalidArgument, "refund amount must be between 1 and %d", txn.Amount)
	}
	msisdn, err := phone.Validate(req.PhoneNumber)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidArgument, err, "invalid phone number")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "reason cannot be empty")
	}

	refund := &models.Refund{
		RefundID:    uuid.New().String(),
		ReferenceID: req.ReferenceID,
		Amount:      req.Amount,
		Msisdn:      msisdn,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      models.RefundPendingReview,
		RequestedBy: callerID,
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertRefund(ctx, refund); err != nil {
		return nil, err
	}

	log.Printf("Refund request recorded: refundId=%s referenceId=%s amount=%d", refund.RefundID, req.ReferenceID, req.Amount)
	return refund, nil
}

// ListTransactions returns the caller's transactions, newest first.
func (s *PaymentService) ListTransactions(ctx context.Context, callerID, statusFilter string) ([]models.Transaction, error) {
	if statusFilter != "" {
		switch statusFilter {
		case models.StatusPending, models.StatusSuccessful, models.StatusFailed:
		default:
			return nil, apperrors.New(apperrors.KindInvalidArgument, "invalid status filter, must be PENDING, SUCCESSFUL or FAILED")
		}
	}
	return s.store.ListTransactionsByUser(ctx, callerID, statusFilter)
}
