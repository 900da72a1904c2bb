package models

import "time"

// Normalized transaction statuses. Every vendor status collapses into one of
// these three.
const (
	StatusPending    = "PENDING"
	StatusSuccessful = "SUCCESSFUL"
	StatusFailed     = "FAILED"
)

// Transaction is a payment attempt against a campaign, keyed by the
// caller-generated reference id. Created on initiation, mutated on status
// checks and callbacks, never deleted.
type Transaction struct {
	ReferenceID            string                 `bson:"_id" json:"referenceId"`
	CampaignID             string                 `bson:"campaign_id" json:"campaignId"`
	UserID                 string                 `bson:"user_id" json:"userId"`
	Amount                 int64                  `bson:"amount" json:"amount"`
	Currency               string                 `bson:"currency" json:"currency"`
	Msisdn                 string                 `bson:"msisdn" json:"msisdn"`
	PayerMessage           string                 `bson:"payer_message,omitempty" json:"payerMessage,omitempty"`
	Status                 string                 `bson:"status" json:"status"`
	FinancialTransactionID string                 `bson:"financial_transaction_id,omitempty" json:"financialTransactionId,omitempty"`
	Reason                 string                 `bson:"reason,omitempty" json:"reason,omitempty"`
	InitResponse           map[string]interface{} `bson:"init_response,omitempty" json:"-"`
	LastStatusResponse     map[string]interface{} `bson:"last_status_response,omitempty" json:"-"`
	CreatedAt              time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt              time.Time              `bson:"updated_at" json:"updated_at"`
}
