package models

import "time"

const RefundPendingReview = "pending_review"

// Refund is a manually-reviewed refund request. No automated disbursement
// happens; an operator picks these up from the collection.
type Refund struct {
	RefundID    string    `bson:"_id" json:"refundId"`
	ReferenceID string    `bson:"reference_id" json:"referenceId"`
	Amount      int64     `bson:"amount" json:"amount"`
	Msisdn      string    `bson:"msisdn" json:"msisdn"`
	Reason      string    `bson:"reason" json:"reason"`
	Status      string    `bson:"status" json:"status"`
	RequestedBy string    `bson:"requested_by" json:"requestedBy"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
