package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign lifecycle statuses. Only the pending_payment -> scheduled edge is
// driven by this service, once payment succeeds.
const (
	CampaignDraft             = "draft"
	CampaignPendingValidation = "pending_validation"
	CampaignPendingPayment    = "pending_payment"
	CampaignScheduled         = "scheduled"
	CampaignActive            = "active"
	CampaignPaused            = "paused"
	CampaignCompleted         = "completed"
	CampaignRejected          = "rejected"
)

const (
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"
)

// Campaign represents a campaign document in the MongoDB database.
type Campaign struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"user_id" json:"user_id"`
	Name          string             `bson:"name" json:"name"`
	Status        string             `bson:"status" json:"status"`
	PaymentStatus string             `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	Budget        int64              `bson:"budget" json:"budget"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
