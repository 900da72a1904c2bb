package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationPaymentSuccess = "payment_success"
	NotificationPaymentFailed  = "payment_failed"
)

// Notification represents a notification document for a campaign owner.
type Notification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Type        string             `bson:"type" json:"type"`
	Title       string             `bson:"title" json:"title"`
	Body        string             `bson:"body" json:"body"`
	CampaignID  string             `bson:"campaign_id,omitempty" json:"campaign_id,omitempty"`
	ReferenceID string             `bson:"reference_id,omitempty" json:"reference_id,omitempty"`
	Read        bool               `bson:"read" json:"read"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
