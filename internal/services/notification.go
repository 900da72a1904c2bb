package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SparkJorel/payment-api-paynote/internal/models"
	"github.com/SparkJorel/payment-api-paynote/internal/store"
)

// NotificationService writes fire-and-forget notification documents for
// campaign owners. Insert failures are logged and swallowed so they never
// fail the payment flow.
type NotificationService struct {
	store store.Store
	now   func() time.Time
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{store: st, now: time.Now}
}

func (s *NotificationService) PaymentSucceeded(ctx context.Context, txn *models.Transaction) {
	s.notify(ctx, &models.Notification{
		UserID:      txn.UserID,
		Type:        models.NotificationPaymentSuccess,
		Title:       "Payment received",
		Body:        fmt.Sprintf("Your payment of %d %s was received. Your campaign has been scheduled.", txn.Amount, txn.Currency),
		CampaignID:  txn.CampaignID,
		ReferenceID: txn.ReferenceID,
		CreatedAt:   s.now(),
	})
}

func (s *NotificationService) PaymentFailed(ctx context.Context, txn *models.Transaction, reason string) {
	body := fmt.Sprintf("Your payment of %d %s failed.", txn.Amount, txn.Currency)
	if reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, reason)
	}
	s.notify(ctx, &models.Notification{
		UserID:      txn.UserID,
		Type:        models.NotificationPaymentFailed,
		Title:       "Payment failed",
		Body:        body,
		CampaignID:  txn.CampaignID,
		ReferenceID: txn.ReferenceID,
		CreatedAt:   s.now(),
	})
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.ListNotificationsByUser(ctx, userID)
}

func (s *NotificationService) notify(ctx context.Context, n *models.Notification) {
	if err := s.store.InsertNotification(ctx, n); err != nil {
		log.Printf("Failed to create %s notification for user %s: %v", n.Type, n.UserID, err)
	}
}
