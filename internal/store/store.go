package store

import (
	"context"

	"github.com/SparkJorel/payment-api-paynote/internal/models"
)

// Store is the document-store surface the services depend on. The mongo
// implementation is the only real one; tests swap in fakes.
type Store interface {
	GetCampaign(ctx context.Context, id string) (*models.Campaign, error)
	// TransitionCampaignToScheduled moves a campaign pending_payment ->
	// scheduled and marks it paid. Returns false when the campaign was not
	// in pending_payment anymore, which is how the at-most-once guarantee
	// is enforced.
	TransitionCampaignToScheduled(ctx context.Context, id string) (bool, error)
	// MarkCampaignPaymentFailed records the failed payment on the campaign.
	// Returns false when it was already recorded.
	MarkCampaignPaymentFailed(ctx context.Context, id string) (bool, error)

	InsertTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, referenceID string) (*models.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, referenceID, status, financialTxID, reason string, raw map[string]interface{}) error
	ListTransactionsByUser(ctx context.Context, userID, statusFilter string) ([]models.Transaction, error)

	InsertRefund(ctx context.Context, refund *models.Refund) error
	InsertNotification(ctx context.Context, n *models.Notification) error
	ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error)

	InsertUser(ctx context.Context, user *models.User) (string, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	EnsureIndexes(ctx context.Context) error
}
