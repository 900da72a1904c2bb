package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SparkJorel/payment-api-paynote/internal/apperrors"
	"github.com/SparkJorel/payment-api-paynote/internal/models"
)

const (
	colCampaigns     = "campaigns"
	colTransactions  = "mtn_transactions"
	colRefunds       = "mtn_refunds"
	colNotifications = "notifications"
	colUsers         = "users"
)

// Mongo implements Store on top of a mongo database handle.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (s *Mongo) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Newf(apperrors.KindInvalidArgument, "invalid campaign id %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var campaign models.Campaign
	if err := s.db.Collection(colCampaigns).FindOne(ctx, bson.M{"_id": objID}).Decode(&campaign); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.New(apperrors.KindNotFound, "campaign not found")
		}
		log.Printf("Failed to fetch campaign %s: %v", id, err)
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to fetch campaign")
	}

	return &campaign, nil
}

func (s *Mongo) TransitionCampaignToScheduled(ctx context.Context, id string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.Newf(apperrors.KindInvalidArgument, "invalid campaign id %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// The status filter is the only ordering guarantee against a concurrent
	// poll and callback both seeing SUCCESSFUL.
	res, err := s.db.Collection(colCampaigns).UpdateOne(ctx,
		bson.M{"_id": objID, "status": models.CampaignPendingPayment},
		bson.M{"$set": bson.M{
			"status":         models.CampaignScheduled,
			"payment_status": models.PaymentStatusPaid,
			"updated_at":     time.Now(),
		}})
	if err != nil {
		log.Printf("Failed to transition campaign %s: %v", id, err)
		return false, apperrors.Wrap(apperrors.KindInternal, err, "failed to update campaign")
	}

	return res.ModifiedCount == 1, nil
}

func (s *Mongo) MarkCampaignPaymentFailed(ctx context.Context, id string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, apperrors.Newf(apperrors.KindInvalidArgument, "invalid campaign id %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.db.Collection(colCampaigns).UpdateOne(ctx,
		bson.M{"_id": objID, "payment_status": bson.M{"$ne": models.PaymentStatusFailed}},
		bson.M{"$set": bson.M{
			"payment_status": models.PaymentStatusFailed,
			"updated_at":     time.Now(),
		}})
	if err != nil {
		log.Printf("Failed to mark campaign %s payment failed: %v", id, err)
		return false, apperrors.Wrap(apperrors.KindInternal, err, "failed to update campaign")
	}

	return res.ModifiedCount == 1, nil
}

func (s *Mongo) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.Collection(colTransactions).InsertOne(ctx, txn); err != nil {
		log.Printf("Failed to save transaction %s: %v", txn.ReferenceID, err)
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to save transaction")
	}
	return nil
}

func (s *Mongo) GetTransaction(ctx context.Context, referenceID string) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var txn models.Transaction
	if err := s.db.Collection(colTransactions).FindOne(ctx, bson.M{"_id": referenceID}).Decode(&txn); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.New(apperrors.KindNotFound, "transaction not found")
		}
		log.Printf("Failed to fetch transaction %s: %v", referenceID, err)
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to fetch transaction")
	}

	return &txn, nil
}

func (s *Mongo) UpdateTransactionStatus(ctx context.Context, referenceID, status, financialTxID, reason string, raw map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if financialTxID != "" {
		set["financial_transaction_id"] = financialTxID
	}
	if reason != "" {
		set["reason"] = reason
	}
	if raw != nil {
		set["last_status_response"] = raw
	}

	_, err := s.db.Collection(colTransactions).UpdateOne(ctx, bson.M{"_id": referenceID}, bson.M{"$set": set})
	if err != nil {
		log.Printf("Failed to update transaction %s: %v", referenceID, err)
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to update transaction")
	}
	return nil
}

func (s *Mongo) ListTransactionsByUser(ctx context.Context, userID, statusFilter string) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{"user_id": userID}
	if statusFilter != "" {
		query["status"] = statusFilter
	}

	cur, err := s.db.Collection(colTransactions).Find(ctx, query, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		log.Printf("Failed to fetch transactions for user %s: %v", userID, err)
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to fetch transactions")
	}

	var txns []models.Transaction
	defer cur.Close(ctx)
	if err := cur.All(ctx, &txns); err != nil {
		log.Printf("Failed to decode transactions: %v", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to decode transactions")
	}

	return txns, nil
}

func (s *Mongo) InsertRefund(ctx context.Context, refund *models.Refund) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.Collection(colRefunds).InsertOne(ctx, refund); err != nil {
		log.Printf("Failed to save refund %s: %v", refund.RefundID, err)
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to save refund")
	}
	return nil
}

func (s *Mongo) InsertNotification(ctx context.Context, n *models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n.ID = primitive.NewObjectID()
	if _, err := s.db.Collection(colNotifications).InsertOne(ctx, n); err != nil {
		log.Printf("Failed to save notification for user %s: %v", n.UserID, err)
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to save notification")
	}
	return nil
}

func (s *Mongo) ListNotificationsByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.db.Collection(colNotifications).Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		log.Printf("Failed to fetch notifications for user %s: %v", userID, err)
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to fetch notifications")
	}

	var notifications []models.Notification
	defer cur.Close(ctx)
	if err := cur.All(ctx, &notifications); err != nil {
		log.Printf("Failed to decode notifications: %v", err)
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to decode notifications")
	}

	return notifications, nil
}

func (s *Mongo) InsertUser(ctx context.Context, user *models.User) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()

	result, err := s.db.Collection(colUsers).InsertOne(ctx, user)
	if err != nil {
		log.Printf("Failed to save user %s: %v", user.Email, err)
		return "", apperrors.Wrap(apperrors.KindInternal, err, "failed to save user")
	}

	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *Mongo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Newf(apperrors.KindInvalidArgument, "invalid user id %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"_id": objID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		log.Printf("Failed to fetch user %s: %v", id, err)
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to fetch user")
	}

	return &user, nil
}

func (s *Mongo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := s.db.Collection(colUsers).FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.New(apperrors.KindNotFound, "user not found")
		}
		log.Printf("Failed to fetch user by email %s: %v", email, err)
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to fetch user")
	}

	return &user, nil
}

// EnsureIndexes creates the indexes the hot queries rely on.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	txnIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "campaign_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := s.db.Collection(colTransactions).Indexes().CreateMany(ctx, txnIndexes); err != nil {
		log.Printf("Failed to create transaction indexes: %v", err)
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to create indexes")
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}
	if _, err := s.db.Collection(colUsers).Indexes().CreateMany(ctx, userIndexes); err != nil {
		log.Printf("Failed to create user indexes: %v", err)
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to create indexes")
	}

	notifIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := s.db.Collection(colNotifications).Indexes().CreateMany(ctx, notifIndexes); err != nil {
		log.Printf("Failed to create notification indexes: %v", err)
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to create indexes")
	}

	return nil
}
