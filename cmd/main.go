package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SparkJorel/payment-api-paynote/internal/config"
	"github.com/SparkJorel/payment-api-paynote/internal/handlers"
	"github.com/SparkJorel/payment-api-paynote/internal/momo"
	"github.com/SparkJorel/payment-api-paynote/internal/services"
	"github.com/SparkJorel/payment-api-paynote/internal/store"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Successfully connected to MongoDB")

	st := store.NewMongo(client.Database(cfg.DBName))
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: failed to create indexes: %v", err)
	}

	gateway := momo.NewClient(momo.Config{
		BaseURL:      cfg.YNoteBaseURL,
		TokenURL:     cfg.YNoteTokenURL,
		ClientID:     cfg.YNoteClientID,
		ClientSecret: cfg.YNoteClientSecret,
		CallbackURL:  cfg.CallbackURL,
		Timeout:      time.Duration(cfg.APITimeout) * time.Second,
	})

	// Initialize services and handlers
	notificationService := services.NewNotificationService(st)
	paymentService := services.NewPaymentService(st, gateway, notificationService, cfg.Currency)
	userService := services.NewUserService(st, cfg.JWTSecret)

	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg.JWTSecret)
	webhookHandler := handlers.NewWebhookHandler(paymentService)
	userHandler := handlers.NewUserHandler(userService, notificationService, cfg.JWTSecret)

	// Set up router
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/api/auth/register", userHandler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", userHandler.Login).Methods("POST")
	router.HandleFunc("/api/notifications", userHandler.Notifications).Methods("GET")

	router.HandleFunc("/api/payments/initiate", paymentHandler.Initiate).Methods("POST")
	router.HandleFunc("/api/payments/status", paymentHandler.Status).Methods("POST")
	router.HandleFunc("/api/payments/status/{referenceID}", paymentHandler.Status).Methods("GET")
	router.HandleFunc("/api/payments/transactions", paymentHandler.ListTransactions).Methods("GET")
	router.HandleFunc("/api/payments/refund", paymentHandler.Refund).Methods("POST")
	router.HandleFunc("/api/payments/validate-phone", paymentHandler.ValidatePhone).Methods("POST")

	router.HandleFunc("/api/webhooks/ynote-callback", webhookHandler.YnoteCallback).Methods("POST")
	router.HandleFunc("/api/webhooks/health", webhookHandler.Health).Methods("GET")

	// Start server
	server := &http.Server{
		Addr:         cfg.Host + ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(server.ListenAndServe())
}
