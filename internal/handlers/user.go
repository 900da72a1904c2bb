package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/SparkJorel/payment-api-paynote/internal/services"
)

type UserHandler struct {
	service       *services.UserService
	notifications *services.NotificationService
	jwtSecret     []byte
}

func NewUserHandler(service *services.UserService, notifications *services.NotificationService, jwtSecret string) *UserHandler {
	return &UserHandler{service: service, notifications: notifications, jwtSecret: []byte(jwtSecret)}
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName    string `json:"fullname"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phoneNumber"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid request body"})
		return
	}

	id, err := h.service.Register(r.Context(), req.FullName, req.Email, req.PhoneNumber, req.Password)
	if err != nil {
		log.Printf("Failed to register user %s: %v", req.Email, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": id})
}

// Login handles POST /api/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid request body"})
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "error": "invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Notifications handles GET /api/notifications for the authenticated user.
func (h *UserHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	claims, err := verifyBearer(r, h.jwtSecret)
	if err != nil {
		writeUnauthorized(w, err)
		return
	}

	notifications, err := h.notifications.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
	})
}
