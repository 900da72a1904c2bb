package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"

	"github.com/SparkJorel/payment-api-paynote/internal/apperrors"
)

// authClaims is what a verified bearer token carries.
type authClaims struct {
	UserID string
	Role   string
}

// verifyBearer parses and verifies the Authorization header. HMAC only, same
// secret the login endpoint signs with.
func verifyBearer(r *http.Request, secret []byte) (authClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return authClaims{}, fmt.Errorf("authorization header required")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return authClaims{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return authClaims{}, fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return authClaims{}, fmt.Errorf("invalid user_id in token")
	}
	role, _ := claims["role"].(string)

	return authClaims{UserID: userID, Role: role}, nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError picks the status code from the error kind instead of matching
// on message text.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}
