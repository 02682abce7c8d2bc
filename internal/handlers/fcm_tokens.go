package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"swms-backend/internal/middleware"
	"swms-backend/pkg/utils"
)

type RegisterTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"deviceType"`
}

// RegisterFCMToken stores a device push token for the caller. A token
// that moves between accounts is reassigned to the latest one.
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req RegisterTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Token == "" {
			utils.Error(w, http.StatusBadRequest, "token is required")
			return
		}
		if req.DeviceType != "ios" && req.DeviceType != "android" {
			utils.Error(w, http.StatusBadRequest, "deviceType must be ios or android")
			return
		}

		now := time.Now().Unix()
		_, err := db.Exec(`
			INSERT INTO fcm_tokens (user_id, token, device_type, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (token) DO UPDATE SET
				user_id = EXCLUDED.user_id,
				device_type = EXCLUDED.device_type,
				updated_at = EXCLUDED.updated_at
		`, claims.UserID, req.Token, req.DeviceType, now)
		if err != nil {
			log.Printf("❌ Failed to register FCM token for %s: %v", claims.UserID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		utils.Success(w, map[string]bool{"ok": true})
	}
}

// tokensForUser returns all registered push tokens for one user.
func tokensForUser(db *sqlx.DB, userID string) ([]string, error) {
	var tokens []string
	err := db.Select(&tokens, `SELECT token FROM fcm_tokens WHERE user_id = $1`, userID)
	return tokens, err
}

// tokensForRole returns push tokens for every user holding a role.
func tokensForRole(db *sqlx.DB, role string) ([]string, error) {
	var tokens []string
	err := db.Select(&tokens, `
		SELECT t.token
		FROM fcm_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE u.role = $1
	`, role)
	return tokens, err
}
