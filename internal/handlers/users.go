package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"swms-backend/internal/models"
	"swms-backend/pkg/utils"
)

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// CreateUser provisions an account. Admin only.
func CreateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || len(req.Password) < 8 || req.Name == "" {
			utils.Error(w, http.StatusBadRequest, "email, name, and a password of at least 8 characters are required")
			return
		}

		switch req.Role {
		case models.RoleAdmin, models.RoleCollector, models.RoleCitizen:
		default:
			utils.Error(w, http.StatusBadRequest, "role must be one of admin, collector, citizen")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		now := time.Now().Unix()
		user := models.User{
			ID:        uuid.New().String(),
			Email:     req.Email,
			Password:  string(hashed),
			Name:      req.Name,
			Role:      req.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, name, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, user.ID, user.Email, user.Password, user.Name, user.Role, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			log.Printf("❌ Failed to create user %s: %v", req.Email, err)
			utils.Error(w, http.StatusConflict, "User already exists")
			return
		}

		log.Printf("✅ Created user: %s (%s)", user.Email, user.Role)
		utils.JSON(w, http.StatusCreated, user.ToUserResponse())
	}
}

// ListCollectors returns the collector directory for route assignment.
func ListCollectors(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		err := db.Select(&users, `
			SELECT * FROM users WHERE role = $1 ORDER BY name ASC
		`, models.RoleCollector)
		if err != nil {
			log.Printf("❌ Failed to list collectors: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to list collectors")
			return
		}

		responses := make([]models.UserResponse, len(users))
		for i, user := range users {
			responses[i] = user.ToUserResponse()
		}

		utils.Success(w, responses)
	}
}
