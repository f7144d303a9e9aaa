package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"busops/internal/domain/models"
	"busops/internal/http/middleware"
	"busops/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	if len(h.Secret) == 0 {
		RespondError(c, http.StatusNotFound, "login is not enabled")
		return
	}
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	doc, err := h.Svc.Store.Read(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	email := strings.TrimSpace(req.Email)
	var user *models.User
	for i := range doc.Users {
		if email != "" && strings.EqualFold(strings.TrimSpace(doc.Users[i].Email), email) {
			user = &doc.Users[i]
			break
		}
	}
	if user == nil || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.LogEvent(requestID(c), "auth", "login_failed", "email="+email)
		RespondError(c, http.StatusUnauthorized, "wrong email or password")
		return
	}
	if user.Status != "active" {
		RespondError(c, http.StatusForbidden, "account is inactive")
		return
	}

	now := h.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.TokenTTL)),
		},
	})
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		utils.LogEvent(requestID(c), "auth", "sign_token", err.Error())
		RespondError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}
	utils.LogEvent(requestID(c), "auth", "login", "user_id="+user.ID)
	c.JSON(http.StatusOK, loginResponse{Token: signed, User: user.Public()})
}
