package utils

import (
	"net/http"
	"time"

	"a1taxi/config"
	"a1taxi/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// IssueToken signs a 30-day access token carrying the account id and role.
func IssueToken(id, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"role": role,
		"exp":  time.Now().Add(30 * 24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(config.Envs.JWTSecret))
}

// SendToken generates a JWT and sends the authenticated response
func SendToken(c *gin.Context, entity interface{}, id string) {
	var role string
	switch entity.(type) {
	case *models.Driver:
		role = "driver"
	default:
		role = "user"
	}

	tokenString, err := IssueToken(id, role)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	switch v := entity.(type) {
	case *models.User:
		RespondSuccess(c, http.StatusOK, "Authentication successful", gin.H{
			"accessToken": tokenString,
			"user":        v,
		})
	case *models.Driver:
		RespondSuccess(c, http.StatusOK, "Authentication successful", gin.H{
			"accessToken": tokenString,
			"driver":      v,
		})
	}
}
