package middleware

import (
	"context"
	"net/http"
	"strings"

	"a1taxi/config"
	"a1taxi/db"
	"a1taxi/models"
	"a1taxi/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func parseBearerToken(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.RespondError(c, http.StatusUnauthorized, "Please log in to access this content", nil)
		return nil, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>", nil)
		return nil, false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(config.Envs.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token", err)
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid token claims", nil)
		return nil, false
	}
	return claims, true
}

func IsAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c)
		if !ok {
			c.Abort()
			return
		}
		id, ok := claims["id"].(string)
		if !ok || id == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid token payload", nil)
			c.Abort()
			return
		}

		var user models.User
		err := db.Pool.QueryRow(context.Background(),
			`SELECT id, full_name, phone_number, email, notification_token, status, created_at, updated_at
			 FROM users WHERE id=$1`, id).
			Scan(&user.ID, &user.FullName, &user.PhoneNumber, &user.Email, &user.NotificationToken, &user.Status, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "User not found", err)
			c.Abort()
			return
		}

		// Block suspended/inactive accounts
		if user.Status == "suspended" {
			utils.RespondError(c, http.StatusForbidden, "Your account has been suspended. Contact support.", nil)
			c.Abort()
			return
		}
		if user.Status == "inactive" {
			utils.RespondError(c, http.StatusForbidden, "Your account has been deactivated. Contact support.", nil)
			c.Abort()
			return
		}

		c.Set("user", &user)
		c.Next()
	}
}

func IsAuthenticatedDriver() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c)
		if !ok {
			c.Abort()
			return
		}
		id, ok := claims["id"].(string)
		if !ok || id == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid token payload", nil)
			c.Abort()
			return
		}
		if role, _ := claims["role"].(string); role != "driver" {
			utils.RespondError(c, http.StatusForbidden, "Driver account required", nil)
			c.Abort()
			return
		}

		// Tokens carry the account (users) id; join to the driver row.
		var driver models.Driver
		err := db.Pool.QueryRow(context.Background(),
			`SELECT d.id, d.user_id, d.full_name, u.phone_number, d.status, d.is_verified,
			        COALESCE(d.vehicle_type, ''), d.vehicle_make, d.vehicle_model, d.vehicle_color,
			        d.registration_number, d.license_number, d.rating, d.total_rides,
			        u.notification_token, d.created_at, d.updated_at
			 FROM drivers d JOIN users u ON u.id = d.user_id
			 WHERE d.user_id=$1`, id).
			Scan(&driver.ID, &driver.UserID, &driver.FullName, &driver.PhoneNumber, &driver.Status, &driver.IsVerified,
				&driver.VehicleType, &driver.VehicleMake, &driver.VehicleModel, &driver.VehicleColor,
				&driver.RegistrationNumber, &driver.LicenseNumber, &driver.Rating, &driver.TotalRides,
				&driver.NotificationToken, &driver.CreatedAt, &driver.UpdatedAt)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Driver not found", err)
			c.Abort()
			return
		}

		if driver.Status == "suspended" {
			utils.RespondError(c, http.StatusForbidden, "Your account has been suspended. Contact support.", nil)
			c.Abort()
			return
		}

		c.Set("driver", &driver)
		c.Next()
	}
}

// IsAdmin validates admin access via x-admin-secret header
func IsAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminSecret := config.Envs.AdminSecret
		if adminSecret == "" {
			utils.RespondError(c, http.StatusInternalServerError, "Admin access not configured", nil)
			c.Abort()
			return
		}

		headerSecret := c.GetHeader("x-admin-secret")
		if headerSecret == "" || headerSecret != adminSecret {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: Invalid admin credentials", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
