package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"a1taxi/db"
	"a1taxi/fare"
	"a1taxi/geo"
	"a1taxi/models"
	"a1taxi/stores"
	"a1taxi/utils"
	"a1taxi/zones"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes defines all customer-facing API endpoints
func RegisterUserRoutes(r *gin.Engine, authMiddleware, otpLimiter gin.HandlerFunc) {
	userGroup := r.Group("/api/v1/user")
	{
		// Auth
		userGroup.POST("/auth/login", otpLimiter, UserLogin)
		userGroup.POST("/auth/verify", UserVerify)
		userGroup.POST("/auth/logout", authMiddleware, UserLogout)

		// Profile & Settings
		userGroup.GET("/me", authMiddleware, GetLoggedInUserData)
		userGroup.PUT("/profile", authMiddleware, UpdateUserProfile)
		userGroup.PUT("/notification-token", authMiddleware, UpdateUserNotificationToken)

		// Service area & pricing discovery
		userGroup.GET("/service-availability", authMiddleware, CheckServiceAvailability)
		userGroup.GET("/vehicle-types", authMiddleware, GetVehicleTypes)

		// Ride Operations
		userGroup.POST("/ride/estimate", authMiddleware, GetRideEstimate)
		userGroup.POST("/ride/create", authMiddleware, CreateRide)
		userGroup.POST("/ride/cancel", authMiddleware, CancelRide)
		userGroup.GET("/ride/:id", authMiddleware, GetRideDetails)
		userGroup.GET("/ride/:id/driver-location", authMiddleware, GetDriverLocation)
		userGroup.GET("/rides", authMiddleware, GetUserRides)
	}
}

// ══════════════════════════════════════════════════
// User Authentication
// ══════════════════════════════════════════════════

// User select columns — consistent across all queries
const userSelectCols = `id, full_name, phone_number, email, notification_token, status, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }, u *models.User) error {
	return scanner.Scan(&u.ID, &u.FullName, &u.PhoneNumber, &u.Email, &u.NotificationToken, &u.Status, &u.CreatedAt, &u.UpdatedAt)
}

func generateOTP() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(9000))
	return fmt.Sprintf("%04d", 1000+n.Int64())
}

// sendLoginOTP tries Twilio Verify first and falls back to a locally stored
// OTP row. The fallback path is what keeps logins working in dev and when
// SMS delivery is degraded.
func sendLoginOTP(phoneNumber string) error {
	if err := utils.SendTwilioOTP(phoneNumber); err == nil {
		return nil
	}

	otp := generateOTP()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO otp_verifications (phone_number, otp_code, expires_at)
		 VALUES ($1, $2, NOW() + INTERVAL '5 minutes')`, phoneNumber, otp)
	if err != nil {
		return err
	}
	utils.Logger.Info("Issued fallback OTP, SMS delivery unavailable")
	return nil
}

// verifyLoginOTP checks Twilio Verify, then the local fallback table.
func verifyLoginOTP(phoneNumber, code string) bool {
	if err := utils.VerifyTwilioOTP(phoneNumber, code); err == nil {
		return true
	}

	tag, err := db.Pool.Exec(context.Background(),
		`UPDATE otp_verifications SET verified=TRUE
		 WHERE phone_number=$1 AND otp_code=$2 AND verified=FALSE AND expires_at > NOW()`,
		phoneNumber, code)
	return err == nil && tag.RowsAffected() > 0
}

// POST /api/v1/user/auth/login
func UserLogin(c *gin.Context) {
	var body struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := sendLoginOTP(body.PhoneNumber); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to send OTP", err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "OTP sent successfully", nil)
}

// POST /api/v1/user/auth/verify
func UserVerify(c *gin.Context) {
	var body struct {
		PhoneNumber string `json:"phone_number" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
		Name        string `json:"name"`
		Email       string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if !verifyLoginOTP(body.PhoneNumber, body.OTP) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid OTP", nil)
		return
	}

	var user models.User
	row := db.Pool.QueryRow(context.Background(),
		`SELECT `+userSelectCols+` FROM users WHERE phone_number=$1`, body.PhoneNumber)
	if err := scanUser(row, &user); err == nil {
		if user.Status == "suspended" {
			utils.RespondError(c, http.StatusForbidden, "Your account has been suspended. Contact support.", nil)
			return
		}
		if user.Status == "inactive" {
			utils.RespondError(c, http.StatusForbidden, "Your account has been deactivated. Contact support.", nil)
			return
		}
		utils.SendToken(c, &user, user.ID)
		return
	}

	// New user — require a name to create the account
	if body.Name == "" {
		utils.RespondSuccess(c, http.StatusNotFound, "User not found. Please register.", gin.H{"isNewUser": true})
		return
	}

	row = db.Pool.QueryRow(context.Background(),
		`INSERT INTO users (id, full_name, email, phone_number, status, created_at, updated_at)
		VALUES (gen_random_uuid()::text, $1, NULLIF($2,''), $3, 'active', NOW(), NOW())
		RETURNING `+userSelectCols,
		body.Name, body.Email, body.PhoneNumber)
	if err := scanUser(row, &user); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	utils.SendToken(c, &user, user.ID)
}

// POST /api/v1/user/auth/logout
func UserLogout(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	db.Pool.Exec(context.Background(),
		`UPDATE users SET notification_token=NULL, updated_at=NOW() WHERE id=$1`, user.ID)
	utils.RespondSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

// ══════════════════════════════════════════════════
// User Profile & Settings
// ══════════════════════════════════════════════════

// GET /api/v1/user/me
func GetLoggedInUserData(c *gin.Context) {
	user, _ := c.Get("user")
	utils.RespondSuccess(c, http.StatusOK, "User data retrieved", gin.H{"user": user})
}

// PUT /api/v1/user/profile
func UpdateUserProfile(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var updated models.User
	row := db.Pool.QueryRow(context.Background(),
		`UPDATE users SET full_name=COALESCE(NULLIF($1,''), full_name), email=COALESCE(NULLIF($2,''), email), updated_at=NOW() WHERE id=$3
		RETURNING `+userSelectCols,
		body.Name, body.Email, user.ID)
	if err := scanUser(row, &updated); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update profile", err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Profile updated", gin.H{"user": updated})
}

// PUT /api/v1/user/notification-token
func UpdateUserNotificationToken(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	var body struct {
		NotificationToken string `json:"notificationToken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var updated models.User
	row := db.Pool.QueryRow(context.Background(),
		`UPDATE users SET notification_token=$1, updated_at=NOW() WHERE id=$2 RETURNING `+userSelectCols,
		body.NotificationToken, user.ID)
	if err := scanUser(row, &updated); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Database error", err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Token updated", gin.H{"user": updated})
}

// ══════════════════════════════════════════════════
// Service Area & Pricing Discovery
// ══════════════════════════════════════════════════

// GET /api/v1/user/service-availability?lat=..&lng=..
// Classifies a point against the service rings so the app can warn before
// the customer books.
func CheckServiceAvailability(c *gin.Context) {
	var query struct {
		Lat float64 `form:"lat" binding:"required"`
		Lng float64 `form:"lng" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "lat and lng are required", err)
		return
	}

	rings, err := stores.GetActiveRings(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to load service zones", err)
		return
	}

	point := geo.Coordinate{Latitude: query.Lat, Longitude: query.Lng}
	class := zones.Classify(point, rings.Inner, rings.Outer)

	utils.RespondSuccess(c, http.StatusOK, "Service availability", gin.H{
		"zone_status": class,
		"serviceable": class == zones.WithinInner || class == zones.BetweenInnerAndOuter || class == zones.ZonesUnavailable,
	})
}

// GET /api/v1/user/vehicle-types
func GetVehicleTypes(c *gin.Context) {
	matrix, err := stores.ListFareMatrix(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to load vehicle types", err)
		return
	}

	var out []models.FareMatrixRow
	for _, row := range matrix {
		if row.IsActive && row.BookingType == string(fare.BookingRegular) {
			out = append(out, row)
		}
	}
	if out == nil {
		out = []models.FareMatrixRow{}
	}
	utils.RespondSuccess(c, http.StatusOK, "Vehicle types retrieved", gin.H{"vehicleTypes": out})
}

// ══════════════════════════════════════════════════
// User Ride Operations
// ══════════════════════════════════════════════════

// GET /api/v1/user/rides
func GetUserRides(c *gin.Context) {
	user := c.MustGet("user").(*models.User)

	rows, err := db.Pool.Query(context.Background(),
		`SELECT r.id, r.ride_code, r.customer_id, r.driver_id, r.pickup_address, r.destination_address,
		 r.vehicle_type, r.booking_type, r.fare_amount, r.distance_km, r.duration_minutes, r.status,
		 COALESCE(r.payment_mode,''), r.payment_status, r.created_at, r.updated_at,
		 COALESCE(d.id,''), COALESCE(d.full_name,''), COALESCE(u.phone_number,''), COALESCE(d.vehicle_type,''),
		 COALESCE(d.vehicle_color,''), COALESCE(d.registration_number,''), COALESCE(d.rating,0)
		FROM rides r
		LEFT JOIN drivers d ON r.driver_id=d.id
		LEFT JOIN users u ON d.user_id=u.id
		WHERE r.customer_id=$1 ORDER BY r.created_at DESC LIMIT 100`, user.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	defer rows.Close()

	type rideWithDriver struct {
		ID                 string    `json:"id"`
		RideCode           string    `json:"ride_code"`
		CustomerID         string    `json:"customer_id"`
		DriverID           *string   `json:"driver_id"`
		PickupAddress      string    `json:"pickup_address"`
		DestinationAddress string    `json:"destination_address"`
		VehicleType        string    `json:"vehicle_type"`
		BookingType        string    `json:"booking_type"`
		FareAmount         float64   `json:"fare_amount"`
		DistanceKm         float64   `json:"distance_km"`
		DurationMin        float64   `json:"duration_minutes"`
		Status             string    `json:"status"`
		PaymentMode        string    `json:"payment_mode"`
		PaymentStatus      string    `json:"payment_status"`
		CreatedAt          time.Time `json:"createdAt"`
		UpdatedAt          time.Time `json:"updatedAt"`
		Driver             *gin.H    `json:"driver,omitempty"`
	}

	var rides []rideWithDriver
	for rows.Next() {
		var r rideWithDriver
		var dID, dName, dPhone, dVehicle, dColor, dRegNo string
		var dRating float64
		if err := rows.Scan(&r.ID, &r.RideCode, &r.CustomerID, &r.DriverID, &r.PickupAddress, &r.DestinationAddress,
			&r.VehicleType, &r.BookingType, &r.FareAmount, &r.DistanceKm, &r.DurationMin, &r.Status,
			&r.PaymentMode, &r.PaymentStatus, &r.CreatedAt, &r.UpdatedAt,
			&dID, &dName, &dPhone, &dVehicle, &dColor, &dRegNo, &dRating); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Internal server error", err)
			return
		}
		if dID != "" {
			r.Driver = &gin.H{
				"id":                  dID,
				"full_name":           dName,
				"phone_number":        dPhone,
				"vehicle_type":        dVehicle,
				"vehicle_color":       dColor,
				"registration_number": dRegNo,
				"rating":              dRating,
			}
		}
		rides = append(rides, r)
	}
	if rides == nil {
		rides = []rideWithDriver{}
	}
	utils.RespondSuccess(c, http.StatusOK, "Rides retrieved", gin.H{"rides": rides})
}

// GET /api/v1/user/ride/:id/driver-location
func GetDriverLocation(c *gin.Context) {
	rideID := c.Param("id")
	user := c.MustGet("user").(*models.User)

	// Verify this ride belongs to the user and has a driver
	var driverUserID *string
	err := db.Pool.QueryRow(context.Background(),
		`SELECT d.user_id FROM rides r JOIN drivers d ON r.driver_id=d.id
		 WHERE r.id=$1 AND r.customer_id=$2`, rideID, user.ID).Scan(&driverUserID)
	if err != nil || driverUserID == nil {
		utils.RespondError(c, http.StatusNotFound, "Ride or driver not found", err)
		return
	}

	var lat, lng float64
	var heading *float64
	var updatedAt time.Time
	err = db.Pool.QueryRow(context.Background(),
		`SELECT latitude, longitude, heading, updated_at FROM live_locations WHERE user_id=$1`, *driverUserID).
		Scan(&lat, &lng, &heading, &updatedAt)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Driver location not available", err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Driver location", gin.H{
		"lat":       lat,
		"lng":       lng,
		"heading":   heading,
		"updatedAt": updatedAt,
	})
}
