package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"a1taxi/db"
	"a1taxi/models"
	"a1taxi/stores"
	"a1taxi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterDriverRoutes defines all driver-facing API endpoints
func RegisterDriverRoutes(r *gin.Engine, authMiddleware, otpLimiter gin.HandlerFunc) {
	driverGroup := r.Group("/api/v1/driver")
	{
		// Auth
		driverGroup.POST("/auth/login", otpLimiter, DriverLogin)
		driverGroup.POST("/auth/verify", DriverVerify)
		driverGroup.POST("/auth/logout", authMiddleware, DriverLogout)

		// Profile & Status
		driverGroup.GET("/me", authMiddleware, GetLoggedInDriverData)
		driverGroup.PUT("/toggle-online", authMiddleware, ToggleOnline)
		driverGroup.PUT("/notification-token", authMiddleware, UpdateDriverNotificationToken)

		// Live Location
		driverGroup.PUT("/location", authMiddleware, UpdateDriverLocationHandler)

		// Ride Management
		driverGroup.GET("/incoming-rides", authMiddleware, GetIncomingRides)
		driverGroup.PUT("/notification/:id/read", authMiddleware, MarkIncomingRideSeen)
		driverGroup.POST("/ride/accept", authMiddleware, AcceptRide)
		driverGroup.PUT("/ride/status", authMiddleware, UpdatingRideStatus)
		driverGroup.GET("/rides", authMiddleware, GetDriverRides)

		// Earnings
		driverGroup.GET("/earnings", authMiddleware, GetEarnings)
		driverGroup.GET("/earnings/daily", authMiddleware, GetDailyEarnings)
	}
}

// ══════════════════════════════════════════════════
// Driver Authentication
// ══════════════════════════════════════════════════

// Driver select columns, joined with the backing user account
const driverSelectCols = `d.id, d.user_id, d.full_name, u.phone_number, d.status, d.is_verified,
	COALESCE(d.vehicle_type,''), d.vehicle_make, d.vehicle_model, d.vehicle_color,
	d.registration_number, d.license_number, d.rating, d.total_rides, u.notification_token,
	d.created_at, d.updated_at`

func scanDriver(scanner interface{ Scan(dest ...any) error }, d *models.Driver) error {
	return scanner.Scan(&d.ID, &d.UserID, &d.FullName, &d.PhoneNumber, &d.Status, &d.IsVerified,
		&d.VehicleType, &d.VehicleMake, &d.VehicleModel, &d.VehicleColor,
		&d.RegistrationNumber, &d.LicenseNumber, &d.Rating, &d.TotalRides, &d.NotificationToken,
		&d.CreatedAt, &d.UpdatedAt)
}

// POST /api/v1/driver/auth/login
func DriverLogin(c *gin.Context) {
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

	utils.RespondSuccess(c, http.StatusOK, "OTP sent", nil)
}

// POST /api/v1/driver/auth/verify
//
// Verifies the OTP, then either logs an existing driver in or registers a
// new one. A registration creates the backing user account and the driver
// row in one transaction; new drivers stay unverified until an admin
// approves them.
func DriverVerify(c *gin.Context) {
	var body struct {
		PhoneNumber        string `json:"phone_number" binding:"required"`
		OTP                string `json:"otp" binding:"required"`
		Name               string `json:"name"`
		VehicleType        string `json:"vehicle_type"`
		VehicleMake        string `json:"vehicle_make"`
		VehicleModel       string `json:"vehicle_model"`
		VehicleColor       string `json:"vehicle_color"`
		RegistrationNumber string `json:"registration_number"`
		LicenseNumber      string `json:"license_number"`
		UpiID              string `json:"upiId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if !verifyLoginOTP(body.PhoneNumber, body.OTP) {
		utils.RespondError(c, http.StatusBadRequest, "Invalid OTP", nil)
		return
	}

	var driver models.Driver
	row := db.Pool.QueryRow(context.Background(),
		`SELECT `+driverSelectCols+` FROM drivers d JOIN users u ON u.id=d.user_id WHERE u.phone_number=$1`,
		body.PhoneNumber)
	if err := scanDriver(row, &driver); err == nil {
		if driver.Status == "suspended" {
			utils.RespondError(c, http.StatusForbidden, "Your account has been suspended. Contact support.", nil)
			return
		}
		if !driver.IsVerified {
			utils.RespondSuccess(c, http.StatusOK, "Your registration is pending admin verification.", gin.H{
				"isPending": true,
				"driver":    driver,
			})
			return
		}
		utils.SendToken(c, &driver, driver.UserID)
		return
	}

	// New driver — require registration fields
	if body.Name == "" || body.VehicleType == "" || body.RegistrationNumber == "" {
		utils.RespondSuccess(c, http.StatusNotFound, "Driver not registered. Please provide details.", gin.H{"isNewDriver": true})
		return
	}

	tx, err := db.Pool.Begin(context.Background())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Database error during registration", err)
		return
	}
	defer tx.Rollback(context.Background())

	var userID string
	err = tx.QueryRow(context.Background(),
		`INSERT INTO users (id, full_name, phone_number, status, created_at, updated_at)
		 VALUES (gen_random_uuid()::text, $1, $2, 'active', NOW(), NOW())
		 ON CONFLICT (phone_number) DO UPDATE SET updated_at=NOW()
		 RETURNING id`,
		body.Name, body.PhoneNumber).Scan(&userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Database error during registration", err)
		return
	}

	row = tx.QueryRow(context.Background(),
		`INSERT INTO drivers (id, user_id, full_name, status, is_verified, vehicle_type, vehicle_make,
			vehicle_model, vehicle_color, registration_number, license_number, upi_id, created_at, updated_at)
		 VALUES (gen_random_uuid()::text, $1, $2, 'offline', FALSE, $3, NULLIF($4,''),
			NULLIF($5,''), NULLIF($6,''), $7, NULLIF($8,''), NULLIF($9,''), NOW(), NOW())
		 RETURNING id`,
		userID, body.Name, strings.ToLower(strings.TrimSpace(body.VehicleType)), body.VehicleMake,
		body.VehicleModel, body.VehicleColor, body.RegistrationNumber, body.LicenseNumber, body.UpiID)

	var driverID string
	if err := row.Scan(&driverID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Database error during registration", err)
		return
	}
	if err := tx.Commit(context.Background()); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Database error during registration", err)
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, "Registration submitted! Your account is pending admin verification.", gin.H{
		"isPending": true,
		"driverId":  driverID,
	})
}

// POST /api/v1/driver/auth/logout
func DriverLogout(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)
	db.Pool.Exec(context.Background(),
		`UPDATE drivers SET status='offline', updated_at=NOW() WHERE id=$1`, driver.ID)
	db.Pool.Exec(context.Background(),
		`UPDATE users SET notification_token=NULL, updated_at=NOW() WHERE id=$1`, driver.UserID)
	stores.RemoveDriver(driver.ID)
	utils.RespondSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

// ══════════════════════════════════════════════════
// Driver Profile & Status
// ══════════════════════════════════════════════════

// GET /api/v1/driver/me
func GetLoggedInDriverData(c *gin.Context) {
	driver, _ := c.Get("driver")
	utils.RespondSuccess(c, http.StatusOK, "Driver data", gin.H{"driver": driver})
}

// PUT /api/v1/driver/toggle-online — driver clicks Start/Stop button
func ToggleOnline(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)

	if !driver.IsVerified {
		utils.RespondError(c, http.StatusForbidden, "Your account is not approved yet. Please wait for admin verification.", nil)
		return
	}
	if driver.Status == "busy" {
		utils.RespondError(c, http.StatusConflict, "You have an active ride. Complete it before going offline.", nil)
		return
	}

	newStatus := "online"
	if driver.Status == "online" {
		newStatus = "offline"
	}

	var updated models.Driver
	row := db.Pool.QueryRow(context.Background(),
		`UPDATE drivers d SET status=$1, updated_at=NOW()
		 FROM users u WHERE u.id=d.user_id AND d.id=$2
		 RETURNING `+driverSelectCols,
		newStatus, driver.ID)
	if err := scanDriver(row, &updated); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Database error", err)
		return
	}

	if newStatus == "online" {
		utils.RespondSuccess(c, http.StatusOK, "You are now online and accepting rides!", gin.H{"driver": updated})
	} else {
		stores.RemoveDriver(driver.ID)
		utils.RespondSuccess(c, http.StatusOK, "You are now offline. No new rides will be dispatched.", gin.H{"driver": updated})
	}
}

// PUT /api/v1/driver/notification-token
func UpdateDriverNotificationToken(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)
	var body struct {
		NotificationToken string `json:"notificationToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	_, err := db.Pool.Exec(context.Background(),
		`UPDATE users SET notification_token=$1, updated_at=NOW() WHERE id=$2`,
		body.NotificationToken, driver.UserID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Database error", err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Token updated", nil)
}

// ══════════════════════════════════════════════════
// Driver Live Location
// ══════════════════════════════════════════════════

// PUT /api/v1/driver/location
//
// Writes the reading to both stores: Redis feeds real-time nearby lookups
// and the socket fan-out, Postgres feeds dispatch freshness checks and
// customer tracking.
func UpdateDriverLocationHandler(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)
	var body struct {
		Lat     float64  `json:"lat" binding:"required"`
		Lng     float64  `json:"lng" binding:"required"`
		Heading *float64 `json:"heading"`
		Speed   *float64 `json:"speed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if err := stores.UpsertLiveLocation(c.Request.Context(), driver.UserID, body.Lat, body.Lng, body.Heading, body.Speed); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update location", err)
		return
	}
	if err := stores.UpdateDriverLocation(driver.ID, body.Lat, body.Lng, ""); err != nil {
		utils.Logger.Warn("Failed to update Redis geo index", zap.Error(err))
	}

	utils.RespondSuccess(c, http.StatusOK, "Location updated", nil)
}

// ══════════════════════════════════════════════════
// Driver Ride Management
// ══════════════════════════════════════════════════

// GET /api/v1/driver/incoming-rides
func GetIncomingRides(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)

	if driver.Status != "online" {
		utils.RespondSuccess(c, http.StatusOK, "You are offline. Go online to receive rides.", gin.H{
			"notifications": []models.Notification{},
			"isOnline":      false,
		})
		return
	}

	notifications, err := stores.ListUnreadNotifications(c.Request.Context(), driver.UserID, 20)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to load notifications", err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Incoming ride requests", gin.H{
		"notifications": notifications,
		"isOnline":      true,
	})
}

// PUT /api/v1/driver/notification/:id/read
func MarkIncomingRideSeen(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)
	if err := stores.MarkNotificationRead(c.Request.Context(), driver.UserID, c.Param("id")); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update notification", err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Notification marked read", nil)
}

// POST /api/v1/driver/ride/accept
//
// First driver wins: the conditional update only succeeds while the ride is
// still unassigned, so concurrent accepts race safely. On success the other
// drivers' request notifications are dismissed.
func AcceptRide(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)
	var body struct {
		RideID string `json:"rideId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if driver.Status != "online" || !driver.IsVerified {
		utils.RespondError(c, http.StatusForbidden, "You must be online and approved to accept rides.", nil)
		return
	}

	var customerID string
	err := db.Pool.QueryRow(context.Background(),
		`UPDATE rides SET driver_id=$1, status='accepted', accepted_at=NOW(), updated_at=NOW()
		 WHERE id=$2 AND driver_id IS NULL AND status='dispatched'
		 RETURNING customer_id`,
		driver.ID, body.RideID).Scan(&customerID)
	if err != nil {
		utils.RespondError(c, http.StatusConflict, "Ride is no longer available", err)
		return
	}

	db.Pool.Exec(context.Background(),
		`UPDATE drivers SET status='busy', updated_at=NOW() WHERE id=$1`, driver.ID)

	utils.SafeGo(func() {
		ctx := context.Background()
		if err := stores.DismissRideNotifications(ctx, body.RideID, driver.UserID); err != nil {
			utils.Logger.Error("Failed to dismiss sibling notifications", zap.Error(err))
		}

		var customerToken *string
		db.Pool.QueryRow(ctx, `SELECT notification_token FROM users WHERE id=$1`, customerID).Scan(&customerToken)
		if customerToken != nil && *customerToken != "" {
			utils.SendPushNotification(*customerToken, "Ride Accepted!",
				fmt.Sprintf("%s has accepted your request and is on the way.", driver.FullName),
				utils.FCMData{
					"type":     "ride_status",
					"rideId":   body.RideID,
					"status":   "accepted",
					"driverId": driver.ID,
				})
		}
	})

	utils.RespondSuccess(c, http.StatusOK, "Ride accepted", gin.H{"rideId": body.RideID})
}

// PUT /api/v1/driver/ride/status
//
// Lifecycle transitions after acceptance. Starting a ride requires the
// customer's trip OTP; completing it frees the driver and sends the receipt.
func UpdatingRideStatus(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)
	var body struct {
		RideID     string `json:"rideId" binding:"required"`
		RideStatus string `json:"rideStatus" binding:"required"`
		OTP        string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid input data", err)
		return
	}

	allowed := map[string]string{
		"in_progress": "accepted",
		"completed":   "in_progress",
		"cancelled":   "",
	}
	requiredCurrent, ok := allowed[body.RideStatus]
	if !ok {
		utils.RespondError(c, http.StatusBadRequest, "Invalid ride status. Use: in_progress, completed, cancelled", nil)
		return
	}

	var rideOTP, currentStatus string
	var fareAmount float64
	var customerID string
	err := db.Pool.QueryRow(context.Background(),
		`SELECT COALESCE(otp,''), status, fare_amount, customer_id FROM rides WHERE id=$1 AND driver_id=$2`,
		body.RideID, driver.ID).Scan(&rideOTP, &currentStatus, &fareAmount, &customerID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Ride not found", err)
		return
	}

	if requiredCurrent != "" && currentStatus != requiredCurrent {
		utils.RespondError(c, http.StatusConflict,
			fmt.Sprintf("Cannot move ride from %s to %s", currentStatus, body.RideStatus), nil)
		return
	}

	// Trip OTP gate: verifies the right passenger is in the car
	if body.RideStatus == "in_progress" && body.OTP != rideOTP {
		utils.RespondError(c, http.StatusBadRequest, "Incorrect trip OTP", nil)
		return
	}

	timestampCol := ""
	switch body.RideStatus {
	case "in_progress":
		timestampCol = `, started_at=NOW()`
	case "completed":
		timestampCol = `, completed_at=NOW()`
	case "cancelled":
		timestampCol = `, cancelled_at=NOW()`
	}

	_, err = db.Pool.Exec(context.Background(),
		`UPDATE rides SET status=$1, updated_at=NOW()`+timestampCol+` WHERE id=$2 AND driver_id=$3`,
		body.RideStatus, body.RideID, driver.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update ride", err)
		return
	}

	if body.RideStatus == "completed" || body.RideStatus == "cancelled" {
		db.Pool.Exec(context.Background(),
			`UPDATE drivers SET status='online', updated_at=NOW() WHERE id=$1 AND status='busy'`, driver.ID)
	}
	if body.RideStatus == "completed" {
		db.Pool.Exec(context.Background(),
			`UPDATE drivers SET total_rides=total_rides+1, updated_at=NOW() WHERE id=$1`, driver.ID)
	}

	rideID := body.RideID
	newStatus := body.RideStatus
	driverName := driver.FullName
	utils.SafeGo(func() {
		ctx := context.Background()
		var customerToken *string
		var customerEmail *string
		db.Pool.QueryRow(ctx, `SELECT notification_token, email FROM users WHERE id=$1`, customerID).
			Scan(&customerToken, &customerEmail)

		title := "Ride Update"
		msg := "Your ride status has changed."
		switch newStatus {
		case "in_progress":
			title = "Ride Started"
			msg = "You are on your way to the destination."
		case "completed":
			title = "Ride Completed"
			msg = fmt.Sprintf("You have reached your destination. Total fare: ₹%.2f", fareAmount)
		case "cancelled":
			title = "Ride Cancelled"
			msg = "The driver has cancelled the ride."
		}

		if customerToken != nil && *customerToken != "" {
			utils.SendPushNotification(*customerToken, title, msg, utils.FCMData{
				"type":       "ride_status",
				"rideId":     rideID,
				"status":     newStatus,
				"driverName": driverName,
			})
		}

		if newStatus == "completed" && customerEmail != nil && *customerEmail != "" {
			receipt := fmt.Sprintf(
				`<p>Thanks for riding with A1 Taxi!</p><p>Your trip with %s is complete. Total fare: <strong>₹%.2f</strong>.</p>`,
				driverName, fareAmount)
			if err := utils.SendEmail([]string{*customerEmail}, "Your A1 Taxi ride receipt", receipt); err != nil {
				utils.Logger.Error("Failed to send ride receipt", zap.Error(err))
			}
		}
	})

	utils.RespondSuccess(c, http.StatusOK, "Ride status updated", gin.H{
		"rideId": rideID,
		"status": newStatus,
	})
}

// GET /api/v1/driver/rides
func GetDriverRides(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)

	rows, err := db.Pool.Query(context.Background(),
		`SELECT r.id, r.ride_code, r.customer_id, r.driver_id, r.pickup_address, r.destination_address,
		 r.vehicle_type, r.booking_type, r.fare_amount, r.distance_km, r.duration_minutes, r.status,
		 COALESCE(r.payment_mode,''), r.payment_status, r.created_at, r.updated_at,
		 u.id, u.full_name, u.phone_number
		FROM rides r
		JOIN users u ON r.customer_id=u.id
		WHERE r.driver_id=$1 ORDER BY r.created_at DESC LIMIT 100`, driver.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}
	defer rows.Close()

	type rideWithCustomer struct {
		ID                 string       `json:"id"`
		RideCode           string       `json:"ride_code"`
		CustomerID         string       `json:"customer_id"`
		DriverID           *string      `json:"driver_id"`
		PickupAddress      string       `json:"pickup_address"`
		DestinationAddress string       `json:"destination_address"`
		VehicleType        string       `json:"vehicle_type"`
		BookingType        string       `json:"booking_type"`
		FareAmount         float64      `json:"fare_amount"`
		DistanceKm         float64      `json:"distance_km"`
		DurationMin        float64      `json:"duration_minutes"`
		Status             string       `json:"status"`
		PaymentMode        string       `json:"payment_mode"`
		PaymentStatus      string       `json:"payment_status"`
		CreatedAt          time.Time    `json:"createdAt"`
		UpdatedAt          time.Time    `json:"updatedAt"`
		Customer           *models.User `json:"customer,omitempty"`
	}

	var rides []rideWithCustomer
	for rows.Next() {
		var r rideWithCustomer
		var uID string
		var uName *string
		var uPhone string
		if err := rows.Scan(&r.ID, &r.RideCode, &r.CustomerID, &r.DriverID, &r.PickupAddress, &r.DestinationAddress,
			&r.VehicleType, &r.BookingType, &r.FareAmount, &r.DistanceKm, &r.DurationMin, &r.Status,
			&r.PaymentMode, &r.PaymentStatus, &r.CreatedAt, &r.UpdatedAt,
			&uID, &uName, &uPhone); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Internal server error", err)
			return
		}
		r.Customer = &models.User{ID: uID, FullName: uName, PhoneNumber: uPhone}
		rides = append(rides, r)
	}
	if rides == nil {
		rides = []rideWithCustomer{}
	}
	utils.RespondSuccess(c, http.StatusOK, "Rides retrieved", gin.H{"rides": rides})
}

// ══════════════════════════════════════════════════
// Driver Earnings
// ══════════════════════════════════════════════════

// GET /api/v1/driver/earnings
func GetEarnings(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)

	var totalRides int
	var totalEarnings, totalDistance float64
	err := db.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*), COALESCE(SUM(fare_amount),0), COALESCE(SUM(distance_km),0)
		 FROM rides WHERE driver_id=$1 AND status='completed'`, driver.ID).
		Scan(&totalRides, &totalEarnings, &totalDistance)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch earnings", err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "Earnings summary", gin.H{
		"totalEarnings": totalEarnings,
		"totalRides":    totalRides,
		"totalDistance": totalDistance,
		"rating":        driver.Rating,
	})
}

// GET /api/v1/driver/earnings/daily
func GetDailyEarnings(c *gin.Context) {
	driver := c.MustGet("driver").(*models.Driver)

	rows, err := db.Pool.Query(context.Background(),
		`SELECT DATE(r.created_at) as day, COUNT(*) as rides, COALESCE(SUM(r.fare_amount), 0) as earnings
		FROM rides r
		WHERE r.driver_id=$1 AND r.status='completed' AND r.created_at >= NOW() - INTERVAL '7 days'
		GROUP BY DATE(r.created_at) ORDER BY day DESC`, driver.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch earnings", err)
		return
	}
	defer rows.Close()

	type dayEarning struct {
		Day      time.Time `json:"day"`
		Rides    int       `json:"rides"`
		Earnings float64   `json:"earnings"`
	}
	var daily []dayEarning
	for rows.Next() {
		var d dayEarning
		if err := rows.Scan(&d.Day, &d.Rides, &d.Earnings); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch earnings", err)
			return
		}
		daily = append(daily, d)
	}
	if daily == nil {
		daily = []dayEarning{}
	}
	utils.RespondSuccess(c, http.StatusOK, "Daily earnings", gin.H{"daily": daily})
}
