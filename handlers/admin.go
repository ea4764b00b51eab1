package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"a1taxi/db"
	"a1taxi/dispatch"
	"a1taxi/fare"
	"a1taxi/geo"
	"a1taxi/models"
	"a1taxi/stores"
	"a1taxi/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterAdminRoutes defines all administrative API endpoints
func RegisterAdminRoutes(r *gin.Engine, adminMiddleware gin.HandlerFunc) {
	adminGroup := r.Group("/api/v1/admin")
	adminGroup.Use(adminMiddleware)
	{
		// Auth
		adminGroup.POST("/auth/login", AdminLogin)

		// Dashboard
		adminGroup.GET("/dashboard", AdminDashboard)

		// User Management
		adminGroup.GET("/users", AdminGetUsers)
		adminGroup.PUT("/user/:id/status", AdminUpdateUserStatus)

		// Driver Management
		adminGroup.GET("/drivers", AdminGetDrivers)
		adminGroup.GET("/driver/:id", AdminGetDriverDetail)
		adminGroup.PUT("/driver/:id/verify", AdminVerifyDriver)
		adminGroup.PUT("/driver/:id/status", AdminUpdateDriverStatus)
		adminGroup.GET("/drivers/live", AdminGetLiveDrivers)

		// Ride Management
		adminGroup.GET("/rides", AdminGetRides)
		adminGroup.POST("/ride/:id/assign", AdminAssignRide)
		adminGroup.POST("/ride/:id/dispatch", AdminRedispatchRide)

		// Zone Management
		adminGroup.GET("/zones", AdminGetZones)
		adminGroup.PUT("/zone", AdminUpsertZone)

		// Fare Matrix Management
		adminGroup.GET("/fare-matrix", AdminGetFareMatrix)
		adminGroup.PUT("/fare-matrix", AdminUpsertFareConfig)

		// Announcements
		adminGroup.POST("/broadcast", AdminBroadcast)
	}
}

// ══════════════════════════════════════════════════
// Admin Authentication
// ══════════════════════════════════════════════════

// EnsureDefaultAdmin seeds the admins table from ADMIN_USERNAME and
// ADMIN_PASSWORD on first boot so the dashboard is reachable before any
// operator account exists. Does nothing once a row is present.
func EnsureDefaultAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	var count int
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM admins`).Scan(&count)
	if count > 0 {
		return
	}

	hash, err := utils.HashPasswordArgon2(password)
	if err != nil {
		utils.Logger.Error("Failed to hash default admin password", zap.Error(err))
		return
	}
	_, err = db.Pool.Exec(context.Background(),
		`INSERT INTO admins (id, username, password_hash) VALUES (gen_random_uuid()::text, $1, $2)
		 ON CONFLICT (username) DO NOTHING`, username, hash)
	if err != nil {
		utils.Logger.Error("Failed to seed default admin", zap.Error(err))
		return
	}
	utils.Logger.Info("Seeded default admin account", zap.String("username", username))
}

// POST /api/v1/admin/auth/login
//
// The shared secret header gates the whole admin surface; this login
// identifies the individual operator against the admins table.
func AdminLogin(c *gin.Context) {
	var body struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var adminID, hash string
	err := db.Pool.QueryRow(context.Background(),
		`SELECT id, password_hash FROM admins WHERE username=$1`, body.Username).
		Scan(&adminID, &hash)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	ok, err := utils.ComparePasswordArgon2(body.Password, hash)
	if err != nil || !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	db.Pool.Exec(context.Background(),
		`UPDATE admins SET last_login_at=NOW() WHERE id=$1`, adminID)

	token, err := utils.IssueToken(adminID, "admin")
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"admin": gin.H{"id": adminID, "username": body.Username},
	})
}

// ══════════════════════════════════════════════════
// Admin Dashboard
// ══════════════════════════════════════════════════

// GET /api/v1/admin/dashboard
func AdminDashboard(c *gin.Context) {
	var totalUsers, totalDrivers, pendingDrivers, onlineDrivers int
	var totalRides, completedRides, cancelledRides, manualRides, ongoingRides int
	var totalRevenue float64

	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM users`).Scan(&totalUsers)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM drivers`).Scan(&totalDrivers)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM drivers WHERE is_verified=FALSE`).Scan(&pendingDrivers)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM drivers WHERE status IN ('online','busy')`).Scan(&onlineDrivers)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides`).Scan(&totalRides)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE status='completed'`).Scan(&completedRides)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE status='cancelled'`).Scan(&cancelledRides)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE status='manual_allocation_required'`).Scan(&manualRides)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE status IN ('dispatched','accepted','in_progress')`).Scan(&ongoingRides)
	db.Pool.QueryRow(context.Background(), `SELECT COALESCE(SUM(fare_amount), 0) FROM rides WHERE status='completed'`).Scan(&totalRevenue)

	// Today's stats
	var todayRides, todayCompleted int
	var todayRevenue float64
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE DATE(created_at)=CURRENT_DATE`).Scan(&todayRides)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE status='completed' AND DATE(created_at)=CURRENT_DATE`).Scan(&todayCompleted)
	db.Pool.QueryRow(context.Background(), `SELECT COALESCE(SUM(fare_amount), 0) FROM rides WHERE status='completed' AND DATE(created_at)=CURRENT_DATE`).Scan(&todayRevenue)

	// Vehicle type popularity
	type VehicleStat struct {
		VehicleType string  `json:"vehicleType"`
		Count       int     `json:"count"`
		Revenue     float64 `json:"revenue"`
	}
	vtRows, _ := db.Pool.Query(context.Background(),
		`SELECT vehicle_type, COUNT(*), COALESCE(SUM(fare_amount),0)
		 FROM rides WHERE status='completed' GROUP BY vehicle_type ORDER BY COUNT(*) DESC LIMIT 10`)
	var vehicleStats []VehicleStat
	if vtRows != nil {
		defer vtRows.Close()
		for vtRows.Next() {
			var vs VehicleStat
			vtRows.Scan(&vs.VehicleType, &vs.Count, &vs.Revenue)
			vehicleStats = append(vehicleStats, vs)
		}
	}
	if vehicleStats == nil {
		vehicleStats = []VehicleStat{}
	}

	// Recent rides (last 5)
	type RecentRide struct {
		ID           string  `json:"id"`
		RideCode     string  `json:"rideCode"`
		CustomerName string  `json:"customerName"`
		DriverName   string  `json:"driverName"`
		Pickup       string  `json:"pickup"`
		Destination  string  `json:"destination"`
		Fare         float64 `json:"fare"`
		Status       string  `json:"status"`
		CreatedAt    string  `json:"createdAt"`
	}
	rrRows, _ := db.Pool.Query(context.Background(),
		`SELECT r.id, r.ride_code, COALESCE(cu.full_name,''), COALESCE(d.full_name,''),
		 r.pickup_address, r.destination_address, r.fare_amount, r.status, r.created_at
		 FROM rides r LEFT JOIN users cu ON r.customer_id=cu.id LEFT JOIN drivers d ON r.driver_id=d.id
		 ORDER BY r.created_at DESC LIMIT 5`)
	var recentRides []RecentRide
	if rrRows != nil {
		defer rrRows.Close()
		for rrRows.Next() {
			var rr RecentRide
			rrRows.Scan(&rr.ID, &rr.RideCode, &rr.CustomerName, &rr.DriverName, &rr.Pickup, &rr.Destination, &rr.Fare, &rr.Status, &rr.CreatedAt)
			recentRides = append(recentRides, rr)
		}
	}
	if recentRides == nil {
		recentRides = []RecentRide{}
	}

	utils.RespondSuccess(c, http.StatusOK, "Dashboard stats", gin.H{
		"users": gin.H{
			"total": totalUsers,
		},
		"drivers": gin.H{
			"total":   totalDrivers,
			"pending": pendingDrivers,
			"online":  onlineDrivers,
		},
		"rides": gin.H{
			"total":            totalRides,
			"completed":        completedRides,
			"cancelled":        cancelledRides,
			"ongoing":          ongoingRides,
			"manualAllocation": manualRides,
		},
		"revenue": gin.H{
			"total": totalRevenue,
			"today": todayRevenue,
		},
		"today": gin.H{
			"rides":     todayRides,
			"completed": todayCompleted,
			"revenue":   todayRevenue,
		},
		"vehicleStats": vehicleStats,
		"recentRides":  recentRides,
	})
}

// ══════════════════════════════════════════════════
// Admin: User Management
// ══════════════════════════════════════════════════

// GET /api/v1/admin/users?page=1&limit=20&search=query
func AdminGetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int
	baseQuery := `SELECT id, full_name, phone_number, email, notification_token, status, created_at, updated_at FROM users`
	countQuery := `SELECT COUNT(*) FROM users`

	var queryArgs []interface{}
	if search != "" {
		pattern := "%" + search + "%"
		where := ` WHERE full_name ILIKE $1 OR phone_number ILIKE $1 OR email ILIKE $1`
		db.Pool.QueryRow(context.Background(), countQuery+where, pattern).Scan(&total)
		baseQuery += where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		queryArgs = []interface{}{pattern, limit, offset}
	} else {
		db.Pool.QueryRow(context.Background(), countQuery).Scan(&total)
		baseQuery += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		queryArgs = []interface{}{limit, offset}
	}

	rows, err := db.Pool.Query(context.Background(), baseQuery, queryArgs...)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch users", err)
		return
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		rows.Scan(&u.ID, &u.FullName, &u.PhoneNumber, &u.Email, &u.NotificationToken, &u.Status, &u.CreatedAt, &u.UpdatedAt)
		users = append(users, u)
	}
	if users == nil {
		users = []models.User{}
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	utils.RespondSuccess(c, http.StatusOK, "Users", gin.H{
		"users": users, "total": total, "page": page, "limit": limit, "totalPages": totalPages,
	})
}

// PUT /api/v1/admin/user/:id/status — activate, deactivate, suspend user
func AdminUpdateUserStatus(c *gin.Context) {
	userID := c.Param("id")
	var body struct {
		Action string `json:"action" binding:"required"` // "activate", "deactivate", "suspend"
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	switch body.Action {
	case "activate":
		db.Pool.Exec(context.Background(),
			`UPDATE users SET status='active', updated_at=NOW() WHERE id=$1`, userID)
	case "deactivate":
		db.Pool.Exec(context.Background(),
			`UPDATE users SET status='inactive', notification_token=NULL, updated_at=NOW() WHERE id=$1`, userID)
	case "suspend":
		db.Pool.Exec(context.Background(),
			`UPDATE users SET status='suspended', notification_token=NULL, updated_at=NOW() WHERE id=$1`, userID)
	default:
		utils.RespondError(c, http.StatusBadRequest, "Invalid action. Use: activate, deactivate, suspend", nil)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, "User status updated", gin.H{"userId": userID, "action": body.Action})
}

// ══════════════════════════════════════════════════
// Admin: Driver Management
// ══════════════════════════════════════════════════

// GET /api/v1/admin/drivers?page=1&limit=20&status=online&verified=false
func AdminGetDrivers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	statusFilter := c.Query("status")
	verifiedFilter := c.Query("verified")
	search := c.Query("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	whereClause := ""
	var filterArgs []interface{}
	argIdx := 1

	addCond := func(cond string, arg interface{}) {
		if whereClause == "" {
			whereClause = " WHERE"
		} else {
			whereClause += " AND"
		}
		whereClause += " " + cond
		filterArgs = append(filterArgs, arg)
		argIdx++
	}

	if statusFilter != "" {
		addCond("d.status=$"+strconv.Itoa(argIdx), statusFilter)
	}
	if verifiedFilter != "" {
		addCond("d.is_verified=$"+strconv.Itoa(argIdx), verifiedFilter == "true")
	}
	if search != "" {
		addCond("(d.full_name ILIKE $"+strconv.Itoa(argIdx)+" OR u.phone_number ILIKE $"+strconv.Itoa(argIdx)+")", "%"+search+"%")
	}

	var total int
	db.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM drivers d JOIN users u ON u.id=d.user_id`+whereClause, filterArgs...).Scan(&total)

	query := `SELECT ` + driverSelectCols + ` FROM drivers d JOIN users u ON u.id=d.user_id` + whereClause +
		` ORDER BY d.created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	queryArgs := append(filterArgs, limit, offset)

	rows, err := db.Pool.Query(context.Background(), query, queryArgs...)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch drivers", err)
		return
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var d models.Driver
		scanDriver(rows, &d)
		drivers = append(drivers, d)
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	utils.RespondSuccess(c, http.StatusOK, "Drivers", gin.H{
		"drivers": drivers, "total": total, "page": page, "limit": limit, "totalPages": totalPages,
	})
}

// GET /api/v1/admin/driver/:id — driver detail with ride stats and live location
func AdminGetDriverDetail(c *gin.Context) {
	driverID := c.Param("id")

	var driver models.Driver
	row := db.Pool.QueryRow(context.Background(),
		`SELECT `+driverSelectCols+` FROM drivers d JOIN users u ON u.id=d.user_id WHERE d.id=$1`, driverID)
	if err := scanDriver(row, &driver); err != nil {
		utils.RespondError(c, http.StatusNotFound, "Driver not found", err)
		return
	}

	var completedRides, cancelledRides, totalRidesCount int
	var totalEarned, totalDistance float64
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE driver_id=$1`, driverID).Scan(&totalRidesCount)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE driver_id=$1 AND status='completed'`, driverID).Scan(&completedRides)
	db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM rides WHERE driver_id=$1 AND status='cancelled'`, driverID).Scan(&cancelledRides)
	db.Pool.QueryRow(context.Background(), `SELECT COALESCE(SUM(fare_amount), 0), COALESCE(SUM(distance_km), 0) FROM rides WHERE driver_id=$1 AND status='completed'`, driverID).Scan(&totalEarned, &totalDistance)

	var liveLocation *gin.H
	var lat, lng float64
	var heading *float64
	var locUpdatedAt time.Time
	err := db.Pool.QueryRow(context.Background(),
		`SELECT latitude, longitude, heading, updated_at FROM live_locations WHERE user_id=$1`, driver.UserID).
		Scan(&lat, &lng, &heading, &locUpdatedAt)
	if err == nil {
		liveLocation = &gin.H{
			"lat":       lat,
			"lng":       lng,
			"heading":   heading,
			"updatedAt": locUpdatedAt,
		}
	}

	utils.RespondSuccess(c, http.StatusOK, "Driver detail", gin.H{
		"driver": driver,
		"stats": gin.H{
			"totalRides":     totalRidesCount,
			"completedRides": completedRides,
			"cancelledRides": cancelledRides,
			"totalEarned":    totalEarned,
			"totalDistance":  totalDistance,
		},
		"liveLocation": liveLocation,
	})
}

// PUT /api/v1/admin/driver/:id/verify — approve or revoke a driver registration
func AdminVerifyDriver(c *gin.Context) {
	driverID := c.Param("id")
	var body struct {
		Verified *bool `json:"verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var userID string
	err := db.Pool.QueryRow(context.Background(),
		`UPDATE drivers SET is_verified=$1, updated_at=NOW() WHERE id=$2 RETURNING user_id`,
		*body.Verified, driverID).Scan(&userID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Driver not found", err)
		return
	}

	if !*body.Verified {
		db.Pool.Exec(context.Background(),
			`UPDATE drivers SET status='offline', updated_at=NOW() WHERE id=$1`, driverID)
		stores.RemoveDriver(driverID)
	}

	verified := *body.Verified
	utils.SafeGo(func() {
		var token *string
		db.Pool.QueryRow(context.Background(), `SELECT notification_token FROM users WHERE id=$1`, userID).Scan(&token)
		if token != nil && *token != "" && verified {
			utils.SendPushNotification(*token, "Account Approved!",
				"Your driver account has been verified. You can now go online and accept rides.",
				utils.FCMData{"type": "account_verified"})
		}
	})

	utils.RespondSuccess(c, http.StatusOK, "Driver verification updated", gin.H{"driverId": driverID, "verified": verified})
}

// PUT /api/v1/admin/driver/:id/status
func AdminUpdateDriverStatus(c *gin.Context) {
	driverID := c.Param("id")
	var body struct {
		Status string `json:"status" binding:"required"` // "offline", "suspended"
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	validStatuses := map[string]bool{"offline": true, "suspended": true}
	if !validStatuses[body.Status] {
		utils.RespondError(c, http.StatusBadRequest, "Invalid status. Use: offline, suspended", nil)
		return
	}

	_, err := db.Pool.Exec(context.Background(),
		`UPDATE drivers SET status=$1, updated_at=NOW() WHERE id=$2`, body.Status, driverID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to update driver", err)
		return
	}
	stores.RemoveDriver(driverID)

	utils.RespondSuccess(c, http.StatusOK, "Driver status updated", gin.H{"driverId": driverID, "status": body.Status})
}

// GET /api/v1/admin/drivers/live
func AdminGetLiveDrivers(c *gin.Context) {
	// Postgres is the source of truth for the admin map; Redis only serves
	// the hot dispatch path
	rows, err := db.Pool.Query(context.Background(),
		`SELECT d.id, ll.latitude, ll.longitude, ll.heading, ll.updated_at,
		 d.full_name, u.phone_number, COALESCE(d.vehicle_type,''), COALESCE(d.registration_number,''), d.status
		 FROM live_locations ll
		 JOIN drivers d ON ll.user_id=d.user_id
		 JOIN users u ON u.id=d.user_id
		 WHERE d.status IN ('online','busy')
		 ORDER BY ll.updated_at DESC`)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch live drivers", err)
		return
	}
	defer rows.Close()

	type LiveDriver struct {
		DriverID           string    `json:"driverId"`
		Lat                float64   `json:"lat"`
		Lng                float64   `json:"lng"`
		Heading            *float64  `json:"heading"`
		UpdatedAt          time.Time `json:"updatedAt"`
		Name               string    `json:"name"`
		PhoneNumber        string    `json:"phoneNumber"`
		VehicleType        string    `json:"vehicleType"`
		RegistrationNumber string    `json:"registrationNumber"`
		Status             string    `json:"status"`
	}

	var drivers []LiveDriver
	for rows.Next() {
		var d LiveDriver
		rows.Scan(&d.DriverID, &d.Lat, &d.Lng, &d.Heading, &d.UpdatedAt,
			&d.Name, &d.PhoneNumber, &d.VehicleType, &d.RegistrationNumber, &d.Status)
		drivers = append(drivers, d)
	}
	if drivers == nil {
		drivers = []LiveDriver{}
	}

	utils.RespondSuccess(c, http.StatusOK, "Live drivers", gin.H{
		"drivers": drivers,
		"count":   len(drivers),
	})
}

// ══════════════════════════════════════════════════
// Admin: Ride Management
// ══════════════════════════════════════════════════

// GET /api/v1/admin/rides?page=1&limit=20&status=manual_allocation_required&bookingType=rental
func AdminGetRides(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	statusFilter := c.Query("status")
	bookingFilter := c.Query("bookingType")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	whereClause := ""
	var filterArgs []interface{}
	argIdx := 1

	if statusFilter != "" {
		whereClause = " WHERE r.status=$" + strconv.Itoa(argIdx)
		filterArgs = append(filterArgs, statusFilter)
		argIdx++
	}
	if bookingFilter != "" {
		if whereClause == "" {
			whereClause = " WHERE"
		} else {
			whereClause += " AND"
		}
		whereClause += " r.booking_type=$" + strconv.Itoa(argIdx)
		filterArgs = append(filterArgs, bookingFilter)
		argIdx++
	}

	var total int
	db.Pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM rides r`+whereClause, filterArgs...).Scan(&total)

	query := `SELECT r.id, r.ride_code, r.customer_id, r.driver_id, r.fare_amount, r.pickup_address,
		r.destination_address, r.distance_km, r.status, r.vehicle_type, r.booking_type,
		COALESCE(r.payment_mode,''), r.payment_status, r.created_at,
		COALESCE(cu.full_name, ''), cu.phone_number,
		COALESCE(d.full_name, '')
		FROM rides r
		LEFT JOIN users cu ON r.customer_id=cu.id
		LEFT JOIN drivers d ON r.driver_id=d.id` +
		whereClause + ` ORDER BY r.created_at DESC LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)

	queryArgs := append(filterArgs, limit, offset)

	rows, err := db.Pool.Query(context.Background(), query, queryArgs...)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch rides", err)
		return
	}
	defer rows.Close()

	type AdminRide struct {
		ID                 string    `json:"id"`
		RideCode           string    `json:"rideCode"`
		CustomerID         string    `json:"customerId"`
		DriverID           *string   `json:"driverId"`
		FareAmount         float64   `json:"fareAmount"`
		PickupAddress      string    `json:"pickupAddress"`
		DestinationAddress string    `json:"destinationAddress"`
		DistanceKm         float64   `json:"distanceKm"`
		Status             string    `json:"status"`
		VehicleType        string    `json:"vehicleType"`
		BookingType        string    `json:"bookingType"`
		PaymentMode        string    `json:"paymentMode"`
		PaymentStatus      string    `json:"paymentStatus"`
		CreatedAt          time.Time `json:"createdAt"`
		CustomerName       string    `json:"customerName"`
		CustomerPhone      string    `json:"customerPhone"`
		DriverName         string    `json:"driverName"`
	}
	var rides []AdminRide
	for rows.Next() {
		var r AdminRide
		rows.Scan(&r.ID, &r.RideCode, &r.CustomerID, &r.DriverID, &r.FareAmount, &r.PickupAddress,
			&r.DestinationAddress, &r.DistanceKm, &r.Status, &r.VehicleType, &r.BookingType,
			&r.PaymentMode, &r.PaymentStatus, &r.CreatedAt,
			&r.CustomerName, &r.CustomerPhone, &r.DriverName)
		rides = append(rides, r)
	}
	if rides == nil {
		rides = []AdminRide{}
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	utils.RespondSuccess(c, http.StatusOK, "Rides", gin.H{
		"rides": rides, "total": total, "page": page, "limit": limit, "totalPages": totalPages,
	})
}

// POST /api/v1/admin/ride/:id/assign
//
// Manual allocation for rentals, outstation and airport bookings, and for
// requests the automatic dispatch could not place. Assigns the chosen
// driver directly and notifies both parties.
func AdminAssignRide(c *gin.Context) {
	rideID := c.Param("id")
	var body struct {
		DriverID string `json:"driverId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var driver models.Driver
	row := db.Pool.QueryRow(context.Background(),
		`SELECT `+driverSelectCols+` FROM drivers d JOIN users u ON u.id=d.user_id WHERE d.id=$1`, body.DriverID)
	if err := scanDriver(row, &driver); err != nil {
		utils.RespondError(c, http.StatusNotFound, "Driver not found", err)
		return
	}
	if !driver.IsVerified || driver.Status == "suspended" || driver.Status == "busy" {
		utils.RespondError(c, http.StatusConflict, "Driver is not available for assignment", nil)
		return
	}

	var customerID, pickupAddress string
	err := db.Pool.QueryRow(context.Background(),
		`UPDATE rides SET driver_id=$1, status='accepted', accepted_at=NOW(), updated_at=NOW()
		 WHERE id=$2 AND driver_id IS NULL
		 AND status IN ('requested','dispatched','no_drivers_available','dispatch_failed','manual_allocation_required')
		 RETURNING customer_id, pickup_address`,
		body.DriverID, rideID).Scan(&customerID, &pickupAddress)
	if err != nil {
		utils.RespondError(c, http.StatusConflict, "Ride cannot be assigned", err)
		return
	}

	db.Pool.Exec(context.Background(),
		`UPDATE drivers SET status='busy', updated_at=NOW() WHERE id=$1`, body.DriverID)

	utils.SafeGo(func() {
		ctx := context.Background()
		if driver.NotificationToken != nil && *driver.NotificationToken != "" {
			utils.SendPushNotification(*driver.NotificationToken, "Ride Assigned",
				fmt.Sprintf("A ride has been assigned to you. Pickup: %s", pickupAddress),
				utils.FCMData{"type": "ride_assigned", "rideId": rideID})
		}

		var customerToken *string
		db.Pool.QueryRow(ctx, `SELECT notification_token FROM users WHERE id=$1`, customerID).Scan(&customerToken)
		if customerToken != nil && *customerToken != "" {
			utils.SendPushNotification(*customerToken, "Driver Assigned",
				fmt.Sprintf("%s has been assigned to your ride.", driver.FullName),
				utils.FCMData{"type": "ride_status", "rideId": rideID, "status": "accepted"})
		}
	})

	utils.RespondSuccess(c, http.StatusOK, "Ride assigned", gin.H{
		"rideId":   rideID,
		"driverId": body.DriverID,
	})
}

// POST /api/v1/admin/ride/:id/dispatch
//
// Re-runs automatic dispatch for an unassigned ride whose notification
// batch could not be written, or that found no drivers the first time.
func AdminRedispatchRide(c *gin.Context) {
	rideID := c.Param("id")

	var ride dispatch.Ride
	var bookingType string
	err := db.Pool.QueryRow(context.Background(),
		`SELECT r.id, r.customer_id, COALESCE(u.full_name,''), u.phone_number,
		        r.pickup_latitude, r.pickup_longitude, r.pickup_address,
		        r.destination_latitude, r.destination_longitude, r.destination_address,
		        r.vehicle_type, r.booking_type, r.fare_amount, r.distance_km, r.created_at
		 FROM rides r JOIN users u ON u.id=r.customer_id
		 WHERE r.id=$1 AND r.driver_id IS NULL
		 AND r.status IN ('requested','dispatch_failed','no_drivers_available')`,
		rideID).Scan(&ride.ID, &ride.CustomerID, &ride.CustomerName, &ride.CustomerPhone,
		&ride.Pickup.Latitude, &ride.Pickup.Longitude, &ride.PickupAddress,
		&ride.Destination.Latitude, &ride.Destination.Longitude, &ride.DestinationAddress,
		&ride.VehicleType, &bookingType, &ride.FareAmount, &ride.DistanceKm, &ride.CreatedAt)
	if err != nil {
		utils.RespondError(c, http.StatusConflict, "Ride is not eligible for redispatch", err)
		return
	}
	ride.BookingType = fare.BookingType(bookingType)

	result := dispatchRide(c.Request.Context(), ride)

	utils.RespondSuccess(c, http.StatusOK, "Dispatch retried", gin.H{
		"rideId":          ride.ID,
		"status":          string(result.Outcome),
		"notifiedDrivers": result.NotifiedDrivers(),
	})
}

// ══════════════════════════════════════════════════
// Admin: Announcements
// ══════════════════════════════════════════════════

// POST /api/v1/admin/broadcast — push an announcement to customers or drivers
func AdminBroadcast(c *gin.Context) {
	var body struct {
		Audience string `json:"audience" binding:"required"` // "users" or "drivers"
		Title    string `json:"title" binding:"required"`
		Message  string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var query string
	switch body.Audience {
	case "users":
		query = `SELECT u.notification_token FROM users u
			LEFT JOIN drivers d ON d.user_id=u.id
			WHERE d.id IS NULL AND u.notification_token IS NOT NULL AND u.status='active'`
	case "drivers":
		query = `SELECT u.notification_token FROM users u
			JOIN drivers d ON d.user_id=u.id
			WHERE u.notification_token IS NOT NULL AND d.status <> 'suspended'`
	default:
		utils.RespondError(c, http.StatusBadRequest, "Invalid audience. Use: users, drivers", nil)
		return
	}

	rows, err := db.Pool.Query(context.Background(), query)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to collect recipients", err)
		return
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if rows.Scan(&t) == nil && t != "" {
			tokens = append(tokens, t)
		}
	}

	title := body.Title
	message := body.Message
	utils.SafeGo(func() {
		if err := utils.SendPushToMultiple(tokens, title, message, utils.FCMData{"type": "announcement"}); err != nil {
			utils.Logger.Error("Broadcast delivery failed", zap.Error(err))
		}
	})

	utils.RespondSuccess(c, http.StatusOK, "Broadcast queued", gin.H{"recipients": len(tokens)})
}

// ══════════════════════════════════════════════════
// Admin: Zone Management
// ══════════════════════════════════════════════════

// GET /api/v1/admin/zones
func AdminGetZones(c *gin.Context) {
	zoneList, err := stores.ListZones(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch zones", err)
		return
	}

	out := make([]gin.H, 0, len(zoneList))
	for _, z := range zoneList {
		out = append(out, gin.H{
			"id":        z.ID,
			"name":      z.Name,
			"latitude":  z.Center.Latitude,
			"longitude": z.Center.Longitude,
			"radiusKm":  z.RadiusKm,
			"isActive":  z.IsActive,
		})
	}
	utils.RespondSuccess(c, http.StatusOK, "Zones", gin.H{"zones": out})
}

// PUT /api/v1/admin/zone — create or update a zone by name
func AdminUpsertZone(c *gin.Context) {
	var body struct {
		Name      string   `json:"name" binding:"required"`
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
		RadiusKm  float64  `json:"radiusKm" binding:"required"`
		IsActive  *bool    `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}
	if body.RadiusKm <= 0 {
		utils.RespondError(c, http.StatusBadRequest, "radiusKm must be positive", nil)
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	center := geo.Coordinate{Latitude: *body.Latitude, Longitude: *body.Longitude}
	if err := stores.UpsertZone(c.Request.Context(), body.Name, center, body.RadiusKm, isActive); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to save zone", err)
		return
	}

	utils.Logger.Info("Zone updated by admin",
		zap.String("zone", body.Name),
		zap.Float64("radiusKm", body.RadiusKm),
		zap.Bool("isActive", isActive))
	utils.RespondSuccess(c, http.StatusOK, "Zone saved", nil)
}

// ══════════════════════════════════════════════════
// Admin: Fare Matrix Management
// ══════════════════════════════════════════════════

// GET /api/v1/admin/fare-matrix — all rows, including inactive
func AdminGetFareMatrix(c *gin.Context) {
	matrix, err := stores.ListFareMatrix(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to fetch fare matrix", err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, "Fare matrix", gin.H{"fareMatrix": matrix})
}

// PUT /api/v1/admin/fare-matrix — create or update a (vehicle, booking) row
func AdminUpsertFareConfig(c *gin.Context) {
	var body struct {
		VehicleType     string   `json:"vehicleType" binding:"required"`
		BookingType     string   `json:"bookingType" binding:"required"`
		BaseFare        *float64 `json:"baseFare" binding:"required"`
		PerKmRate       *float64 `json:"perKmRate" binding:"required"`
		MinimumFare     *float64 `json:"minimumFare" binding:"required"`
		SurgeMultiplier float64  `json:"surgeMultiplier"`
		IsActive        *bool    `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	if *body.BaseFare < 0 || *body.PerKmRate < 0 || *body.MinimumFare < 0 {
		utils.RespondError(c, http.StatusBadRequest, "Fare values cannot be negative", nil)
		return
	}
	if body.SurgeMultiplier == 0 {
		body.SurgeMultiplier = 1.0
	}
	if body.SurgeMultiplier < 1.0 {
		utils.RespondError(c, http.StatusBadRequest, "surgeMultiplier must be at least 1.0", nil)
		return
	}

	isActive := true
	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	cfg := fare.Config{
		VehicleType:     body.VehicleType,
		BookingType:     fare.BookingType(body.BookingType),
		BaseFare:        *body.BaseFare,
		PerKmRate:       *body.PerKmRate,
		MinimumFare:     *body.MinimumFare,
		SurgeMultiplier: body.SurgeMultiplier,
	}
	if err := stores.UpsertFareConfig(c.Request.Context(), cfg, isActive); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to save fare config", err)
		return
	}

	utils.Logger.Info("Fare config updated by admin",
		zap.String("vehicleType", body.VehicleType),
		zap.String("bookingType", body.BookingType))
	utils.RespondSuccess(c, http.StatusOK, "Fare config saved", nil)
}
