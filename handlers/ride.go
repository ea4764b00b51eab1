package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"a1taxi/config"
	"a1taxi/db"
	"a1taxi/dispatch"
	"a1taxi/fare"
	"a1taxi/geo"
	"a1taxi/models"
	"a1taxi/stores"
	"a1taxi/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

func farePolicy() fare.Policy {
	cfg := config.Envs
	return fare.Policy{
		BaseKmCovered:   cfg.BaseKmCovered,
		AvgSpeedKmh:     cfg.AvgSpeedKmh,
		DeadheadDivisor: cfg.DeadheadDivisor,
		ReferenceHub:    geo.Coordinate{Latitude: cfg.HubLatitude, Longitude: cfg.HubLongitude},
	}
}

func dispatchPolicy() dispatch.Policy {
	cfg := config.Envs
	return dispatch.Policy{
		LocationFreshness: cfg.LocationFreshness,
		DefaultDistanceKm: cfg.DefaultDistanceKm,
		EtaMinPerKm:       cfg.EtaMinPerKm,
	}
}

type estimateRequest struct {
	PickupLatitude       float64 `json:"pickup_latitude" binding:"required"`
	PickupLongitude      float64 `json:"pickup_longitude" binding:"required"`
	DestinationLatitude  float64 `json:"destination_latitude" binding:"required"`
	DestinationLongitude float64 `json:"destination_longitude" binding:"required"`
	VehicleType          string  `json:"vehicle_type" binding:"required"`
	BookingType          string  `json:"booking_type"`
	// Optional route-service overrides; zero means compute from coordinates.
	DistanceKm  float64 `json:"distance_km"`
	DurationMin float64 `json:"duration_minutes"`
}

func (b estimateRequest) toFareRequest() fare.Request {
	bookingType := fare.BookingType(strings.ToLower(strings.TrimSpace(b.BookingType)))
	if bookingType == "" {
		bookingType = fare.BookingRegular
	}
	return fare.Request{
		Pickup:      geo.Coordinate{Latitude: b.PickupLatitude, Longitude: b.PickupLongitude},
		Destination: geo.Coordinate{Latitude: b.DestinationLatitude, Longitude: b.DestinationLongitude},
		VehicleType: strings.ToLower(strings.TrimSpace(b.VehicleType)),
		BookingType: bookingType,
		DistanceKm:  b.DistanceKm,
		DurationMin: b.DurationMin,
	}
}

// POST /api/v1/user/ride/estimate
//
// Prices a trip and caches the quote in Redis under a quote id. Ride
// creation later charges the cached amount, so the fare shown is the fare
// booked and the client can never tamper with pricing inputs.
func GetRideEstimate(c *gin.Context) {
	var body estimateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	req := body.toFareRequest()
	if err := req.Validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid ride parameters", err)
		return
	}

	rings, err := stores.GetActiveRings(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to load service zones", err)
		return
	}

	cfg, err := stores.GetFareConfig(c.Request.Context(), req.VehicleType, req.BookingType)
	if err == fare.ErrMissingFareConfig {
		utils.RespondError(c, http.StatusUnprocessableEntity, "No pricing configured for this vehicle and booking type", nil)
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to load fare configuration", err)
		return
	}

	engine := fare.NewEngine(farePolicy())
	breakdown, err := engine.Quote(req, cfg, rings)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Failed to compute fare", err)
		return
	}

	quoteID := uuid.New().String()
	quote := stores.CachedQuote{
		QuoteID:   quoteID,
		Request:   req,
		Breakdown: breakdown,
		CreatedAt: time.Now(),
	}
	if err := stores.StoreQuote(quoteID, quote); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to store quote", err)
		return
	}

	// Pricing audit trail, off the request path
	utils.LogFareQuote(models.QuoteLog{QuoteID: &quoteID, Request: req, Breakdown: breakdown})

	utils.RespondSuccess(c, http.StatusOK, "Ride estimate", gin.H{
		"quoteId":   quoteID,
		"breakdown": breakdown,
	})
}

func generateRideCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "A1-" + id[:8]
}

// POST /api/v1/user/ride/create
//
// Books a ride off a cached quote and dispatches it synchronously so the
// notified-driver count in the response is truthful. Only push delivery and
// the pub/sub fan-out run in the background.
func CreateRide(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	var body struct {
		QuoteID            string `json:"quoteId" binding:"required"`
		PickupAddress      string `json:"pickup_address" binding:"required"`
		DestinationAddress string `json:"destination_address" binding:"required"`
		PaymentMode        string `json:"payment_mode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	quote, err := stores.GetQuote(body.QuoteID)
	if err != nil {
		utils.RespondError(c, http.StatusGone, "This quote has expired. Please get a fresh estimate.", err)
		return
	}

	rideCode := generateRideCode()
	otp := generateOTP()

	var rideID string
	err = db.Pool.QueryRow(context.Background(),
		`INSERT INTO rides (
			id, ride_code, customer_id, driver_id, pickup_address, pickup_latitude, pickup_longitude,
			destination_address, destination_latitude, destination_longitude,
			vehicle_type, booking_type, fare_amount, distance_km, duration_minutes,
			status, otp, payment_mode, created_at, updated_at
		) VALUES (
			gen_random_uuid()::text, $1, $2, NULL, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12, $13,
			'requested', $14, NULLIF($15,''), NOW(), NOW()
		) RETURNING id`,
		rideCode, user.ID, body.PickupAddress, quote.Request.Pickup.Latitude, quote.Request.Pickup.Longitude,
		body.DestinationAddress, quote.Request.Destination.Latitude, quote.Request.Destination.Longitude,
		quote.Request.VehicleType, string(quote.Request.BookingType), quote.Breakdown.TotalFare,
		quote.Breakdown.DistanceKm, quote.Breakdown.DurationMin,
		otp, body.PaymentMode,
	).Scan(&rideID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Failed to create ride", err)
		return
	}

	customerName := ""
	if user.FullName != nil {
		customerName = *user.FullName
	}
	ride := dispatch.Ride{
		ID:                 rideID,
		CustomerID:         user.ID,
		CustomerName:       customerName,
		CustomerPhone:      user.PhoneNumber,
		Pickup:             quote.Request.Pickup,
		PickupAddress:      body.PickupAddress,
		Destination:        quote.Request.Destination,
		DestinationAddress: body.DestinationAddress,
		VehicleType:        quote.Request.VehicleType,
		BookingType:        quote.Request.BookingType,
		FareAmount:         quote.Breakdown.TotalFare,
		DistanceKm:         quote.Breakdown.DistanceKm,
		CreatedAt:          time.Now(),
	}

	result := dispatchRide(c.Request.Context(), ride)

	utils.RespondSuccess(c, http.StatusCreated, "Ride requested", gin.H{
		"rideId":          rideID,
		"rideCode":        rideCode,
		"status":          string(result.Outcome),
		"notifiedDrivers": result.NotifiedDrivers(),
	})
}

// dispatchRide runs the full dispatch flow: snapshot the driver directory,
// filter, write notification rows, settle the ride status, then hand push
// delivery and the socket fan-out to background workers.
func dispatchRide(ctx context.Context, ride dispatch.Ride) dispatch.Result {
	notifier := dispatch.NewNotifier(dispatchPolicy())

	pool, err := stores.ListAvailableDrivers(ctx)
	if err != nil {
		utils.Logger.Error("Failed to list available drivers", zap.Error(err))
		pool = nil
	}

	eligible := notifier.Filter(ride.VehicleType, pool, time.Now())
	result := notifier.Dispatch(ride, eligible)

	if result.Outcome == dispatch.OutcomeDispatched {
		if err := stores.InsertDispatchNotifications(ctx, result.Records); err != nil {
			utils.Logger.Error("Failed to insert dispatch notifications", zap.Error(err))
			// Drivers exist, the write failed: keep the ride retryable
			// instead of lying that nobody was available.
			result = result.Failed("notification write failed")
		}
	}

	if _, err := db.Pool.Exec(context.Background(),
		`UPDATE rides SET status=$1, updated_at=NOW() WHERE id=$2`,
		string(result.Outcome), ride.ID); err != nil {
		utils.Logger.Error("Failed to update ride dispatch status", zap.Error(err))
	}

	if result.Outcome != dispatch.OutcomeDispatched {
		utils.Logger.Info("Ride not auto-dispatched",
			zap.String("rideId", ride.ID),
			zap.String("outcome", string(result.Outcome)),
			zap.String("reason", result.Reason))
		return result
	}

	records := result.Records
	driverIDs := make([]string, 0, len(eligible))
	for _, d := range eligible {
		driverIDs = append(driverIDs, d.ID)
	}
	utils.SafeGo(func() {
		for _, rec := range records {
			if rec.NotificationToken == "" {
				continue
			}
			utils.SendPushNotification(rec.NotificationToken, rec.Title, rec.Message, utils.FCMData{
				"type":   "ride_request",
				"rideId": rec.RideID,
				"eta":    fmt.Sprintf("%d", rec.EtaMin),
			})
		}

		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.PublishRideRequest(pubCtx, buildRideRequestEvent(ride, driverIDs)); err != nil {
			utils.Logger.Error("Failed to publish ride request", zap.Error(err))
		}
	})

	return result
}

// buildRideRequestEvent shapes the pub/sub payload for the socket fan-out.
// Distance is the already-priced trip distance, not a fresh recomputation.
func buildRideRequestEvent(ride dispatch.Ride, driverIDs []string) stores.RideRequestEvent {
	return stores.RideRequestEvent{
		RideID:      ride.ID,
		CustomerID:  ride.CustomerID,
		PickupLat:   ride.Pickup.Latitude,
		PickupLon:   ride.Pickup.Longitude,
		Destination: ride.DestinationAddress,
		VehicleType: ride.VehicleType,
		BookingType: string(ride.BookingType),
		Fare:        ride.FareAmount,
		Distance:    ride.DistanceKm,
		DriverIDs:   driverIDs,
	}
}

// POST /api/v1/user/ride/cancel
func CancelRide(c *gin.Context) {
	user := c.MustGet("user").(*models.User)
	var body struct {
		RideID       string `json:"rideId" binding:"required"`
		CancelReason string `json:"cancelReason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	var driverID *string
	err := db.Pool.QueryRow(context.Background(),
		`UPDATE rides SET status='cancelled', cancel_reason=$1, cancelled_at=NOW(), updated_at=NOW()
		 WHERE id=$2 AND customer_id=$3 AND status NOT IN ('completed','cancelled')
		 RETURNING driver_id`,
		body.CancelReason, body.RideID, user.ID).Scan(&driverID)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Ride not found or already finished", err)
		return
	}

	// If a driver was assigned, notify them and free them up
	if driverID != nil && *driverID != "" {
		dID := *driverID
		utils.SafeGo(func() {
			db.Pool.Exec(context.Background(),
				`UPDATE drivers SET status='online', updated_at=NOW() WHERE id=$1 AND status='busy'`, dID)

			var driverToken *string
			db.Pool.QueryRow(context.Background(),
				`SELECT u.notification_token FROM drivers d JOIN users u ON u.id=d.user_id WHERE d.id=$1`, dID).
				Scan(&driverToken)
			if driverToken != nil && *driverToken != "" {
				utils.SendPushNotification(*driverToken, "Ride Cancelled", "The customer has cancelled the ride request.", utils.FCMData{
					"type":   "ride_cancelled",
					"rideId": body.RideID,
				})
			}
		})
	}

	utils.RespondSuccess(c, http.StatusOK, "Ride cancelled", nil)
}

// GET /api/v1/user/ride/:id
func GetRideDetails(c *gin.Context) {
	rideID := c.Param("id")
	currentUser, _ := c.Get("user")

	var ride models.Ride
	var driver models.Driver
	var customer models.User
	var driverUpiID *string

	err := db.Pool.QueryRow(context.Background(),
		`SELECT
			r.id, r.ride_code, r.customer_id, r.driver_id, r.pickup_address, r.pickup_latitude, r.pickup_longitude,
			r.destination_address, r.destination_latitude, r.destination_longitude,
			r.vehicle_type, r.booking_type, r.fare_amount, r.distance_km, r.duration_minutes,
			r.status, COALESCE(r.otp,''), COALESCE(r.payment_mode,''), r.payment_status, r.created_at,
			COALESCE(d.id,''), COALESCE(d.full_name,''), COALESCE(du.phone_number,''), COALESCE(d.vehicle_type,''),
			d.vehicle_color, d.registration_number, COALESCE(d.rating,0), COALESCE(d.total_rides,0), d.upi_id,
			cu.id, cu.full_name, cu.phone_number
		FROM rides r
		LEFT JOIN drivers d ON r.driver_id = d.id
		LEFT JOIN users du ON d.user_id = du.id
		JOIN users cu ON r.customer_id = cu.id
		WHERE r.id=$1`, rideID).
		Scan(
			&ride.ID, &ride.RideCode, &ride.CustomerID, &ride.DriverID, &ride.PickupAddress, &ride.PickupLatitude, &ride.PickupLongitude,
			&ride.DestinationAddress, &ride.DestinationLatitude, &ride.DestinationLongitude,
			&ride.VehicleType, &ride.BookingType, &ride.FareAmount, &ride.DistanceKm, &ride.DurationMin,
			&ride.Status, &ride.OTP, &ride.PaymentMode, &ride.PaymentStatus, &ride.CreatedAt,
			&driver.ID, &driver.FullName, &driver.PhoneNumber, &driver.VehicleType,
			&driver.VehicleColor, &driver.RegistrationNumber, &driver.Rating, &driver.TotalRides, &driverUpiID,
			&customer.ID, &customer.FullName, &customer.PhoneNumber,
		)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "Ride not found", err)
		return
	}

	// IDOR prevention: customers only see their own rides
	if currentUser != nil {
		u := currentUser.(*models.User)
		if ride.CustomerID != u.ID {
			utils.RespondError(c, http.StatusForbidden, "Unauthorized access to this ride", nil)
			return
		}
	}

	if driver.ID != "" {
		ride.Driver = &driver
	}
	ride.Customer = &customer

	// UPI payment QR for in-person settlement
	var qrCodeBase64 string
	if driverUpiID != nil && *driverUpiID != "" {
		param := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%.2f&cu=INR", *driverUpiID, driver.FullName, ride.FareAmount)
		png, err := qrcode.Encode(param, qrcode.Medium, 256)
		if err == nil {
			qrCodeBase64 = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
		} else {
			utils.Logger.Error("Failed to generate QR code", zap.Error(err))
		}
	}

	utils.RespondSuccess(c, http.StatusOK, "Ride details", gin.H{
		"ride":      ride,
		"paymentQr": qrCodeBase64,
	})
}
