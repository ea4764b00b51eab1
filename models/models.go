package models

import "time"

type User struct {
	ID                string    `json:"id"`
	FullName          *string   `json:"full_name"`
	PhoneNumber       string    `json:"phone_number"`
	Email             *string   `json:"email"`
	NotificationToken *string   `json:"notificationToken"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Driver struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	FullName           string    `json:"full_name"`
	PhoneNumber        string    `json:"phone_number"`
	Status             string    `json:"status"`
	IsVerified         bool      `json:"is_verified"`
	VehicleType        string    `json:"vehicle_type"`
	VehicleMake        *string   `json:"vehicle_make"`
	VehicleModel       *string   `json:"vehicle_model"`
	VehicleColor       *string   `json:"vehicle_color"`
	RegistrationNumber *string   `json:"registration_number"`
	LicenseNumber      *string   `json:"license_number"`
	Rating             float64   `json:"rating"`
	TotalRides         int       `json:"totalRides"`
	NotificationToken  *string   `json:"notificationToken,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Ride struct {
	ID                   string     `json:"id"`
	RideCode             string     `json:"ride_code"`
	CustomerID           string     `json:"customer_id"`
	DriverID             *string    `json:"driver_id"`
	PickupAddress        string     `json:"pickup_address"`
	PickupLatitude       float64    `json:"pickup_latitude"`
	PickupLongitude      float64    `json:"pickup_longitude"`
	DestinationAddress   string     `json:"destination_address"`
	DestinationLatitude  float64    `json:"destination_latitude"`
	DestinationLongitude float64    `json:"destination_longitude"`
	VehicleType          string     `json:"vehicle_type"`
	BookingType          string     `json:"booking_type"`
	FareAmount           float64    `json:"fare_amount"`
	DistanceKm           float64    `json:"distance_km"`
	DurationMin          float64    `json:"duration_minutes"`
	Status               string     `json:"status"`
	OTP                  string     `json:"otp,omitempty"`
	CancelReason         *string    `json:"cancel_reason,omitempty"`
	PaymentMode          *string    `json:"payment_mode,omitempty"`
	PaymentStatus        string     `json:"payment_status"`
	AcceptedAt           *time.Time `json:"acceptedAt,omitempty"`
	StartedAt            *time.Time `json:"startedAt,omitempty"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	CancelledAt          *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
	Driver               *Driver    `json:"driver,omitempty"`
	Customer             *User      `json:"customer,omitempty"`
}

type FareMatrixRow struct {
	ID              string    `json:"id"`
	VehicleType     string    `json:"vehicle_type"`
	BookingType     string    `json:"booking_type"`
	BaseFare        float64   `json:"base_fare"`
	PerKmRate       float64   `json:"per_km_rate"`
	MinimumFare     float64   `json:"minimum_fare"`
	SurgeMultiplier float64   `json:"surge_multiplier"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Notification struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Type      string      `json:"type"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

type QuoteLog struct {
	ID        string      `json:"id"`
	QuoteID   *string     `json:"quoteId"`
	Request   interface{} `json:"request"`
	Breakdown interface{} `json:"breakdown"`
	CreatedAt time.Time   `json:"createdAt"`
}
