package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all validated environment variables plus pricing/dispatch
// policy knobs that ops can override without a redeploy.
type Config struct {
	Port         string
	DBURL        string
	RedisAddr    string
	TwilioSID    string
	TwilioAuth   string
	TwilioVerify string
	AdminSecret  string
	JWTSecret    string

	// SMTP for ride receipts (optional — email is skipped when empty)
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Fare policy
	BaseKmCovered   float64
	AvgSpeedKmh     float64
	DeadheadDivisor float64
	HubLatitude     float64
	HubLongitude    float64

	// Dispatch policy
	LocationFreshness time.Duration
	DefaultDistanceKm float64
	EtaMinPerKm       float64
}

// Global instance
var Envs Config

// LoadAndValidate ensures all required ENV keys are present
func LoadAndValidate() {
	Envs = Config{
		Port:         getReq("PORT"),
		DBURL:        getReq("DATABASE_URL"),
		RedisAddr:    getOpt("REDIS_ADDR", "localhost:6379"),
		TwilioSID:    getOpt("TWILIO_ACCOUNT_SID", ""),
		TwilioAuth:   getOpt("TWILIO_AUTH_TOKEN", ""),
		TwilioVerify: getOpt("TWILIO_VERIFY_SERVICE_SID", ""),
		AdminSecret:  getReq("ADMIN_SECRET"),
		JWTSecret:    getReq("JWT_SECRET"),

		SMTPHost: getOpt("SMTP_HOST", ""),
		SMTPPort: getOpt("SMTP_PORT", "587"),
		SMTPUser: getOpt("SMTP_USER", ""),
		SMTPPass: getOpt("SMTP_PASS", ""),
		SMTPFrom: getOpt("SMTP_FROM", ""),

		BaseKmCovered:   getFloat("FARE_BASE_KM_COVERED", 4.0),
		AvgSpeedKmh:     getFloat("FARE_AVG_SPEED_KMH", 30.0),
		DeadheadDivisor: getFloat("FARE_DEADHEAD_DIVISOR", 2.0),
		HubLatitude:     getFloat("HUB_LATITUDE", 12.7402),
		HubLongitude:    getFloat("HUB_LONGITUDE", 77.8240),

		LocationFreshness: getDuration("DISPATCH_LOCATION_FRESHNESS", 5*time.Minute),
		DefaultDistanceKm: getFloat("DISPATCH_DEFAULT_DISTANCE_KM", 5.0),
		EtaMinPerKm:       getFloat("DISPATCH_ETA_MIN_PER_KM", 2.0),
	}
}

func getReq(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("❌ FATAL: Environment variable %s is required but missing", key)
	}
	return val
}

func getOpt(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getFloat(key string, def float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		log.Fatalf("❌ FATAL: Environment variable %s must be a number, got %q", key, val)
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Fatalf("❌ FATAL: Environment variable %s must be a duration like 5m, got %q", key, val)
	}
	return d
}
