package utils

import (
	"context"
	"encoding/json"

	"a1taxi/db"
	"a1taxi/models"

	"go.uber.org/zap"
)

// LogFareQuote records a quoted request/breakdown pair for pricing audits.
// Runs in the background so quoting latency never pays for the insert.
func LogFareQuote(log models.QuoteLog) {
	SafeGo(func() {
		reqJSON, _ := json.Marshal(log.Request)
		bdJSON, _ := json.Marshal(log.Breakdown)

		_, err := db.Pool.Exec(context.Background(),
			`INSERT INTO fare_quote_logs (id, quote_id, request, breakdown, created_at)
			 VALUES (gen_random_uuid()::text, $1, $2, $3, NOW())`,
			log.QuoteID, reqJSON, bdJSON,
		)

		if err != nil {
			Logger.Error("Failed to log fare quote", zap.Error(err))
		}
	})
}
