package utils

import (
	"go.uber.org/zap"
)

var Logger *zap.Logger

// InitLogger builds the global structured logger. JSON output on stdout so
// log aggregation tools can ingest it directly.
func InitLogger() {
	var err error
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	Logger, err = config.Build()
	if err != nil {
		panic(err)
	}
}
