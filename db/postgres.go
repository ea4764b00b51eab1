package db

import (
	"context"
	"log"
	"time"

	"a1taxi/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

// Connect initializes the global pgx pool from the validated config.
func Connect() {
	cfg, err := pgxpool.ParseConfig(config.Envs.DBURL)
	if err != nil {
		log.Fatalf("Invalid DATABASE_URL: %v", err)
	}
	cfg.MaxConns = 20
	cfg.MaxConnIdleTime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	Pool, err = pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}

	if err := Pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	log.Println("Connected to Postgres successfully")
}

func Close() {
	if Pool != nil {
		Pool.Close()
	}
}
