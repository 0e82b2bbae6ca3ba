package main

import (
	"context"
	"fmt"
	"time"

	listsvc "wavemint-backend/internal/application/listings"
	"wavemint-backend/internal/config"
	"wavemint-backend/internal/interfaces/router"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}

	// Verify connections before printing startup logs
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			panic("Postgres: get DB: " + err.Error())
		}
		if err := sqlDB.Ping(); err != nil {
			panic("Postgres connection failed: " + err.Error())
		}
		fmt.Println("Postgres connected")
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			panic("Redis connection failed: " + err.Error())
		}
		fmt.Println("Redis connected")
	}

	// Expiry sweep: flip overdue active listings to expired every minute.
	// The sweep is idempotent, so overlapping or replayed runs are harmless.
	if db != nil {
		expirer := &listsvc.Service{DB: db}
		c := cron.New()
		_, err := c.AddFunc("* * * * *", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			n, err := expirer.ExpireListings(ctx, time.Now().UTC())
			if err != nil {
				log.Error().Err(err).Msg("expiry sweep failed")
				return
			}
			if n > 0 {
				log.Info().Int64("expired", n).Msg("expiry sweep")
			}
		})
		if err != nil {
			panic("cron schedule: " + err.Error())
		}
		c.Start()
		defer c.Stop()
	}

	fmt.Printf("Server running at http://localhost:%s\n", cfg.Port)
	fmt.Printf("Health check: http://localhost:%s/health/json\n", cfg.Port)
	fmt.Println("---")

	if err := app.Listen(":" + cfg.Port); err != nil {
		panic(err)
	}
}
