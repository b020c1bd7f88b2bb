package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"amenity_engine/internal/adapters/configapi"
	"amenity_engine/internal/adapters/observability"
	redisad "amenity_engine/internal/adapters/redis"
	"amenity_engine/internal/app"
	"amenity_engine/internal/shared"
	mysqlrepo "amenity_engine/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	hotelIDs := shared.SyncHotelIDs()
	log.Info().
		Str("base", cfg.ConfigBase).
		Int("workers", cfg.Workers).
		Int("hotels", len(hotelIDs)).
		Msg("syncer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := configapi.New(cfg.ConfigBase, cfg.ConfigKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize config client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	syncer := app.NewSyncService(client, repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range hotelIDs {
		id := id

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(hotelID int64) {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := syncer.SyncHotel(ctx, hotelID); err != nil {
				log.Warn().Int64("hotel_id", hotelID).Err(err).Msg("sync failed")
				return
			}
			log.Info().Int64("hotel_id", hotelID).Msg("sync ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("sync completed")
}
