// Command server runs the credential-issuance registries behind one HTTP
// surface. Infrastructure is optional: without Postgres, Redis, or Kafka the
// process falls back to in-memory stores, no cache, and an in-process event
// worker.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"openbadges/internal/badge"
	"openbadges/internal/category"
	"openbadges/internal/company"
	"openbadges/internal/events"
	"openbadges/internal/experience"
	"openbadges/internal/jwttoken"
	"openbadges/internal/platform/config"
	"openbadges/internal/platform/httpserver"
	"openbadges/internal/platform/logger"
	"openbadges/internal/platform/metrics"
	"openbadges/internal/platform/postgres"
	"openbadges/internal/platform/redis"
	"openbadges/internal/profile"
	httptransport "openbadges/internal/transport/http"
)

const balanceCacheTTL = 5 * time.Minute

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.New()

	var (
		profileStore    profile.Store    = profile.NewInMemoryStore()
		companyStore    company.Store    = company.NewInMemoryStore()
		experienceStore experience.Store = experience.NewInMemoryStore()
		badgeStore      badge.Store      = badge.NewInMemoryStore()
	)
	if cfg.PostgresURL != "" {
		db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err)
			os.Exit(1)
		}
		profileStore = profile.NewPostgres(db)
		companyStore = company.NewPostgres(db)
		experienceStore = experience.NewPostgres(db)
		badgeStore = badge.NewPostgres(db)
		log.Info("using postgres stores")
	}

	badgeOpts := []badge.Option{badge.WithLogger(log), badge.WithMetrics(reg)}
	redisClient, err := redis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		badgeOpts = append(badgeOpts,
			badge.WithCache(badge.NewRedisBalanceCache(redisClient.Client, balanceCacheTTL)))
		log.Info("using redis balance cache")
	}

	group, ctx := errgroup.WithContext(ctx)

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafka.Close(flushCtx); err != nil {
				log.Warn("kafka flush failed", "error", err)
			}
		}()
		publisher = kafka
		log.Info("publishing events to kafka", "topic", cfg.KafkaTopic)
	} else {
		channel := events.NewChannelPublisher(256)
		worker := events.NewWorker(events.NewMemorySink(), channel.Inbox())
		group.Go(func() error {
			err := worker.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		publisher = channel
	}

	badgeOpts = append(badgeOpts, badge.WithEvents(publisher))
	badges := badge.NewService(badgeStore, badgeOpts...)
	profiles := profile.NewService(profileStore, cfg.AdminIdentity,
		profile.WithFactory(badges),
		profile.WithLogger(log),
		profile.WithMetrics(reg),
	)
	companies := company.NewService(companyStore, cfg.AdminIdentity,
		company.WithLogger(log),
		company.WithMetrics(reg),
	)
	categories := category.NewRegistry(category.DefaultLabels...)
	experiences := experience.NewService(experienceStore, companies, categories,
		experience.WithProfiles(profiles),
		experience.WithFactory(badges),
		experience.WithEvents(publisher),
		experience.WithLogger(log),
		experience.WithMetrics(reg),
	)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "openbadges")
	router := httptransport.NewRouter(httptransport.Handlers{
		Auth:       httptransport.NewAuthHandler(tokens, log),
		Profile:    httptransport.NewProfileHandler(profiles, log),
		Company:    httptransport.NewCompanyHandler(companies, log),
		Category:   httptransport.NewCategoryHandler(categories),
		Experience: httptransport.NewExperienceHandler(experiences, log),
		Badge:      httptransport.NewBadgeHandler(badges, log),
	}, tokens, log)

	srv := httpserver.New(cfg.Addr, router)
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
