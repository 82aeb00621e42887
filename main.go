package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/paksmart/storefront/internal/api"
	"github.com/paksmart/storefront/internal/cart"
	"github.com/paksmart/storefront/internal/db"
	"github.com/paksmart/storefront/internal/logging"
	"github.com/paksmart/storefront/internal/metrics"
	"github.com/paksmart/storefront/internal/notify"
	"github.com/paksmart/storefront/internal/services"
	"github.com/paksmart/storefront/internal/session"
	"github.com/paksmart/storefront/internal/storage"
	"github.com/paksmart/storefront/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.LoadConfig()
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize OpenTelemetry metrics
	ctx := context.Background()
	appMetrics, meterProvider, err := metrics.InitMetrics(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down meter provider")
		}
	}()

	// Initialize database
	database, err := db.NewDB(cfg.GetDSN(), appMetrics, cfg.OTELServiceName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.InitSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("could not initialize schema, assuming it already exists")
	}

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
	}
	cancelPing()

	// Notifications go to the shop inbox, or to the log without SMTP
	var notifier services.Notifier = notify.LogNotifier{}
	if cfg.MailEnabled() {
		notifier = notify.NewMailer(notify.SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			ShopEmail: cfg.ShopEmail,
		})
	}

	var images services.ImageStore
	if cfg.ImagesEnabled() {
		store, err := storage.NewImageStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize image storage")
		}
		images = store
	}

	// Initialize services
	carts := cart.NewRedisStore(rdb, cfg.CartTTL)
	productStore := db.NewProductStore(database)
	productCache := services.NewProductCache()
	productService := services.NewProductService(productStore, images, productCache, appMetrics)
	cartService := services.NewCartService(carts, productStore, appMetrics)
	orderService := services.NewOrderService(db.NewOrderStore(database), carts, productCache, notifier, appMetrics)
	userService := services.NewUserService(
		db.NewUserStore(database),
		session.NewRedisRevocationList(rdb),
		cfg.JWTSecret,
		cfg.JWTTTL,
		cfg.AdminEmails,
		appMetrics,
	)
	contactService := services.NewContactService(notifier, cfg.WhatsAppLink())

	themes := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	themes.Options.HttpOnly = true
	themes.Options.SameSite = http.SameSiteLaxMode

	app := api.NewApp(appMetrics, productService, cartService, orderService, userService, contactService, themes)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.GetAppPortInt()),
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.AppPort).
			Str("otlp_endpoint", cfg.OTELExporterOTLPEndpoint).
			Bool("mail", cfg.MailEnabled()).
			Bool("images", cfg.ImagesEnabled()).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}
