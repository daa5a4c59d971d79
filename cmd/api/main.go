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

	"tienda-backend/config"
	"tienda-backend/internal/delivery/http/middleware"
	v1 "tienda-backend/internal/delivery/http/v1"
	"tienda-backend/internal/domain"
	"tienda-backend/internal/infrastructure/cache"
	"tienda-backend/internal/infrastructure/strapi"
	"tienda-backend/internal/infrastructure/woocommerce"
	"tienda-backend/internal/reconcile"
	"tienda-backend/internal/repository/postgres"
	"tienda-backend/internal/usecase"
	"tienda-backend/pkg/logger"
	"tienda-backend/pkg/storage"
	"tienda-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

const serviceName = "tienda-backend"

var version = "dev"

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	content := strapi.NewClient(cfg.StrapiURL, cfg.StrapiAPIToken, cfg.StrapiTimeout)

	var commerce domain.CommerceStore
	if cfg.CommerceEnabled() {
		commerce = woocommerce.NewClient(cfg.WooURL, cfg.WooConsumerKey, cfg.WooConsumerSecret, cfg.WooTimeout)
	} else {
		log.Warn().Msg("WooCommerce not configured, reconciliation runs local-only")
	}

	// --- Optional persistence (links + sync ledger) ---
	var backingLinks domain.LinkStore
	ledger := postgres.NewNoopLedger()
	if cfg.DBUrl != "" {
		pgxPool, err := postgres.NewPgxPool(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pgxPool.Close()
		if err := postgres.EnsureSchema(ctx, pgxPool); err != nil {
			log.Fatal().Err(err).Msg("Failed to prepare database schema")
		}
		backingLinks = postgres.NewLinkRepository(pgxPool)
		ledger = postgres.NewSyncEventRepository(pgxPool)
		log.Info().Msg("Connected to PostgreSQL, persistent links and sync ledger enabled")
	}

	memCache := cache.NewMemoryCache(cfg.LinkCacheTTL, 2*cfg.LinkCacheTTL)
	links := cache.NewLinkCache(memCache, cfg.LinkCacheTTL, backingLinks)

	// --- Reconciliation ---
	catalog := usecase.NewEntityCatalog(usecase.CommerceResources{
		Brands:     woocommerce.AttributeTerms(cfg.WooBrandAttributeID),
		Imprints:   woocommerce.AttributeTerms(cfg.WooImprintAttributeID),
		Tags:       woocommerce.ProductTags,
		Categories: woocommerce.ProductCategories,
		Coupons:    woocommerce.Coupons,
		Orders:     woocommerce.Orders,
		Location:   cfg.StoreLocation,
	})
	reconciler := reconcile.NewReconciler(content, commerce, links, ledger, reconcile.DefaultLookupChain(cfg.LookupPageSize))
	tiendaUC := usecase.NewTiendaUsecase(reconciler, catalog, ledger)

	// --- Storage Module (R2) ---
	var media v1.MediaStore
	if cfg.StorageEnabled() {
		r2Storage, err := storage.NewR2Storage(ctx,
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
		media = r2Storage
	}

	// --- Routes ---
	mux := http.NewServeMux()
	v1.RegisterTiendaRoutes(mux,
		v1.NewTiendaHandler(tiendaUC),
		v1.NewMediaHandler(media, cfg.MaxUploadSizeMB),
		v1.NewConfigHandler(memCache, tiendaUC.Entities),
		middleware.AdminOnly,
	)

	v1.RegisterHealthRoutes(mux, map[string]bool{
		"commerce": commerce != nil,
		"database": cfg.DBUrl != "",
		"storage":  media != nil,
	})

	rateLimiter := middleware.NewRateLimiter(ctx,
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
		v1.HealthPaths...,
	)

	// CORS -> request logger -> rate limit -> gzip, innermost first
	handler := middleware.NewCORSMiddleware(cfg.AllowedOrigin)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()
	logger.ServiceStart(serviceName, version, cfg.Port)

	<-ctx.Done()
	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop(serviceName)
}
