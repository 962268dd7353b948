package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/mams/config"
	"example.com/mams/internal/api"
	"example.com/mams/internal/cache"
	"example.com/mams/internal/database"
	"example.com/mams/internal/metrics"
	"example.com/mams/internal/repositories"
	"example.com/mams/internal/search"
	"example.com/mams/internal/services"
	"example.com/mams/internal/tracing"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for asset movements and the balance dashboard`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, readOnlyDB, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
	}

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without audit search")
	}

	metricsCollector := metrics.NewMetrics()

	userRepo := repositories.NewUserRepository(db, readOnlyDB)
	auditRepo := repositories.NewAuditRepository(db, readOnlyDB)
	eventWriter := repositories.NewEventWriter(db)
	ledgerReader := repositories.NewLedgerReader(db, readOnlyDB)
	movementReader := repositories.NewMovementReader(db, readOnlyDB)

	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	ledgerService := services.NewLedgerService(ledgerReader, redisCache, metricsCollector, tracer, services.LedgerOptions{
		CacheTTL:           cfg.Dashboard.CacheTTL,
		IncludeUnbaselined: cfg.Dashboard.IncludeUnbaselined,
		ReadRetries:        cfg.Dashboard.ReadRetries,
	})
	movementService := services.NewMovementService(eventWriter, movementReader, metricsCollector, tracer)

	var searcher services.AuditSearcher
	if elasticClient != nil {
		searcher = elasticClient
	}
	auditService := services.NewAuditService(auditRepo, nil, nil, searcher, metricsCollector, cfg.Worker.BatchSize)

	server := api.NewServer(cfg, authService, ledgerService, movementService, auditService, metricsCollector, tracer)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
