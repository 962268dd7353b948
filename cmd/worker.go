package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"example.com/mams/config"
	"example.com/mams/internal/database"
	"example.com/mams/internal/messaging"
	"example.com/mams/internal/metrics"
	"example.com/mams/internal/repositories"
	"example.com/mams/internal/search"
	"example.com/mams/internal/services"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that drains the audit outbox, publishing records to Azure Service Bus and indexing them into Elasticsearch`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
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

	g, ctx := errgroup.WithContext(ctx)

	db, readOnlyDB, err := database.Connect(cfg.DB)
	if err != nil {
		return err
	}

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without audit indexing")
	}

	busClient, err := messaging.NewServiceBusClient(cfg.Azure)
	if err != nil {
		return err
	}
	defer busClient.Close()

	metricsCollector := metrics.NewMetrics()
	auditRepo := repositories.NewAuditRepository(db, readOnlyDB)

	var indexer services.AuditIndexer
	var searcher services.AuditSearcher
	if elasticClient != nil {
		indexer = elasticClient
		searcher = elasticClient
	}
	auditService := services.NewAuditService(auditRepo, busClient, indexer, searcher, metricsCollector, cfg.Worker.BatchSize)

	// Drain the outbox on a fixed interval. Records written in the same
	// transaction as their source event are picked up here and marked
	// published once the bus and the index have both seen them.
	g.Go(func() error {
		log.Info().Dur("interval", cfg.Worker.DrainInterval).Msg("Starting audit outbox drain job")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.DrainInterval),
			gocron.NewTask(func() {
				if err := auditService.DrainOutbox(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to drain audit outbox")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
