package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"olympiad-service/internal/app"
	"olympiad-service/internal/config"
	"olympiad-service/internal/infra/memory"
	pgloader "olympiad-service/internal/infra/postgres"
	redisinfra "olympiad-service/internal/infra/redis"
	"olympiad-service/internal/infra/yamlbank"
	transport "olympiad-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const (
	defaultPort     = "8080"
	defaultDuration = 30 * time.Minute
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the olympiad server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = defaultPort
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	service := buildService(cfg, redisClient, pool)
	router := transport.NewRouter(service, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: websocket attempts stay open for the whole olympiad
	}

	go func() {
		log.Printf("starting olympiad service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildService picks the bank source, caches and result sink from config:
// Postgres over YAML files over the embedded samples; Redis over memory.
func buildService(cfg config.Config, redisClient *redis.Client, pool *pgxpool.Pool) *app.OlympiadService {
	var loader memory.BankLoader = yamlbank.NewSampleLoader()
	switch {
	case pool != nil:
		loader = pgloader.NewBankLoader(pool)
	case cfg.Banks.Dir != "":
		loader = yamlbank.NewDirLoader(cfg.Banks.Dir)
	}

	bankTTL := config.ParseDuration(cfg.Banks.TTL, 10*time.Minute)
	var banks app.BankRepository
	var store app.SessionRepository
	var results app.ResultPublisher
	if redisClient != nil {
		grace := config.ParseDuration(cfg.Redis.TTL, 5*time.Minute)
		banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
		store = redisinfra.NewSessionStore(redisClient, grace)
		results = redisinfra.NewResultPublisher(redisClient, cfg.Redis.ResultsChannel)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
		store = memory.NewSessionStore()
		results = memory.NewResultRecorder()
	}

	duration := config.ParseDuration(cfg.Olympiad.Duration, defaultDuration)
	return app.NewOlympiadService(store, banks, results, duration)
}
