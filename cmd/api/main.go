package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accountsapp "github.com/bryanwahyu/healthcare-collab/internal/application/accounts"
	aiapp "github.com/bryanwahyu/healthcare-collab/internal/application/ai"
	analysesapp "github.com/bryanwahyu/healthcare-collab/internal/application/analyses"
	decisionsapp "github.com/bryanwahyu/healthcare-collab/internal/application/decisions"
	"github.com/bryanwahyu/healthcare-collab/internal/config"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/aifailures"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/analysis"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/archive"
	"github.com/bryanwahyu/healthcare-collab/internal/domain/decisions"
	openaiclient "github.com/bryanwahyu/healthcare-collab/internal/infra/ai/openai"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/auth"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/db/migrations"
	mysqlp "github.com/bryanwahyu/healthcare-collab/internal/infra/db/mysql"
	pg "github.com/bryanwahyu/healthcare-collab/internal/infra/db/postgres"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/httpserver"
	"github.com/bryanwahyu/healthcare-collab/internal/infra/logger"
	minioStore "github.com/bryanwahyu/healthcare-collab/internal/infra/storage"
	"github.com/bryanwahyu/healthcare-collab/internal/middleware"
)

// repositories for the configured driver
type repos struct {
	accounts  accounts.Repository
	analyses  analysis.Repository
	decisions decisions.Repository
	failures  aifailures.Repository
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	db, r, err := connect(ctx, cfg)
	if err != nil {
		log.Fatal("database connect error", "driver", cfg.Database.Driver, "error", err)
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := migrations.Up(db, cfg.Database.Driver); err != nil {
			log.Fatal("migration error", "error", err)
		}
		log.Info("migrations applied", "driver", cfg.Database.Driver)
	}

	// init minio, optional
	var store archive.Store = minioStore.NopStore{}
	if cfg.Minio.Enabled {
		s, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatal("minio init error", "error", err)
		}
		store = s
	}

	client := openaiclient.NewClient(openaiclient.Options{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	})
	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY is empty, every AI call will return its fallback")
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	counters := middleware.Counters{}

	// init services
	aiSvc := aiapp.NewService(client, r.failures, counters, log)
	accountsSvc := accountsapp.NewService(r.accounts, tokens, log)
	analysesSvc := analysesapp.NewService(r.analyses, r.accounts, aiSvc, store, log)
	decisionsSvc := decisionsapp.NewService(r.decisions, r.accounts, store, counters, log)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	defer limiter.Close()

	// init router
	handler := httpserver.NewRouter(httpserver.Deps{
		Accounts:       accountsSvc,
		Analyses:       analysesSvc,
		AI:             aiSvc,
		Decisions:      decisionsSvc,
		Tokens:         tokens,
		Limiter:        limiter,
		Checkers:       map[string]middleware.HealthChecker{"database": &middleware.DatabaseHealthChecker{DB: db}},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Info("server listening", "addr", addr, "driver", cfg.Database.Driver, "model", client.Model())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", "error", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

// connect opens the configured database and builds its repositories.
func connect(ctx context.Context, cfg *config.Config) (*sql.DB, repos, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, repos{}, err
		}
		return db, repos{
			accounts:  mysqlp.NewAccountRepository(db),
			analyses:  mysqlp.NewAnalysisRepository(db),
			decisions: mysqlp.NewDecisionRepository(db),
			failures:  mysqlp.NewAIFailureRepository(db),
		}, nil
	case "postgres":
		db, err := pg.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, repos{}, err
		}
		return db, repos{
			accounts:  pg.NewAccountRepository(db),
			analyses:  pg.NewAnalysisRepository(db),
			decisions: pg.NewDecisionRepository(db),
			failures:  pg.NewAIFailureRepository(db),
		}, nil
	default:
		return nil, repos{}, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
