package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"core/internal/config"
	"core/internal/dataset"
	"core/internal/handler"
	"core/internal/repository"
	"core/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("property advisor starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	// The repository is only needed when the dataset comes from Postgres
	// or the hybrid retriever is enabled.
	var repo *repository.PostgresRepository
	if cfg.Dataset.Source == "postgres" || cfg.Retriever.Enabled {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
			logger,
		)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer repo.Close()
		logger.Info("connected to PostgreSQL")
	}

	// Load the read-only property table once, before serving.
	var table *dataset.Table
	switch cfg.Dataset.Source {
	case "postgres":
		table, err = repo.LoadTable(ctx)
	default:
		table, err = dataset.Load(cfg.Dataset.CSVPath)
	}
	if err != nil {
		logger.Fatal("failed to load property dataset", zap.Error(err))
	}
	logger.Info("dataset ready", zap.Int("rows", table.Len()))

	if !cfg.OpenAI.Enabled {
		logger.Fatal("OPENAI_API_KEY is required: every query needs the extraction model")
	}
	extractor := service.NewOpenAIExtractor(&cfg.OpenAI, logger.Named("extractor"))

	// A nil retriever means "semantic search disabled": property queries
	// still work through the deterministic filter alone.
	var retriever service.Retriever
	var indexHandler *handler.IndexHandler
	if cfg.Retriever.Enabled {
		retriever = repository.NewHybridRetriever(repo, extractor, cfg.Retriever.TopK, logger.Named("retriever"))
		indexHandler = handler.NewIndexHandler(repo, extractor, logger.Named("index"))
		logger.Info("hybrid retriever enabled", zap.Int("top_k", cfg.Retriever.TopK))
	} else {
		logger.Info("hybrid retriever disabled, filter-only property search")
	}

	workflow := service.NewWorkflow(
		extractor,
		retriever,
		service.NewFilterEngine(logger.Named("filter")),
		logger.Named("workflow"),
	)
	queryHandler := handler.NewQueryHandler(workflow, table, logger.Named("query"))

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "property-advisor",
			"version": Version,
		})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/query", queryHandler.Query)
		if indexHandler != nil {
			apiV1.POST("/index/rebuild", indexHandler.Rebuild)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", zap.String("addr", addr))

	go func() {
		if err := router.Run(addr); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}
