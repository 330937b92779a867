package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/docsage/backend/internal/config"
	"github.com/docsage/backend/internal/extract"
	"github.com/docsage/backend/internal/handler"
	citationHandler "github.com/docsage/backend/internal/handler/citation"
	conversationHandler "github.com/docsage/backend/internal/handler/conversation"
	"github.com/docsage/backend/internal/service/ai"
	"github.com/docsage/backend/internal/service/citation"
	"github.com/docsage/backend/internal/service/conversation"
	"github.com/docsage/backend/internal/service/search"
	"github.com/docsage/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded, using system environment", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// The summary endpoint is the product; without completion credentials
	// there is nothing to serve.
	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		logger.Fatal("failed to initialize completion service", zap.Error(err))
	}

	aiSvc := ai.NewService(chatModel, logger)
	store := session.NewStore()
	convSvc := conversation.NewService(aiSvc, store, logger)

	// The citation endpoint degrades to an error response when the search
	// credential is absent; upload and follow-up keep working.
	var pipeline *citation.Pipeline
	if cfg.Search.Enabled() {
		searchSvc, err := search.NewService(cfg.Search.APIKey, cfg.Search.Language, cfg.Search.Country, logger)
		if err != nil {
			logger.Fatal("failed to initialize search service", zap.Error(err))
		}
		pipeline = citation.NewPipeline(store, aiSvc, searchSvc, logger)
		logger.Info("citation pipeline enabled")
	} else {
		logger.Warn("SERPAPI_KEY not set, citation generation disabled")
	}

	convHandler := conversationHandler.New(convSvc, extract.PDF{}, cfg.Upload.MaxDocumentChars, logger)
	citHandler := citationHandler.New(pipeline, logger)
	router := handler.NewRouter(convHandler, citHandler, logger)

	startServer(ctx, cfg.Server, router, logger)
}

func newLogger() *zap.Logger {
	if os.Getenv("APP_ENV") == "production" {
		return zap.Must(zap.NewProduction())
	}
	return zap.Must(zap.NewDevelopment())
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("docsage backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
