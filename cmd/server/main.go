package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labelcheck/backend/config"
	httpDelivery "github.com/labelcheck/backend/internal/delivery/http"
	"github.com/labelcheck/backend/internal/domain"
	"github.com/labelcheck/backend/internal/infrastructure/cache"
	"github.com/labelcheck/backend/internal/infrastructure/llm"
	"github.com/labelcheck/backend/internal/infrastructure/sqlite"
	"github.com/labelcheck/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

// run wires the service and serves until SIGINT or SIGTERM. Every opened
// resource is closed before it returns, on error paths too.
func run() (err error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Printf("Starting LabelCheck Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []io.Closer
	defer func() {
		if cerr := closeAll(closers...); cerr != nil {
			log.Printf("[Shutdown] %v", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()

	// Initialize infrastructure dependencies
	panelCache, err := newCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	closers = appendCloser(closers, panelCache)

	store, err := sqlite.NewProductStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open product store: %w", err)
	}
	closers = append(closers, store)
	log.Printf("Product store: %s", cfg.Store.Path)

	generator, err := newGenerator(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	closers = appendCloser(closers, generator)
	log.Printf("LLM: %s model=%s (key: %s)", cfg.LLM.Provider, cfg.LLM.Model, maskKey(cfg.LLM.APIKey))

	// Initialize usecase layer
	analysisService := usecase.NewAnalysisService(
		panelCache,
		generator,
		store,
		usecase.AnalysisServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Debug:    cfg.Analysis.Debug,
		},
	)
	productService := usecase.NewProductService(store)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(analysisService, productService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	log.Printf("Server listening on %s (rate limit %d req/min per IP)", srv.Addr, cfg.RateLimit.PerIP)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[Shutdown] Signal received, draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

const shutdownTimeout = 10 * time.Second

// appendCloser adds v to closers when it holds resources
func appendCloser(closers []io.Closer, v interface{}) []io.Closer {
	if c, ok := v.(io.Closer); ok {
		return append(closers, c)
	}
	return closers
}

// closeAll closes in reverse order of opening and joins the errors
func closeAll(closers ...io.Closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, "labelcheck:")
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	}
	return cache.NewMemoryCache(10 * time.Minute), nil
}

func newGenerator(ctx context.Context, cfg *config.Config) (domain.TextGenerator, error) {
	if cfg.LLM.Provider == "gemini" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	}

	client := llm.NewOpenAIClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout, cfg.RateLimit.LLM)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		log.Printf("LLM client debug mode enabled")
	}
	return client, nil
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:8] + "..."
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
