package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/staplero/staplero/internal/course"
	"github.com/staplero/staplero/internal/httpapi"
	"github.com/staplero/staplero/internal/platform/cache"
	"github.com/staplero/staplero/internal/platform/config"
	"github.com/staplero/staplero/internal/platform/database"
	"github.com/staplero/staplero/internal/progress"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var (
		courseStore   course.Store
		progressStore progress.Store
		events        progress.EventLogger = progress.NopEventLogger{}
	)

	if cfg.Database.URL != "" {
		db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		courseStore, err = course.NewPostgresStore(db.Pool)
		if err != nil {
			slog.Error("failed to create course store", "error", err)
			os.Exit(1)
		}
		progressStore, err = progress.NewPostgresStore(db.Pool)
		if err != nil {
			slog.Error("failed to create progress store", "error", err)
			os.Exit(1)
		}
		events = progress.NewPostgresEventLogger(db.Pool)
	} else {
		slog.Warn("no database configured, using in-memory stores")
		courseStore = course.NewMemoryStore()
		progressStore = progress.NewMemoryStore()
	}

	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Error("failed to connect to cache", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		courseStore = course.NewCachedStore(courseStore, c.Client)
	}

	if cfg.CoursePath != "" {
		if _, err := course.LoadDir(cfg.CoursePath, courseStore); err != nil {
			slog.Error("failed to load courses", "error", err)
			os.Exit(1)
		}
	}

	api := httpapi.NewServer(httpapi.ServerConfig{
		Courses:        courseStore,
		Progress:       progressStore,
		Events:         events,
		AdminTokenHash: []byte(cfg.Auth.AdminTokenHash),
	})

	mux := newMux()
	api.Routes(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newMux creates the HTTP router with health check endpoints.
func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", handleReadyz)
	return mux
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
