// main is the entry point of the student-records service.
//
// Startup sequence:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the storage backend (JSON files or SQLite, per config)
//  4. Register all HTTP routes and middleware
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal arrives, then shut down gracefully
//
// Running the server:
//
//	go run ./cmd/student-records --config=config/local.yaml
//
// or with the environment variable:
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-records
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student-records/internal/config"
	"student-records/internal/http/handlers/auth"
	"student-records/internal/http/handlers/student"
	"student-records/internal/http/middleware"
	"student-records/internal/storage"
	"student-records/internal/storage/jsonfile"
	"student-records/internal/storage/sqlite"
	"student-records/internal/validation"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting student-records",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Type),
	)

	// ── 3. Open Storage ───────────────────────────────────────────────────
	// Both stores come back as interfaces; the handlers never learn which
	// backend is underneath.
	students, credentials, err := openStorage(cfg.Storage)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// ── 4. Register Routes ────────────────────────────────────────────────
	rules := validation.New()

	// gate wraps the student routes with the presence-only cookie check
	// when the config enables it; the auth endpoints are never gated.
	gate := func(h http.Handler) http.Handler {
		if cfg.AuthGate {
			return middleware.AuthGate(cfg.TokenCookie, h)
		}
		return h
	}

	router := http.NewServeMux()
	router.HandleFunc("POST /api/login", auth.Login(credentials, rules))
	router.HandleFunc("POST /api/register", auth.Register(credentials, rules))

	router.Handle("POST /api/students", gate(student.New(students, rules)))
	router.Handle("GET /api/students", gate(student.GetList(students)))
	router.Handle("GET /api/students/{id}", gate(student.GetByID(students)))
	router.Handle("PUT /api/students/{id}", gate(student.Update(students)))
	router.Handle("DELETE /api/students/{id}", gate(student.Delete(students)))

	handler := middleware.Logging(log, router)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: handler,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage builds both stores from the configured backend. The sqlite
// backend satisfies both contracts with one value; the jsonfile backend
// opens one store per file.
func openStorage(cfg config.Storage) (storage.StudentStore, storage.CredentialStore, error) {
	switch cfg.Type {
	case "sqlite":
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default: // "jsonfile"
		students, err := jsonfile.OpenStudents(cfg.StudentsPath)
		if err != nil {
			return nil, nil, err
		}
		credentials, err := jsonfile.OpenCredentials(cfg.UsersPath)
		if err != nil {
			return nil, nil, err
		}
		return students, credentials, nil
	}
}

// setupLogger returns a *slog.Logger configured for the given environment:
// human-readable text at debug level for dev, JSON for staging and prod.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
