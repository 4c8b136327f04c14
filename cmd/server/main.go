/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load config (defaults, optional config.yaml, CASHIER_* env vars)
  2. Apply command-line flag overrides
  3. Open the SQLite store
  4. Wire the engine and router
  5. Serve with graceful shutdown on SIGINT/SIGTERM

FLAGS (override config):
  -port    HTTP server port
  -db      SQLite database path; ":memory:" for ephemeral runs
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fourpoints/cashier-engine/api"
	"github.com/fourpoints/cashier-engine/cashier"
	"github.com/fourpoints/cashier-engine/config"
	"github.com/fourpoints/cashier-engine/store/sqlite"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	engine := cashier.NewEngine(store)
	handler := api.NewHandler(engine)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Cashier engine listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
