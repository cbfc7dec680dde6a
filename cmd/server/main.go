/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the employment tax-credit analysis server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create API handler with dependencies (pension client if keyed)
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port         HTTP server port (default: 8080)
  -db           SQLite database path (default: taxcredit.db)
                Use ":memory:" for an in-memory database
  -pension-key  Service key for the national pension registry.
                Empty disables the /api/pension endpoints.
  -range        Analysis year range as first-last (default: 2016-2025)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/taxcredit.db"

  # Run with pension lookups enabled
  ./server -pension-key="$PENSION_API_KEY"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
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

	"github.com/warp/taxcredit-engine/api"
	"github.com/warp/taxcredit-engine/credit"
	"github.com/warp/taxcredit-engine/pension"
	"github.com/warp/taxcredit-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "taxcredit.db", "SQLite database path")
	pensionKey := flag.String("pension-key", os.Getenv("PENSION_API_KEY"), "pension registry service key")
	yearRange := flag.String("range", "", "analysis year range, first-last (default 2016-2025)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)
	if *yearRange != "" {
		var first, last int
		if _, err := fmt.Sscanf(*yearRange, "%d-%d", &first, &last); err != nil || first > last {
			log.Fatalf("Invalid -range %q, want first-last", *yearRange)
		}
		handler.Analyzer.Years = credit.YearRange{First: first, Last: last}
	}
	if *pensionKey != "" {
		handler.Pension = pension.NewClient(*pensionKey)
	} else {
		log.Println("No pension registry key configured; /api/pension disabled")
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
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
