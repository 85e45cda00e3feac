// jobmate-match-service
//
// Bidirectional recommendation engine for the recruiting marketplace.
// Exposes a REST API used by the Gateway to implement:
//   - recommendations query        — ranked jobs for a candidate
//   - jobRecommendations query     — ranked candidates for a job (recruiter)
//   - dismissRecommendation        — hide a recommendation (owner only)
//   - savedSearches CRUD + run     — recruiter candidate alerts
//
// Consumes EVENT_PROFILE_SAVED / EVENT_JOB_SAVED / EVENT_APPLICATION_CREATED
// from Redis to keep recommendations and saved-search matches current, and
// runs a periodic cron sweep over all active saved searches.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobmate/match-service/internal/config"
	"jobmate/match-service/internal/db"
	"jobmate/match-service/internal/events"
	"jobmate/match-service/internal/recs"
	"jobmate/match-service/internal/savedsearch"
	"jobmate/match-service/internal/scheduler"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[match-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[match-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[match-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[match-service] PostgreSQL connected ✓")

	if err := db.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("[match-service] Schema: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[match-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[match-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[match-service] Redis connected ✓")

	// ── Services ─────────────────────────────────────────────────────────────
	recSvc := recs.NewService(pool)
	searchSvc := savedsearch.NewService(pool, rdb)

	// ── Event subscriber ─────────────────────────────────────────────────────
	sub := events.NewSubscriber(rdb, recSvc, searchSvc)
	go sub.Run(ctx)

	// ── Saved-search sweep cron ──────────────────────────────────────────────
	sched := scheduler.New(searchSvc, cfg.SweepIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[match-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	recs.NewHandler(recSvc).RegisterRoutes(mux)
	savedsearch.NewHandler(searchSvc).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[match-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[match-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[match-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[match-service] Shutdown error: %v", err)
	}
	log.Println("[match-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "match-service",
		"version": version,
	})
}
