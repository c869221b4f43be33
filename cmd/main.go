// hireflow-workflow-service
//
// Applicant status workflow engine. Exposes a REST API used by the Gateway
// to implement:
//   - validate(progressId, newStatus)  — skip detection + required prompts
//   - updateStatus(progressId, …)      — commit a transition (audit logged)
//   - statusHistory(progressId)        — audit trail with reconstructed skips
//   - undo(notificationId)             — compensating transition
//
// Publishes EVENT_STATUS_CHANGED / EVENT_STATUS_REVERTED to Redis for
// Gateway SSE forward.
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

	"github.com/joho/godotenv"

	"hireflow/workflow-service/internal/atsclient"
	"hireflow/workflow-service/internal/catalog"
	"hireflow/workflow-service/internal/config"
	"hireflow/workflow-service/internal/db"
	"hireflow/workflow-service/internal/httpserver"
	"hireflow/workflow-service/internal/scheduler"
	"hireflow/workflow-service/internal/store"
	"hireflow/workflow-service/internal/workflow"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[workflow-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Stage catalog ────────────────────────────────────────────────────────
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.Load(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("[workflow-service] Catalog: %v", err)
		}
	}
	log.Printf("[workflow-service] Stage catalog loaded — %d statuses", cat.Len())

	// ── Status store ─────────────────────────────────────────────────────────
	var statusStore workflow.StatusStore
	if cfg.ATSAPIURL != "" {
		log.Printf("[workflow-service] Using remote ATS status API at %s", cfg.ATSAPIURL)
		statusStore = atsclient.New(cfg.ATSAPIURL)
	} else {
		log.Println("[workflow-service] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[workflow-service] PostgreSQL: %v", err)
		}
		defer pool.Close()
		log.Println("[workflow-service] PostgreSQL connected ✓")
		statusStore = store.NewPostgres(pool)
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[workflow-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[workflow-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[workflow-service] Redis connected ✓")

	// ── Workflow engine ──────────────────────────────────────────────────────
	feed := workflow.NewFeed(cfg.FeedCap)
	svc := workflow.NewService(statusStore, cat, feed, rdb)

	if cfg.NotificationTTLMinutes > 0 {
		sweeper := scheduler.New(feed, time.Duration(cfg.NotificationTTLMinutes)*time.Minute)
		if err := sweeper.Start(); err != nil {
			log.Fatalf("[workflow-service] Sweeper: %v", err)
		}
		defer sweeper.Stop()
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := httpserver.NewHandler(svc)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[workflow-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[workflow-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[workflow-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[workflow-service] Shutdown error: %v", err)
	}
	log.Println("[workflow-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "workflow-service",
		"version": version,
	})
}
