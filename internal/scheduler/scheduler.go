// Package scheduler wires up the cron job that expires stale undoable
// notifications from the feed. The source behavior is no expiry at all;
// the sweep only runs when a TTL is configured.
package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"hireflow/workflow-service/internal/workflow"
)

// Sweeper wraps robfig/cron and manages the notification TTL sweep.
type Sweeper struct {
	cron *cron.Cron
	feed *workflow.Feed
	ttl  time.Duration
}

// New creates a Sweeper that drops notifications older than ttl.
func New(feed *workflow.Feed, ttl time.Duration) *Sweeper {
	return &Sweeper{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		feed: feed,
		ttl:  ttl,
	}
}

// Start registers the sweep and starts the scheduler.
func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", sweepInterval(s.ttl))
	_, err := s.cron.AddFunc(spec, s.sweep)
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	log.Printf("[sweeper] Cron started — spec: %s, ttl: %s", spec, s.ttl)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
	log.Println("[sweeper] Cron stopped")
}

func (s *Sweeper) sweep() {
	if dropped := s.feed.ExpireBefore(time.Now().Add(-s.ttl)); dropped > 0 {
		log.Printf("[sweeper] Expired %d stale notification(s)", dropped)
	}
}

// sweepInterval checks at a fraction of the TTL, at least every 30 seconds.
func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < 30*time.Second {
		interval = 30 * time.Second
	}
	return interval
}
