package testharness

import (
	"context"
	"errors"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/internal/pkg/application/events"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/hubapi"
)

const (
	sweepInterval = 5 * time.Minute

	// maxSweepAttempts failed sweeps for the same id escalate it to an
	// administrator and drop it from the queue.
	maxSweepAttempts = 3
)

// Janitor periodically retries deletions the harness gave up on.
type Janitor struct {
	hub       hubapi.Client
	cleanups  CleanupStore
	messenger messaging.MsgContext
	clk       clock.Clock

	interval time.Duration
	attempts map[string]int
}

func NewJanitor(hub hubapi.Client, cleanups CleanupStore, messenger messaging.MsgContext, clk clock.Clock) *Janitor {
	return &Janitor{
		hub:       hub,
		cleanups:  cleanups,
		messenger: messenger,
		clk:       clk,
		interval:  sweepInterval,
		attempts:  map[string]int{},
	}
}

// Start runs sweeps until the context is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				err := j.Sweep(ctx)
				if err != nil {
					logging.GetFromContext(ctx).Error("cleanup sweep failed", "err", err.Error())
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Sweep tries to delete every queued automation. An id that keeps failing
// is escalated once and removed from the queue, the hub needs a human at
// that point.
func (j *Janitor) Sweep(ctx context.Context) error {
	log := logging.GetFromContext(ctx)

	ids, err := j.cleanups.ListCleanups(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		err := j.hub.DeleteAutomation(ctx, id)
		if err == nil || errors.Is(err, hubapi.ErrNotFound) {
			log.Info("cleaned up test automation", "automation_id", id)

			j.remove(ctx, id)
			continue
		}

		j.attempts[id]++
		log.Warn("cleanup attempt failed", "automation_id", id, "attempts", j.attempts[id], "err", err.Error())

		if j.attempts[id] < maxSweepAttempts {
			continue
		}

		if j.messenger != nil {
			pubErr := j.messenger.PublishOnTopic(ctx, &events.CleanupEscalated{
				AutomationID: id,
				Reason:       err.Error(),
				Timestamp:    j.clk.Now(),
			})
			if pubErr != nil {
				log.Error("could not publish cleanup escalation", "automation_id", id, "err", pubErr.Error())
			}
		}

		j.remove(ctx, id)
	}

	return nil
}

func (j *Janitor) remove(ctx context.Context, id string) {
	err := j.cleanups.RemoveCleanup(ctx, id)
	if err != nil {
		logging.GetFromContext(ctx).Error("could not remove cleanup entry", "automation_id", id, "err", err.Error())
		return
	}
	delete(j.attempts, id)
}
