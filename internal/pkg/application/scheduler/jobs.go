package scheduler

import (
	"context"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/internal/pkg/application/events"
	"github.com/homelab-tools/home-intel/internal/pkg/application/hub"
	"github.com/homelab-tools/home-intel/internal/pkg/application/patterns"
	"github.com/homelab-tools/home-intel/internal/pkg/application/suggestions"
	"github.com/homelab-tools/home-intel/internal/pkg/application/weather"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/storage"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/timeseries"
	"github.com/homelab-tools/home-intel/pkg/types"
)

// weatherScanConfidence is the minimum contextual pattern confidence worth
// announcing as an opportunity.
const weatherScanConfidence = 0.7

type PatternQuerier interface {
	QueryPatterns(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Pattern], error)
}

// DetectionJob sweeps the look-back window with every detector and drafts
// suggestions for whatever they found.
func DetectionJob(runner *patterns.Runner, suggester *suggestions.Service, clk clock.Clock, lookBack time.Duration) JobFunc {
	return func(ctx context.Context) error {
		stop := clk.Now()

		_, err := runner.Run(ctx, stop.Add(-lookBack), stop)
		if err != nil {
			return err
		}

		_, err = suggester.GenerateAll(ctx)
		return err
	}
}

var rollupSpans = []struct {
	period string
	span   time.Duration
}{
	{"daily", 24 * time.Hour},
	{"weekly", 7 * 24 * time.Hour},
	{"monthly", 30 * 24 * time.Hour},
}

// RollupJob compresses the event stream into per-entity aggregate points,
// one per rollup period.
func RollupJob(reader timeseries.EventReader, writer timeseries.EventWriter, clk clock.Clock) JobFunc {
	return func(ctx context.Context) error {
		log := logging.GetFromContext(ctx)
		now := clk.Now().UTC().Truncate(time.Hour)

		for _, rollup := range rollupSpans {
			evts, err := reader.QueryEvents(ctx, now.Add(-rollup.span), now)
			if err != nil {
				return err
			}

			counts := map[string]int{}
			for _, e := range evts {
				counts[e.EntityID]++
			}

			for entityID, count := range counts {
				point, err := timeseries.NewAggregatePoint(types.Aggregate{
					Date:        now,
					Period:      rollup.period,
					Measurement: timeseries.MeasurementEvents,
					EntityID:    entityID,
					Fields:      map[string]any{"event_count": count},
				})
				if err != nil {
					return err
				}

				err = writer.Write(ctx, point)
				if err != nil {
					return err
				}
			}

			log.Debug("rollup written", "period", rollup.period, "entities", len(counts), "events", len(evts))
		}

		return nil
	}
}

// CapabilityRefreshJob re-requests the hub registries so new or renamed
// devices show up without a reconnect.
func CapabilityRefreshJob(session hub.SessionManager) JobFunc {
	return func(ctx context.Context) error {
		err := session.RefreshDiscovery(ctx)
		if err != nil {
			// an inactive session refreshes on its next connect anyway
			logging.GetFromContext(ctx).Warn("capability refresh skipped", "err", err.Error())
		}
		return nil
	}
}

// WeatherScanJob publishes an opportunity event for every high-confidence
// contextual pattern whose weather bin matches the current conditions.
func WeatherScanJob(weatherSvc weather.WeatherService, store PatternQuerier, messenger messaging.MsgContext, clk clock.Clock) JobFunc {
	return func(ctx context.Context) error {
		log := logging.GetFromContext(ctx)

		current := weatherSvc.Current(ctx)
		if current == nil || current.Condition == "" {
			return nil
		}

		found, err := store.QueryPatterns(ctx,
			storage.WithPatternType(types.PatternTypeContextual),
			storage.WithMinConfidence(weatherScanConfidence),
		)
		if err != nil {
			return err
		}

		for _, p := range found.Data {
			bin, ok := p.Metadata["weather"].(string)
			if !ok || bin != current.Condition {
				continue
			}

			if messenger == nil {
				continue
			}

			err = messenger.PublishOnTopic(ctx, &events.WeatherOpportunity{
				EntityID:  p.DeviceID,
				PatternID: p.PatternID,
				Condition: bin,
				Timestamp: clk.Now(),
			})
			if err != nil {
				log.Warn("could not publish weather opportunity", "pattern_id", p.PatternID, "err", err.Error())
			}
		}

		return nil
	}
}
