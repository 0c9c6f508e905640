package testharness

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/homelab-tools/home-intel/internal/pkg/application/events"
	"github.com/homelab-tools/home-intel/pkg/types"
)

type SuggestionGetter interface {
	GetSuggestion(ctx context.Context, suggestionID string) (types.Suggestion, error)
}

// NewTestRequestHandler runs a round-trip test for a suggestion and reports
// the outcome on the bus.
func NewTestRequestHandler(h *Harness, store SuggestionGetter, messenger messaging.MsgContext) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "test-request")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		cmd := struct {
			SuggestionID string `json:"suggestionID"`
		}{}
		err = json.Unmarshal(itm.Body(), &cmd)
		if err != nil {
			log.Error("failed to unmarshal test command", "err", err.Error())
			return
		}

		sg, err := store.GetSuggestion(ctx, cmd.SuggestionID)
		if err != nil {
			log.Error("could not load suggestion", "suggestion_id", cmd.SuggestionID, "err", err.Error())
			return
		}

		report, runErr := h.Run(ctx, sg)

		outcome := &events.TestCompleted{
			SuggestionID: cmd.SuggestionID,
			AutomationID: report.AutomationID,
			Passed:       runErr == nil && report.Triggered,
			Triggered:    report.Triggered,
			Deleted:      report.Deleted,
			Timestamp:    h.clk.Now(),
		}
		if runErr != nil {
			outcome.Error = runErr.Error()
			log.Error("test run failed", "suggestion_id", cmd.SuggestionID, "err", runErr.Error())
		}

		err = messenger.PublishOnTopic(ctx, outcome)
		if err != nil {
			log.Error("could not publish test outcome", "suggestion_id", cmd.SuggestionID, "err", err.Error())
		}
	}
}
