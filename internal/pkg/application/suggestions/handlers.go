package suggestions

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

// RegisterTopicMessageHandlers subscribes the suggestion lifecycle commands.
// The message bus is the only inbound surface, there is no HTTP API.
func (s *Service) RegisterTopicMessageHandlers(ctx context.Context) error {
	handlers := map[string]messaging.TopicMessageHandler{
		"suggestions.cmd.refine":  NewRefineRequestHandler(s),
		"suggestions.cmd.approve": NewApproveRequestHandler(s),
		"suggestions.cmd.deploy":  NewDeployRequestHandler(s),
		"suggestions.cmd.reject":  NewRejectRequestHandler(s),
	}

	for key, h := range handlers {
		err := s.messenger.RegisterTopicMessageHandler(key, h)
		if err != nil {
			return err
		}
	}

	return nil
}

type lifecycleCommand struct {
	SuggestionID string `json:"suggestionID"`
	Feedback     string `json:"feedback,omitempty"`
}

func NewRefineRequestHandler(svc *Service) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "refine-suggestion")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		cmd := lifecycleCommand{}
		err = json.Unmarshal(itm.Body(), &cmd)
		if err != nil {
			log.Error("failed to unmarshal refine command", "err", err.Error())
			return
		}

		err = svc.Refine(ctx, cmd.SuggestionID, cmd.Feedback)
		if err != nil {
			log.Error("could not refine suggestion", "suggestion_id", cmd.SuggestionID, "err", err.Error())
			return
		}
	}
}

func NewApproveRequestHandler(svc *Service) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "approve-suggestion")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		cmd := lifecycleCommand{}
		err = json.Unmarshal(itm.Body(), &cmd)
		if err != nil {
			log.Error("failed to unmarshal approve command", "err", err.Error())
			return
		}

		result, err := svc.Approve(ctx, cmd.SuggestionID)
		if err != nil {
			log.Error("could not approve suggestion",
				"suggestion_id", cmd.SuggestionID, "safety_score", result.Score, "err", err.Error())
			return
		}

		log.Info("suggestion approved", "suggestion_id", cmd.SuggestionID, "safety_score", result.Score)
	}
}

func NewDeployRequestHandler(svc *Service) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "deploy-suggestion")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		cmd := lifecycleCommand{}
		err = json.Unmarshal(itm.Body(), &cmd)
		if err != nil {
			log.Error("failed to unmarshal deploy command", "err", err.Error())
			return
		}

		externalID, err := svc.Deploy(ctx, cmd.SuggestionID)
		if err != nil {
			log.Error("could not deploy suggestion", "suggestion_id", cmd.SuggestionID, "err", err.Error())
			return
		}

		log.Info("suggestion deployed", "suggestion_id", cmd.SuggestionID, "external_id", externalID)
	}
}

func NewRejectRequestHandler(svc *Service) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "reject-suggestion")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		cmd := lifecycleCommand{}
		err = json.Unmarshal(itm.Body(), &cmd)
		if err != nil {
			log.Error("failed to unmarshal reject command", "err", err.Error())
			return
		}

		err = svc.Reject(ctx, cmd.SuggestionID)
		if err != nil {
			log.Error("could not reject suggestion", "suggestion_id", cmd.SuggestionID, "err", err.Error())
			return
		}
	}
}
