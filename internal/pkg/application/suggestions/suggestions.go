package suggestions

import (
	"context"
	"strings"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/application/events"
	"github.com/homelab-tools/home-intel/internal/pkg/application/safety"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/hubapi"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/llm"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/storage"
	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("home-intel/suggestions")

//go:generate moq -rm -out store_mock.go . Store
type Store interface {
	QueryPatterns(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Pattern], error)
	MarkPatternSuggested(ctx context.Context, patternID string) error

	AddSuggestion(ctx context.Context, sg types.Suggestion) error
	GetSuggestion(ctx context.Context, suggestionID string) (types.Suggestion, error)
	SetDescription(ctx context.Context, suggestionID, description string) error
	ApproveSuggestion(ctx context.Context, suggestionID, automationYAML string) error
	DeploySuggestion(ctx context.Context, suggestionID, externalID string) error
	RejectSuggestion(ctx context.Context, suggestionID string) error
}

// Service turns discovered patterns into automation suggestions. Generation
// is description first: a draft carries prose only, yaml is synthesized on
// approval and immutable afterwards.
type Service struct {
	store     Store
	oracle    llm.Oracle
	caps      capabilities.Store
	hub       hubapi.Client
	validator *safety.Validator
	messenger messaging.MsgContext
	clk       clock.Clock

	qualityFloor float64
	level        safety.Level
}

type Option func(*Service)

// WithQualityFloor sets the minimum pattern confidence worth suggesting.
func WithQualityFloor(floor float64) Option {
	return func(s *Service) { s.qualityFloor = floor }
}

func WithSafetyLevel(level safety.Level) Option {
	return func(s *Service) { s.level = level }
}

func New(store Store, oracle llm.Oracle, caps capabilities.Store, hub hubapi.Client, validator *safety.Validator, messenger messaging.MsgContext, clk clock.Clock, opts ...Option) *Service {
	s := &Service{
		store:        store,
		oracle:       oracle,
		caps:         caps,
		hub:          hub,
		validator:    validator,
		messenger:    messenger,
		clk:          clk,
		qualityFloor: 0.5,
		level:        safety.LevelModerate,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GenerateAll drafts one suggestion per unsuggested pattern above the
// quality floor, newest patterns first. A pattern that fails generation is
// logged and skipped, it stays unsuggested for the next sweep.
func (s *Service) GenerateAll(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "suggestion-generation")
	defer span.End()

	log := logging.GetFromContext(ctx)

	patterns, err := s.store.QueryPatterns(ctx,
		storage.WithNotSuggested(),
		storage.WithMinConfidence(s.qualityFloor),
		storage.WithSortBy("last_seen"),
		storage.WithSortDesc(true),
	)
	if err != nil {
		return 0, err
	}

	created := 0

	for _, p := range patterns.Data {
		err := s.generate(ctx, p)
		if err != nil {
			log.Error("could not generate suggestion", "pattern_id", p.PatternID, "err", err.Error())
			continue
		}
		created++
	}

	log.Info("suggestion sweep finished", "patterns", patterns.Count, "created", created)

	return created, nil
}

func (s *Service) generate(ctx context.Context, p types.Pattern) error {
	log := logging.GetFromContext(ctx)

	snapshot := s.capabilitySnapshot(p)

	description, err := s.describe(ctx, p, snapshot)
	if err != nil {
		// the pattern must never stay unsuggested because the model was down
		log.Warn("using template description", "pattern_id", p.PatternID, "err", err.Error())
		description = templateDescription(p)
	}

	sg := types.Suggestion{
		SuggestionID: uuid.NewString(),
		PatternID:    p.PatternID,
		Status:       types.SuggestionStatusDraft,
		Description:  description,
		Capabilities: snapshot,
		Category:     categoryFor(p),
		Priority:     priorityFor(p.Confidence),
		Confidence:   p.Confidence,
	}

	err = s.store.AddSuggestion(ctx, sg)
	if err != nil {
		return err
	}

	err = s.store.MarkPatternSuggested(ctx, p.PatternID)
	if err != nil {
		return err
	}

	if s.messenger != nil {
		err = s.messenger.PublishOnTopic(ctx, &events.SuggestionCreated{
			SuggestionID: sg.SuggestionID,
			PatternID:    p.PatternID,
			Category:     sg.Category,
			Priority:     sg.Priority,
			Timestamp:    s.clk.Now(),
		})
		if err != nil {
			log.Warn("could not publish suggestion creation", "suggestion_id", sg.SuggestionID, "err", err.Error())
		}
	}

	return nil
}

func (s *Service) describe(ctx context.Context, p types.Pattern, snapshot []types.DeviceCapabilities) (string, error) {
	text, err := s.oracle.Complete(ctx, descriptionSystemPrompt, buildDescriptionPrompt(p, snapshot), llm.Options{
		MaxTokens:   300,
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", llm.ErrNoStructuredContent
	}

	return text, nil
}

// capabilitySnapshot resolves the pattern's entities to device capabilities
// through the entity registry, deduplicated by model.
func (s *Service) capabilitySnapshot(p types.Pattern) []types.DeviceCapabilities {
	snapshot := make([]types.DeviceCapabilities, 0, 2)
	seen := map[string]struct{}{}

	for _, entityID := range patternEntities(p) {
		meta, ok := s.caps.EntityMetadata(entityID)
		if !ok || meta.DeviceID == "" {
			continue
		}

		dc, ok := s.caps.ByDeviceID(meta.DeviceID)
		if !ok {
			continue
		}

		if _, dup := seen[dc.Model]; dup {
			continue
		}
		seen[dc.Model] = struct{}{}

		snapshot = append(snapshot, dc)
	}

	return snapshot
}

func patternEntities(p types.Pattern) []string {
	if p.DeviceID != "" {
		return []string{p.DeviceID}
	}
	if len(p.DevicePair) > 0 {
		return p.DevicePair
	}
	return p.Sequence
}

func categoryFor(p types.Pattern) string {
	ids := strings.ToLower(strings.Join(patternEntities(p), " "))

	switch {
	case containsAny(ids, "lock", "door", "alarm", "motion", "camera"):
		return types.CategorySecurity
	case containsAny(ids, "energy", "power"):
		return types.CategoryEnergy
	case strings.Contains(ids, "climate"):
		return types.CategoryComfort
	default:
		return types.CategoryConvenience
	}
}

func priorityFor(confidence float64) string {
	switch {
	case confidence >= 0.85:
		return types.PriorityHigh
	case confidence >= 0.65:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

func containsAny(s string, substrings ...string) bool {
	return lo.SomeBy(substrings, func(sub string) bool {
		return strings.Contains(s, sub)
	})
}
