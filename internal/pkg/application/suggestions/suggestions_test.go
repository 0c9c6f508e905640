package suggestions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/homelab-tools/home-intel/internal/pkg/application/capabilities"
	"github.com/homelab-tools/home-intel/internal/pkg/application/safety"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/hubapi"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/llm"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/storage"
	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

func testService(store Store, oracle llm.Oracle, caps capabilities.Store, hub hubapi.Client) *Service {
	return New(store, oracle, caps, hub, safety.NewValidator(3), nil,
		clock.Fixed(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)))
}

func emptyCaps() *capabilities.StoreMock {
	return &capabilities.StoreMock{
		EntityMetadataFunc: func(entityID string) (types.EntityMetadata, bool) {
			return types.EntityMetadata{}, false
		},
	}
}

func TestGenerateDraftsFromPatterns(t *testing.T) {
	is := is.New(t)

	patterns := []types.Pattern{
		{PatternID: "time_of_day:light.office:0", PatternType: types.PatternTypeTimeOfDay, DeviceID: "light.office", Confidence: 0.9, Occurrences: 20},
		{PatternID: "co_occurrence:light.hall:lock.front_door", PatternType: types.PatternTypeCoOccurrence, DevicePair: []string{"lock.front_door", "light.hall"}, Confidence: 0.6, Occurrences: 5},
	}

	store := &StoreMock{
		QueryPatternsFunc: func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Pattern], error) {
			return types.Collection[types.Pattern]{Data: patterns, Count: 2}, nil
		},
		AddSuggestionFunc:        func(ctx context.Context, sg types.Suggestion) error { return nil },
		MarkPatternSuggestedFunc: func(ctx context.Context, patternID string) error { return nil },
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return "Turn on the office light at seven every morning.", nil
		},
	}

	created, err := testService(store, oracle, emptyCaps(), nil).GenerateAll(context.Background())
	is.NoErr(err)
	is.Equal(created, 2)

	added := store.AddSuggestionCalls()
	is.Equal(len(added), 2)

	first := added[0].Sg
	is.Equal(first.Status, types.SuggestionStatusDraft)
	is.Equal(first.Description, "Turn on the office light at seven every morning.")
	is.Equal(first.Category, types.CategoryConvenience)
	is.Equal(first.Priority, types.PriorityHigh)
	is.Equal(first.RefinementCount, 0)
	is.True(first.AutomationYAML == nil) // yaml is attached on approval, never at draft time

	second := added[1].Sg
	is.Equal(second.Category, types.CategorySecurity) // the pair includes a lock
	is.Equal(second.Priority, types.PriorityLow)

	is.Equal(len(store.MarkPatternSuggestedCalls()), 2)
}

func TestTemplateFallbackWhenOracleFails(t *testing.T) {
	is := is.New(t)

	store := &StoreMock{
		QueryPatternsFunc: func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Pattern], error) {
			return types.Collection[types.Pattern]{
				Data: []types.Pattern{{
					PatternID:   "time_of_day:light.office:0",
					PatternType: types.PatternTypeTimeOfDay,
					DeviceID:    "light.office",
					Confidence:  0.8,
					Occurrences: 20,
					Metadata:    map[string]any{"time_range": "06:58-07:02"},
				}},
				Count: 1,
			}, nil
		},
		AddSuggestionFunc:        func(ctx context.Context, sg types.Suggestion) error { return nil },
		MarkPatternSuggestedFunc: func(ctx context.Context, patternID string) error { return nil },
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return "", errors.New("model endpoint returned status 503")
		},
	}

	created, err := testService(store, oracle, emptyCaps(), nil).GenerateAll(context.Background())
	is.NoErr(err)
	is.Equal(created, 1) // a model outage never leaves the pattern unsuggested

	sg := store.AddSuggestionCalls()[0].Sg
	is.True(strings.Contains(sg.Description, "light.office"))
	is.True(strings.Contains(sg.Description, "06:58-07:02"))
}

func TestCapabilitySnapshotIsAttached(t *testing.T) {
	is := is.New(t)

	caps := &capabilities.StoreMock{
		EntityMetadataFunc: func(entityID string) (types.EntityMetadata, bool) {
			return types.EntityMetadata{DeviceID: "dev-1"}, true
		},
		ByDeviceIDFunc: func(deviceID string) (types.DeviceCapabilities, bool) {
			return types.DeviceCapabilities{Manufacturer: "IKEA", Model: "LED1623G12"}, true
		},
	}
	store := &StoreMock{
		QueryPatternsFunc: func(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Pattern], error) {
			return types.Collection[types.Pattern]{
				Data:  []types.Pattern{{PatternID: "p-1", PatternType: types.PatternTypeTimeOfDay, DeviceID: "light.office", Confidence: 0.9}},
				Count: 1,
			}, nil
		},
		AddSuggestionFunc:        func(ctx context.Context, sg types.Suggestion) error { return nil },
		MarkPatternSuggestedFunc: func(ctx context.Context, patternID string) error { return nil },
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return "A description.", nil
		},
	}

	_, err := testService(store, oracle, caps, nil).GenerateAll(context.Background())
	is.NoErr(err)

	sg := store.AddSuggestionCalls()[0].Sg
	is.Equal(len(sg.Capabilities), 1)
	is.Equal(sg.Capabilities[0].Model, "LED1623G12")
}

func TestRefineReplacesDescription(t *testing.T) {
	is := is.New(t)

	store := &StoreMock{
		GetSuggestionFunc: func(ctx context.Context, suggestionID string) (types.Suggestion, error) {
			return types.Suggestion{SuggestionID: suggestionID, Status: types.SuggestionStatusDraft, Description: "Turn on the light at 7."}, nil
		},
		SetDescriptionFunc: func(ctx context.Context, suggestionID, description string) error { return nil },
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			is.True(strings.Contains(user, "only on weekdays")) // feedback reaches the model
			return "  Turn on the light at 7, weekdays only.\n", nil
		},
	}

	err := testService(store, oracle, emptyCaps(), nil).Refine(context.Background(), "sg-1", "only on weekdays please")
	is.NoErr(err)

	set := store.SetDescriptionCalls()
	is.Equal(len(set), 1)
	is.Equal(set[0].Description, "Turn on the light at 7, weekdays only.")
}

func TestRefineRejectsNonDrafts(t *testing.T) {
	is := is.New(t)

	store := &StoreMock{
		GetSuggestionFunc: func(ctx context.Context, suggestionID string) (types.Suggestion, error) {
			return types.Suggestion{SuggestionID: suggestionID, Status: types.SuggestionStatusApproved}, nil
		},
	}

	err := testService(store, &llm.OracleMock{}, emptyCaps(), nil).Refine(context.Background(), "sg-1", "change it")
	is.True(errors.Is(err, storage.ErrNotDraft))
}

func TestApproveAttachesValidatedYAML(t *testing.T) {
	is := is.New(t)

	store := &StoreMock{
		GetSuggestionFunc: func(ctx context.Context, suggestionID string) (types.Suggestion, error) {
			return types.Suggestion{SuggestionID: suggestionID, Status: types.SuggestionStatusDraft, Description: "Turn on the office light at 7."}, nil
		},
		ApproveSuggestionFunc: func(ctx context.Context, suggestionID, automationYAML string) error { return nil },
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return "Here you go:\n```yaml\nalias: morning office light\ntrigger:\n  - platform: time\n    at: \"07:00:00\"\naction:\n  - service: light.turn_on\n    target:\n      entity_id: light.office\n```\n", nil
		},
	}

	result, err := testService(store, oracle, emptyCaps(), nil).Approve(context.Background(), "sg-1")
	is.NoErr(err)
	is.True(result.Passed)

	approved := store.ApproveSuggestionCalls()
	is.Equal(len(approved), 1)
	is.True(!strings.Contains(approved[0].AutomationYAML, "```")) // fences are stripped before persisting
	is.True(strings.Contains(approved[0].AutomationYAML, "light.turn_on"))
}

func TestApproveRejectsUnsafeAutomations(t *testing.T) {
	is := is.New(t)

	store := &StoreMock{
		GetSuggestionFunc: func(ctx context.Context, suggestionID string) (types.Suggestion, error) {
			return types.Suggestion{SuggestionID: suggestionID, Status: types.SuggestionStatusDraft, Description: "Turn everything off at bedtime."}, nil
		},
		ApproveSuggestionFunc: func(ctx context.Context, suggestionID, automationYAML string) error { return nil },
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return "```yaml\ntrigger:\n  - platform: state\n    entity_id: input_boolean.bedtime\naction:\n  - service: light.turn_off\n    target:\n      area_id: all\n```", nil
		},
	}

	result, err := testService(store, oracle, emptyCaps(), nil).Approve(context.Background(), "sg-1")
	is.True(errors.Is(err, ErrUnsafe))
	is.Equal(result.Passed, false)
	is.True(len(result.Issues) > 0)
	is.Equal(len(store.ApproveSuggestionCalls()), 0)
}

func TestDeployPushesToHubAndRecordsExternalID(t *testing.T) {
	is := is.New(t)

	yml := "alias: morning office light\ntrigger:\n  - platform: time\n    at: \"07:00:00\"\naction:\n  - service: light.turn_on\n    target:\n      entity_id: light.office\n"

	store := &StoreMock{
		GetSuggestionFunc: func(ctx context.Context, suggestionID string) (types.Suggestion, error) {
			return types.Suggestion{
				SuggestionID:   "0d4a8f2e-9b1c-4e7d-a3f5-6c8b9d0e1f2a",
				Status:         types.SuggestionStatusApproved,
				AutomationYAML: &yml,
			}, nil
		},
		DeploySuggestionFunc: func(ctx context.Context, suggestionID, externalID string) error { return nil },
	}
	hub := &hubapi.ClientMock{
		CreateAutomationFunc: func(ctx context.Context, automationID string, config map[string]any) error { return nil },
	}

	externalID, err := testService(store, &llm.OracleMock{}, emptyCaps(), hub).Deploy(context.Background(), "0d4a8f2e-9b1c-4e7d-a3f5-6c8b9d0e1f2a")
	is.NoErr(err)
	is.Equal(externalID, "home_intel_0d4a8f2e")

	created := hub.CreateAutomationCalls()
	is.Equal(len(created), 1)
	is.Equal(created[0].AutomationID, externalID)
	is.Equal(created[0].Config["alias"], "morning office light")

	deployed := store.DeploySuggestionCalls()
	is.Equal(len(deployed), 1)
	is.Equal(deployed[0].ExternalID, externalID)
}

func TestDeployRequiresApproval(t *testing.T) {
	is := is.New(t)

	store := &StoreMock{
		GetSuggestionFunc: func(ctx context.Context, suggestionID string) (types.Suggestion, error) {
			return types.Suggestion{SuggestionID: suggestionID, Status: types.SuggestionStatusDraft}, nil
		},
	}
	hub := &hubapi.ClientMock{}

	_, err := testService(store, &llm.OracleMock{}, emptyCaps(), hub).Deploy(context.Background(), "sg-1")
	is.True(errors.Is(err, ErrNotApproved))
	is.Equal(len(hub.CreateAutomationCalls()), 0)
}
