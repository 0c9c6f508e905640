package testharness

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/homelab-tools/home-intel/internal/pkg/application/safety"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/hubapi"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/llm"
	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/matryer/is"
)

var automationIDPattern = regexp.MustCompile(`^test_automation_[0-9a-f]{8}$`)

const strippedTestYAML = `alias: harness test
trigger:
  - platform: event
    event_type: test_automation_trigger
action:
  - service: light.turn_on
    target:
      entity_id: light.office
`

func fenced(yml string) string {
	return "```yaml\n" + yml + "```\n"
}

func testHarness(hub hubapi.Client, oracle llm.Oracle, cleanups CleanupStore) *Harness {
	return New(hub, oracle, safety.NewValidator(3), cleanups,
		clock.Fixed(time.Date(2026, 2, 10, 17, 30, 0, 0, time.UTC)),
		WithTestDuration(0), WithDeleteRetryGap(0))
}

func flashSuggestion() types.Suggestion {
	return types.Suggestion{
		SuggestionID: "sg-1",
		Status:       types.SuggestionStatusDraft,
		Description:  "Flash office lights every 30 seconds after 5pm for 10 minutes",
	}
}

func TestRunCreatesTriggersAndDeletes(t *testing.T) {
	is := is.New(t)

	hub := &hubapi.ClientMock{
		CreateAutomationFunc:  func(ctx context.Context, automationID string, config map[string]any) error { return nil },
		TriggerAutomationFunc: func(ctx context.Context, automationID string) error { return nil },
		DeleteAutomationFunc:  func(ctx context.Context, automationID string) error { return nil },
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return fenced(strippedTestYAML), nil
		},
	}
	cleanups := &CleanupStoreMock{}

	report, err := testHarness(hub, oracle, cleanups).Run(context.Background(), flashSuggestion())
	is.NoErr(err)

	is.Equal(report.Mode, ModeSequence)
	is.Equal(len(report.Components), 3)
	is.True(automationIDPattern.MatchString(report.AutomationID))
	is.True(report.Triggered)
	is.True(report.Deleted)
	is.True(report.Validation.Passed)

	created := hub.CreateAutomationCalls()
	is.Equal(len(created), 1)
	is.Equal(created[0].AutomationID, report.AutomationID)
	is.Equal(created[0].Config["alias"], "harness test")

	is.Equal(hub.TriggerAutomationCalls()[0].AutomationID, report.AutomationID)
	is.Equal(hub.DeleteAutomationCalls()[0].AutomationID, report.AutomationID)
	is.Equal(len(cleanups.AddCleanupCalls()), 0)
}

func TestDeleteFailureQueuesCleanup(t *testing.T) {
	is := is.New(t)

	hub := &hubapi.ClientMock{
		CreateAutomationFunc:  func(ctx context.Context, automationID string, config map[string]any) error { return nil },
		TriggerAutomationFunc: func(ctx context.Context, automationID string) error { return nil },
		DeleteAutomationFunc: func(ctx context.Context, automationID string) error {
			return errors.New("hub returned status 500")
		},
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return fenced(strippedTestYAML), nil
		},
	}
	cleanups := &CleanupStoreMock{
		AddCleanupFunc: func(ctx context.Context, automationID, reason string) error { return nil },
	}

	report, err := testHarness(hub, oracle, cleanups).Run(context.Background(), flashSuggestion())
	is.NoErr(err) // the test itself ran, only teardown degraded

	is.Equal(report.Deleted, false)
	is.Equal(len(hub.DeleteAutomationCalls()), 3)

	queued := cleanups.AddCleanupCalls()
	is.Equal(len(queued), 1)
	is.Equal(queued[0].AutomationID, report.AutomationID)
}

func TestTriggerFailureStillDeletes(t *testing.T) {
	is := is.New(t)

	hub := &hubapi.ClientMock{
		CreateAutomationFunc: func(ctx context.Context, automationID string, config map[string]any) error { return nil },
		TriggerAutomationFunc: func(ctx context.Context, automationID string) error {
			return errors.New("hub returned status 503")
		},
		DeleteAutomationFunc: func(ctx context.Context, automationID string) error { return nil },
	}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return fenced(strippedTestYAML), nil
		},
	}
	cleanups := &CleanupStoreMock{}

	report, err := testHarness(hub, oracle, cleanups).Run(context.Background(), flashSuggestion())
	is.True(err != nil)

	is.Equal(report.Triggered, false)
	is.True(report.Deleted) // the automation never survives a failed run
	is.Equal(len(hub.DeleteAutomationCalls()), 1)
}

func TestUnsafeStrippedAutomationIsNeverCreated(t *testing.T) {
	is := is.New(t)

	hub := &hubapi.ClientMock{}
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			return fenced("trigger:\n  - platform: event\n    event_type: test_automation_trigger\naction:\n  - service: light.turn_off\n    target:\n      area_id: all\n"), nil
		},
	}

	_, err := testHarness(hub, oracle, &CleanupStoreMock{}).Run(context.Background(), flashSuggestion())
	is.True(errors.Is(err, ErrTestUnsafe))
	is.Equal(len(hub.CreateAutomationCalls()), 0)
}

func TestRestoreReinsertsComponents(t *testing.T) {
	is := is.New(t)

	restored := `alias: flash office lights
trigger:
  - platform: time
    at: "17:00:00"
action:
  - repeat:
      count: 20
      sequence:
        - service: light.toggle
          target:
            entity_id: light.office
        - delay: "00:00:30"
`

	var prompt string
	oracle := &llm.OracleMock{
		CompleteFunc: func(ctx context.Context, system, user string, opts llm.Options) (string, error) {
			prompt = user
			return fenced(restored), nil
		},
	}

	components, _ := DetectComponents("Flash office lights every 30 seconds after 5pm for 10 minutes")

	yml, err := testHarness(&hubapi.ClientMock{}, oracle, &CleanupStoreMock{}).
		Restore(context.Background(), strippedTestYAML, components)
	is.NoErr(err)

	is.True(strings.Contains(yml, "repeat"))
	is.True(strings.Contains(yml, "delay"))
	is.True(strings.Contains(prompt, ComponentTimeCondition)) // the model sees the recorded component list
}
