package testharness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/homelab-tools/home-intel/internal/pkg/application/safety"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/clock"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/hubapi"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/llm"
	"github.com/homelab-tools/home-intel/pkg/types"
	"go.opentelemetry.io/otel"
	"gopkg.in/yaml.v3"
)

var tracer = otel.Tracer("home-intel/testharness")

const (
	// TriggerEventType is the manual event the stripped automation listens
	// for instead of its real triggers.
	TriggerEventType = "test_automation_trigger"

	defaultTestDuration = 30 * time.Second
	deleteAttempts      = 3
	deleteRetryGap      = 2 * time.Second
)

var ErrTestUnsafe = errors.New("stripped automation failed safety validation")

// CleanupStore queues automation ids the harness could not delete, for the
// janitor to sweep.
//
//go:generate moq -rm -out cleanupstore_mock.go . CleanupStore
type CleanupStore interface {
	AddCleanup(ctx context.Context, automationID, reason string) error
	ListCleanups(ctx context.Context) ([]string, error)
	RemoveCleanup(ctx context.Context, automationID string) error
}

// Report is the outcome of one live test run.
type Report struct {
	AutomationID string        `json:"automationID"`
	Mode         string        `json:"mode"`
	Components   []Component   `json:"components"`
	StrippedYAML string        `json:"strippedYAML"`
	Validation   safety.Result `json:"validation"`
	Triggered    bool          `json:"triggered"`
	Deleted      bool          `json:"deleted"`
}

// Harness executes a suggestion on the live hub with zero lingering side
// effects. Whatever goes wrong after creation, the automation is deleted
// before the harness returns.
type Harness struct {
	hub       hubapi.Client
	oracle    llm.Oracle
	validator *safety.Validator
	cleanups  CleanupStore
	clk       clock.Clock

	testDuration time.Duration
	retryGap     time.Duration
	dwell        func(ctx context.Context, d time.Duration)
}

type Option func(*Harness)

func WithTestDuration(d time.Duration) Option {
	return func(h *Harness) { h.testDuration = d }
}

func WithDeleteRetryGap(d time.Duration) Option {
	return func(h *Harness) { h.retryGap = d }
}

func New(hub hubapi.Client, oracle llm.Oracle, validator *safety.Validator, cleanups CleanupStore, clk clock.Clock, opts ...Option) *Harness {
	h := &Harness{
		hub:          hub,
		oracle:       oracle,
		validator:    validator,
		cleanups:     cleanups,
		clk:          clk,
		testDuration: defaultTestDuration,
		retryGap:     deleteRetryGap,
		dwell:        sleepWithContext,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Run detects timing components, strips the suggestion to a minimal test
// automation, creates it on the hub, fires it, waits out the dwell and
// deletes it. A failure after creation still runs the delete step.
func (h *Harness) Run(ctx context.Context, sg types.Suggestion) (Report, error) {
	ctx, span := tracer.Start(ctx, "automation-test")
	defer span.End()

	log := logging.GetFromContext(ctx)

	var report Report
	report.Components, report.Mode = DetectComponents(sg.Description)

	stripped, err := h.strip(ctx, sg, report.Components, report.Mode)
	if err != nil {
		return report, err
	}

	stripped, result, err := h.validate(ctx, stripped)
	if err != nil {
		return report, err
	}
	report.StrippedYAML = stripped
	report.Validation = result

	var config map[string]any
	err = yaml.Unmarshal([]byte(stripped), &config)
	if err != nil {
		return report, fmt.Errorf("stripped automation is not valid YAML: %w", err)
	}

	report.AutomationID = testAutomationID()

	err = h.hub.CreateAutomation(ctx, report.AutomationID, config)
	if err != nil {
		return report, err
	}

	log.Info("test automation created", "automation_id", report.AutomationID, "mode", report.Mode)

	runErr := h.triggerAndWait(ctx, &report)

	report.Deleted = h.deleteWithRetry(ctx, report.AutomationID)

	return report, runErr
}

func (h *Harness) triggerAndWait(ctx context.Context, report *Report) error {
	err := h.hub.TriggerAutomation(ctx, report.AutomationID)
	if err != nil {
		return err
	}
	report.Triggered = true

	h.dwell(ctx, h.testDuration)

	return nil
}

func (h *Harness) strip(ctx context.Context, sg types.Suggestion, components []Component, mode string) (string, error) {
	text, err := h.oracle.Complete(ctx, stripSystemPrompt, buildStripPrompt(sg, components, mode), llm.Options{
		MaxTokens:   1200,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	return llm.ExtractYAML(text)
}

// Restore asks the model to reinsert the stripped components into the test
// yaml and validates the result as the user-facing deployable automation.
func (h *Harness) Restore(ctx context.Context, strippedYAML string, components []Component) (string, error) {
	text, err := h.oracle.Complete(ctx, restoreSystemPrompt, buildRestorePrompt(strippedYAML, components), llm.Options{
		MaxTokens:   1200,
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}

	yamlText, err := llm.ExtractYAML(text)
	if err != nil {
		return "", err
	}

	yamlText, _, err = h.validate(ctx, yamlText)
	if err != nil {
		return "", err
	}

	return yamlText, nil
}

func (h *Harness) validate(ctx context.Context, yamlText string) (string, safety.Result, error) {
	result, err := h.validator.Validate(yamlText, safety.LevelModerate)
	if err != nil {
		return "", safety.Result{}, err
	}

	if !result.Passed {
		fixed, fixes, fixErr := safety.AutoFix(yamlText)
		if fixErr == nil && len(fixes) > 0 {
			refixed, revalErr := h.validator.Validate(fixed, safety.LevelModerate)
			if revalErr == nil {
				yamlText, result = fixed, refixed
			}
		}
	}

	if !result.Passed {
		return "", result, fmt.Errorf("%w: %s", ErrTestUnsafe, result.Summary)
	}

	return yamlText, result, nil
}

func (h *Harness) deleteWithRetry(ctx context.Context, automationID string) bool {
	log := logging.GetFromContext(ctx)

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(h.retryGap), deleteAttempts-1)

	err := backoff.Retry(func() error {
		err := h.hub.DeleteAutomation(ctx, automationID)
		if errors.Is(err, hubapi.ErrNotFound) {
			return nil
		}
		return err
	}, backoff.WithContext(bo, ctx))

	if err != nil {
		log.Error("could not delete test automation, queueing for janitor", "automation_id", automationID, "err", err.Error())

		err = h.cleanups.AddCleanup(ctx, automationID, err.Error())
		if err != nil {
			log.Error("could not queue cleanup", "automation_id", automationID, "err", err.Error())
		}

		return false
	}

	return true
}

func testAutomationID() string {
	return "test_automation_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
