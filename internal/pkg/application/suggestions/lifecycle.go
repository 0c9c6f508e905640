package suggestions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/internal/pkg/application/events"
	"github.com/homelab-tools/home-intel/internal/pkg/application/safety"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/llm"
	"github.com/homelab-tools/home-intel/internal/pkg/infrastructure/storage"
	"github.com/homelab-tools/home-intel/pkg/types"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsafe      = errors.New("automation failed safety validation")
	ErrNotApproved = errors.New("suggestion is not approved for deployment")
)

// Refine replaces the draft description with a model rewrite based on the
// homeowner's feedback. The storage layer bumps refinement_count and
// rejects anything that is no longer a draft.
func (s *Service) Refine(ctx context.Context, suggestionID, feedback string) error {
	sg, err := s.store.GetSuggestion(ctx, suggestionID)
	if err != nil {
		return err
	}

	if sg.Status != types.SuggestionStatusDraft {
		return storage.ErrNotDraft
	}

	refined, err := s.oracle.Complete(ctx, refineSystemPrompt, buildRefinePrompt(sg, feedback), llm.Options{
		MaxTokens:   300,
		Temperature: 0.4,
	})
	if err != nil {
		return err
	}

	refined = strings.TrimSpace(refined)
	if refined == "" {
		return fmt.Errorf("refinement produced an empty description")
	}

	return s.store.SetDescription(ctx, suggestionID, refined)
}

// Approve synthesizes automation yaml from the draft description, validates
// it and attaches it to the suggestion. The yaml is immutable from here on.
// The safety result is returned on failure too, so callers can show the
// issues to the homeowner.
func (s *Service) Approve(ctx context.Context, suggestionID string) (safety.Result, error) {
	log := logging.GetFromContext(ctx)

	sg, err := s.store.GetSuggestion(ctx, suggestionID)
	if err != nil {
		return safety.Result{}, err
	}

	if sg.Status != types.SuggestionStatusDraft {
		return safety.Result{}, storage.ErrNotDraft
	}

	text, err := s.oracle.Complete(ctx, yamlSystemPrompt, buildYAMLPrompt(sg), llm.Options{
		MaxTokens:   1200,
		Temperature: 0.2,
	})
	if err != nil {
		return safety.Result{}, err
	}

	yamlText, err := llm.ExtractYAML(text)
	if err != nil {
		return safety.Result{}, err
	}

	result, err := s.validator.Validate(yamlText, s.level)
	if err != nil {
		return safety.Result{}, err
	}

	if !result.Passed {
		fixed, fixes, fixErr := safety.AutoFix(yamlText)
		if fixErr == nil && len(fixes) > 0 {
			refixed, revalErr := s.validator.Validate(fixed, s.level)
			if revalErr == nil {
				log.Debug("revalidated after structural fixes", "suggestion_id", suggestionID, "fixes", len(fixes))
				yamlText, result = fixed, refixed
			}
		}
	}

	if !result.Passed {
		return result, fmt.Errorf("%w: %s", ErrUnsafe, result.Summary)
	}

	err = s.store.ApproveSuggestion(ctx, suggestionID, yamlText)
	if err != nil {
		return result, err
	}

	if s.messenger != nil {
		err = s.messenger.PublishOnTopic(ctx, &events.SuggestionApproved{
			SuggestionID: suggestionID,
			Timestamp:    s.clk.Now(),
		})
		if err != nil {
			log.Warn("could not publish suggestion approval", "suggestion_id", suggestionID, "err", err.Error())
		}
	}

	return result, nil
}

// Deploy pushes the approved yaml to the hub and records the external
// automation id it was created under.
func (s *Service) Deploy(ctx context.Context, suggestionID string) (string, error) {
	log := logging.GetFromContext(ctx)

	sg, err := s.store.GetSuggestion(ctx, suggestionID)
	if err != nil {
		return "", err
	}

	if sg.Status != types.SuggestionStatusApproved || sg.AutomationYAML == nil {
		return "", ErrNotApproved
	}

	var config map[string]any
	err = yaml.Unmarshal([]byte(*sg.AutomationYAML), &config)
	if err != nil {
		return "", fmt.Errorf("approved automation is not valid YAML: %w", err)
	}

	externalID := externalAutomationID(sg.SuggestionID)

	err = s.hub.CreateAutomation(ctx, externalID, config)
	if err != nil {
		return "", err
	}

	err = s.store.DeploySuggestion(ctx, suggestionID, externalID)
	if err != nil {
		return "", err
	}

	if s.messenger != nil {
		err = s.messenger.PublishOnTopic(ctx, &events.SuggestionDeployed{
			SuggestionID: suggestionID,
			ExternalID:   externalID,
			Timestamp:    s.clk.Now(),
		})
		if err != nil {
			log.Warn("could not publish suggestion deployment", "suggestion_id", suggestionID, "err", err.Error())
		}
	}

	return externalID, nil
}

func (s *Service) Reject(ctx context.Context, suggestionID string) error {
	return s.store.RejectSuggestion(ctx, suggestionID)
}

func externalAutomationID(suggestionID string) string {
	compact := strings.ReplaceAll(suggestionID, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "home_intel_" + compact
}
