package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/jackc/pgx/v5"
)

func (s *Storage) AddSuggestion(ctx context.Context, sg types.Suggestion) error {
	if sg.SuggestionID == "" {
		return ErrNoID
	}

	// a draft must not carry yaml, it is attached on approval
	if sg.Status == types.SuggestionStatusDraft && sg.AutomationYAML != nil {
		return ErrYAMLImmutable
	}

	capabilities, _ := json.Marshal(sg.Capabilities)

	args := pgx.NamedArgs{
		"suggestion_id":       sg.SuggestionID,
		"pattern_id":          sg.PatternID,
		"status":              sg.Status,
		"description":         sg.Description,
		"device_capabilities": string(capabilities),
		"refinement_count":    sg.RefinementCount,
		"category":            sg.Category,
		"priority":            sg.Priority,
		"confidence":          sg.Confidence,
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO suggestions (suggestion_id, pattern_id, status, description, device_capabilities, refinement_count, category, priority, confidence)
		VALUES (@suggestion_id, @pattern_id, @status, @description, @device_capabilities, @refinement_count, @category, @priority, @confidence)
	`, args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	return nil
}

func (s *Storage) GetSuggestion(ctx context.Context, suggestionID string) (types.Suggestion, error) {
	suggestions, err := s.QuerySuggestions(ctx, WithSuggestionID(suggestionID))
	if err != nil {
		return types.Suggestion{}, err
	}

	if suggestions.Count == 0 {
		return types.Suggestion{}, ErrNoRows
	}

	return suggestions.Data[0], nil
}

func (s *Storage) QuerySuggestions(ctx context.Context, conditions ...ConditionFunc) (types.Collection[types.Suggestion], error) {
	condition := &Condition{}
	for _, cond := range conditions {
		condition = cond(condition)
	}

	query := fmt.Sprintf(`
		SELECT suggestion_id, pattern_id, status, description, device_capabilities, refinement_count, automation_yaml,
			   category, priority, confidence, external_id, created_on, modified_on, approved_on, deployed_on,
			   count(*) OVER () AS total_count
		FROM suggestions
		%s
		%s
		%s
	`, condition.Where(), condition.OrderBy(), condition.OffsetLimit())

	rows, err := s.pool.Query(ctx, query, condition.NamedArgs())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Collection[types.Suggestion]{}, ErrNoRows
		}
		return types.Collection[types.Suggestion]{}, fmt.Errorf("%w: %w", ErrQueryRow, err)
	}
	defer rows.Close()

	suggestions := make([]types.Suggestion, 0)
	var totalCount uint64

	for rows.Next() {
		var sg types.Suggestion
		var patternID, externalID *string
		var capabilities []byte

		err := rows.Scan(&sg.SuggestionID, &patternID, &sg.Status, &sg.Description, &capabilities, &sg.RefinementCount,
			&sg.AutomationYAML, &sg.Category, &sg.Priority, &sg.Confidence, &externalID,
			&sg.CreatedAt, &sg.UpdatedAt, &sg.ApprovedAt, &sg.DeployedAt, &totalCount)
		if err != nil {
			return types.Collection[types.Suggestion]{}, err
		}

		if patternID != nil {
			sg.PatternID = *patternID
		}
		if externalID != nil {
			sg.ExternalID = *externalID
		}
		if len(capabilities) > 0 {
			json.Unmarshal(capabilities, &sg.Capabilities)
		}

		suggestions = append(suggestions, sg)
	}

	offset := 0
	if condition.offset != nil {
		offset = *condition.offset
	}
	limit := len(suggestions)
	if condition.limit != nil {
		limit = *condition.limit
	}

	return types.Collection[types.Suggestion]{
		Data:       suggestions,
		Count:      uint64(len(suggestions)),
		Offset:     uint64(offset),
		Limit:      uint64(limit),
		TotalCount: totalCount,
	}, nil
}

// SetDescription replaces the draft description and bumps the refinement
// counter. Only drafts can be refined.
func (s *Storage) SetDescription(ctx context.Context, suggestionID, description string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE suggestions
		SET description = @description, refinement_count = refinement_count + 1, modified_on = CURRENT_TIMESTAMP
		WHERE suggestion_id = @suggestion_id AND status = 'draft'
	`, pgx.NamedArgs{"suggestion_id": suggestionID, "description": description})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotDraft
	}

	return nil
}

// ApproveSuggestion attaches the validated yaml and advances the status.
// The yaml column may only transition from NULL, never be replaced.
func (s *Storage) ApproveSuggestion(ctx context.Context, suggestionID, automationYAML string) error {
	if automationYAML == "" {
		return ErrInvalidArgument
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE suggestions
		SET status = 'approved', automation_yaml = @automation_yaml, approved_on = CURRENT_TIMESTAMP, modified_on = CURRENT_TIMESTAMP
		WHERE suggestion_id = @suggestion_id AND status = 'draft' AND automation_yaml IS NULL
	`, pgx.NamedArgs{"suggestion_id": suggestionID, "automation_yaml": automationYAML})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrYAMLImmutable
	}

	return nil
}

func (s *Storage) DeploySuggestion(ctx context.Context, suggestionID, externalID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE suggestions
		SET status = 'deployed', external_id = @external_id, deployed_on = CURRENT_TIMESTAMP, modified_on = CURRENT_TIMESTAMP
		WHERE suggestion_id = @suggestion_id AND status = 'approved'
	`, pgx.NamedArgs{"suggestion_id": suggestionID, "external_id": externalID})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func (s *Storage) RejectSuggestion(ctx context.Context, suggestionID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE suggestions
		SET status = 'rejected', modified_on = CURRENT_TIMESTAMP
		WHERE suggestion_id = @suggestion_id AND status IN ('draft', 'approved')
	`, pgx.NamedArgs{"suggestion_id": suggestionID})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}
