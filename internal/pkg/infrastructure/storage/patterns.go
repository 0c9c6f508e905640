package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/homelab-tools/home-intel/pkg/types"
	"github.com/jackc/pgx/v5"
)

func (s *Storage) AddPattern(ctx context.Context, p types.Pattern) error {
	if p.PatternID == "" {
		return ErrNoID
	}

	metadata, _ := json.Marshal(p.Metadata)

	args := pgx.NamedArgs{
		"pattern_id":   p.PatternID,
		"pattern_type": p.PatternType,
		"device_id":    p.DeviceID,
		"device_pair":  p.DevicePair,
		"sequence":     p.Sequence,
		"confidence":   p.Confidence,
		"occurrences":  p.Occurrences,
		"metadata":     string(metadata),
		"first_seen":   p.FirstSeen.UTC(),
		"last_seen":    p.LastSeen.UTC(),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO patterns (pattern_id, pattern_type, device_id, device_pair, sequence, confidence, occurrences, metadata, first_seen, last_seen)
		VALUES (@pattern_id, @pattern_type, @device_id, @device_pair, @sequence, @confidence, @occurrences, @metadata, @first_seen, @last_seen)
		ON CONFLICT (pattern_id) DO UPDATE
		SET confidence = EXCLUDED.confidence, occurrences = EXCLUDED.occurrences, metadata = EXCLUDED.metadata,
			last_seen = EXCLUDED.last_seen, modified_on = CURRENT_TIMESTAMP
	`, args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailed, err)
	}

	return nil
}

func (s *Storage) GetPattern(ctx context.Context, patternID string) (types.Pattern, error) {
	patterns, err := s.QueryPatterns(ctx, WithPatternID(patternID))
	if err != nil {
		return types.Pattern{}, err
	}

	if patterns.Count == 0 {
		return types.Pattern{}, ErrNoRows
	}

	return patterns.Data[0], nil
}

func (s *Storage) QueryPatterns(ctx context.Context, conditions ...ConditionFunc) (types.Collection[types.Pattern], error) {
	condition := &Condition{}
	for _, cond := range conditions {
		condition = cond(condition)
	}

	query := fmt.Sprintf(`
		SELECT pattern_id, pattern_type, device_id, device_pair, sequence, confidence, occurrences, metadata, suggested, first_seen, last_seen, count(*) OVER () AS total_count
		FROM patterns
		%s
		%s
		%s
	`, condition.Where(), condition.OrderBy(), condition.OffsetLimit())

	rows, err := s.pool.Query(ctx, query, condition.NamedArgs())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Collection[types.Pattern]{}, ErrNoRows
		}
		return types.Collection[types.Pattern]{}, fmt.Errorf("%w: %w", ErrQueryRow, err)
	}
	defer rows.Close()

	patterns := make([]types.Pattern, 0)
	var totalCount uint64

	for rows.Next() {
		var p types.Pattern
		var deviceID *string
		var metadata []byte

		err := rows.Scan(&p.PatternID, &p.PatternType, &deviceID, &p.DevicePair, &p.Sequence, &p.Confidence, &p.Occurrences, &metadata, &p.Suggested, &p.FirstSeen, &p.LastSeen, &totalCount)
		if err != nil {
			return types.Collection[types.Pattern]{}, err
		}

		if deviceID != nil {
			p.DeviceID = *deviceID
		}
		if len(metadata) > 0 {
			json.Unmarshal(metadata, &p.Metadata)
		}

		patterns = append(patterns, p)
	}

	offset := 0
	if condition.offset != nil {
		offset = *condition.offset
	}
	limit := len(patterns)
	if condition.limit != nil {
		limit = *condition.limit
	}

	return types.Collection[types.Pattern]{
		Data:       patterns,
		Count:      uint64(len(patterns)),
		Offset:     uint64(offset),
		Limit:      uint64(limit),
		TotalCount: totalCount,
	}, nil
}

func (s *Storage) MarkPatternSuggested(ctx context.Context, patternID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE patterns SET suggested = TRUE, modified_on = CURRENT_TIMESTAMP
		WHERE pattern_id = @pattern_id
	`, pgx.NamedArgs{"pattern_id": patternID})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func (s *Storage) AddCleanup(ctx context.Context, automationID, reason string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cleanup_queue (automation_id, reason)
		VALUES (@automation_id, @reason)
		ON CONFLICT (automation_id) DO NOTHING
	`, pgx.NamedArgs{"automation_id": automationID, "reason": reason})

	return err
}

func (s *Storage) ListCleanups(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT automation_id FROM cleanup_queue ORDER BY created_on")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func (s *Storage) RemoveCleanup(ctx context.Context, automationID string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM cleanup_queue WHERE automation_id = @automation_id",
		pgx.NamedArgs{"automation_id": automationID})
	return err
}
