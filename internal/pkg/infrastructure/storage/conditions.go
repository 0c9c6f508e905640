package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type ConditionFunc func(*Condition) *Condition

type Condition struct {
	PatternID   string
	PatternType string
	DeviceID    string

	SuggestionID string
	Status       string

	MinConfidence  *float64
	NotSuggested   bool
	LastSeenAfter  time.Time
	LastSeenBefore time.Time

	sortBy    string
	sortOrder string

	offset *int
	limit  *int
}

func (c Condition) OrderBy() string {
	if c.sortBy == "" {
		return ""
	}

	order := c.sortOrder
	if order == "" {
		order = "ASC"
	}

	return fmt.Sprintf("ORDER BY %s %s ", c.sortBy, order)
}

func (c Condition) OffsetLimit() string {
	offsetLimit := ""

	if c.offset != nil {
		offsetLimit += "OFFSET @offset "
	}
	if c.limit != nil {
		offsetLimit += "LIMIT @limit "
	}

	return offsetLimit
}

func (c Condition) NamedArgs() pgx.NamedArgs {
	args := pgx.NamedArgs{}

	if c.PatternID != "" {
		args["pattern_id"] = c.PatternID
	}
	if c.PatternType != "" {
		args["pattern_type"] = c.PatternType
	}
	if c.DeviceID != "" {
		args["device_id"] = c.DeviceID
	}
	if c.SuggestionID != "" {
		args["suggestion_id"] = c.SuggestionID
	}
	if c.Status != "" {
		args["status"] = c.Status
	}
	if c.MinConfidence != nil {
		args["min_confidence"] = *c.MinConfidence
	}
	if !c.LastSeenAfter.IsZero() {
		args["last_seen_after"] = c.LastSeenAfter.UTC()
	}
	if !c.LastSeenBefore.IsZero() {
		args["last_seen_before"] = c.LastSeenBefore.UTC()
	}
	if c.offset != nil {
		args["offset"] = *c.offset
	}
	if c.limit != nil {
		args["limit"] = *c.limit
	}

	return args
}

func (c Condition) Where() string {
	where := []string{}

	if c.PatternID != "" {
		where = append(where, "pattern_id = @pattern_id")
	}
	if c.PatternType != "" {
		where = append(where, "pattern_type = @pattern_type")
	}
	if c.DeviceID != "" {
		where = append(where, "(device_id = @device_id OR @device_id = ANY(device_pair) OR @device_id = ANY(sequence))")
	}
	if c.SuggestionID != "" {
		where = append(where, "suggestion_id = @suggestion_id")
	}
	if c.Status != "" {
		where = append(where, "status = @status")
	}
	if c.MinConfidence != nil {
		where = append(where, "confidence >= @min_confidence")
	}
	if c.NotSuggested {
		where = append(where, "suggested = FALSE")
	}
	if !c.LastSeenAfter.IsZero() {
		where = append(where, "last_seen >= @last_seen_after")
	}
	if !c.LastSeenBefore.IsZero() {
		where = append(where, "last_seen < @last_seen_before")
	}

	if len(where) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(where, " AND ")
}

func WithPatternID(patternID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.PatternID = patternID
		return c
	}
}

func WithPatternType(patternType string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.PatternType = patternType
		return c
	}
}

func WithDeviceID(deviceID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.DeviceID = deviceID
		return c
	}
}

func WithSuggestionID(suggestionID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.SuggestionID = suggestionID
		return c
	}
}

func WithStatus(status string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Status = status
		return c
	}
}

func WithMinConfidence(confidence float64) ConditionFunc {
	return func(c *Condition) *Condition {
		c.MinConfidence = &confidence
		return c
	}
}

func WithNotSuggested() ConditionFunc {
	return func(c *Condition) *Condition {
		c.NotSuggested = true
		return c
	}
}

func WithLastSeenAfter(t time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.LastSeenAfter = t
		return c
	}
}

func WithLastSeenBefore(t time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.LastSeenBefore = t
		return c
	}
}

func WithSortBy(sortBy string) ConditionFunc {
	return func(c *Condition) *Condition {
		switch strings.ToLower(sortBy) {
		case "confidence":
			c.sortBy = "confidence"
		case "last_seen":
			c.sortBy = "last_seen"
		case "created_on":
			c.sortBy = "created_on"
		}
		return c
	}
}

func WithSortDesc(desc bool) ConditionFunc {
	return func(c *Condition) *Condition {
		if desc {
			c.sortOrder = "DESC"
		} else {
			c.sortOrder = "ASC"
		}
		return c
	}
}

func WithOffset(offset int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.offset = &offset
		return c
	}
}

func WithLimit(limit int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.limit = &limit
		return c
	}
}
