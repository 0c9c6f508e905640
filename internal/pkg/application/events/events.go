package events

import (
	"encoding/json"
	"time"

	"github.com/homelab-tools/home-intel/pkg/types"
)

type PatternDiscovered struct {
	Pattern   types.Pattern `json:"pattern"`
	Timestamp time.Time     `json:"timestamp"`
}

func (l *PatternDiscovered) ContentType() string {
	return "application/json"
}
func (l *PatternDiscovered) TopicName() string {
	return "patterns.patternDiscovered"
}
func (l *PatternDiscovered) Body() []byte {
	b, _ := json.Marshal(l)
	return b
}

type SuggestionCreated struct {
	SuggestionID string    `json:"suggestionID"`
	PatternID    string    `json:"patternID,omitempty"`
	Category     string    `json:"category"`
	Priority     string    `json:"priority"`
	Timestamp    time.Time `json:"timestamp"`
}

func (l *SuggestionCreated) ContentType() string {
	return "application/json"
}
func (l *SuggestionCreated) TopicName() string {
	return "suggestions.suggestionCreated"
}
func (l *SuggestionCreated) Body() []byte {
	b, _ := json.Marshal(l)
	return b
}

type SuggestionApproved struct {
	SuggestionID string    `json:"suggestionID"`
	Timestamp    time.Time `json:"timestamp"`
}

func (l *SuggestionApproved) ContentType() string {
	return "application/json"
}
func (l *SuggestionApproved) TopicName() string {
	return "suggestions.suggestionApproved"
}
func (l *SuggestionApproved) Body() []byte {
	b, _ := json.Marshal(l)
	return b
}

type SuggestionDeployed struct {
	SuggestionID string    `json:"suggestionID"`
	ExternalID   string    `json:"externalAutomationID"`
	Timestamp    time.Time `json:"timestamp"`
}

func (l *SuggestionDeployed) ContentType() string {
	return "application/json"
}
func (l *SuggestionDeployed) TopicName() string {
	return "suggestions.suggestionDeployed"
}
func (l *SuggestionDeployed) Body() []byte {
	b, _ := json.Marshal(l)
	return b
}

// WeatherOpportunity is published by the weather scan when the current
// conditions match a high-confidence contextual pattern.
type WeatherOpportunity struct {
	EntityID  string    `json:"entityID"`
	PatternID string    `json:"patternID"`
	Condition string    `json:"condition"`
	Timestamp time.Time `json:"timestamp"`
}

func (l *WeatherOpportunity) ContentType() string {
	return "application/json"
}
func (l *WeatherOpportunity) TopicName() string {
	return "weather.opportunityDetected"
}
func (l *WeatherOpportunity) Body() []byte {
	b, _ := json.Marshal(l)
	return b
}

// IngestDegraded is published when the enrichment pipeline's validation
// health rating drops below healthy, and again when it recovers.
type IngestDegraded struct {
	Rating    string    `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

func (l *IngestDegraded) ContentType() string {
	return "application/json"
}
func (l *IngestDegraded) TopicName() string {
	return "events.ingestDegraded"
}
func (l *IngestDegraded) Body() []byte {
	b, _ := json.Marshal(l)
	return b
}

// TestCompleted reports the outcome of a requested automation test run.
type TestCompleted struct {
	SuggestionID string    `json:"suggestionID"`
	AutomationID string    `json:"automationID,omitempty"`
	Passed       bool      `json:"passed"`
	Triggered    bool      `json:"triggered"`
	Deleted      bool      `json:"deleted"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

func (l *TestCompleted) ContentType() string {
	return "application/json"
}
func (l *TestCompleted) TopicName() string {
	return "harness.testCompleted"
}
func (l *TestCompleted) Body() []byte {
	b, _ := json.Marshal(l)
	return b
}

// CleanupEscalated is published when the janitor could not delete a test
// automation and an administrator needs to look at the hub.
type CleanupEscalated struct {
	AutomationID string    `json:"automationID"`
	Reason       string    `json:"reason"`
	Timestamp    time.Time `json:"timestamp"`
}

func (l *CleanupEscalated) ContentType() string {
	return "application/json"
}
func (l *CleanupEscalated) TopicName() string {
	return "harness.cleanupEscalated"
}
func (l *CleanupEscalated) Body() []byte {
	b, _ := json.Marshal(l)
	return b
}
