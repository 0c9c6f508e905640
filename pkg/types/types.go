package types

import (
	"time"
)

// Event is a raw hub event as received over the control channel. Timestamps
// stay as the hub sent them; normalization parses and converts them.
type Event struct {
	EventType string       `json:"event_type"`
	TimeFired string       `json:"time_fired,omitempty"`
	EntityID  string       `json:"entity_id,omitempty"`
	Domain    string       `json:"domain,omitempty"`
	OldState  *EntityState `json:"old_state,omitempty"`
	NewState  *EntityState `json:"new_state,omitempty"`
	Context   EventContext `json:"context"`

	// ReceivedAt is set by the session manager when the frame arrives.
	ReceivedAt time.Time `json:"-"`
}

type EntityState struct {
	EntityID    string         `json:"entity_id"`
	State       any            `json:"state"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	LastChanged string         `json:"last_changed,omitempty"`
	LastUpdated string         `json:"last_updated,omitempty"`
}

type EventContext struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}

// NormalizedEvent is an Event after validation and normalization. Timestamps
// are UTC, state values are coerced and units canonicalized.
type NormalizedEvent struct {
	EventType string         `json:"event_type"`
	TimeFired time.Time      `json:"time_fired"`
	EntityID  string         `json:"entity_id"`
	Domain    string         `json:"domain"`
	State     any            `json:"state"`
	Previous  any            `json:"previous_state,omitempty"`
	Attrs     map[string]any `json:"attributes,omitempty"`
	Context   EventContext   `json:"context"`

	Metadata EntityMetadata `json:"entity_metadata"`

	SyntheticTimestamp bool `json:"synthetic_timestamp,omitempty"`
}

type EntityMetadata struct {
	Domain         string `json:"domain"`
	DeviceClass    string `json:"device_class,omitempty"`
	FriendlyName   string `json:"friendly_name,omitempty"`
	AreaID         string `json:"area_id,omitempty"`
	DeviceID       string `json:"device_id,omitempty"`
	Icon           string `json:"icon,omitempty"`
	EntityCategory string `json:"entity_category,omitempty"`
}

// EnrichedEvent is a NormalizedEvent with optional context attached.
type EnrichedEvent struct {
	NormalizedEvent

	Weather   *WeatherInfo `json:"weather,omitempty"`
	Occupancy *Occupancy   `json:"occupancy,omitempty"`

	DurationInState *float64 `json:"duration_in_state_seconds,omitempty"`
}

type WeatherInfo struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"condition"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location"`
}

type Occupancy struct {
	IsHome     bool    `json:"is_home"`
	IsWFH      bool    `json:"is_wfh"`
	IsAway     bool    `json:"is_away"`
	Confidence float64 `json:"confidence"`
}

const (
	CapabilityTypeComposite = "composite"
	CapabilityTypeEnum      = "enum"
	CapabilityTypeNumeric   = "numeric"
	CapabilityTypeBinary    = "binary"
)

const (
	ComplexityEasy     = "easy"
	ComplexityMedium   = "medium"
	ComplexityAdvanced = "advanced"
)

type Capability struct {
	Type       string   `json:"type"`
	Features   []string `json:"features,omitempty"`
	Values     []string `json:"values,omitempty"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	ValueOn    string   `json:"value_on,omitempty"`
	ValueOff   string   `json:"value_off,omitempty"`
	Complexity string   `json:"complexity"`
}

type DeviceCapabilities struct {
	Manufacturer string                `json:"manufacturer"`
	Model        string                `json:"model"`
	Capabilities map[string]Capability `json:"capabilities"`
}

const (
	PatternTypeTimeOfDay    = "time_of_day"
	PatternTypeCoOccurrence = "co_occurrence"
	PatternTypeSequence     = "sequence"
	PatternTypeContextual   = "contextual"
	PatternTypeDuration     = "duration"
	PatternTypeAnomaly      = "anomaly"
)

type Pattern struct {
	PatternID   string         `json:"patternID"`
	PatternType string         `json:"patternType"`
	DeviceID    string         `json:"deviceID,omitempty"`
	DevicePair  []string       `json:"devicePair,omitempty"`
	Sequence    []string       `json:"sequence,omitempty"`
	Confidence  float64        `json:"confidence"`
	Occurrences int            `json:"occurrences"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	FirstSeen   time.Time      `json:"firstSeen"`
	LastSeen    time.Time      `json:"lastSeen"`
	Suggested   bool           `json:"suggested"`
}

const (
	SuggestionStatusDraft    = "draft"
	SuggestionStatusApproved = "approved"
	SuggestionStatusDeployed = "deployed"
	SuggestionStatusRejected = "rejected"
)

const (
	CategoryEnergy      = "energy"
	CategoryComfort     = "comfort"
	CategorySecurity    = "security"
	CategoryConvenience = "convenience"
)

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Suggestion struct {
	SuggestionID    string               `json:"suggestionID"`
	PatternID       string               `json:"patternID,omitempty"`
	Status          string               `json:"status"`
	Description     string               `json:"description"`
	Capabilities    []DeviceCapabilities `json:"deviceCapabilities,omitempty"`
	RefinementCount int                  `json:"refinementCount"`
	AutomationYAML  *string              `json:"automationYAML,omitempty"`
	Category        string               `json:"category"`
	Priority        string               `json:"priority"`
	Confidence      float64              `json:"confidence"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	ApprovedAt      *time.Time           `json:"approvedAt,omitempty"`
	DeployedAt      *time.Time           `json:"deployedAt,omitempty"`
	ExternalID      string               `json:"externalAutomationID,omitempty"`
}

// Aggregate is a compressed per-period rollup used as detector input.
type Aggregate struct {
	Date        time.Time      `json:"date"`
	Period      string         `json:"period"`
	Measurement string         `json:"measurement"`
	EntityID    string         `json:"entityID,omitempty"`
	Fields      map[string]any `json:"fields"`
}

type Collection[T any] struct {
	Data       []T
	Count      uint64
	Offset     uint64
	Limit      uint64
	TotalCount uint64
}
