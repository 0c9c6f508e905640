package hub

import (
	"encoding/json"

	"github.com/homelab-tools/home-intel/pkg/types"
)

const (
	frameTypeAuthRequired = "auth_required"
	frameTypeAuthOK       = "auth_ok"
	frameTypeAuthInvalid  = "auth_invalid"
	frameTypeResult       = "result"
	frameTypeEvent        = "event"
	frameTypePing         = "ping"
	frameTypePong         = "pong"
)

const (
	requestTypeAuth            = "auth"
	requestTypeSubscribeEvents = "subscribe_events"
	requestTypeDeviceRegistry  = "config/device_registry/list"
	requestTypeEntityRegistry  = "config/entity_registry/list"
	requestTypeConfigEntries   = "config_entries/list"
)

// inboundFrame is the envelope for every message the hub sends.
type inboundFrame struct {
	Type    string          `json:"type"`
	ID      int64           `json:"id,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *frameError     `json:"error,omitempty"`
	Event   *eventEnvelope  `json:"event,omitempty"`
}

type frameError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type eventEnvelope struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
	Origin    string          `json:"origin,omitempty"`
	TimeFired string          `json:"time_fired"`
	Context   types.EventContext `json:"context"`
}

type stateChangedData struct {
	EntityID string             `json:"entity_id"`
	OldState *types.EntityState `json:"old_state"`
	NewState *types.EntityState `json:"new_state"`
}

type authRequest struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

type subscribeRequest struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	EventType string `json:"event_type,omitempty"`
}

type registryRequest struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type pongResponse struct {
	ID   int64  `json:"id,omitempty"`
	Type string `json:"type"`
}

// decodeEvent converts an event envelope into the shared Event type. Data
// payloads other than state_changed keep their raw attributes only.
func decodeEvent(env *eventEnvelope) types.Event {
	e := types.Event{
		EventType: env.EventType,
		TimeFired: env.TimeFired,
		Context:   env.Context,
	}

	var data stateChangedData
	if err := json.Unmarshal(env.Data, &data); err == nil {
		e.EntityID = data.EntityID
		e.OldState = data.OldState
		e.NewState = data.NewState
	}

	return e
}
