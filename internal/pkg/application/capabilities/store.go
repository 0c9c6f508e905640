package capabilities

import (
	"context"
	"sync/atomic"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/homelab-tools/home-intel/pkg/types"
)

// DeviceEntry is one row of the hub's device registry broadcast.
type DeviceEntry struct {
	ID           string   `json:"id"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
	AreaID       string   `json:"area_id,omitempty"`
	Exposes      []Expose `json:"exposes,omitempty"`
}

// EntityEntry is one row of the hub's entity registry.
type EntityEntry struct {
	EntityID       string `json:"entity_id"`
	DeviceID       string `json:"device_id,omitempty"`
	AreaID         string `json:"area_id,omitempty"`
	OriginalName   string `json:"original_name,omitempty"`
	Icon           string `json:"icon,omitempty"`
	EntityCategory string `json:"entity_category,omitempty"`
	DeviceClass    string `json:"device_class,omitempty"`
}

//go:generate moq -rm -out store_mock.go . Store
type Store interface {
	// HandleDeviceList rebuilds the model index from a device registry
	// broadcast. Readers always see either the old or the new map, never a
	// partial one.
	HandleDeviceList(ctx context.Context, devices []DeviceEntry)
	HandleEntityList(ctx context.Context, entities []EntityEntry)

	ByModel(model string) (types.DeviceCapabilities, bool)
	ByDeviceID(deviceID string) (types.DeviceCapabilities, bool)
	EntityMetadata(entityID string) (types.EntityMetadata, bool)

	// Snapshot returns the full capability index. The map is shared with
	// the store and must not be mutated; refreshes replace it wholesale.
	Snapshot() map[string]types.DeviceCapabilities
}

type store struct {
	byModel  atomic.Pointer[map[string]types.DeviceCapabilities]
	byDevice atomic.Pointer[map[string]types.DeviceCapabilities]
	entities atomic.Pointer[map[string]types.EntityMetadata]
}

func NewStore() Store {
	s := &store{}

	empty := map[string]types.DeviceCapabilities{}
	s.byModel.Store(&empty)
	s.byDevice.Store(&empty)

	emptyEntities := map[string]types.EntityMetadata{}
	s.entities.Store(&emptyEntities)

	return s
}

func (s *store) HandleDeviceList(ctx context.Context, devices []DeviceEntry) {
	log := logging.GetFromContext(ctx)

	byModel := make(map[string]types.DeviceCapabilities, len(devices))
	byDevice := make(map[string]types.DeviceCapabilities, len(devices))

	for _, d := range devices {
		if d.Model == "" {
			continue
		}

		dc, seen := byModel[d.Model]
		if !seen {
			dc = types.DeviceCapabilities{
				Manufacturer: d.Manufacturer,
				Model:        d.Model,
				Capabilities: ParseExposes(ctx, d.Exposes),
			}
			byModel[d.Model] = dc
		}

		if d.ID != "" {
			byDevice[d.ID] = dc
		}
	}

	s.byModel.Store(&byModel)
	s.byDevice.Store(&byDevice)

	log.Debug("capability index refreshed", "models", len(byModel), "devices", len(byDevice))
}

func (s *store) HandleEntityList(ctx context.Context, entities []EntityEntry) {
	index := make(map[string]types.EntityMetadata, len(entities))

	for _, e := range entities {
		if e.EntityID == "" {
			continue
		}

		index[e.EntityID] = types.EntityMetadata{
			DeviceClass:    e.DeviceClass,
			FriendlyName:   e.OriginalName,
			AreaID:         e.AreaID,
			DeviceID:       e.DeviceID,
			Icon:           e.Icon,
			EntityCategory: e.EntityCategory,
		}
	}

	s.entities.Store(&index)

	logging.GetFromContext(ctx).Debug("entity registry refreshed", "entities", len(index))
}

func (s *store) ByModel(model string) (types.DeviceCapabilities, bool) {
	dc, ok := (*s.byModel.Load())[model]
	return dc, ok
}

func (s *store) ByDeviceID(deviceID string) (types.DeviceCapabilities, bool) {
	dc, ok := (*s.byDevice.Load())[deviceID]
	return dc, ok
}

func (s *store) EntityMetadata(entityID string) (types.EntityMetadata, bool) {
	m, ok := (*s.entities.Load())[entityID]
	return m, ok
}

func (s *store) Snapshot() map[string]types.DeviceCapabilities {
	return *s.byModel.Load()
}
