package shot

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"shotline/server/internal/field"
	"shotline/server/logging"
	"shotline/server/logging/shots"
)

// ManagerConfig bundles the collaborators a Manager needs. Zero-value
// fields fall back to working defaults, except Provider which is required.
type ManagerConfig struct {
	Provider  field.Provider
	Store     *Store
	Sampler   SamplerConfig
	Publisher logging.Publisher
	Clock     func() time.Time
}

// Manager orchestrates shot resolution: it snapshots obstacles, drives the
// resolver over a payload's segments and registers the finished record.
type Manager struct {
	provider  field.Provider
	store     *Store
	sampler   SamplerConfig
	publisher logging.Publisher
	clock     func() time.Time
	seq       atomic.Uint64
}

// NewManager constructs a manager. cfg.Provider must not be nil.
func NewManager(cfg ManagerConfig) *Manager {
	store := cfg.Store
	if store == nil {
		store = NewStore()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	sampler := cfg.Sampler
	if sampler == (SamplerConfig{}) {
		sampler = DefaultSamplerConfig()
	}
	return &Manager{
		provider:  cfg.Provider,
		store:     store,
		sampler:   sampler,
		publisher: publisher,
		clock:     clock,
	}
}

// Store exposes the shot registry so callers control record retention.
func (m *Manager) Store() *Store {
	return m.store
}

func (m *Manager) newUID() string {
	return fmt.Sprintf("shot-%d-%d", m.clock().UnixNano(), m.seq.Add(1))
}

// CreateShot resolves a payload for the acting occupant and registers the
// resulting record. The pass is fully synchronous: the obstacle snapshot is
// read once up front and never re-read, so the record is complete and
// immutable by the time the uid is returned. Unknown segment kinds halt the
// shot and surface as an error alongside the partial record's uid.
func (m *Manager) CreateShot(ctx context.Context, acting *field.Occupant, payload Payload, headingDeg float64) (string, error) {
	uid := m.newUID()
	rec := &Record{UID: uid}

	snap := &field.Snapshot{
		Walls:     m.provider.Walls(),
		Occupants: m.provider.Occupants(),
	}
	scale := m.provider.GridScale(acting)
	resolver := NewResolver(snap, acting, scale.DefSize, m.sampler)

	actor := logging.EntityRef{Kind: logging.EntityKindOccupant}
	if acting != nil {
		actor.ID = acting.ID
	}

	cursor := Cursor{Position: scale.DefPos, Heading: headingDeg}
	var resolveErr error
	for i, seg := range payload.Trajectory.Segments {
		next, cont, err := resolver.Resolve(rec, seg, cursor)
		if err != nil {
			resolveErr = fmt.Errorf("segment %d: %w", i, err)
			shots.UnknownSegment(ctx, m.publisher, uid, actor, i, string(seg.Kind()))
			break
		}
		cursor = next
		if !cont {
			shots.Halted(ctx, m.publisher, uid, actor, i, string(seg.Kind()))
			break
		}
	}

	m.store.Put(rec)
	shots.Resolved(ctx, m.publisher, uid, actor, len(payload.Trajectory.Segments), len(rec.Result.Paths), len(rec.Result.Hits))
	return uid, resolveErr
}

// ShotResult returns the finished result for uid.
func (m *Manager) ShotResult(uid string) (Result, bool) {
	rec, ok := m.store.Get(uid)
	if !ok {
		return Result{}, false
	}
	return rec.Result, true
}

// ShotRecord returns the full record for uid, including actual hits.
func (m *Manager) ShotRecord(uid string) (*Record, bool) {
	return m.store.Get(uid)
}

// RemoveShot drops the record for uid.
func (m *Manager) RemoveShot(uid string) bool {
	return m.store.Remove(uid)
}

// ClearShots drops every record.
func (m *Manager) ClearShots() {
	m.store.Clear()
}
