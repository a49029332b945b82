// Package server hosts the bridge between a scene-owning client and the shot
// resolution engine: it keeps the editable scene, resolves shots against it
// and pushes results to websocket subscribers.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"shotline/server/internal/field"
	"shotline/server/internal/shot"
	"shotline/server/logging"
	"shotline/server/trajectory/catalog"
)

const writeWait = 10 * time.Second

// HubConfig bundles the hub collaborators. Zero-value fields fall back to
// working defaults.
type HubConfig struct {
	Publisher logging.Publisher
	Catalog   *catalog.Catalog
	Sampler   shot.SamplerConfig
	Clock     func() time.Time
}

// DefaultHubConfig returns a config with every collaborator defaulted.
func DefaultHubConfig() HubConfig {
	return HubConfig{}
}

// Hub owns the live scene, the shot manager and all websocket subscribers.
type Hub struct {
	mu          sync.Mutex
	scene       field.Scene
	subscribers map[string]*subscriber
	nextSub     atomic.Uint64

	manager   *shot.Manager
	catalog   *catalog.Catalog
	publisher logging.Publisher
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub creates a hub with an empty scene.
func NewHub() *Hub {
	return NewHubWithConfig(DefaultHubConfig())
}

// NewHubWithConfig creates a hub using the supplied collaborators.
func NewHubWithConfig(cfg HubConfig) *Hub {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	hub := &Hub{
		scene:       field.Scene{GridSize: 1},
		subscribers: make(map[string]*subscriber),
		catalog:     cfg.Catalog,
		publisher:   publisher,
	}
	hub.manager = shot.NewManager(shot.ManagerConfig{
		Provider:  hub,
		Sampler:   cfg.Sampler,
		Publisher: publisher,
		Clock:     cfg.Clock,
	})
	return hub
}

// Walls implements field.Provider with a fresh copy of the scene walls.
func (h *Hub) Walls() []field.Wall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]field.Wall(nil), h.scene.Walls...)
}

// Occupants implements field.Provider with a fresh copy of the occupants.
func (h *Hub) Occupants() []field.Occupant {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]field.Occupant(nil), h.scene.Occupants...)
}

// GridScale implements field.Provider. Shots start at the acting occupant's
// center and scale by the scene grid size.
func (h *Hub) GridScale(acting *field.Occupant) field.GridScale {
	h.mu.Lock()
	defer h.mu.Unlock()
	scale := field.GridScale{DefSize: h.scene.GridSize}
	if scale.DefSize <= 0 {
		scale.DefSize = 1
	}
	if acting != nil {
		scale.DefPos = acting.Center
	}
	return scale
}

// Scene returns a deep copy of the current scene.
func (h *Hub) Scene() field.Scene {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scene.Clone()
}

// ReplaceScene swaps the whole scene and notifies subscribers.
func (h *Hub) ReplaceScene(scene field.Scene) {
	h.mu.Lock()
	h.scene = scene.Clone()
	snapshot := h.scene.Clone()
	h.mu.Unlock()
	h.broadcastScene(snapshot)
}

// UpsertOccupant adds or replaces an occupant by id.
func (h *Hub) UpsertOccupant(occ field.Occupant) error {
	if occ.ID == "" {
		return fmt.Errorf("hub: occupant id must not be empty")
	}
	h.mu.Lock()
	replaced := false
	for i := range h.scene.Occupants {
		if h.scene.Occupants[i].ID == occ.ID {
			h.scene.Occupants[i] = occ
			replaced = true
			break
		}
	}
	if !replaced {
		h.scene.Occupants = append(h.scene.Occupants, occ)
	}
	snapshot := h.scene.Clone()
	h.mu.Unlock()
	h.broadcastScene(snapshot)
	return nil
}

// RemoveOccupant drops an occupant by id.
func (h *Hub) RemoveOccupant(id string) bool {
	h.mu.Lock()
	removed := false
	for i := range h.scene.Occupants {
		if h.scene.Occupants[i].ID == id {
			h.scene.Occupants = append(h.scene.Occupants[:i], h.scene.Occupants[i+1:]...)
			removed = true
			break
		}
	}
	var snapshot field.Scene
	if removed {
		snapshot = h.scene.Clone()
	}
	h.mu.Unlock()
	if removed {
		h.broadcastScene(snapshot)
	}
	return removed
}

// UpsertWall adds or replaces a wall by id.
func (h *Hub) UpsertWall(wall field.Wall) error {
	if wall.ID == "" {
		return fmt.Errorf("hub: wall id must not be empty")
	}
	h.mu.Lock()
	replaced := false
	for i := range h.scene.Walls {
		if h.scene.Walls[i].ID == wall.ID {
			h.scene.Walls[i] = wall
			replaced = true
			break
		}
	}
	if !replaced {
		h.scene.Walls = append(h.scene.Walls, wall)
	}
	snapshot := h.scene.Clone()
	h.mu.Unlock()
	h.broadcastScene(snapshot)
	return nil
}

// RemoveWall drops a wall by id.
func (h *Hub) RemoveWall(id string) bool {
	h.mu.Lock()
	removed := false
	for i := range h.scene.Walls {
		if h.scene.Walls[i].ID == id {
			h.scene.Walls = append(h.scene.Walls[:i], h.scene.Walls[i+1:]...)
			removed = true
			break
		}
	}
	var snapshot field.Scene
	if removed {
		snapshot = h.scene.Clone()
	}
	h.mu.Unlock()
	if removed {
		h.broadcastScene(snapshot)
	}
	return removed
}

// Catalog exposes the trajectory template catalog, which may be nil.
func (h *Hub) Catalog() *catalog.Catalog {
	return h.catalog
}

// ShotRequest is a resolution order. Either Template names a catalog document
// or Payload carries an inline trajectory; Template wins when both are set.
// ActorID is optional; when set it must name a scene occupant.
type ShotRequest struct {
	ActorID  string        `json:"actorId,omitempty"`
	Heading  float64       `json:"heading,omitempty"`
	Template string        `json:"template,omitempty"`
	Payload  *shot.Payload `json:"payload,omitempty"`
}

// ResolveShot runs one full resolution pass and pushes the finished record to
// all subscribers. The uid is valid even when resolution halted on an error;
// the stored record then holds the partial result.
func (h *Hub) ResolveShot(ctx context.Context, req ShotRequest) (string, *shot.Record, error) {
	payload, err := h.requestPayload(req)
	if err != nil {
		return "", nil, err
	}

	var acting *field.Occupant
	if req.ActorID != "" {
		occ, ok := h.findOccupant(req.ActorID)
		if !ok {
			return "", nil, fmt.Errorf("hub: unknown actor %q", req.ActorID)
		}
		acting = &occ
	}

	uid, resolveErr := h.manager.CreateShot(ctx, acting, payload, req.Heading)
	rec, _ := h.manager.ShotRecord(uid)
	if rec != nil {
		h.broadcastShot(rec)
	}
	return uid, rec, resolveErr
}

func (h *Hub) requestPayload(req ShotRequest) (shot.Payload, error) {
	if req.Template != "" {
		if h.catalog == nil {
			return shot.Payload{}, fmt.Errorf("hub: no catalog loaded")
		}
		doc, ok := h.catalog.Get(req.Template)
		if !ok {
			return shot.Payload{}, fmt.Errorf("hub: unknown template %q", req.Template)
		}
		return doc.Payload(), nil
	}
	if req.Payload == nil || len(req.Payload.Trajectory.Segments) == 0 {
		return shot.Payload{}, fmt.Errorf("hub: request carries no trajectory")
	}
	return *req.Payload, nil
}

func (h *Hub) findOccupant(id string) (field.Occupant, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, occ := range h.scene.Occupants {
		if occ.ID == id {
			return occ, true
		}
	}
	return field.Occupant{}, false
}

// ShotResult returns the finished result for uid.
func (h *Hub) ShotResult(uid string) (shot.Result, bool) {
	return h.manager.ShotResult(uid)
}

// ShotRecord returns the full record for uid.
func (h *Hub) ShotRecord(uid string) (*shot.Record, bool) {
	return h.manager.ShotRecord(uid)
}

// RemoveShot drops the record for uid, typically after damage application.
func (h *Hub) RemoveShot(uid string) bool {
	return h.manager.RemoveShot(uid)
}

// ClearShots drops every stored record.
func (h *Hub) ClearShots() {
	h.manager.ClearShots()
}

// ShotCount returns the number of stored records.
func (h *Hub) ShotCount() int {
	return h.manager.Store().Len()
}

// Subscribe registers a websocket connection and returns its subscriber id
// plus the current scene snapshot.
func (h *Hub) Subscribe(conn *websocket.Conn) (string, field.Scene) {
	id := fmt.Sprintf("sub-%d", h.nextSub.Add(1))
	sub := &subscriber{conn: conn}

	h.mu.Lock()
	h.subscribers[id] = sub
	snapshot := h.scene.Clone()
	h.mu.Unlock()

	return id, snapshot
}

// Send writes a text frame to one subscriber through its write lock, so
// direct replies never race the broadcast writer.
func (h *Hub) Send(id string, data []byte) error {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("hub: unknown subscriber %q", id)
	}
	return sub.write(data)
}

// Unsubscribe removes the subscriber and closes its connection.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}

func (h *Hub) broadcastScene(scene field.Scene) {
	h.broadcast(sceneMessage{Type: msgScene, Scene: scene})
}

func (h *Hub) broadcastShot(rec *shot.Record) {
	h.broadcast(shotMessage{Type: msgShot, UID: rec.UID, Result: rec.Result, ActualHits: rec.ActualHits})
}

// broadcast marshals msg once and writes it to every subscriber, dropping
// connections whose writes fail.
func (h *Hub) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.publisher.Publish(context.Background(), logging.Event{
			Type:     "hub.broadcast_failed",
			Severity: logging.SeverityError,
			Category: logging.CategorySystem,
			Payload:  map[string]any{"error": err.Error()},
		})
		return
	}

	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.Unsubscribe(id)
		}
	}
}
