// Package ws upgrades live-update connections and feeds client commands into
// the hub.
package ws

import (
	"encoding/json"
	"log"
	nethttp "net/http"

	"github.com/gorilla/websocket"

	"shotline/server"
)

type HandlerConfig struct {
	Logger *log.Logger
}

type Handler struct {
	hub      *server.Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

type clientMessage struct {
	Type    string             `json:"type"`
	Request server.ShotRequest `json:"request,omitempty"`
	UID     string             `json:"uid,omitempty"`
}

type ackMessage struct {
	Type string `json:"type"`
	UID  string `json:"uid,omitempty"`
}

type errorReply struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Handle upgrades the connection, sends the current scene and then serves
// resolve/remove/clear commands until the client disconnects. Resolved shot
// records arrive through the hub broadcast, not as direct replies.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed: %v", err)
		return
	}

	subID, scene := h.hub.Subscribe(conn)
	defer h.hub.Unsubscribe(subID)

	initial, err := json.Marshal(struct {
		Type  string `json:"type"`
		Scene any    `json:"scene"`
	}{Type: "scene", Scene: scene})
	if err != nil {
		h.logger.Printf("failed to marshal initial scene for %s: %v", subID, err)
		return
	}
	if err := h.hub.Send(subID, initial); err != nil {
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", subID, err)
			h.writeJSON(subID, errorReply{Type: "error", Reason: "malformed message"})
			continue
		}

		switch msg.Type {
		case "resolve":
			uid, _, err := h.hub.ResolveShot(r.Context(), msg.Request)
			if err != nil && uid == "" {
				h.writeJSON(subID, errorReply{Type: "error", Reason: err.Error()})
				continue
			}
			// The record itself is broadcast to every subscriber; the ack
			// only carries the uid back to the requester.
			h.writeJSON(subID, ackMessage{Type: "resolveAck", UID: uid})
		case "removeShot":
			if !h.hub.RemoveShot(msg.UID) {
				h.writeJSON(subID, errorReply{Type: "error", Reason: "unknown shot"})
				continue
			}
			h.writeJSON(subID, ackMessage{Type: "removeAck", UID: msg.UID})
		case "clearShots":
			h.hub.ClearShots()
			h.writeJSON(subID, ackMessage{Type: "clearAck"})
		default:
			h.writeJSON(subID, errorReply{Type: "error", Reason: "unknown message type"})
		}
	}
}

func (h *Handler) writeJSON(subID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("failed to marshal reply for %s: %v", subID, err)
		return
	}
	if err := h.hub.Send(subID, data); err != nil {
		h.logger.Printf("failed to write reply for %s: %v", subID, err)
	}
}
