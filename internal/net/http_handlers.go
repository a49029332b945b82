// Package net exposes the hub over HTTP: scene editing, shot resolution and
// the trajectory template listing.
package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/mux"

	"shotline/server"
	"shotline/server/internal/field"
	"shotline/server/internal/shot"
)

type HTTPHandlerConfig struct {
	Logger *log.Logger
}

type handlers struct {
	hub    *server.Hub
	logger *log.Logger
}

// NewHTTPHandler builds the REST surface for a hub.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	h := &handlers{hub: hub, logger: logger}

	router := mux.NewRouter()
	router.HandleFunc("/health", h.health).Methods(nethttp.MethodGet)

	router.HandleFunc("/scene", h.getScene).Methods(nethttp.MethodGet)
	router.HandleFunc("/scene", h.putScene).Methods(nethttp.MethodPut)
	router.HandleFunc("/scene/occupants/{id}", h.putOccupant).Methods(nethttp.MethodPut)
	router.HandleFunc("/scene/occupants/{id}", h.deleteOccupant).Methods(nethttp.MethodDelete)
	router.HandleFunc("/scene/walls/{id}", h.putWall).Methods(nethttp.MethodPut)
	router.HandleFunc("/scene/walls/{id}", h.deleteWall).Methods(nethttp.MethodDelete)

	router.HandleFunc("/shots", h.postShot).Methods(nethttp.MethodPost)
	router.HandleFunc("/shots", h.clearShots).Methods(nethttp.MethodDelete)
	router.HandleFunc("/shots/{uid}", h.getShot).Methods(nethttp.MethodGet)
	router.HandleFunc("/shots/{uid}", h.deleteShot).Methods(nethttp.MethodDelete)

	router.HandleFunc("/templates", h.listTemplates).Methods(nethttp.MethodGet)
	router.HandleFunc("/templates/{id}", h.getTemplate).Methods(nethttp.MethodGet)

	return router
}

func (h *handlers) health(w nethttp.ResponseWriter, _ *nethttp.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.logger, struct {
		Status     string `json:"status"`
		ServerTime int64  `json:"serverTime"`
		Shots      int    `json:"shots"`
	}{Status: "ok", ServerTime: time.Now().UnixMilli(), Shots: h.hub.ShotCount()})
}

func (h *handlers) getScene(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, h.logger, h.hub.Scene())
}

func (h *handlers) putScene(w nethttp.ResponseWriter, r *nethttp.Request) {
	var scene field.Scene
	if !decodeBody(w, r, &scene) {
		return
	}
	h.hub.ReplaceScene(scene)
	writeJSON(w, h.logger, h.hub.Scene())
}

func (h *handlers) putOccupant(w nethttp.ResponseWriter, r *nethttp.Request) {
	var occ field.Occupant
	if !decodeBody(w, r, &occ) {
		return
	}
	occ.ID = mux.Vars(r)["id"]
	if err := h.hub.UpsertOccupant(occ); err != nil {
		httpError(w, err.Error(), nethttp.StatusBadRequest)
		return
	}
	writeJSON(w, h.logger, occ)
}

func (h *handlers) deleteOccupant(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.hub.RemoveOccupant(mux.Vars(r)["id"]) {
		httpError(w, "unknown occupant", nethttp.StatusNotFound)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

func (h *handlers) putWall(w nethttp.ResponseWriter, r *nethttp.Request) {
	var wall field.Wall
	if !decodeBody(w, r, &wall) {
		return
	}
	wall.ID = mux.Vars(r)["id"]
	if err := h.hub.UpsertWall(wall); err != nil {
		httpError(w, err.Error(), nethttp.StatusBadRequest)
		return
	}
	writeJSON(w, h.logger, wall)
}

func (h *handlers) deleteWall(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.hub.RemoveWall(mux.Vars(r)["id"]) {
		httpError(w, "unknown wall", nethttp.StatusNotFound)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

type shotResponse struct {
	UID        string      `json:"uid"`
	Result     shot.Result `json:"shotResult"`
	ActualHits []shot.Hit  `json:"actualHits,omitempty"`
	Error      string      `json:"error,omitempty"`
}

func (h *handlers) postShot(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req server.ShotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	uid, rec, err := h.hub.ResolveShot(r.Context(), req)
	if err != nil && rec == nil {
		httpError(w, err.Error(), nethttp.StatusBadRequest)
		return
	}

	resp := shotResponse{UID: uid}
	if rec != nil {
		resp.Result = rec.Result
		resp.ActualHits = rec.ActualHits
	}
	if err != nil {
		// Partial resolution: the stored record is still valid up to the
		// failing segment.
		resp.Error = err.Error()
	}
	writeJSON(w, h.logger, resp)
}

func (h *handlers) getShot(w nethttp.ResponseWriter, r *nethttp.Request) {
	rec, ok := h.hub.ShotRecord(mux.Vars(r)["uid"])
	if !ok {
		httpError(w, "unknown shot", nethttp.StatusNotFound)
		return
	}
	writeJSON(w, h.logger, shotResponse{UID: rec.UID, Result: rec.Result, ActualHits: rec.ActualHits})
}

func (h *handlers) deleteShot(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !h.hub.RemoveShot(mux.Vars(r)["uid"]) {
		httpError(w, "unknown shot", nethttp.StatusNotFound)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

func (h *handlers) clearShots(w nethttp.ResponseWriter, _ *nethttp.Request) {
	h.hub.ClearShots()
	w.WriteHeader(nethttp.StatusNoContent)
}

func (h *handlers) listTemplates(w nethttp.ResponseWriter, _ *nethttp.Request) {
	cat := h.hub.Catalog()
	if cat == nil {
		writeJSON(w, h.logger, []string{})
		return
	}
	writeJSON(w, h.logger, cat.IDs())
}

func (h *handlers) getTemplate(w nethttp.ResponseWriter, r *nethttp.Request) {
	cat := h.hub.Catalog()
	if cat == nil {
		httpError(w, "no catalog loaded", nethttp.StatusNotFound)
		return
	}
	doc, ok := cat.Get(mux.Vars(r)["id"])
	if !ok {
		httpError(w, "unknown template", nethttp.StatusNotFound)
		return
	}
	writeJSON(w, h.logger, doc)
}

func decodeBody(w nethttp.ResponseWriter, r *nethttp.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpError(w, "invalid JSON body: "+err.Error(), nethttp.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w nethttp.ResponseWriter, logger *log.Logger, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("failed to encode response: %v", err)
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: message})
}
