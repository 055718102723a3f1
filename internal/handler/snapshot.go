package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dukerupert/chorelog/internal/snapshot"
	ws "github.com/dukerupert/chorelog/internal/websocket"
)

const snapshotListLimit = 50

type SnapshotHandler struct {
	Deps
	manager *snapshot.Manager
}

// NewSnapshotHandler serves snapshot endpoints. A nil manager answers every
// request as disabled.
func NewSnapshotHandler(d Deps, m *snapshot.Manager) *SnapshotHandler {
	return &SnapshotHandler{Deps: d, manager: m}
}

func (h *SnapshotHandler) enabled(w http.ResponseWriter) bool {
	if h.manager == nil || !h.manager.Enabled() {
		writeError(w, http.StatusServiceUnavailable, snapshot.ErrDisabled.Error())
		return false
	}
	return true
}

// List returns the manager state and the most recent snapshot records.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	snaps, err := h.manager.List(r.Context(), snapshotListLimit)
	if err != nil {
		h.Logger.Error("list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    h.manager.Status(),
		"snapshots": snaps,
	})
}

func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	sn, err := h.manager.Create(r.Context())
	if errors.Is(err, snapshot.ErrBusy) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "snapshot failed: "+err.Error())
		return
	}
	if _, err := h.manager.Prune(r.Context()); err != nil {
		h.Logger.Warn("prune snapshots", "error", err)
	}
	writeJSON(w, http.StatusCreated, sn)
}

// Restore replaces every log and member with snapshot {id} and tells open
// pages to reload both.
func (h *SnapshotHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if !h.enabled(w) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot id")
		return
	}
	doc, err := h.manager.Restore(r.Context(), id)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, snapshot.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, snapshot.ErrCorrupt):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		h.Logger.Error("restore snapshot", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to restore snapshot")
		return
	}

	h.publish(ws.EntityChoreLog, ws.ActionRestored, "")
	h.publish(ws.EntityFamilyMember, ws.ActionRestored, "")
	writeJSON(w, http.StatusOK, map[string]int{
		"logs":    len(doc.Logs),
		"members": len(doc.Members),
	})
}
