package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/metrics"
	"github.com/dukerupert/chorelog/internal/model"
	ws "github.com/dukerupert/chorelog/internal/websocket"
)

type LogHandler struct {
	Deps
}

func NewLogHandler(d Deps) *LogHandler {
	return &LogHandler{Deps: d}
}

// Catalog lists the built-in chore types.
func (h *LogHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.All())
}

func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot(r.Context()).Logs)
}

func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"member_id"`
		ChoreID  string `json:"chore_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respondCreated(w, r, req.MemberID, []string{req.ChoreID})
}

// Batch logs several chores at once for one member.
func (h *LogHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string   `json:"member_id"`
		ChoreIDs []string `json:"chore_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respondCreated(w, r, req.MemberID, req.ChoreIDs)
}

func (h *LogHandler) respondCreated(w http.ResponseWriter, r *http.Request, memberID string, choreIDs []string) {
	logs, err := h.addLogs(r.Context(), memberID, choreIDs)
	if isInputError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("add logs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save log")
		return
	}
	writeJSON(w, http.StatusCreated, logs)
}

func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.removeLog(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Logger.Error("remove log", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete log")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "log not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear deletes every log. It refuses unless confirm=true is passed.
func (h *LogHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "clearing all logs requires confirm=true")
		return
	}
	n, err := h.clearLogs(r.Context())
	if err != nil {
		h.Logger.Error("clear logs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear logs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// resolveMember returns memberID when it names an existing member, or the
// active member when memberID is empty.
func (d Deps) resolveMember(ctx context.Context, memberID string) (string, error) {
	if memberID == "" {
		active, err := d.Members.GetActiveID(ctx)
		if err != nil {
			return "", err
		}
		if active == nil {
			return "", inputError("no active member selected")
		}
		return *active, nil
	}
	m, err := d.Members.GetByID(ctx, memberID)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", inputError("unknown member")
	}
	return m.ID, nil
}

// addLogs stamps one log per chore id at the current time, each a
// millisecond after the previous so their order survives sorting.
func (d Deps) addLogs(ctx context.Context, memberID string, choreIDs []string) ([]model.ChoreLog, error) {
	if len(choreIDs) == 0 {
		return nil, inputError("chore_id is required")
	}
	for _, id := range choreIDs {
		if _, ok := catalog.Lookup(id); !ok {
			return nil, inputError(fmt.Sprintf("unknown chore %q", id))
		}
	}
	memberID, err := d.resolveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	now := d.Clock.now()
	nls := make([]model.NewChoreLog, len(choreIDs))
	for i, choreID := range choreIDs {
		nls[i] = model.NewLogAt(memberID, choreID, now.Add(time.Duration(i)*time.Millisecond))
	}
	ids, err := d.Logs.AddAll(ctx, nls)
	if err != nil {
		return nil, err
	}

	logs := make([]model.ChoreLog, len(ids))
	for i, id := range ids {
		logs[i] = model.ChoreLog{
			ID:         id,
			MemberID:   nls[i].MemberID,
			ChoreID:    nls[i].ChoreID,
			Timestamp:  nls[i].Timestamp,
			DateString: nls[i].DateString,
		}
		d.publish(ws.EntityChoreLog, ws.ActionCreated, id)
	}
	metrics.LogsCreated.Add(float64(len(ids)))
	d.Logger.Info("chores logged", "member", memberID, "count", len(ids))
	return logs, nil
}

func (d Deps) removeLog(ctx context.Context, id string) (bool, error) {
	removed, err := d.Logs.Remove(ctx, id)
	if err != nil || !removed {
		return removed, err
	}
	metrics.LogsDeleted.Inc()
	d.publish(ws.EntityChoreLog, ws.ActionDeleted, id)
	return true, nil
}

func (d Deps) clearLogs(ctx context.Context) (int64, error) {
	n, err := d.Logs.ClearAll(ctx)
	if err != nil {
		return 0, err
	}
	metrics.LogsDeleted.Add(float64(n))
	d.publish(ws.EntityChoreLog, ws.ActionCleared, "")
	d.Logger.Info("logs cleared", "count", n)
	return n, nil
}
