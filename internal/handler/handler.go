// Package handler serves the JSON API and the HTML pages and partials.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorelog/internal/insights"
	"github.com/dukerupert/chorelog/internal/model"
	"github.com/dukerupert/chorelog/internal/store"
	ws "github.com/dukerupert/chorelog/internal/websocket"
)

// Clock supplies the current time in the household time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.location())
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Deps are the collaborators shared by every handler.
type Deps struct {
	Logs     *store.LogStore
	Members  *store.MemberStore
	Settings *store.SettingsStore
	Hub      *ws.Hub
	Insights *insights.Requester
	Clock    Clock
	Logger   *slog.Logger
}

// ActiveMember is the profile currently logging chores, loaded once per request.
type ActiveMember struct {
	Member *model.FamilyMember
}

func (a ActiveMember) ID() string {
	if a.Member == nil {
		return ""
	}
	return a.Member.ID
}

func (a ActiveMember) Set() bool { return a.Member != nil }

// state is what one request reads from the stores.
type state struct {
	Logs    []model.ChoreLog
	Members []model.FamilyMember
	Active  ActiveMember
}

// snapshot reads logs, members and the active pointer. Read failures are
// logged and leave the affected collection empty so pages still render.
func (d Deps) snapshot(ctx context.Context) state {
	var st state

	logs, err := d.Logs.List(ctx)
	if err != nil {
		d.Logger.Error("read logs", "error", err)
		logs = []model.ChoreLog{}
	}
	st.Logs = logs

	members, err := d.Members.List(ctx)
	if err != nil {
		d.Logger.Error("read members", "error", err)
		members = []model.FamilyMember{}
	}
	st.Members = members

	activeID, err := d.Members.GetActiveID(ctx)
	if err != nil {
		d.Logger.Error("read active member", "error", err)
	}
	if activeID != nil {
		for i := range members {
			if members[i].ID == *activeID {
				st.Active = ActiveMember{Member: &members[i]}
				break
			}
		}
	}
	return st
}

func (d Deps) publish(entity, action, id string) {
	if d.Hub != nil {
		d.Hub.Publish(entity, action, id)
	}
}

// inputError is a client mistake; handlers answer it with 400.
type inputError string

func (e inputError) Error() string { return string(e) }

func isInputError(err error) bool {
	var ie inputError
	return errors.As(err, &ie)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 * 1024

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}
