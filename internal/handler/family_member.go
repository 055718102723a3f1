package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/model"
	"github.com/dukerupert/chorelog/internal/store"
	ws "github.com/dukerupert/chorelog/internal/websocket"
)

type FamilyMemberHandler struct {
	Deps
}

func NewFamilyMemberHandler(d Deps) *FamilyMemberHandler {
	return &FamilyMemberHandler{Deps: d}
}

type memberRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`
}

// profile validates the request and returns it as an unsaved member.
func (req memberRequest) profile() (model.FamilyMember, error) {
	m := model.FamilyMember{
		Name:   strings.TrimSpace(req.Name),
		Avatar: strings.TrimSpace(req.Avatar),
		Color:  strings.TrimSpace(req.Color),
	}
	if !m.Complete() {
		return m, inputError("name, avatar and color are required")
	}
	if _, ok := catalog.MemberColorByToken(m.Color); !ok {
		return m, inputError("unknown color " + m.Color)
	}
	return m, nil
}

func (h *FamilyMemberHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot(r.Context()).Members)
}

func (h *FamilyMemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	member, err := h.createMember(r.Context(), req)
	if isInputError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("create member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create family member")
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *FamilyMemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	member, err := h.updateMember(r.Context(), r.PathValue("id"), req)
	if isInputError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Logger.Error("update member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update family member")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *FamilyMemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	found, err := h.deleteMember(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Logger.Error("delete member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete family member")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder sets the display order to the ids given, first to last. Every
// listed id must name a member, at most once. Members left out keep their
// relative order after the listed ones.
func (h *FamilyMemberHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	members, err := h.Members.List(r.Context())
	if err != nil {
		h.Logger.Error("list members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reorder family members")
		return
	}
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	listed := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		if !known[id] {
			writeError(w, http.StatusBadRequest, "unknown member "+id)
			return
		}
		if listed[id] {
			writeError(w, http.StatusBadRequest, "member "+id+" listed twice")
			return
		}
		listed[id] = true
	}
	order := append([]string{}, req.IDs...)
	for _, m := range members {
		if !listed[m.ID] {
			order = append(order, m.ID)
		}
	}
	if err := h.Members.UpdateSortOrder(r.Context(), order); err != nil {
		h.Logger.Error("reorder members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reorder family members")
		return
	}
	h.publish(ws.EntityFamilyMember, ws.ActionUpdated, "")
	h.List(w, r)
}

// GetActive returns the active member, or null when nobody is selected.
func (h *FamilyMemberHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	st := h.snapshot(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"member": st.Active.Member})
}

// SetActive selects the member named by id; a null id clears the selection.
func (h *FamilyMemberHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID *string `json:"id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.selectMember(r.Context(), req.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "family member not found")
		return
	}
	if err != nil {
		h.Logger.Error("set active member", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to set active member")
		return
	}
	h.GetActive(w, r)
}

func (d Deps) createMember(ctx context.Context, req memberRequest) (*model.FamilyMember, error) {
	p, err := req.profile()
	if err != nil {
		return nil, err
	}
	member, err := d.Members.Create(ctx, p.Name, p.Avatar, p.Color)
	if err != nil {
		return nil, err
	}
	d.publish(ws.EntityFamilyMember, ws.ActionCreated, member.ID)
	return member, nil
}

// updateMember returns nil, nil when id names no member.
func (d Deps) updateMember(ctx context.Context, id string, req memberRequest) (*model.FamilyMember, error) {
	p, err := req.profile()
	if err != nil {
		return nil, err
	}
	member, err := d.Members.Update(ctx, id, p.Name, p.Avatar, p.Color)
	if err != nil || member == nil {
		return member, err
	}
	d.publish(ws.EntityFamilyMember, ws.ActionUpdated, id)
	return member, nil
}

func (d Deps) deleteMember(ctx context.Context, id string) (bool, error) {
	existing, err := d.Members.GetByID(ctx, id)
	if err != nil || existing == nil {
		return false, err
	}
	if err := d.Members.Delete(ctx, id); err != nil {
		return false, err
	}
	d.publish(ws.EntityFamilyMember, ws.ActionDeleted, id)
	return true, nil
}

func (d Deps) selectMember(ctx context.Context, id *string) error {
	if err := d.Members.SetActiveID(ctx, id); err != nil {
		return err
	}
	var published string
	if id != nil {
		published = *id
	}
	d.publish(ws.EntityActiveMember, ws.ActionSelected, published)
	return nil
}
