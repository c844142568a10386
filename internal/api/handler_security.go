package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ViktorMash/resource-booking-system/internal/domain"
)

// === Users ===

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	users, total, err := h.users.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(users, page, total, userToAPI))
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	u, err := h.users.Create(r.Context(), &domain.CreateUserRequest{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToAPI(*u))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(*u))
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	cu, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrAccessDenied("authentication required"))
		return
	}
	u, err := h.users.GetByID(r.Context(), cu.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, userToAPI(*u))
}

// === Groups ===

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	groups, total, err := h.groups.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(groups, page, total, groupToAPI))
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	g, err := h.groups.Create(r.Context(), &domain.CreateGroupRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, groupToAPI(*g))
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.groups.GetByID(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, groupToAPI(*g))
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listGroupMembers(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	members, total, err := h.groups.ListMembers(r.Context(), chi.URLParam(r, "groupID"), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(members, page, total, userToAPI))
}

func (h *Handler) addGroupMember(w http.ResponseWriter, r *http.Request) {
	err := h.groups.AddMember(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeGroupMember(w http.ResponseWriter, r *http.Request) {
	err := h.groups.RemoveMember(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// === Permissions ===

type permissionRequest struct {
	Action     string `json:"action"`
	ResourceID string `json:"resource_id"`
	UserID     string `json:"user_id,omitempty"`
	GroupID    string `json:"group_id,omitempty"`
}

func (r permissionRequest) toDomain() *domain.CreatePermissionRequest {
	return &domain.CreatePermissionRequest{
		Action:     r.Action,
		ResourceID: r.ResourceID,
		UserID:     r.UserID,
		GroupID:    r.GroupID,
	}
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	page := pageFromRequest(r)
	filter := domain.PermissionFilter{
		ResourceID: r.URL.Query().Get("resource_id"),
		UserID:     r.URL.Query().Get("user_id"),
		GroupID:    r.URL.Query().Get("group_id"),
		Action:     domain.Action(r.URL.Query().Get("action")),
	}
	perms, total, err := h.permissions.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, paginate(perms, page, total, permissionToAPI))
}

func (h *Handler) createPermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	p, err := h.permissions.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, permissionToAPI(*p))
}

func (h *Handler) getPermission(w http.ResponseWriter, r *http.Request) {
	p, err := h.permissions.GetByID(r.Context(), chi.URLParam(r, "permissionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, permissionToAPI(*p))
}

func (h *Handler) updatePermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	p, err := h.permissions.Update(r.Context(), chi.URLParam(r, "permissionID"), req.toDomain())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, permissionToAPI(*p))
}

func (h *Handler) deletePermission(w http.ResponseWriter, r *http.Request) {
	if err := h.permissions.Delete(r.Context(), chi.URLParam(r, "permissionID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
