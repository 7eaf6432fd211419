package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/usercrud/internal/domain"
	"github.com/msomdec/usercrud/internal/service"
)

// UserHandler serves the /api/user resource.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleList returns every user, or 204 when there are none.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	slog.Info("Fetching all users")

	users, err := h.users.FindAll(r.Context())
	if err != nil {
		h.internalError(w, "list users", err)
		return
	}
	if len(users) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTOs(users))
}

// HandleGet returns a single user.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	slog.Info("Fetching user", "id", id)

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Error("User not found", "id", id)
			respondError(w, http.StatusNotFound, fmt.Sprintf("User with id: %d not found", id))
			return
		}
		h.internalError(w, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleCreate stores a new user and points the Location header at it.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body UserDTO
	if !readJSON(w, r, &body) {
		return
	}
	user := body.toDomain()
	slog.Info("Creating user", "name", user.Name, "age", user.Age, "salary", user.Salary.String())

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			slog.Error("Unable to create. A user with this name already exists", "name", user.Name)
			respondError(w, http.StatusConflict,
				fmt.Sprintf("unable to create. A user with name %s already exists", user.Name))
			return
		}
		h.internalError(w, "create user", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/user/%d", user.ID))
	w.WriteHeader(http.StatusCreated)
}

// HandleUpdate replaces name, age and salary of an existing user.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	slog.Info("Updating user", "id", id)

	var body UserDTO
	if !readJSON(w, r, &body) {
		return
	}

	user, err := h.users.Update(r.Context(), id, body.toDomain())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Error("Unable to update. User not found", "id", id)
			respondError(w, http.StatusNotFound, fmt.Sprintf("Unable to update. User with id %d not found", id))
			return
		}
		h.internalError(w, "update user", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleDelete removes a single user.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	slog.Info("Fetching and deleting user", "id", id)

	if err := h.users.DeleteByID(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.Error("Unable to delete. User not found", "id", id)
			respondError(w, http.StatusNotFound, fmt.Sprintf("Unable to delete. User with id %d not found", id))
			return
		}
		h.internalError(w, "delete user", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteAll removes every user. It succeeds on an empty store.
func (h *UserHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	slog.Info("Deleting all users")

	if err := h.users.DeleteAll(r.Context()); err != nil {
		h.internalError(w, "delete all users", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) internalError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	respondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id: "+raw)
		return 0, false
	}
	return id, true
}
