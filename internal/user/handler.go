package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mylibrary/mylibrary-api/internal/httputil"
	"github.com/mylibrary/mylibrary-api/internal/logging"
)

// Handler contains HTTP handlers for user CRUD endpoints.
//
// These routes are intentionally not behind the auth middleware: the original
// contract leaves user records open to unauthenticated callers. See README.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateUserRequest represents the registration request body
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Create handles user registration
// @Summary      Register a new user
// @Description  Create a user account. The echoed record never contains the password hash.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "New user"
// @Success      201 {object} User
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      409 {object} httputil.ErrorResponse "Email already in use"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create user request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, err := h.service.Create(r.Context(), CreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			logger.Warn("registration failed: email already in use")
			httputil.RespondErrorWithCode(w, "email already in use", httputil.CodeEmailAlreadyExists, http.StatusConflict)
			return
		}
		if code, ok := validationCode(err); ok {
			logger.Warn("registration failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), code, http.StatusBadRequest)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	httputil.RespondJSON(w, newUser, http.StatusCreated)
}

// List handles listing all users
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200 {array} User
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	users, err := h.service.List(r.Context())
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, users, http.StatusOK)
}

// Get handles fetching one user by id
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} User
// @Failure      400 {object} httputil.ErrorResponse "Invalid id"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get user", "user_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to get user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, u, http.StatusOK)
}

// Update handles a partial user update
// @Summary      Update a user
// @Description  Apply any subset of name, email and password. A new password is re-hashed.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path int true "User ID"
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200 {object} User
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      409 {object} httputil.ErrorResponse "Email already in use"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /users/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update user request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), id, UpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrDuplicateEmail) {
			logger.Warn("user update failed: email already in use", "user_id", id)
			httputil.RespondErrorWithCode(w, "email already in use", httputil.CodeEmailAlreadyExists, http.StatusConflict)
			return
		}
		if code, ok := validationCode(err); ok {
			logger.Warn("user update failed: validation error", "user_id", id, "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), code, http.StatusBadRequest)
			return
		}
		logger.Error("failed to update user", "user_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to update user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user updated", "user_id", id)

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles removing a user
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      204 "No Content"
// @Failure      400 {object} httputil.ErrorResponse "Invalid id"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete user", "user_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to delete user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user deleted", "user_id", id)

	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeInvalidID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func validationCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrNameRequired):
		return httputil.CodeNameRequired, true
	case errors.Is(err, ErrEmailRequired):
		return httputil.CodeEmailRequired, true
	case errors.Is(err, ErrInvalidEmailFormat):
		return httputil.CodeInvalidEmailFormat, true
	case errors.Is(err, ErrPasswordRequired):
		return httputil.CodePasswordRequired, true
	case errors.Is(err, ErrPasswordTooShort):
		return httputil.CodePasswordTooShort, true
	}
	return "", false
}
