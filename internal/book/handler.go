package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mylibrary/mylibrary-api/internal/auth"
	"github.com/mylibrary/mylibrary-api/internal/httputil"
	"github.com/mylibrary/mylibrary-api/internal/logging"
)

// Handler contains HTTP handlers for the book endpoints. All of them sit
// behind the auth middleware; the caller identity comes from the request
// context, never from the payload.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateBookRequest represents a new book. Any owner field a client sends is
// simply not decoded.
type CreateBookRequest struct {
	Name       string  `json:"name"`
	BookGenres *string `json:"bookGenres"`
	Author     *string `json:"author"`
	Pages      *int32  `json:"pages"`
}

// UpdateBookRequest represents a partial book update
type UpdateBookRequest struct {
	Name       *string `json:"name"`
	BookGenres *string `json:"bookGenres"`
	Author     *string `json:"author"`
	Pages      *int32  `json:"pages"`
}

// Create handles adding a book to the caller's library
// @Summary      Add a book
// @Description  Create a book owned by the authenticated caller
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateBookRequest true "New book"
// @Success      201 {object} Book
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /books [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	callerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid create book request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	newBook, err := h.service.Create(r.Context(), CreateInput{
		Name:       req.Name,
		BookGenres: req.BookGenres,
		Author:     req.Author,
		Pages:      req.Pages,
	}, callerID)
	if err != nil {
		if code, ok := validationCode(err); ok {
			logger.Warn("book creation failed: validation error", "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), code, http.StatusBadRequest)
			return
		}
		logger.Error("book creation failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create book", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("book created", "book_id", newBook.ID, "user_id", callerID)

	httputil.RespondJSON(w, newBook, http.StatusCreated)
}

// ListMine handles listing the caller's books
// @Summary      List my books
// @Description  Return the books owned by the authenticated caller
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Book
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /books/me [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	callerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	books, err := h.service.ListByOwner(r.Context(), callerID)
	if err != nil {
		logger.Error("failed to list books", "user_id", callerID, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list books", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, books, http.StatusOK)
}

// Update handles a partial book update
// @Summary      Update a book
// @Description  Update a book after confirming the caller owns it
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Book ID"
// @Param        request body UpdateBookRequest true "Fields to update"
// @Success      200 {object} Book
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      403 {object} httputil.ErrorResponse "Caller is not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Book not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /books/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	callerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update book request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), id, callerID, UpdateInput{
		Name:       req.Name,
		BookGenres: req.BookGenres,
		Author:     req.Author,
		Pages:      req.Pages,
	})
	if err != nil {
		h.respondMutationError(w, logger, err, id, callerID, "update")
		return
	}

	logger.Info("book updated", "book_id", id, "user_id", callerID)

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles removing a book
// @Summary      Delete a book
// @Description  Delete a book after confirming the caller owns it
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Book ID"
// @Success      204 "No Content"
// @Failure      400 {object} httputil.ErrorResponse "Invalid id"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      403 {object} httputil.ErrorResponse "Caller is not the owner"
// @Failure      404 {object} httputil.ErrorResponse "Book not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /books/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	callerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, callerID); err != nil {
		h.respondMutationError(w, logger, err, id, callerID, "delete")
		return
	}

	logger.Info("book deleted", "book_id", id, "user_id", callerID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondMutationError(w http.ResponseWriter, logger *logging.Logger, err error, id, callerID int64, op string) {
	switch {
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "book not found", httputil.CodeNotFound, http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		logger.Warn("book "+op+" refused: caller is not the owner", "book_id", id, "user_id", callerID)
		httputil.RespondErrorWithCode(w, "you do not own this book", httputil.CodeForbidden, http.StatusForbidden)
	default:
		if code, ok := validationCode(err); ok {
			logger.Warn("book "+op+" failed: validation error", "book_id", id, "error", err.Error())
			httputil.RespondErrorWithCode(w, err.Error(), code, http.StatusBadRequest)
			return
		}
		logger.Error("book "+op+" failed: internal error", "book_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to "+op+" book", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid book id", httputil.CodeInvalidID, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func validationCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrNameRequired):
		return httputil.CodeNameRequired, true
	case errors.Is(err, ErrInvalidPages):
		return httputil.CodeInvalidPages, true
	}
	return "", false
}
