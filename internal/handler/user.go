package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/userhub/userhub/internal/handler/dto"
	"github.com/userhub/userhub/internal/middleware"
	"github.com/userhub/userhub/internal/model"
	"github.com/userhub/userhub/internal/service"
)

// UserHandler handles HTTP requests for user records.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /users?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("from") == "" || query.Get("to") == "" {
		writeError(w, http.StatusBadRequest, dto.CodeInvalidDate, "from and to query parameters are required")
		return
	}

	from, err := model.ParseDate(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeInvalidDate, "from: "+err.Error())
		return
	}
	to, err := model.ParseDate(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeInvalidDate, "to: "+err.Error())
		return
	}

	users, err := h.svc.List(r.Context(), from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Create(r.Context(), req.ToUser())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user_created",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Patch handles PATCH /users/{id}.
func (h *UserHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	user, err := h.svc.PartialUpdate(r.Context(), id, req.ToPatch())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user_updated",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Replace handles PUT /users/{id}. An unknown id is created.
func (h *UserHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Replace(r.Context(), id, req.ToUser())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user_replaced",
		"user_id", user.ID,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Delete handles DELETE /users/{id}. Deleting an unknown id still succeeds.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	h.svc.Delete(r.Context(), id)

	h.logger.InfoContext(r.Context(), "user_deleted",
		"user_id", id,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, dto.CodeInvalidID, "invalid id: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request) (*dto.UserRequest, bool) {
	var req dto.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, dto.CodePayloadTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, dto.CodeInvalidJSON, "invalid request body: "+err.Error())
		return nil, false
	}
	return &req, true
}

func (h *UserHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]dto.FieldError, len(verr.Violations))
		for i, v := range verr.Violations {
			details[i] = dto.FieldError{Field: v.Field, Message: v.Message}
		}
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   verr.Error(),
			Code:    dto.CodeValidationFailed,
			Details: details,
		})
	case errors.Is(err, service.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, dto.CodeInvalidArgument, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, dto.CodeUserNotFound, "user not found")
	default:
		h.logger.ErrorContext(r.Context(), "internal_error",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, dto.CodeInternalError, "an internal error occurred")
	}
}
