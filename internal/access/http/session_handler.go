package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/rolegate/internal/access/http/dto"
	accessUseCase "github.com/allisson/rolegate/internal/access/usecase"
	"github.com/allisson/rolegate/internal/httputil"
	customValidation "github.com/allisson/rolegate/internal/validation"
)

// SessionHandler handles HTTP requests for the session lifecycle.
type SessionHandler struct {
	sessionUseCase accessUseCase.SessionUseCase
	logger         *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessionUseCase accessUseCase.SessionUseCase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		logger:         logger,
	}
}

// CreateHandler opens a session for an identity and loads its roles.
// POST /v1/sessions
// Returns 201 Created with the session and the roles it started with. A failing role
// source still yields 201 with an empty role list.
func (h *SessionHandler) CreateHandler(c *gin.Context) {
	var req dto.OpenSessionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	session, err := h.sessionUseCase.Open(c.Request.Context(), req.Identity)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	roles, err := h.sessionUseCase.Store(c.Request.Context(), session.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSessionToResponse(session, roles.Current()))
}

// ListHandler lists open sessions in creation order.
// GET /v1/sessions?offset=0&limit=50
// Returns 200 OK with a page of sessions and the total count.
func (h *SessionHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	sessions := h.sessionUseCase.List(c.Request.Context())
	start, end := page.Bounds(len(sessions))

	c.JSON(http.StatusOK, dto.MapSessionsToListResponse(sessions[start:end], len(sessions)))
}

// GetHandler returns a session with its current roles.
// GET /v1/sessions/:id - Requires SessionMiddleware.
// Returns 200 OK.
func (h *SessionHandler) GetHandler(c *gin.Context) {
	session, ok := requestSession(c, h.logger)
	if !ok {
		return
	}

	roles, err := h.sessionUseCase.Store(c.Request.Context(), session.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSessionToResponse(session, roles.Current()))
}

// RefreshHandler re-fetches the session's roles from the role source.
// POST /v1/sessions/:id/refresh - Requires SessionMiddleware.
// Returns 200 OK with the roles now current. A failing role source empties the set.
func (h *SessionHandler) RefreshHandler(c *gin.Context) {
	session, ok := requestSession(c, h.logger)
	if !ok {
		return
	}
	sessionID := session.ID

	roles, err := h.sessionUseCase.Refresh(c.Request.Context(), sessionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRolesToResponse(roles))
}

// DeleteHandler closes a session, releasing every watcher and pending guard.
// DELETE /v1/sessions/:id - Requires SessionMiddleware.
// Returns 204 No Content.
func (h *SessionHandler) DeleteHandler(c *gin.Context) {
	session, ok := requestSession(c, h.logger)
	if !ok {
		return
	}
	sessionID := session.ID

	if err := h.sessionUseCase.Close(c.Request.Context(), sessionID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
