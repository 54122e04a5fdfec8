package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/rolegate/internal/access/http/dto"
	accessUseCase "github.com/allisson/rolegate/internal/access/usecase"
	"github.com/allisson/rolegate/internal/httputil"
	customValidation "github.com/allisson/rolegate/internal/validation"
)

// visibilityEvent is the SSE event name carrying a flag bag.
const visibilityEvent = "visibility"

// AccessHandler answers visibility, chrome and navigation questions for a session.
// Every route requires SessionMiddleware.
type AccessHandler struct {
	accessUseCase accessUseCase.AccessUseCase
	logger        *slog.Logger
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler(accessUseCase accessUseCase.AccessUseCase, logger *slog.Logger) *AccessHandler {
	return &AccessHandler{
		accessUseCase: accessUseCase,
		logger:        logger,
	}
}

// RolesHandler returns the session's current roles.
// GET /v1/sessions/:id/roles
func (h *AccessHandler) RolesHandler(c *gin.Context) {
	session, ok := requestSession(c, h.logger)
	if !ok {
		return
	}
	sessionID := session.ID

	roles, err := h.accessUseCase.Roles(c.Request.Context(), sessionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRolesToResponse(roles))
}

// VisibilityHandler returns the flag bag for the session's current roles.
// GET /v1/sessions/:id/visibility
func (h *AccessHandler) VisibilityHandler(c *gin.Context) {
	session, ok := requestSession(c, h.logger)
	if !ok {
		return
	}
	sessionID := session.ID

	bag, err := h.accessUseCase.Visibility(c.Request.Context(), sessionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFlagBagToResponse(bag))
}

// StreamVisibilityHandler pushes a "visibility" server-sent event for the current role
// set and again after every replacement. The stream ends when the client goes away or
// the session is closed.
// GET /v1/sessions/:id/visibility/stream
func (h *AccessHandler) StreamVisibilityHandler(c *gin.Context) {
	session, ok := requestSession(c, h.logger)
	if !ok {
		return
	}
	sessionID := session.ID

	ctx := c.Request.Context()
	feed, err := h.accessUseCase.WatchVisibility(ctx, sessionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer feed.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case bag, open := <-feed.C():
			if !open {
				h.logger.Debug("visibility stream ended",
					slog.String("session_id", sessionID.String()))
				return
			}
			c.SSEvent(visibilityEvent, dto.MapFlagBagToResponse(bag))
			c.Writer.Flush()
		}
	}
}

// ChromeHandler reports whether standard chrome is hidden on a path.
// GET /v1/sessions/:id/chrome?path=/medical-requests/new
func (h *AccessHandler) ChromeHandler(c *gin.Context) {
	session, ok := requestSession(c, h.logger)
	if !ok {
		return
	}
	sessionID := session.ID

	var req dto.ChromeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	hide, err := h.accessUseCase.Chrome(c.Request.Context(), sessionID, req.Path)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ChromeResponse{Path: req.Path, HideChrome: hide})
}

// NavigateHandler runs the route guard for a path and returns its decision.
// POST /v1/sessions/:id/navigate
// Blocks until the guard decides. If the client goes away first nothing is written.
func (h *AccessHandler) NavigateHandler(c *gin.Context) {
	session, ok := requestSession(c, h.logger)
	if !ok {
		return
	}
	sessionID := session.ID

	var req dto.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	decision, err := h.accessUseCase.Navigate(c.Request.Context(), sessionID, req.Path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.logger.Debug("navigation abandoned",
				slog.String("session_id", sessionID.String()),
				slog.String("path", req.Path))
			c.Abort()
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecisionToResponse(req.Path, decision))
}
