package http

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/rolegate/internal/access/domain"
	accessUseCase "github.com/allisson/rolegate/internal/access/usecase"
	"github.com/allisson/rolegate/internal/httputil"
)

// SessionMiddleware resolves the :id path parameter to an open session.
//
// Returns:
//   - 400 Bad Request: id is not a valid UUID
//   - 404 Not Found: no open session has that id
//   - Continues: session stored in the request context (see GetSession)
func SessionMiddleware(sessionUseCase accessUseCase.SessionUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			httputil.HandleBadRequestGin(c,
				fmt.Errorf("invalid session ID format: must be a valid UUID"),
				logger)
			c.Abort()
			return
		}

		session, err := sessionUseCase.Get(c.Request.Context(), sessionID)
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithSession(c.Request.Context(), session)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requestSession returns the session stored by SessionMiddleware, writing a 500 when
// the route was registered without it.
func requestSession(c *gin.Context, logger *slog.Logger) (*domain.Session, bool) {
	session, ok := GetSession(c.Request.Context())
	if !ok || session == nil {
		httputil.HandleErrorGin(c, fmt.Errorf("session middleware not installed"), logger)
		return nil, false
	}
	return session, true
}
