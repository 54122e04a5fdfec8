package httputil

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/rolegate/internal/errors"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// Page is a window over an ordered collection.
type Page struct {
	Offset int
	Limit  int
}

// ParsePagination reads the offset and limit query parameters. Offset defaults to 0,
// limit defaults to 50 and may not exceed 100. Invalid values yield ErrInvalidInput.
func ParsePagination(c *gin.Context) (Page, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return Page{}, apperrors.Wrap(apperrors.ErrInvalidInput, "offset must be a non-negative integer")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 || limit > maxPageLimit {
		return Page{}, apperrors.Wrap(apperrors.ErrInvalidInput, "limit must be between 1 and 100")
	}

	return Page{Offset: offset, Limit: limit}, nil
}

// Bounds clamps the page to a collection of n items and returns the slice bounds.
func (p Page) Bounds(n int) (start, end int) {
	start = min(p.Offset, n)
	end = min(start+p.Limit, n)
	return start, end
}
