package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/forms"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// PageResponse wraps the data of a catalog page with the pending flash
// message, if any.
type PageResponse struct {
	Flash string `json:"flash,omitempty"`
	Data  any    `json:"data"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Error().Err(err).Str("context", context).Str("path", c.Request.URL.Path).Msg("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondServiceError maps a catalog service error to a response.
func respondServiceError(c *gin.Context, err error, resource, context string) {
	if errors.Is(err, catalog.ErrNotFound) {
		respondNotFound(c, resource)
		return
	}
	respondInternalError(c, err, context)
}

// --- Parameter Parsing ---

// postedValues parses an urlencoded or multipart body. Repeated keys are kept
// as lists. Responds with 400 and returns false when the body is malformed.
func postedValues(c *gin.Context) (forms.Values, bool) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		respondBadRequest(c, "invalid form body")
		return nil, false
	}
	return forms.Values(c.Request.PostForm), true
}
