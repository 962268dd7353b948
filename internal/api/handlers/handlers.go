package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/mams/internal/apperrors"
)

// respondError maps an error to its HTTP status with a caller-safe
// message; the cause is logged server-side only.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": apperrors.MessageOf(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(400, gin.H{"error": msg})
}

// parseOptionalUUID parses a UUID query parameter, nil when absent
func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "malformed identifier: "+value)
	}
	return &id, nil
}

// parseOptionalDate parses a date query parameter, accepting RFC3339
// timestamps or plain dates, nil when absent
func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.New(apperrors.KindInvalidArgument, "malformed date: "+value)
}
