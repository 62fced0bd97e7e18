package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brudallism/macromuse-backend/internal/domain"
	pkgerrors "github.com/brudallism/macromuse-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the shared sentinel errors onto HTTP statuses so
// every handler reports them the same way.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrNoTargetDefined):
		RespondError(c, http.StatusNotFound, "no_target_defined", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func parseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		RespondError(c, http.StatusBadRequest, "missing_"+key, errMissingParam(key))
		return time.Time{}, false
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_"+key, err)
		return time.Time{}, false
	}
	return date, true
}

// parseRangeQuery reads the start/end query pair, defaulting to the trailing
// defaultDays window ending today when both are absent.
func parseRangeQuery(c *gin.Context, defaultDays int) (time.Time, time.Time, bool) {
	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw == "" && endRaw == "" {
		end := domain.DateOnly(time.Now().UTC())
		return end.AddDate(0, 0, -(defaultDays - 1)), end, true
	}

	start, err := domain.ParseDate(startRaw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_start", err)
		return time.Time{}, time.Time{}, false
	}
	end, err := domain.ParseDate(endRaw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_end", err)
		return time.Time{}, time.Time{}, false
	}
	if start.After(end) {
		RespondError(c, http.StatusBadRequest, "invalid_range", errStartAfterEnd)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

type paramError string

func (e paramError) Error() string { return string(e) }

func errMissingParam(key string) error { return paramError("missing required query param " + key) }

var errStartAfterEnd = paramError("start must not be after end")
