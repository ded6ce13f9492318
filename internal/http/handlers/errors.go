package handlers

import (
	"errors"
	"net/http"

	"spacify/internal/domain"
	"spacify/internal/http/middleware"
	"spacify/internal/utils"

	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal server error"

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	payload := gin.H{
		"success":    false,
		"message":    message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	}
	if details != nil {
		payload["errors"] = details
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var rejected domain.AuthRejectedError
	switch {
	case errors.As(err, &rejected):
		status := rejected.Status
		if status < 400 || status > 499 {
			status = http.StatusUnauthorized
		}
		respondError(c, status, "auth_rejected", rejected.Error(), nil)
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), fieldErrors(err))
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", "error", c.Request.Method+" "+c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, "internal_error", msgInternal, nil)
	}
}

// fieldErrors returns field -> message for validation failures.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var list domain.ValidationErrors
	if errors.As(err, &list) {
		for _, v := range list {
			if v.Field != "" {
				out[v.Field] = v.Msg
			}
		}
	} else {
		var single domain.ValidationError
		if errors.As(err, &single) && single.Field != "" {
			out[single.Field] = single.Msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
