package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopidream/aorit-sub000/pkg/apperr"
)

// statusFor maps an error kind to the HTTP status the frontend switches on.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindTemplateValidation,
		apperr.KindMissingPartyField, apperr.KindUnresolvedVariable:
		return http.StatusBadRequest
	case apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindExternalCollaborator:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error with its mapped status. Untyped errors are
// reported generically so internals never leak to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError && apperr.KindOf(err) == "" {
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  string(apperr.KindOf(err)),
	})
}
