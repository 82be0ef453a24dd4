// internal/api/responses.go
package api

import (
	"github.com/gin-gonic/gin"

	stderrors "hol-manager/internal/common/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, gin.H{"success": false, "error": errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// respondStandardError maps a StandardError onto the response envelope.
func respondStandardError(c *gin.Context, status int, err error) {
	if stdErr, ok := err.(*stderrors.StandardError); ok {
		respondError(c, status, string(stdErr.Code), stdErr.Message, stdErr.Details)
		return
	}
	respondError(c, status, "INTERNAL_ERROR", "Unexpected error", err.Error())
}
