package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in the errorCode field.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeInvalidRole             = "INVALID_ROLE"
	CodeMissingInstructorFields = "MISSING_INSTRUCTOR_FIELDS"
	CodeEmailExists             = "EMAIL_EXISTS"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeRateLimited             = "RATE_LIMITED"
	CodeNotFound                = "NOT_FOUND"
	CodeServerError             = "SERVER_ERROR"
)

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"errorCode"`
}

// Success writes a flat success body: fields plus "success": true.
func Success(ctx *gin.Context, status int, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := make(gin.H, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	ctx.JSON(status, body)
}

// Error writes the error envelope and aborts the handler chain.
func Error(ctx *gin.Context, status int, code, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Success:   false,
		Message:   message,
		ErrorCode: code,
	})
}

// ServerError reports an internal failure without leaking its detail.
func ServerError(ctx *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(ctx, http.StatusInternalServerError, CodeServerError, message)
}
