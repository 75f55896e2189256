package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/learnpath-auth/internal/application"
	"github.com/oksasatya/learnpath-auth/internal/interface/middleware"
	"github.com/oksasatya/learnpath-auth/pkg/helpers"
	"github.com/oksasatya/learnpath-auth/pkg/response"
)

// writeError maps service errors onto the error envelope. Anything not
// recognised is logged with its detail and reported as SERVER_ERROR with
// serverMsg only.
func writeError(c *gin.Context, logger *logrus.Logger, err error, serverMsg string) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadRequest, response.CodeValidation, verr.Error())
	case errors.Is(err, application.ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRole, "Invalid role specified")
	case errors.Is(err, application.ErrMissingInstructorFields):
		response.Error(c, http.StatusBadRequest, response.CodeMissingInstructorFields, "Department and position are required for instructors")
	case errors.Is(err, application.ErrEmailExists):
		response.Error(c, http.StatusConflict, response.CodeEmailExists, "Email already registered")
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, "Invalid credentials")
	default:
		if logger != nil {
			helpers.LogError(logger, serverMsg, err, logrus.Fields{
				"route":      c.FullPath(),
				"request_id": c.GetString(middleware.RequestIDKey),
			})
		}
		response.ServerError(c, serverMsg)
	}
}
