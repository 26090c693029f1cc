package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"stockscope/internal/core/apperror"
	"stockscope/pkg/logger"
)

// ErrorHandler renders the last error of the request as {message, error?}.
// The raw cause is only exposed for 5xx responses; it is always logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		err := Translate(c.Errors.Last().Err)
		status, body := apperror.Body(err)

		if appErr, ok := apperror.AsAppError(err); ok && appErr.Err != nil {
			logger.Error(c.Request.Context(), "request error",
				"code", appErr.Code,
				"status", status,
				"cause", appErr.Err,
			)
		}

		c.JSON(status, body)
	}
}

// Translate turns binding failures into validation errors. Other errors
// are returned unchanged.
func Translate(err error) error {
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		appErr := apperror.NewValidation(validationMessage(verrs))
		for _, fe := range verrs {
			appErr.WithDetail(lowerFirst(fe.Field()), fe.Tag())
		}
		return appErr
	}

	var gerr *gin.Error
	if errors.As(err, &gerr) && gerr.IsType(gin.ErrorTypeBind) {
		return apperror.NewValidation("Invalid request body").WithCause(gerr.Err)
	}
	return err
}

func validationMessage(verrs validator.ValidationErrors) string {
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, lowerFirst(fe.Field()))
	}
	return "Invalid fields: " + strings.Join(fields, ", ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
