package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/snaplist/snaplist/internal/common"
)

// The service layer raises sentinel errors; this file is the single place
// where they become HTTP statuses and bodies. Business code never formats
// transport output.

// respondNotFound writes the generic not-found body. The message is the
// same whether the resource is missing or owned by someone else.
func respondNotFound(c *gin.Context, resource string, id any) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
		"message": fmt.Sprintf("%s not found with id %v", resource, id),
	})
}

// respondServiceError maps a service error for the given resource to its
// HTTP response. Unanticipated errors are logged by the caller and come out
// as a generic 500.
func (s *Server) respondServiceError(c *gin.Context, err error, resource string, id any) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		respondNotFound(c, resource, id)
	case errors.Is(err, common.ErrorUnauthorized):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, common.ErrorUsernameTaken):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Username already taken"})
	case errors.Is(err, common.ErrorEmailTaken):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Email already taken"})
	default:
		s.logger.Error(c.Request.Context(), "unhandled service error", "error", err.Error(), "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong. Try again later."})
	}
}

// respondValidationError turns a binding failure into a 400 with a
// field→message body.
func respondValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, validationMessages(err))
}

// respondFieldError reports a single bad field.
func respondFieldError(c *gin.Context, field, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{field: message})
}

// validationMessages flattens validator errors into field→message pairs.
func validationMessages(err error) map[string]string {
	out := make(map[string]string)

	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		out["body"] = "invalid request body"
		return out
	}

	for _, fe := range verr {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	// Messages for the task body mirror the API's documented texts.
	switch fe.Field() {
	case "text":
		switch fe.Tag() {
		case "required":
			return "Task text cannot be empty"
		case "max":
			return "Task text cannot exceed 300 characters"
		}
	}

	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return "is invalid"
}
