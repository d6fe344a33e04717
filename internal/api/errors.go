package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lukeperry/ssu-career-connect/internal/logger"
	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInternalError = "INTERNAL_ERROR"
)

// AppError is the body of every failed response.
type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	HTTPCode int    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

type ErrorResponse struct {
	Error *AppError `json:"error"`
}

func invalidInput(field, message string) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message, Field: field, HTTPCode: http.StatusBadRequest}
}

// toAppError maps binding, validation and scoring errors to a response. Anything it
// doesn't recognise is an internal error.
func toAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var inputErr *scoring.InvalidInputError
	if errors.As(err, &inputErr) {
		return invalidInput(inputErr.Field, inputErr.Error())
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		field := fieldPath(validationErrs[0].Namespace())
		return invalidInput(field, "invalid input: "+field+" "+describeTag(validationErrs[0].Tag()))
	}

	return &AppError{Code: CodeInternalError, Message: "internal server error", HTTPCode: http.StatusInternalServerError}
}

// bindJSON decodes and validates the body. A body that isn't valid JSON for obj is
// reported against the "body" field.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		handleError(c, err)
	} else {
		handleError(c, invalidInput("body", "invalid request body: "+err.Error()))
	}
	return false
}

func handleError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.HTTPCode >= http.StatusInternalServerError {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeApi).
			Errorf("%v %v failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// fieldPath drops the root struct name: "MatchRequest.job.skills" becomes "job.skills".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "min", "gte":
		return "is too small"
	case "max", "lte":
		return "is too large"
	}
	return "failed " + tag + " check"
}
