package util

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/talentview/hr-insight/internal/apperr"
	"github.com/talentview/hr-insight/internal/config"
	"github.com/talentview/hr-insight/internal/response"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

// StatusFromError maps the application error kinds onto HTTP statuses.
// Anything unclassified is an internal error.
func StatusFromError(err error) int {
	switch {
	case apperr.IsNotFound(err):
		return fiber.StatusNotFound
	case apperr.IsAPIUnavailable(err):
		return fiber.StatusBadGateway
	case apperr.IsExtractionParse(err):
		return fiber.StatusUnprocessableEntity
	case apperr.IsDatabase(err):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// SuccessResponse sends the standard JSON envelope for success.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	if params.Code == 0 {
		params.Code = fiber.StatusOK
	}
	resp := OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	}
	return c.Status(params.Code).JSON(resp)
}

// ErrorResponse sends the standard JSON envelope for errors. Developer
// details and traces only leave the process outside production.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	resp := OrderedErrorResponse{
		Success: false,
		Message: params.Message,
	}
	if params.Details != nil {
		resp.Details = params.Details
	}
	if config.LoadAppConfig().Env != "production" {
		if len(errs) > 0 && errs[0] != nil {
			resp.DevMessage = errs[0].Error()
			resp.Trace = string(debug.Stack())
		}

		if params.DevMessage != "" {
			resp.DevMessage = params.DevMessage
		}
		if params.Trace != "" {
			resp.Trace = params.Trace
		}
	}

	errorCode := params.Code
	if errorCode == 0 {
		if len(errs) > 0 && errs[0] != nil {
			errorCode = StatusFromError(errs[0])
		} else {
			errorCode = fiber.StatusInternalServerError
		}
	}
	return c.Status(errorCode).JSON(resp)
}

type FormError struct {
	Errors  map[string]string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("form error: %s", e.Message)
}

func NewFormError(message string, errors map[string]string) *FormError {
	return &FormError{
		Message: message,
		Errors:  errors,
	}
}
