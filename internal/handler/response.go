package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hitecare/carehome-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// WriteError maps a service error onto the HTTP status it belongs to and
// writes the error envelope. Unrecognized errors are treated as storage
// failures and hidden behind a generic message.
func WriteError(c *gin.Context, err error) {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, NewErrorResponse(err.Error()))
	case apperrors.ErrConstraint:
		c.JSON(http.StatusConflict, NewErrorResponse(err.Error()))
	case apperrors.ErrNotFound:
		c.JSON(http.StatusNotFound, NewErrorResponse(err.Error()))
	case apperrors.ErrAuthorization:
		c.JSON(http.StatusForbidden, NewErrorResponse(err.Error()))
	case apperrors.ErrAuthentication:
		c.JSON(http.StatusUnauthorized, NewErrorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal error"))
	}
}
