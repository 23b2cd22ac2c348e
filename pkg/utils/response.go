package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *AppError   `json:"error,omitempty"`
}

func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, err *AppError) {
	c.JSON(statusCode, Response{
		Success: false,
		Error:   err,
	})
}

func SendValidationError(c *gin.Context, message string, details string) {
	SendError(c, http.StatusBadRequest, NewAppError(ErrCodeValidation, message, details))
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, NewAppError(ErrCodeNotFound, message))
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, NewAppError(ErrCodeInternal, message))
}

// SendDomainError maps sentinel errors onto HTTP status codes.
func SendDomainError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		SendValidationError(c, message, err.Error())
	case errors.Is(err, ErrNotFound):
		SendNotFound(c, message)
	case errors.Is(err, ErrUnavailable):
		SendError(c, http.StatusServiceUnavailable, NewAppError(ErrCodeUnavailable, message, err.Error()))
	case errors.Is(err, ErrNavigationFailed):
		SendError(c, http.StatusInternalServerError, NewAppError(ErrCodeNavigation, message, err.Error()))
	default:
		SendInternalError(c, message)
	}
}
