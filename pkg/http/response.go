package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// envelope writes the standard {status,message,data} reply. The HTTP status
// of the reply matches the envelope status.
func envelope(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

// ListResponse wraps rows and the unpaginated total.
func ListResponse(c echo.Context, rows interface{}, total int64) error {
	return envelope(c, http.StatusOK, &ListDataResponse{Rows: rows, Total: total})
}

func SuccessResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusOK, data)
}

func CreatedResponse(c echo.Context, data interface{}) error {
	return envelope(c, http.StatusCreated, data)
}

// BadRequestResponse carries validation details from ReadAndValidateRequest.
func BadRequestResponse(c echo.Context, details []ValidationError) error {
	return envelope(c, http.StatusBadRequest, details)
}

// AttachmentResponse streams body as a download named fileName.
func AttachmentResponse(c echo.Context, fileName, contentType string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Blob(http.StatusOK, contentType, body)
}

// ThrottledResponse replies 429 with a Retry-After header of at least one second.
func ThrottledResponse(c echo.Context, wait time.Duration, message string) error {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
	return AppErrorResponse(c, TooManyRequestsError(message))
}

// AppErrorResponse renders an *AppError in the envelope; anything else is a 500
// without details.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return envelope(c, appErr.Status, []*AppError{appErr})
	}
	return envelope(c, http.StatusInternalServerError, "Something went wrong")
}
