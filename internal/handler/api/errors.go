package api

import (
	"errors"

	"SmartBank/internal/services/upload"
	"SmartBank/internal/usecase"
	xhttp "SmartBank/pkg/http"
)

// toAppError maps usecase errors onto HTTP errors. Unknown errors stay as they
// are and end up as a 500.
func toAppError(err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, usecase.ErrSeriesNotFound),
		errors.Is(err, usecase.ErrUploadNotFound),
		errors.Is(err, usecase.ErrNotificationNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrUnknownField):
		return xhttp.BadRequestError(err.Error()).WithField("fields").WithError(err)
	case errors.Is(err, usecase.ErrNotTimeSeries),
		errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, upload.ErrInvalidContent):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, upload.ErrUnsupportedType):
		return xhttp.UnsupportedMediaTypeError(err.Error()).WithField("file").WithError(err)
	case errors.Is(err, usecase.ErrIngestInProgress):
		return xhttp.NewAppError("ERR_CONFLICT", "", err.Error(), 409).WithError(err)
	case errors.Is(err, usecase.ErrIngestDisabled):
		return xhttp.ServiceUnavailableError(err.Error()).WithError(err)
	default:
		return err
	}
}
