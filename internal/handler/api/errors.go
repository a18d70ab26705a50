package api

import (
	"errors"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	xhttp "SignalBoard/pkg/http"
)

// appError maps domain failures to user-facing errors with localized messages.
func appError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, domrepo.ErrBackendUnavailable):
		return xhttp.BackendUnavailableError(models.AdvisoryBackendUnavailable).WithError(err)
	case errors.Is(err, domrepo.ErrSaveFailed):
		return xhttp.SaveFailedError(models.AdvisorySaveFailed).WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
