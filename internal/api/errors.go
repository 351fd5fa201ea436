package api

import (
	"errors"
	"net/http"

	"laketrace/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes. Upstream
// API failures surface as 502 so callers can tell relay bugs from workspace
// trouble.
func httpStatusFromDomainError(err error) int {
	var validation *domain.ValidationError
	var auth *domain.AuthError
	var apiErr *domain.APIError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &auth):
		return http.StatusUnauthorized
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
