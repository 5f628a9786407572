package v1

import (
	"errors"
	"net/http"

	"github.com/expense-tracker/backend/internal/ledger"
	"github.com/expense-tracker/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no monthly budget matching your query"`
}

// status returns the appropriate HTTP status for an error.
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, ledger.ErrHasDependents) || errors.Is(err, ledger.ErrConflict) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

// Auth errors
var (
	errMissingCredentials  = errors.New("username and password are required")
	errInvalidCredentials  = errors.New("invalid credentials")
	errWrongSecurityAnswer = errors.New("the security answer is incorrect")
	errSamePassword        = errors.New("the new password cannot be the same as the old password")
	errNoToken             = errors.New("you need to log in to use this endpoint")
	errInvalidToken        = errors.New("your session token is invalid or expired, please log in again")
)

// Resource errors
var (
	errAllocationOnlyAmount = errors.New("only the amount of an allocation can be changed")
	errExportFormatInvalid  = errors.New("invalid format, use \"csv\" or \"json\"")
)
