package service

import (
	"errors"

	"connectrpc.com/connect"
	"github.com/shubh-aarambh/fintrack/internal/auth"
	"github.com/shubh-aarambh/fintrack/internal/backup"
	"github.com/shubh-aarambh/fintrack/internal/models"
	"github.com/shubh-aarambh/fintrack/internal/records"
)

var errNotFound = errors.New("not found")

// invalidArgument lists validation errors reported as CodeInvalidArgument.
var invalidArgument = []error{
	models.ErrInvalidAmount,
	models.ErrInvalidType,
	models.ErrInvalidPeriod,
	models.ErrInvalidInterval,
	models.ErrInvalidDate,
	models.ErrMissingDate,
	models.ErrMissingCategory,
	models.ErrEmptyName,
	records.ErrCategoryTypeMismatch,
	backup.ErrMalformedDocument,
	auth.ErrWeakPassword,
	auth.ErrInvalidEmail,
}

// toConnectError maps domain errors to Connect codes. Unknown errors become
// CodeInternal.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, records.ErrBudgetExists), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, records.ErrCategoryInUse):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, records.ErrNoActiveUser):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, errNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	}
	for _, target := range invalidArgument {
		if errors.Is(err, target) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
	}
	return connect.NewError(connect.CodeInternal, err)
}
