package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/report"
	"github.com/minecomplyapp-user/minecomplyapp-sub001/internal/submission"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}

	var subErr *submission.Error
	if errors.As(err, &subErr) {
		switch subErr.Kind {
		case submission.KindSequencing:
			return http.StatusConflict, "SEQUENCING", subErr.Message, nil
		case submission.KindBusy:
			return http.StatusConflict, "BUSY", subErr.Message, nil
		default:
			return http.StatusBadGateway, "REMOTE_ERROR", subErr.Message, nil
		}
	}

	switch {
	case errors.Is(err, report.ErrNoReport):
		return http.StatusConflict, "NO_REPORT", "Start or open a report first.", nil
	case errors.Is(err, report.ErrUnknownSection):
		return http.StatusNotFound, "UNKNOWN_SECTION", err.Error(), nil
	case errors.Is(err, report.ErrInvalidSection):
		return http.StatusBadRequest, "INVALID_SECTION", err.Error(), nil
	case errors.Is(err, report.ErrSaveInProgress):
		return http.StatusConflict, "SAVE_IN_PROGRESS", "A draft save is already running.", nil
	case errors.Is(err, report.ErrSaveFailed):
		return http.StatusInternalServerError, "SAVE_FAILED", "Failed to save draft.", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
