package api

import (
	"errors"

	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"
)

// fail logs a usecase error and returns its API code for the endpoint metrics.
func fail(l *xlogger.Logger, endpoint string, err error) string {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= 500 {
			l.Error(endpoint+" usecase error", xlogger.String("code", appErr.Code), xlogger.Error(err))
		} else {
			l.Debug(endpoint+" request rejected", xlogger.String("code", appErr.Code), xlogger.Error(err))
		}
		return appErr.Code
	}
	l.Error(endpoint+" usecase error", xlogger.Error(err))
	return "ERR_INTERNAL"
}
