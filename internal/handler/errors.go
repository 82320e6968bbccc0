package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "holidaytracker/internal/errors"
	"holidaytracker/internal/middleware"
	"holidaytracker/internal/reporting"
)

// toHTTPError maps a domain error to an echo error carrying ErrorResponse,
// keeping the original as the internal cause.
func toHTTPError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

func bindError(err error) *echo.HTTPError {
	return toHTTPError(fmt.Errorf("%w: %v", apperrors.ErrInvalidRequest, err))
}

func validationError(err error) *echo.HTTPError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return bindError(err)
	}
	fe := verrs[0]
	msg := fmt.Sprintf("%s is invalid", fe.Field())
	if fe.Tag() == "max" {
		msg = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: msg,
		Code:  "VALIDATION_ERROR",
	}).SetInternal(err)
}

// ErrorHandler renders every error as ErrorResponse. 5xx responses hide the
// cause from the client; it is logged and sent to Sentry instead.
func ErrorHandler(log logrus.FieldLogger, reporter *reporting.Reporter) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body, cause := resolve(err)
		if status >= http.StatusInternalServerError {
			fields := logrus.Fields{
				"method":     c.Request().Method,
				"route":      c.Path(),
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}
			tags := map[string]string{"route": c.Path(), "method": c.Request().Method}
			if id, ok := middleware.CurrentIdentity(c); ok {
				fields["user_id"] = id.UserID
				tags["user_id"] = fmt.Sprint(id.UserID)
			}
			log.WithFields(fields).WithError(cause).Error("unhandled error")
			reporter.Capture(cause, tags)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Warn("write error response")
		}
	}
}

func resolve(err error) (int, apperrors.ErrorResponse, error) {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		httpErr := apperrors.MapErrorToHTTP(err)
		return httpErr.StatusCode, httpErr.ToErrorResponse(), err
	}

	cause := err
	if he.Internal != nil {
		cause = he.Internal
	}
	if he.Code >= http.StatusInternalServerError {
		return he.Code, apperrors.MapErrorToHTTP(cause).ToErrorResponse(), cause
	}

	switch m := he.Message.(type) {
	case apperrors.ErrorResponse:
		return he.Code, m, cause
	case string:
		return he.Code, apperrors.ErrorResponse{Error: m, Code: codeFor(he.Code)}, cause
	default:
		return he.Code, apperrors.ErrorResponse{Error: http.StatusText(he.Code), Code: codeFor(he.Code)}, cause
	}
}

// codeFor turns a status into a machine code, e.g. 405 -> METHOD_NOT_ALLOWED.
func codeFor(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(text, " ", "_"), "-", "_"))
}
