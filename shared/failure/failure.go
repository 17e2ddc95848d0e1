package failure

import (
	"errors"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Key is a stable, machine readable identifier the boundary can use for
// localization; domain failures always carry one.
type Failure struct {
	Code    int    `json:"code"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

// Domain failures of the booking and ledger core. Deterministic, never
// retried by the service itself.
var (
	ScheduleNotAvailable  = &Failure{Code: http.StatusConflict, Key: "schedule.not_available", Message: "schedule is not available for this doctor on this date"}
	SlotAlreadyExists     = &Failure{Code: http.StatusConflict, Key: "schedule.day_taken", Message: "this day is not available for a new schedule"}
	NoPermission          = &Failure{Code: http.StatusForbidden, Key: "auth.no_permission", Message: "you have no permission for this operation"}
	InvalidDateRange      = &Failure{Code: http.StatusBadRequest, Key: "booking.invalid_date_range", Message: "finish date cannot be before the start date"}
	InsufficientFunds     = &Failure{Code: http.StatusPaymentRequired, Key: "card.insufficient_funds", Message: "card balance is not enough for this payment"}
	OverpaymentNotAllowed = &Failure{Code: http.StatusUnprocessableEntity, Key: "payment.overpayment", Message: "payment exceeds the remaining item price"}
	AlreadyFullyPaid      = &Failure{Code: http.StatusConflict, Key: "payment.already_paid", Message: "this booking is already fully paid"}
)

var (
	BookingNotFound = &Failure{Code: http.StatusNotFound, Key: "booking.not_found", Message: "booking not found"}
	CardNotFound    = &Failure{Code: http.StatusNotFound, Key: "card.not_found", Message: "card not found"}
	ItemNotFound    = &Failure{Code: http.StatusNotFound, Key: "item.not_found", Message: "item not found"}
	PatientNotFound = &Failure{Code: http.StatusNotFound, Key: "patient.not_found", Message: "patient not found"}
	UserNotFound    = &Failure{Code: http.StatusNotFound, Key: "user.not_found", Message: "user not found"}
)

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKey returns the stable message key of an error interface, if any.
func GetKey(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Key
	}

	return ""
}
