package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is what services hand back to routes; routes render it
// as-is with Code() as the HTTP status.
type ErrorResponse interface {
	error
	Code() int
}

type SimpleError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *SimpleError) Error() string { return e.Message }
func (e *SimpleError) Code() int     { return e.Status }

func NewSimple(status int, message string) *SimpleError {
	return &SimpleError{Status: status, Message: message}
}

func NewMissingParamError(param string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", param))
}

func NewInvalidParamTypeError(param, expected string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be of type %s", param, expected))
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Internal server error")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Malformed request body")
	MalformedQueryError   = NewSimple(http.StatusBadRequest, "Malformed query parameters")
	NotFoundError         = NewSimple(http.StatusNotFound, "Resource not found")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Invalid or missing authentication token")
	ForbiddenError        = NewSimple(http.StatusForbidden, "Administrator access required")

	AppointmentInPastError = NewSimple(http.StatusBadRequest, "Appointment date and time cannot be in the past")
	InvalidStatusError     = NewSimple(http.StatusBadRequest, "Unknown status")
	InvalidDateRangeError  = NewSimple(http.StatusBadRequest, "End date cannot be before start date")
	BirthDateInFutureError = NewSimple(http.StatusBadRequest, "Date of birth cannot be in the future")
	PatientNotFoundError   = NewSimple(http.StatusNotFound, "Patient not found")

	UserAlreadyExistsError      = NewSimple(http.StatusConflict, "A user with this email already exists")
	UserAlreadyConfirmedError   = NewSimple(http.StatusConflict, "User is already confirmed")
	IDPInvalidPasswordError     = NewSimple(http.StatusBadRequest, "Password does not meet the identity provider policy")
	IDPExistingEmailError       = NewSimple(http.StatusConflict, "Email is already registered")
	IDPUserNotFoundError        = NewSimple(http.StatusNotFound, "User not found")
	IDPUserNotConfirmedError    = NewSimple(http.StatusForbidden, "User has not confirmed the sign-up")
	IDPCredentialsMismatchError = NewSimple(http.StatusUnauthorized, "Email or password is incorrect")
	IDPConfirmCodeMismatchError = NewSimple(http.StatusBadRequest, "Confirmation code does not match")
	IDPConfirmCodeExpiredError  = NewSimple(http.StatusBadRequest, "Confirmation code has expired")
)

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

type ValidationError struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Code() int     { return http.StatusBadRequest }

// FromValidationError flattens validator output into one entry per failing
// field. Anything else (e.g. InvalidValidationError) is a programming error.
func FromValidationError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return InternalServerError
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()}
	}
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

type ConflictDetail struct {
	AppointmentID int    `json:"appointmentId"`
	PatientName   string `json:"patientName"`
	Time          string `json:"time"`
	EndTime       string `json:"endTime"`
}

// ConflictError is a 409 carrying the clashing appointment and, when the day
// still has room, the next start time that fits. Suggestion is rendered as
// null when there is none.
type ConflictError struct {
	Message    string         `json:"message"`
	Conflict   ConflictDetail `json:"conflict"`
	Suggestion *string        `json:"suggestion"`
}

func (e *ConflictError) Error() string { return e.Message }
func (e *ConflictError) Code() int     { return http.StatusConflict }
