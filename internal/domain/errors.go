package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by store and service functions when the requested
// visit does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is the sentinel wrapped by every scheduling rejection.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// Reason identifies a specific scheduling rule violation. Reasons are
// stable API codes; the Spanish user-facing copy lives in Message.
type Reason string

const (
	ReasonEmptyTitle    Reason = "EmptyTitle"
	ReasonInvalidDate   Reason = "InvalidDate"
	ReasonPastDate      Reason = "PastDate"
	ReasonInvalidTime   Reason = "InvalidTime"
	ReasonInvertedRange Reason = "InvertedRange"
	ReasonOutOfHours    Reason = "OutOfHours"
	ReasonConflict      Reason = "Conflict"
)

// reasonMessages holds the user-facing copy shipped by the portal.
var reasonMessages = map[Reason]string{
	ReasonEmptyTitle:    "El título del evento es obligatorio.",
	ReasonInvalidDate:   "Fecha inválida.",
	ReasonPastDate:      "No es posible agendar en fechas pasadas.",
	ReasonInvalidTime:   "Formato de hora inválido.",
	ReasonInvertedRange: "La hora de inicio debe ser menor que la de fin.",
	ReasonOutOfHours:    "Horario fuera de rango operativo (9:00 - 17:00).",
	ReasonConflict:      "Ya existe un evento que se empalma en ese horario.",
}

// Message returns the user-facing message for the reason.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return string(r)
}

// Code returns the lowercased wire code for the reason, e.g. "pastdate".
func (r Reason) Code() string {
	return strings.ToLower(string(r))
}

// ValidationError is a scheduling rejection. It satisfies
// errors.Is(err, ErrValidation) so callers can branch on the class without
// inspecting the reason.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrValidation, e.Reason, e.Reason.Message())
}

// Is makes errors.Is(err, ErrValidation) hold for every rejection.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Reject builds the ValidationError for a reason.
func Reject(reason Reason) error {
	return &ValidationError{Reason: reason}
}

// RejectReason extracts the reason from an engine error, or "" when err is
// not a scheduling rejection.
func RejectReason(err error) Reason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}
