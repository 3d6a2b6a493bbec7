package httperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound                   Kind = "not_found"
	KindForbidden                  Kind = "forbidden"
	KindInvalidTransition          Kind = "invalid_transition"
	KindConflict                   Kind = "conflict"
	KindPaymentNotComplete         Kind = "payment_not_complete"
	KindPaymentProviderUnavailable Kind = "payment_provider_unavailable"
	KindValidation                 Kind = "validation"
	KindUnavailable                Kind = "unavailable"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Code)
}

// ErrBusiness is a validation failure identified by code.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func New(kind Kind, code string) error {
	return BusinessError{Kind: kind, Code: code}
}

func NotFoundErr(code string) error          { return New(KindNotFound, code) }
func ForbiddenErr(code string) error         { return New(KindForbidden, code) }
func InvalidTransitionErr(code string) error { return New(KindInvalidTransition, code) }
func ConflictErr(code string) error          { return New(KindConflict, code) }

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf reports the business kind of err, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
