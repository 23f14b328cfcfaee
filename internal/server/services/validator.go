package services

import (
	"context"
	"unicode/utf8"

	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/users"
)

// Severity grades a ValidationError for display.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// minFieldLength applies to name, surname, email and password.
const minFieldLength = 3

// Messages reported by RegistrationValidator.
const (
	MsgShortName         = "The name can't be less than three characters long"
	MsgShortSurname      = "The surname can't be less than three characters long"
	MsgInvalidEmail      = "The entered email is not valid"
	MsgPasswordsMismatch = "The passwords does not match"
	MsgWeakPassword      = "This password is not secure enough"
	MsgEmailInUse        = "The entered email is already in use"
	MsgEmailUnverified   = "The email could not be verified, try again later"
)

// ValidationError is one problem found in a registration form.
type ValidationError struct {
	Severity Severity `json:"type"`
	Message  string   `json:"msg"`
}

// RegistrationForm carries the submitted sign-up inputs.
type RegistrationForm struct {
	Name             string
	Surname          string
	Email            string
	Password         string
	PasswordRepeated string
}

// RegistrationValidator combines the field checks of a sign-up form with an
// e-mail uniqueness lookup against the stored accounts.
type RegistrationValidator struct {
	users  users.Repository
	logger logging.Logger
}

func NewRegistrationValidator(repo users.Repository, l logging.Logger) *RegistrationValidator {
	return &RegistrationValidator{users: repo, logger: l.With("module", "registration_validator")}
}

// Validate returns every problem found in form; an empty result means the
// form may be registered.
//
// The uniqueness lookup is started before the field checks run. Field errors
// come first in a fixed order, the uniqueness error (if any) is always last.
// A failed lookup is reported as MsgEmailUnverified so that an unreachable
// store never lets a duplicate through.
func (v *RegistrationValidator) Validate(ctx context.Context, form RegistrationForm) []ValidationError {
	var pending <-chan users.Result
	if form.Email != "" {
		pending = v.users.GetUsersAsync(ctx, users.Criteria{Email: form.Email})
	}

	errs := checkFields(form)

	if pending == nil {
		return errs
	}

	var res users.Result
	select {
	case res = <-pending:
	case <-ctx.Done():
		res = users.Result{Err: ctx.Err()}
	}

	switch {
	case res.Err != nil:
		v.logger.Error(ctx, "Unable to check email uniqueness", "email", form.Email, "error", res.Err)
		errs = append(errs, ValidationError{Severity: SeverityDanger, Message: MsgEmailUnverified})
	case len(res.Users) > 0:
		errs = append(errs, ValidationError{Severity: SeverityWarning, Message: MsgEmailInUse})
	}

	return errs
}

func checkFields(form RegistrationForm) []ValidationError {
	errs := make([]ValidationError, 0)

	if tooShort(form.Name) {
		errs = append(errs, ValidationError{Severity: SeverityWarning, Message: MsgShortName})
	}
	if tooShort(form.Surname) {
		errs = append(errs, ValidationError{Severity: SeverityWarning, Message: MsgShortSurname})
	}
	if tooShort(form.Email) {
		errs = append(errs, ValidationError{Severity: SeverityWarning, Message: MsgInvalidEmail})
	}
	if form.Password == "" || form.PasswordRepeated == "" || form.Password != form.PasswordRepeated {
		errs = append(errs, ValidationError{Severity: SeverityWarning, Message: MsgPasswordsMismatch})
	}
	// reported even when the mismatch above already fired
	if tooShort(form.Password) {
		errs = append(errs, ValidationError{Severity: SeverityDanger, Message: MsgWeakPassword})
	}

	return errs
}

func tooShort(s string) bool {
	return utf8.RuneCountInString(s) < minFieldLength
}
