package profile

import "errors"

// Code identifies which validation rule a submission violated.
type Code int

const (
	MissingType Code = iota + 1
	EmptyName
	DuplicateName
	EmptyHost
	MissingPort
	InvalidPort
	MissingEncryption
	EmptyPassword
)

var codeNames = map[Code]string{
	MissingType:       "MissingType",
	EmptyName:         "EmptyName",
	DuplicateName:     "DuplicateName",
	EmptyHost:         "EmptyHost",
	MissingPort:       "MissingPort",
	InvalidPort:       "InvalidPort",
	MissingEncryption: "MissingEncryption",
	EmptyPassword:     "EmptyPassword",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "Unknown"
}

// ValidationError is the single user-facing failure of a rejected submission.
type ValidationError struct {
	Code    Code
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is matches on Code so wrapped copies still compare equal to the sentinels.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

var (
	ErrMissingType       = &ValidationError{Code: MissingType, Field: FieldType, Message: "You must choose a proxy type"}
	ErrEmptyName         = &ValidationError{Code: EmptyName, Field: FieldName, Message: "Name can't be empty"}
	ErrDuplicateName     = &ValidationError{Code: DuplicateName, Field: FieldName, Message: "Name already exists"}
	ErrEmptyHost         = &ValidationError{Code: EmptyHost, Field: FieldHost, Message: "Host can't be empty"}
	ErrMissingPort       = &ValidationError{Code: MissingPort, Field: FieldPort, Message: "Port can't be empty"}
	ErrInvalidPort       = &ValidationError{Code: InvalidPort, Field: FieldPort, Message: "Invalid port"}
	ErrMissingEncryption = &ValidationError{Code: MissingEncryption, Field: FieldEncryption, Message: "You must choose an encryption method"}
	ErrEmptyPassword     = &ValidationError{Code: EmptyPassword, Field: FieldPassword, Message: "Password can't be empty"}
)

// ErrSessionClosed is returned when submitting to a session that already committed.
var ErrSessionClosed = errors.New("edit session already committed")

// CodeOf extracts the validation code from err, or 0 if err is not a validation failure.
func CodeOf(err error) Code {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return 0
}
