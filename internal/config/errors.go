package config

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for configuration loading.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build or schema unification failed

	ErrCodeCapacity       = "E201" // capacity must be positive
	ErrCodeClassID        = "E202" // class_id must be positive
	ErrCodeMissingField   = "E203" // required field missing for kind
	ErrCodeItemRange      = "E204" // data pool item outside the pool
	ErrCodeDuplicateItem  = "E205" // two data pool items share an id
	ErrCodeNegativeID     = "E206" // parameter or event id negative
	ErrCodeDataPoolSize   = "E207" // datapool.size negative
	ErrCodeInvalidService = "E208" // unknown service mode
)

// LoadError is a configuration error with an optional CUE source position.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// fromCUE converts a CUE evaluation error into a LoadError carrying the
// first reported position.
func fromCUE(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
