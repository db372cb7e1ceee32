package astra

import "github.com/kalambet/solaces/internal/docs"

// Result is the outcome of a remote command as recorded in the log.
type Result struct {
	Status docs.LogStatus
	Err    error
}

// Ok is a delivered command.
func Ok() Result { return Result{Status: docs.StatusSuccess} }

// Err is a failed command carrying its reason.
func Err(err error) Result { return Result{Status: docs.StatusError, Err: err} }

// resultOf maps a remote call's error onto a Result.
func resultOf(err error) Result {
	if err != nil {
		return Err(err)
	}
	return Ok()
}

// Detail is the failure reason, or "" for a success.
func (r Result) Detail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
