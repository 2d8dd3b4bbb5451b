// Package outcome carries expected, user-facing failures as values so that
// only transient infrastructure errors travel as Go errors.
package outcome

type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeForbidden       Code = "forbidden"
	CodePolicyViolation Code = "policy_violation"
	CodeInvalidState    Code = "invalid_state"
	CodeInvalidRequest  Code = "invalid_request"
)

type Result struct {
	Success bool   `json:"success"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message"`
}

func OK(message string) Result {
	return Result{Success: true, Message: message}
}

func Fail(code Code, message string) Result {
	return Result{Success: false, Code: code, Message: message}
}

func (r Result) Failed() bool {
	return !r.Success
}
