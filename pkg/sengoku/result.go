package sengoku

import "fmt"

// Result is the outcome of a validated action. Failures are expected and
// carry a reason for the player; they are not errors.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func succeed(format string, args ...any) Result {
	return Result{OK: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}
