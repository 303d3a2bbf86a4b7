package core

import (
	"encoding/json"
	"fmt"
)

type Unit struct{}

type CommandError struct {
	Payload    interface{}
	StatusCode int
	Reason     *string
}

type CommandErrorOption func(*CommandError)

func WithReason(reason string) CommandErrorOption {
	return func(e *CommandError) {
		e.Reason = &reason
	}
}

func NewCommandError(statusCode int, payload interface{}, opts ...CommandErrorOption) CommandError {
	e := CommandError{
		StatusCode: statusCode,
		Payload:    payload,
	}

	for _, opt := range opts {
		opt(&e)
	}

	return e
}

func (r CommandError) Error() string {
	var values struct {
		Payload    interface{}
		StatusCode int
		Reason     string
	}

	values.Payload = r.Payload
	values.StatusCode = r.StatusCode

	if r.Reason != nil {
		values.Reason = *r.Reason
	}

	return fmt.Sprintf("%+v", values)
}

// Unwrap exposes the payload when it is an error so errors.Is keeps
// working across the mediator boundary.
func (r CommandError) Unwrap() error {
	if err, ok := r.Payload.(error); ok {
		return err
	}

	return nil
}

// Message is the human-readable outcome shown to chat users.
func (r CommandError) Message() string {
	if r.Reason != nil {
		return *r.Reason
	}

	if err, ok := r.Payload.(error); ok {
		return err.Error()
	}

	return fmt.Sprintf("%v", r.Payload)
}

func (r CommandError) MarshalJSON() ([]byte, error) {
	body := struct {
		StatusCode int    `json:"status_code"`
		Reason     string `json:"reason,omitempty"`
		Error      string `json:"error"`
	}{
		StatusCode: r.StatusCode,
	}

	if r.Reason != nil {
		body.Reason = *r.Reason
	}

	if err, ok := r.Payload.(error); ok {
		body.Error = err.Error()
	} else if r.Payload != nil {
		body.Error = fmt.Sprintf("%v", r.Payload)
	}

	return json.Marshal(body)
}

func NotFound(err error) CommandError {
	return NewCommandError(404, err)
}

func Forbidden(err error) CommandError {
	return NewCommandError(403, err)
}

func Conflict(err error, opts ...CommandErrorOption) CommandError {
	return NewCommandError(409, err, opts...)
}

func Unprocessable(err error, opts ...CommandErrorOption) CommandError {
	return NewCommandError(422, err, opts...)
}

func Internal(err error, opts ...CommandErrorOption) CommandError {
	return NewCommandError(500, err, opts...)
}
