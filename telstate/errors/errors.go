// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.
package errors

import (
	"errors"
	"fmt"
)

type (
	// Service errors indicate an error returned from the telescope state
	// service.
	Service string

	// Payload errors indicate a malformed or unexpected payload returned
	// from the telescope state service.
	Payload string

	// Argument errors indicate an invalid argument.
	Argument struct {
		Name  string
		Value any
	}
)

var (
	ErrService  = errors.New("service error")
	ErrPayload  = errors.New("malformed payload")
	ErrArgument = errors.New("invalid argument")

	// ErrNotListening indicates a method call on a client that has not
	// started listening to its response topic.
	ErrNotListening = errors.New("client is not listening")
)

func (e Service) Error() string {
	return fmt.Sprintf("%s: %s", ErrService, string(e))
}

func (Service) Unwrap() error {
	return ErrService
}

func (e Payload) Error() string {
	return fmt.Sprintf("%s: %s", ErrPayload, string(e))
}

func (Payload) Unwrap() error {
	return ErrPayload
}

func (e Argument) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s=%v", ErrArgument, e.Name, e.Value)
	}
	return fmt.Sprintf("%s: %s", ErrArgument, e.Name)
}

func (Argument) Unwrap() error {
	return ErrArgument
}
