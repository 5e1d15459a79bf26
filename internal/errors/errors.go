// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors is a thin layer over github.com/go-errors/errors so that
// every error leaving the library carries the stack of its origin.
package errors

import (
	"errors"
	"fmt"

	errorsGo "github.com/go-errors/errors"
)

// Error kinds shared by the public packages. Callers match them with Is.
var (
	ErrInvalidArgument = errors.New(`invalid argument`)
	ErrUnsupported     = errors.ErrUnsupported
	ErrExhausted       = errors.New(`resource exhausted`)
	ErrPassFailed      = errors.New(`resampling pass failed`)
)

type Error = errorsGo.Error

func Is(err, target error) bool { return errorsGo.Is(err, target) }

func As(err error, target any) bool { return errorsGo.As(err, target) }

func Unwrap(err error) error { return errorsGo.Unwrap(err) }

// New wraps obj with a stack trace. nil yields nil, and an error that
// already carries a stack is returned as is so the origin is kept.
func New(obj any) *Error {
	if obj == nil {
		return nil
	}
	if errGo, ok := obj.(*errorsGo.Error); ok {
		return errGo
	}
	return errorsGo.Wrap(obj, 1)
}

func Errorf(format string, a ...any) *Error { return errorsGo.Wrap(fmt.Errorf(format, a...), 1) }

func Wrap(e any, skip int) *Error { return errorsGo.Wrap(e, skip+1) }

// Kind returns an error of the given kind with a formatted detail message.
// The result matches kind with Is.
func Kind(kind error, format string, a ...any) *Error {
	return errorsGo.Wrap(fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, a...)), 1)
}

// Recovered turns a value obtained from recover() into an error of the
// given kind. A recovered *Error keeps its original stack.
func Recovered(kind error, r any) *Error {
	if r == nil {
		return nil
	}
	var cause error
	switch v := r.(type) {
	case *errorsGo.Error:
		cause = v.Err
	case error:
		cause = v
	default:
		cause = fmt.Errorf("%v", v)
	}
	return errorsGo.Wrap(fmt.Errorf("%w: %w", kind, cause), 2)
}
