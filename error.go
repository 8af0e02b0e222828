// Copyright 2020 SEQSENSE, Inc.
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

package s3promote

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Check them with errors.Is.
var (
	// ErrNoVersionFound is returned when a component name carries no trailing version token.
	ErrNoVersionFound = errors.New("no version number found")
	// ErrNoMappingFound is returned when no mapping rule key prefixes a component name.
	ErrNoMappingFound = errors.New("no mapping found")
	// ErrMissingConfigField is returned when a mapping entry lacks a required field.
	ErrMissingConfigField = errors.New("missing required field")
	// ErrDuplicateRule is returned when two mapping entries share a component key.
	ErrDuplicateRule = errors.New("duplicate component key")
	// ErrInvalidTemplate is returned when a key template has no usable version placeholder.
	ErrInvalidTemplate = errors.New("invalid key template")
	// ErrSourceMissing is reported when the source object does not exist.
	ErrSourceMissing = errors.New("source object does not exist")
	// ErrNotFound is the classification of a store "not found" response.
	ErrNotFound = errors.New("object not found")
	// ErrPermissionDenied is the classification of a store "forbidden" response.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrTransport is the classification of any other store failure.
	ErrTransport = errors.New("transport error")
	// ErrDryRun is the reason attached to outcomes skipped by dry-run mode.
	ErrDryRun = errors.New("dry run")
	// ErrUnexpected is reported for a panic recovered while processing one item.
	ErrUnexpected = errors.New("unexpected error")
)

// ObjectError describes a failed store operation on a bucket/key.
type ObjectError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *ObjectError) Error() string {
	switch {
	case e.Bucket != "" && e.Key != "":
		return fmt.Sprintf("%s %s: %v", e.Op, (&s3Path{bucket: e.Bucket, key: e.Key}).String(), e.Err)
	case e.Bucket != "":
		return fmt.Sprintf("%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *ObjectError) Unwrap() error {
	return e.Err
}

// classified joins a classification sentinel with the raw cause so that
// errors.Is matches the sentinel while the message keeps the cause.
type classified struct {
	kind  error
	cause error
}

func (e *classified) Error() string {
	if e.cause == nil {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *classified) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// itemError ties a failure to the component name it was reported for.
type itemError struct {
	name string
	err  error
}

func (e *itemError) Error() string {
	return e.name + ": " + e.err.Error()
}

func (e *itemError) Unwrap() error {
	return e.err
}

type multiErr struct {
	err []error
}

func (e *multiErr) Append(err error) {
	e.err = append(e.err, err)
}

func (e *multiErr) Len() int {
	return len(e.err)
}

func (e *multiErr) ErrOrNil() error {
	if e.Len() > 0 {
		return e
	}
	return nil
}

func (e *multiErr) Error() string {
	var errMsgs []string
	for _, err := range e.err {
		errMsgs = append(errMsgs, err.Error())
	}
	return strings.Join(errMsgs, "\n")
}

func (e *multiErr) Unwrap() []error {
	return e.err
}
