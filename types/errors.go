/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// Violation is one failed field rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated rule of a payload or batch.
type ValidationError struct {
	Entity     string
	Violations []Violation
}

func NewValidationError(entity string, violations ...Violation) *ValidationError {
	return &ValidationError{Entity: entity, Violations: violations}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(msgs, "; "))
}

// DuplicateRecordError reports a uniqueness conflict, found either by the
// pre-insert lookup or by the store's unique constraint.
type DuplicateRecordError struct {
	Entity  string
	Message string
	Err     error
}

func (e *DuplicateRecordError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists!", e.Entity)
}

func (e *DuplicateRecordError) Unwrap() error { return e.Err }

// NotFoundError reports that no row matched.
type NotFoundError struct {
	Entity  string
	Filter  Filter
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s doesn't exist!", e.Entity)
}

// AmbiguousMatchError reports a single-row operation whose filter matched several rows.
type AmbiguousMatchError struct {
	Entity string
	Filter Filter
	Count  int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%s filter %s matched %d rows, expected exactly one", e.Entity, e.Filter, e.Count)
}

// PersistenceError wraps a store failure that rolled back its unit of work.
type PersistenceError struct {
	Op     string
	Entity string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Entity, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// MappingError is a structural defect between a model and its schema.
type MappingError struct {
	Entity string
	Field  string
	Reason string
}

func (e *MappingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("mapping %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("mapping %s.%s: %s", e.Entity, e.Field, e.Reason)
}

// CriticalError marks an error whose stack trace is reported with the response.
type CriticalError struct {
	Err   error
	Stack string
}

// Critical wraps err and records the current stack. It returns nil for a nil error.
func Critical(err error) error {
	if err == nil {
		return nil
	}
	var ce *CriticalError
	if errors.As(err, &ce) {
		return err
	}
	return &CriticalError{Err: err, Stack: string(debug.Stack())}
}

func (e *CriticalError) Error() string { return e.Err.Error() }

func (e *CriticalError) Unwrap() error { return e.Err }
