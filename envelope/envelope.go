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

package envelope

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tomoncle/iws/database"
	"github.com/tomoncle/iws/types"
)

// Error is one failure entry of an envelope.
type Error struct {
	Status    int                    `json:"status"`
	Message   string                 `json:"message"`
	DebugInfo map[string]interface{} `json:"debug_info"`
}

// PageMeta describes the page carried by a paginated read.
type PageMeta struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
}

// Envelope is the uniform response of every service operation. Data and
// Errors are never both populated.
type Envelope[M any] struct {
	Status     int       `json:"status"`
	Message    string    `json:"message,omitempty"`
	Data       []M       `json:"data"`
	Errors     []*Error  `json:"errors"`
	Pagination *PageMeta `json:"pagination,omitempty"`
}

// HasError reports whether the envelope carries at least one error.
func (e *Envelope[M]) HasError() bool {
	return len(e.Errors) > 0
}

// JSON encodes the envelope.
func (e *Envelope[M]) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Payload is what a successful or failed operation hands to Build: a single
// Item, a collection of Items, or a Fault.
type Payload[M any] interface {
	payload()
}

// Item is a single model.
type Item[M any] struct {
	Value *M
}

// Items is a list of models; an empty list is still data.
type Items[M any] struct {
	Values []M
}

// Fault is a prepared error entry.
type Fault[M any] struct {
	Err *Error
}

func (Item[M]) payload()  {}
func (Items[M]) payload() {}
func (Fault[M]) payload() {}

// Build assembles an envelope. A non-nil err wins over the payload and is
// converted by FromError; a status of 400 or above without payload becomes a
// single error entry carrying message.
func Build[M any](status int, payload Payload[M], message string, err error) *Envelope[M] {
	if err != nil {
		env := FromError[M](err)
		if message != "" && len(env.Errors) == 1 {
			env.Errors[0].Message = message
		}
		return env
	}

	env := &Envelope[M]{Status: status, Message: message}
	switch p := payload.(type) {
	case Item[M]:
		if p.Value != nil {
			env.Data = []M{*p.Value}
		}
	case Items[M]:
		env.Data = p.Values
		if env.Data == nil {
			env.Data = []M{}
		}
	case Fault[M]:
		env.Errors = []*Error{p.Err}
		env.Message = ""
	case nil:
		if status >= http.StatusBadRequest {
			env.Errors = []*Error{BuildError(status, message, nil, false)}
			env.Message = ""
		}
	}
	return env
}

// Success wraps one model.
func Success[M any](status int, m *M) *Envelope[M] {
	return Build[M](status, Item[M]{Value: m}, "", nil)
}

// List wraps a collection of models with an optional message.
func List[M any](status int, models []M, message string) *Envelope[M] {
	return Build[M](status, Items[M]{Values: models}, message, nil)
}

// BuildError creates an error entry. An empty message falls back to the
// error text, then to the status text. Critical entries carry the stack trace
// under debug_info.exception.
func BuildError(status int, message string, err error, critical bool) *Error {
	if message == "" && err != nil {
		message = err.Error()
	}
	if message == "" {
		message = http.StatusText(status)
	}
	e := &Error{Status: status, Message: message}
	if critical && err != nil {
		e.DebugInfo = map[string]interface{}{"exception": stackOf(err)}
	}
	return e
}

func stackOf(err error) string {
	var ce *types.CriticalError
	if errors.As(err, &ce) {
		return err.Error() + "\n" + ce.Stack
	}
	return err.Error()
}

const unexpectedMessage = "An unexpected error occurred!"

// FromError converts any error into a failure envelope:
// ValidationError 422 (one entry per violation), DuplicateRecordError 409,
// NotFoundError 404, anything else 500. A 500 is logged and answered with a
// generic message; its error text only appears under debug_info when critical.
func FromError[M any](err error) *Envelope[M] {
	if err == nil {
		return &Envelope[M]{Status: http.StatusInternalServerError, Errors: []*Error{BuildError(http.StatusInternalServerError, "", nil, false)}}
	}

	var (
		validationErr *types.ValidationError
		duplicateErr  *types.DuplicateRecordError
		notFoundErr   *types.NotFoundError
		mappingErr    *types.MappingError
		criticalErr   *types.CriticalError
	)
	critical := errors.As(err, &criticalErr)

	switch {
	case errors.As(err, &validationErr):
		env := &Envelope[M]{Status: http.StatusUnprocessableEntity}
		for _, v := range validationErr.Violations {
			env.Errors = append(env.Errors, BuildError(http.StatusUnprocessableEntity, v.Message, nil, false))
		}
		if len(env.Errors) == 0 {
			env.Errors = []*Error{BuildError(http.StatusUnprocessableEntity, validationErr.Error(), nil, false)}
		}
		return env
	case errors.As(err, &duplicateErr):
		return failure[M](BuildError(http.StatusConflict, duplicateErr.Error(), nil, false))
	case errors.As(err, &notFoundErr):
		return failure[M](BuildError(http.StatusNotFound, notFoundErr.Error(), nil, false))
	case errors.As(err, &mappingErr):
		database.GetLogger().Error("Mapping failure", "entity", mappingErr.Entity, "field", mappingErr.Field, "error", err)
		return failure[M](BuildError(http.StatusInternalServerError, unexpectedMessage, err, critical))
	default:
		database.GetLogger().Error("Unclassified failure", "error", err)
		return failure[M](BuildError(http.StatusInternalServerError, unexpectedMessage, err, critical))
	}
}

func failure[M any](e *Error) *Envelope[M] {
	return &Envelope[M]{Status: e.Status, Errors: []*Error{e}}
}
