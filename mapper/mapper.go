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

package mapper

import (
	"time"

	"github.com/tomoncle/iws/model"
	"github.com/tomoncle/iws/schema"
	"github.com/tomoncle/iws/types"
)

// Mapper converts between a model and its schema. Both directions are pure.
type Mapper[M any, S any] interface {
	ToSchema(m *M) (*S, error)
	ToModel(s *S) (*M, error)
}

// Merger copies the fields provided on src onto dst. Nested collections are
// left untouched.
type Merger[M any, S any] interface {
	Merge(src *M, dst *S) error
}

// EntityMapper is what a service needs from the mapper of its entity.
type EntityMapper[M any, S any] interface {
	Mapper[M, S]
	Merger[M, S]
}

// ToSchemas maps every element with m, keeping order.
func ToSchemas[M any, S any](m Mapper[M, S], models []M) ([]*S, error) {
	out := make([]*S, 0, len(models))
	for i := range models {
		s, err := m.ToSchema(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ToModels maps every element with m, keeping order. A nil input gives an empty slice.
func ToModels[M any, S any](m Mapper[M, S], schemas []*S) ([]M, error) {
	out := make([]M, 0, len(schemas))
	for _, s := range schemas {
		v, err := m.ToModel(s)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func absent(tag model.Tag, field string) error {
	return &types.MappingError{Entity: tag.Display(), Field: field, Reason: "required field is absent"}
}

func required[T any](tag model.Tag, field string, v *T) (T, error) {
	if v == nil {
		var zero T
		return zero, absent(tag, field)
	}
	return *v, nil
}

func nilModel(tag model.Tag) error {
	return &types.MappingError{Entity: tag.Display(), Reason: "nil model"}
}

func nilSchema(tag model.Tag) error {
	return &types.MappingError{Entity: tag.Display(), Reason: "nil schema"}
}

func auditToSchema(a model.Auditable) schema.Base {
	var b schema.Base
	if a.ID != nil {
		b.ID = *a.ID
	}
	if a.CreatedAt != nil {
		b.CreatedAt = *a.CreatedAt
	}
	if a.UpdatedAt != nil {
		b.UpdatedAt = *a.UpdatedAt
	}
	return b
}

func auditToModel(b schema.Base) model.Auditable {
	return model.Auditable{
		ID:        idPtr(b.ID),
		CreatedAt: timePtr(b.CreatedAt),
		UpdatedAt: timePtr(b.UpdatedAt),
	}
}

func idPtr(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = clonePtr(src)
	}
}
