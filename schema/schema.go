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

package schema

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Base is embedded by every entity table.
type Base struct {
	ID        int64     `bun:"id,pk,autoincrement"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeAppendModelHook = (*Base)(nil)

// BeforeAppendModel stamps both timestamps on insert, replacing any value carried
// by the row, and refreshes UpdatedAt on update.
func (b *Base) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		b.CreatedAt = now
		b.UpdatedAt = now
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}

// PK returns the primary key, zero while unsaved.
func (b *Base) PK() int64 {
	return b.ID
}

// Child describes rows owned by a parent row.
//
// Rows, when set, is called after the owner has been inserted and returns
// struct pointers to insert in the same unit of work; it also assigns the
// owner key. ForeignKey, when set, names the column referencing the owner:
// rows of Model matching it are removed before the owner is deleted.
type Child struct {
	Model      any
	ForeignKey string
	Rows       func(ownerID int64) []any
}

// Owner is implemented by schemas with owned children.
type Owner interface {
	Children() []Child
}

// Loader is implemented by schemas whose relations are loaded on every read.
type Loader interface {
	Relations() []string
}
