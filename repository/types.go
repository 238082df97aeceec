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

package repository

import (
	"context"
	"database/sql"

	"github.com/tomoncle/iws/types"
	"github.com/uptrace/bun"
	bunschema "github.com/uptrace/bun/schema"
)

// SessionProvider opens transactions. *bun.DB satisfies it.
type SessionProvider interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (bun.Tx, error)
	Dialect() bunschema.Dialect
}

// Keyed is implemented by every storage schema through its embedded base.
type Keyed interface {
	PK() int64
}

// CrudRepository defines the write and filter operations of a generic entity type.
type CrudRepository[T any] interface {
	Save(ctx context.Context, entity *T) (*T, error)

	SaveAll(ctx context.Context, entities []*T) error

	FindByFilter(ctx context.Context, filter types.Filter) ([]*T, error)

	Update(ctx context.Context, entity *T) (int64, error)

	Delete(ctx context.Context, filter types.Filter) error

	BulkDelete(ctx context.Context, ids []int64) error
}

// PageQueryRepository defines pagination functionality for listing entities.
type PageQueryRepository[T any] interface {
	Count(ctx context.Context, filter types.Filter) (int, error)
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// Repository combines CRUD and pagination operations. Every call runs in its
// own unit of work.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	Entity() string
}
