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
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/tomoncle/iws/database"
	"github.com/tomoncle/iws/schema"
	"github.com/tomoncle/iws/types"
	"github.com/uptrace/bun"
)

type baseRepositoryImpl[T any, PT interface {
	*T
	Keyed
}] struct {
	provider SessionProvider
	entity   string
	logger   database.Logger
}

// NewRepository returns a generic repository opening its transactions on provider.
// entity names the stored type in errors and logs. The registered schema models
// are made known to the provider's dialect first.
func NewRepository[T any, PT interface {
	*T
	Keyed
}](provider SessionProvider, entity string) Repository[T] {
	provider.Dialect().Tables().Register(database.RegistrationOrder()...)
	return &baseRepositoryImpl[T, PT]{provider: provider, entity: entity, logger: database.GetLogger()}
}

func (r *baseRepositoryImpl[T, PT]) Entity() string { return r.entity }

func (r *baseRepositoryImpl[T, PT]) Save(ctx context.Context, entity *T) (*T, error) {
	var saved *T
	err := r.run(ctx, "save", func(ctx context.Context, tx bun.Tx) error {
		if err := r.insert(ctx, tx, entity); err != nil {
			return err
		}
		fresh, err := r.load(ctx, tx, PT(entity).PK())
		if err != nil {
			return err
		}
		saved = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *baseRepositoryImpl[T, PT]) SaveAll(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	return r.run(ctx, "saveAll", func(ctx context.Context, tx bun.Tx) error {
		for i, entity := range entities {
			if err := r.insert(ctx, tx, entity); err != nil {
				r.logger.Debug("batch insert aborted", "entity", r.entity, "index", i)
				return err
			}
		}
		return nil
	})
}

func (r *baseRepositoryImpl[T, PT]) FindByFilter(ctx context.Context, filter types.Filter) ([]*T, error) {
	var entities []*T
	err := r.run(ctx, "findByFilter", func(ctx context.Context, tx bun.Tx) error {
		found, err := r.find(ctx, tx, filter, true)
		entities = found
		return err
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T, PT]) Update(ctx context.Context, entity *T) (int64, error) {
	var affected int64
	err := r.run(ctx, "update", func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model(entity).
			WherePK().
			ExcludeColumn("created_at").
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

func (r *baseRepositoryImpl[T, PT]) Delete(ctx context.Context, filter types.Filter) error {
	return r.run(ctx, "delete", func(ctx context.Context, tx bun.Tx) error {
		rows, err := r.find(ctx, tx, filter, false)
		if err != nil {
			return err
		}
		switch len(rows) {
		case 0:
			return &types.NotFoundError{Entity: r.entity, Filter: filter}
		case 1:
			return r.remove(ctx, tx, rows)
		default:
			return &types.AmbiguousMatchError{Entity: r.entity, Filter: filter, Count: len(rows)}
		}
	})
}

func (r *baseRepositoryImpl[T, PT]) BulkDelete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.run(ctx, "bulkDelete", func(ctx context.Context, tx bun.Tx) error {
		rows, err := r.find(ctx, tx, types.ByIDs(ids), false)
		if err != nil {
			return err
		}
		found := make(map[int64]struct{}, len(rows))
		for _, row := range rows {
			found[PT(row).PK()] = struct{}{}
		}
		var missing []int64
		for _, id := range ids {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return &types.NotFoundError{Entity: r.entity, Filter: types.ByIDs(missing)}
		}
		return r.remove(ctx, tx, rows)
	})
}

func (r *baseRepositoryImpl[T, PT]) Count(ctx context.Context, filter types.Filter) (int, error) {
	var total int
	err := r.run(ctx, "count", func(ctx context.Context, tx bun.Tx) error {
		conds, err := r.conditions(tx, filter)
		if err != nil {
			return err
		}
		query := tx.NewSelect().Model((*T)(nil))
		for _, c := range conds {
			query = query.Where(c.query, c.args...)
		}
		total, err = query.Count(ctx)
		return err
	})
	return total, err
}

func (r *baseRepositoryImpl[T, PT]) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[T], error) {
	pagination := types.NewDefaultPagination[T](pageRequest.GetPage(), pageRequest.GetPageSize())
	err := r.run(ctx, "page", func(ctx context.Context, tx bun.Tx) error {
		conds, err := r.conditions(tx, pageRequest.GetFilter())
		if err != nil {
			return err
		}
		orders, err := r.orders(tx, pageRequest.GetOrders())
		if err != nil {
			return err
		}
		counter := tx.NewSelect().Model((*T)(nil))
		for _, c := range conds {
			counter = counter.Where(c.query, c.args...)
		}
		total, err := counter.Count(ctx)
		if err != nil || total == 0 {
			return err
		}

		entities := make([]*T, 0, pageRequest.GetPageSize())
		query := r.selectQuery(tx, &entities)
		for _, c := range conds {
			query = query.Where(c.query, c.args...)
		}
		for _, o := range orders {
			query = query.OrderExpr(o.query, o.args...)
		}
		err = query.
			OrderExpr("?TableAlias.id ASC").
			Offset(pageRequest.GetOffset()).
			Limit(pageRequest.GetPageSize()).
			Scan(ctx)
		if err != nil {
			return err
		}
		pagination.Total = total
		pagination.Items = entities
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pagination, nil
}

// insert writes the row and then every owned child row, in order.
func (r *baseRepositoryImpl[T, PT]) insert(ctx context.Context, tx bun.Tx, entity *T) error {
	if _, err := tx.NewInsert().Model(entity).Exec(ctx); err != nil {
		return err
	}
	owner, ok := any(entity).(schema.Owner)
	if !ok {
		return nil
	}
	pk := PT(entity).PK()
	for _, child := range owner.Children() {
		if child.Rows == nil {
			continue
		}
		for _, row := range child.Rows(pk) {
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// remove deletes owned children referencing rows, then rows themselves.
func (r *baseRepositoryImpl[T, PT]) remove(ctx context.Context, tx bun.Tx, rows []*T) error {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, PT(row).PK())
	}
	if owner, ok := any(rows[0]).(schema.Owner); ok {
		for _, child := range owner.Children() {
			if child.ForeignKey == "" {
				continue
			}
			_, err := tx.NewDelete().
				Model(child.Model).
				Where("? IN (?)", bun.Ident(child.ForeignKey), bun.In(ids)).
				Exec(ctx)
			if err != nil {
				return err
			}
		}
	}
	res, err := tx.NewDelete().
		Model((*T)(nil)).
		Where("? IN (?)", bun.Ident("id"), bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n != int64(len(ids)) {
		r.logger.Warn("deleted row count mismatch", "entity", r.entity, "expected", len(ids), "actual", n)
	}
	return nil
}

func (r *baseRepositoryImpl[T, PT]) load(ctx context.Context, db bun.IDB, id int64) (*T, error) {
	entity := new(T)
	err := r.selectQuery(db, entity).Where("?TableAlias.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T, PT]) find(ctx context.Context, db bun.IDB, filter types.Filter, relations bool) ([]*T, error) {
	conds, err := r.conditions(db, filter)
	if err != nil {
		return nil, err
	}
	entities := make([]*T, 0)
	var query *bun.SelectQuery
	if relations {
		query = r.selectQuery(db, &entities)
	} else {
		query = db.NewSelect().Model(&entities)
	}
	for _, c := range conds {
		query = query.Where(c.query, c.args...)
	}
	if err := query.OrderExpr("?TableAlias.id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	if entities == nil {
		entities = make([]*T, 0)
	}
	return entities, nil
}

// selectQuery selects into dest with every declared relation, children in id order.
func (r *baseRepositoryImpl[T, PT]) selectQuery(db bun.IDB, dest any) *bun.SelectQuery {
	query := db.NewSelect().Model(dest)
	if loader, ok := any(new(T)).(schema.Loader); ok {
		for _, rel := range loader.Relations() {
			query = query.Relation(rel, func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.OrderExpr("?TableAlias.id ASC")
			})
		}
	}
	return query
}

type clause struct {
	query string
	args  []interface{}
}

// conditions turns an equality filter into where clauses, in key order.
func (r *baseRepositoryImpl[T, PT]) conditions(db bun.IDB, filter types.Filter) ([]clause, error) {
	table := db.Dialect().Tables().Get(reflect.TypeOf((*T)(nil)).Elem())
	var violations []types.Violation
	conds := make([]clause, 0, len(filter))
	for _, column := range filter.Keys() {
		if !table.HasField(column) {
			violations = append(violations, types.Violation{
				Field:   column,
				Message: fmt.Sprintf("%s has no column '%s'!", r.entity, column),
			})
			continue
		}
		conds = append(conds, condition(column, filter[column]))
	}
	if len(violations) > 0 {
		return nil, types.NewValidationError(r.entity, violations...)
	}
	return conds, nil
}

func condition(column string, value interface{}) clause {
	if value == nil {
		return clause{"?TableAlias.? IS NULL", []interface{}{bun.Ident(column)}}
	}
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		if rv.Len() == 0 {
			return clause{"1 = 0", nil}
		}
		return clause{"?TableAlias.? IN (?)", []interface{}{bun.Ident(column), bun.In(value)}}
	}
	return clause{"?TableAlias.? = ?", []interface{}{bun.Ident(column), value}}
}

// orders accepts "column" or "column ASC|DESC".
func (r *baseRepositoryImpl[T, PT]) orders(db bun.IDB, orders []string) ([]clause, error) {
	table := db.Dialect().Tables().Get(reflect.TypeOf((*T)(nil)).Elem())
	out := make([]clause, 0, len(orders))
	for _, order := range orders {
		parts := strings.Fields(order)
		if len(parts) == 0 {
			continue
		}
		dir := "ASC"
		if len(parts) > 1 {
			dir = strings.ToUpper(parts[1])
		}
		if len(parts) > 2 || (dir != "ASC" && dir != "DESC") || !table.HasField(parts[0]) {
			return nil, types.NewValidationError(r.entity, types.Violation{
				Field:   parts[0],
				Message: fmt.Sprintf("invalid order '%s'!", order),
			})
		}
		out = append(out, clause{"?TableAlias.? " + dir, []interface{}{bun.Ident(parts[0])}})
	}
	return out, nil
}

func (r *baseRepositoryImpl[T, PT]) run(ctx context.Context, op string, work func(ctx context.Context, tx bun.Tx) error) error {
	uow := NewUnitOfWork(r.provider, r.entity+"."+op)
	if err := uow.Run(ctx, work); err != nil {
		return r.translate(op, err)
	}
	return nil
}

// translate keeps domain errors and maps driver errors to them.
func (r *baseRepositoryImpl[T, PT]) translate(op string, err error) error {
	var (
		validation *types.ValidationError
		notFound   *types.NotFoundError
		ambiguous  *types.AmbiguousMatchError
		duplicate  *types.DuplicateRecordError
		mapping    *types.MappingError
	)
	switch {
	case errors.As(err, &validation):
		return validation
	case errors.As(err, &notFound):
		return notFound
	case errors.As(err, &ambiguous):
		return ambiguous
	case errors.As(err, &duplicate):
		return duplicate
	case errors.As(err, &mapping):
		return mapping
	}
	if ok, kind := database.IsSqlError(err); ok {
		switch kind {
		case database.NoRowsErr:
			return &types.NotFoundError{Entity: r.entity}
		case database.DuplicateKeyErr:
			return &types.DuplicateRecordError{
				Entity:  r.entity,
				Message: fmt.Sprintf("%s already exists!", r.entity),
				Err:     err,
			}
		case database.ForeignKeyViolationErr:
			return types.NewValidationError(r.entity, types.Violation{
				Message: fmt.Sprintf("%s references a record that does not exist!", r.entity),
			})
		}
	}
	r.logger.Error("repository operation failed", "entity", r.entity, "op", op, "error", err)
	return &types.PersistenceError{Op: op, Entity: r.entity, Err: err}
}
