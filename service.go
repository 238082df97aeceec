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

package iws

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tomoncle/iws/database"
	"github.com/tomoncle/iws/envelope"
	"github.com/tomoncle/iws/mapper"
	"github.com/tomoncle/iws/model"
	"github.com/tomoncle/iws/repository"
	"github.com/tomoncle/iws/types"
	"github.com/tomoncle/iws/validator"
)

// Service orchestrates validation, mapping and persistence for one entity and
// reports every outcome as an envelope.
type Service[M any] interface {
	// Create validates and stores a new entity with its nested children.
	Create(ctx context.Context, m *M) *envelope.Envelope[M]

	// CreateFrom decodes raw request data and creates the entity.
	CreateFrom(ctx context.Context, raw map[string]any) *envelope.Envelope[M]

	// BulkCreate stores every entity in one unit of work, or none of them.
	BulkCreate(ctx context.Context, models []*M) *envelope.Envelope[M]

	// Update merges the provided fields onto the stored entity.
	Update(ctx context.Context, m *M) *envelope.Envelope[M]

	// UpdateFrom decodes raw request data and updates the entity.
	UpdateFrom(ctx context.Context, raw map[string]any) *envelope.Envelope[M]

	// Delete removes the entity and its owned children.
	Delete(ctx context.Context, id int64) *envelope.Envelope[M]

	// BulkDelete removes every listed entity, or none of them.
	BulkDelete(ctx context.Context, ids []int64) *envelope.Envelope[M]

	// Find returns the entities matching filter.
	Find(ctx context.Context, filter types.Filter) *envelope.Envelope[M]

	// FindByID returns a single entity.
	FindByID(ctx context.Context, id int64) *envelope.Envelope[M]

	// Page returns one page of the entities matching the request filter.
	Page(ctx context.Context, page *types.PageRequest) *envelope.Envelope[M]
}

// Conflict is a uniqueness rule: a stored row matching Filter makes the
// candidate a duplicate reported with Message.
type Conflict struct {
	Filter  types.Filter
	Message string
}

// Entity describes one entity kind to the generic service.
type Entity[M any, S any] struct {
	Tag model.Tag
	// Unique returns the rules checked before every insert. Optional.
	Unique func(m *M) []Conflict
	// Prepare runs after validation, before mapping. Optional.
	Prepare func(m *M) error
}

type options struct {
	debug    bool
	registry *mapper.Registry
	logger   database.Logger
}

// Option configures a service.
type Option func(*options)

// WithDebug attaches a stack trace to unclassified failures.
func WithDebug() Option {
	return func(o *options) { o.debug = true }
}

// WithRegistry resolves mappers from r instead of mapper.Default().
func WithRegistry(r *mapper.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger replaces the package logger.
func WithLogger(l database.Logger) Option {
	return func(o *options) { o.logger = l }
}

type entityService[M any, S any, PS interface {
	*S
	repository.Keyed
}] struct {
	entity    Entity[M, S]
	repo      repository.Repository[S]
	mapper    mapper.EntityMapper[M, S]
	mapperErr error
	validator *validator.Validator
	logger    database.Logger
	debug     bool
}

// NewService builds the service of an entity. A missing or mismatched mapper
// does not fail construction; every call then reports the mapping error.
func NewService[M any, S any, PS interface {
	*S
	repository.Keyed
}](provider repository.SessionProvider, entity Entity[M, S], opts ...Option) Service[M] {
	return newEntityService[M, S, PS](provider, entity, opts...)
}

func newEntityService[M any, S any, PS interface {
	*S
	repository.Keyed
}](provider repository.SessionProvider, entity Entity[M, S], opts ...Option) *entityService[M, S, PS] {
	o := &options{registry: mapper.Default(), logger: database.GetLogger()}
	for _, opt := range opts {
		opt(o)
	}
	m, err := mapper.Lookup[M, S](o.registry, entity.Tag)
	if err != nil {
		o.logger.Error("mapper lookup failed", "entity", entity.Tag.Display(), "error", err)
	}
	return &entityService[M, S, PS]{
		entity:    entity,
		repo:      repository.NewRepository[S, PS](provider, entity.Tag.Display()),
		mapper:    m,
		mapperErr: err,
		validator: validator.New(entity.Tag),
		logger:    o.logger,
		debug:     o.debug,
	}
}

func (s *entityService[M, S, PS]) Create(ctx context.Context, m *M) *envelope.Envelope[M] {
	created, err := s.create(ctx, m)
	if err != nil {
		return s.fail("create", err)
	}
	return envelope.Build[M](http.StatusCreated, envelope.Item[M]{Value: created}, "", nil)
}

func (s *entityService[M, S, PS]) CreateFrom(ctx context.Context, raw map[string]any) *envelope.Envelope[M] {
	m, err := s.decode(raw)
	if err != nil {
		return s.fail("create", err)
	}
	return s.Create(ctx, m)
}

func (s *entityService[M, S, PS]) BulkCreate(ctx context.Context, models []*M) *envelope.Envelope[M] {
	created, err := s.bulkCreate(ctx, models)
	if err != nil {
		return s.fail("bulkCreate", err)
	}
	return envelope.List[M](http.StatusCreated, created, "")
}

func (s *entityService[M, S, PS]) Update(ctx context.Context, m *M) *envelope.Envelope[M] {
	updated, err := s.update(ctx, m)
	if err != nil {
		return s.fail("update", err)
	}
	return envelope.Build[M](http.StatusOK, envelope.Item[M]{Value: updated}, "", nil)
}

func (s *entityService[M, S, PS]) UpdateFrom(ctx context.Context, raw map[string]any) *envelope.Envelope[M] {
	m, err := s.decode(raw)
	if err != nil {
		return s.fail("update", err)
	}
	return s.Update(ctx, m)
}

func (s *entityService[M, S, PS]) Delete(ctx context.Context, id int64) *envelope.Envelope[M] {
	if _, err := s.require(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	if err := s.repo.Delete(ctx, types.ByID(id)); err != nil {
		return s.fail("delete", err)
	}
	s.logger.Info("entity deleted", "entity", s.entity.Tag.Display(), "id", id)
	return envelope.Build[M](http.StatusOK, nil, fmt.Sprintf("%s deleted", s.entity.Tag.Display()), nil)
}

func (s *entityService[M, S, PS]) BulkDelete(ctx context.Context, ids []int64) *envelope.Envelope[M] {
	if len(ids) == 0 {
		return s.fail("bulkDelete", types.NewValidationError(s.entity.Tag.Display(), types.Violation{
			Field:   "id",
			Message: fmt.Sprintf("%s 'id' is required!", s.entity.Tag.Display()),
		}))
	}
	if err := s.repo.BulkDelete(ctx, ids); err != nil {
		return s.fail("bulkDelete", err)
	}
	return envelope.Build[M](http.StatusOK, nil, fmt.Sprintf("%d %s records deleted", len(ids), s.entity.Tag), nil)
}

func (s *entityService[M, S, PS]) Find(ctx context.Context, filter types.Filter) *envelope.Envelope[M] {
	if s.mapperErr != nil {
		return s.fail("find", s.mapperErr)
	}
	rows, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		return s.fail("find", err)
	}
	models, err := mapper.ToModels[M, S](s.mapper, rows)
	if err != nil {
		return s.fail("find", err)
	}
	message := ""
	if len(models) == 0 {
		message = fmt.Sprintf("No %s records found", s.entity.Tag)
	}
	return envelope.List[M](http.StatusOK, models, message)
}

func (s *entityService[M, S, PS]) FindByID(ctx context.Context, id int64) *envelope.Envelope[M] {
	if s.mapperErr != nil {
		return s.fail("find", s.mapperErr)
	}
	row, err := s.require(ctx, id)
	if err != nil {
		return s.fail("find", err)
	}
	m, err := s.mapper.ToModel(row)
	if err != nil {
		return s.fail("find", err)
	}
	return envelope.Success[M](http.StatusOK, m)
}

func (s *entityService[M, S, PS]) Page(ctx context.Context, page *types.PageRequest) *envelope.Envelope[M] {
	if s.mapperErr != nil {
		return s.fail("page", s.mapperErr)
	}
	if page == nil {
		page = types.NewDefaultPageRequest(1, 10)
	}
	result, err := s.repo.Page(ctx, page)
	if err != nil {
		return s.fail("page", err)
	}
	models, err := mapper.ToModels[M, S](s.mapper, result.Items)
	if err != nil {
		return s.fail("page", err)
	}
	env := envelope.List[M](http.StatusOK, models, "")
	env.Pagination = &envelope.PageMeta{
		Page:     result.Page,
		PageSize: result.PageSize,
		Total:    result.Total,
		Pages:    result.Pages(),
	}
	return env
}

func (s *entityService[M, S, PS]) create(ctx context.Context, m *M) (*M, error) {
	if s.mapperErr != nil {
		return nil, s.mapperErr
	}
	if err := s.validator.Validate(types.OperationCreate, m); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, m); err != nil {
		return nil, err
	}
	if err := s.prepare(m); err != nil {
		return nil, err
	}
	row, err := s.mapper.ToSchema(m)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, row)
	if err != nil {
		return nil, err
	}
	s.logger.Info("entity created", "entity", s.entity.Tag.Display(), "id", PS(saved).PK())
	return s.mapper.ToModel(saved)
}

func (s *entityService[M, S, PS]) bulkCreate(ctx context.Context, models []*M) ([]M, error) {
	if s.mapperErr != nil {
		return nil, s.mapperErr
	}
	if err := validator.Validates(s.validator, types.OperationCreate, models); err != nil {
		return nil, err
	}
	rows := make([]*S, 0, len(models))
	for _, m := range models {
		if err := s.checkUnique(ctx, m); err != nil {
			return nil, err
		}
		if err := s.prepare(m); err != nil {
			return nil, err
		}
		row, err := s.mapper.ToSchema(m)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := s.repo.SaveAll(ctx, rows); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, PS(row).PK())
	}
	saved, err := s.repo.FindByFilter(ctx, types.ByIDs(ids))
	if err != nil {
		return nil, err
	}
	s.logger.Info("entities created", "entity", s.entity.Tag.Display(), "count", len(saved))
	return mapper.ToModels[M, S](s.mapper, saved)
}

func (s *entityService[M, S, PS]) update(ctx context.Context, m *M) (*M, error) {
	if s.mapperErr != nil {
		return nil, s.mapperErr
	}
	if err := s.validator.Validate(types.OperationUpdate, m); err != nil {
		return nil, err
	}
	id := *model.IdentityOf(m)
	row, err := s.require(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(m); err != nil {
		return nil, err
	}
	if err := s.mapper.Merge(m, row); err != nil {
		return nil, err
	}
	affected, err := s.repo.Update(ctx, row)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, &types.NotFoundError{Entity: s.entity.Tag.Display(), Filter: types.ByID(id)}
	}
	fresh, err := s.require(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToModel(fresh)
}

// require loads the row with id, or fails with a NotFoundError.
func (s *entityService[M, S, PS]) require(ctx context.Context, id int64) (*S, error) {
	rows, err := s.repo.FindByFilter(ctx, types.ByID(id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &types.NotFoundError{Entity: s.entity.Tag.Display(), Filter: types.ByID(id)}
	}
	return rows[0], nil
}

func (s *entityService[M, S, PS]) checkUnique(ctx context.Context, m *M) error {
	if s.entity.Unique == nil {
		return nil
	}
	for _, c := range s.entity.Unique(m) {
		rows, err := s.repo.FindByFilter(ctx, c.Filter)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			return &types.DuplicateRecordError{Entity: s.entity.Tag.Display(), Message: c.Message}
		}
	}
	return nil
}

func (s *entityService[M, S, PS]) prepare(m *M) error {
	if s.entity.Prepare == nil {
		return nil
	}
	return s.entity.Prepare(m)
}

func (s *entityService[M, S, PS]) decode(raw map[string]any) (*M, error) {
	m := new(M)
	if err := model.Decode(raw, m); err != nil {
		return nil, types.NewValidationError(s.entity.Tag.Display(), types.Violation{Message: err.Error()})
	}
	return m, nil
}

// fail converts err into a failure envelope. Unclassified errors are marked
// critical in debug mode.
func (s *entityService[M, S, PS]) fail(op string, err error) *envelope.Envelope[M] {
	if s.debug && !classified(err) {
		err = types.Critical(err)
	}
	s.logger.Debug("service operation failed", "entity", s.entity.Tag.Display(), "op", op, "error", err)
	return envelope.FromError[M](err)
}

func classified(err error) bool {
	var (
		validation *types.ValidationError
		duplicate  *types.DuplicateRecordError
		notFound   *types.NotFoundError
	)
	return errors.As(err, &validation) || errors.As(err, &duplicate) || errors.As(err, &notFound)
}
