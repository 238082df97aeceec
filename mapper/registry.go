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
	"fmt"
	"sync"

	"github.com/tomoncle/iws/model"
	"github.com/tomoncle/iws/schema"
	"github.com/tomoncle/iws/types"
)

// Registry resolves mappers by entity tag.
type Registry struct {
	mu      sync.RWMutex
	mappers map[model.Tag]any
}

func NewRegistry() *Registry {
	return &Registry{mappers: make(map[model.Tag]any)}
}

// Register stores m under tag, replacing any previous mapper.
func Register[M any, S any](r *Registry, tag model.Tag, m EntityMapper[M, S]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[tag] = m
}

// Lookup returns the mapper registered under tag. A missing tag or a mapper of
// another entity pair is a MappingError.
func Lookup[M any, S any](r *Registry, tag model.Tag) (EntityMapper[M, S], error) {
	r.mu.RLock()
	m, ok := r.mappers[tag]
	r.mu.RUnlock()
	if !ok {
		return nil, &types.MappingError{Entity: tag.Display(), Reason: "no mapper registered"}
	}
	typed, ok := m.(EntityMapper[M, S])
	if !ok {
		var mz *M
		var sz *S
		return nil, &types.MappingError{
			Entity: tag.Display(),
			Reason: fmt.Sprintf("registered mapper %T does not map %T to %T", m, mz, sz),
		}
	}
	return typed, nil
}

// Tags lists the registered entity tags.
func (r *Registry) Tags() []model.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]model.Tag, 0, len(r.mappers))
	for t := range r.mappers {
		tags = append(tags, t)
	}
	return tags
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the registry holding every entity mapper of this module.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		address := AddressMapper{}
		permission := PermissionMapper{}
		attachment := AttachmentMapper{}
		Register[model.Address, schema.Address](r, model.TagAddress, address)
		Register[model.User, schema.User](r, model.TagUser, UserMapper{Addresses: address})
		Register[model.Permission, schema.Permission](r, model.TagPermission, permission)
		Register[model.Role, schema.Role](r, model.TagRole, RoleMapper{Permissions: permission})
		Register[model.Company, schema.Company](r, model.TagCompany, CompanyMapper{})
		Register[model.Contact, schema.Contact](r, model.TagContact, ContactMapper{})
		Register[model.Attachment, schema.Attachment](r, model.TagAttachment, attachment)
		Register[model.Post, schema.Post](r, model.TagPost, PostMapper{Attachments: attachment})
		defaultRegistry = r
	})
	return defaultRegistry
}
