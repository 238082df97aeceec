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
	"github.com/tomoncle/iws/model"
	"github.com/tomoncle/iws/schema"
)

type RoleMapper struct {
	Permissions Mapper[model.Permission, schema.Permission]
}

func (rm RoleMapper) ToSchema(m *model.Role) (*schema.Role, error) {
	if m == nil {
		return nil, nilModel(model.TagRole)
	}
	var err error
	s := &schema.Role{Base: auditToSchema(m.Auditable)}
	if s.Name, err = required(model.TagRole, "name", m.Name); err != nil {
		return nil, err
	}
	s.Active = clonePtr(m.Active)
	s.MetaData = m.MetaData.Clone()
	if s.Permissions, err = ToSchemas(rm.Permissions, m.Permissions); err != nil {
		return nil, err
	}
	return s, nil
}

func (rm RoleMapper) ToModel(s *schema.Role) (*model.Role, error) {
	if s == nil {
		return nil, nilSchema(model.TagRole)
	}
	permissions, err := ToModels(rm.Permissions, s.Permissions)
	if err != nil {
		return nil, err
	}
	return &model.Role{
		Auditable:   auditToModel(s.Base),
		Name:        model.Ptr(s.Name),
		Active:      clonePtr(s.Active),
		MetaData:    s.MetaData.Clone(),
		Permissions: permissions,
	}, nil
}

func (rm RoleMapper) Merge(src *model.Role, dst *schema.Role) error {
	if src == nil || dst == nil {
		return nilModel(model.TagRole)
	}
	set(&dst.Name, src.Name)
	setPtr(&dst.Active, src.Active)
	if src.MetaData != nil {
		dst.MetaData = src.MetaData.Clone()
	}
	return nil
}

type PermissionMapper struct{}

func (PermissionMapper) ToSchema(m *model.Permission) (*schema.Permission, error) {
	if m == nil {
		return nil, nilModel(model.TagPermission)
	}
	var err error
	s := &schema.Permission{Base: auditToSchema(m.Auditable)}
	if s.Name, err = required(model.TagPermission, "name", m.Name); err != nil {
		return nil, err
	}
	s.Description = clonePtr(m.Description)
	s.Active = clonePtr(m.Active)
	return s, nil
}

func (PermissionMapper) ToModel(s *schema.Permission) (*model.Permission, error) {
	if s == nil {
		return nil, nilSchema(model.TagPermission)
	}
	return &model.Permission{
		Auditable:   auditToModel(s.Base),
		Name:        model.Ptr(s.Name),
		Description: clonePtr(s.Description),
		Active:      clonePtr(s.Active),
	}, nil
}

func (PermissionMapper) Merge(src *model.Permission, dst *schema.Permission) error {
	if src == nil || dst == nil {
		return nilModel(model.TagPermission)
	}
	set(&dst.Name, src.Name)
	setPtr(&dst.Description, src.Description)
	setPtr(&dst.Active, src.Active)
	return nil
}
