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

type CompanyMapper struct{}

func (CompanyMapper) ToSchema(m *model.Company) (*schema.Company, error) {
	if m == nil {
		return nil, nilModel(model.TagCompany)
	}
	var err error
	s := &schema.Company{Base: auditToSchema(m.Auditable)}
	if s.Name, err = required(model.TagCompany, "name", m.Name); err != nil {
		return nil, err
	}
	s.ParentID = clonePtr(m.ParentID)
	s.Active = clonePtr(m.Active)
	s.MetaData = m.MetaData.Clone()
	return s, nil
}

func (CompanyMapper) ToModel(s *schema.Company) (*model.Company, error) {
	if s == nil {
		return nil, nilSchema(model.TagCompany)
	}
	return &model.Company{
		Auditable: auditToModel(s.Base),
		Name:      model.Ptr(s.Name),
		ParentID:  clonePtr(s.ParentID),
		Active:    clonePtr(s.Active),
		MetaData:  s.MetaData.Clone(),
	}, nil
}

func (CompanyMapper) Merge(src *model.Company, dst *schema.Company) error {
	if src == nil || dst == nil {
		return nilModel(model.TagCompany)
	}
	set(&dst.Name, src.Name)
	setPtr(&dst.ParentID, src.ParentID)
	setPtr(&dst.Active, src.Active)
	if src.MetaData != nil {
		dst.MetaData = src.MetaData.Clone()
	}
	return nil
}
