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

type ContactMapper struct{}

func (ContactMapper) ToSchema(m *model.Contact) (*schema.Contact, error) {
	if m == nil {
		return nil, nilModel(model.TagContact)
	}
	var err error
	s := &schema.Contact{Base: auditToSchema(m.Auditable)}
	if s.FirstName, err = required(model.TagContact, "first_name", m.FirstName); err != nil {
		return nil, err
	}
	if s.LastName, err = required(model.TagContact, "last_name", m.LastName); err != nil {
		return nil, err
	}
	if s.Country, err = required(model.TagContact, "country", m.Country); err != nil {
		return nil, err
	}
	if s.Subject, err = required(model.TagContact, "subject", m.Subject); err != nil {
		return nil, err
	}
	return s, nil
}

func (ContactMapper) ToModel(s *schema.Contact) (*model.Contact, error) {
	if s == nil {
		return nil, nilSchema(model.TagContact)
	}
	return &model.Contact{
		Auditable: auditToModel(s.Base),
		FirstName: model.Ptr(s.FirstName),
		LastName:  model.Ptr(s.LastName),
		Country:   model.Ptr(s.Country),
		Subject:   model.Ptr(s.Subject),
	}, nil
}

func (ContactMapper) Merge(src *model.Contact, dst *schema.Contact) error {
	if src == nil || dst == nil {
		return nilModel(model.TagContact)
	}
	set(&dst.FirstName, src.FirstName)
	set(&dst.LastName, src.LastName)
	set(&dst.Country, src.Country)
	set(&dst.Subject, src.Subject)
	return nil
}
