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
	"time"

	"github.com/tomoncle/iws/model"
	"github.com/tomoncle/iws/schema"
	"github.com/tomoncle/iws/types"
)

type UserMapper struct {
	Addresses Mapper[model.Address, schema.Address]
}

func (um UserMapper) ToSchema(m *model.User) (*schema.User, error) {
	if m == nil {
		return nil, nilModel(model.TagUser)
	}
	var err error
	s := &schema.User{Base: auditToSchema(m.Auditable)}
	if s.Email, err = required(model.TagUser, "email", m.Email); err != nil {
		return nil, err
	}
	if s.FirstName, err = required(model.TagUser, "first_name", m.FirstName); err != nil {
		return nil, err
	}
	if s.LastName, err = required(model.TagUser, "last_name", m.LastName); err != nil {
		return nil, err
	}
	birthDate, err := required(model.TagUser, "birth_date", m.BirthDate)
	if err != nil {
		return nil, err
	}
	if s.BirthDate, err = time.Parse(model.DateLayout, birthDate); err != nil {
		return nil, &types.MappingError{Entity: model.TagUser.Display(), Field: "birth_date", Reason: err.Error()}
	}
	if s.UserName, err = required(model.TagUser, "user_name", m.UserName); err != nil {
		return nil, err
	}
	if s.Password, err = required(model.TagUser, "password", m.Password); err != nil {
		return nil, err
	}
	s.Admin = clonePtr(m.Admin)
	s.LastSeen = clonePtr(m.LastSeen)
	s.AvatarURL = clonePtr(m.AvatarURL)
	if s.Addresses, err = ToSchemas(um.Addresses, m.Addresses); err != nil {
		return nil, err
	}
	return s, nil
}

func (um UserMapper) ToModel(s *schema.User) (*model.User, error) {
	if s == nil {
		return nil, nilSchema(model.TagUser)
	}
	addresses, err := ToModels(um.Addresses, s.Addresses)
	if err != nil {
		return nil, err
	}
	return &model.User{
		Auditable: auditToModel(s.Base),
		Email:     model.Ptr(s.Email),
		FirstName: model.Ptr(s.FirstName),
		LastName:  model.Ptr(s.LastName),
		BirthDate: model.Ptr(s.BirthDate.UTC().Format(model.DateLayout)),
		UserName:  model.Ptr(s.UserName),
		Password:  model.Ptr(s.Password),
		Admin:     clonePtr(s.Admin),
		LastSeen:  clonePtr(s.LastSeen),
		AvatarURL: clonePtr(s.AvatarURL),
		Addresses: addresses,
	}, nil
}

// Merge copies the provided scalar fields. An unparsable birth date is a
// ValidationError since it comes from client input.
func (um UserMapper) Merge(src *model.User, dst *schema.User) error {
	if src == nil || dst == nil {
		return nilModel(model.TagUser)
	}
	set(&dst.Email, src.Email)
	set(&dst.FirstName, src.FirstName)
	set(&dst.LastName, src.LastName)
	if src.BirthDate != nil {
		birthDate, err := time.Parse(model.DateLayout, *src.BirthDate)
		if err != nil {
			return types.NewValidationError(model.TagUser.Display(), types.Violation{
				Field:   "birth_date",
				Message: fmt.Sprintf("User 'birth_date' must match %s!", model.DateLayout),
			})
		}
		dst.BirthDate = birthDate
	}
	set(&dst.UserName, src.UserName)
	set(&dst.Password, src.Password)
	setPtr(&dst.Admin, src.Admin)
	setPtr(&dst.LastSeen, src.LastSeen)
	setPtr(&dst.AvatarURL, src.AvatarURL)
	return nil
}

type AddressMapper struct{}

func (AddressMapper) ToSchema(m *model.Address) (*schema.Address, error) {
	if m == nil {
		return nil, nilModel(model.TagAddress)
	}
	var err error
	s := &schema.Address{Base: auditToSchema(m.Auditable)}
	if m.UserID != nil {
		s.UserID = *m.UserID
	}
	if s.Street1, err = required(model.TagAddress, "street1", m.Street1); err != nil {
		return nil, err
	}
	s.Street2 = clonePtr(m.Street2)
	if s.City, err = required(model.TagAddress, "city", m.City); err != nil {
		return nil, err
	}
	if s.State, err = required(model.TagAddress, "state", m.State); err != nil {
		return nil, err
	}
	if s.Country, err = required(model.TagAddress, "country", m.Country); err != nil {
		return nil, err
	}
	if s.Zip, err = required(model.TagAddress, "zip", m.Zip); err != nil {
		return nil, err
	}
	return s, nil
}

func (AddressMapper) ToModel(s *schema.Address) (*model.Address, error) {
	if s == nil {
		return nil, nilSchema(model.TagAddress)
	}
	return &model.Address{
		Auditable: auditToModel(s.Base),
		UserID:    idPtr(s.UserID),
		Street1:   model.Ptr(s.Street1),
		Street2:   clonePtr(s.Street2),
		City:      model.Ptr(s.City),
		State:     model.Ptr(s.State),
		Country:   model.Ptr(s.Country),
		Zip:       model.Ptr(s.Zip),
	}, nil
}

func (AddressMapper) Merge(src *model.Address, dst *schema.Address) error {
	if src == nil || dst == nil {
		return nilModel(model.TagAddress)
	}
	set(&dst.Street1, src.Street1)
	setPtr(&dst.Street2, src.Street2)
	set(&dst.City, src.City)
	set(&dst.State, src.State)
	set(&dst.Country, src.Country)
	set(&dst.Zip, src.Zip)
	return nil
}
