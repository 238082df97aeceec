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
	"fmt"

	"github.com/tomoncle/iws/model"
	"github.com/tomoncle/iws/repository"
	"github.com/tomoncle/iws/schema"
	"github.com/tomoncle/iws/types"
	"golang.org/x/crypto/bcrypt"
)

// NewUserService manages users with their addresses. Email and user name are
// unique; the password is stored as a bcrypt hash.
func NewUserService(provider repository.SessionProvider, opts ...Option) Service[model.User] {
	return NewService[model.User, schema.User](provider, Entity[model.User, schema.User]{
		Tag: model.TagUser,
		Unique: func(u *model.User) []Conflict {
			var out []Conflict
			if u.Email != nil {
				out = append(out, Conflict{
					Filter:  types.Filter{"email": *u.Email},
					Message: fmt.Sprintf("User '%s' is already registered!", *u.Email),
				})
			}
			if u.UserName != nil {
				out = append(out, Conflict{
					Filter:  types.Filter{"user_name": *u.UserName},
					Message: fmt.Sprintf("User '%s' is already registered!", *u.UserName),
				})
			}
			return out
		},
		Prepare: hashPassword,
	}, opts...)
}

// NewRoleService manages roles with their permissions. Role names are unique.
func NewRoleService(provider repository.SessionProvider, opts ...Option) Service[model.Role] {
	return NewService[model.Role, schema.Role](provider, Entity[model.Role, schema.Role]{
		Tag: model.TagRole,
		Unique: func(r *model.Role) []Conflict {
			return byName(r.Name, "Role [%s] already exists!")
		},
	}, opts...)
}

func NewPermissionService(provider repository.SessionProvider, opts ...Option) Service[model.Permission] {
	return NewService[model.Permission, schema.Permission](provider, Entity[model.Permission, schema.Permission]{
		Tag: model.TagPermission,
		Unique: func(p *model.Permission) []Conflict {
			return byName(p.Name, "Permission [%s] already exists!")
		},
	}, opts...)
}

func NewCompanyService(provider repository.SessionProvider, opts ...Option) Service[model.Company] {
	return NewService[model.Company, schema.Company](provider, Entity[model.Company, schema.Company]{
		Tag: model.TagCompany,
		Unique: func(c *model.Company) []Conflict {
			return byName(c.Name, "[%s] company already exists!")
		},
	}, opts...)
}

// NewContactService manages contact requests. Contacts are never deduplicated.
func NewContactService(provider repository.SessionProvider, opts ...Option) Service[model.Contact] {
	return NewService[model.Contact, schema.Contact](provider, Entity[model.Contact, schema.Contact]{
		Tag: model.TagContact,
	}, opts...)
}

// NewPostService manages posts with their attachments.
func NewPostService(provider repository.SessionProvider, opts ...Option) Service[model.Post] {
	return NewService[model.Post, schema.Post](provider, Entity[model.Post, schema.Post]{
		Tag: model.TagPost,
	}, opts...)
}

func byName(name *string, format string) []Conflict {
	if name == nil {
		return nil
	}
	return []Conflict{{Filter: types.Filter{"name": *name}, Message: fmt.Sprintf(format, *name)}}
}

// hashPassword replaces a provided plain password with its bcrypt hash.
func hashPassword(u *model.User) error {
	if u.Password == nil || *u.Password == "" {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(*u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = model.Ptr(string(hashed))
	return nil
}

// CheckPassword reports whether plain matches the stored hash of a user.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
