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
	"github.com/tomoncle/iws/types"
	"github.com/uptrace/bun"
)

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`
	Base

	Name     string           `bun:"name,notnull,unique"`
	Active   *bool            `bun:"active"`
	MetaData types.JsonObject `bun:"meta_data"`

	Permissions []*Permission `bun:"m2m:role_permissions,join:Role=Permission"`
}

func (r *Role) Relations() []string {
	return []string{"Permissions"}
}

// Children inserts the permissions that are new, then links every permission
// of the role. Only the links are removed with the role.
func (r *Role) Children() []Child {
	return []Child{
		{
			Model: (*Permission)(nil),
			Rows: func(int64) []any {
				var rows []any
				for _, p := range r.Permissions {
					if p.ID == 0 {
						rows = append(rows, p)
					}
				}
				return rows
			},
		},
		{
			Model:      (*RolePermission)(nil),
			ForeignKey: "role_id",
			Rows: func(ownerID int64) []any {
				rows := make([]any, 0, len(r.Permissions))
				for _, p := range r.Permissions {
					rows = append(rows, &RolePermission{RoleID: ownerID, PermissionID: p.ID})
				}
				return rows
			},
		},
	}
}

type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`
	Base

	Name        string  `bun:"name,notnull,unique"`
	Description *string `bun:"description"`
	Active      *bool   `bun:"active"`
}

// Children removes the role links of a deleted permission.
func (p *Permission) Children() []Child {
	return []Child{{Model: (*RolePermission)(nil), ForeignKey: "permission_id"}}
}

// RolePermission is the join table between roles and permissions.
type RolePermission struct {
	bun.BaseModel `bun:"table:role_permissions,alias:rp"`

	RoleID       int64       `bun:"role_id,pk"`
	Role         *Role       `bun:"rel:belongs-to,join:role_id=id"`
	PermissionID int64       `bun:"permission_id,pk"`
	Permission   *Permission `bun:"rel:belongs-to,join:permission_id=id"`
}
