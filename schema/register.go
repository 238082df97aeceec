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

import "github.com/tomoncle/iws/database"

func cascade(table, column, refTable string) database.ForeignKeyConstraint {
	return database.ForeignKeyConstraint{
		Table:           table,
		Column:          column,
		ReferenceTable:  refTable,
		ReferenceColumn: "id",
		OnDelete:        "CASCADE",
	}
}

func init() {
	database.RegisteredModel(database.NewModelAdapter((*User)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Role)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Permission)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Contact)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Company)(nil), 10, database.ForeignKeyConstraint{
		Table:           "companies",
		Column:          "parent_id",
		ReferenceTable:  "companies",
		ReferenceColumn: "id",
		OnDelete:        "SET NULL",
	}))
	database.RegisteredModel(database.NewModelAdapter((*Address)(nil), 20, cascade("addresses", "user_id", "users")))
	database.RegisteredModel(database.NewModelAdapter((*Post)(nil), 20, cascade("posts", "user_id", "users")))
	database.RegisteredModel(database.NewModelAdapter((*Attachment)(nil), 30, cascade("attachments", "post_id", "posts")))
	database.RegisteredModel(database.NewModelAdapter((*RolePermission)(nil), 30,
		cascade("role_permissions", "role_id", "roles"),
		cascade("role_permissions", "permission_id", "permissions"),
	))
}
