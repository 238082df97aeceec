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
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	Base

	Email     string     `bun:"email,notnull,unique"`
	FirstName string     `bun:"first_name,notnull"`
	LastName  string     `bun:"last_name,notnull"`
	BirthDate time.Time  `bun:"birth_date,notnull"`
	UserName  string     `bun:"user_name,notnull,unique"`
	Password  string     `bun:"password,notnull"`
	Admin     *bool      `bun:"admin"`
	LastSeen  *time.Time `bun:"last_seen"`
	AvatarURL *string    `bun:"avatar_url"`

	Addresses []*Address `bun:"rel:has-many,join:id=user_id"`
}

func (u *User) Relations() []string {
	return []string{"Addresses"}
}

func (u *User) Children() []Child {
	return []Child{{
		Model:      (*Address)(nil),
		ForeignKey: "user_id",
		Rows: func(ownerID int64) []any {
			rows := make([]any, 0, len(u.Addresses))
			for _, a := range u.Addresses {
				a.UserID = ownerID
				rows = append(rows, a)
			}
			return rows
		},
	}}
}

type Address struct {
	bun.BaseModel `bun:"table:addresses,alias:a"`
	Base

	UserID  int64   `bun:"user_id,notnull"`
	Street1 string  `bun:"street1,notnull"`
	Street2 *string `bun:"street2"`
	City    string  `bun:"city,notnull"`
	State   string  `bun:"state,notnull"`
	Country string  `bun:"country,notnull"`
	Zip     string  `bun:"zip,notnull"`
}
