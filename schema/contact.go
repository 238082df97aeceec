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

import "github.com/uptrace/bun"

type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:ct"`
	Base

	FirstName string `bun:"first_name,notnull"`
	LastName  string `bun:"last_name,notnull"`
	Country   string `bun:"country,notnull"`
	Subject   string `bun:"subject,notnull"`
}
