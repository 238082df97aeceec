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

package model

import "github.com/tomoncle/iws/types"

// Company may belong to a parent company; ParentID nil marks a root company.
type Company struct {
	Auditable `mapstructure:",squash"`
	Name      *string          `json:"name" mapstructure:"name" validate:"required"`
	ParentID  *int64           `json:"parent_id,omitempty" mapstructure:"parent_id"`
	Active    *bool            `json:"active" mapstructure:"active"`
	MetaData  types.JsonObject `json:"meta_data,omitempty" mapstructure:"meta_data"`
}
