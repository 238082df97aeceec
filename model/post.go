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

import "time"

// Post is written by a user and owns its attachments.
type Post struct {
	Auditable   `mapstructure:",squash"`
	UserID      *int64       `json:"user_id" mapstructure:"user_id" validate:"required"`
	Title       *string      `json:"title" mapstructure:"title" validate:"required"`
	Author      *string      `json:"author" mapstructure:"author" validate:"required"`
	Description *string      `json:"description,omitempty" mapstructure:"description"`
	PostedOn    *time.Time   `json:"posted_on,omitempty" mapstructure:"posted_on"`
	Attachments []Attachment `json:"attachments" mapstructure:"attachments" validate:"dive"`
}

type Attachment struct {
	Auditable `mapstructure:",squash"`
	PostID    *int64  `json:"post_id,omitempty" mapstructure:"post_id"`
	Filename  *string `json:"filename" mapstructure:"filename" validate:"required"`
	Data      []byte  `json:"data" mapstructure:"data" validate:"required"`
}
