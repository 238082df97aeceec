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

type Post struct {
	bun.BaseModel `bun:"table:posts,alias:po"`
	Base

	UserID      int64     `bun:"user_id,notnull"`
	Title       string    `bun:"title,notnull"`
	Author      string    `bun:"author,notnull"`
	Description *string   `bun:"description"`
	PostedOn    time.Time `bun:"posted_on,nullzero,notnull,default:current_timestamp"`

	Attachments []*Attachment `bun:"rel:has-many,join:id=post_id"`
}

func (p *Post) Relations() []string {
	return []string{"Attachments"}
}

func (p *Post) Children() []Child {
	return []Child{{
		Model:      (*Attachment)(nil),
		ForeignKey: "post_id",
		Rows: func(ownerID int64) []any {
			rows := make([]any, 0, len(p.Attachments))
			for _, a := range p.Attachments {
				a.PostID = ownerID
				rows = append(rows, a)
			}
			return rows
		},
	}}
}

type Attachment struct {
	bun.BaseModel `bun:"table:attachments,alias:at"`
	Base

	PostID   int64  `bun:"post_id,notnull"`
	Filename string `bun:"filename,notnull"`
	Data     []byte `bun:"data"`
}
