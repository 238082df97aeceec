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

type PostMapper struct {
	Attachments Mapper[model.Attachment, schema.Attachment]
}

func (pm PostMapper) ToSchema(m *model.Post) (*schema.Post, error) {
	if m == nil {
		return nil, nilModel(model.TagPost)
	}
	var err error
	s := &schema.Post{Base: auditToSchema(m.Auditable)}
	if s.UserID, err = required(model.TagPost, "user_id", m.UserID); err != nil {
		return nil, err
	}
	if s.Title, err = required(model.TagPost, "title", m.Title); err != nil {
		return nil, err
	}
	if s.Author, err = required(model.TagPost, "author", m.Author); err != nil {
		return nil, err
	}
	s.Description = clonePtr(m.Description)
	if m.PostedOn != nil {
		s.PostedOn = *m.PostedOn
	}
	if s.Attachments, err = ToSchemas(pm.Attachments, m.Attachments); err != nil {
		return nil, err
	}
	return s, nil
}

func (pm PostMapper) ToModel(s *schema.Post) (*model.Post, error) {
	if s == nil {
		return nil, nilSchema(model.TagPost)
	}
	attachments, err := ToModels(pm.Attachments, s.Attachments)
	if err != nil {
		return nil, err
	}
	return &model.Post{
		Auditable:   auditToModel(s.Base),
		UserID:      model.Ptr(s.UserID),
		Title:       model.Ptr(s.Title),
		Author:      model.Ptr(s.Author),
		Description: clonePtr(s.Description),
		PostedOn:    timePtr(s.PostedOn),
		Attachments: attachments,
	}, nil
}

func (pm PostMapper) Merge(src *model.Post, dst *schema.Post) error {
	if src == nil || dst == nil {
		return nilModel(model.TagPost)
	}
	set(&dst.UserID, src.UserID)
	set(&dst.Title, src.Title)
	set(&dst.Author, src.Author)
	setPtr(&dst.Description, src.Description)
	set(&dst.PostedOn, src.PostedOn)
	return nil
}

type AttachmentMapper struct{}

func (AttachmentMapper) ToSchema(m *model.Attachment) (*schema.Attachment, error) {
	if m == nil {
		return nil, nilModel(model.TagAttachment)
	}
	var err error
	s := &schema.Attachment{Base: auditToSchema(m.Auditable)}
	if m.PostID != nil {
		s.PostID = *m.PostID
	}
	if s.Filename, err = required(model.TagAttachment, "filename", m.Filename); err != nil {
		return nil, err
	}
	s.Data = append([]byte(nil), m.Data...)
	return s, nil
}

func (AttachmentMapper) ToModel(s *schema.Attachment) (*model.Attachment, error) {
	if s == nil {
		return nil, nilSchema(model.TagAttachment)
	}
	return &model.Attachment{
		Auditable: auditToModel(s.Base),
		PostID:    idPtr(s.PostID),
		Filename:  model.Ptr(s.Filename),
		Data:      append([]byte(nil), s.Data...),
	}, nil
}

func (AttachmentMapper) Merge(src *model.Attachment, dst *schema.Attachment) error {
	if src == nil || dst == nil {
		return nilModel(model.TagAttachment)
	}
	set(&dst.Filename, src.Filename)
	if src.Data != nil {
		dst.Data = append([]byte(nil), src.Data...)
	}
	return nil
}
