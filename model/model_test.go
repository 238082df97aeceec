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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUser(t *testing.T) {
	var u User
	err := Decode(map[string]any{
		"id":         "5",
		"email":      "a@b.com",
		"first_name": "A",
		"last_name":  nil,
		"admin":      "true",
		"last_seen":  "2024-05-01T10:00:00Z",
		"created_at": "2000-01-01T00:00:00Z",
		"unknown":    "ignored",
		"addresses": []any{
			map[string]any{"street1": "1 First St", "zip": 75001},
		},
	}, &u)
	require.NoError(t, err)

	require.NotNil(t, u.ID)
	assert.Equal(t, int64(5), *u.ID)
	assert.Equal(t, "a@b.com", *u.Email)
	assert.Nil(t, u.LastName)
	assert.Nil(t, u.CreatedAt, "timestamps are never taken from input")
	assert.True(t, *u.Admin)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), *u.LastSeen)
	require.Len(t, u.Addresses, 1)
	assert.Equal(t, "75001", *u.Addresses[0].Zip)
	assert.Nil(t, u.Addresses[0].City)
}

func TestDecodeAttachmentData(t *testing.T) {
	var p Post
	err := Decode(map[string]any{
		"title":       "hello",
		"attachments": []any{map[string]any{"filename": "a.txt", "data": "aGVsbG8="}},
	}, &p)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), p.Attachments[0].Data)

	err = Decode(map[string]any{"attachments": []any{map[string]any{"data": "%%%"}}}, &p)
	assert.Error(t, err)
}

func TestDecodeRejectsBadValues(t *testing.T) {
	var c Company
	assert.Error(t, Decode(map[string]any{"active": "maybe"}, &c))
}

func TestIdentity(t *testing.T) {
	assert.Nil(t, IdentityOf(&Role{}))
	assert.Equal(t, int64(3), *IdentityOf(&Role{Auditable: Auditable{ID: Ptr(int64(3))}}))
	assert.Nil(t, IdentityOf("not a model"))
}

func TestTagDisplay(t *testing.T) {
	assert.Equal(t, "User", TagUser.Display())
	assert.Equal(t, "Attachment", TagAttachment.Display())
	assert.Equal(t, "", Tag("").Display())
}
