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

package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/iws/types"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestSuccessHasOneItemAndNoErrors(t *testing.T) {
	env := Success(http.StatusCreated, &item{ID: 1, Name: "a"})

	assert.Equal(t, http.StatusCreated, env.Status)
	assert.Len(t, env.Data, 1)
	assert.False(t, env.HasError())

	raw, err := env.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":201,"data":[{"id":1,"name":"a"}],"errors":null}`, string(raw))
}

func TestListIsNeverNull(t *testing.T) {
	env := List[item](http.StatusOK, nil, "No item records found")

	raw, err := env.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200,"message":"No item records found","data":[],"errors":null}`, string(raw))
}

func TestFromErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		entries int
		message string
	}{
		{
			name: "validation",
			err: types.NewValidationError("User",
				types.Violation{Field: "email", Message: "User 'email' is required!"},
				types.Violation{Field: "password", Message: "User 'password' is required!"}),
			status: http.StatusUnprocessableEntity, entries: 2, message: "User 'email' is required!",
		},
		{
			name:   "duplicate",
			err:    &types.DuplicateRecordError{Entity: "Role", Message: "Role [admin] already exists!"},
			status: http.StatusConflict, entries: 1, message: "Role [admin] already exists!",
		},
		{
			name:   "wrapped not found",
			err:    fmt.Errorf("delete: %w", &types.NotFoundError{Entity: "User"}),
			status: http.StatusNotFound, entries: 1, message: "User doesn't exist!",
		},
		{
			name:   "mapping",
			err:    &types.MappingError{Entity: "User", Field: "email", Reason: "required field is absent"},
			status: http.StatusInternalServerError, entries: 1, message: "An unexpected error occurred!",
		},
		{
			name:   "unclassified",
			err:    &types.PersistenceError{Op: "save", Entity: "User", Err: errors.New("disk full")},
			status: http.StatusInternalServerError, entries: 1, message: "An unexpected error occurred!",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := FromError[item](tc.err)

			assert.Equal(t, tc.status, env.Status)
			assert.Nil(t, env.Data)
			require.Len(t, env.Errors, tc.entries)
			assert.Equal(t, tc.message, env.Errors[0].Message)
			for _, e := range env.Errors {
				assert.Equal(t, tc.status, e.Status)
				assert.Nil(t, e.DebugInfo)
			}
		})
	}
}

func TestCriticalErrorCarriesStack(t *testing.T) {
	env := FromError[item](types.Critical(errors.New("disk full")))

	require.Len(t, env.Errors, 1)
	exception, ok := env.Errors[0].DebugInfo["exception"].(string)
	require.True(t, ok)
	assert.Contains(t, exception, "disk full")
	assert.Contains(t, exception, "goroutine")
	assert.Equal(t, "An unexpected error occurred!", env.Errors[0].Message)

	raw, err := env.JSON()
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Nil(t, body["data"])
	assert.Len(t, body["errors"], 1)
}

func TestBuildResolvesPayload(t *testing.T) {
	env := Build[item](http.StatusOK, Items[item]{Values: []item{{ID: 1}, {ID: 2}}}, "", nil)
	assert.Len(t, env.Data, 2)

	env = Build[item](http.StatusBadRequest, Fault[item]{Err: BuildError(http.StatusBadRequest, "bad filter", nil, false)}, "ignored", nil)
	assert.True(t, env.HasError())
	assert.Empty(t, env.Message)
	assert.Equal(t, "bad filter", env.Errors[0].Message)

	env = Build[item](http.StatusForbidden, nil, "", nil)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "Forbidden", env.Errors[0].Message)

	env = Build[item](http.StatusOK, Item[item]{Value: &item{ID: 1}}, "Conflict on name", &types.DuplicateRecordError{Entity: "Item"})
	assert.Equal(t, http.StatusConflict, env.Status)
	assert.Nil(t, env.Data)
	assert.Equal(t, "Conflict on name", env.Errors[0].Message)
}
