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

package types

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	f := Filter{"name": "acme", "active": true, "id": []int64{1, 2}}

	assert.Equal(t, []string{"active", "id", "name"}, f.Keys())
	assert.Equal(t, "{active=true, id=[1 2], name=acme}", f.String())
	assert.Equal(t, Filter{"id": int64(3)}, ByID(3))
	assert.Empty(t, Filter(nil).Keys())
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "CREATE", OperationCreate.Name())
	assert.Equal(t, "UPDATE", OperationUpdate.String())
	assert.True(t, OperationDelete.IsValid())
	assert.False(t, Operation(9).IsValid())
	assert.Equal(t, IllegalName, Operation(9).Name())
	assert.Equal(t, 2, OperationUpdate.Number())
	assert.Equal(t, IllegalValue, Operation(9).Number())
	assert.Equal(t, "insert a new record", OperationCreate.Desc())
	assert.Equal(t, IllegalDesc, Operation(-1).Desc())

	op, ok := ParseOperation(" update ")
	assert.True(t, ok)
	assert.Equal(t, OperationUpdate, op)
	_, ok = ParseOperation("upsert")
	assert.False(t, ok)
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")

	perr := &PersistenceError{Op: "save", Entity: "User", Err: cause}
	assert.ErrorIs(t, perr, cause)
	assert.Equal(t, "User save failed: disk full", perr.Error())

	dup := &DuplicateRecordError{Entity: "Role", Err: cause}
	assert.Equal(t, "Role already exists!", dup.Error())
	assert.ErrorIs(t, dup, cause)

	assert.Equal(t, "Company doesn't exist!", (&NotFoundError{Entity: "Company"}).Error())
	assert.Equal(t, "mapping User.email: absent", (&MappingError{Entity: "User", Field: "email", Reason: "absent"}).Error())
}

func TestCritical(t *testing.T) {
	assert.Nil(t, Critical(nil))

	err := Critical(fmt.Errorf("wrap: %w", &NotFoundError{Entity: "User"}))
	var ce *CriticalError
	require.ErrorAs(t, err, &ce)
	assert.NotEmpty(t, ce.Stack)

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
	assert.Same(t, err, Critical(err), "already critical errors are kept")
}

func TestJsonObject(t *testing.T) {
	var j JsonObject
	require.NoError(t, j.Scan(`{"tier":"gold","seats":3}`))
	assert.Equal(t, "gold", j["tier"])
	assert.Equal(t, float64(3), j["seats"])

	v, err := j.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"tier":"gold","seats":3}`, v.(string))

	require.NoError(t, j.Scan([]byte(`{}`)))
	assert.Empty(t, j)
	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)
	assert.Error(t, j.Scan(42))

	v, err = JsonObject(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPageRequestConcurrentReads(t *testing.T) {
	req := NewPageRequest(0, 0, Filter{"active": true}, nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 0, req.GetOffset())
			assert.Equal(t, 10, req.GetPageSize())
		}()
	}
	wg.Wait()
	assert.Zero(t, req.page)
}

func TestPagination(t *testing.T) {
	req := NewDefaultPageRequest(0, 0)
	assert.Equal(t, 1, req.GetPage())
	assert.Equal(t, 10, req.GetPageSize())
	assert.Equal(t, 0, req.GetOffset())
	assert.Equal(t, 20, NewDefaultPageRequest(3, 10).GetOffset())
	assert.Zero(t, req.page, "defaults are not written back")
	assert.Zero(t, req.pageSize)

	p := NewDefaultPagination[int](1, 10)
	p.Total = 21
	assert.Equal(t, 3, p.Pages())
	assert.NotNil(t, p.Items)
}
