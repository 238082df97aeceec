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

package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForeignKeyConstraint(t *testing.T) {
	fk := ForeignKeyConstraint{
		Table:           "addresses",
		Column:          "user_id",
		ReferenceTable:  "users",
		ReferenceColumn: "id",
		OnDelete:        "cascade",
	}
	require.NoError(t, fk.Validate())
	assert.Equal(t, "fk_addresses_user_id", fk.GenerateConstraintName())
	assert.Equal(t, "(user_id) REFERENCES users (id) ON DELETE CASCADE", fk.Clause())

	fk.OnUpdate = "explode"
	assert.Error(t, fk.Validate())

	assert.Error(t, (&ForeignKeyConstraint{Table: "addresses"}).Validate())
}

func TestForeignKeyManagerLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
foreign_keys:
  - table: posts
    column: user_id
    reference_table: users
    reference_column: id
    on_delete: CASCADE
  - table: posts
    column: editor_id
`), 0o600))

	fkm := &ForeignKeyManager{}
	require.NoError(t, fkm.LoadFile(path))

	posts := fkm.GetConstraintsByTable("POSTS")
	require.Len(t, posts, 1, "invalid entries are skipped")
	assert.Equal(t, "user_id", posts[0].Column)
	assert.Len(t, fkm.ListAllConstraints(), 1)

	assert.Error(t, fkm.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}
