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
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func writeSeed(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func openMemory(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSplitStatements(t *testing.T) {
	statements := SplitStatements(`
-- reference data
INSERT INTO roles (name)
VALUES ('admin');

INSERT INTO roles (name) VALUES ('guest');
SELECT 1`)

	assert.Equal(t, []string{
		"INSERT INTO roles (name) VALUES ('admin');",
		"INSERT INTO roles (name) VALUES ('guest');",
		"SELECT 1",
	}, statements)
}

func TestSeederRunsFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeSeed(t, dir, "zz_notes.sql", "INSERT INTO tags (name) VALUES ('last');")
	writeSeed(t, dir, "10_data.sql", "INSERT INTO tags (name) VALUES ('a');\nINSERT INTO tags (name) VALUES ('b');")
	writeSeed(t, dir, "2_schema.sql", "CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT NOT NULL);")
	writeSeed(t, dir, "README.md", "not sql")

	db := openMemory(t)
	seeder := NewSeeder(db, dir, nil)

	files, err := seeder.Files()
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, []string{"2_schema.sql", "10_data.sql", "zz_notes.sql"}, []string{files[0].Name, files[1].Name, files[2].Name})

	results, err := seeder.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 2, results[1].Statements)
	assert.Equal(t, int64(2), results[1].RowsAffected)

	var n int
	require.NoError(t, db.NewSelect().ColumnExpr("count(*)").TableExpr("tags").Scan(context.Background(), &n))
	assert.Equal(t, 3, n)
}

func TestSeederRollsBackFailingFile(t *testing.T) {
	dir := t.TempDir()
	writeSeed(t, dir, "1_schema.sql", "CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE);")
	writeSeed(t, dir, "2_data.sql", "INSERT INTO tags (name) VALUES ('a');\nINSERT INTO tags (name) VALUES ('a');")

	db := openMemory(t)
	results, err := NewSeeder(db, dir, nil).Run(context.Background())

	require.Error(t, err)
	assert.Len(t, results, 1)
	var n int
	require.NoError(t, db.NewSelect().ColumnExpr("count(*)").TableExpr("tags").Scan(context.Background(), &n))
	assert.Equal(t, 0, n)
}
