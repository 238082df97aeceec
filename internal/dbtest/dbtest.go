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

// Package dbtest opens in-memory sqlite databases with every table of the
// module created, for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/iws/database"
	_ "github.com/tomoncle/iws/schema"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Open returns a fresh in-memory database holding the registered tables. It
// is closed when the test ends.
func Open(t testing.TB) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open(sqliteshim.ShimName, database.SQLiteForeignKeys("file::memory:"))
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewTableBootstrapper(db, nil).CreateTables(context.Background()))
	return db
}

// Count returns the number of rows of table.
func Count(t testing.TB, db *bun.DB, table string) int {
	t.Helper()
	var n int
	err := db.NewSelect().ColumnExpr("count(*)").TableExpr("?", bun.Ident(table)).Scan(context.Background(), &n)
	require.NoError(t, err)
	return n
}
