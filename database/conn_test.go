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

package database_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/iws/database"
	"github.com/tomoncle/iws/schema"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestRegisteredModelsArePrioritized(t *testing.T) {
	models := database.GetRegisteredModels()
	require.NotEmpty(t, models)
	for i := 1; i < len(models); i++ {
		assert.LessOrEqual(t, models[i-1].Priority(), models[i].Priority())
	}
	assert.IsType(t, (*schema.User)(nil), models[0].Instance())
}

func TestRegistrationOrderPutsJoinModelsFirst(t *testing.T) {
	index := func(model interface{}) int {
		for i, m := range database.RegistrationOrder() {
			if reflect.TypeOf(m) == reflect.TypeOf(model) {
				return i
			}
		}
		return -1
	}
	join := index((*schema.RolePermission)(nil))
	require.NotEqual(t, -1, join)
	assert.Less(t, join, index((*schema.Role)(nil)))
}

func TestRegisterModelsResolvesManyToMany(t *testing.T) {
	sqlDB, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	database.RegisterModels(db)
	database.RegisterModels(db)

	table := db.Table(reflect.TypeOf(schema.Role{}))
	require.Contains(t, table.Relations, "Permissions")
	assert.Equal(t, "role_permissions", table.Relations["Permissions"].M2MTable.Name)
}

func TestOpenSQLiteMemory(t *testing.T) {
	seeds := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(seeds, "1_companies.sql"),
		[]byte("INSERT INTO companies (name) VALUES ('acme');"), 0o600))

	cfg := &database.Config{
		ConnectionConfig: *database.DefaultConnectionConfig(),
		BootstrapConfig: database.BootstrapConfig{
			CreateTablesOnStartup: true,
			SeedDir:               seeds,
		},
	}
	cfg.ConnectionConfig.Type = "sqlite"
	cfg.ConnectionConfig.DBName = ":memory:"

	ctx := context.Background()
	factory, db, err := database.Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })

	var companies []schema.Company
	require.NoError(t, db.NewSelect().Model(&companies).Scan(ctx))
	require.Len(t, companies, 1)
	assert.Equal(t, "acme", companies[0].Name)
	assert.False(t, companies[0].CreatedAt.IsZero())

	var enabled int
	require.NoError(t, db.NewRaw("PRAGMA foreign_keys").Scan(ctx, &enabled))
	assert.Equal(t, 1, enabled)

	health := factory.GetHealthStatus(ctx)
	assert.True(t, health.Healthy)
	assert.Equal(t, 1, factory.GetStats().MaxOpenConns)
}

func TestOpenFileThenDropTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
connection_config:
  type: sqlite
  dbname: ":memory:"
bootstrap_config:
  create_tables_on_startup: true
`), 0o600))

	ctx := context.Background()
	factory, db, err := database.OpenFile(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = factory.Close() })

	count, err := db.NewSelect().Model((*schema.Role)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, database.NewTableBootstrapper(db, nil).DropTables(ctx))
	_, err = db.NewSelect().Model((*schema.Role)(nil)).Count(ctx)
	assert.Error(t, err)
}

func TestOpenFileMissing(t *testing.T) {
	_, _, err := database.OpenFile(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestOpenRejectsUnknownType(t *testing.T) {
	cfg := &database.Config{ConnectionConfig: database.ConnectionConfig{Type: "oracle"}}
	_, _, err := database.Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestSQLiteForeignKeys(t *testing.T) {
	cases := map[string]string{
		"file::memory:":                  "file::memory:?_pragma=foreign_keys(1)&_foreign_keys=1",
		"iws.db?_busy_timeout=5000":      "iws.db?_busy_timeout=5000&_pragma=foreign_keys(1)&_foreign_keys=1",
		"iws.db?_pragma=foreign_keys(0)": "iws.db?_pragma=foreign_keys(0)",
	}
	for in, want := range cases {
		assert.Equal(t, want, database.SQLiteForeignKeys(in), in)
	}
}
